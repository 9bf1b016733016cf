package entities

// SelectionMode says how a form field receives its value
type SelectionMode string

const (
	// SelectionText types the value into a text input.
	SelectionText SelectionMode = "direct-text-entry"
	// SelectionDropdown opens a select and picks the option with the value's text.
	SelectionDropdown SelectionMode = "dropdown-option-pick"
	// SelectionSearch picks from a long, lazily rendered option list using the tiered search.
	SelectionSearch SelectionMode = "searchable-dropdown-pick"
)

// FormFieldSpec describes one field of the authorization dialog
type FormFieldSpec struct {
	Label string        `json:"label"`
	Value string        `json:"value"`
	Mode  SelectionMode `json:"mode"`
}
