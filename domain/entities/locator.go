package entities

// Role is the logical name of a UI element the workflows interact with
type Role string

const (
	RoleUsernameField          Role = "username-field"
	RolePasswordField          Role = "password-field"
	RoleCaptchaField           Role = "captcha-field"
	RoleCaptchaImage           Role = "captcha-image"
	RoleLoginButton            Role = "login-button"
	RoleLoginMessage           Role = "login-message"
	RoleDetailReady            Role = "detail-ready"
	RoleAuthorizationTab       Role = "authorization-info-tab"
	RoleAddAuthorizationButton Role = "add-authorization-button"
	RoleDialog                 Role = "dialog"
	RoleDialogClose            Role = "dialog-close"
	RoleFormItem               Role = "form-item"
	RoleSelectTrigger          Role = "select-trigger"
	RoleTextInput              Role = "text-input"
	RoleDropdownOption         Role = "dropdown-option"
	RoleInstallerDropdown      Role = "installer-dropdown"
	RoleInstallerOption        Role = "installer-option"
	RoleDropdownWrap           Role = "dropdown-wrap"
	RoleDropdownItem           Role = "dropdown-item"
	RoleConfirmButton          Role = "confirm-button"
)

// LocatorStrategy is one way of finding the element playing a role. Strategies of a
// role are tried in the order they are declared.
type LocatorStrategy struct {
	Role     Role     `yaml:"-" json:"role"`
	Name     string   `yaml:"name" json:"name"`
	Selector Selector `yaml:",inline" json:"selector"`
}

// ID identifies the strategy in logs and attempt results
func (s LocatorStrategy) ID() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Selector.String()
}

// Target is everything the locator needs to resolve one role: the ordered strategies,
// whether the element must be enabled, and an optional enclosing scope that is
// resolved first so the strategies only match inside it.
type Target struct {
	Role        Role
	Interactive bool
	Strategies  []LocatorStrategy
	Scope       *Target
}

// Within - returns a copy of the target scoped to the given enclosing target
func (t Target) Within(scope Target) Target {
	t.Scope = &scope
	return t
}
