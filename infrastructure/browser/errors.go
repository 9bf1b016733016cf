package browser

import (
	"strings"

	"dms_automation/domain/entities"
)

// driver fault messages and the conditions they stand for, checked in order
var faultPatterns = []struct {
	fragment  string
	condition error
}{
	{"stale element", entities.ErrStaleElement},
	{"not attached to the dom", entities.ErrStaleElement},
	{"element is detached", entities.ErrStaleElement},
	{"click intercepted", entities.ErrClickIntercepted},
	{"intercepts pointer events", entities.ErrClickIntercepted},
	{"not interactable", entities.ErrNotInteractable},
	{"element is not visible", entities.ErrNotInteractable},
	{"element is not enabled", entities.ErrNotInteractable},
	{"element is outside of the viewport", entities.ErrNotInteractable},
	{"no such element", entities.ErrNoSuchElement},
}

// classifyMessage maps a driver fault onto a transient condition by its message.
// Faults it does not recognize are returned unchanged.
func classifyMessage(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, p := range faultPatterns {
		if strings.Contains(msg, p.fragment) {
			return entities.Transient(p.condition, err)
		}
	}
	return err
}
