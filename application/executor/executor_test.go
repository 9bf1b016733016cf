package executor

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dms_automation/application/locator"
	"dms_automation/domain/entities"
	"dms_automation/infrastructure/browser/browsertest"
)

type recordingStore struct {
	names []string
}

func (r *recordingStore) Capture(ctx context.Context, name string) string {
	r.names = append(r.names, name)
	return name
}

var (
	buttonSel  = entities.XPath("//button[contains(.,'确定')]")
	optionSel  = entities.XPath("//li[contains(.,'密码')]")
	triggerSel = entities.CSS(".el-select")
	listSel    = entities.CSS(".el-select-dropdown__wrap")
)

func listTarget() entities.Target {
	return entities.Target{
		Role:       entities.RoleDropdownWrap,
		Strategies: []entities.LocatorStrategy{{Name: "wrap", Selector: listSel}},
	}
}

func triggerTarget() entities.Target {
	return entities.Target{
		Role:        entities.RoleSelectTrigger,
		Interactive: true,
		Strategies:  []entities.LocatorStrategy{{Name: "select", Selector: triggerSel}},
	}
}

func optionTarget() entities.Target {
	return entities.Target{
		Role:        entities.RoleDropdownOption,
		Interactive: true,
		Strategies:  []entities.LocatorStrategy{{Name: "option", Selector: optionSel}},
	}
}

// toggleDropdown makes the trigger open and close the list and its option on
// alternate clicks, the way an el-select does
func toggleDropdown(page *browsertest.Page) (trigger, list, option *browsertest.Element) {
	trigger = browsertest.NewElement("trigger")
	list = browsertest.NewElement("list").Hidden()
	option = browsertest.NewElement("option").Hidden()
	trigger.OnClick = func() {
		list.Displayed = !list.Displayed
		option.Displayed = list.Displayed
	}
	page.Add(triggerSel, trigger).Add(listSel, list).Add(optionSel, option)
	return trigger, list, option
}

func buttonTarget() entities.Target {
	return entities.Target{
		Role:        entities.RoleConfirmButton,
		Interactive: true,
		Strategies:  []entities.LocatorStrategy{{Name: "confirm", Selector: buttonSel}},
	}
}

func newExecutor(page *browsertest.Page) (*Executor, *recordingStore) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	timing := entities.Timing{PollInterval: time.Millisecond, ElementTimeout: 10 * time.Millisecond}
	store := &recordingStore{}
	return NewExecutor(locator.NewLocator(page, timing, logger), store, timing, logger), store
}

func staleErr() error {
	return entities.Transient(entities.ErrStaleElement, errors.New("node detached"))
}

func TestClickNativeSucceeds(t *testing.T) {
	page := browsertest.NewPage("")
	button := browsertest.NewElement("confirm")
	page.Add(buttonSel, button)

	exec, _ := newExecutor(page)
	res := exec.Click(context.Background(), buttonTarget())

	require.True(t, res.Succeeded)
	assert.Equal(t, entities.MechanismNative, res.Mechanism)
	assert.Equal(t, "confirm", res.Strategy)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, button.Scrolls)
}

func TestClickFallsBackToScriptThenPointer(t *testing.T) {
	page := browsertest.NewPage("")
	button := browsertest.NewElement("confirm")
	button.ClickErrs = []error{entities.Transient(entities.ErrClickIntercepted, errors.New("overlay"))}
	button.ScriptClickErrs = []error{staleErr()}
	page.Add(buttonSel, button)

	exec, _ := newExecutor(page)
	res := exec.Click(context.Background(), buttonTarget())

	require.True(t, res.Succeeded)
	assert.Equal(t, entities.MechanismPointer, res.Mechanism)
	assert.Equal(t, 1, button.Clicks[entities.MechanismPointer])
	assert.Zero(t, button.Clicks[entities.MechanismNative])
}

func TestClickStopsAtFirstSuccessfulMechanism(t *testing.T) {
	page := browsertest.NewPage("")
	button := browsertest.NewElement("confirm")
	button.ClickErrs = []error{entities.Transient(entities.ErrNotInteractable, errors.New("zero size"))}
	page.Add(buttonSel, button)

	exec, _ := newExecutor(page)
	res := exec.Click(context.Background(), buttonTarget())

	require.True(t, res.Succeeded)
	assert.Equal(t, entities.MechanismScript, res.Mechanism)
	assert.Zero(t, button.Clicks[entities.MechanismPointer])
}

func TestClickAllMechanismsFailReportsNotInteractable(t *testing.T) {
	page := browsertest.NewPage("")
	button := browsertest.NewElement("confirm")
	button.ClickErrs = []error{staleErr()}
	button.ScriptClickErrs = []error{staleErr()}
	button.PointerClickErrs = []error{staleErr()}
	page.Add(buttonSel, button)

	exec, store := newExecutor(page)
	res := exec.Click(context.Background(), buttonTarget(), WithScreenshot("confirm_failed.png"))

	assert.False(t, res.Succeeded)
	assert.True(t, entities.IsKind(res.Err, entities.ActionNotInteractable))
	assert.Equal(t, []string{"confirm_failed.png"}, store.names)
}

func TestClickUnexpectedErrorSkipsFallbacks(t *testing.T) {
	page := browsertest.NewPage("")
	button := browsertest.NewElement("confirm")
	button.ClickErrs = []error{errors.New("session deleted")}
	page.Add(buttonSel, button)

	exec, _ := newExecutor(page)
	res := exec.Click(context.Background(), buttonTarget())

	assert.False(t, res.Succeeded)
	assert.True(t, entities.IsKind(res.Err, entities.UnexpectedCondition))
	assert.Zero(t, button.TotalClicks())
}

func TestClickRetriesWholeAttempt(t *testing.T) {
	page := browsertest.NewPage("")
	button := browsertest.NewElement("confirm")
	button.ClickErrs = []error{staleErr()}
	button.ScriptClickErrs = []error{staleErr()}
	button.PointerClickErrs = []error{staleErr()}
	page.Add(buttonSel, button)

	exec, store := newExecutor(page)
	res := exec.Click(context.Background(), buttonTarget(), WithAttempts(2), WithScreenshot("never.png"))

	require.True(t, res.Succeeded)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, entities.MechanismNative, res.Mechanism)
	assert.Empty(t, store.names)
}

func TestClickNotFound(t *testing.T) {
	page := browsertest.NewPage("")

	exec, _ := newExecutor(page)
	res := exec.Click(context.Background(), buttonTarget(), WithAttempts(3))

	assert.False(t, res.Succeeded)
	assert.Equal(t, 3, res.Attempts)
	assert.True(t, entities.IsKind(res.Err, entities.ElementNotFound))
}

func TestSetValueReplacesContent(t *testing.T) {
	page := browsertest.NewPage("")
	input := browsertest.NewElement("input")
	input.SetValue("stale")
	target := entities.Target{
		Role:        entities.RoleTextInput,
		Interactive: true,
		Strategies:  []entities.LocatorStrategy{{Name: "input", Selector: entities.CSS("input")}},
	}
	page.Add(entities.CSS("input"), input)

	exec, _ := newExecutor(page)
	res := exec.SetValue(context.Background(), target, "fresh")

	require.True(t, res.Succeeded)
	assert.Equal(t, "fresh", input.Value())
}

func TestSelectOptionOpensDropdownAndPicks(t *testing.T) {
	page := browsertest.NewPage("")
	trigger, _, option := toggleDropdown(page)

	exec, _ := newExecutor(page)
	res := exec.SelectOption(context.Background(), triggerTarget(), listTarget(), entities.RoleDropdownOption, exec.Await(optionTarget()))

	require.True(t, res.Succeeded)
	assert.Equal(t, 1, trigger.TotalClicks())
	assert.Equal(t, 1, option.TotalClicks())
	assert.GreaterOrEqual(t, option.Scrolls, 1)
}

func TestSelectOptionRetryKeepsOpenDropdown(t *testing.T) {
	page := browsertest.NewPage("")
	trigger, list, option := toggleDropdown(page)
	// the first option click fails without closing the list
	option.ClickErrs = []error{errors.New("javascript error: detached")}

	exec, _ := newExecutor(page)
	res := exec.SelectOption(context.Background(), triggerTarget(), listTarget(), entities.RoleDropdownOption,
		exec.Await(optionTarget()), WithAttempts(2))

	require.True(t, res.Succeeded)
	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 1, trigger.TotalClicks())
	assert.Equal(t, 1, option.TotalClicks())
	assert.True(t, list.Displayed)
}

func TestSelectOptionRetryReopensClosedDropdown(t *testing.T) {
	page := browsertest.NewPage("")
	trigger, list, option := toggleDropdown(page)
	exec, _ := newExecutor(page)
	failures := 1
	// a failed pick that ends with the list closed, e.g. after a blur
	pick := func(ctx context.Context) (locator.Match, error) {
		if failures > 0 {
			failures--
			list.Displayed = false
			option.Displayed = false
			return locator.Match{}, entities.NewError(entities.ElementNotFound, entities.RoleDropdownOption, errors.New("not rendered"))
		}
		return exec.Await(optionTarget())(ctx)
	}

	res := exec.SelectOption(context.Background(), triggerTarget(), listTarget(), entities.RoleDropdownOption, pick, WithAttempts(2))

	require.True(t, res.Succeeded)
	assert.Equal(t, 2, trigger.TotalClicks())
	assert.Equal(t, 1, option.TotalClicks())
}

func TestSelectOptionMissingOptionReportsOptionRole(t *testing.T) {
	page := browsertest.NewPage("")
	page.Add(triggerSel, browsertest.NewElement("trigger"))

	exec, _ := newExecutor(page)
	res := exec.SelectOption(context.Background(), triggerTarget(), listTarget(), entities.RoleDropdownOption,
		exec.Await(optionTarget()), WithAttempts(2))

	assert.False(t, res.Succeeded)
	assert.Equal(t, 2, res.Attempts)
	var e *entities.Error
	require.ErrorAs(t, res.Err, &e)
	assert.Equal(t, entities.ElementNotFound, e.Kind)
	assert.Equal(t, entities.RoleDropdownOption, e.Role)
}
