package browser

import (
	"errors"
	"fmt"
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/tebeka/selenium"

	"dms_automation/domain/entities"
)

func TestClassifyMessage(t *testing.T) {
	cases := map[string]error{
		"stale element reference: element is not attached to the page document": entities.ErrStaleElement,
		"Element is not attached to the DOM":                                    entities.ErrStaleElement,
		"<div class=\"el-loading-mask\"> intercepts pointer events":             entities.ErrClickIntercepted,
		"element not interactable: element has zero size":                       entities.ErrNotInteractable,
		"no such element: Unable to locate element":                             entities.ErrNoSuchElement,
	}
	for msg, want := range cases {
		assert.ErrorIs(t, classifyMessage(errors.New(msg)), want, msg)
	}

	other := errors.New("net::ERR_CONNECTION_REFUSED")
	assert.Equal(t, other, classifyMessage(other))
	assert.False(t, entities.IsTransient(classifyMessage(other)))
	assert.NoError(t, classifyMessage(nil))
}

func TestClassifySelenium(t *testing.T) {
	err := classifySelenium(&selenium.Error{Err: "element click intercepted", Message: "other element would receive the click"})
	assert.ErrorIs(t, err, entities.ErrClickIntercepted)
	assert.True(t, entities.IsTransient(err))

	err = classifySelenium(fmt.Errorf("click: %w", &selenium.Error{Err: "stale element reference"}))
	assert.ErrorIs(t, err, entities.ErrStaleElement)

	err = classifySelenium(&selenium.Error{Err: "no such element"})
	assert.ErrorIs(t, err, entities.ErrNoSuchElement)
	assert.False(t, entities.IsTransient(err))
}

func TestClassifyPlaywrightTimeout(t *testing.T) {
	err := classifyPlaywright(fmt.Errorf("click: %w", playwright.ErrTimeout))
	assert.ErrorIs(t, err, entities.ErrNotInteractable)
	assert.True(t, entities.IsTransient(err))
}

func TestSelectors(t *testing.T) {
	assert.Equal(t, "xpath=//button", playwrightSelector(entities.XPath("//button")))
	assert.Equal(t, "css=.el-dialog", playwrightSelector(entities.CSS(".el-dialog")))
	assert.Equal(t, selenium.ByXPATH, seleniumBy(entities.XPath(".")))
	assert.Equal(t, selenium.ByCSSSelector, seleniumBy(entities.CSS("input")))
	assert.Equal(t, "return ((el) => el.click()).apply(null, arguments);", applyScript("(el) => el.click()"))
}

func TestLaunchArgs(t *testing.T) {
	opts := DefaultLaunchOptions()
	assert.Contains(t, opts.Args(), "--window-size=1920,1080")
	assert.Contains(t, opts.Args(), "--disable-blink-features=AutomationControlled")
	assert.Contains(t, opts.Args(), "--no-sandbox")
}
