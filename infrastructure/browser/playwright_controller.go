package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

type playwrightController struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	page       playwright.Page
	pages      []playwright.Page
	pagesMutex sync.Mutex
	opts       LaunchOptions
	logger     *logrus.Logger
}

// NewPlaywrightController - launches chromium through playwright
func NewPlaywrightController(opts LaunchOptions, logger *logrus.Logger) (interfaces.Browser, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     opts.Args(),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Width,
			Height: opts.Height,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	}

	if opts.StatePath != "" {
		if data, err := os.ReadFile(opts.StatePath); err == nil {
			var storageState playwright.StorageState
			if err := json.Unmarshal(data, &storageState); err == nil {
				contextOptions.StorageState = storageState.ToOptionalStorageState()
				logger.WithField("path", opts.StatePath).Info("restored browser state")
			}
		}
	}

	context, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	controller := &playwrightController{
		pw:      pw,
		browser: browser,
		context: context,
		page:    page,
		pages:   []playwright.Page{page},
		opts:    opts,
		logger:  logger,
	}
	controller.track(page)

	// the console opens some views in new tabs; follow them
	context.OnPage(func(newPage playwright.Page) {
		controller.pagesMutex.Lock()
		controller.pages = append(controller.pages, newPage)
		controller.page = newPage
		controller.pagesMutex.Unlock()

		controller.track(newPage)
	})

	return controller, nil
}

func (b *playwrightController) track(page playwright.Page) {
	page.OnDialog(func(dialog playwright.Dialog) {
		b.logger.Warnf("accepting browser dialog: %s", dialog.Message())
		dialog.Accept()
	})

	page.OnClose(func(closedPage playwright.Page) {
		b.pagesMutex.Lock()
		defer b.pagesMutex.Unlock()

		for i, p := range b.pages {
			if p == closedPage {
				b.pages = append(b.pages[:i], b.pages[i+1:]...)
				break
			}
		}

		if b.page == closedPage && len(b.pages) > 0 {
			b.page = b.pages[0]
		}
	})
}

func (b *playwrightController) currentPage() playwright.Page {
	b.pagesMutex.Lock()
	defer b.pagesMutex.Unlock()
	return b.page
}

func (b *playwrightController) timeout() *float64 {
	return playwright.Float(float64(b.opts.ActionTimeout.Milliseconds()))
}

// Navigate - navigates to the specified URL
func (b *playwrightController) Navigate(ctx context.Context, url string) error {
	_, err := b.currentPage().Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(b.opts.NavigationTimeout.Milliseconds())),
	})
	return err
}

func (b *playwrightController) Reload(ctx context.Context) error {
	_, err := b.currentPage().Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   playwright.Float(float64(b.opts.NavigationTimeout.Milliseconds())),
	})
	return err
}

func (b *playwrightController) CurrentURL(ctx context.Context) (string, error) {
	return b.currentPage().URL(), nil
}

// FindElements - returns a locator per element currently matching the selector
func (b *playwrightController) FindElements(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	return b.wrapAll(b.currentPage().Locator(playwrightSelector(sel)))
}

func (b *playwrightController) wrapAll(loc playwright.Locator) ([]interfaces.Element, error) {
	all, err := loc.All()
	if err != nil {
		return nil, classifyPlaywright(err)
	}
	out := make([]interfaces.Element, 0, len(all))
	for _, l := range all {
		out = append(out, &playwrightElement{ctrl: b, loc: l})
	}
	return out, nil
}

func (b *playwrightController) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	return b.currentPage().Evaluate(script, arg)
}

// Screenshot - takes a screenshot of the current page
func (b *playwrightController) Screenshot(ctx context.Context, path string) error {
	_, err := b.currentPage().Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	})
	return err
}

// SaveState - saves cookies and storage so the next run can skip the login
func (b *playwrightController) SaveState() error {
	if b.context == nil || b.opts.StatePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(b.opts.StatePath), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if _, err := b.context.StorageState(b.opts.StatePath); err != nil {
		if isClosed(err) {
			return nil
		}
		return fmt.Errorf("failed to save browser state: %w", err)
	}
	return nil
}

// Close - saves state and closes the browser
func (b *playwrightController) Close() error {
	var errs []error

	if err := b.SaveState(); err != nil {
		errs = append(errs, err)
	}

	if b.context != nil {
		if err := b.context.Close(); err != nil && !isClosed(err) {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
		b.context = nil
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil && !isClosed(err) {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
		b.browser = nil
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		b.pw = nil
	}

	return errors.Join(errs...)
}

func isClosed(err error) bool {
	return errors.Is(err, playwright.ErrTargetClosed) || strings.Contains(err.Error(), "closed")
}

func playwrightSelector(sel entities.Selector) string {
	if sel.By == entities.ByXPath {
		return "xpath=" + sel.Value
	}
	return "css=" + sel.Value
}

// classifyPlaywright treats an action timeout as the element not being interactable;
// playwright waits for actionability until the timeout instead of failing fast.
func classifyPlaywright(err error) error {
	if err == nil {
		return nil
	}
	classified := classifyMessage(err)
	if classified != err {
		return classified
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return entities.Transient(entities.ErrNotInteractable, err)
	}
	return err
}

type playwrightElement struct {
	ctrl *playwrightController
	loc  playwright.Locator
}

func (e *playwrightElement) FindElements(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	return e.ctrl.wrapAll(e.loc.Locator(playwrightSelector(sel)))
}

func (e *playwrightElement) Click(ctx context.Context) error {
	return classifyPlaywright(e.loc.Click(playwright.LocatorClickOptions{Timeout: e.ctrl.timeout()}))
}

func (e *playwrightElement) ScriptClick(ctx context.Context) error {
	_, err := e.loc.Evaluate(`(el) => el.click()`, nil, playwright.LocatorEvaluateOptions{Timeout: e.ctrl.timeout()})
	return classifyPlaywright(err)
}

func (e *playwrightElement) PointerClick(ctx context.Context) error {
	box, err := e.loc.BoundingBox(playwright.LocatorBoundingBoxOptions{Timeout: e.ctrl.timeout()})
	if err != nil {
		return classifyPlaywright(err)
	}
	if box == nil {
		return entities.Transient(entities.ErrNotInteractable, errors.New("element has no bounding box"))
	}

	x, y := box.X+box.Width/2, box.Y+box.Height/2
	mouse := e.ctrl.currentPage().Mouse()
	if err := mouse.Move(x, y); err != nil {
		return classifyPlaywright(err)
	}
	return classifyPlaywright(mouse.Click(x, y))
}

func (e *playwrightElement) Clear(ctx context.Context) error {
	return classifyPlaywright(e.loc.Clear(playwright.LocatorClearOptions{Timeout: e.ctrl.timeout()}))
}

// SendKeys types key by key so the console's input handlers see every keystroke
func (e *playwrightElement) SendKeys(ctx context.Context, text string) error {
	return classifyPlaywright(e.loc.PressSequentially(text, playwright.LocatorPressSequentiallyOptions{
		Timeout: e.ctrl.timeout(),
	}))
}

func (e *playwrightElement) Attribute(ctx context.Context, name string) (string, error) {
	if name == "value" {
		v, err := e.loc.InputValue(playwright.LocatorInputValueOptions{Timeout: e.ctrl.timeout()})
		return v, classifyPlaywright(err)
	}
	v, err := e.loc.GetAttribute(name, playwright.LocatorGetAttributeOptions{Timeout: e.ctrl.timeout()})
	return v, classifyPlaywright(err)
}

func (e *playwrightElement) Text(ctx context.Context) (string, error) {
	text, err := e.loc.InnerText(playwright.LocatorInnerTextOptions{Timeout: e.ctrl.timeout()})
	return strings.TrimSpace(text), classifyPlaywright(err)
}

func (e *playwrightElement) IsDisplayed(ctx context.Context) (bool, error) {
	visible, err := e.loc.IsVisible()
	return visible, classifyPlaywright(err)
}

func (e *playwrightElement) IsEnabled(ctx context.Context) (bool, error) {
	enabled, err := e.loc.IsEnabled(playwright.LocatorIsEnabledOptions{Timeout: e.ctrl.timeout()})
	return enabled, classifyPlaywright(err)
}

func (e *playwrightElement) ScrollIntoView(ctx context.Context) error {
	_, err := e.loc.Evaluate(scrollIntoViewScript, nil, playwright.LocatorEvaluateOptions{Timeout: e.ctrl.timeout()})
	return classifyPlaywright(err)
}

func (e *playwrightElement) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	v, err := e.loc.Evaluate(script, arg, playwright.LocatorEvaluateOptions{Timeout: e.ctrl.timeout()})
	return v, classifyPlaywright(err)
}

var _ interfaces.Browser = (*playwrightController)(nil)
