package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"

	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

type SeleniumController struct {
	wd      selenium.WebDriver
	service *selenium.Service
	logger  *logrus.Logger
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured, nil
		}
		return "", fmt.Errorf("chromedriver not found at %s", configured)
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set DMS_CHROMEDRIVER_PATH")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary() string {
	if path := os.Getenv("CHROME_BINARY_PATH"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// NewSeleniumController - starts chromedriver and opens a WebDriver session
func NewSeleniumController(opts LaunchOptions, logger *logrus.Logger) (*SeleniumController, error) {
	driverPath, err := findChromeDriver(opts.ChromeDriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	logger.Infof("Using ChromeDriver at: %s", driverPath)

	service, err := selenium.NewChromeDriverService(driverPath, opts.ChromeDriverPort, selenium.Output(nil))
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	chromeCaps := chrome.Capabilities{
		Args: opts.Args(),
		// legacy protocol keeps the mouse move and click endpoints
		W3C: false,
	}
	if opts.Headless {
		chromeCaps.Args = append(chromeCaps.Args, "--headless=new")
	}
	if chromeBinary := findChromeBinary(); chromeBinary != "" {
		logger.Infof("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}

	caps := selenium.Capabilities{"browserName": "chrome"}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", opts.ChromeDriverPort))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found. Please install Google Chrome or set CHROME_BINARY_PATH environment variable. Error: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	if err := wd.SetPageLoadTimeout(opts.NavigationTimeout); err != nil {
		logger.Warnf("Failed to set page load timeout: %v", err)
	}

	return &SeleniumController{
		wd:      wd,
		service: service,
		logger:  logger,
	}, nil
}

// Navigate - navigates browser to specified URL
func (s *SeleniumController) Navigate(ctx context.Context, url string) error {
	return s.wd.Get(url)
}

func (s *SeleniumController) Reload(ctx context.Context) error {
	return s.wd.Refresh()
}

// CurrentURL - returns current page URL
func (s *SeleniumController) CurrentURL(ctx context.Context) (string, error) {
	return s.wd.CurrentURL()
}

func (s *SeleniumController) FindElements(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	found, err := s.wd.FindElements(seleniumBy(sel), sel.Value)
	return s.wrap(found, err)
}

func (s *SeleniumController) wrap(found []selenium.WebElement, err error) ([]interfaces.Element, error) {
	if err != nil {
		classified := classifySelenium(err)
		if errors.Is(classified, entities.ErrNoSuchElement) {
			return []interfaces.Element{}, nil
		}
		return nil, classified
	}
	out := make([]interfaces.Element, 0, len(found))
	for _, el := range found {
		out = append(out, &seleniumElement{ctrl: s, el: el})
	}
	return out, nil
}

// Evaluate runs a page script; the function expression is applied to the arguments
func (s *SeleniumController) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	v, err := s.wd.ExecuteScript(applyScript(script), []interface{}{arg})
	return v, classifySelenium(err)
}

// Screenshot - takes screenshot of current page
func (s *SeleniumController) Screenshot(ctx context.Context, path string) error {
	data, err := s.wd.Screenshot()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Close - closes browser and stops ChromeDriver service
func (s *SeleniumController) Close() error {
	var errs []error
	if s.wd != nil {
		if err := s.wd.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("failed to quit webdriver: %w", err))
		}
		s.wd = nil
	}
	if s.service != nil {
		if err := s.service.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop chromedriver: %w", err))
		}
		s.service = nil
	}
	return errors.Join(errs...)
}

func seleniumBy(sel entities.Selector) string {
	if sel.By == entities.ByXPath {
		return selenium.ByXPATH
	}
	return selenium.ByCSSSelector
}

// applyScript turns a function expression into a WebDriver script body
func applyScript(script string) string {
	return "return (" + script + ").apply(null, arguments);"
}

func classifySelenium(err error) error {
	if err == nil {
		return nil
	}
	var serr *selenium.Error
	if errors.As(err, &serr) {
		switch serr.Err {
		case "stale element reference":
			return entities.Transient(entities.ErrStaleElement, err)
		case "element click intercepted":
			return entities.Transient(entities.ErrClickIntercepted, err)
		case "element not interactable", "invalid element state":
			return entities.Transient(entities.ErrNotInteractable, err)
		case "no such element":
			return entities.Transient(entities.ErrNoSuchElement, err)
		}
	}
	// legacy mode reports some faults only in the message
	return classifyMessage(err)
}

type seleniumElement struct {
	ctrl *SeleniumController
	el   selenium.WebElement
}

func (e *seleniumElement) FindElements(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	found, err := e.el.FindElements(seleniumBy(sel), sel.Value)
	return e.ctrl.wrap(found, err)
}

func (e *seleniumElement) Click(ctx context.Context) error {
	return classifySelenium(e.el.Click())
}

func (e *seleniumElement) ScriptClick(ctx context.Context) error {
	_, err := e.Evaluate(ctx, `(el) => el.click()`, nil)
	return err
}

func (e *seleniumElement) PointerClick(ctx context.Context) error {
	if err := e.el.MoveTo(0, 0); err != nil {
		return classifySelenium(err)
	}
	return classifySelenium(e.ctrl.wd.Click(selenium.LeftButton))
}

func (e *seleniumElement) Clear(ctx context.Context) error {
	return classifySelenium(e.el.Clear())
}

func (e *seleniumElement) SendKeys(ctx context.Context, text string) error {
	return classifySelenium(e.el.SendKeys(text))
}

// Attribute reads "value" as a property so it reflects what was typed
func (e *seleniumElement) Attribute(ctx context.Context, name string) (string, error) {
	if name == "value" {
		v, err := e.Evaluate(ctx, `(el) => el.value`, nil)
		if err != nil {
			return "", err
		}
		s, _ := v.(string)
		return s, nil
	}
	v, err := e.el.GetAttribute(name)
	if err != nil {
		// a missing attribute is reported as an error by some drivers
		if errors.Is(classifySelenium(err), entities.ErrNoSuchElement) {
			return "", nil
		}
		return "", classifySelenium(err)
	}
	return v, nil
}

func (e *seleniumElement) Text(ctx context.Context) (string, error) {
	text, err := e.el.Text()
	return strings.TrimSpace(text), classifySelenium(err)
}

func (e *seleniumElement) IsDisplayed(ctx context.Context) (bool, error) {
	v, err := e.el.IsDisplayed()
	return v, classifySelenium(err)
}

func (e *seleniumElement) IsEnabled(ctx context.Context) (bool, error) {
	v, err := e.el.IsEnabled()
	return v, classifySelenium(err)
}

func (e *seleniumElement) ScrollIntoView(ctx context.Context) error {
	_, err := e.Evaluate(ctx, scrollIntoViewScript, nil)
	return err
}

func (e *seleniumElement) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	v, err := e.ctrl.wd.ExecuteScript(applyScript(script), []interface{}{e.el, arg})
	return v, classifySelenium(err)
}

var _ interfaces.Browser = (*SeleniumController)(nil)
