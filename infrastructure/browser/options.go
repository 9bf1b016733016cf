package browser

import (
	"fmt"
	"time"
)

// Drivers
const (
	DriverPlaywright = "playwright"
	DriverSelenium   = "selenium"
)

// LaunchOptions - how the browser session is started
type LaunchOptions struct {
	Headless bool
	Width    int
	Height   int

	// ActionTimeout bounds a single native action before it counts as not interactable.
	ActionTimeout time.Duration
	// NavigationTimeout bounds page loads.
	NavigationTimeout time.Duration

	// StatePath, when set, persists cookies and storage between playwright runs.
	StatePath string

	// ChromeDriverPath and ChromeDriverPort configure the selenium backend.
	ChromeDriverPath string
	ChromeDriverPort int
}

// DefaultLaunchOptions - returns the launch options the console is tested with
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		Width:             1920,
		Height:            1080,
		ActionTimeout:     5 * time.Second,
		NavigationTimeout: 30 * time.Second,
		ChromeDriverPort:  9515,
	}
}

// Args returns the chromium command line flags. Headless mode is left to each driver.
func (o LaunchOptions) Args() []string {
	return []string{
		"--disable-blink-features=AutomationControlled",
		"--no-sandbox",
		"--disable-dev-shm-usage",
		"--disable-gpu",
		fmt.Sprintf("--window-size=%d,%d", o.Width, o.Height),
	}
}
