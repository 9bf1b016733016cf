package browser

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"dms_automation/domain/interfaces"
)

// New - opens a browser session with the named driver
func New(driver string, opts LaunchOptions, logger *logrus.Logger) (interfaces.Browser, error) {
	logger.WithFields(logrus.Fields{"driver": driver, "headless": opts.Headless}).Info("🚀 starting browser")

	switch driver {
	case DriverPlaywright, "":
		return NewPlaywrightController(opts, logger)
	case DriverSelenium:
		return NewSeleniumController(opts, logger)
	default:
		return nil, fmt.Errorf("unknown browser driver %q", driver)
	}
}
