package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"dms_automation/domain/interfaces"
)

// screenshotter is the part of the browser the store needs
type screenshotter interface {
	Screenshot(ctx context.Context, path string) error
}

type screenshotStore struct {
	browser screenshotter
	dir     string
	logger  *logrus.Logger
}

// NewScreenshotStore - creates a store writing into dir
func NewScreenshotStore(browser screenshotter, dir string, logger *logrus.Logger) interfaces.ScreenshotStore {
	if dir == "" {
		dir = "."
	}
	return &screenshotStore{
		browser: browser,
		dir:     dir,
		logger:  logger,
	}
}

// Capture - saves a screenshot under name. Failures are logged and swallowed.
func (s *screenshotStore) Capture(ctx context.Context, name string) string {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		s.logger.Warnf("⚠️ screenshot failed: %v", err)
		return ""
	}

	path := filepath.Join(s.dir, filepath.Base(name))
	if err := s.browser.Screenshot(ctx, path); err != nil {
		s.logger.Warnf("⚠️ screenshot failed: %v", err)
		return ""
	}

	s.logger.WithField("path", path).Info("📸 screenshot saved")
	return path
}
