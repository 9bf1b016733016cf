package agent

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"dms_automation/application/authorization"
	"dms_automation/application/catalog"
	"dms_automation/application/locator"
	"dms_automation/application/login"
	"dms_automation/application/wait"
	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

// Options - what one run does
type Options struct {
	TargetURL     string
	Signature     string
	Credentials   entities.Credentials
	LoginAttempts int
	Repeat        int
}

// Deps groups the collaborators of an Agent
type Deps struct {
	Browser     interfaces.Browser
	Locator     *locator.Locator
	Catalog     *catalog.Catalog
	Login       *login.Machine
	Workflow    *authorization.Workflow
	Screenshots interfaces.ScreenshotStore
	Timing      entities.Timing
	Logger      *logrus.Logger
}

// Agent drives a whole run: open the device page, log in when redirected, then repeat
// the authorization workflow.
type Agent struct {
	browser     interfaces.Browser
	locator     *locator.Locator
	catalog     *catalog.Catalog
	login       *login.Machine
	workflow    *authorization.Workflow
	screenshots interfaces.ScreenshotStore
	timing      entities.Timing
	logger      *logrus.Logger
	opts        Options
}

// NewAgent - creates new agent instance
func NewAgent(deps Deps, opts Options) *Agent {
	return &Agent{
		browser:     deps.Browser,
		locator:     deps.Locator,
		catalog:     deps.Catalog,
		login:       deps.Login,
		workflow:    deps.Workflow,
		screenshots: deps.Screenshots,
		timing:      deps.Timing,
		logger:      deps.Logger,
		opts:        opts,
	}
}

// Run - executes the run. Only setup faults and an exhausted login budget are returned
// as errors; failed cycles are counted in the summary.
func (a *Agent) Run(ctx context.Context) (entities.RunSummary, error) {
	session, err := a.Open(ctx)
	if err != nil {
		return entities.RunSummary{}, err
	}

	if !session.Authenticated {
		a.logger.Info("🔐 redirected to login")
		out, err := a.login.Login(ctx, a.opts.Credentials, a.opts.LoginAttempts)
		if err != nil {
			a.screenshots.Capture(ctx, "login_failed.png")
			return entities.RunSummary{}, fmt.Errorf("login ended in state %s: %w", out.State, err)
		}
	} else {
		a.logger.Info("✅ session already authenticated")
	}

	a.awaitDetail(ctx)

	summary := a.workflow.Repeat(ctx, a.opts.Repeat, a.timing.CyclePause)
	a.screenshots.Capture(ctx, "test_final_result.png")
	return summary, ctx.Err()
}

// Open - navigates to the target page and reports whether the console kept us there or
// redirected to the login view.
func (a *Agent) Open(ctx context.Context) (entities.SessionState, error) {
	a.logger.WithField("url", a.opts.TargetURL).Info("🌐 opening target page")
	if err := a.browser.Navigate(ctx, a.opts.TargetURL); err != nil {
		return entities.SessionState{}, fmt.Errorf("failed to open %s: %w", a.opts.TargetURL, err)
	}

	ready := a.catalog.Target(entities.RoleDetailReady, "")
	var location string
	err := wait.Until(ctx, a.timing.ElementTimeout, a.timing.PollInterval, func(ctx context.Context) (bool, error) {
		url, err := a.browser.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		location = url
		return entities.IsLoginView(url, a.opts.Signature) || a.locator.Present(ctx, ready), nil
	})
	if err != nil && ctx.Err() != nil {
		return entities.SessionState{}, err
	}
	if err != nil {
		// the redirect may still be pending; the location decides
		a.logger.Warnf("⚠️ page not settled: %v", err)
		if location == "" {
			if location, err = a.browser.CurrentURL(ctx); err != nil {
				return entities.SessionState{}, fmt.Errorf("failed to read location: %w", err)
			}
		}
	}

	a.logger.WithField("location", location).Info("📍 current location")
	return entities.SessionState{
		Authenticated: !entities.IsLoginView(location, a.opts.Signature),
		View:          location,
	}, nil
}

// awaitDetail waits for the device detail view; a slow page is only logged
func (a *Agent) awaitDetail(ctx context.Context) {
	a.logger.Info("⏳ waiting for device detail")
	if _, err := a.locator.Await(ctx, a.catalog.Target(entities.RoleDetailReady, ""), a.timing.ElementTimeout); err != nil {
		a.logger.Warnf("⚠️ device detail not detected, continuing: %v", err)
		return
	}
	a.logger.Info("✅ device detail loaded")
}
