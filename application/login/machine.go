// Package login drives the console login form through its captcha.
package login

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"dms_automation/application/catalog"
	"dms_automation/application/executor"
	"dms_automation/application/locator"
	"dms_automation/application/wait"
	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

// DefaultMaxAttempts bounds login attempts when the caller gives none
const DefaultMaxAttempts = 3

// Outcome is where a login run ended
type Outcome struct {
	State    entities.LoginState
	Attempts int
	Session  entities.SessionState
}

type Machine struct {
	browser     interfaces.Browser
	locator     *locator.Locator
	executor    *executor.Executor
	catalog     *catalog.Catalog
	solver      interfaces.CaptchaSolver
	screenshots interfaces.ScreenshotStore
	security    interfaces.SecurityLayer
	timing      entities.Timing
	signature   string
	logger      *logrus.Logger

	state entities.LoginState
}

// Deps groups the collaborators of a Machine
type Deps struct {
	Browser     interfaces.Browser
	Locator     *locator.Locator
	Executor    *executor.Executor
	Catalog     *catalog.Catalog
	Solver      interfaces.CaptchaSolver
	Screenshots interfaces.ScreenshotStore
	Security    interfaces.SecurityLayer
	Timing      entities.Timing
	Logger      *logrus.Logger
}

// NewMachine - creates a login state machine. signature is the location fragment
// identifying the login view.
func NewMachine(deps Deps, signature string) *Machine {
	return &Machine{
		browser:     deps.Browser,
		locator:     deps.Locator,
		executor:    deps.Executor,
		catalog:     deps.Catalog,
		solver:      deps.Solver,
		screenshots: deps.Screenshots,
		security:    deps.Security,
		timing:      deps.Timing,
		signature:   signature,
		logger:      deps.Logger,
		state:       entities.LoginAwaitingCredentials,
	}
}

// State returns the current state
func (m *Machine) State() entities.LoginState {
	return m.state
}

// errRetry ends an attempt; the next attempt starts after the recovery it names.
type errRetry struct {
	reload bool
	err    error
}

func (e *errRetry) Error() string { return e.err.Error() }
func (e *errRetry) Unwrap() error { return e.err }

func retryAfterReload(err error) error  { return &errRetry{reload: true, err: err} }
func retryAfterRefresh(err error) error { return &errRetry{err: err} }

type inputs struct {
	username interfaces.Element
	password interfaces.Element
	captcha  interfaces.Element
}

// Login runs fresh attempts until the location leaves the login view or maxAttempts
// attempts have failed.
func (m *Machine) Login(ctx context.Context, creds entities.Credentials, maxAttempts int) (Outcome, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	refresh := false
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Outcome{State: m.state, Attempts: attempt - 1}, err
		}

		log := m.logger.WithFields(logrus.Fields{"attempt": attempt, "max": maxAttempts})
		log.Info("🚀 login attempt")

		if refresh {
			m.refreshCaptcha(ctx)
		}

		session, err := m.attempt(ctx, creds, log)
		if err == nil {
			log.WithField("view", session.View).Info("🎉 login succeeded")
			return Outcome{State: m.state, Attempts: attempt, Session: session}, nil
		}
		lastErr = err

		var retry *errRetry
		switch {
		case errors.As(err, &retry) && retry.reload:
			log.Warnf("reloading: %v", err)
			m.reload(ctx)
			refresh = false
		case errors.As(err, &retry):
			log.Warnf("refreshing captcha: %v", err)
			refresh = true
		default:
			log.Errorf("login attempt failed: %v", err)
			m.screenshots.Capture(ctx, fmt.Sprintf("login_error_%d.png", attempt))
			m.reload(ctx)
			refresh = false
		}
	}

	m.state = entities.LoginFailed
	m.logger.WithField("attempts", maxAttempts).Error("💔 login failed, attempt budget exhausted")
	return Outcome{State: m.state, Attempts: maxAttempts},
		entities.NewError(entities.VerificationFailed, entities.RoleLoginButton,
			fmt.Errorf("login failed after %d attempts: %w", maxAttempts, lastErr))
}

func (m *Machine) attempt(ctx context.Context, creds entities.Credentials, log *logrus.Entry) (entities.SessionState, error) {
	m.state = entities.LoginAwaitingCredentials

	in, err := m.locateInputs(ctx)
	if err != nil {
		return entities.SessionState{}, retryAfterReload(err)
	}
	m.state = entities.LoginCaptchaPending

	code, err := m.recognizeCaptcha(ctx)
	if err != nil {
		return entities.SessionState{}, retryAfterRefresh(err)
	}
	log.WithField("captcha", code).Info("captcha recognized")

	if err := m.fill(ctx, in, creds, code, log); err != nil {
		return entities.SessionState{}, err
	}

	entered, err := in.captcha.Attribute(ctx, "value")
	if err != nil {
		return entities.SessionState{}, fmt.Errorf("read captcha field: %w", err)
	}
	if entered != code {
		return entities.SessionState{}, retryAfterReload(entities.NewError(entities.CaptchaMismatch, entities.RoleCaptchaField,
			fmt.Errorf("entered %q, recognized %q", entered, code)))
	}

	res := m.executor.Click(ctx, m.catalog.Target(entities.RoleLoginButton, ""))
	if !res.Succeeded {
		return entities.SessionState{}, retryAfterRefresh(res.Err)
	}
	m.state = entities.LoginSubmitted

	session, err := m.verify(ctx)
	if err != nil {
		m.state = entities.LoginCaptchaPending
		m.logMessage(ctx, log)
		return entities.SessionState{}, retryAfterRefresh(err)
	}
	m.state = entities.LoginAuthenticated
	return session, nil
}

func (m *Machine) locateInputs(ctx context.Context) (inputs, error) {
	var in inputs
	fields := []struct {
		role entities.Role
		dst  *interfaces.Element
	}{
		{entities.RoleUsernameField, &in.username},
		{entities.RolePasswordField, &in.password},
		{entities.RoleCaptchaField, &in.captcha},
	}

	for _, f := range fields {
		match, err := m.locator.Await(ctx, m.catalog.Target(f.role, ""), m.timing.ElementTimeout)
		if err != nil {
			return inputs{}, err
		}
		*f.dst = match.Element
	}
	return in, nil
}

func (m *Machine) recognizeCaptcha(ctx context.Context) (string, error) {
	match, err := m.locator.Await(ctx, m.catalog.Target(entities.RoleCaptchaImage, ""), m.timing.ElementTimeout)
	if err != nil {
		return "", err
	}

	src, err := match.Element.Attribute(ctx, "src")
	if err != nil {
		return "", fmt.Errorf("read captcha source: %w", err)
	}
	image, err := decodeDataURL(src)
	if err != nil {
		return "", fmt.Errorf("decode captcha image: %w", err)
	}

	text, err := m.solver.Recognize(ctx, image)
	if err != nil {
		return "", fmt.Errorf("recognize captcha: %w", err)
	}
	code := sanitize(text)
	if code == "" {
		return "", errors.New("captcha not recognized")
	}
	return code, nil
}

func (m *Machine) fill(ctx context.Context, in inputs, creds entities.Credentials, code string, log *logrus.Entry) error {
	entries := []struct {
		role  entities.Role
		el    interfaces.Element
		value string
		shown string
	}{
		{entities.RoleUsernameField, in.username, creds.Username, creds.Username},
		{entities.RolePasswordField, in.password, creds.Password, m.security.MaskSecret(creds.Password)},
		{entities.RoleCaptchaField, in.captcha, code, code},
	}

	for _, e := range entries {
		if err := e.el.Clear(ctx); err != nil {
			return m.inputErr(e.role, "clear", err)
		}
	}
	if err := wait.Pause(ctx, m.timing.DropdownSettle); err != nil {
		return err
	}

	for _, e := range entries {
		if _, err := executor.SetValueAction(e.value)(ctx, e.el); err != nil {
			return m.inputErr(e.role, "type", err)
		}
		log.WithField("role", e.role).Infof("✅ entered %s", e.shown)
	}
	return nil
}

// inputErr turns transient input faults into a reload-and-retry
func (m *Machine) inputErr(role entities.Role, op string, err error) error {
	wrapped := fmt.Errorf("%s %s: %w", op, role, err)
	if entities.IsTransient(err) || entities.IsKind(err, entities.ActionNotInteractable) {
		return retryAfterReload(wrapped)
	}
	return wrapped
}

func (m *Machine) verify(ctx context.Context) (entities.SessionState, error) {
	var location string
	err := wait.Until(ctx, m.timing.VerifyTimeout, m.timing.PollInterval, func(ctx context.Context) (bool, error) {
		url, err := m.browser.CurrentURL(ctx)
		if err != nil {
			return false, err
		}
		location = url
		return !entities.IsLoginView(url, m.signature), nil
	})
	if err != nil {
		return entities.SessionState{}, entities.NewError(entities.VerificationFailed, entities.RoleLoginButton,
			fmt.Errorf("still on %q: %w", location, err))
	}
	return entities.SessionState{Authenticated: true, View: location}, nil
}

func (m *Machine) logMessage(ctx context.Context, log *logrus.Entry) {
	match, err := m.locator.Locate(ctx, m.catalog.Target(entities.RoleLoginMessage, ""))
	if err != nil {
		return
	}
	if text, err := match.Element.Text(ctx); err == nil && text != "" {
		log.Warnf("⚠️ console message: %s", text)
	}
}

func (m *Machine) refreshCaptcha(ctx context.Context) {
	res := m.executor.Click(ctx, m.catalog.Target(entities.RoleCaptchaImage, ""))
	if !res.Succeeded {
		return
	}
	if err := wait.Pause(ctx, m.timing.ActionSettle); err == nil {
		m.logger.Info("🔄 captcha refreshed")
	}
}

func (m *Machine) reload(ctx context.Context) {
	if err := m.browser.Reload(ctx); err != nil {
		m.logger.Warnf("reload failed: %v", err)
	}
	_ = wait.Pause(ctx, m.timing.ReloadSettle)
}
