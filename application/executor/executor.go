// Package executor performs actions on located elements with bounded retries.
//
// Failures never escape as errors: every call reports an entities.AttemptResult and the
// caller decides whether to retry the surrounding step or abandon it.
package executor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"dms_automation/application/locator"
	"dms_automation/application/wait"
	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

// Finder resolves the element an action applies to
type Finder func(ctx context.Context) (locator.Match, error)

// Action acts on a located element and reports the mechanism that worked
type Action func(ctx context.Context, el interfaces.Element) (entities.Mechanism, error)

type options struct {
	attempts   int
	screenshot string
}

// Option tunes a single Perform call
type Option func(*options)

// WithAttempts bounds the number of locate-and-act attempts
func WithAttempts(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.attempts = n
		}
	}
}

// WithScreenshot captures a screenshot under name when every attempt failed
func WithScreenshot(name string) Option {
	return func(o *options) {
		o.screenshot = name
	}
}

type Executor struct {
	locator     *locator.Locator
	screenshots interfaces.ScreenshotStore
	timing      entities.Timing
	logger      *logrus.Logger
}

// NewExecutor - creates an executor
func NewExecutor(loc *locator.Locator, screenshots interfaces.ScreenshotStore, timing entities.Timing, logger *logrus.Logger) *Executor {
	return &Executor{locator: loc, screenshots: screenshots, timing: timing, logger: logger}
}

// Await returns a Finder polling for the target up to the element timeout
func (e *Executor) Await(target entities.Target) Finder {
	return func(ctx context.Context) (locator.Match, error) {
		return e.locator.Await(ctx, target, e.timing.ElementTimeout)
	}
}

// Perform locates the element and runs the action, up to the attempt budget
func (e *Executor) Perform(ctx context.Context, role entities.Role, find Finder, act Action, opts ...Option) entities.AttemptResult {
	o := options{attempts: 1}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	result := entities.AttemptResult{Role: role}
	log := e.logger.WithField("role", role)

	for attempt := 1; attempt <= o.attempts; attempt++ {
		result.Attempts = attempt
		if err := ctx.Err(); err != nil {
			result.Err = err
			break
		}

		m, err := find(ctx)
		if err != nil {
			result.Err = classify(role, entities.ElementNotFound, err)
			log.WithField("attempt", attempt).Warnf("element not located: %v", err)
			continue
		}
		result.Strategy = m.Strategy.ID()

		mechanism, err := act(ctx, m.Element)
		if err != nil {
			result.Err = classify(role, entities.UnexpectedCondition, err)
			log.WithFields(logrus.Fields{"attempt": attempt, "strategy": result.Strategy}).Warnf("action failed: %v", err)
			continue
		}

		result.Succeeded = true
		result.Mechanism = mechanism
		result.Err = nil
		break
	}

	result.Elapsed = time.Since(start)
	if result.Succeeded {
		log.WithFields(logrus.Fields{
			"strategy":  result.Strategy,
			"mechanism": result.Mechanism,
			"attempts":  result.Attempts,
		}).Info("✅ done")
		return result
	}

	log.WithField("attempts", result.Attempts).Errorf("❌ gave up: %v", result.Err)
	if o.screenshot != "" {
		e.screenshots.Capture(ctx, o.screenshot)
	}
	return result
}

// Click clicks the target, falling back across click mechanisms
func (e *Executor) Click(ctx context.Context, target entities.Target, opts ...Option) entities.AttemptResult {
	return e.Perform(ctx, target.Role, e.Await(target), ClickAction, opts...)
}

// SetValue replaces the content of the target input with value
func (e *Executor) SetValue(ctx context.Context, target entities.Target, value string, opts ...Option) entities.AttemptResult {
	return e.Perform(ctx, target.Role, e.Await(target), SetValueAction(value), opts...)
}

// SelectOption opens the dropdown behind trigger and clicks the option found by pick.
// A retry picks again from the list it already opened; the trigger toggles the
// dropdown, so it is clicked again only once list has closed.
func (e *Executor) SelectOption(ctx context.Context, trigger, list entities.Target, option entities.Role, pick Finder, opts ...Option) entities.AttemptResult {
	opened := false
	act := func(ctx context.Context, el interfaces.Element) (entities.Mechanism, error) {
		if opened && e.locator.Present(ctx, list) {
			e.logger.WithField("role", trigger.Role).Debug("dropdown still open, picking again")
		} else {
			if _, err := ClickAction(ctx, el); err != nil {
				return "", fmt.Errorf("open dropdown: %w", err)
			}
			opened = true
			if err := wait.Pause(ctx, e.timing.DropdownSettle); err != nil {
				return "", err
			}
		}

		m, err := pick(ctx)
		if err != nil {
			return "", classify(option, entities.ElementNotFound, err)
		}
		if err := m.Element.ScrollIntoView(ctx); err != nil {
			e.logger.WithField("role", option).Debugf("scroll into view failed: %v", err)
		}
		if err := wait.Pause(ctx, e.timing.ScrollSettle); err != nil {
			return "", err
		}

		mechanism, err := ClickAction(ctx, m.Element)
		if err != nil {
			return "", classify(option, entities.ActionNotInteractable, err)
		}
		return mechanism, nil
	}
	return e.Perform(ctx, trigger.Role, e.Await(trigger), act, opts...)
}

type clickMechanism struct {
	name entities.Mechanism
	fn   func(ctx context.Context, el interfaces.Element) error
}

var clickMechanisms = []clickMechanism{
	{entities.MechanismNative, func(ctx context.Context, el interfaces.Element) error {
		// not fatal: the native click itself reports whether the element is reachable
		_ = el.ScrollIntoView(ctx)
		return el.Click(ctx)
	}},
	{entities.MechanismScript, func(ctx context.Context, el interfaces.Element) error {
		return el.ScriptClick(ctx)
	}},
	{entities.MechanismPointer, func(ctx context.Context, el interfaces.Element) error {
		return el.PointerClick(ctx)
	}},
}

// ClickAction tries the native click, then a script click, then a pointer
// move-and-click, stopping at the first success. Only transient conditions move on
// to the next mechanism.
func ClickAction(ctx context.Context, el interfaces.Element) (entities.Mechanism, error) {
	var errs []error
	for _, m := range clickMechanisms {
		err := m.fn(ctx, el)
		if err == nil {
			return m.name, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", m.name, err))
		if !entities.IsTransient(err) {
			return "", entities.NewError(entities.UnexpectedCondition, "", errors.Join(errs...))
		}
	}
	return "", entities.NewError(entities.ActionNotInteractable, "", errors.Join(errs...))
}

// SetValueAction clears the input, focuses it and types value
func SetValueAction(value string) Action {
	return func(ctx context.Context, el interfaces.Element) (entities.Mechanism, error) {
		if err := el.Clear(ctx); err != nil {
			return "", fmt.Errorf("clear: %w", err)
		}
		mechanism, err := ClickAction(ctx, el)
		if err != nil {
			return "", fmt.Errorf("focus: %w", err)
		}
		if err := el.SendKeys(ctx, value); err != nil {
			if entities.IsTransient(err) {
				return "", entities.NewError(entities.ActionNotInteractable, "", err)
			}
			return "", fmt.Errorf("type: %w", err)
		}
		return mechanism, nil
	}
}

// classify attaches the role to err, giving unclassified errors the fallback kind
func classify(role entities.Role, fallback entities.ErrorKind, err error) error {
	var e *entities.Error
	if errors.As(err, &e) {
		if e.Role == "" {
			return entities.NewError(e.Kind, role, e.Err)
		}
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return entities.NewError(fallback, role, err)
}
