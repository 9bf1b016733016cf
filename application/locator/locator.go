// Package locator finds the elements playing the roles of a workflow.
//
// Every lookup is the same first-match walk over an ordered list of candidates: the
// declared strategies of a role, or the cost-ordered tiers of a text search. The first
// candidate yielding a present, visible (and for interactive roles, enabled) element
// wins and the rest are skipped.
package locator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"dms_automation/application/wait"
	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

// Match is a located element and the strategy that found it
type Match struct {
	Element  interfaces.Element
	Strategy entities.LocatorStrategy
	Elapsed  time.Duration
}

// Tier is one candidate way of finding an element. A nil element with a nil error
// means the tier found nothing.
type Tier struct {
	Name string
	Find func(ctx context.Context) (interfaces.Element, error)
}

type finder interface {
	FindElements(ctx context.Context, selector entities.Selector) ([]interfaces.Element, error)
}

type Locator struct {
	browser interfaces.Browser
	timing  entities.Timing
	logger  *logrus.Logger
}

// NewLocator - creates a locator over the browser session
func NewLocator(browser interfaces.Browser, timing entities.Timing, logger *logrus.Logger) *Locator {
	return &Locator{browser: browser, timing: timing, logger: logger}
}

// FirstOf tries the tiers in order and returns the first element found
func (l *Locator) FirstOf(ctx context.Context, role entities.Role, tiers ...Tier) (Match, error) {
	start := time.Now()
	var errs []error

	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return Match{}, err
		}

		el, err := tier.Find(ctx)
		if err != nil {
			l.logger.WithFields(logrus.Fields{"role": role, "strategy": tier.Name}).Debugf("strategy failed: %v", err)
			errs = append(errs, fmt.Errorf("%s: %w", tier.Name, err))
			continue
		}
		if el == nil {
			continue
		}

		return Match{
			Element:  el,
			Strategy: entities.LocatorStrategy{Role: role, Name: tier.Name},
			Elapsed:  time.Since(start),
		}, nil
	}

	cause := fmt.Errorf("none of %d strategies matched", len(tiers))
	if len(errs) > 0 {
		cause = fmt.Errorf("%w (%w)", cause, errors.Join(errs...))
	}
	return Match{}, entities.NewError(entities.ElementNotFound, role, cause)
}

// Locate makes one pass over the target's strategies. A scoped target first resolves
// its scope and only matches elements inside it.
func (l *Locator) Locate(ctx context.Context, target entities.Target) (Match, error) {
	var root finder = l.browser
	if target.Scope != nil {
		scope, err := l.Locate(ctx, *target.Scope)
		if err != nil {
			return Match{}, entities.NewError(entities.ElementNotFound, target.Role,
				fmt.Errorf("scope %s: %w", target.Scope.Role, err))
		}
		root = scope.Element
	}

	tiers := make([]Tier, 0, len(target.Strategies))
	for _, s := range target.Strategies {
		tiers = append(tiers, Tier{
			Name: s.ID(),
			Find: func(ctx context.Context) (interfaces.Element, error) {
				return l.firstQualifying(ctx, root, s.Selector, target.Interactive)
			},
		})
	}

	m, err := l.FirstOf(ctx, target.Role, tiers...)
	if err != nil {
		return Match{}, err
	}
	for _, s := range target.Strategies {
		if s.ID() == m.Strategy.Name {
			m.Strategy = s
			break
		}
	}
	return m, nil
}

// Await repeats Locate until the target is found or timeout elapses
func (l *Locator) Await(ctx context.Context, target entities.Target, timeout time.Duration) (Match, error) {
	var (
		found   Match
		lastErr error
	)
	err := wait.Until(ctx, timeout, l.timing.PollInterval, func(ctx context.Context) (bool, error) {
		m, err := l.Locate(ctx, target)
		if err != nil {
			if entities.IsKind(err, entities.ElementNotFound) {
				lastErr = err
				return false, nil
			}
			return false, err
		}
		found = m
		return true, nil
	})
	if errors.Is(err, wait.ErrTimeout) && lastErr != nil {
		return Match{}, lastErr
	}
	if err != nil {
		return Match{}, err
	}
	return found, nil
}

// Present reports whether the target can be located right now
func (l *Locator) Present(ctx context.Context, target entities.Target) bool {
	_, err := l.Locate(ctx, target)
	return err == nil
}

func (l *Locator) firstQualifying(ctx context.Context, root finder, sel entities.Selector, interactive bool) (interfaces.Element, error) {
	els, err := root.FindElements(ctx, sel)
	if err != nil {
		return nil, err
	}
	for _, el := range els {
		if Qualifies(ctx, el, interactive) {
			return el, nil
		}
	}
	return nil, nil
}

// Qualifies reports whether el is visible and, for interactive roles, enabled.
// Any error while checking disqualifies the element.
func Qualifies(ctx context.Context, el interfaces.Element, interactive bool) bool {
	visible, err := el.IsDisplayed(ctx)
	if err != nil || !visible {
		return false
	}
	if !interactive {
		return true
	}
	enabled, err := el.IsEnabled(ctx)
	return err == nil && enabled
}
