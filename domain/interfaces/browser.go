package interfaces

import (
	"context"

	"dms_automation/domain/entities"
)

// Browser is the capability surface of one exclusively held browser session.
//
// Scripts passed to Evaluate are JavaScript function expressions. Page scripts receive
// the argument as their only parameter, element scripts receive the element first and
// the argument second.
type Browser interface {
	// Navigate navigates to a URL
	Navigate(ctx context.Context, url string) error

	// Reload reloads the current page
	Reload(ctx context.Context) error

	// CurrentURL returns the current page location
	CurrentURL(ctx context.Context) (string, error)

	// FindElements returns every element currently matching the selector.
	// No match is an empty slice, not an error.
	FindElements(ctx context.Context, selector entities.Selector) ([]Element, error)

	// Evaluate runs a script in the page
	Evaluate(ctx context.Context, script string, arg any) (any, error)

	// Screenshot saves a screenshot of the viewport to path
	Screenshot(ctx context.Context, path string) error

	// Close releases the session
	Close() error
}

// Element is a handle to one materialized element
type Element interface {
	// FindElements searches below the element
	FindElements(ctx context.Context, selector entities.Selector) ([]Element, error)

	// Click clicks through the driver's native interaction model
	Click(ctx context.Context) error

	// ScriptClick dispatches a click from script, bypassing actionability checks
	ScriptClick(ctx context.Context) error

	// PointerClick moves the pointer onto the element and clicks there
	PointerClick(ctx context.Context) error

	Clear(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error

	// Attribute returns an attribute; "value" returns the live input value
	Attribute(ctx context.Context, name string) (string, error)

	Text(ctx context.Context) (string, error)
	IsDisplayed(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)

	// ScrollIntoView centers the element in the viewport
	ScrollIntoView(ctx context.Context) error

	// Evaluate runs a script with the element as its first parameter
	Evaluate(ctx context.Context, script string, arg any) (any, error)
}
