// Package browsertest provides a scriptable in-memory browser for tests.
//
// Selectors are not interpreted: a query returns whatever was registered for that exact
// selector, statically with Add or dynamically with Resolve. Nothing here is safe for
// concurrent use.
package browsertest

import (
	"context"
	"errors"
	"strings"

	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

type resolver func() []*Element

type registry map[entities.Selector]resolver

func (r registry) find(sel entities.Selector) []interfaces.Element {
	fn, ok := r[sel]
	if !ok {
		return []interfaces.Element{}
	}
	found := fn()
	out := make([]interfaces.Element, 0, len(found))
	for _, el := range found {
		out = append(out, el)
	}
	return out
}

// Page is an in-memory interfaces.Browser
type Page struct {
	URL string

	// OnNavigate, OnReload and OnEvaluate let tests react to page level calls.
	OnNavigate func(url string)
	OnReload   func()
	OnEvaluate func(script string, arg any) (any, error)

	// FindErr, when set, is returned for matching selectors instead of results.
	FindErr map[entities.Selector]error

	ScreenshotErr error
	Screenshots   []string
	Navigations   []string
	Reloads       int
	Closed        bool

	elements registry
}

// NewPage - creates a page at url
func NewPage(url string) *Page {
	return &Page{URL: url, elements: make(registry), FindErr: make(map[entities.Selector]error)}
}

// Add registers elements returned for a selector
func (p *Page) Add(sel entities.Selector, els ...*Element) *Page {
	p.elements[sel] = func() []*Element { return els }
	return p
}

// Resolve registers a function computing the elements of a selector at query time
func (p *Page) Resolve(sel entities.Selector, fn func() []*Element) *Page {
	p.elements[sel] = fn
	return p
}

// Remove forgets a selector
func (p *Page) Remove(sel entities.Selector) {
	delete(p.elements, sel)
}

func (p *Page) Navigate(ctx context.Context, url string) error {
	p.Navigations = append(p.Navigations, url)
	p.URL = url
	if p.OnNavigate != nil {
		p.OnNavigate(url)
	}
	return nil
}

func (p *Page) Reload(ctx context.Context) error {
	p.Reloads++
	if p.OnReload != nil {
		p.OnReload()
	}
	return nil
}

func (p *Page) CurrentURL(ctx context.Context) (string, error) {
	return p.URL, nil
}

func (p *Page) FindElements(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	if err := p.FindErr[sel]; err != nil {
		return nil, err
	}
	return p.elements.find(sel), nil
}

func (p *Page) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if p.OnEvaluate == nil {
		return nil, errors.New("browsertest: no page script handler")
	}
	return p.OnEvaluate(script, arg)
}

func (p *Page) Screenshot(ctx context.Context, path string) error {
	if p.ScreenshotErr != nil {
		return p.ScreenshotErr
	}
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

func (p *Page) Close() error {
	p.Closed = true
	return nil
}

// Element is an in-memory interfaces.Element
type Element struct {
	Name      string
	Displayed bool
	Enabled   bool

	// Per-mechanism error queues; each call pops the head, an empty queue succeeds.
	ClickErrs        []error
	ScriptClickErrs  []error
	PointerClickErrs []error

	// OnClick runs after any successful click mechanism.
	OnClick func()
	// OnSendKeys rewrites the text that lands in the value, e.g. to drop keystrokes.
	OnSendKeys func(text string) string
	OnEvaluate func(script string, arg any) (any, error)

	Clicks     map[entities.Mechanism]int
	Scrolls    int
	text       string
	value      string
	attributes map[string]string
	children   registry
}

// NewElement - creates a displayed, enabled element
func NewElement(name string) *Element {
	return &Element{
		Name:       name,
		Displayed:  true,
		Enabled:    true,
		Clicks:     make(map[entities.Mechanism]int),
		attributes: make(map[string]string),
		children:   make(registry),
	}
}

func (e *Element) WithText(text string) *Element {
	e.text = text
	return e
}

func (e *Element) WithAttr(name, value string) *Element {
	e.attributes[name] = value
	return e
}

func (e *Element) Hidden() *Element {
	e.Displayed = false
	return e
}

func (e *Element) Disabled() *Element {
	e.Enabled = false
	return e
}

// Add registers child elements returned for a selector searched below e
func (e *Element) Add(sel entities.Selector, els ...*Element) *Element {
	e.children[sel] = func() []*Element { return els }
	return e
}

// Resolve registers a function computing the children of a selector at query time
func (e *Element) Resolve(sel entities.Selector, fn func() []*Element) *Element {
	e.children[sel] = fn
	return e
}

// Value returns what has been typed into the element
func (e *Element) Value() string {
	return e.value
}

// SetValue replaces the element value directly
func (e *Element) SetValue(v string) {
	e.value = v
}

// TotalClicks counts successful clicks across mechanisms
func (e *Element) TotalClicks() int {
	n := 0
	for _, c := range e.Clicks {
		n += c
	}
	return n
}

func (e *Element) FindElements(ctx context.Context, sel entities.Selector) ([]interfaces.Element, error) {
	if sel == entities.XPath(".") {
		return []interfaces.Element{e}, nil
	}
	return e.children.find(sel), nil
}

func pop(queue *[]error) error {
	if len(*queue) == 0 {
		return nil
	}
	err := (*queue)[0]
	*queue = (*queue)[1:]
	return err
}

func (e *Element) click(m entities.Mechanism, queue *[]error) error {
	if err := pop(queue); err != nil {
		return err
	}
	e.Clicks[m]++
	if e.OnClick != nil {
		e.OnClick()
	}
	return nil
}

func (e *Element) Click(ctx context.Context) error {
	return e.click(entities.MechanismNative, &e.ClickErrs)
}

func (e *Element) ScriptClick(ctx context.Context) error {
	return e.click(entities.MechanismScript, &e.ScriptClickErrs)
}

func (e *Element) PointerClick(ctx context.Context) error {
	return e.click(entities.MechanismPointer, &e.PointerClickErrs)
}

func (e *Element) Clear(ctx context.Context) error {
	e.value = ""
	return nil
}

func (e *Element) SendKeys(ctx context.Context, text string) error {
	if e.OnSendKeys != nil {
		text = e.OnSendKeys(text)
	}
	e.value += text
	return nil
}

func (e *Element) Attribute(ctx context.Context, name string) (string, error) {
	if name == "value" {
		return e.value, nil
	}
	return e.attributes[name], nil
}

func (e *Element) Text(ctx context.Context) (string, error) {
	return strings.TrimSpace(e.text), nil
}

func (e *Element) IsDisplayed(ctx context.Context) (bool, error) {
	return e.Displayed, nil
}

func (e *Element) IsEnabled(ctx context.Context) (bool, error) {
	return e.Enabled, nil
}

func (e *Element) ScrollIntoView(ctx context.Context) error {
	e.Scrolls++
	return nil
}

func (e *Element) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if e.OnEvaluate == nil {
		return nil, errors.New("browsertest: no element script handler")
	}
	return e.OnEvaluate(script, arg)
}

var (
	_ interfaces.Browser = (*Page)(nil)
	_ interfaces.Element = (*Element)(nil)
)
