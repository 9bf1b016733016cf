package locator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"dms_automation/application/wait"
	"dms_automation/domain/entities"
	"dms_automation/domain/interfaces"
)

// TextSearch finds the option containing Text in a long, lazily rendered list.
type TextSearch struct {
	Text string
	// Option is the direct query for the wanted option.
	Option entities.Target
	// Items matches every option of the open list; its first CSS strategy drives the bulk scan.
	Items entities.Target
	// Wrap is the scroll container of the open list.
	Wrap entities.Target

	MaxScrolls int
	ScrollStep int
}

const (
	DefaultMaxScrolls = 8
	DefaultScrollStep = 120
)

// bulkScanScript returns the indices of the rendered options holding the text. Lists of
// closed dropdowns stay in the DOM, so items without a layout box are skipped.
const bulkScanScript = `(arg) => {
	const items = document.querySelectorAll(arg.selector);
	const hits = [];
	for (let i = 0; i < items.length; i++) {
		if (items[i].offsetParent !== null && (items[i].textContent || '').includes(arg.text)) {
			hits.push(i);
		}
	}
	return hits;
}`

const scrollByScript = `(el, step) => {
	el.scrollTop += step;
	return el.scrollTop;
}`

// SearchText looks for the option in increasing cost order: a direct query, one scripted
// scan over every rendered option, scrolling the list and re-querying, and finally a
// linear scan of the materialized options.
func (l *Locator) SearchText(ctx context.Context, search TextSearch) (Match, error) {
	if search.MaxScrolls <= 0 {
		search.MaxScrolls = DefaultMaxScrolls
	}
	if search.ScrollStep <= 0 {
		search.ScrollStep = DefaultScrollStep
	}

	m, err := l.FirstOf(ctx, search.Option.Role,
		Tier{Name: "direct-query", Find: l.directQuery(search)},
		Tier{Name: "bulk-scan", Find: l.bulkScan(search)},
		Tier{Name: "scroll-search", Find: l.scrollSearch(search)},
		Tier{Name: "linear-scan", Find: l.linearScan(search)},
	)

	fields := logrus.Fields{"role": search.Option.Role, "text": search.Text}
	if err != nil {
		l.logger.WithFields(fields).Warnf("option not found after all tiers")
		return Match{}, err
	}
	fields["strategy"] = m.Strategy.Name
	fields["elapsed"] = m.Elapsed.Round(10 * time.Millisecond).String()
	l.logger.WithFields(fields).Info("option located")
	return m, nil
}

func (l *Locator) directQuery(search TextSearch) func(ctx context.Context) (interfaces.Element, error) {
	return func(ctx context.Context) (interfaces.Element, error) {
		m, err := l.Locate(ctx, search.Option)
		if err != nil {
			if entities.IsKind(err, entities.ElementNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return m.Element, nil
	}
}

func itemsCSS(items entities.Target) string {
	for _, s := range items.Strategies {
		if s.Selector.By == entities.ByCSS {
			return s.Selector.Value
		}
	}
	return ""
}

func (l *Locator) bulkScan(search TextSearch) func(ctx context.Context) (interfaces.Element, error) {
	return func(ctx context.Context) (interfaces.Element, error) {
		css := itemsCSS(search.Items)
		if css == "" {
			return nil, fmt.Errorf("no css strategy for %s", search.Items.Role)
		}

		res, err := l.browser.Evaluate(ctx, bulkScanScript, map[string]any{"selector": css, "text": search.Text})
		if err != nil {
			return nil, err
		}
		hits := toInts(res)
		if len(hits) == 0 {
			return nil, nil
		}

		els, err := l.browser.FindElements(ctx, entities.CSS(css))
		if err != nil {
			return nil, err
		}
		for _, idx := range hits {
			if idx < 0 || idx >= len(els) {
				continue
			}
			if Qualifies(ctx, els[idx], search.Option.Interactive) {
				return els[idx], nil
			}
		}
		return nil, nil
	}
}

func (l *Locator) scrollSearch(search TextSearch) func(ctx context.Context) (interfaces.Element, error) {
	return func(ctx context.Context) (interfaces.Element, error) {
		wrap, err := l.Locate(ctx, search.Wrap)
		if err != nil {
			return nil, err
		}

		query := l.directQuery(search)
		for scrolled := 0; ; scrolled++ {
			el, err := query(ctx)
			if err != nil {
				return nil, err
			}
			if el != nil {
				l.logger.WithFields(logrus.Fields{"role": search.Option.Role, "scrolls": scrolled}).Debug("option materialized")
				return el, nil
			}
			if scrolled == search.MaxScrolls {
				return nil, nil
			}
			if _, err := wrap.Element.Evaluate(ctx, scrollByScript, search.ScrollStep); err != nil {
				return nil, fmt.Errorf("scroll list: %w", err)
			}
			if err := wait.Pause(ctx, l.timing.ScrollSettle); err != nil {
				return nil, err
			}
		}
	}
}

func (l *Locator) linearScan(search TextSearch) func(ctx context.Context) (interfaces.Element, error) {
	return func(ctx context.Context) (interfaces.Element, error) {
		for _, s := range search.Items.Strategies {
			els, err := l.browser.FindElements(ctx, s.Selector)
			if err != nil {
				continue
			}
			for _, el := range els {
				text, err := el.Text(ctx)
				if err != nil || !strings.Contains(text, search.Text) {
					continue
				}
				if Qualifies(ctx, el, search.Option.Interactive) {
					return el, nil
				}
			}
		}
		return nil, nil
	}
}

// toInts reads the index list a script returned; drivers hand back JSON numbers
func toInts(v any) []int {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(list))
	for _, item := range list {
		if n, ok := toInt(item); ok {
			out = append(out, n)
		}
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
