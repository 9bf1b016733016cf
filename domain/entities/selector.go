package entities

import (
	"strings"
)

// By is the selection mechanism of a Selector
type By string

const (
	ByCSS   By = "css"
	ByXPath By = "xpath"
)

// Selector is a selection mechanism plus its expression
type Selector struct {
	By    By     `yaml:"by" json:"by"`
	Value string `yaml:"value" json:"value"`
}

// CSS - builds a CSS selector
func CSS(value string) Selector {
	return Selector{By: ByCSS, Value: value}
}

// XPath - builds an XPath selector
func XPath(value string) Selector {
	return Selector{By: ByXPath, Value: value}
}

func (s Selector) String() string {
	return string(s.By) + "=" + s.Value
}

// TextPlaceholder marks where a runtime text is substituted into a selector template.
// In XPath templates it is replaced by a quoted string literal, in CSS templates by the
// raw text.
const TextPlaceholder = "{text}"

// Fill - substitutes text into a selector template
func (s Selector) Fill(text string) Selector {
	if !strings.Contains(s.Value, TextPlaceholder) {
		return s
	}
	replacement := text
	if s.By == ByXPath {
		replacement = XPathLiteral(text)
	}
	return Selector{By: s.By, Value: strings.ReplaceAll(s.Value, TextPlaceholder, replacement)}
}

// XPathLiteral quotes text as an XPath 1.0 string literal. XPath has no escape
// sequences, so text holding both quote kinds is split into a concat() call.
func XPathLiteral(text string) string {
	if !strings.Contains(text, "'") {
		return "'" + text + "'"
	}
	if !strings.Contains(text, `"`) {
		return `"` + text + `"`
	}

	parts := strings.Split(text, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + part + "'")
	}
	b.WriteString(")")
	return b.String()
}
