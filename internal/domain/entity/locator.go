package entity

import "strings"

// Locator is a deferred, re-resolvable reference to zero or more elements.
// It carries a declarative query; resolution happens at the driver on each
// use, never cached, because the underlying DOM can mutate between actions.
type Locator struct {
	Selector string
	Text     string // optional regexp filter on visible text
	Scope    *Locator
}

// Css builds a locator from a CSS selector.
func Css(selector string) Locator {
	return Locator{Selector: selector}
}

// CssR builds a locator from a CSS selector plus a regexp the element's
// visible text must match.
func CssR(selector, text string) Locator {
	return Locator{Selector: selector, Text: text}
}

// Child returns a locator for selector resolved inside l.
func (l Locator) Child(selector string) Locator {
	scope := l
	return Locator{Selector: selector, Scope: &scope}
}

// ChildR is Child with a visible-text regexp filter.
func (l Locator) ChildR(selector, text string) Locator {
	scope := l
	return Locator{Selector: selector, Text: text, Scope: &scope}
}

// Within re-scopes l under parent.
func (l Locator) Within(parent Locator) Locator {
	scoped := l
	scoped.Scope = &parent
	return scoped
}

// Path renders the scope chain for error messages and logs.
func (l Locator) Path() string {
	var parts []string
	for cur := &l; cur != nil; cur = cur.Scope {
		s := cur.Selector
		if cur.Text != "" {
			s += "~/" + cur.Text + "/"
		}
		parts = append(parts, s)
	}
	// scope chain is built leaf-first
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " >> ")
}

// IsZero reports whether the locator has no query at all.
func (l Locator) IsZero() bool {
	return l.Selector == "" && l.Text == "" && l.Scope == nil
}
