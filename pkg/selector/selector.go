// Copyright (c) 2025 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

// Package selector compiles SQL-92 style message selector expressions into
// executable filters over message properties.
//
// The supported subset covers the forms commonly found in selector strings:
// comparison operators (=, <>, <, <=, >, >=), AND/OR/NOT, parenthesized
// groups, IN lists, LIKE patterns with % and _ wildcards, BETWEEN ranges,
// and IS [NOT] NULL tests. Keywords are case-insensitive and string literals
// use single quotes.
//
// A property that is absent or of an incompatible type makes the enclosing
// comparison unknown; a selector whose evaluation is unknown does not match.
package selector

import (
	"fmt"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Selector is a compiled message selector.
type Selector struct {
	text    string
	program *vm.Program
}

// cache holds compiled selectors keyed by their source text.
var (
	cacheMu sync.RWMutex
	cache   = map[string]*Selector{}
)

// Compile parses and compiles a selector expression. The compiled form is
// cached, so repeated compilation of the same text is cheap.
func Compile(
	text string,
) (*Selector, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("selector must not be blank")
	}

	cacheMu.RLock()
	if s, ok := cache[trimmed]; ok {
		cacheMu.RUnlock()
		return s, nil
	}
	cacheMu.RUnlock()

	translated, err := translate(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse selector %q: %w", trimmed, err)
	}

	program, err := expr.Compile(
		translated,
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile selector %q: %w", trimmed, err)
	}

	s := &Selector{text: trimmed, program: program}

	cacheMu.Lock()
	// Another goroutine may have compiled the same text in the meantime.
	if existing, ok := cache[trimmed]; ok {
		cacheMu.Unlock()
		return existing, nil
	}
	cache[trimmed] = s
	cacheMu.Unlock()

	return s, nil
}

// Matches evaluates the selector against a set of message properties.
// Evaluation errors (absent properties, type mismatches) yield unknown,
// which does not match.
func (s *Selector) Matches(
	properties map[string]any,
) bool {
	env := properties
	if env == nil {
		env = map[string]any{}
	}

	result, err := expr.Run(s.program, env)
	if err != nil {
		return false
	}

	matched, ok := result.(bool)

	return ok && matched
}

// String returns the original selector text.
func (s *Selector) String() string {
	return s.text
}

// Equal reports whether two selector texts denote the same subscription
// filter. Nil selectors compare equal to other nil selectors only.
func Equal(
	a *Selector,
	b *Selector,
) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.text == b.text
}
