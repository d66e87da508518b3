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

package selector

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokOp
	tokPunct
)

type token struct {
	kind tokenKind
	// text holds the raw token; for tokString it is the unquoted value.
	text string
}

// keywords maps upper-cased selector keywords to their expr equivalent.
// Keywords needing structural rewrites (IS, LIKE, BETWEEN) are handled
// before rendering and must not remain by the time this map is consulted.
var keywords = map[string]string{
	"AND":   "and",
	"OR":    "or",
	"NOT":   "not",
	"IN":    "in",
	"TRUE":  "true",
	"FALSE": "false",
	"NULL":  "nil",
}

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// translate rewrites a selector expression into expr syntax.
func translate(
	text string,
) (string, error) {
	tokens, err := lex(text)
	if err != nil {
		return "", err
	}
	if len(tokens) == 0 {
		return "", fmt.Errorf("empty expression")
	}

	tokens, err = rewrite(tokens)
	if err != nil {
		return "", err
	}

	return render(tokens)
}

// lex splits the selector into tokens. String literals use single quotes
// with '' as the embedded-quote escape.
func lex(
	text string,
) ([]token, error) {
	var tokens []token

	runes := []rune(text)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '\'':
			value, next, err := lexString(runes, i)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token{kind: tokString, text: value})
			i = next
		case unicode.IsDigit(r):
			start := i
			for i < len(runes) &&
				(unicode.IsDigit(runes[i]) || runes[i] == '.' ||
					runes[i] == 'e' || runes[i] == 'E') {
				i++
			}
			tokens = append(tokens, token{kind: tokNumber, text: string(runes[start:i])})
		case unicode.IsLetter(r) || r == '_' || r == '$':
			start := i
			for i < len(runes) &&
				(unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) ||
					runes[i] == '_' || runes[i] == '$') {
				i++
			}
			tokens = append(tokens, token{kind: tokIdent, text: string(runes[start:i])})
		case r == '<':
			if i+1 < len(runes) && (runes[i+1] == '=' || runes[i+1] == '>') {
				tokens = append(tokens, token{kind: tokOp, text: string(runes[i : i+2])})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokOp, text: "<"})
				i++
			}
		case r == '>':
			if i+1 < len(runes) && runes[i+1] == '=' {
				tokens = append(tokens, token{kind: tokOp, text: ">="})
				i += 2
			} else {
				tokens = append(tokens, token{kind: tokOp, text: ">"})
				i++
			}
		case r == '=':
			tokens = append(tokens, token{kind: tokOp, text: "="})
			i++
		case r == '+' || r == '-' || r == '*' || r == '/':
			tokens = append(tokens, token{kind: tokOp, text: string(r)})
			i++
		case r == '(' || r == ')' || r == ',':
			tokens = append(tokens, token{kind: tokPunct, text: string(r)})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q", r)
		}
	}

	return tokens, nil
}

// lexString scans a single-quoted literal starting at runes[start].
func lexString(
	runes []rune,
	start int,
) (value string, next int, err error) {
	var sb strings.Builder

	i := start + 1
	for i < len(runes) {
		if runes[i] == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				sb.WriteRune('\'')
				i += 2
				continue
			}

			return sb.String(), i + 1, nil
		}
		sb.WriteRune(runes[i])
		i++
	}

	return "", 0, fmt.Errorf("unterminated string literal")
}

// rewrite performs the structural transformations that have no direct expr
// counterpart: IS [NOT] NULL, [NOT] BETWEEN, and [NOT] LIKE.
func rewrite(
	tokens []token,
) ([]token, error) {
	var out []token

	isKw := func(t token, kw string) bool {
		return t.kind == tokIdent && strings.EqualFold(t.text, kw)
	}
	isOperand := func(t token) bool {
		if t.kind == tokString || t.kind == tokNumber {
			return true
		}

		return t.kind == tokIdent && keywords[strings.ToUpper(t.text)] == ""
	}

	i := 0
	for i < len(tokens) {
		t := tokens[i]

		// <operand> IS [NOT] NULL
		if isKw(t, "IS") {
			if i+2 < len(tokens) && isKw(tokens[i+1], "NOT") && isKw(tokens[i+2], "NULL") {
				out = append(out,
					token{kind: tokOp, text: "<>"},
					token{kind: tokIdent, text: "NULL"},
				)
				i += 3
				continue
			}
			if i+1 < len(tokens) && isKw(tokens[i+1], "NULL") {
				out = append(out,
					token{kind: tokOp, text: "="},
					token{kind: tokIdent, text: "NULL"},
				)
				i += 2
				continue
			}

			return nil, fmt.Errorf("IS must be followed by [NOT] NULL")
		}

		// <operand> [NOT] BETWEEN <low> AND <high>
		if isKw(t, "BETWEEN") ||
			(isKw(t, "NOT") && i+1 < len(tokens) && isKw(tokens[i+1], "BETWEEN")) {
			negated := isKw(t, "NOT")
			base := i
			if negated {
				base = i + 1
			}
			if len(out) == 0 || !isOperand(out[len(out)-1]) {
				return nil, fmt.Errorf("BETWEEN requires a left-hand operand")
			}
			if base+3 >= len(tokens) ||
				!isOperand(tokens[base+1]) ||
				!isKw(tokens[base+2], "AND") ||
				!isOperand(tokens[base+3]) {
				return nil, fmt.Errorf("BETWEEN requires <low> AND <high>")
			}

			operand := out[len(out)-1]
			low, high := tokens[base+1], tokens[base+3]
			out = out[:len(out)-1]

			lowOp, join, highOp := ">=", "AND", "<="
			if negated {
				lowOp, join, highOp = "<", "OR", ">"
			}

			out = append(out,
				token{kind: tokPunct, text: "("},
				operand,
				token{kind: tokOp, text: lowOp},
				low,
				token{kind: tokIdent, text: join},
				operand,
				token{kind: tokOp, text: highOp},
				high,
				token{kind: tokPunct, text: ")"},
			)
			i = base + 4
			continue
		}

		// <operand> [NOT] LIKE '<pattern>'
		if isKw(t, "LIKE") ||
			(isKw(t, "NOT") && i+1 < len(tokens) && isKw(tokens[i+1], "LIKE")) {
			negated := isKw(t, "NOT")
			base := i
			if negated {
				base = i + 1
			}
			if len(out) == 0 || !isOperand(out[len(out)-1]) {
				return nil, fmt.Errorf("LIKE requires a left-hand operand")
			}
			if base+1 >= len(tokens) || tokens[base+1].kind != tokString {
				return nil, fmt.Errorf("LIKE requires a string pattern")
			}
			if base+3 < len(tokens) && isKw(tokens[base+2], "ESCAPE") {
				return nil, fmt.Errorf("LIKE ESCAPE is not supported")
			}

			operand := out[len(out)-1]
			out = out[:len(out)-1]

			group := []token{
				token{kind: tokPunct, text: "("},
				operand,
				token{kind: tokIdent, text: "matches"},
				token{kind: tokString, text: likeToRegex(tokens[base+1].text)},
				token{kind: tokPunct, text: ")"},
			}
			if negated {
				group = append([]token{
					{kind: tokIdent, text: "NOT"},
				}, group...)
			}
			out = append(out, group...)
			i = base + 2
			continue
		}

		// NOT IN renders natively as "not in"; leave it to render.
		out = append(out, t)
		i++
	}

	return out, nil
}

// render turns the rewritten token stream into an expr source string.
// IN list parentheses become list brackets.
func render(
	tokens []token,
) (string, error) {
	var (
		sb        strings.Builder
		listDepth []int // paren depth at which each open IN list started
		depth     int
	)

	write := func(s string) {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(s)
	}

	for i, t := range tokens {
		switch t.kind {
		case tokString:
			write(strconv.Quote(t.text))
		case tokNumber:
			write(t.text)
		case tokOp:
			switch t.text {
			case "=":
				write("==")
			case "<>":
				write("!=")
			default:
				write(t.text)
			}
		case tokPunct:
			switch t.text {
			case "(":
				depth++
				if i > 0 && isInKeyword(tokens[i-1]) {
					listDepth = append(listDepth, depth)
					write("[")
				} else {
					write("(")
				}
			case ")":
				if n := len(listDepth); n > 0 && listDepth[n-1] == depth {
					listDepth = listDepth[:n-1]
					write("]")
				} else {
					write(")")
				}
				depth--
			default:
				write(t.text)
			}
		case tokIdent:
			upper := strings.ToUpper(t.text)
			if mapped, ok := keywords[upper]; ok {
				write(mapped)
				continue
			}
			if upper == "IS" || upper == "LIKE" || upper == "BETWEEN" ||
				upper == "ESCAPE" || upper == "MATCHES" {
				if t.text == "matches" {
					// Introduced by the LIKE rewrite.
					write(t.text)
					continue
				}

				return "", fmt.Errorf("misplaced keyword %q", t.text)
			}
			if !identPattern.MatchString(t.text) {
				return "", fmt.Errorf("invalid identifier %q", t.text)
			}
			write(t.text)
		}
	}

	if depth != 0 {
		return "", fmt.Errorf("unbalanced parentheses")
	}

	return sb.String(), nil
}

func isInKeyword(
	t token,
) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, "IN")
}

// likeToRegex converts a LIKE pattern into an anchored regular expression:
// % matches any run of characters, _ matches exactly one.
func likeToRegex(
	pattern string,
) string {
	var sb strings.Builder

	sb.WriteString("^")
	for _, r := range pattern {
		switch r {
		case '%':
			sb.WriteString(".*")
		case '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")

	return sb.String()
}
