package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-eventform/pkg/form"
	"github.com/goliatone/go-eventform/pkg/validation"
	"github.com/goliatone/go-eventform/pkg/visibility"
)

// Evaluator is a small visibility rule evaluator. Compiled rules are cached,
// so one Evaluator can be shared by every form instance.
//
// Supported syntax:
//   - truthiness: `newsletter`, `!newsletter`
//   - comparisons: `attendingWithGuest == "yes"`, `age != 0`, `vip == true`
//   - composition: `a == "x" && (b || !c)`
type Evaluator struct {
	mu    sync.RWMutex
	rules map[string]node
}

var _ visibility.Evaluator = (*Evaluator)(nil)

// New returns an Evaluator with an empty rule cache.
func New() *Evaluator {
	return &Evaluator{rules: make(map[string]node)}
}

// Eval reports whether the rule holds for values. An empty rule is always
// visible.
func (e *Evaluator) Eval(_ string, rule string, values form.Values) (bool, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}
	compiled, err := e.compile(trimmed)
	if err != nil {
		return false, err
	}
	return compiled.eval(values), nil
}

// Validate reports whether rule parses.
func (e *Evaluator) Validate(rule string) error {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return nil
	}
	_, err := e.compile(trimmed)
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	e.mu.RLock()
	compiled, ok := e.rules[rule]
	e.mu.RUnlock()
	if ok {
		return compiled, nil
	}

	tokens, err := tokenize(rule)
	if err != nil {
		return nil, err
	}
	compiled, err = parse(tokens)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	if e.rules == nil {
		e.rules = make(map[string]node)
	}
	e.rules[rule] = compiled
	e.mu.Unlock()
	return compiled, nil
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokNumber
	tokBool
	tokEq
	tokNeq
	tokAnd
	tokOr
	tokNot
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	raw  string
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	for i := 0; i < len(input); {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case ch == '(':
			tokens = append(tokens, token{kind: tokLParen, raw: "("})
			i++
		case ch == ')':
			tokens = append(tokens, token{kind: tokRParen, raw: ")"})
			i++
		case ch == '!':
			if i+1 < len(input) && input[i+1] == '=' {
				tokens = append(tokens, token{kind: tokNeq, raw: "!="})
				i += 2
				continue
			}
			tokens = append(tokens, token{kind: tokNot, raw: "!"})
			i++
		case ch == '=':
			if i+1 >= len(input) || input[i+1] != '=' {
				return nil, errors.New("visibility/expr: unexpected '='; use '=='")
			}
			tokens = append(tokens, token{kind: tokEq, raw: "=="})
			i += 2
		case ch == '&':
			if i+1 >= len(input) || input[i+1] != '&' {
				return nil, errors.New("visibility/expr: unexpected '&'; use '&&'")
			}
			tokens = append(tokens, token{kind: tokAnd, raw: "&&"})
			i += 2
		case ch == '|':
			if i+1 >= len(input) || input[i+1] != '|' {
				return nil, errors.New("visibility/expr: unexpected '|'; use '||'")
			}
			tokens = append(tokens, token{kind: tokOr, raw: "||"})
			i += 2
		case ch == '"' || ch == '\'':
			end := i + 1
			for end < len(input) && input[end] != ch {
				if input[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(input) {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			body := input[i+1 : end]
			if ch == '\'' {
				body = strings.ReplaceAll(body, `"`, `\"`)
				body = strings.ReplaceAll(body, `\'`, `'`)
			}
			value, err := strconv.Unquote(`"` + body + `"`)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			tokens = append(tokens, token{kind: tokString, raw: value})
			i = end + 1
		default:
			start := i
			for i < len(input) && !strings.ContainsRune(" \t\n\r()!=&|\"'", rune(input[i])) {
				i++
			}
			raw := input[start:i]
			switch {
			case raw == "true" || raw == "false":
				tokens = append(tokens, token{kind: tokBool, raw: raw})
			case raw[0] == '-' || raw[0] == '+' || (raw[0] >= '0' && raw[0] <= '9'):
				tokens = append(tokens, token{kind: tokNumber, raw: raw})
			default:
				tokens = append(tokens, token{kind: tokIdent, raw: raw})
			}
		}
	}
	return tokens, nil
}

type node interface {
	eval(values form.Values) bool
}

type orNode struct{ left, right node }

func (n orNode) eval(values form.Values) bool { return n.left.eval(values) || n.right.eval(values) }

type andNode struct{ left, right node }

func (n andNode) eval(values form.Values) bool { return n.left.eval(values) && n.right.eval(values) }

type notNode struct{ inner node }

func (n notNode) eval(values form.Values) bool { return !n.inner.eval(values) }

type truthyNode struct{ field string }

func (n truthyNode) eval(values form.Values) bool {
	return validation.Present(values, n.field) && !isFalseText(values, n.field)
}

type compareNode struct {
	field   string
	negate  bool
	literal token
}

func (n compareNode) eval(values form.Values) bool {
	var equal bool
	switch n.literal.kind {
	case tokBool:
		equal = values.Bool(n.field) == (n.literal.raw == "true")
	case tokNumber:
		want, _ := validation.ParseNumber(n.literal.raw)
		got, ok := validation.ParseNumber(values.String(n.field))
		equal = ok && values.String(n.field) != "" && got == want
	default:
		equal = values.String(n.field) == n.literal.raw
	}
	if n.negate {
		return !equal
	}
	return equal
}

func isFalseText(values form.Values, field string) bool {
	raw, ok := values.Get(field)
	if !ok {
		return false
	}
	text, isString := raw.(string)
	return isString && text == "false"
}

type parser struct {
	tokens []token
	pos    int
}

func parse(tokens []token) (node, error) {
	if len(tokens) == 0 {
		return nil, errors.New("visibility/expr: empty expression")
	}
	p := &parser{tokens: tokens}
	out, err := p.or()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", p.tokens[p.pos].raw)
	}
	return out, nil
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(tokOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(tokAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andNode{left: left, right: right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.match(tokNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notNode{inner: inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.match(tokLParen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.match(tokRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	if p.pos >= len(p.tokens) {
		return nil, errors.New("visibility/expr: unexpected end of expression")
	}
	ident := p.tokens[p.pos]
	if ident.kind != tokIdent {
		return nil, fmt.Errorf("visibility/expr: expected field name, got %q", ident.raw)
	}
	p.pos++

	switch {
	case p.match(tokEq):
		lit, err := p.literal()
		if err != nil {
			return nil, err
		}
		return compareNode{field: ident.raw, literal: lit}, nil
	case p.match(tokNeq):
		lit, err := p.literal()
		if err != nil {
			return nil, err
		}
		return compareNode{field: ident.raw, negate: true, literal: lit}, nil
	default:
		return truthyNode{field: ident.raw}, nil
	}
}

func (p *parser) literal() (token, error) {
	if p.pos >= len(p.tokens) {
		return token{}, errors.New("visibility/expr: missing literal")
	}
	tok := p.tokens[p.pos]
	p.pos++
	switch tok.kind {
	case tokString, tokNumber, tokBool:
		return tok, nil
	case tokIdent:
		// bare words compare as strings
		return token{kind: tokString, raw: tok.raw}, nil
	default:
		return token{}, fmt.Errorf("visibility/expr: expected literal, got %q", tok.raw)
	}
}

func (p *parser) match(kind tokenKind) bool {
	if p.pos < len(p.tokens) && p.tokens[p.pos].kind == kind {
		p.pos++
		return true
	}
	return false
}
