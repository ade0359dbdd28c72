// Package expr implements the rule language used by conditional fields.
//
// Supported forms:
//   - truthiness: `hasExperience`
//   - comparison: `hasExperience == "yes"`, `agreeToTerms != true`
//   - membership: `preferredDomains contains "JavaScript"`
//   - composition: `!a`, `a && b`, `a || (b && c)`
package expr

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-internsite/pkg/visibility"
)

// Evaluator compiles rules on first use and caches them.
type Evaluator struct {
	mu    sync.RWMutex
	rules map[string]*Rule
}

var _ visibility.Evaluator = (*Evaluator)(nil)

func New() *Evaluator {
	return &Evaluator{rules: make(map[string]*Rule)}
}

// Eval reports whether rule holds for ctx. An empty rule is always true.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return true, nil
	}
	r, err := e.compiled(rule)
	if err != nil {
		return false, err
	}
	return r.Match(ctx.Values), nil
}

func (e *Evaluator) compiled(rule string) (*Rule, error) {
	e.mu.RLock()
	r, ok := e.rules[rule]
	e.mu.RUnlock()
	if ok {
		return r, nil
	}
	r, err := Compile(rule)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.rules[rule] = r
	e.mu.Unlock()
	return r, nil
}

// Rule is a compiled visibility rule.
type Rule struct {
	src  string
	root node
}

// Match evaluates the rule against flat field values.
func (r *Rule) Match(values map[string]any) bool {
	return r.root.eval(values)
}

func (r *Rule) String() string { return r.src }

// Compile parses a rule without evaluating it so schemas can be checked for
// malformed rules up front.
func Compile(rule string) (*Rule, error) {
	toks, err := lex(rule)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.or()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tEOF {
		return nil, fmt.Errorf("visibility/expr: unexpected %q", tok.text)
	}
	return &Rule{src: rule, root: n}, nil
}

type kind int

const (
	tEOF kind = iota
	tIdent
	tString
	tNumber
	tTrue
	tFalse
	tEq
	tNeq
	tAnd
	tOr
	tNot
	tContains
	tLParen
	tRParen
)

type tok struct {
	kind kind
	text string
}

func lex(src string) ([]tok, error) {
	var out []tok
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			out = append(out, tok{tLParen, "("})
			i++
		case c == ')':
			out = append(out, tok{tRParen, ")"})
			i++
		case strings.HasPrefix(src[i:], "=="):
			out = append(out, tok{tEq, "=="})
			i += 2
		case strings.HasPrefix(src[i:], "!="):
			out = append(out, tok{tNeq, "!="})
			i += 2
		case strings.HasPrefix(src[i:], "&&"):
			out = append(out, tok{tAnd, "&&"})
			i += 2
		case strings.HasPrefix(src[i:], "||"):
			out = append(out, tok{tOr, "||"})
			i += 2
		case c == '!':
			out = append(out, tok{tNot, "!"})
			i++
		case c == '"' || c == '\'':
			end := i + 1
			for end < len(src) && src[end] != c {
				if src[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(src) {
				return nil, fmt.Errorf("visibility/expr: unterminated string at offset %d", i)
			}
			lit := src[i+1 : end]
			if c == '"' {
				unq, err := strconv.Unquote(src[i : end+1])
				if err != nil {
					return nil, fmt.Errorf("visibility/expr: bad string literal: %w", err)
				}
				lit = unq
			}
			out = append(out, tok{tString, lit})
			i = end + 1
		case isWordByte(c):
			start := i
			for i < len(src) && isWordByte(src[i]) {
				i++
			}
			word := src[start:i]
			switch {
			case word == "true":
				out = append(out, tok{tTrue, word})
			case word == "false":
				out = append(out, tok{tFalse, word})
			case word == "contains":
				out = append(out, tok{tContains, word})
			case isNumber(word):
				out = append(out, tok{tNumber, word})
			default:
				out = append(out, tok{tIdent, word})
			}
		default:
			return nil, fmt.Errorf("visibility/expr: unexpected character %q at offset %d", c, i)
		}
	}
	return append(out, tok{kind: tEOF}), nil
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '-' || c == '+' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isNumber(word string) bool {
	_, err := strconv.ParseFloat(word, 64)
	return err == nil
}

type parser struct {
	toks []tok
	pos  int
}

func (p *parser) peek() tok { return p.toks[p.pos] }

func (p *parser) accept(k kind) bool {
	if p.toks[p.pos].kind != k {
		return false
	}
	p.pos++
	return true
}

func (p *parser) or() (node, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.accept(tOr) {
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = anyOf{left, right}
	}
	return left, nil
}

func (p *parser) and() (node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.accept(tAnd) {
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = allOf{left, right}
	}
	return left, nil
}

func (p *parser) unary() (node, error) {
	if p.accept(tNot) {
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return not{inner}, nil
	}
	return p.primary()
}

func (p *parser) primary() (node, error) {
	if p.accept(tLParen) {
		inner, err := p.or()
		if err != nil {
			return nil, err
		}
		if !p.accept(tRParen) {
			return nil, fmt.Errorf("visibility/expr: missing ')'")
		}
		return inner, nil
	}
	ident := p.peek()
	if ident.kind != tIdent {
		if ident.kind == tEOF {
			return nil, fmt.Errorf("visibility/expr: unexpected end of rule")
		}
		return nil, fmt.Errorf("visibility/expr: expected field name, got %q", ident.text)
	}
	p.pos++

	op := p.peek()
	switch op.kind {
	case tEq, tNeq, tContains:
		p.pos++
		lit := p.peek()
		switch lit.kind {
		case tString, tNumber, tTrue, tFalse, tIdent:
			p.pos++
		default:
			return nil, fmt.Errorf("visibility/expr: expected literal after %q", op.text)
		}
		return compare{field: ident.text, op: op.kind, lit: lit}, nil
	}
	return truthy{field: ident.text}, nil
}

type node interface {
	eval(values map[string]any) bool
}

type anyOf [2]node

func (n anyOf) eval(v map[string]any) bool { return n[0].eval(v) || n[1].eval(v) }

type allOf [2]node

func (n allOf) eval(v map[string]any) bool { return n[0].eval(v) && n[1].eval(v) }

type not [1]node

func (n not) eval(v map[string]any) bool { return !n[0].eval(v) }

type truthy struct{ field string }

func (n truthy) eval(v map[string]any) bool {
	switch val := v[n.field].(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return strings.TrimSpace(val) != ""
	case []any:
		return len(val) > 0
	case []string:
		return len(val) > 0
	default:
		return true
	}
}

type compare struct {
	field string
	op    kind
	lit   tok
}

func (n compare) eval(v map[string]any) bool {
	got := v[n.field]
	if n.op == tContains {
		want := n.lit.text
		switch items := got.(type) {
		case []any:
			for _, item := range items {
				if fmt.Sprint(item) == want {
					return true
				}
			}
		case []string:
			for _, item := range items {
				if item == want {
					return true
				}
			}
		case string:
			return strings.Contains(items, want)
		}
		return false
	}
	eq := n.equal(got)
	if n.op == tNeq {
		return !eq
	}
	return eq
}

func (n compare) equal(got any) bool {
	switch n.lit.kind {
	case tTrue, tFalse:
		want := n.lit.kind == tTrue
		switch val := got.(type) {
		case bool:
			return val == want
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(val))
			return err == nil && b == want
		default:
			return !want && got == nil
		}
	case tNumber:
		want, _ := strconv.ParseFloat(n.lit.text, 64)
		switch val := got.(type) {
		case float64:
			return val == want
		case int:
			return float64(val) == want
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			return err == nil && f == want
		}
		return false
	default:
		if got == nil {
			return n.lit.text == ""
		}
		return fmt.Sprint(got) == n.lit.text
	}
}
