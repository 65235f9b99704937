package csfile

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// literal parses the subset of Python literal syntax NumPy writes into .npy
// headers: dicts, lists, tuples, quoted strings, integers and booleans.
type literal struct {
	src string
	pos int
}

// tuple distinguishes Python tuples from lists after parsing.
type tuple []any

func parseLiteral(src string) (any, error) {
	p := &literal{src: src}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, p.errorf("trailing input")
	}
	return v, nil
}

func (p *literal) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *literal) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *literal) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *literal) value() (any, error) {
	switch c := p.peek(); {
	case c == '{':
		return p.dict()
	case c == '[':
		items, err := p.sequence('[', ']')
		return items, err
	case c == '(':
		items, err := p.sequence('(', ')')
		return tuple(items), err
	case c == '\'' || c == '"':
		return p.str()
	case c == '-' || (c >= '0' && c <= '9'):
		return p.integer()
	case c == 'T' || c == 'F':
		return p.boolean()
	case c == 0:
		return nil, p.errorf("unexpected end of input")
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *literal) dict() (map[string]any, error) {
	p.pos++ // {
	out := map[string]any{}
	for {
		if p.peek() == '}' {
			p.pos++
			return out, nil
		}
		k, err := p.str()
		if err != nil {
			return nil, err
		}
		if p.peek() != ':' {
			return nil, p.errorf("expected ':'")
		}
		p.pos++
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out[k] = v
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return nil, p.errorf("expected ',' or '}'")
		}
	}
}

func (p *literal) sequence(open, closing byte) ([]any, error) {
	if p.peek() != open {
		return nil, p.errorf("expected %q", open)
	}
	p.pos++
	var out []any
	for {
		if p.peek() == closing {
			p.pos++
			return out, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		switch p.peek() {
		case ',':
			p.pos++
		case closing:
		default:
			return nil, p.errorf("expected ',' or %q", closing)
		}
	}
}

func (p *literal) str() (string, error) {
	quote := p.peek()
	if quote != '\'' && quote != '"' {
		return "", p.errorf("expected string")
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		switch c {
		case quote:
			return b.String(), nil
		case '\\':
			if p.pos >= len(p.src) {
				return "", p.errorf("unterminated escape")
			}
			b.WriteByte(p.src[p.pos])
			p.pos++
		default:
			b.WriteByte(c)
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *literal) integer() (int, error) {
	p.skipSpace()
	start := p.pos
	if p.src[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	// Python 2 era headers may carry a long suffix.
	end := p.pos
	if p.pos < len(p.src) && p.src[p.pos] == 'L' {
		p.pos++
	}
	n, err := strconv.Atoi(p.src[start:end])
	if err != nil {
		return 0, p.errorf("bad integer %q", p.src[start:end])
	}
	return n, nil
}

func (p *literal) boolean() (bool, error) {
	p.skipSpace()
	switch {
	case strings.HasPrefix(p.src[p.pos:], "True"):
		p.pos += 4
		return true, nil
	case strings.HasPrefix(p.src[p.pos:], "False"):
		p.pos += 5
		return false, nil
	}
	return false, p.errorf("expected True or False")
}
