package pattern

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Patterns render in the text form the parser reads back. Ranges that are
// neither a list tail nor the empty list have no such form, and neither do
// guards nested below the top level; they still render, for display only.

// withName prefixes an atom with the name it is bound to.
func withName(name, body string) string {
	if name == "" {
		return body
	}
	return name + "@" + body
}

// named renders a bound pattern as name@atom, parenthesizing bodies that
// are not atoms on their own.
func named(name, body string, isAtom bool) string {
	if name == "" {
		return body
	}
	if !isAtom {
		body = "(" + body + ")"
	}
	return name + "@" + body
}

// atomic reports whether p renders as a single atom, one that can stand
// as a list head or an "@" body without parentheses.
func atomic(p Pattern) bool {
	if p.BoundName() != "" {
		return true
	}
	switch x := p.(type) {
	case *Or, *Guarded, *Rest:
		return false
	case *List:
		return !x.consForm()
	}
	return true
}

func operand(p Pattern) string {
	if atomic(p) {
		return p.String()
	}
	return "(" + p.String() + ")"
}

// consForm reports whether the list was built by Cons with a tail that
// only the "::" form can express.
func (p *List) consForm() bool {
	if len(p.Elems) < 2 {
		return false
	}
	switch last := p.Elems[len(p.Elems)-1].(type) {
	case *Rest:
		return last.Name == ""
	case *Range:
		return last.tail()
	}
	return false
}

// tail reports whether the range is what Cons makes of a variable or []
// tail.
func (p *Range) tail() bool {
	a, ok := p.inner().(*Any)
	if !ok || a.Name != "" {
		return false
	}
	return p.Len == Infinite || p.Len == 0
}

func (p *List) renderCons() string {
	var sb strings.Builder
	last := len(p.Elems) - 1
	for _, e := range p.Elems[:last] {
		sb.WriteString(operand(e))
		sb.WriteString(" :: ")
	}
	switch t := p.Elems[last].(type) {
	case *Rest:
		sb.WriteString(operand(t.inner()))
	case *Range:
		if t.Len == 0 {
			sb.WriteString(withName(t.Name, "[]"))
		} else if t.Name == "" {
			sb.WriteString("_")
		} else {
			sb.WriteString(t.Name)
		}
	}
	return sb.String()
}

func joinPatterns(ps []Pattern) string {
	parts := make([]string, len(ps))
	for i, e := range ps {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func formatLiteral(v any) string {
	switch x := v.(type) {
	case nil:
		return "nil"
	case string:
		return quote(x)
	case float32:
		return formatFloat(float64(x), 32)
	case float64:
		return formatFloat(x, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}

func formatFloat(f float64, bits int) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += "."
	}
	return s
}

// quote writes s as a double quoted string literal. Only the escapes the
// lexer decodes are used; every other rune is written as is.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
