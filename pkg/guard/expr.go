package guard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/namespace"
)

// Expr is a node of a guard expression.
type Expr interface {
	Eval(scope namespace.Scope) (any, error)
	String() string
}

// Binding strength of each node kind, used to render the minimum of
// parentheses.
const (
	precOr = iota + 1
	precAnd
	precNot
	precCompare
	precSum
	precTerm
	precUnary
	precPostfix
)

func precedence(e Expr) int {
	switch x := e.(type) {
	case *Logical:
		if x.Op == "or" {
			return precOr
		}
		return precAnd
	case *Not:
		return precNot
	case *Binary:
		return opPrecedence(x.Op)
	case *Neg:
		return precUnary
	}
	return precPostfix
}

func opPrecedence(op string) int {
	switch op {
	case "+", "-":
		return precSum
	case "*", "/", "%":
		return precTerm
	}
	return precCompare
}

// wrap renders e, parenthesized when it binds looser than min.
func wrap(e Expr, min int) string {
	if precedence(e) < min {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Literal is a constant.
type Literal struct {
	Value any
}

func (l *Literal) Eval(namespace.Scope) (any, error) { return l.Value, nil }

func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(v)
	case float64:
		s := strconv.FormatFloat(v, 'f', -1, 64)
		if !strings.ContainsAny(s, ".eEnN") {
			s += "."
		}
		return s
	}
	return fmt.Sprintf("%v", l.Value)
}

// Name refers to a binding or a namespace entry.
type Name struct {
	Name string
}

func (n *Name) Eval(scope namespace.Scope) (any, error) {
	if v, ok := scope.Resolve(n.Name); ok {
		return v, nil
	}
	return nil, errors.Newf(errors.ErrNameResolution, "name %q is not defined", n.Name)
}

func (n *Name) String() string { return n.Name }

// List builds a []any from its elements.
type List struct {
	Elems []Expr
}

func (l *List) Eval(scope namespace.Scope) (any, error) {
	return evalAll(l.Elems, scope)
}

func (l *List) String() string {
	return "[" + joinExprs(l.Elems) + "]"
}

// Not negates the truthiness of X.
type Not struct {
	X Expr
}

func (n *Not) Eval(scope namespace.Scope) (any, error) {
	v, err := n.X.Eval(scope)
	if err != nil {
		return nil, err
	}
	return !Truthy(v), nil
}

func (n *Not) String() string { return "not " + wrap(n.X, precNot) }

// Neg is arithmetic negation.
type Neg struct {
	X Expr
}

func (n *Neg) Eval(scope namespace.Scope) (any, error) {
	v, err := n.X.Eval(scope)
	if err != nil {
		return nil, err
	}
	return negate(v)
}

func (n *Neg) String() string { return "-" + wrap(n.X, precUnary) }

// Logical is a short-circuit "and" or "or". Like the operands it
// combines, the result is the deciding operand, not a forced bool.
type Logical struct {
	Op   string
	L, R Expr
}

func (l *Logical) Eval(scope namespace.Scope) (any, error) {
	left, err := l.L.Eval(scope)
	if err != nil {
		return nil, err
	}
	if Truthy(left) == (l.Op == "or") {
		return left, nil
	}
	return l.R.Eval(scope)
}

func (l *Logical) String() string {
	p := precedence(l)
	return wrap(l.L, p) + " " + l.Op + " " + wrap(l.R, p+1)
}

// Binary covers arithmetic, comparison and membership operators.
type Binary struct {
	Op   string
	L, R Expr
}

func (b *Binary) Eval(scope namespace.Scope) (any, error) {
	left, err := b.L.Eval(scope)
	if err != nil {
		return nil, err
	}
	right, err := b.R.Eval(scope)
	if err != nil {
		return nil, err
	}
	return apply(b.Op, left, right)
}

func (b *Binary) String() string {
	p := precedence(b)
	left := p
	if p == precCompare {
		// comparisons do not chain
		left = p + 1
	}
	return wrap(b.L, left) + " " + b.Op + " " + wrap(b.R, p+1)
}

// Attr reads a struct field, a map key or a nested namespace entry.
type Attr struct {
	X    Expr
	Name string
}

func (a *Attr) Eval(scope namespace.Scope) (any, error) {
	v, err := a.X.Eval(scope)
	if err != nil {
		return nil, err
	}
	return attribute(v, a.Name)
}

func (a *Attr) String() string { return wrap(a.X, precPostfix) + "." + a.Name }

// Index subscripts a sequence, string or map.
type Index struct {
	X, Index Expr
}

func (i *Index) Eval(scope namespace.Scope) (any, error) {
	v, err := i.X.Eval(scope)
	if err != nil {
		return nil, err
	}
	key, err := i.Index.Eval(scope)
	if err != nil {
		return nil, err
	}
	return index(v, key)
}

func (i *Index) String() string {
	return wrap(i.X, precPostfix) + "[" + i.Index.String() + "]"
}

// Call invokes a function registered in the namespace.
type Call struct {
	Fn   Expr
	Args []Expr
}

func (c *Call) Eval(scope namespace.Scope) (any, error) {
	fn, err := c.Fn.Eval(scope)
	if err != nil {
		return nil, err
	}
	args, err := evalAll(c.Args, scope)
	if err != nil {
		return nil, err
	}
	switch f := fn.(type) {
	case namespace.Func:
		return f(args...)
	case func(...any) (any, error):
		return f(args...)
	}
	return nil, errors.Newf(errors.ErrGuardEval, "%s is not callable", c.Fn)
}

func (c *Call) String() string {
	return wrap(c.Fn, precPostfix) + "(" + joinExprs(c.Args) + ")"
}

func evalAll(exprs []Expr, scope namespace.Scope) ([]any, error) {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		v, err := e.Eval(scope)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
