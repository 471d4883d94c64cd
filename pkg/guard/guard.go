// Package guard holds the expression language of pattern guards: a small
// AST evaluated against the bindings of a match overlaid on a namespace.
//
// Expressions are built by the parser; this package only evaluates and
// renders them.
package guard

import (
	"reflect"

	"github.com/arthur-debert/fpm/pkg/namespace"
	"github.com/arthur-debert/fpm/pkg/pattern"
)

// Condition adapts an expression into a pattern.Condition. Names resolve
// first against the bindings of the match, then against NS.
type Condition struct {
	Expr Expr
	NS   *namespace.Namespace
}

// New returns a Condition evaluating expr in ns.
func New(expr Expr, ns *namespace.Namespace) *Condition {
	return &Condition{Expr: expr, NS: ns}
}

// Holds evaluates the expression and reports its truthiness.
func (c *Condition) Holds(bs pattern.Bindings) (bool, error) {
	ns := c.NS
	if ns == nil {
		ns = namespace.New()
	}
	v, err := c.Expr.Eval(ns.Overlay(bs))
	if err != nil {
		return false, err
	}
	return Truthy(v), nil
}

func (c *Condition) String() string {
	return c.Expr.String()
}

// Truthy reports whether v counts as true: false, nil, zero numbers and
// empty strings, slices and maps are false, everything else is true.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	if isNumber(rv.Kind()) {
		return !rv.IsZero()
	}
	return true
}
