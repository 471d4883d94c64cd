// Package namespace is the explicit name registry the parser and guards
// resolve identifiers against: type names for annotations and case calls,
// constants and functions for guard expressions.
//
// Names may be dotted; each segment but the last selects a nested
// namespace created with Sub.
package namespace

import (
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/pattern"
	"github.com/arthur-debert/fpm/pkg/registry"
)

// Func is a function callable from guard expressions.
type Func func(args ...any) (any, error)

// Namespace maps names to types, values, functions and nested namespaces.
// It is safe for concurrent use.
type Namespace struct {
	entries registry.Registry[any]
}

// New returns an empty namespace.
func New() *Namespace {
	return &Namespace{entries: registry.New[any]()}
}

// Builtins returns a fresh namespace holding the builtin names.
func Builtins() *Namespace {
	ns := New()
	for name, t := range pattern.BuiltinTypes() {
		_ = ns.DefineType(name, t)
	}
	_ = ns.DefineFunc("len", Len)
	return ns
}

// Define binds value to name, replacing any previous definition.
func (ns *Namespace) Define(name string, value any) error {
	parent, leaf, err := ns.parentFor(name)
	if err != nil {
		return err
	}
	return parent.entries.Set(leaf, value)
}

// DefineType binds a type to name.
func (ns *Namespace) DefineType(name string, t reflect.Type) error {
	if t == nil {
		return errors.Newf(errors.ErrInvalidInput, "nil type for %q", name)
	}
	return ns.Define(name, t)
}

// DefineFunc binds a guard-callable function to name.
func (ns *Namespace) DefineFunc(name string, fn Func) error {
	if fn == nil {
		return errors.Newf(errors.ErrInvalidInput, "nil function for %q", name)
	}
	return ns.Define(name, fn)
}

// Sub returns the nested namespace called name, creating it when missing.
// It fails when name is already bound to something else.
func (ns *Namespace) Sub(name string) (*Namespace, error) {
	parent, leaf, err := ns.parentFor(name)
	if err != nil {
		return nil, err
	}
	return parent.child(leaf)
}

func (ns *Namespace) child(name string) (*Namespace, error) {
	if existing, ok := ns.entries.Lookup(name); ok {
		sub, isNS := existing.(*Namespace)
		if !isNS {
			return nil, errors.Newf(errors.ErrAlreadyExists, "%q is already defined and is not a namespace", name)
		}
		return sub, nil
	}
	sub := New()
	if err := ns.entries.Register(name, sub); err != nil {
		// lost a race with another Sub call
		return ns.child(name)
	}
	return sub, nil
}

func (ns *Namespace) parentFor(path string) (*Namespace, string, error) {
	segments := strings.Split(path, ".")
	for _, s := range segments {
		if s == "" {
			return nil, "", errors.Newf(errors.ErrInvalidInput, "invalid name %q", path)
		}
	}
	cur := ns
	for _, s := range segments[:len(segments)-1] {
		next, err := cur.child(s)
		if err != nil {
			return nil, "", err
		}
		cur = next
	}
	return cur, segments[len(segments)-1], nil
}

// Lookup resolves a possibly dotted path.
func (ns *Namespace) Lookup(path string) (any, bool) {
	cur := ns
	segments := strings.Split(path, ".")
	for i, s := range segments {
		v, ok := cur.entries.Lookup(s)
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return v, true
		}
		if cur, ok = v.(*Namespace); !ok {
			return nil, false
		}
	}
	return nil, false
}

// LookupType resolves path and reports whether it names a type.
func (ns *Namespace) LookupType(path string) (reflect.Type, bool) {
	v, ok := ns.Lookup(path)
	if !ok {
		return nil, false
	}
	t, ok := v.(reflect.Type)
	return t, ok
}

// Names lists the names defined directly in ns, sorted.
func (ns *Namespace) Names() []string {
	return ns.entries.List()
}

// Scope resolves bare names during guard evaluation.
type Scope interface {
	Resolve(name string) (any, bool)
}

type overlay struct {
	bindings map[string]any
	ns       *Namespace
}

// Overlay returns a Scope where bindings shadow the names of ns.
func (ns *Namespace) Overlay(bindings map[string]any) Scope {
	return overlay{bindings: bindings, ns: ns}
}

func (o overlay) Resolve(name string) (any, bool) {
	if v, ok := o.bindings[name]; ok {
		return v, true
	}
	if o.ns == nil {
		return nil, false
	}
	return o.ns.entries.Lookup(name)
}

// Len is the builtin len: the rune count of a string, or the size of a
// slice, array or map.
func Len(args ...any) (any, error) {
	if len(args) != 1 {
		return nil, errors.Newf(errors.ErrGuardEval, "len() takes exactly one argument (%d given)", len(args))
	}
	rv := reflect.ValueOf(args[0])
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), nil
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), nil
	}
	return nil, errors.Newf(errors.ErrGuardEval, "object of type %T has no len()", args[0])
}
