// Package caseclass adapts Go values into the (type tag, ordered arguments)
// shape consumed by Case patterns.
//
// A value takes part in Case matching either by implementing Case, or by
// having its struct type registered with Register, in which case its exported
// fields in declaration order are its arguments. The type tag is always the
// value's reflect.Type.
package caseclass

import (
	"reflect"
	"strings"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/registry"
)

// Case is implemented by values exposing a fixed, ordered list of
// constructor arguments.
type Case interface {
	CaseArgs() []any
}

// derived holds the field layout of a registered struct type.
type derived struct {
	typ     reflect.Type
	indexes []int
	names   []string
}

var layouts = registry.New[derived]()

func typeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.Name()
}

// Register derives the argument order of a struct type from its declared
// fields. v is either a value of the type or its reflect.Type. Unexported
// fields and fields tagged `case:"-"` are skipped.
func Register(v any) error {
	t, ok := v.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(v)
	}
	if t == nil {
		return errors.New(errors.ErrInvalidInput, "cannot register nil as a case class")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return errors.Newf(errors.ErrInvalidInput, "case class %s must be a struct type", t)
	}
	if t.Name() == "" {
		return errors.Newf(errors.ErrInvalidInput, "case class %s must be a named type", t)
	}

	d := derived{typ: t}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag, _, _ := strings.Cut(f.Tag.Get("case"), ","); tag == "-" {
			continue
		}
		d.indexes = append(d.indexes, i)
		d.names = append(d.names, f.Name)
	}

	if existing, found := layouts.Lookup(typeKey(t)); found && existing.typ == t {
		return nil
	}
	return layouts.Set(typeKey(t), d)
}

// MustRegister is Register for package initialisation.
func MustRegister(v any) {
	if err := Register(v); err != nil {
		panic(err)
	}
}

func layoutOf(t reflect.Type) (derived, bool) {
	if t == nil || t.Kind() != reflect.Struct {
		return derived{}, false
	}
	d, ok := layouts.Lookup(typeKey(t))
	if !ok || d.typ != t {
		return derived{}, false
	}
	return d, true
}

// Is reports whether v can be matched by a Case pattern.
func Is(v any) bool {
	_, ok := Args(v)
	return ok
}

// Args returns the ordered constructor arguments of v.
func Args(v any) ([]any, bool) {
	if c, ok := v.(Case); ok {
		return c.CaseArgs(), true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, false
	}
	d, ok := layoutOf(rv.Type())
	if !ok {
		return nil, false
	}

	args := make([]any, len(d.indexes))
	for i, idx := range d.indexes {
		args[i] = rv.Field(idx).Interface()
	}
	return args, true
}

// FieldNames returns the argument names of a registered struct type.
func FieldNames(t reflect.Type) ([]string, bool) {
	d, ok := layoutOf(t)
	if !ok {
		return nil, false
	}
	return append([]string(nil), d.names...), true
}
