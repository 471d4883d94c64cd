package matcher

import (
	"math"
	"reflect"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/pattern"
)

// Handler is the logic attached to a rule. It receives the bindings of the
// winning match.
type Handler interface {
	Handle(bs pattern.Bindings) (any, error)
}

// HandlerFunc adapts a function over the whole bindings map to a Handler.
type HandlerFunc func(bs pattern.Bindings) (any, error)

// Handle calls f(bs).
func (f HandlerFunc) Handle(bs pattern.Bindings) (any, error) {
	return f(bs)
}

// paramHandler is implemented by handlers that read specific bindings.
type paramHandler interface {
	Params() []string
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type funcHandler struct {
	fn     reflect.Value
	params []string
}

// Func adapts an ordinary function into a Handler. The i-th parameter of fn
// receives the binding named params[i]; a binding absent from the match
// is passed as the parameter's zero value. fn may return nothing, a value,
// an error, or a value and an error.
//
//	h, err := matcher.Func(func(x int, rest []any) string { ... }, "x", "rest")
func Func(fn any, params ...string) (Handler, error) {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, errors.Newf(errors.ErrInvalidHandler, "handler must be a function, got %T", fn)
	}
	t := rv.Type()
	if t.IsVariadic() {
		return nil, errors.New(errors.ErrInvalidHandler, "handler cannot take variadic parameters")
	}
	if t.NumIn() != len(params) {
		return nil, errors.Newf(errors.ErrInvalidHandler,
			"handler takes %d parameters but %d binding names were given", t.NumIn(), len(params)).
			WithDetail("params", params)
	}
	seen := make(map[string]bool, len(params))
	for _, p := range params {
		if p == "" || seen[p] {
			return nil, errors.Newf(errors.ErrInvalidHandler, "invalid or repeated binding name %q", p)
		}
		seen[p] = true
	}
	switch t.NumOut() {
	case 0, 1:
	case 2:
		if !t.Out(1).Implements(errorType) {
			return nil, errors.Newf(errors.ErrInvalidHandler, "second result of handler must be an error, got %s", t.Out(1))
		}
	default:
		return nil, errors.Newf(errors.ErrInvalidHandler, "handler returns %d values, at most (value, error) is allowed", t.NumOut())
	}
	return &funcHandler{fn: rv, params: append([]string(nil), params...)}, nil
}

// MustFunc is Func for handlers known to be valid.
func MustFunc(fn any, params ...string) Handler {
	h, err := Func(fn, params...)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *funcHandler) Params() []string {
	return h.params
}

func (h *funcHandler) Handle(bs pattern.Bindings) (any, error) {
	t := h.fn.Type()
	args := make([]reflect.Value, len(h.params))
	for i, name := range h.params {
		arg, err := argument(bs, name, t.In(i))
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}

	out := h.fn.Call(args)
	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		if t.Out(0).Implements(errorType) {
			return nil, asError(out[0])
		}
		return out[0].Interface(), nil
	default:
		return out[0].Interface(), asError(out[1])
	}
}

func argument(bs pattern.Bindings, name string, want reflect.Type) (reflect.Value, error) {
	v, ok := bs[name]
	if !ok || v == nil {
		return reflect.Zero(want), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(want) {
		return rv, nil
	}
	if isNumeric(rv.Kind()) && isNumeric(want.Kind()) {
		if out, ok := convertNumber(rv, want); ok {
			return out, nil
		}
		return reflect.Value{}, errors.Newf(errors.ErrHandler,
			"binding %q value %v does not fit in %s", name, v, want)
	}
	return reflect.Value{}, errors.Newf(errors.ErrHandler,
		"binding %q of type %T cannot be passed as %s", name, v, want)
}

// convertNumber converts rv to want only when the value is kept exactly:
// floats must be integral to become integers and integers must be in
// range. Integers always become floats.
func convertNumber(rv reflect.Value, want reflect.Type) (reflect.Value, bool) {
	out := reflect.New(want).Elem()
	to := want.Kind()
	switch from := rv.Kind(); {
	case isFloat(from):
		f := rv.Float()
		switch {
		case isFloat(to):
			out.SetFloat(f)
			return out, out.Float() == f || math.IsNaN(f)
		case f != math.Trunc(f) || math.IsInf(f, 0):
			return out, false
		case isUnsigned(to):
			if f < 0 || f >= 1<<64 || out.OverflowUint(uint64(f)) {
				return out, false
			}
			out.SetUint(uint64(f))
		default:
			if f < -1<<63 || f >= 1<<63 || out.OverflowInt(int64(f)) {
				return out, false
			}
			out.SetInt(int64(f))
		}
	case isUnsigned(from):
		u := rv.Uint()
		switch {
		case isFloat(to):
			out.SetFloat(float64(u))
		case isUnsigned(to):
			if out.OverflowUint(u) {
				return out, false
			}
			out.SetUint(u)
		default:
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return out, false
			}
			out.SetInt(int64(u))
		}
	default:
		n := rv.Int()
		switch {
		case isFloat(to):
			out.SetFloat(float64(n))
		case isUnsigned(to):
			if n < 0 || out.OverflowUint(uint64(n)) {
				return out, false
			}
			out.SetUint(uint64(n))
		default:
			if out.OverflowInt(n) {
				return out, false
			}
			out.SetInt(n)
		}
	}
	return out, true
}

func asError(v reflect.Value) error {
	if (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) && v.IsNil() {
		return nil
	}
	return v.Interface().(error)
}

func isNumeric(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Float64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// sameHandler compares handlers by identity: the underlying function for
// function handlers, == for comparable handler values.
func sameHandler(a, b Handler) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := a.(*funcHandler); ok {
		fb, ok := b.(*funcHandler)
		return ok && fa.fn.Pointer() == fb.fn.Pointer() && equalStrings(fa.params, fb.params)
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	if ra.Kind() == reflect.Func {
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Type().Comparable() {
		return a == b
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
