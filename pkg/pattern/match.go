package pattern

import (
	"reflect"

	"github.com/arthur-debert/fpm/pkg/caseclass"
	"github.com/arthur-debert/fpm/pkg/errors"
)

// Bindings maps bound names to captured values.
type Bindings map[string]any

// Copy returns a shallow copy of the bindings. A nil receiver yields an
// empty, non-nil map.
func (bs Bindings) Copy() Bindings {
	c := make(Bindings, len(bs))
	for k, v := range bs {
		c[k] = v
	}
	return c
}

// Lookup returns the value bound to name.
func (bs Bindings) Lookup(name string) (any, bool) {
	v, ok := bs[name]
	return v, ok
}

// Result is the outcome of a successful match.
type Result struct {
	Bindings Bindings
}

// Match tests v against p. It returns nil when v does not match.
func Match(p Pattern, v any) (*Result, error) {
	return MatchWith(p, v, nil)
}

// MatchWith is Match with pre-seeded bindings: names already present must be
// re-bound to equal values. initial is not modified.
func MatchWith(p Pattern, v any, initial Bindings) (*Result, error) {
	bs := initial.Copy()
	ok, err := match(p, v, bs)
	if err != nil || !ok {
		return nil, err
	}
	return &Result{Bindings: bs}, nil
}

// match reports whether v matches p, recording bindings into bs. On failure
// bs may hold partial bindings; callers that need to continue with the
// original state work on a copy.
func match(p Pattern, v any, bs Bindings) (bool, error) {
	var (
		ok  bool
		err error
	)
	switch p := p.(type) {
	case *Any:
		ok = true
	case *Equals:
		ok = ValuesEqual(p.Value, v)
	case *InstanceOf:
		ok = isInstance(v, p.Type)
	case *Regex:
		ok = p.matches(v)
	case *Range:
		ok, err = matchRange(p, v, bs)
	case *List:
		ok, err = matchList(p, v, bs)
	case *Rest:
		if p.Pattern == nil {
			return false, errors.New(errors.ErrPatternConfig, "rest without a pattern")
		}
		ok, err = match(p.Pattern, v, bs)
	case *Case:
		ok, err = matchCase(p, v, bs)
	case *Or:
		ok, err = matchOr(p, v, bs)
	case *Guarded:
		ok, err = matchGuarded(p, v, bs)
	case nil:
		return false, errors.New(errors.ErrPatternConfig, "nil pattern")
	default:
		return false, errors.Newf(errors.ErrInternal, "unsupported pattern type %T", p)
	}
	if err != nil || !ok {
		return false, err
	}
	return bind(bs, p.BoundName(), v), nil
}

// bind records v under name. A name already bound must hold an equal value.
func bind(bs Bindings, name string, v any) bool {
	if name == "" {
		return true
	}
	if prev, exists := bs[name]; exists {
		return ValuesEqual(prev, v)
	}
	bs[name] = v
	return true
}

func merge(dst, src Bindings) {
	for k, v := range src {
		dst[k] = v
	}
}

func (p *Range) validate() error {
	if p.Inner != nil && p.Inner.BoundName() != "" {
		return errors.New(errors.ErrPatternConfig, "the pattern inside a range can't be bound").
			WithDetail("pattern", p.Inner.String())
	}
	switch {
	case p.Len == Unset:
		return errors.New(errors.ErrPatternConfig, "range length is unset")
	case p.Len == 1:
		return errors.New(errors.ErrPatternConfig, "range length must be 0, higher than 1 or infinite")
	case p.Len < Unset:
		return errors.Newf(errors.ErrPatternConfig, "invalid range length %d", int(p.Len))
	}
	return nil
}

func matchRange(p *Range, v any, bs Bindings) (bool, error) {
	if err := p.validate(); err != nil {
		return false, err
	}
	seq, ok := asSequence(v)
	if !ok {
		return false, nil
	}
	if p.Len != Infinite && len(seq) != int(p.Len) {
		return false, nil
	}
	inner := p.inner()
	for _, elem := range seq {
		// scratch bindings: elements of a range never leak names
		ok, err := match(inner, elem, bs.Copy())
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func matchList(p *List, v any, bs Bindings) (bool, error) {
	seq, ok := asSequence(v)
	if !ok {
		return false, nil
	}
	remaining := seq
	for _, sub := range p.Elems {
		if sub == nil {
			return false, errors.New(errors.ErrPatternConfig, "nil pattern in list")
		}
		n := sub.Length()
		var target any
		switch {
		case n == Infinite:
			target = cloneSeq(remaining)
			remaining = remaining[len(remaining):]
		case n == 1:
			if len(remaining) < 1 {
				return false, nil
			}
			target = remaining[0]
			remaining = remaining[1:]
		case n >= 0:
			if len(remaining) < int(n) {
				return false, nil
			}
			target = cloneSeq(remaining[:n])
			remaining = remaining[n:]
		default:
			if r, isRange := sub.(*Range); isRange {
				return false, r.validate()
			}
			return false, errors.Newf(errors.ErrPatternConfig, "pattern %s has %s length", sub, n)
		}
		ok, err := match(sub, target, bs)
		if err != nil || !ok {
			return false, err
		}
	}
	return len(remaining) == 0, nil
}

func matchCase(p *Case, v any, bs Bindings) (bool, error) {
	if !isInstance(v, p.Type) {
		return false, nil
	}
	args, ok := caseclass.Args(v)
	if !ok {
		return false, nil
	}
	return match(p.args(), args, bs)
}

func matchOr(p *Or, v any, bs Bindings) (bool, error) {
	trial := bs.Copy()
	ok, err := match(p.Left, v, trial)
	if err != nil {
		return false, err
	}
	if ok {
		merge(bs, trial)
		return true, nil
	}
	return match(p.Right, v, bs)
}

func matchGuarded(p *Guarded, v any, bs Bindings) (bool, error) {
	trial := bs.Copy()
	ok, err := match(p.Pattern, v, trial)
	if err != nil || !ok {
		return false, err
	}
	if p.Guard != nil {
		holds, err := p.Guard.Holds(trial)
		if err != nil || !holds {
			return false, err
		}
	}
	merge(bs, trial)
	return true, nil
}

// isInstance reports whether v's dynamic type is t, or implements t when t
// is an interface type.
func isInstance(v any, t reflect.Type) bool {
	if t == nil {
		return false
	}
	vt := reflect.TypeOf(v)
	if t.Kind() == reflect.Interface {
		return vt == nil || vt.Implements(t)
	}
	return vt == t
}

// asSequence views slices and arrays as []any. Strings and byte slices are
// not sequences.
func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil, string, []byte:
		return nil, false
	case []any:
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func cloneSeq(s []any) []any {
	out := make([]any, len(s))
	copy(out, s)
	return out
}
