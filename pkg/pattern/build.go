package pattern

import (
	"reflect"
	"regexp"

	"github.com/arthur-debert/fpm/pkg/caseclass"
)

// Build converts plain Go values into patterns:
//
//   - no arguments yields Any
//   - several arguments yield a List of each one built
//   - a Pattern is returned unchanged
//   - a case value (see caseclass) yields a Case over its built arguments
//   - a reflect.Type yields InstanceOf
//   - a *regexp.Regexp yields a FullMatch Regex
//   - an empty slice or array yields a zero-length Range
//   - a non-empty slice or array yields a List of its elements built
//   - anything else yields Equals
func Build(args ...any) Pattern {
	switch len(args) {
	case 0:
		return &Any{}
	case 1:
		return build(args[0])
	default:
		return buildList(args)
	}
}

func build(arg any) Pattern {
	switch a := arg.(type) {
	case Pattern:
		return a
	case reflect.Type:
		return &InstanceOf{Type: a}
	case *regexp.Regexp:
		return NewRegex(a, FullMatch)
	case nil, string, []byte:
		return &Equals{Value: arg}
	}
	if args, ok := caseclass.Args(arg); ok {
		return &Case{Type: reflect.TypeOf(arg), Args: buildList(args)}
	}
	if elems, ok := asSequence(arg); ok {
		if len(elems) == 0 {
			return &Range{Inner: &Any{}, Len: 0}
		}
		return buildList(elems)
	}
	return &Equals{Value: arg}
}

func buildList(args []any) *List {
	elems := make([]Pattern, len(args))
	for i, a := range args {
		elems[i] = build(a)
	}
	return &List{Elems: elems}
}

// Bind returns a copy of p captured under name. An empty name removes the
// binding.
func Bind(p Pattern, name string) Pattern {
	return p.rename(name)
}

// Repeat returns a Range applying p to n elements. Repeating a Range
// changes its length and keeps its inner pattern and name.
func Repeat(p Pattern, n Length) *Range {
	if r, ok := p.(*Range); ok {
		return &Range{Named: r.Named, Inner: r.Inner, Len: n}
	}
	return &Range{Inner: p, Len: n}
}

// Unbounded is Repeat(p, Infinite).
func Unbounded(p Pattern) *Range {
	return Repeat(p, Infinite)
}

// OrElse returns a pattern matching left, or right when left fails.
func OrElse(left, right Pattern) *Or {
	return &Or{Left: left, Right: right}
}

// Guard attaches a condition to p.
func Guard(p Pattern, cond Condition) *Guarded {
	return &Guarded{Pattern: p, Guard: cond}
}

// Cons builds the head/tail list pattern head :: tail. The tail always
// matches the slice that remains after head.
//
// A bare Any tail becomes an Infinite Range carrying the tail's name, so
// that it captures the remaining slice. An unnamed List tail is spliced
// after head and a Range tail already consumes a slice. Any other tail is
// wrapped in a Rest.
func Cons(head, tail Pattern) *List {
	switch t := tail.(type) {
	case *Any:
		return &List{Elems: []Pattern{head, &Range{Named: t.Named, Inner: &Any{}, Len: Infinite}}}
	case *List:
		if t.Name == "" {
			elems := make([]Pattern, 0, len(t.Elems)+1)
			elems = append(elems, head)
			elems = append(elems, t.Elems...)
			return &List{Elems: elems}
		}
	case *Range:
		return &List{Elems: []Pattern{head, tail}}
	}
	return &List{Elems: []Pattern{head, &Rest{Pattern: tail}}}
}
