package pattern

import (
	"reflect"
	"regexp"
)

// ValuesEqual compares two matched values. Numbers compare by value across
// integer and float kinds, booleans never equal numbers, regular
// expressions compare by source. Everything else uses reflect.DeepEqual.
func ValuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ra, rb := reflect.ValueOf(a), reflect.ValueOf(b); isNumber(ra.Kind()) && isNumber(rb.Kind()) {
		return numbersEqual(ra, rb)
	}
	if ra, ok := a.(*regexp.Regexp); ok {
		rb, ok := b.(*regexp.Regexp)
		return ok && (ra == rb || ra != nil && rb != nil && ra.String() == rb.String())
	}
	return reflect.DeepEqual(a, b)
}

func isNumber(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k) || k == reflect.Float32 || k == reflect.Float64
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func numbersEqual(a, b reflect.Value) bool {
	ka, kb := a.Kind(), b.Kind()
	switch {
	case isSigned(ka) && isSigned(kb):
		return a.Int() == b.Int()
	case isUnsigned(ka) && isUnsigned(kb):
		return a.Uint() == b.Uint()
	case isSigned(ka) && isUnsigned(kb):
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint()
	case isUnsigned(ka) && isSigned(kb):
		return b.Int() >= 0 && uint64(b.Int()) == a.Uint()
	}
	return toFloat(a) == toFloat(b)
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isSigned(v.Kind()):
		return float64(v.Int())
	case isUnsigned(v.Kind()):
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

// Equal reports whether two patterns are structurally equal: same variant,
// same bound name, equal parameters and equal children. Guards compare by
// their rendered source and type spellings are ignored.
func Equal(a, b Pattern) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.BoundName() != b.BoundName() {
		return false
	}
	switch x := a.(type) {
	case *Any:
		_, ok := b.(*Any)
		return ok
	case *Equals:
		y, ok := b.(*Equals)
		return ok && ValuesEqual(x.Value, y.Value)
	case *InstanceOf:
		y, ok := b.(*InstanceOf)
		return ok && x.Type == y.Type
	case *Regex:
		y, ok := b.(*Regex)
		return ok && x.Mode == y.Mode && ValuesEqual(x.Re, y.Re)
	case *Range:
		y, ok := b.(*Range)
		return ok && x.Len == y.Len && Equal(x.inner(), y.inner())
	case *List:
		y, ok := b.(*List)
		return ok && equalAll(x.Elems, y.Elems)
	case *Rest:
		y, ok := b.(*Rest)
		return ok && Equal(x.inner(), y.inner())
	case *Case:
		y, ok := b.(*Case)
		return ok && x.Type == y.Type && equalAll(x.args().Elems, y.args().Elems)
	case *Or:
		y, ok := b.(*Or)
		return ok && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *Guarded:
		y, ok := b.(*Guarded)
		return ok && Equal(x.Pattern, y.Pattern) && sameGuard(x.Guard, y.Guard)
	}
	return false
}

func equalAll(a, b []Pattern) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameGuard(a, b Condition) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.String() == b.String()
}

// Names lists the names p can bind, in order of first appearance.
func Names(p Pattern) []string {
	var names []string
	seen := map[string]bool{}
	var walk func(Pattern)
	walk = func(p Pattern) {
		if p == nil {
			return
		}
		if n := p.BoundName(); n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
		// range elements match on scratch bindings, their names never escape
		switch x := p.(type) {
		case *List:
			for _, e := range x.Elems {
				walk(e)
			}
		case *Rest:
			walk(x.Pattern)
		case *Case:
			if x.Args != nil {
				walk(x.Args)
			}
		case *Or:
			walk(x.Left)
			walk(x.Right)
		case *Guarded:
			walk(x.Pattern)
		}
	}
	walk(p)
	return names
}
