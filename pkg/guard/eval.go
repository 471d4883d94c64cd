package guard

import (
	"math"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/namespace"
	"github.com/arthur-debert/fpm/pkg/pattern"
)

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// number is a numeric operand normalised to either an int64 or a float64.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func toNumber(v any) (number, bool) {
	if v == nil {
		return number{}, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return number{i: rv.Int()}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return number{f: float64(u), isFloat: true}, true
		}
		return number{i: int64(u)}, true
	case reflect.Float32, reflect.Float64:
		return number{f: rv.Float(), isFloat: true}, true
	}
	return number{}, false
}

func (n number) float() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

func (n number) value() any {
	if n.isFloat {
		return n.f
	}
	return int(n.i)
}

func typeError(op string, l, r any) error {
	return errors.Newf(errors.ErrGuardEval, "unsupported operand types for %s: %T and %T", op, l, r)
}

func negate(v any) (any, error) {
	n, ok := toNumber(v)
	if !ok {
		return nil, errors.Newf(errors.ErrGuardEval, "bad operand type for unary -: %T", v)
	}
	if n.isFloat {
		return -n.f, nil
	}
	return int(-n.i), nil
}

func apply(op string, l, r any) (any, error) {
	switch op {
	case "==":
		return pattern.ValuesEqual(l, r), nil
	case "!=":
		return !pattern.ValuesEqual(l, r), nil
	case "<", "<=", ">", ">=":
		return compare(op, l, r)
	case "in":
		return contains(r, l)
	case "not in":
		in, err := contains(r, l)
		if err != nil {
			return nil, err
		}
		return !in, nil
	case "+", "-", "*", "/", "%":
		return arithmetic(op, l, r)
	}
	return nil, errors.Newf(errors.ErrGuardEval, "unknown operator %s", op)
}

func compare(op string, l, r any) (bool, error) {
	var c int
	ln, lok := toNumber(l)
	rn, rok := toNumber(r)
	switch {
	case lok && rok:
		c = compareNumbers(ln, rn)
	default:
		ls, lok := l.(string)
		rs, rok := r.(string)
		if !lok || !rok {
			return false, typeError(op, l, r)
		}
		c = strings.Compare(ls, rs)
	}
	switch op {
	case "<":
		return c < 0, nil
	case "<=":
		return c <= 0, nil
	case ">":
		return c > 0, nil
	default:
		return c >= 0, nil
	}
}

func compareNumbers(a, b number) int {
	if !a.isFloat && !b.isFloat {
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	}
	af, bf := a.float(), b.float()
	switch {
	case af < bf:
		return -1
	case af > bf:
		return 1
	}
	return 0
}

func arithmetic(op string, l, r any) (any, error) {
	if op == "+" {
		if ls, ok := l.(string); ok {
			if rs, ok := r.(string); ok {
				return ls + rs, nil
			}
		}
		if la, ok := l.([]any); ok {
			if ra, ok := r.([]any); ok {
				out := make([]any, 0, len(la)+len(ra))
				return append(append(out, la...), ra...), nil
			}
		}
	}

	a, aok := toNumber(l)
	b, bok := toNumber(r)
	if !aok || !bok {
		return nil, typeError(op, l, r)
	}

	if op == "/" {
		if b.float() == 0 {
			return nil, errors.New(errors.ErrGuardEval, "division by zero")
		}
		return a.float() / b.float(), nil
	}

	if a.isFloat || b.isFloat {
		x, y := a.float(), b.float()
		switch op {
		case "+":
			return x + y, nil
		case "-":
			return x - y, nil
		case "*":
			return x * y, nil
		}
		if y == 0 {
			return nil, errors.New(errors.ErrGuardEval, "modulo by zero")
		}
		m := math.Mod(x, y)
		if m != 0 && (m < 0) != (y < 0) {
			m += y
		}
		return m, nil
	}

	x, y := a.i, b.i
	switch op {
	case "+":
		return int(x + y), nil
	case "-":
		return int(x - y), nil
	case "*":
		return int(x * y), nil
	}
	if y == 0 {
		return nil, errors.New(errors.ErrGuardEval, "modulo by zero")
	}
	// the result takes the sign of the divisor
	m := x % y
	if m != 0 && (m < 0) != (y < 0) {
		m += y
	}
	return int(m), nil
}

func contains(container, elem any) (bool, error) {
	if s, ok := container.(string); ok {
		sub, ok := elem.(string)
		if !ok {
			return false, errors.Newf(errors.ErrGuardEval, "'in <string>' requires string as left operand, not %T", elem)
		}
		return strings.Contains(s, sub), nil
	}

	rv := reflect.ValueOf(container)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if pattern.ValuesEqual(rv.Index(i).Interface(), elem) {
				return true, nil
			}
		}
		return false, nil
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if pattern.ValuesEqual(iter.Key().Interface(), elem) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, errors.Newf(errors.ErrGuardEval, "argument of type %T is not iterable", container)
}

func attribute(v any, name string) (any, error) {
	if ns, ok := v.(*namespace.Namespace); ok {
		if found, ok := ns.Lookup(name); ok {
			return found, nil
		}
		return nil, errors.Newf(errors.ErrNameResolution, "name %q is not defined", name)
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			break
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct:
		if f, ok := rv.Type().FieldByName(name); ok && f.IsExported() {
			return rv.FieldByIndex(f.Index).Interface(), nil
		}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			key := reflect.ValueOf(name).Convert(rv.Type().Key())
			if found := rv.MapIndex(key); found.IsValid() {
				return found.Interface(), nil
			}
		}
	}
	return nil, errors.Newf(errors.ErrGuardEval, "%T has no attribute %q", v, name)
}

func index(v, key any) (any, error) {
	if s, ok := v.(string); ok {
		i, err := position(key, utf8.RuneCountInString(s))
		if err != nil {
			return nil, err
		}
		return string([]rune(s)[i]), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, err := position(key, rv.Len())
		if err != nil {
			return nil, err
		}
		return rv.Index(i).Interface(), nil
	case reflect.Map:
		k := reflect.ValueOf(key)
		if !k.IsValid() || !k.Type().AssignableTo(rv.Type().Key()) {
			return nil, errors.Newf(errors.ErrGuardEval, "invalid key type %T for %T", key, v)
		}
		found := rv.MapIndex(k)
		if !found.IsValid() {
			return nil, errors.Newf(errors.ErrGuardEval, "key %v not found", key)
		}
		return found.Interface(), nil
	}
	return nil, errors.Newf(errors.ErrGuardEval, "%T is not subscriptable", v)
}

// position resolves a possibly negative index against a length.
func position(key any, length int) (int, error) {
	n, ok := toNumber(key)
	if !ok || n.isFloat {
		return 0, errors.Newf(errors.ErrGuardEval, "indices must be integers, not %T", key)
	}
	i := int(n.i)
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return 0, errors.Newf(errors.ErrGuardEval, "index %d out of range", n.i)
	}
	return i, nil
}
