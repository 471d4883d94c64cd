package pattern

import "reflect"

var builtinTypes = map[string]reflect.Type{
	"int":   reflect.TypeOf(0),
	"float": reflect.TypeOf(0.0),
	"str":   reflect.TypeOf(""),
	"bool":  reflect.TypeOf(false),
	"list":  reflect.TypeOf([]any(nil)),
	"map":   reflect.TypeOf(map[string]any(nil)),
	"any":   reflect.TypeOf((*any)(nil)).Elem(),
}

var builtinNames = func() map[reflect.Type]string {
	names := make(map[reflect.Type]string, len(builtinTypes))
	for name, t := range builtinTypes {
		names[t] = name
	}
	return names
}()

// BuiltinTypes returns the types every pattern language namespace starts
// with, keyed by the name patterns spell them with.
func BuiltinTypes() map[string]reflect.Type {
	out := make(map[string]reflect.Type, len(builtinTypes))
	for name, t := range builtinTypes {
		out[name] = t
	}
	return out
}

// typeLabel is the name a type is written with in pattern text: the
// spelling it was parsed from, its builtin name, or the Go type name.
func typeLabel(spelled string, t reflect.Type) string {
	if spelled != "" {
		return spelled
	}
	if name, ok := builtinNames[t]; ok {
		return name
	}
	return typeName(t)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
