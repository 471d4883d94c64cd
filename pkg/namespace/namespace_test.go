package namespace_test

import (
	"reflect"
	"testing"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/namespace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Shape struct {
	Sides int
}

func TestBuiltins(t *testing.T) {
	ns := namespace.Builtins()

	tests := []struct {
		name     string
		expected reflect.Type
	}{
		{"int", reflect.TypeOf(0)},
		{"float", reflect.TypeOf(0.0)},
		{"str", reflect.TypeOf("")},
		{"bool", reflect.TypeOf(true)},
		{"list", reflect.TypeOf([]any{})},
		{"map", reflect.TypeOf(map[string]any{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, ok := ns.LookupType(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.expected, typ)
		})
	}

	anyType, ok := ns.LookupType("any")
	require.True(t, ok)
	assert.Equal(t, reflect.Interface, anyType.Kind())

	_, ok = ns.LookupType("len")
	assert.False(t, ok, "len is a function, not a type")
	_, ok = ns.Lookup("len")
	assert.True(t, ok)
}

func TestBuiltinsAreIndependent(t *testing.T) {
	a := namespace.Builtins()
	b := namespace.Builtins()

	require.NoError(t, a.Define("limit", 3))
	_, ok := b.Lookup("limit")
	assert.False(t, ok)
}

func TestDottedNames(t *testing.T) {
	ns := namespace.New()
	require.NoError(t, ns.DefineType("geo.Shape", reflect.TypeOf(Shape{})))
	require.NoError(t, ns.Define("geo.units.scale", 2))

	typ, ok := ns.LookupType("geo.Shape")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(Shape{}), typ)

	v, ok := ns.Lookup("geo.units.scale")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	geo, err := ns.Sub("geo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Shape", "units"}, geo.Names())

	_, ok = ns.Lookup("geo.Missing")
	assert.False(t, ok)
	_, ok = ns.Lookup("geo.Shape.Sides")
	assert.False(t, ok, "types are not namespaces")
}

func TestInvalidNames(t *testing.T) {
	ns := namespace.New()

	for _, name := range []string{"", "a.", ".a", "a..b"} {
		err := ns.Define(name, 1)
		require.Error(t, err, name)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	}

	require.NoError(t, ns.Define("x", 1))
	_, err := ns.Sub("x")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyExists))

	assert.Error(t, ns.DefineType("t", nil))
	assert.Error(t, ns.DefineFunc("f", nil))
}

func TestOverlay(t *testing.T) {
	ns := namespace.Builtins()
	require.NoError(t, ns.Define("limit", 10))

	scope := ns.Overlay(map[string]any{"x": 1, "limit": 5})

	v, ok := scope.Resolve("x")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = scope.Resolve("limit")
	require.True(t, ok)
	assert.Equal(t, 5, v, "bindings shadow namespace entries")

	_, ok = scope.Resolve("len")
	assert.True(t, ok)

	_, ok = scope.Resolve("missing")
	assert.False(t, ok)
}

func TestLen(t *testing.T) {
	tests := []struct {
		name     string
		arg      any
		expected int
	}{
		{"string", "héllo", 5},
		{"slice", []any{1, 2}, 2},
		{"array", [3]int{}, 3},
		{"map", map[string]any{"a": 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := namespace.Len(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}

	_, err := namespace.Len(3)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGuardEval))

	_, err = namespace.Len("a", "b")
	assert.Error(t, err)
}
