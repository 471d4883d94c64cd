package matcher_test

import (
	stderrors "errors"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/matcher"
	"github.com/arthur-debert/fpm/pkg/pattern"
	"github.com/arthur-debert/fpm/pkg/testutil"
)

var (
	intType    = reflect.TypeOf(0)
	stringType = reflect.TypeOf("")
)

func v(name string) pattern.Pattern {
	return pattern.Bind(pattern.Build(), name)
}

func constant(out any) matcher.Handler {
	return matcher.HandlerFunc(func(pattern.Bindings) (any, error) {
		return out, nil
	})
}

func priorityRules(t *testing.T) []matcher.Rule {
	t.Helper()
	return []matcher.Rule{
		{Pattern: pattern.Build(1), Handler: constant("A")},
		{Pattern: pattern.Build(intType), Handler: constant("B")},
		{Pattern: pattern.Build(), Handler: constant("C")},
		{Pattern: pattern.Build(stringType), Handler: constant("D")},
	}
}

func TestDispatch_FirstMatchWins(t *testing.T) {
	dyn := matcher.New()
	b := matcher.NewBuilder()
	for _, r := range priorityRules(t) {
		require.NoError(t, dyn.Register(r.Pattern, r.Handler))
		b.Register(r.Pattern, r.Handler)
	}
	table, err := b.Build()
	require.NoError(t, err)

	tests := []struct {
		value    any
		expected string
	}{
		{1, "A"},
		{2, "B"},
		{"s", "C"},
		{1.5, "C"},
		{nil, "C"},
	}

	for _, m := range []matcher.Matcher{dyn, table} {
		for _, tt := range tests {
			out, err := m.Dispatch(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out, "value %v", tt.value)
		}
	}
}

func TestResolve_ReportsRuleAndBindings(t *testing.T) {
	m := matcher.New()
	require.NoError(t, m.Register(pattern.Build(intType), constant("int")))
	require.NoError(t, m.Register(pattern.Cons(v("h"), v("t")), constant("cons")))

	res, err := m.Resolve([]any{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Index)
	assert.Equal(t, pattern.Bindings{"h": 1, "t": []any{2, 3}}, res.Bindings)
}

func TestDispatch_VariableBinding(t *testing.T) {
	m := matcher.New()
	require.NoError(t, m.Handle(v("x"), func(x any) any { return x }, "x"))

	for _, value := range []any{1, "s", []any{1, 2}, nil} {
		out, err := m.Dispatch(value)
		require.NoError(t, err)
		assert.Equal(t, value, out)
	}
}

func TestDispatch_NoMatchDescribesLongValues(t *testing.T) {
	m := matcher.New()
	require.NoError(t, m.Register(pattern.Build(intType), constant("n")))

	value := strings.Repeat("é", 40)
	_, err := m.Dispatch(value)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoMatch))
	assert.True(t, utf8.ValidString(err.Error()), "%q", err.Error())
	assert.Contains(t, err.Error(), "...")
	assert.NotContains(t, err.Error(), value)
}

func TestDispatch_NoMatch(t *testing.T) {
	table, err := matcher.NewBuilder().Build()
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	for _, m := range []matcher.Matcher{matcher.New(), table} {
		_, err := m.Dispatch(1)
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrNoMatch))
	}

	m := matcher.New()
	require.NoError(t, m.Register(pattern.Build(stringType), constant("s")))
	_, err = m.Resolve(1)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoMatch))
}

func TestEqual(t *testing.T) {
	f := func(x int) int { return x }
	g := func(x int) int { return x + 1 }

	build := func(fn any) *matcher.Table {
		table, err := matcher.NewBuilder().
			Handle(pattern.Bind(pattern.Build(intType), "x"), fn, "x").
			Register(pattern.Build("s"), constant("s")).
			Build()
		require.NoError(t, err)
		return table
	}

	a, b, c := build(f), build(f), build(g)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))

	dyn := matcher.New()
	for _, r := range a.Rules() {
		require.NoError(t, dyn.Register(r.Pattern, r.Handler))
	}
	assert.True(t, dyn.Equal(a))
	assert.True(t, matcher.Equal(a, dyn))

	require.NoError(t, dyn.Register(pattern.Build(), constant(nil)))
	assert.False(t, dyn.Equal(a))
}

func TestFunc_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		fn     any
		params []string
	}{
		{"not a function", 42, nil},
		{"nil function", (func())(nil), nil},
		{"variadic", func(xs ...any) {}, []string{"xs"}},
		{"too few names", func(a, b any) {}, []string{"a"}},
		{"too many names", func(a any) {}, []string{"a", "b"}},
		{"empty name", func(a any) {}, []string{""}},
		{"repeated name", func(a, b any) {}, []string{"a", "a"}},
		{"three results", func() (int, int, error) { return 0, 0, nil }, nil},
		{"second result not error", func() (int, int) { return 0, 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := matcher.Func(tt.fn, tt.params...)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidHandler))
		})
	}
}

func TestRegister_Rejects(t *testing.T) {
	m := matcher.New()

	err := m.Handle(v("x"), func(y any) any { return y }, "y")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidHandler))

	err = m.Register(nil, constant(1))
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))

	err = m.Register(pattern.Build(), nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidHandler))

	assert.Equal(t, 0, m.Len())
}

func TestFunc_Results(t *testing.T) {
	boom := stderrors.New("boom")

	tests := []struct {
		name     string
		fn       any
		expected any
		err      error
	}{
		{"no results", func(x int) {}, nil, nil},
		{"value", func(x int) int { return x * 2 }, 42, nil},
		{"error only", func(x int) error { return boom }, nil, boom},
		{"nil error only", func(x int) error { return nil }, nil, nil},
		{"value and error", func(x int) (string, error) { return "ok", nil }, "ok", nil},
		{"value and failure", func(x int) (string, error) { return "", boom }, "", boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := matcher.Func(tt.fn, "x")
			require.NoError(t, err)

			out, err := h.Handle(pattern.Bindings{"x": 21})
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFunc_Arguments(t *testing.T) {
	h := matcher.MustFunc(func(f float64, n int, s string) []any {
		return []any{f, n, s}
	}, "f", "n", "s")

	out, err := h.Handle(pattern.Bindings{"f": 2, "n": int64(3)})
	require.NoError(t, err)
	assert.Equal(t, []any{2.0, 3, ""}, out)

	_, err = h.Handle(pattern.Bindings{"s": 1})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHandler))
}

func TestFunc_NumericArgumentsMustFit(t *testing.T) {
	tests := []struct {
		name     string
		fn       any
		value    any
		expected any
	}{
		{"integral float to int", func(x int) int { return x }, 2.0, 2},
		{"fraction to int", func(x int) int { return x }, 2.7, nil},
		{"infinity to int", func(x int) int { return x }, math.Inf(1), nil},
		{"int in range of int8", func(x int8) int8 { return x }, 100, int8(100)},
		{"int out of range of int8", func(x int8) int8 { return x }, 300, nil},
		{"negative to uint", func(x uint) uint { return x }, -1, nil},
		{"large uint to int64", func(x int64) int64 { return x }, uint64(math.MaxUint64), nil},
		{"int to float", func(x float64) float64 { return x }, 3, 3.0},
		{"exact float32", func(x float32) float32 { return x }, 0.5, float32(0.5)},
		{"inexact float32", func(x float32) float32 { return x }, 0.1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := matcher.New()
			require.NoError(t, m.Handle(v("x"), tt.fn, "x"))

			out, err := m.Dispatch(tt.value)
			if tt.expected == nil {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrHandler), "%v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestDispatch_AlternativeBindingsAsZeroValues(t *testing.T) {
	m := matcher.New()
	p := pattern.OrElse(
		pattern.Build(pattern.Bind(pattern.Build(intType), "n"), "int"),
		pattern.Build(pattern.Bind(pattern.Build(stringType), "s"), "str"),
	)
	require.NoError(t, m.Handle(p, func(n int, s string) []any { return []any{n, s} }, "n", "s"))

	out, err := m.Dispatch([]any{4, "int"})
	require.NoError(t, err)
	assert.Equal(t, []any{4, ""}, out)

	out, err = m.Dispatch([]any{"x", "str"})
	require.NoError(t, err)
	assert.Equal(t, []any{0, "x"}, out)
}

func TestDispatch_HandlerErrorIsWrapped(t *testing.T) {
	boom := stderrors.New("boom")
	m := matcher.New()
	require.NoError(t, m.Handle(pattern.Build(), func() error { return boom }))

	_, err := m.Dispatch(1)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrHandler))
	assert.ErrorIs(t, err, boom)
}

func TestResolve_PatternErrorsPropagate(t *testing.T) {
	m := matcher.New()
	require.NoError(t, m.Register(pattern.Repeat(pattern.Build(), 1), constant("never")))
	require.NoError(t, m.Register(pattern.Build(), constant("fallback")))

	_, err := m.Dispatch([]any{1})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternConfig))
	assert.Equal(t, 0, errors.GetErrorDetails(err)["index"])
}

func TestBuilder_CollectsErrors(t *testing.T) {
	_, err := matcher.NewBuilder().
		Handle(pattern.Build(), func(xs ...any) {}, "xs").
		Register(pattern.Build(), constant(1)).
		Build()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidHandler))

	_, err = matcher.NewBuilder().
		Handle(pattern.Build(), func(xs ...any) {}, "xs").
		Handle(v("x"), func(y any) {}, "y").
		Build()
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidHandler))
}

func TestTable_RulesAreCopies(t *testing.T) {
	table, err := matcher.NewBuilder().
		RegisterNamed("one", pattern.Build(1), constant("A")).
		Build()
	require.NoError(t, err)

	rules := table.Rules()
	rules[0].Handler = constant("B")

	out, err := table.Dispatch(1)
	require.NoError(t, err)
	assert.Equal(t, "A", out)
	assert.Equal(t, "one", table.Rules()[0].Name)
}

func TestDynamic_ConcurrentRegister(t *testing.T) {
	m := matcher.New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, m.Register(pattern.Build(i), constant(i)))
			_, _ = m.Dispatch(i)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, m.Len())
	for i := 0; i < 20; i++ {
		out, err := m.Dispatch(i)
		require.NoError(t, err)
		assert.Equal(t, i, out)
	}
}

func TestWithTrace(t *testing.T) {
	logger, buf := testutil.CaptureLogger(t)
	m := matcher.New(matcher.WithLogger(logger), matcher.WithTrace(true))
	require.NoError(t, m.RegisterNamed("strings", pattern.Build(stringType), constant("s")))
	require.NoError(t, m.RegisterNamed("ints", pattern.Build(intType), constant("i")))

	_, err := m.Dispatch(3)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Rule attempted")
	assert.Contains(t, out, `"rule":"strings"`)
	assert.Contains(t, out, "Rule matched")
}
