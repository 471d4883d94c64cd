package pattern_test

import (
	"reflect"
	"regexp"
	"testing"

	"github.com/arthur-debert/fpm/pkg/caseclass"
	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Point struct {
	X, Y int
}

type Wrapper struct {
	Inner any
}

func init() {
	caseclass.MustRegister(Point{})
	caseclass.MustRegister(Wrapper{})
}

var (
	intType    = reflect.TypeOf(0)
	stringType = reflect.TypeOf("")
	floatType  = reflect.TypeOf(0.0)
	listType   = reflect.TypeOf([]any(nil))
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

func v(name string) pattern.Pattern {
	return pattern.Bind(pattern.Build(), name)
}

func mustMatch(t *testing.T, p pattern.Pattern, value any) pattern.Bindings {
	t.Helper()
	res, err := pattern.Match(p, value)
	require.NoError(t, err)
	require.NotNil(t, res, "expected %s to match %#v", p, value)
	return res.Bindings
}

func mustNotMatch(t *testing.T, p pattern.Pattern, value any) {
	t.Helper()
	res, err := pattern.Match(p, value)
	require.NoError(t, err)
	assert.Nil(t, res, "expected %s not to match %#v", p, value)
}

func TestMatch_Basics(t *testing.T) {
	tests := []struct {
		name    string
		pattern pattern.Pattern
		value   any
		match   bool
	}{
		{"any matches nil", pattern.Build(), nil, true},
		{"any matches int", pattern.Build(), 42, true},
		{"equals same int", pattern.Build(1), 1, true},
		{"equals other int", pattern.Build(1), 2, false},
		{"equals int and float", pattern.Build(1), 1.0, true},
		{"equals string", pattern.Build("abc"), "abc", true},
		{"equals string vs int", pattern.Build("1"), 1, false},
		{"bool is not a number", pattern.Build(true), 1, false},
		{"equals nil", pattern.Build(nil), nil, true},
		{"nil vs zero", pattern.Build(nil), 0, false},
		{"instance of int", pattern.Build(intType), 3, true},
		{"instance of int rejects float", pattern.Build(intType), 3.0, false},
		{"instance of float rejects int", pattern.Build(floatType), 3, false},
		{"instance of string", pattern.Build(stringType), "s", true},
		{"instance of interface", pattern.Build(errorType), errors.New(errors.ErrUnknown, "x"), true},
		{"nil is instance of interface", pattern.Build(errorType), nil, true},
		{"nil is not an int", pattern.Build(intType), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := pattern.Match(tt.pattern, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.match, res != nil)
		})
	}
}

func TestMatch_EmptyBindingsAreNotNoMatch(t *testing.T) {
	res, err := pattern.Match(pattern.Build(), nil)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Empty(t, res.Bindings)
}

func TestMatch_Bind(t *testing.T) {
	bs := mustMatch(t, v("x"), 7)
	assert.Equal(t, pattern.Bindings{"x": 7}, bs)

	bs = mustMatch(t, pattern.Bind(pattern.Build(intType), "n"), 3)
	assert.Equal(t, pattern.Bindings{"n": 3}, bs)

	mustNotMatch(t, pattern.Bind(pattern.Build(intType), "n"), "3")
}

func TestMatch_Unification(t *testing.T) {
	p := pattern.Build(v("x"), v("x"))

	bs := mustMatch(t, p, []any{5, 5})
	assert.Equal(t, pattern.Bindings{"x": 5}, bs)

	mustNotMatch(t, p, []any{5, 6})

	// numeric kinds unify by value
	mustMatch(t, p, []any{2, 2.0})
}

func TestMatchWith_SeededBindings(t *testing.T) {
	initial := pattern.Bindings{"x": 1}

	res, err := pattern.MatchWith(v("x"), 1, initial)
	require.NoError(t, err)
	require.NotNil(t, res)

	res, err = pattern.MatchWith(v("x"), 2, initial)
	require.NoError(t, err)
	assert.Nil(t, res)

	res, err = pattern.MatchWith(v("y"), 2, initial)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, pattern.Bindings{"x": 1, "y": 2}, res.Bindings)
	assert.Equal(t, pattern.Bindings{"x": 1}, initial, "initial bindings must not change")
}

func TestMatch_Regex(t *testing.T) {
	re := regexp.MustCompile(`a+b`)

	mustMatch(t, pattern.Build(re), "aab")
	mustNotMatch(t, pattern.Build(re), "xaab")
	mustNotMatch(t, pattern.Build(re), "aabx")
	mustNotMatch(t, pattern.Build(re), 12)

	search := pattern.NewRegex(re, pattern.Search)
	mustMatch(t, search, "xaabx")
	mustNotMatch(t, search, "bbb")

	alt := pattern.Build(regexp.MustCompile(`a|ab`))
	mustMatch(t, alt, "ab")

	literal := &pattern.Regex{Re: regexp.MustCompile(`\d+`)}
	mustMatch(t, literal, "123")
	mustNotMatch(t, literal, "12a")
}

func TestMatch_List(t *testing.T) {
	p := pattern.Build(1, v("x"), 3)

	bs := mustMatch(t, p, []any{1, 2, 3})
	assert.Equal(t, pattern.Bindings{"x": 2}, bs)

	bs = mustMatch(t, p, []int{1, 9, 3})
	assert.Equal(t, pattern.Bindings{"x": 9}, bs)

	mustMatch(t, p, [3]int{1, 2, 3})

	mustNotMatch(t, p, []any{1, 2})
	mustNotMatch(t, p, []any{1, 2, 3, 4})
	mustNotMatch(t, p, []any{0, 2, 3})
	mustNotMatch(t, p, "123")
	mustNotMatch(t, p, 1)
	mustNotMatch(t, p, nil)
}

func TestMatch_SingleElementSliceBuildsList(t *testing.T) {
	p := pattern.Build([]any{1})

	mustMatch(t, p, []any{1})
	mustNotMatch(t, p, 1)
}

func TestMatch_EmptySlice(t *testing.T) {
	p := pattern.Build([]any{})

	mustMatch(t, p, []any{})
	mustMatch(t, p, []string{})
	mustNotMatch(t, p, []any{1})
	mustNotMatch(t, p, nil)
}

func TestMatch_NestedList(t *testing.T) {
	p := pattern.Build([]any{1, []any{v("a"), v("b")}, v("c")})

	bs := mustMatch(t, p, []any{1, []any{2, 3}, 4})
	assert.Equal(t, pattern.Bindings{"a": 2, "b": 3, "c": 4}, bs)

	mustNotMatch(t, p, []any{1, 2, 3})
}

func TestMatch_Range(t *testing.T) {
	three := pattern.Repeat(pattern.Build(intType), 3)

	mustMatch(t, three, []any{1, 2, 3})
	mustNotMatch(t, three, []any{1, 2})
	mustNotMatch(t, three, []any{1, "2", 3})
	mustNotMatch(t, three, 1)

	zero := pattern.Repeat(pattern.Build(), 0)
	mustMatch(t, zero, []any{})
	mustNotMatch(t, zero, []any{1})

	all := pattern.Unbounded(pattern.Build(intType))
	mustMatch(t, all, []any{})
	mustMatch(t, all, []any{1, 2, 3, 4})
	mustNotMatch(t, all, []any{1, 2.5})
}

func TestMatch_RangeInList(t *testing.T) {
	p := pattern.Build(
		v("first"),
		pattern.Bind(pattern.Repeat(pattern.Build(intType), 2), "pair"),
		pattern.Bind(pattern.Unbounded(pattern.Build()), "rest"),
	)

	bs := mustMatch(t, p, []any{"a", 1, 2, "x", "y"})
	assert.Equal(t, pattern.Bindings{
		"first": "a",
		"pair":  []any{1, 2},
		"rest":  []any{"x", "y"},
	}, bs)

	bs = mustMatch(t, p, []any{"a", 1, 2})
	assert.Equal(t, []any{}, bs["rest"])

	mustNotMatch(t, p, []any{"a", 1})
	mustNotMatch(t, p, []any{"a", 1, "b"})
}

func TestMatch_PatternsAfterInfiniteSeeEmptyRemainder(t *testing.T) {
	p := pattern.Build(pattern.Unbounded(pattern.Build()), pattern.Repeat(pattern.Build(), 0))
	mustMatch(t, p, []any{1, 2})

	p = pattern.Build(pattern.Unbounded(pattern.Build()), pattern.Build())
	mustNotMatch(t, p, []any{1, 2})
}

func TestMatch_RangeElementsDoNotLeak(t *testing.T) {
	inner := pattern.Build(v("x"), 1)
	p := pattern.Bind(pattern.Unbounded(inner), "items")

	bs := mustMatch(t, p, []any{[]any{"a", 1}, []any{"b", 1}})
	assert.NotContains(t, bs, "x")
	assert.Contains(t, bs, "items")
}

func TestMatch_ConsTail(t *testing.T) {
	p := pattern.Cons(v("h"), v("t"))
	assert.Equal(t, pattern.Bindings{"h": 1, "t": []any{2, 3}}, mustMatch(t, p, []any{1, 2, 3}))
	assert.Equal(t, pattern.Bindings{"h": 1, "t": []any{}}, mustMatch(t, p, []any{1}))
	mustNotMatch(t, p, []any{})

	typed := pattern.Cons(v("h"), pattern.Bind(pattern.Build(listType), "t"))
	assert.Equal(t, pattern.Bindings{"h": 1, "t": []any{2}}, mustMatch(t, typed, []any{1, 2}))
	assert.Equal(t, pattern.Bindings{"h": 1, "t": []any{}}, mustMatch(t, typed, []any{1}))

	short := pattern.Cons(v("h"), pattern.OrElse(pattern.Build([]any{}), pattern.Build([]any{pattern.Build()})))
	mustMatch(t, short, []any{1})
	mustMatch(t, short, []any{1, 2})
	mustNotMatch(t, short, []any{1, 2, 3})

	pair := pattern.Cons(v("h"), pattern.Bind(pattern.Build(v("a"), v("b")), "rest"))
	assert.Equal(t, pattern.Bindings{"h": 1, "a": 2, "b": 3, "rest": []any{2, 3}}, mustMatch(t, pair, []any{1, 2, 3}))
	mustNotMatch(t, pair, []any{1, 2})

	empty := pattern.Cons(v("h"), pattern.Build([]any{}))
	mustMatch(t, empty, []any{1})
	mustNotMatch(t, empty, []any{1, 2})
}

func TestMatch_RangeMisconfiguration(t *testing.T) {
	tests := []struct {
		name    string
		pattern pattern.Pattern
		value   any
	}{
		{"unset length", pattern.NewRange(pattern.Build()), []any{1}},
		{"unset length on non sequence", pattern.NewRange(pattern.Build()), 1},
		{"length one", pattern.Repeat(pattern.Build(), 1), []any{1}},
		{"bound inner", pattern.Repeat(v("x"), 2), []any{1, 2}},
		{"unset length inside list", pattern.Build(pattern.NewRange(pattern.Build()), 1), []any{1}},
		{"length one inside list", pattern.Build(pattern.Repeat(pattern.Build(), 1), 1), []any{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := pattern.Match(tt.pattern, tt.value)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.IsErrorCode(err, errors.ErrPatternConfig), "got %v", err)
		})
	}
}

func TestMatch_Or(t *testing.T) {
	p := pattern.OrElse(pattern.Build(1), pattern.Build(stringType))

	mustMatch(t, p, 1)
	mustMatch(t, p, "one")
	mustNotMatch(t, p, 2)
}

func TestMatch_OrDoesNotLeakLeftBindings(t *testing.T) {
	// left binds x then fails on its second element
	left := pattern.Build(v("x"), 1)
	right := pattern.Build(pattern.Build(), v("y"))
	p := pattern.OrElse(left, right)

	bs := mustMatch(t, p, []any{"a", 2})
	assert.Equal(t, pattern.Bindings{"y": 2}, bs)
}

func TestMatch_OrUnifiesAcrossBranches(t *testing.T) {
	p := pattern.Build(v("x"), pattern.OrElse(pattern.Build(intType), v("x")))

	mustMatch(t, p, []any{"a", 1})
	mustMatch(t, p, []any{"a", "a"})
	mustNotMatch(t, p, []any{"a", "b"})
}

func TestMatch_OrPropagatesErrors(t *testing.T) {
	p := pattern.OrElse(pattern.NewRange(pattern.Build()), pattern.Build())

	_, err := pattern.Match(p, []any{1})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternConfig))
}

func TestMatch_NamedOrBindsWholeValue(t *testing.T) {
	p := pattern.Bind(pattern.OrElse(pattern.Build(1), pattern.Build(2)), "n")

	bs := mustMatch(t, p, 2)
	assert.Equal(t, pattern.Bindings{"n": 2}, bs)
}

func TestMatch_Case(t *testing.T) {
	p := pattern.Build(Point{X: 1, Y: 2})
	mustMatch(t, p, Point{X: 1, Y: 2})
	mustNotMatch(t, p, Point{X: 1, Y: 3})
	mustNotMatch(t, p, []any{1, 2})

	withVars := &pattern.Case{
		Type: reflect.TypeOf(Point{}),
		Args: pattern.Build(v("x"), v("y")).(*pattern.List),
	}
	bs := mustMatch(t, withVars, Point{X: 3, Y: 4})
	assert.Equal(t, pattern.Bindings{"x": 3, "y": 4}, bs)

	mustNotMatch(t, withVars, Wrapper{Inner: 1})
}

func TestMatch_CaseNamedBindsWholeValue(t *testing.T) {
	p := pattern.Bind(&pattern.Case{
		Type: reflect.TypeOf(Wrapper{}),
		Args: pattern.Build([]any{v("inner")}).(*pattern.List),
	}, "w")

	value := Wrapper{Inner: "payload"}
	bs := mustMatch(t, p, value)
	assert.Equal(t, pattern.Bindings{"w": value, "inner": "payload"}, bs)
}

func TestMatch_NestedCase(t *testing.T) {
	p := &pattern.Case{
		Type: reflect.TypeOf(Wrapper{}),
		Args: &pattern.List{Elems: []pattern.Pattern{
			&pattern.Case{
				Type: reflect.TypeOf(Point{}),
				Args: pattern.Build(v("x"), v("x")).(*pattern.List),
			},
		}},
	}

	bs := mustMatch(t, p, Wrapper{Inner: Point{X: 5, Y: 5}})
	assert.Equal(t, pattern.Bindings{"x": 5}, bs)
	mustNotMatch(t, p, Wrapper{Inner: Point{X: 5, Y: 6}})
}

type threshold int

func (th threshold) Holds(bs pattern.Bindings) (bool, error) {
	n, ok := bs["x"].(int)
	return ok && n > int(th), nil
}

func (th threshold) String() string { return "x > threshold" }

type failing struct{}

func (failing) Holds(pattern.Bindings) (bool, error) {
	return false, errors.New(errors.ErrNameResolution, "name 'z' is not defined")
}

func (failing) String() string { return "z" }

func TestMatch_Guarded(t *testing.T) {
	p := pattern.Guard(v("x"), threshold(10))

	bs := mustMatch(t, p, 11)
	assert.Equal(t, pattern.Bindings{"x": 11}, bs)
	mustNotMatch(t, p, 10)
	mustNotMatch(t, p, "eleven")
}

func TestMatch_GuardSeesOnlyItsBindings(t *testing.T) {
	// the guard rejects the left branch; its binding must not reach the right
	left := pattern.Guard(pattern.Build([]any{v("x")}), threshold(100))
	right := pattern.Build([]any{v("y")})
	bs := mustMatch(t, pattern.OrElse(left, right), []any{1})
	assert.Equal(t, pattern.Bindings{"y": 1}, bs)

	bs = mustMatch(t, pattern.OrElse(left, right), []any{101})
	assert.Equal(t, pattern.Bindings{"x": 101}, bs)
}

func TestMatch_GuardErrorsPropagate(t *testing.T) {
	p := pattern.OrElse(pattern.Guard(v("x"), failing{}), pattern.Build())

	res, err := pattern.Match(p, 1)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNameResolution))
}

func TestMatch_NilPattern(t *testing.T) {
	_, err := pattern.Match(nil, 1)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrPatternConfig))
}
