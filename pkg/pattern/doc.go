// Package pattern implements the pattern algebra and the recursive matching
// engine.
//
// A Pattern describes an acceptable value shape and may carry a bound name.
// Matching a value walks the pattern tree, threading a single Bindings map
// through the recursion so that a name bound twice must capture equal values
// (unification):
//
//	p := pattern.Build(pattern.Bind(pattern.Build(), "x"), pattern.Bind(pattern.Build(), "x"))
//	res, _ := pattern.Match(p, []any{5, 5}) // res.Bindings == {"x": 5}
//	res, _ = pattern.Match(p, []any{5, 6})  // res == nil, no match
//
// A nil *Result means "no match". A non-nil Result with empty Bindings means
// the value matched without capturing anything; callers must branch on the
// pointer, never on the size of the bindings.
//
// Errors are reserved for misconfigured patterns (see Range) and for guard
// evaluation failures; they are never a stand-in for a failed match and they
// are not recovered by alternation.
//
// Patterns are immutable: builders such as Bind, Repeat, OrElse and Cons
// return new values, so a tree can be shared by any number of rules and
// goroutines.
//
// String renders a pattern in the text form package parser reads, so a
// parsed pattern survives a String and Parse round trip.
package pattern
