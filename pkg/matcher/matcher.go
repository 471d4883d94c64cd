// Package matcher dispatches values to the first rule whose pattern
// matches them.
//
// Rules are tried strictly in registration order; there is no notion of a
// best or most specific match. A value no rule accepts yields an error
// carrying errors.ErrNoMatch, which is never swallowed.
//
// Two forms share the same contract: Dynamic grows at runtime through
// Register and Handle, while a Builder collects a fixed rule list into an
// immutable Table.
package matcher

import (
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/logging"
	"github.com/arthur-debert/fpm/pkg/pattern"
)

// Rule pairs a pattern with the handler to run when it matches.
type Rule struct {
	Name    string
	Pattern pattern.Pattern
	Handler Handler
}

func (r Rule) label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern.String()
}

// Resolution is the first rule accepting a value and the bindings of that
// match.
type Resolution struct {
	Rule     Rule
	Index    int
	Bindings pattern.Bindings
}

// Matcher is the read side shared by Dynamic and Table.
type Matcher interface {
	Resolve(v any) (*Resolution, error)
	Dispatch(v any) (any, error)
	Rules() []Rule
	Len() int
}

// Option configures a matcher.
type Option func(*options)

type options struct {
	logger zerolog.Logger
	trace  bool
}

// WithTrace logs every rule attempt at trace level.
func WithTrace(enabled bool) Option {
	return func(o *options) { o.trace = enabled }
}

// WithLogger replaces the "matcher" component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) options {
	o := options{logger: logging.GetLogger("matcher")}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// newRule checks a rule before it joins a table.
func newRule(name string, p pattern.Pattern, h Handler) (Rule, error) {
	if p == nil {
		return Rule{}, errors.New(errors.ErrInvalidInput, "rule pattern cannot be nil")
	}
	if h == nil {
		return Rule{}, errors.New(errors.ErrInvalidHandler, "rule handler cannot be nil")
	}
	if ph, ok := h.(paramHandler); ok {
		names := make(map[string]bool)
		for _, n := range pattern.Names(p) {
			names[n] = true
		}
		for _, param := range ph.Params() {
			if !names[param] {
				return Rule{}, errors.Newf(errors.ErrInvalidHandler,
					"handler parameter %q is not bound by pattern %s", param, p).
					WithDetail("pattern", p.String())
			}
		}
	}
	return Rule{Name: name, Pattern: p, Handler: h}, nil
}

func resolve(rules []Rule, v any, o options) (*Resolution, error) {
	o.logger.Debug().Int("rules", len(rules)).Msg("Resolving value")

	for i, rule := range rules {
		res, err := pattern.Match(rule.Pattern, v)
		if o.trace {
			o.logger.Trace().
				Int("index", i).
				Str("rule", rule.label()).
				Bool("matched", res != nil).
				Err(err).
				Msg("Rule attempted")
		}
		if err != nil {
			return nil, errors.Wrapf(err, errors.GetErrorCode(err), "rule %s", rule.label()).
				WithDetail("index", i)
		}
		if res != nil {
			o.logger.Debug().
				Int("index", i).
				Str("rule", rule.label()).
				Int("bindings", len(res.Bindings)).
				Msg("Rule matched")
			return &Resolution{Rule: rule, Index: i, Bindings: res.Bindings}, nil
		}
	}

	o.logger.Debug().Msg("No rule matched")
	return nil, errors.Newf(errors.ErrNoMatch, "no rule matches %s", describe(v))
}

func dispatch(m Matcher, v any) (any, error) {
	res, err := m.Resolve(v)
	if err != nil {
		return nil, err
	}
	out, err := res.Rule.Handler.Handle(res.Bindings)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrHandler, "handler of rule %s failed", res.Rule.label())
	}
	return out, nil
}

func describe(v any) string {
	s := fmt.Sprintf("%v (%T)", v, v)
	if len(s) > 64 {
		cut := 61
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	return s
}

// Equal reports whether two matchers hold the same ordered rules: patterns
// structurally equal, handlers identical.
func Equal(a, b Matcher) bool {
	ra, rb := a.Rules(), b.Rules()
	if len(ra) != len(rb) {
		return false
	}
	for i := range ra {
		if !pattern.Equal(ra[i].Pattern, rb[i].Pattern) || !sameHandler(ra[i].Handler, rb[i].Handler) {
			return false
		}
	}
	return true
}
