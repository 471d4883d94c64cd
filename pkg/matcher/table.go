package matcher

import (
	stderrors "errors"

	"github.com/arthur-debert/fpm/pkg/pattern"
)

// Builder collects rules for an immutable Table. Its methods chain; the
// first invalid rule is reported by Build.
type Builder struct {
	rules []Rule
	errs  []error
	opts  []Option
}

// NewBuilder starts an empty rule list.
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: opts}
}

// Register appends a rule.
func (b *Builder) Register(p pattern.Pattern, h Handler) *Builder {
	return b.RegisterNamed("", p, h)
}

// RegisterNamed appends a named rule.
func (b *Builder) RegisterNamed(name string, p pattern.Pattern, h Handler) *Builder {
	rule, err := newRule(name, p, h)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.rules = append(b.rules, rule)
	return b
}

// Handle appends a rule whose handler is fn adapted through Func.
func (b *Builder) Handle(p pattern.Pattern, fn any, params ...string) *Builder {
	h, err := Func(fn, params...)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	return b.Register(p, h)
}

// Build returns the table, or the errors of every rejected rule.
func (b *Builder) Build() (*Table, error) {
	switch len(b.errs) {
	case 0:
	case 1:
		return nil, b.errs[0]
	default:
		return nil, stderrors.Join(b.errs...)
	}

	t := &Table{
		rules: append([]Rule(nil), b.rules...),
		opts:  newOptions(b.opts),
	}
	t.opts.logger.Debug().Int("rules", len(t.rules)).Msg("Table built")
	return t, nil
}

// Table is a fixed, ordered rule list. It never changes after Build and
// can be shared freely between goroutines.
type Table struct {
	rules []Rule
	opts  options
}

// Resolve finds the first rule whose pattern matches v.
func (t *Table) Resolve(v any) (*Resolution, error) {
	return resolve(t.rules, v, t.opts)
}

// Dispatch resolves v and runs the winning handler.
func (t *Table) Dispatch(v any) (any, error) {
	return dispatch(t, v)
}

// Rules returns a copy of the rules in priority order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Len returns the number of rules.
func (t *Table) Len() int {
	return len(t.rules)
}

// Equal reports whether other holds the same rules in the same order.
func (t *Table) Equal(other Matcher) bool {
	return Equal(t, other)
}
