package matcher

import (
	"sync"

	"github.com/arthur-debert/fpm/pkg/pattern"
)

// Dynamic is a matcher whose rule list grows at runtime. It is safe for
// concurrent use; a rule registered while a value is being resolved takes
// part only in later resolutions.
type Dynamic struct {
	mu    sync.RWMutex
	rules []Rule
	opts  options
}

// New returns an empty Dynamic matcher.
func New(opts ...Option) *Dynamic {
	return &Dynamic{opts: newOptions(opts)}
}

// Register appends a rule after all existing ones.
func (m *Dynamic) Register(p pattern.Pattern, h Handler) error {
	return m.RegisterNamed("", p, h)
}

// RegisterNamed is Register with a rule name used in logs and errors.
func (m *Dynamic) RegisterNamed(name string, p pattern.Pattern, h Handler) error {
	rule, err := newRule(name, p, h)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.rules = append(m.rules, rule)
	n := len(m.rules)
	m.mu.Unlock()

	m.opts.logger.Debug().
		Int("index", n-1).
		Str("pattern", p.String()).
		Msg("Rule registered")
	return nil
}

// Handle registers fn through Func.
func (m *Dynamic) Handle(p pattern.Pattern, fn any, params ...string) error {
	h, err := Func(fn, params...)
	if err != nil {
		return err
	}
	return m.Register(p, h)
}

func (m *Dynamic) snapshot() []Rule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rules[:len(m.rules):len(m.rules)]
}

// Resolve finds the first rule whose pattern matches v.
func (m *Dynamic) Resolve(v any) (*Resolution, error) {
	return resolve(m.snapshot(), v, m.opts)
}

// Dispatch resolves v and runs the winning handler.
func (m *Dynamic) Dispatch(v any) (any, error) {
	return dispatch(m, v)
}

// Rules returns a copy of the rules in priority order.
func (m *Dynamic) Rules() []Rule {
	return append([]Rule(nil), m.snapshot()...)
}

// Len returns the number of rules.
func (m *Dynamic) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rules)
}

// Equal reports whether other holds the same rules in the same order.
func (m *Dynamic) Equal(other Matcher) bool {
	return Equal(m, other)
}
