package rulefile

import (
	"sort"
	"strconv"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/logging"
	"github.com/arthur-debert/fpm/pkg/matcher"
	"github.com/arthur-debert/fpm/pkg/namespace"
	"github.com/arthur-debert/fpm/pkg/parser"
	"github.com/arthur-debert/fpm/pkg/pattern"
)

// Outcome is what a rule file handler returns for a dispatched value.
type Outcome struct {
	Rule     string
	Index    int
	Result   any
	Bindings pattern.Bindings
}

type outcomeHandler struct {
	rule   string
	index  int
	result any
}

func (h *outcomeHandler) Handle(bs pattern.Bindings) (any, error) {
	return &Outcome{Rule: h.rule, Index: h.index, Result: h.result, Bindings: bs}, nil
}

// Option configures Compile.
type Option func(*compileOptions)

type compileOptions struct {
	ns        *namespace.Namespace
	regexMode pattern.RegexMode
	matcher   []matcher.Option
}

// WithNamespace parses patterns against ns instead of a fresh builtin
// namespace. Constants of the file are defined into it.
func WithNamespace(ns *namespace.Namespace) Option {
	return func(o *compileOptions) { o.ns = ns }
}

// WithRegexMode sets the mode of regex literals in patterns.
func WithRegexMode(mode pattern.RegexMode) Option {
	return func(o *compileOptions) { o.regexMode = mode }
}

// WithMatcherOptions passes options to the compiled table.
func WithMatcherOptions(opts ...matcher.Option) Option {
	return func(o *compileOptions) { o.matcher = append(o.matcher, opts...) }
}

// Compile parses every rule pattern and builds the dispatch table.
func (f *File) Compile(opts ...Option) (*matcher.Table, error) {
	o, p, err := f.prepare(opts)
	if err != nil {
		return nil, err
	}

	b := matcher.NewBuilder(o.matcher...)
	for i, spec := range f.Rules {
		pat, err := p.Parse(spec.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrParse, "rule %s", spec.label(i)).
				WithDetail("index", i).
				WithDetail("pattern", spec.Pattern)
		}
		b.RegisterNamed(spec.Name, pat, &outcomeHandler{rule: spec.label(i), index: i, result: spec.Result})
	}

	table, err := b.Build()
	if err != nil {
		return nil, err
	}
	logger := logging.GetLogger("rulefile")
	logger.Debug().
		Str("source", f.Source).
		Int("rules", table.Len()).
		Msg("Rule file compiled")
	return table, nil
}

// prepare defines the constants and returns the parser for the patterns.
func (f *File) prepare(opts []Option) (compileOptions, *parser.Parser, error) {
	o := compileOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ns == nil {
		o.ns = namespace.Builtins()
	}
	if err := defineConstants(o.ns, "", f.Constants); err != nil {
		return o, nil, err
	}
	return o, parser.New(o.ns, parser.WithRegexMode(o.regexMode)), nil
}

func (s Spec) label(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return "#" + strconv.Itoa(i)
}

// defineConstants defines m into ns; nested tables become dotted names.
func defineConstants(ns *namespace.Namespace, prefix string, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if sub, ok := m[k].(map[string]any); ok {
			if err := defineConstants(ns, name, sub); err != nil {
				return err
			}
			continue
		}
		if err := ns.Define(name, m[k]); err != nil {
			return errors.Wrapf(err, errors.ErrConfigValid, "constant %s", name)
		}
	}
	return nil
}

// Normalize returns a copy of f whose patterns are rewritten in canonical
// form. Rules that fail to parse are reported as errors.
func (f *File) Normalize(opts ...Option) (*File, error) {
	_, p, err := f.prepare(opts)
	if err != nil {
		return nil, err
	}

	out := &File{Constants: f.Constants, Source: f.Source, Rules: make([]Spec, len(f.Rules))}
	for i, spec := range f.Rules {
		pat, err := p.Parse(spec.Pattern)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrParse, "rule %s", spec.label(i)).
				WithDetail("index", i)
		}
		spec.Pattern = pat.String()
		out.Rules[i] = spec
	}
	return out, nil
}
