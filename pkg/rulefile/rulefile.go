package rulefile

import (
	stderrors "errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/logging"
)

// Spec is one rule as written in a file.
type Spec struct {
	Name    string `koanf:"name" toml:"name,omitempty"`
	Pattern string `koanf:"pattern" toml:"pattern"`
	Result  any    `koanf:"result" toml:"result,omitempty"`
}

// File is a parsed rule file.
type File struct {
	Constants map[string]any `koanf:"constants" toml:"constants,omitempty"`
	Rules     []Spec         `koanf:"rules" toml:"rules"`

	// Source is the path the file was read from, if any.
	Source string `koanf:"-" toml:"-"`
}

// Format names the syntax of rule file content.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatFor picks the format from a file extension; TOML by default.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return TOML
	}
}

func (f Format) parser() koanf.Parser {
	if f == YAML {
		return yaml.Parser()
	}
	return toml.Parser()
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Load reads and validates the rule file at path.
func Load(path string) (*File, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), FormatFor(path).parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load rule file %s", path).
			WithDetail("path", path)
	}
	f, err := decode(k)
	if err != nil {
		return nil, err
	}
	f.Source = path

	logger := logging.GetLogger("rulefile")
	logger.Debug().
		Str("path", path).
		Int("rules", len(f.Rules)).
		Int("constants", len(f.Constants)).
		Msg("Rule file loaded")
	return f, nil
}

// Parse reads rule file content already in memory.
func Parse(data []byte, format Format) (*File, error) {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, format.parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse rules")
	}
	return decode(k)
}

func decode(k *koanf.Koanf) (*File, error) {
	var f File
	if err := k.Unmarshal("rules", &f.Rules); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "malformed rules")
	}
	if err := k.Unmarshal("constants", &f.Constants); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "constants must be a table")
	}
	if err := validateRules(f.Rules); err != nil {
		return nil, err
	}
	return &f, nil
}

// validateRules checks that rules are usable before any pattern is parsed.
func validateRules(rules []Spec) error {
	seen := make(map[string]int, len(rules))
	for i, rule := range rules {
		if strings.TrimSpace(rule.Pattern) == "" {
			return errors.Newf(errors.ErrConfigValid, "rule %d has empty pattern", i).
				WithDetail("index", i)
		}
		if rule.Name == "" {
			continue
		}
		if prev, ok := seen[rule.Name]; ok {
			return errors.Newf(errors.ErrConfigValid, "rule %d reuses the name %q of rule %d", i, rule.Name, prev).
				WithDetail("index", i)
		}
		seen[rule.Name] = i
	}
	return nil
}

// Export writes f as TOML.
func (f *File) Export(w io.Writer) error {
	enc := gotoml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(f); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode rules")
	}
	return nil
}
