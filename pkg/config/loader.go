package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/logging"
)

// EnvPrefix marks environment variables read as configuration.
const EnvPrefix = "FPM_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultContent returns the embedded defaults file.
func DefaultContent() string {
	return string(defaultConfig)
}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Options selects the sources Load reads besides the embedded defaults.
type Options struct {
	// Path is an explicit config file. It must exist when set; otherwise
	// the XDG user file is read if present.
	Path string
	// Overrides are dotted keys applied last, e.g. "regex.mode".
	Overrides map[string]interface{}
}

// UserConfigPath is where Load looks for the user file.
func UserConfigPath() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, logging.AppName, "config.toml")
}

// Load merges every source into a validated Config.
func Load(opts Options) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")
	var sources []string

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	path := opts.Path
	if path == "" {
		if candidate := UserConfigPath(); fileExists(candidate) {
			path = candidate
		}
	} else if !fileExists(path) {
		return nil, errors.Newf(errors.ErrConfigLoad, "config file %s does not exist", path)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
		}
		sources = append(sources, path)
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Caller overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				trimStringHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("verbosity", cfg.Logging.Verbosity).
		Str("regex_mode", cfg.Regex.Mode).
		Str("format", cfg.Output.Format).
		Msg("Configuration loaded")
	return &cfg, nil
}

// parserFor picks the koanf parser by file extension; TOML by default.
func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return toml.Parser()
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
