package fpm

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Structural pattern matching for YAML and JSON values"
	MsgParseShort      = "Parse a pattern and print its structure"
	MsgMatchShort      = "Match values against a pattern"
	MsgDispatchShort   = "Resolve values against the rules of a rule file"
	MsgRulesShort      = "List the rules of a rule file"
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgParseLong = "Parse compiles EXPR and prints the pattern in canonical form, the names it binds and its tree."
	MsgMatchLong = "Match tests every VALUE against EXPR and prints the bindings of each match. Without VALUE arguments, YAML documents are read from standard input."
	MsgRulesLong = "Rules lists the rules of RULEFILE in priority order. With --export the file is written back as TOML with every pattern in canonical form."

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat    = "Output format: auto, term, text, json or yaml"
	MsgFlagRegexMode = "Regex literal semantics: full or search"
	MsgFlagConfig    = "Config file (default $XDG_CONFIG_HOME/fpm/config.toml)"
	MsgFlagTrace     = "Log every rule attempt at trace level"
	MsgFlagDefine    = "Define a constant for guards, as name=value (YAML value)"
	MsgFlagExport    = "Write the rules as normalised TOML"

	// Error messages
	MsgErrNoCommand  = "no command specified"
	MsgErrNoValues   = "no values given"
	MsgErrUnmatched  = "%d of %d values matched no rule"
	MsgErrBadDefine  = "invalid definition %q, expected name=value"
	MsgErrBadValue   = "invalid value %q"
	MsgErrReadValues = "failed to read values from standard input"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/parse-example.txt
	msgParseExampleRaw string
	MsgParseExample    = strings.TrimRight(msgParseExampleRaw, "\n")

	//go:embed msgs/match-example.txt
	msgMatchExampleRaw string
	MsgMatchExample    = strings.TrimRight(msgMatchExampleRaw, "\n")

	//go:embed msgs/dispatch-long.txt
	msgDispatchLongRaw string
	MsgDispatchLong    = strings.TrimSpace(msgDispatchLongRaw)

	//go:embed msgs/dispatch-example.txt
	msgDispatchExampleRaw string
	MsgDispatchExample    = strings.TrimRight(msgDispatchExampleRaw, "\n")

	//go:embed msgs/rules-example.txt
	msgRulesExampleRaw string
	MsgRulesExample    = strings.TrimRight(msgRulesExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
