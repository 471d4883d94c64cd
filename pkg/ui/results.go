package ui

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/arthur-debert/fpm/pkg/pattern"
)

// ParseResult describes a parsed pattern.
type ParseResult struct {
	Source  string        `json:"source" yaml:"source"`
	Pattern string        `json:"pattern" yaml:"pattern"`
	Names   []string      `json:"names" yaml:"names"`
	Tree    *pattern.Node `json:"tree" yaml:"tree"`
}

// MatchResult is the outcome of matching one value against a pattern.
type MatchResult struct {
	Value    any            `json:"value" yaml:"value"`
	Matched  bool           `json:"matched" yaml:"matched"`
	Bindings map[string]any `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// DispatchResult is the rule a value resolved to.
type DispatchResult struct {
	Value    any            `json:"value" yaml:"value"`
	Rule     string         `json:"rule" yaml:"rule"`
	Index    int            `json:"index" yaml:"index"`
	Result   any            `json:"result" yaml:"result"`
	Bindings map[string]any `json:"bindings,omitempty" yaml:"bindings,omitempty"`
}

// RuleRow is one line of a rule listing.
type RuleRow struct {
	Index   int    `json:"index" yaml:"index"`
	Name    string `json:"name" yaml:"name"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Result  any    `json:"result" yaml:"result"`
}

// RulesResult lists the rules of a rule file in priority order.
type RulesResult struct {
	Source string    `json:"source" yaml:"source"`
	Rules  []RuleRow `json:"rules" yaml:"rules"`
}

// FormatValue renders v compactly, JSON-like where possible.
func FormatValue(v any) string {
	if data, err := json.Marshal(v); err == nil {
		return string(data)
	}
	return fmt.Sprintf("%v", v)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
