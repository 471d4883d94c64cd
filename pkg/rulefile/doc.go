// Package rulefile loads dispatch tables from TOML or YAML files.
//
//	[constants]
//	limit = 10
//
//	[[rules]]
//	name = "small"
//	pattern = "x:int if x < limit"
//	result = "small number"
//
// Constants are defined in the namespace patterns are parsed with, so
// guards can refer to them. Rules keep file order: the first rule whose
// pattern matches a value wins, and its handler returns an Outcome.
package rulefile
