package config

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// trimStringHookFunc lowercases and trims enum-like strings so " Search"
// from an env var reads the same as "search" in a file.
func trimStringHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.String {
			return data, nil
		}
		return strings.ToLower(strings.TrimSpace(reflect.ValueOf(data).String())), nil
	}
}
