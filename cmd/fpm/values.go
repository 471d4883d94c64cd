package fpm

import (
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/namespace"
)

// decodeValue reads one YAML (or JSON) value.
func decodeValue(text string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(text), &v); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, MsgErrBadValue, text)
	}
	return normalize(v), nil
}

// readValues decodes every YAML document of r.
func readValues(r io.Reader) ([]any, error) {
	dec := yaml.NewDecoder(r)
	var values []any
	for {
		var v any
		err := dec.Decode(&v)
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrInvalidInput, MsgErrReadValues)
		}
		values = append(values, normalize(v))
	}
}

// collectValues decodes args, or standard input when there are none.
func collectValues(args []string, stdin io.Reader) ([]any, error) {
	if len(args) == 0 {
		values, err := readValues(stdin)
		if err != nil {
			return nil, err
		}
		if len(values) == 0 {
			return nil, errors.New(errors.ErrInvalidInput, MsgErrNoValues)
		}
		return values, nil
	}

	values := make([]any, 0, len(args))
	for _, arg := range args {
		v, err := decodeValue(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// normalize converts the map[interface{}]interface{} yaml.v3 produces for
// non-string keys into string-keyed maps, so values encode as JSON.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[yamlKey(k)] = normalize(e)
		}
		return out
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	default:
		return v
	}
}

func yamlKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	data, err := yaml.Marshal(k)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// defineAll parses name=value definitions into ns.
func defineAll(ns *namespace.Namespace, defs []string) error {
	for _, def := range defs {
		name, text, ok := strings.Cut(def, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return errors.Newf(errors.ErrInvalidInput, MsgErrBadDefine, def)
		}
		v, err := decodeValue(text)
		if err != nil {
			return err
		}
		if err := ns.Define(strings.TrimSpace(name), v); err != nil {
			return err
		}
	}
	return nil
}
