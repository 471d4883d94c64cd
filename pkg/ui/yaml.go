package ui

import (
	"io"

	"gopkg.in/yaml.v3"
)

// yamlRenderer writes one YAML document per call.
type yamlRenderer struct {
	w       io.Writer
	written bool
}

func (r *yamlRenderer) encode(v interface{}) error {
	if r.written {
		if _, err := io.WriteString(r.w, "---\n"); err != nil {
			return err
		}
	}
	r.written = true

	enc := yaml.NewEncoder(r.w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func (r *yamlRenderer) RenderResult(result interface{}) error {
	return r.encode(result)
}

func (r *yamlRenderer) RenderError(err error) error {
	return r.encode(map[string]string{"error": err.Error()})
}

func (r *yamlRenderer) RenderMessage(msg string) error {
	return r.encode(map[string]string{"message": msg})
}
