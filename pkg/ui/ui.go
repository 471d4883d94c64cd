// Package ui renders command results as styled terminal output, plain
// text, JSON or YAML.
package ui

import (
	"io"

	"github.com/arthur-debert/fpm/pkg/errors"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders one of the result types of this package.
	// Other values are printed as they are.
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// FormatAuto is resolved against output first.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch ResolveFormat(format, output) {
	case FormatTerminal:
		return newTerminalRenderer(output), nil
	case FormatText:
		return newTextRenderer(output), nil
	case FormatJSON:
		return newJSONRenderer(output), nil
	case FormatYAML:
		return &yamlRenderer{w: output}, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}

// Render writes result to w in the given format.
func Render(w io.Writer, format Format, result interface{}) error {
	r, err := NewRenderer(format, w)
	if err != nil {
		return err
	}
	return r.RenderResult(result)
}
