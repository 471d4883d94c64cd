package ui

import (
	"io"
	"strings"

	"github.com/pterm/pterm"
)

func newTerminalRenderer(w io.Writer) *lineRenderer {
	return &lineRenderer{w: w, paint: styled, table: ptermTable}
}

func styled(style, s string) string {
	return GetStyle(style).Render(s)
}

func ptermTable(rows [][]string) (string, error) {
	out, err := pterm.DefaultTable.
		WithHasHeader().
		WithData(pterm.TableData(rows)).
		Srender()
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}
