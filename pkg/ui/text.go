package ui

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/arthur-debert/fpm/pkg/pattern"
)

// painter applies the named style to s.
type painter func(style, s string) string

// lineRenderer lays out results as lines; only the painting and table
// drawing differ between plain text and the terminal.
type lineRenderer struct {
	w     io.Writer
	paint painter
	table func(rows [][]string) (string, error)
}

func plain(_, s string) string { return s }

func newTextRenderer(w io.Writer) *lineRenderer {
	return &lineRenderer{w: w, paint: plain, table: tabTable}
}

// tabTable aligns rows on tab stops; the first row is the header.
func tabTable(rows [][]string) (string, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return "", err
		}
	}
	if err := tw.Flush(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *lineRenderer) RenderResult(result interface{}) error {
	var lines []string
	switch v := result.(type) {
	case *ParseResult:
		lines = r.parseLines(v)
	case *MatchResult:
		lines = r.matchLines(v)
	case *DispatchResult:
		lines = r.dispatchLines(v)
	case *RulesResult:
		return r.renderRules(v)
	default:
		lines = []string{fmt.Sprintf("%+v", result)}
	}
	return r.writeLines(lines)
}

func (r *lineRenderer) RenderError(err error) error {
	return r.writeLines([]string{r.paint("Error", "Error:") + " " + err.Error()})
}

func (r *lineRenderer) RenderMessage(msg string) error {
	return r.writeLines([]string{msg})
}

func (r *lineRenderer) writeLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(r.w, line); err != nil {
			return err
		}
	}
	return nil
}

func (r *lineRenderer) parseLines(v *ParseResult) []string {
	lines := []string{r.paint("Header", "pattern") + " " + r.paint("Detail", v.Pattern)}
	if len(v.Names) > 0 {
		names := make([]string, len(v.Names))
		for i, n := range v.Names {
			names[i] = r.paint("Name", n)
		}
		lines = append(lines, r.paint("Header", "binds")+" "+strings.Join(names, ", "))
	}
	if v.Tree != nil {
		lines = r.treeLines(lines, v.Tree, 0)
	}
	return lines
}

func (r *lineRenderer) treeLines(lines []string, n *pattern.Node, depth int) []string {
	line := strings.Repeat("  ", depth) + r.paint("Kind", n.Kind)
	if n.Name != "" {
		line += " " + r.paint("Name", n.Name)
	}
	if n.Detail != "" {
		style := "Detail"
		if n.Kind == "guarded" {
			style = "Guard"
		}
		line += " " + r.paint(style, n.Detail)
	}
	lines = append(lines, line)
	for _, c := range n.Children {
		lines = r.treeLines(lines, c, depth+1)
	}
	return lines
}

func (r *lineRenderer) matchLines(v *MatchResult) []string {
	value := r.paint("Value", FormatValue(v.Value))
	if !v.Matched {
		return []string{r.paint("Muted", "no match") + " " + value}
	}
	lines := []string{r.paint("Success", "match") + " " + value}
	return r.bindingLines(lines, v.Bindings)
}

func (r *lineRenderer) dispatchLines(v *DispatchResult) []string {
	head := r.paint("Rule", v.Rule) + " " + r.paint("Muted", "#"+strconv.Itoa(v.Index)) + " " +
		r.paint("Value", FormatValue(v.Value)) + " -> " + r.paint("Value", FormatValue(v.Result))
	return r.bindingLines([]string{head}, v.Bindings)
}

func (r *lineRenderer) bindingLines(lines []string, bs map[string]any) []string {
	for _, name := range sortedKeys(bs) {
		lines = append(lines, r.paint("Binding", "  "+name)+" = "+r.paint("Value", FormatValue(bs[name])))
	}
	return lines
}

func (r *lineRenderer) renderRules(v *RulesResult) error {
	if len(v.Rules) == 0 {
		return r.writeLines([]string{r.paint("Muted", "no rules in "+v.Source)})
	}
	rows := [][]string{{"#", "NAME", "PATTERN", "RESULT"}}
	for _, rule := range v.Rules {
		rows = append(rows, []string{strconv.Itoa(rule.Index), rule.Name, rule.Pattern, FormatValue(rule.Result)})
	}
	table, err := r.table(rows)
	if err != nil {
		return err
	}
	_, err = io.WriteString(r.w, table)
	return err
}
