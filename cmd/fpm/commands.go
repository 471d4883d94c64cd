package fpm

import (
	"github.com/spf13/cobra"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/logging"
	"github.com/arthur-debert/fpm/pkg/matcher"
	"github.com/arthur-debert/fpm/pkg/namespace"
	"github.com/arthur-debert/fpm/pkg/parser"
	"github.com/arthur-debert/fpm/pkg/pattern"
	"github.com/arthur-debert/fpm/pkg/rulefile"
	"github.com/arthur-debert/fpm/pkg/ui"
)

func (a *app) parser(defs []string) (*parser.Parser, error) {
	ns := namespace.Builtins()
	if err := defineAll(ns, defs); err != nil {
		return nil, err
	}
	return parser.New(ns, parser.WithRegexMode(a.cfg.RegexMode())), nil
}

func newParseCmd(a *app) *cobra.Command {
	var defs []string
	cmd := &cobra.Command{
		Use:     "parse EXPR",
		Short:   MsgParseShort,
		Long:    MsgParseLong,
		Example: MsgParseExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.parser(defs)
			if err != nil {
				return err
			}
			pat, err := p.Parse(args[0])
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(&ui.ParseResult{
				Source:  args[0],
				Pattern: pat.String(),
				Names:   pattern.Names(pat),
				Tree:    pattern.Tree(pat),
			})
		},
	}
	cmd.Flags().StringArrayVarP(&defs, "define", "D", nil, MsgFlagDefine)
	return cmd
}

func newMatchCmd(a *app) *cobra.Command {
	var defs []string
	cmd := &cobra.Command{
		Use:     "match EXPR [VALUE...]",
		Short:   MsgMatchShort,
		Long:    MsgMatchLong,
		Example: MsgMatchExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.match")

			p, err := a.parser(defs)
			if err != nil {
				return err
			}
			pat, err := p.Parse(args[0])
			if err != nil {
				return err
			}
			values, err := collectValues(args[1:], cmd.InOrStdin())
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			matched := 0
			for _, v := range values {
				res, err := pattern.Match(pat, v)
				if err != nil {
					return err
				}
				out := &ui.MatchResult{Value: v, Matched: res != nil}
				if res != nil {
					matched++
					out.Bindings = res.Bindings
				}
				if err := r.RenderResult(out); err != nil {
					return err
				}
			}
			logger.Info().Int("values", len(values)).Int("matched", matched).Msg("Match finished")
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&defs, "define", "D", nil, MsgFlagDefine)
	return cmd
}

func (a *app) compile(path string) (*rulefile.File, *matcher.Table, error) {
	f, err := rulefile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	table, err := f.Compile(
		rulefile.WithRegexMode(a.cfg.RegexMode()),
		rulefile.WithMatcherOptions(matcher.WithTrace(a.cfg.Dispatch.Trace)),
	)
	if err != nil {
		return nil, nil, err
	}
	return f, table, nil
}

func newDispatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "dispatch RULEFILE [VALUE...]",
		Short:   MsgDispatchShort,
		Long:    MsgDispatchLong,
		Example: MsgDispatchExample,
		GroupID: "core",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.dispatch")
			done := logging.LogOperationStart(logger, "dispatch")
			defer done()

			_, table, err := a.compile(args[0])
			if err != nil {
				return err
			}
			values, err := collectValues(args[1:], cmd.InOrStdin())
			if err != nil {
				return err
			}

			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			unmatched := 0
			for _, v := range values {
				out, err := table.Dispatch(v)
				if errors.IsErrorCode(err, errors.ErrNoMatch) {
					unmatched++
					if err := r.RenderError(err); err != nil {
						return err
					}
					continue
				}
				if err != nil {
					return err
				}
				outcome := out.(*rulefile.Outcome)
				if err := r.RenderResult(&ui.DispatchResult{
					Value:    v,
					Rule:     outcome.Rule,
					Index:    outcome.Index,
					Result:   outcome.Result,
					Bindings: outcome.Bindings,
				}); err != nil {
					return err
				}
			}

			if unmatched > 0 {
				return errors.Newf(errors.ErrNoMatch, MsgErrUnmatched, unmatched, len(values))
			}
			return nil
		},
	}
}

func newRulesCmd(a *app) *cobra.Command {
	var export bool
	cmd := &cobra.Command{
		Use:     "rules RULEFILE",
		Short:   MsgRulesShort,
		Long:    MsgRulesLong,
		Example: MsgRulesExample,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, table, err := a.compile(args[0])
			if err != nil {
				return err
			}

			if export {
				norm, err := f.Normalize(rulefile.WithRegexMode(a.cfg.RegexMode()))
				if err != nil {
					return err
				}
				return norm.Export(cmd.OutOrStdout())
			}

			result := &ui.RulesResult{Source: args[0]}
			for i, rule := range table.Rules() {
				result.Rules = append(result.Rules, ui.RuleRow{
					Index:   i,
					Name:    f.Rules[i].Name,
					Pattern: rule.Pattern.String(),
					Result:  f.Rules[i].Result,
				})
			}
			r, err := a.renderer(cmd)
			if err != nil {
				return err
			}
			return r.RenderResult(result)
		},
	}
	cmd.Flags().BoolVar(&export, "export", false, MsgFlagExport)
	return cmd
}
