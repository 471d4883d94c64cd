// Package fpm implements the fpm command line.
package fpm

import (
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/fpm/internal/version"
	"github.com/arthur-debert/fpm/pkg/config"
	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/logging"
	"github.com/arthur-debert/fpm/pkg/ui"
)

// app carries global flag values and the configuration loaded from them
// to every subcommand.
type app struct {
	verbosity  int
	format     string
	regexMode  string
	configPath string
	trace      bool

	cfg *config.Config
	out io.Writer
}

// overrides turns the global flags given on the command line into config
// keys. Flags left at their defaults do not mask file or env settings.
func (a *app) overrides(cmd *cobra.Command) map[string]interface{} {
	flags := cmd.Flags()
	out := map[string]interface{}{}
	if flags.Changed("verbose") {
		out["logging.verbosity"] = a.verbosity
	}
	if flags.Changed("format") {
		out["output.format"] = a.format
	}
	if flags.Changed("regex-mode") {
		out["regex.mode"] = a.regexMode
	}
	if flags.Changed("trace") {
		out["dispatch.trace"] = a.trace
	}
	return out
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(config.Options{
		Path:      a.configPath,
		Overrides: a.overrides(cmd),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.out = cmd.OutOrStdout()

	logging.SetupLogger(cfg.Logging.Verbosity)
	log.Debug().
		Str("command", cmd.Name()).
		Strs("config_sources", cfg.Sources).
		Msg("Command started")
	return nil
}

func (a *app) renderer(cmd *cobra.Command) (ui.Renderer, error) {
	return ui.NewRenderer(a.cfg.OutputFormat(), cmd.OutOrStdout())
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	a := &app{}
	rootCmd := &cobra.Command{
		Use:     "fpm",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&a.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&a.format, "format", "auto", MsgFlagFormat)
	flags.StringVar(&a.regexMode, "regex-mode", "full", MsgFlagRegexMode)
	flags.StringVar(&a.configPath, "config", "", MsgFlagConfig)
	flags.BoolVar(&a.trace, "trace", false, MsgFlagTrace)

	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"auto", "term", "text", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("regex-mode", cobra.FixedCompletions(
		[]string{"full", "search"}, cobra.ShellCompDirectiveNoFileComp))

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newMatchCmd(a))
	rootCmd.AddCommand(newDispatchCmd(a))
	rootCmd.AddCommand(newRulesCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	installTopics(rootCmd, a)

	return rootCmd
}
