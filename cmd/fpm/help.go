package fpm

import (
	"embed"
	"io/fs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/fpm/pkg/topics"
	"github.com/arthur-debert/fpm/pkg/ui"
)

//go:embed topics
var topicFiles embed.FS

// topicRenderer styles markdown topics only when the resolved output
// format is the terminal one. The format is known once setup ran.
type topicRenderer struct {
	a *app
}

func (r topicRenderer) Render(content, format string) string {
	if r.a.cfg == nil || r.a.out == nil {
		return content
	}
	if ui.ResolveFormat(r.a.cfg.OutputFormat(), r.a.out) != ui.FormatTerminal {
		return content
	}
	return topics.NewGlamourRenderer().Render(content, format)
}

// installTopics adds "fpm help <topic>". Failing to load the topics only
// leaves the default help in place.
func installTopics(rootCmd *cobra.Command, a *app) {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	m, err := topics.New(sub, topics.Options{Renderer: topicRenderer{a: a}})
	if err != nil {
		log.Warn().Err(err).Msg("Help topics unavailable")
		return
	}
	topics.Install(rootCmd, m)
	rootCmd.SetHelpCommandGroupID("misc")
}
