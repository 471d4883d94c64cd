// Package topics adds help topics to a cobra application. Topics are text
// or markdown documents read from an fs.FS and shown by "help <topic>"
// next to the regular command help.
package topics

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/fpm/pkg/errors"
	"github.com/arthur-debert/fpm/pkg/logging"
)

// optionPrefix marks topics documenting a flag.
const optionPrefix = "option-"

// Topic is one help document.
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Options configures a Manager.
type Options struct {
	// Extensions is the list of file extensions to consider as topics.
	// Defaults to [".txt", ".md"].
	Extensions []string

	// Renderer formats topic content. Defaults to PlainRenderer.
	Renderer Renderer
}

// Manager holds the topics found in a file system.
type Manager struct {
	topics     map[string]*Topic
	extensions []string
	renderer   Renderer
}

// New scans fsys for topic files. Subdirectories are walked but do not
// namespace the topic name.
func New(fsys fs.FS, opts Options) (*Manager, error) {
	m := &Manager{
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".txt", ".md"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}

	if err := m.scan(fsys); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to scan help topics")
	}
	logger := logging.GetLogger("topics")
	logger.Debug().Int("count", len(m.topics)).Msg("Help topics loaded")
	return m, nil
}

func (m *Manager) scan(fsys fs.FS) error {
	return fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !m.supported(path.Ext(p)) {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		m.topics[name] = &Topic{Name: name, Path: p, Content: string(content)}
		return nil
	})
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Get retrieves a topic by name. Flag spellings such as "--regex-mode"
// find the "option-regex-mode" topic.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")

	if topic, ok := m.topics[name]; ok {
		return topic, true
	}
	topic, ok := m.topics[optionPrefix+name]
	return topic, ok
}

// List returns all topic names, sorted.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render writes a topic through the manager's renderer.
func (m *Manager) Render(w io.Writer, topic *Topic) error {
	_, err := io.WriteString(w, m.renderer.Render(topic.Content, path.Ext(topic.Path)))
	return err
}

// WriteIndex writes the list of topics, general ones first, then the
// flag topics.
func (m *Manager) WriteIndex(w io.Writer, app string) {
	var general, options []string
	for _, name := range m.List() {
		if strings.HasPrefix(name, optionPrefix) {
			options = append(options, strings.TrimPrefix(name, optionPrefix))
		} else {
			general = append(general, name)
		}
	}

	if len(general)+len(options) == 0 {
		fmt.Fprintln(w, "No help topics available.")
		return
	}

	fmt.Fprintln(w, "Available help topics:")
	if len(general) > 0 {
		fmt.Fprintln(w, "\nGeneral topics:")
		for _, name := range general {
			fmt.Fprintf(w, "  %s\n", name)
		}
	}
	if len(options) > 0 {
		fmt.Fprintln(w, "\nOption topics:")
		for _, name := range options {
			fmt.Fprintf(w, "  --%s\n", name)
		}
	}
	fmt.Fprintf(w, "\nUse '%s help <topic>' to read about a specific topic.\n", app)
}

// Install replaces the help command of root with one that also knows
// about topics. "help topics" lists them.
func Install(root *cobra.Command, m *Manager) {
	originalHelp := root.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + root.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + root.Name() + ` help topics`,
		DisableFlagParsing: true,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				originalHelp(root, args)
				return nil
			}
			if args[0] == "topics" {
				m.WriteIndex(cmd.OutOrStdout(), root.Name())
				return nil
			}
			if topic, ok := m.Get(args[0]); ok {
				return m.Render(cmd.OutOrStdout(), topic)
			}

			target, _, err := root.Find(args)
			if err != nil || target == nil {
				return errors.Newf(errors.ErrNotFound, "unknown help topic %q", strings.Join(args, " "))
			}
			originalHelp(target, args)
			return nil
		},
	}

	for _, c := range root.Commands() {
		if c.Name() == "help" {
			root.RemoveCommand(c)
			break
		}
	}
	root.SetHelpCommand(helpCmd)
}
