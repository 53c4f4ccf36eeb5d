package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/buildinfo"
	"github.com/matzehuels/modgraph/pkg/config"
	mgerrors "github.com/matzehuels/modgraph/pkg/errors"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// The persistent pre-run sets the log level from --verbose, loads the config
// file and attaches the logger to the command context.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "modgraph maps module dependency graphs to diagrams",
		Long: `modgraph analyzes the module graph of a dependency-injection application,
orders modules into initialization phases, labels them as infrastructure or
domain, and renders the result as Mermaid or Graphviz diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := LogInfo
			if c.verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)

			cfg, err := config.Load(c.configPath)
			if err != nil {
				return mgerrors.Wrap(mgerrors.ErrCodeInvalidConfig, err, "load config")
			}
			c.Config = cfg
			if cfg.Path != "" {
				c.Logger.Debug("loaded config", "path", cfg.Path)
			}

			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default: ./"+config.DefaultFileName+" if present)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.formatsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
