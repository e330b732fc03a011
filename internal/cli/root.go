// Package cli implements the seo-content command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"seo-content-go/internal/app"
	"seo-content-go/internal/config"
)

// Version is set at build time.
var Version = "dev"

type rootOptions struct {
	configPath string
	envFile    string
	debug      bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "seo-content",
		Short:         "Turn company documents and keyword exports into marketing content",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file path")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the environment")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(
		newScoreCommand(opts),
		newUploadCommand(opts),
		newRunCommand(opts),
		newBundleCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.NewManager(config.WithEnvFile(o.envFile)).Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.debug {
		cfg.Logger.Level = "debug"
	}
	return cfg, nil
}

func (o *rootOptions) buildApp() (*app.App, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "seo-content", Version)
		},
	}
}
