// Package commands implements the xtra command line, which runs the same
// extractors as the HTTP API against local files.
package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"xtra/internal/bootstrap"
	"xtra/internal/extract"
	"xtra/internal/shared/config"
	"xtra/internal/shared/telemetry"
)

// Execute runs the root command with the default extractors.
func Execute() error {
	cfg := config.Load()
	return NewRootCmd(cfg, bootstrap.DefaultFactories(cfg), os.Stdout).Execute()
}

// NewRootCmd builds the command tree around factories and writes results to out.
func NewRootCmd(cfg config.Config, factories extract.Factories, out io.Writer) *cobra.Command {
	var logConf string

	root := &cobra.Command{
		Use:           "xtra",
		Short:         "Extract structured data from PDF files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, required := cfg.LogConfigPath, cfg.LogConfigRequired
			if cmd.Flags().Changed("log-conf") {
				path, required = logConf, true
			}
			return telemetry.Setup(path, required)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&logConf, "log-conf", cfg.LogConfigPath, "log configuration file")

	for _, cmd := range extractCommands(cfg, factories) {
		root.AddCommand(cmd)
	}
	root.AddCommand(serveCommand(cfg))
	return root
}
