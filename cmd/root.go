package cmd

import (
	"github.com/spf13/cobra"

	"github.com/bnema/wlscene/internal/config"
	"github.com/bnema/wlscene/internal/logger"
)

var (
	configPath string
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "wlscene",
		Short: "wlscene - scene windows as Wayland layer surfaces",
		Long: `wlscene drives a host scene on a Wayland compositor. Each scene window
becomes a wlr layer-shell surface or a sub-surface of one, and seat, output
and surface callbacks are turned into ordered events for the host.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.SetConfigPath(configPath)
			if err := config.Init(); err != nil {
				return err
			}
			// The flag wins over the config file, which wins over LOG_LEVEL.
			switch {
			case logLevel != "":
				logger.SetLevel(logLevel)
			case config.Get().Logging.LogLevel != "":
				logger.SetLevel(config.Get().Logging.LogLevel)
			}
			return nil
		},
	}
)

// Execute runs the root command
func Execute() error {
	rootCmd.Version = Version
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/wlscene/wlscene.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(inspectCmd)
}
