// Root command for the bookdb CLI.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukaforge/bookdb/internal/paths"
	"github.com/dukaforge/bookdb/pkg/bookdb"
)

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagQuiet     bool
	flagDebug     bool
)

// configDefaultBase and configDataDir hold values loaded from config.yaml.
// Set by PersistentPreRunE so all subcommands can use them.
var (
	configDefaultBase string
	configDataDir     string
)

var rootCmd = &cobra.Command{
	Use:   "bookdb",
	Short: "bookdb is a context-chain addressed variable and document store",
	Long: `bookdb stores variables and documents in per-base SQLite files and
addresses them with context chains:

  <@|%|#>[base@]container.subcontainer.<var|doc>.tail

  @  persistent: the chain becomes the session cursor
  %  ephemeral:  the chain applies once, the cursor is untouched
  #  action:     reserved

Commands that take an optional [chain] argument fall back to the session
cursor, or to the root chain when no cursor is set.`,
	Version:       bookdb.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		cfg, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		configDefaultBase = cfg.GetString(cfgKeyDefaultBase)
		configDataDir = cfg.GetString(cfgKeyDataDir)

		initLogger()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory holding base databases (default: platform data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress banners and informational output")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(useCmd)
	rootCmd.AddCommand(cursorCmd)
	rootCmd.AddCommand(getvCmd)
	rootCmd.AddCommand(setvCmd)
	rootCmd.AddCommand(delvCmd)
	rootCmd.AddCommand(getdCmd)
	rootCmd.AddCommand(setdCmd)
	rootCmd.AddCommand(deldCmd)
	rootCmd.AddCommand(incCmd)
	rootCmd.AddCommand(decCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// initLogger configures the process-wide slog logger. Debug output goes to
// stderr; the default level keeps storage chatter out of normal runs.
func initLogger() {
	level := slog.LevelWarn
	if flagDebug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveConfigDir returns the configuration directory following the
// precedence chain flag > BOOKDB_CONFIG_DIR env > platform default.
func resolveConfigDir() (string, error) {
	return paths.ResolveConfigDir(flagConfigDir)
}

// resolveDataDir returns the data directory following the precedence chain
// flag > config.yaml data_dir > BOOKDB_DATA_DIR env > platform default.
func resolveDataDir() (string, error) {
	return paths.ResolveDataDir(flagDataDir, configDataDir)
}
