package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/calradia/rosterkit/pkg/config"
	"github.com/calradia/rosterkit/pkg/roster"
)

var (
	cfg *config.Config
	log zerolog.Logger

	flagConfig  string
	flagFile    string
	flagWSE2    bool
	flagVerbose bool
	flagQuiet   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rosterkit",
	Short: "Mount & Blade Warband roster and face code toolkit",
	Long: `rosterkit edits Mount & Blade Warband profiles.dat files: list,
generate and delete characters, keep on-disk backups, convert face codes,
and serve the same operations over HTTP for browser use.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configPath := flagConfig
		if configPath == "" {
			configPath = config.DefaultConfigPath()
		}
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.DefaultConfig()
		}
		if flagWSE2 {
			cfg.WSE2 = true
		}
		if flagFile != "" {
			cfg.ProfilesPath = flagFile
		}

		level := zerolog.InfoLevel
		if parsed, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil && cfg.Logging.Level != "" {
			level = parsed
		}
		switch {
		case flagQuiet:
			level = zerolog.ErrorLevel
		case flagVerbose:
			level = zerolog.DebugLevel
		}
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Path to profiles.dat (overrides per-OS resolution)")
	rootCmd.PersistentFlags().BoolVar(&flagWSE2, "wse2", false, "Use the WSE2 game data directory")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Errors only")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}

// profilesPath resolves the roster location: explicit override first,
// then the per-OS game directory.
func profilesPath() (string, error) {
	if cfg.ProfilesPath != "" {
		return cfg.ProfilesPath, nil
	}
	return roster.ProfilesPath(cfg.WSE2)
}
