// Package cli contains the blogr command line.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pders01/blogr/internal/config"
	"github.com/pders01/blogr/internal/debuglog"
	"github.com/pders01/blogr/internal/feed"
	"github.com/pders01/blogr/internal/route"
	"github.com/pders01/blogr/internal/tui"
	"github.com/pders01/blogr/internal/validation"
)

var (
	cfgFile   string
	endpoint  string
	logLevel  string
	logFile   string
	quiet     bool
	startPath string
	cfg       *config.Config
	version   = "dev"

	// now is the clock the latest listing is computed against.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "blogr",
	Short: "Terminal reader for the community blog",
	Long: `blogr browses the community blog from the terminal.

Without a subcommand it starts the interactive reader. The subcommands print
the same listings as plain tables for scripting.

Example usage:
  blogr                        # Start the reader on the home feed
  blogr --route /latest        # Start the reader on the latest articles
  blogr list                   # Print the home feed
  blogr latest --page 2        # Print the second page of latest articles
  blogr search growth          # Search titles, content and types
  blogr show 64f1c0ffee        # Print a single article`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return debuglog.Close()
	},
	RunE: runRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.config/blogr/config.toml)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "blog API collection endpoint")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error, off)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default is ~/.blogr/blogr.log)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "skip the startup banner")

	rootCmd.Flags().StringVar(&startPath, "route", "/", "route to open the reader at")
}

// initConfig loads the configuration with the global flags layered on top
// and sets up the debug log.
func initConfig(cmd *cobra.Command) error {
	v := viper.New()
	flags := cmd.Root().PersistentFlags()
	_ = v.BindPFlag("api.endpoint", flags.Lookup("endpoint"))
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.path", flags.Lookup("log-file"))

	paths := validation.NewFilePathValidator()
	configPath := cfgFile
	if configPath != "" {
		p, err := paths.ValidateAndSanitize(configPath)
		if err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
		configPath = p
	}

	var err error
	cfg, err = config.LoadWith(v, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if logFile != "" {
		if cfg.Log.Path, err = paths.ValidateAndSanitize(logFile); err != nil {
			return fmt.Errorf("invalid log file: %w", err)
		}
	}

	if err := debuglog.Setup(debuglog.ParseLogLevel(cfg.Log.Level), cfg.Log.Path); err != nil {
		return fmt.Errorf("setting up log: %w", err)
	}

	debuglog.WithFields(debuglog.Fields{
		"command":  cmd.Name(),
		"endpoint": cfg.API.Endpoint,
		"format":   cfg.API.Format,
	}).Debugf("configuration loaded")

	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	start, err := route.Parse(startPath)
	if err != nil {
		return err
	}

	repo, err := feed.NewRepository(cfg)
	if err != nil {
		return err
	}

	if !quiet {
		tui.ShowBanner(cmd.OutOrStdout(), version)
	}

	return tui.Run(repo, cfg, start)
}

func newRepository() (*feed.Repository, error) {
	return feed.NewRepository(cfg)
}
