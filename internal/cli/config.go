package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pders01/blogr/internal/config"
	"github.com/pders01/blogr/internal/validation"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configGenerateCmd = &cobra.Command{
	Use:   "generate [PATH]",
	Short: "Write the default configuration",
	Long: `Write the default configuration as TOML.

Examples:
  blogr config generate                    # ~/.config/blogr/config.toml
  blogr config generate ./config.toml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigGenerate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGenerateCmd)
}

func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", "blogr", "config.toml"), nil
}

func runConfigGenerate(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		p, err := validation.NewFilePathValidator().ValidateAndSanitize(args[0])
		if err != nil {
			return fmt.Errorf("invalid config path: %w", err)
		}
		path = p
	} else {
		p, err := defaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := config.GenerateDefaultConfig(path); err != nil {
		return fmt.Errorf("generating config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
	return nil
}
