package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/prabalesh/brtop/internal/config"
	"github.com/prabalesh/brtop/internal/errors"
)

var (
	configInitForce  bool
	configInitGlobal bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved configuration",
	Long: `Print the configuration brtop would run with, after merging defaults,
the config file and BRTOP_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := config.LoadOrDefault(rootFlags.configPath)
		if err != nil {
			return err
		}
		data, err := config.Marshal(cfg)
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Cannot encode config", "")
		}
		out := cmd.OutOrStdout()
		if path == "" {
			fmt.Fprintln(out, "# source: defaults")
		} else {
			fmt.Fprintf(out, "# source: %s\n", path)
		}
		_, err = out.Write(data)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	Long: `Write the default configuration to .brtop.yaml in the current directory,
or to ~/.config/brtop/config.yaml with --global.

Examples:
  brtop config init
  brtop config init --global --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ConfigFileName
		if configInitGlobal {
			path = config.GlobalPath()
			if path == "" {
				return errors.New(errors.ErrConfig, "Cannot determine home directory", "Use brtop config init without --global")
			}
		}
		if err := writeDefaultConfig(path, configInitForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing file")
	configInitCmd.Flags().BoolVar(&configInitGlobal, "global", false, "write the global config file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func writeDefaultConfig(path string, force bool) error {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Cannot access "+path, "Check file permissions")
	}
	if exists && !force {
		return errors.New(errors.ErrConfig, "Config file already exists: "+path, "Use --force to overwrite it")
	}

	data, err := config.Marshal(config.DefaultConfig())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Cannot encode config", "")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig, "Cannot create "+dir, "Check directory permissions")
		}
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, "Cannot write "+path, "Check directory permissions")
	}
	return nil
}
