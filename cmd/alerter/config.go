package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/alerter/internal/config"
)

var configOpts struct {
	format string
	force  bool
}

// configCmd represents the config command group.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
	Long: `Inspect or create the configuration shared by alerter and alerterd.

Use 'alerter config show' to print the effective configuration.
Use 'alerter config init' to write the defaults to the config file.
Use 'alerter config path' to print where the config file is read from.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default to showing the config
		return configShowRun(cmd, args)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  configShowRun,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE:  configInitRun,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(os.Stdout, configPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)

	configCmd.PersistentFlags().StringVarP(&configOpts.format, "format", "f", "toml",
		"Output format (toml, yaml)")
	configInitCmd.Flags().BoolVar(&configOpts.force, "force", false,
		"Overwrite an existing config file")
}

func configPath() string {
	if globalOpts.configPath != "" {
		return globalOpts.configPath
	}
	return config.Path()
}

// writeConfig encodes c in the given format.
func writeConfig(w io.Writer, c *config.Config, format string) error {
	switch format {
	case "toml", "":
		enc := toml.NewEncoder(w)
		enc.SetIndentTables(true)
		return enc.Encode(c)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (toml, yaml)", format)
	}
}

func configShowRun(cmd *cobra.Command, args []string) error {
	return writeConfig(os.Stdout, getConfig(), configOpts.format)
}

func configInitRun(cmd *cobra.Command, args []string) error {
	path := configPath()
	if path == "" {
		return errors.New("cannot determine config directory")
	}
	if _, err := os.Stat(path); err == nil && !configOpts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote default configuration to %s\n", path)
	return nil
}
