package main

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/soundport/internal/config"
)

var configOpts struct {
	format string
	save   bool
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Print the configuration after defaults and the config file are merged.

Formats: toml (default), yaml, json. Use --save to write the effective
configuration to the config file path.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configOpts.format, "format", "f", "toml",
		"Output format (toml, yaml, json)")
	configCmd.Flags().BoolVar(&configOpts.save, "save", false,
		"Write the effective configuration to the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configOpts.save {
		path := globalOpts.configPath
		if path == "" {
			path = config.ConfigPath()
		}
		if err := cfg.Save(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		logger.Info("config saved", "path", path)
	}

	data, err := marshalConfig(cfg, configOpts.format)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// marshalConfig encodes c in the named format.
func marshalConfig(c *config.Config, format string) ([]byte, error) {
	switch format {
	case "toml":
		return toml.Marshal(c)
	case "yaml":
		return yaml.Marshal(c)
	case "json":
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q (use toml, yaml, or json)", format)
	}
}
