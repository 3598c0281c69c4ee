package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/telecomx-cli/internal/config"
	"github.com/KaramelBytes/telecomx-cli/internal/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set telecomx configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if cfg == nil {
			fmt.Fprintln(out, "No config loaded")
			return nil
		}
		fmt.Fprintf(out, "source_url: %s\n", cfg.SourceURL)
		fmt.Fprintf(out, "cache_dir: %s\n", cfg.CacheDir)
		fmt.Fprintf(out, "workspaces_dir: %s\n", cfg.WorkspacesDir)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)
		fmt.Fprintf(out, "categorical_max_distinct: %d\n", cfg.CategoricalMaxDistinct)
		fmt.Fprintf(out, "significance: %.3f\n", cfg.Significance)
		fmt.Fprintf(out, "chart_width_in: %.1f\n", cfg.ChartWidthIn)
		fmt.Fprintf(out, "chart_height_in: %.1f\n", cfg.ChartHeightIn)
		fmt.Fprintf(out, "http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		fmt.Fprintf(out, "retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		fmt.Fprintf(out, "retry_base_delay_ms: %d\n", cfg.RetryBaseDelayMs)
		fmt.Fprintf(out, "retry_max_delay_ms: %d\n", cfg.RetryMaxDelayMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		positive := func(v string) (int, error) {
			i, err := strconv.Atoi(v)
			if err != nil || i <= 0 {
				return 0, fmt.Errorf("invalid positive int for %s: %v", key, v)
			}
			return i, nil
		}
		positiveFloat := func(v string) (float64, error) {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return 0, fmt.Errorf("invalid positive float for %s: %v", key, v)
			}
			return f, nil
		}
		var err error
		switch key {
		case "source_url":
			cfg.SourceURL = val
		case "cache_dir":
			cfg.CacheDir = val
		case "workspaces_dir":
			cfg.WorkspacesDir = val
		case "log_level":
			if _, err := logging.ParseLevel(val); err != nil {
				return err
			}
			cfg.LogLevel = val
		case "categorical_max_distinct":
			cfg.CategoricalMaxDistinct, err = positive(val)
		case "significance":
			var f float64
			if f, err = positiveFloat(val); err == nil && f >= 1 {
				err = fmt.Errorf("significance must be below 1: %v", val)
			}
			cfg.Significance = f
		case "chart_width_in":
			cfg.ChartWidthIn, err = positiveFloat(val)
		case "chart_height_in":
			cfg.ChartHeightIn, err = positiveFloat(val)
		case "http_timeout_sec":
			cfg.HTTPTimeoutSec, err = positive(val)
		case "retry_max_attempts":
			cfg.RetryMaxAttempts, err = positive(val)
		case "retry_base_delay_ms":
			cfg.RetryBaseDelayMs, err = positive(val)
		case "retry_max_delay_ms":
			cfg.RetryMaxDelayMs, err = positive(val)
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Saved config\n", okMark)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
