package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samzong/lmc/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage lmc configuration",
		Long:  `Show or change the completion endpoint, token, model and timeouts used by lmc.`,
	}

	configGetYAML bool

	configGetCmd = &cobra.Command{
		Use:   "get",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return errors.Wrap(err, "configuration error")
			}
			out := outWriter()
			if configGetYAML {
				return writeConfigYAML(out, cfg)
			}
			fmt.Fprintln(out, "Current configuration:")
			fmt.Fprintf(out, "Endpoint: %s\n", cfg.Endpoint)
			fmt.Fprintf(out, "Token: %s\n", displayToken(cfg))
			fmt.Fprintf(out, "Model: %s\n", cfg.Model)
			fmt.Fprintf(out, "Provider: %s\n", cfg.Provider)
			fmt.Fprintf(out, "Request timeout: %s\n", displayTimeout(cfg.RequestTimeout))
			fmt.Fprintf(out, "Git timeout: %s\n", displayTimeout(cfg.GitTimeout))
			if path := viper.ConfigFileUsed(); path != "" {
				fmt.Fprintf(out, "Config file: %s\n", path)
			}
			return nil
		},
	}

	configSetCmd = &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Persist a configuration value",
		Long:      "Persist a configuration value. Keys: " + strings.Join(config.SettableKeys, ", "),
		Args:      cobra.ExactArgs(2),
		ValidArgs: config.SettableKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := setConfigValue(key, value); err != nil {
				return err
			}
			if err := config.SaveConfig(); err != nil {
				return errors.Wrap(err, "failed to save configuration")
			}
			if key == "token" {
				fmt.Fprintln(outWriter(), "Token updated")
			} else {
				fmt.Fprintf(outWriter(), "Set %s to %s\n", key, value)
			}
			return nil
		},
	}
)

func init() {
	configGetCmd.Flags().BoolVar(&configGetYAML, "yaml", false, "Print the configuration as YAML (token masked)")
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func setConfigValue(key, value string) error {
	if !config.IsSettableKey(key) {
		return errors.Newf("unknown configuration key %q (valid keys: %s)", key, strings.Join(config.SettableKeys, ", "))
	}
	if key == "request_timeout" || key == "git_timeout" {
		if _, err := time.ParseDuration(value); err != nil {
			return errors.Wrapf(err, "invalid duration for %s", key)
		}
	}

	previous := viper.Get(key)
	config.SetConfigValue(key, value)

	// The token is checked at run time; a placeholder may still be stored here.
	cfg, err := config.GetConfig()
	if err == nil {
		candidate := *cfg
		candidate.Token = "set"
		err = candidate.Validate()
	}
	if err != nil {
		config.SetConfigValue(key, previous)
		return errors.Wrapf(err, "invalid value for %s", key)
	}
	return nil
}

// configView is the printable form of config.Config.
type configView struct {
	Endpoint       string `yaml:"endpoint"`
	Token          string `yaml:"token"`
	Model          string `yaml:"model"`
	Provider       string `yaml:"provider"`
	RequestTimeout string `yaml:"request_timeout"`
	GitTimeout     string `yaml:"git_timeout"`
}

func writeConfigYAML(w io.Writer, cfg *config.Config) error {
	view := configView{
		Endpoint:       cfg.Endpoint,
		Token:          cfg.MaskedToken(),
		Model:          cfg.Model,
		Provider:       cfg.Provider,
		RequestTimeout: cfg.RequestTimeout.String(),
		GitTimeout:     cfg.GitTimeout.String(),
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return errors.Wrap(err, "encode configuration")
	}
	return enc.Close()
}

func displayToken(cfg *config.Config) string {
	switch cfg.Token {
	case config.PlaceholderToken:
		return "<placeholder, set one with: lmc config set token <TOKEN>>"
	default:
		return cfg.MaskedToken()
	}
}

func displayTimeout(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}
