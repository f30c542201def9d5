package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the effective runtime configuration.
type Config struct {
	Endpoint       string        `mapstructure:"endpoint" validate:"required,url"`
	Token          string        `mapstructure:"token"`
	Model          string        `mapstructure:"model" validate:"required"`
	Provider       string        `mapstructure:"provider" validate:"oneof=completions openai"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	GitTimeout     time.Duration `mapstructure:"git_timeout" validate:"gte=0"`
}

const (
	DefaultEndpoint = "http://localhost:1234/v1/completions"
	// DefaultOpenAIEndpoint is the base URL the openai provider appends
	// /chat/completions to.
	DefaultOpenAIEndpoint = "http://localhost:1234/v1"
	DefaultModel          = "unsloth"
	DefaultProvider       = ProviderCompletions
	PlaceholderToken      = "your_api_token_here"
	DefaultConfigName     = "config"
	DefaultConfigDir      = "lmc"
	EnvPrefix             = "LMC"
	DotEnvFile            = ".env"

	ProviderCompletions = "completions"
	ProviderOpenAI      = "openai"
)

var (
	ErrMissingToken     = errors.New("API token is missing")
	ErrPlaceholderToken = errors.New("API token is still the placeholder value")
	ErrInvalidConfig    = errors.New("invalid configuration value")
	ErrProviderEndpoint = errors.New("endpoint does not match provider")
)

// SettableKeys lists the keys accepted by `lmc config set`.
var SettableKeys = []string{"endpoint", "token", "model", "provider", "request_timeout", "git_timeout"}

var validate = validator.New()

func setDefaults() {
	viper.SetDefault("endpoint", DefaultEndpoint)
	viper.SetDefault("token", PlaceholderToken)
	viper.SetDefault("model", DefaultModel)
	viper.SetDefault("provider", DefaultProvider)
	viper.SetDefault("request_timeout", "0s")
	viper.SetDefault("git_timeout", "0s")
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/lmc/config.yaml, falling back to
// ~/.config/lmc/config.yaml.
func DefaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, DefaultConfigDir, DefaultConfigName+".yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "find home directory")
	}
	return filepath.Join(home, ".config", DefaultConfigDir, DefaultConfigName+".yaml"), nil
}

// InitConfig wires viper to the config file, LMC_* environment variables and
// defaults. A missing config file is not an error.
func InitConfig(cfgFile string) error {
	if cfgFile == "" {
		path, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		cfgFile = path
	}
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("yaml")

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "read config file %s", cfgFile)
	}
	return nil
}

// LoadDotEnv loads KEY=VALUE pairs from dir/.env into the process environment
// without overriding variables that are already set.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, DotEnvFile)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "stat %s", path)
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "load %s", path)
	}
	return nil
}

// GetConfig decodes the current configuration. A value that cannot be decoded,
// such as a malformed duration, is an ErrInvalidConfig error. The openai
// provider uses its own default base URL when the endpoint was left at the
// completions default.
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decode configuration"), ErrInvalidConfig)
	}
	if cfg.Provider == ProviderOpenAI && cfg.Endpoint == DefaultEndpoint {
		cfg.Endpoint = DefaultOpenAIEndpoint
	}
	return cfg, nil
}

// Validate checks the configuration before any git or network work starts.
// An empty or placeholder token is always fatal.
func (c *Config) Validate() error {
	switch strings.TrimSpace(c.Token) {
	case "":
		return errors.WithHint(ErrMissingToken, "set it with: lmc config set token <TOKEN> or LMC_TOKEN")
	case PlaceholderToken:
		return errors.WithHint(ErrPlaceholderToken, "replace it with: lmc config set token <TOKEN> or LMC_TOKEN")
	}
	if err := validate.Struct(c); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid configuration"), ErrInvalidConfig)
	}
	if c.Provider == ProviderOpenAI && strings.HasSuffix(strings.TrimRight(c.Endpoint, "/"), "/completions") {
		return errors.WithHint(
			errors.Wrapf(ErrProviderEndpoint, "openai provider needs a base URL, got %s", c.Endpoint),
			"use the API root, for example "+DefaultOpenAIEndpoint)
	}
	return nil
}

// MaskedToken hides all but the last four characters of the token.
func (c *Config) MaskedToken() string {
	if c.Token == "" {
		return "<unset>"
	}
	if len(c.Token) <= 4 {
		return strings.Repeat("*", len(c.Token))
	}
	return strings.Repeat("*", 8) + c.Token[len(c.Token)-4:]
}

// IsSettableKey reports whether key may be changed with SetConfigValue from the CLI.
func IsSettableKey(key string) bool {
	for _, k := range SettableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SetConfigValue sets a configuration value in memory.
func SetConfigValue(key string, value interface{}) {
	viper.Set(key, value)
}

// SaveConfig writes the current configuration to the active config file with 0600 permissions.
func SaveConfig() error {
	path := viper.ConfigFileUsed()
	if path == "" {
		var err error
		if path, err = DefaultConfigPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "create config directory")
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return errors.Wrap(err, "write config file")
	}
	if err := os.Chmod(path, 0o600); err != nil {
		return errors.Wrap(err, "restrict config file permissions")
	}
	return nil
}
