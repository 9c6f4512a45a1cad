// Package config provides configuration management for forge using Viper
// for loading from files, environment variables and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the FORGE_ prefix, defaults and validation. It covers the
// build mode and library filter used by compile and export, the definition
// paths the loader and watcher read, the query server, and logging.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/manager"
	"github.com/conneroisu/forge/internal/types"
)

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "FORGE"

// FileName is the base name of the project configuration file.
const FileName = ".forge"

type Config struct {
	Build      BuildConfig      `mapstructure:"build" yaml:"build"`
	Components ComponentsConfig `mapstructure:"components" yaml:"components"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Watch      WatchConfig      `mapstructure:"watch" yaml:"watch"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

type BuildConfig struct {
	Mode             string `mapstructure:"mode" yaml:"mode"`
	Library          string `mapstructure:"library" yaml:"library"`
	IgnoreDeprecated bool   `mapstructure:"ignore_deprecated" yaml:"ignore_deprecated"`
	FontURL          string `mapstructure:"font_url" yaml:"font_url"`
	// Check audits exported markup before it is written.
	Check bool `mapstructure:"check" yaml:"check"`
}

type ComponentsConfig struct {
	DefinitionPaths []string `mapstructure:"definition_paths" yaml:"definition_paths"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// EnvKeyReplacer maps nested keys such as server.port onto FORGE_SERVER_PORT.
func EnvKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("build.mode", types.Simple.String())
	v.SetDefault("build.library", "")
	v.SetDefault("build.ignore_deprecated", true)
	v.SetDefault("build.font_url", manager.DefaultFontURL)
	v.SetDefault("build.check", false)

	v.SetDefault("components.definition_paths", []string{"./components"})
	v.SetDefault("components.exclude_patterns", []string{"*.bak", "*.draft.yaml"})

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"localhost:8080", "127.0.0.1:8080"})

	v.SetDefault("watch.debounce", 300*time.Millisecond)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, ferrors.NewConfigError(ferrors.CodeInvalidConfig, fmt.Sprintf("decoding configuration: %v", err))
	}

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate returns an error carrying every validation error in config.
// Warnings do not fail validation.
func Validate(config *Config) error {
	result := ValidateConfigWithDetails(config)
	if !result.HasErrors() {
		return nil
	}

	errs := make([]error, len(result.Errors))
	for i := range result.Errors {
		e := result.Errors[i]
		errs[i] = ferrors.NewConfigError(ferrors.CodeInvalidConfig, e.Error()).WithContext("field", e.Field)
	}
	return ferrors.Combine(errs...)
}

// BuildMode returns the parsed build mode. It assumes a validated config.
func (c *Config) BuildMode() types.BuildMode {
	mode, err := types.ParseBuildMode(c.Build.Mode)
	if err != nil {
		return types.Simple
	}
	return mode
}

// Address returns the server listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
