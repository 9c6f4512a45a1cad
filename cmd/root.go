// Package cmd provides the forge command-line interface.
//
// Configuration System:
//
//	Settings are resolved from several sources, highest priority first:
//	1. Command-line flags (--mode, --port, etc.)
//	2. FORGE_CONFIG_FILE environment variable naming a config file
//	3. Individual environment variables (FORGE_SERVER_PORT, etc.)
//	4. The project configuration file (.forge.yml)
//	5. Built-in defaults
//
// Environment Variables:
//
//	FORGE_CONFIG_FILE: Path to a custom configuration file
//	FORGE_BUILD_MODE: Default export mode
//	FORGE_SERVER_PORT: Override server port
//	And every other key following the FORGE_<SECTION>_<OPTION> pattern
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/forge/internal/config"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Compile declarative component definitions into markup",
	Long: `Forge compiles declarative component definitions into HTML-like templates.

The same definition produces live, binding-rich markup for an editor
renderer or static markup for export.

Quick Start:
  forge list                       List registered components
  forge compile button             Compile one component in live mode
  forge export page.yaml           Export an element tree as static markup
  forge catalog                    Print the live template catalog
  forge validate                   Check the project's definition files
  forge serve                      Start the compile server

Command Aliases:
  list (l), compile (c), export (e), serve (s), watch (w)`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .forge.yml, can also use FORGE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "log format (text, json)")
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig points viper at the configuration file and enables FORGE_
// environment overrides.
func initConfig() {
	configureViper(viper.GetViper(), cfgFile)

	// A missing file falls back to defaults.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok && viper.ConfigFileUsed() != "" {
		fmt.Fprintln(os.Stderr, "Warning: failed to read config file:", err)
	}
}

func configureViper(v *viper.Viper, file string) {
	switch {
	case file != "":
		v.SetConfigFile(file)
	case os.Getenv(config.EnvPrefix+"_CONFIG_FILE") != "":
		v.SetConfigFile(os.Getenv(config.EnvPrefix + "_CONFIG_FILE"))
	default:
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(config.FileName)
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(config.EnvKeyReplacer())
	v.AutomaticEnv()
}
