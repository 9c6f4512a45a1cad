package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conneroisu/forge/internal/types"
)

// StandardFlags provides consistent flag definitions across commands
type StandardFlags struct {
	// Server flags
	Port int
	Host string

	// Build flags
	Mode    string
	Library string
	All     bool

	// Instance flags
	Inputs       string
	InstanceFile string
	Content      string

	// Output flags
	OutputFormat string
	OutputFile   string
	Quiet        bool
}

// AddStandardFlags adds standard flags to a command
func AddStandardFlags(cmd *cobra.Command, flagTypes ...string) *StandardFlags {
	flags := &StandardFlags{}

	for _, flagType := range flagTypes {
		switch flagType {
		case "server":
			addServerFlags(cmd.Flags(), flags)
		case "build":
			addBuildFlags(cmd.Flags(), flags)
		case "instance":
			addInstanceFlags(cmd.Flags(), flags)
		case "output":
			addOutputFlags(cmd.Flags(), flags)
		}
	}

	return flags
}

func addServerFlags(fs *pflag.FlagSet, flags *StandardFlags) {
	fs.IntVarP(&flags.Port, "port", "p", 8080, "Port to serve on")
	fs.StringVar(&flags.Host, "host", "localhost", "Host to bind to")
}

func addBuildFlags(fs *pflag.FlagSet, flags *StandardFlags) {
	fs.StringVarP(&flags.Mode, "mode", "m", "", "Build mode (internal, simple, application)")
	fs.StringVar(&flags.Library, "library", "", "Only include components of this library")
	fs.BoolVarP(&flags.All, "all", "a", false, "Include deprecated components")
}

func addInstanceFlags(fs *pflag.FlagSet, flags *StandardFlags) {
	fs.StringVarP(&flags.Inputs, "inputs", "i", "", "Instance inputs (JSON or YAML, or @file)")
	fs.StringVarP(&flags.InstanceFile, "instance", "f", "", "Instance data file (YAML or JSON)")
	fs.StringVar(&flags.Content, "content", "", "Child content passed to the template")
}

func addOutputFlags(fs *pflag.FlagSet, flags *StandardFlags) {
	fs.StringVarP(&flags.OutputFormat, "format", "F", "table", "Output format (table|json|yaml)")
	fs.StringVarP(&flags.OutputFile, "out", "o", "", "Write output to a file instead of stdout")
	fs.BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress informational output")
}

// ParseInstance builds the instance data passed to a template from the
// --instance file and the --inputs flag. Inline inputs override the file's.
// It returns nil when neither flag is set. Without an id the export
// carries no per-instance class.
func (f *StandardFlags) ParseInstance(id string) (*types.InstanceData, error) {
	if f.InstanceFile == "" && f.Inputs == "" {
		return nil, nil
	}

	data := &types.InstanceData{}
	if f.InstanceFile != "" {
		raw, err := os.ReadFile(f.InstanceFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read instance file %s: %w", f.InstanceFile, err)
		}
		if err := yaml.Unmarshal(raw, data); err != nil {
			return nil, fmt.Errorf("invalid instance file %s: %w", f.InstanceFile, err)
		}
	}

	inputs, err := f.parseInputs()
	if err != nil {
		return nil, err
	}
	if len(inputs) > 0 {
		if data.Inputs == nil {
			data.Inputs = make(map[string]interface{}, len(inputs))
		}
		for k, v := range inputs {
			data.Inputs[k] = v
		}
	}

	if data.Type == "" {
		data.Type = id
	}
	return data, nil
}

// parseInputs parses --inputs. A leading @ names a file. JSON is accepted
// as a subset of YAML.
func (f *StandardFlags) parseInputs() (map[string]interface{}, error) {
	if f.Inputs == "" {
		return nil, nil
	}

	raw := []byte(f.Inputs)
	source := "inputs"
	if strings.HasPrefix(f.Inputs, "@") {
		source = strings.TrimPrefix(f.Inputs, "@")
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read inputs file %s: %w", source, err)
		}
		raw = data
	}

	var inputs map[string]interface{}
	if err := yaml.Unmarshal(raw, &inputs); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", source, err)
	}
	return inputs, nil
}

// BuildMode parses --mode, falling back to fallback when it is unset.
func (f *StandardFlags) BuildMode(fallback types.BuildMode) (types.BuildMode, error) {
	if f.Mode == "" {
		return fallback, nil
	}
	return types.ParseBuildMode(f.Mode)
}

// ValidateFlags validates flag combinations and values
func (f *StandardFlags) ValidateFlags() error {
	if f.Mode != "" {
		if _, err := types.ParseBuildMode(f.Mode); err != nil {
			return err
		}
	}

	if f.OutputFormat != "" {
		if err := ValidateFormatWithSuggestion(f.OutputFormat, []string{"table", "json", "yaml"}); err != nil {
			return err
		}
	}

	return nil
}

// ValidateFormatWithSuggestion rejects a format outside valid, suggesting
// the closest match.
func ValidateFormatWithSuggestion(format string, valid []string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}

	lower := strings.ToLower(format)
	for _, v := range valid {
		if strings.HasPrefix(v, lower) || strings.HasPrefix(lower, v) {
			return fmt.Errorf("invalid format %q, did you mean %q? (valid: %s)",
				format, v, strings.Join(valid, ", "))
		}
	}
	return fmt.Errorf("invalid format %q, must be one of: %s", format, strings.Join(valid, ", "))
}

// SetViperBindings binds changed flags to configuration keys so that an
// explicit flag overrides the file and environment values.
func SetViperBindings(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) error {
	for flagName, configKey := range bindings {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		if err := v.BindPFlag(configKey, flag); err != nil {
			return fmt.Errorf("binding --%s: %w", flagName, err)
		}
	}
	return nil
}
