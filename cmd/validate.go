package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/forge/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [paths...]",
	Short: "Validate the configuration and definition files",
	Long: `Validate the project configuration and every definition file.

Definition files are parsed, checked against the schema and registered
against the built-in library. Problems are reported per file; deprecated
definitions are reported as warnings.

Examples:
  forge validate                   # Configured definition paths
  forge validate components/forms  # Specific files or directories`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	return validateProject(cmd.Context(), viper.GetViper(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// validateProject validates the configuration held by v, then the
// definition files under paths or under the configured paths.
func validateProject(ctx context.Context, v *viper.Viper, paths []string, out, errOut io.Writer) error {
	if len(paths) > 0 {
		v.Set("components.definition_paths", paths)
	}

	config.SetDefaults(v)
	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding configuration: %w", err)
	}
	result := config.ValidateConfigWithDetails(&cfg)
	if result.HasErrors() || result.HasWarnings() {
		fmt.Fprint(out, result.String())
	}
	if result.HasErrors() {
		return fmt.Errorf("configuration is invalid")
	}

	ws, err := newWorkspace(ctx, v, errOut)
	if err != nil {
		return err
	}
	if printProblems(out, ws.problems) {
		return fmt.Errorf("definition files are invalid")
	}

	fmt.Fprintf(out, "%d components registered\n", ws.registry.Count())
	return nil
}
