package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/forge/internal/compiler"
	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/types"
)

var compileCmd = &cobra.Command{
	Use:     "compile <component>",
	Aliases: []string{"c"},
	Short:   "Compile one component",
	Long: `Compile a registered component and print its markup.

Live (internal) mode prints the binding-rich template the editor renderer
consumes. Export modes render the instance data given with --inputs or
--instance as static markup.

Examples:
  forge compile button                              # Live template
  forge compile heading -m simple -i '{text: Hi}'   # Static markup
  forge compile card -m simple -f card.yaml         # Instance from a file
  forge compile button --inspect                    # Factory records as YAML`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

var (
	compileFlags   *StandardFlags
	compileInspect bool
	compileJSON    bool
)

func init() {
	rootCmd.AddCommand(compileCmd)

	compileFlags = AddStandardFlags(compileCmd, "build", "instance")
	compileCmd.Flags().StringVarP(&compileFlags.OutputFile, "out", "o", "", "Write output to a file instead of stdout")
	compileCmd.Flags().BoolVar(&compileInspect, "inspect", false, "Print the factory records instead of markup")
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "Print --inspect records as JSON")
}

func runCompile(cmd *cobra.Command, args []string) error {
	if err := compileFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return withOutput(compileFlags.OutputFile, cmd.OutOrStdout(), func(out io.Writer) error {
		inspect := ""
		if compileInspect {
			inspect = "yaml"
			if compileJSON {
				inspect = "json"
			}
		}
		return compileComponent(cmd.Context(), viper.GetViper(), args[0], compileFlags, inspect, out, cmd.ErrOrStderr())
	})
}

// compileComponent prints the markup of one component. A non-empty inspect
// format ("yaml" or "json") prints the factory records instead.
func compileComponent(ctx context.Context, v *viper.Viper, id string, flags *StandardFlags, inspect string, out, errOut io.Writer) error {
	ws, err := newWorkspace(ctx, v, errOut)
	if err != nil {
		return err
	}
	printProblems(errOut, ws.problems)

	// Live mode is the default for a single component.
	mode, err := flags.BuildMode(types.Internal)
	if err != nil {
		return err
	}

	entry, ok := ws.registry.Lookup(id)
	if !ok {
		return ws.unknownComponent(id)
	}

	data, err := flags.ParseInstance(entry.Definition.ID)
	if err != nil {
		return err
	}

	if inspect != "" {
		var records interface{}
		err := recoverContract(func() {
			records = compiler.Inspect(entry.Definition, mode, data, flags.Content)
		})
		if err != nil {
			return err
		}
		if inspect == "json" {
			return writeJSON(out, records)
		}
		return writeYAML(out, records)
	}

	var markup string
	if err := recoverContract(func() {
		markup = entry.Template(mode, data, flags.Content)
	}); err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, markup)
	return err
}

// recoverContract runs fn and turns a compiler panic into an error.
func recoverContract(fn func()) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = ferrors.FromPanic(rec)
		}
	}()
	fn()
	return nil
}
