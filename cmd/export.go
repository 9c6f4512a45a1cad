package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/forge/internal/loader"
	"github.com/conneroisu/forge/internal/markup"
	"github.com/conneroisu/forge/internal/types"
)

var exportCmd = &cobra.Command{
	Use:     "export <document>",
	Aliases: []string{"e"},
	Short:   "Export an element tree as static markup",
	Long: `Export the element tree stored in a document file as static markup.

A document lists its root element ids, every element keyed by id and an
optional asset map. Simple mode prints the markup alone; application mode
wraps it in a standalone page with a generated stylesheet.

Examples:
  forge export page.yaml                     # Simple export to stdout
  forge export page.yaml -m application      # Standalone page
  forge export page.yaml --root hero -o hero.html
  forge export page.yaml --check             # Audit the markup first`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

var (
	exportFlags *StandardFlags
	exportRoots []string
	exportCheck bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportFlags = &StandardFlags{}
	exportCmd.Flags().StringVarP(&exportFlags.Mode, "mode", "m", "", "Export mode (simple, application)")
	exportCmd.Flags().StringVarP(&exportFlags.OutputFile, "out", "o", "", "Write output to a file instead of stdout")
	exportCmd.Flags().StringSliceVar(&exportRoots, "root", nil, "Export only these root element ids")
	exportCmd.Flags().BoolVar(&exportCheck, "check", false, "Audit the exported markup and fail on errors")
}

func runExport(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := SetViperBindings(v, cmd, map[string]string{
		"mode":  "build.mode",
		"check": "build.check",
	}); err != nil {
		return err
	}

	return withOutput(exportFlags.OutputFile, cmd.OutOrStdout(), func(out io.Writer) error {
		return exportDocument(cmd.Context(), v, args[0], exportRoots, out, cmd.ErrOrStderr())
	})
}

// exportDocument exports the roots of the document at path, or the given
// roots when any are named.
func exportDocument(ctx context.Context, v *viper.Viper, path string, roots []string, out, errOut io.Writer) error {
	ws, err := newWorkspace(ctx, v, errOut)
	if err != nil {
		return err
	}
	printProblems(errOut, ws.problems)

	mode := ws.config.BuildMode()
	if !mode.IsExport() {
		return fmt.Errorf("export mode must be simple or application, got %s", mode)
	}

	doc, err := loader.LoadDocument(path)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		roots = doc.Roots
	}
	for _, root := range roots {
		if _, ok := doc.Elements[root]; !ok {
			return fmt.Errorf("root %q is not an element of %s", root, path)
		}
	}

	var result string
	var exportErr error
	if err := recoverContract(func() {
		if mode == types.Application {
			result, exportErr = ws.manager.ExportApplication(ctx, doc.Context(), roots)
			return
		}
		result = ws.manager.Export(doc.Context(), roots, mode)
	}); err != nil {
		return err
	}
	if exportErr != nil {
		return exportErr
	}

	if ws.config.Build.Check {
		if err := checkMarkup(result, path, errOut); err != nil {
			return err
		}
	}

	_, err = fmt.Fprintln(out, result)
	return err
}

// checkMarkup prints every finding and fails when any is an error.
func checkMarkup(result, path string, errOut io.Writer) error {
	report, err := markup.Check(result)
	if err != nil {
		return fmt.Errorf("checking exported markup: %w", err)
	}
	for _, f := range report.Findings {
		fmt.Fprintf(errOut, "%s: %s\n", path, f)
	}
	if report.HasErrors() {
		return fmt.Errorf("exported markup of %s failed the check", path)
	}
	return nil
}
