package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the live template catalog",
	Long: `Print the catalog consumed by the editor renderer: one named template
block per registered component plus the generic child-dispatch block.

Examples:
  forge catalog                     # Print to stdout
  forge catalog -o catalog.html     # Write to a file`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var catalogOutput string

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().StringVarP(&catalogOutput, "out", "o", "", "Write output to a file instead of stdout")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	return withOutput(catalogOutput, cmd.OutOrStdout(), func(out io.Writer) error {
		return printCatalog(cmd.Context(), viper.GetViper(), out, cmd.ErrOrStderr())
	})
}

func printCatalog(ctx context.Context, v *viper.Viper, out, errOut io.Writer) error {
	ws, err := newWorkspace(ctx, v, errOut)
	if err != nil {
		return err
	}
	printProblems(errOut, ws.problems)

	var catalog string
	if err := recoverContract(func() {
		catalog = ws.manager.Catalog()
	}); err != nil {
		return err
	}

	_, err = fmt.Fprint(out, catalog)
	return err
}
