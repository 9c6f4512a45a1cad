package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/forge/internal/types"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"l"},
	Short:   "List registered components",
	Long: `List every registered component: the built-in library plus the
definitions loaded from the configured definition paths.

Examples:
  forge list                      # Table of non-deprecated components
  forge list -a                   # Include deprecated components
  forge list --library forms      # One library only
  forge list -p -F yaml           # Include properties, output as YAML`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listFlags     *StandardFlags
	listWithProps bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listFlags = AddStandardFlags(listCmd, "output")
	listCmd.Flags().StringVar(&listFlags.Library, "library", "", "Only include components of this library")
	listCmd.Flags().BoolVarP(&listFlags.All, "all", "a", false, "Include deprecated components")
	listCmd.Flags().BoolVarP(&listWithProps, "with-props", "p", false, "Include component properties")
}

// listEntry is one row of the component list.
type listEntry struct {
	ID            string   `json:"id" yaml:"id"`
	Title         string   `json:"title" yaml:"title"`
	Library       string   `json:"library,omitempty" yaml:"library,omitempty"`
	Icon          string   `json:"icon" yaml:"icon"`
	Aliases       []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Source        string   `json:"source" yaml:"source"`
	Deprecated    bool     `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
	HasPortalSlot bool     `json:"hasPortalSlot,omitempty" yaml:"hasPortalSlot,omitempty"`
	Properties    []string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

func runList(cmd *cobra.Command, args []string) error {
	if err := listFlags.ValidateFlags(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	return withOutput(listFlags.OutputFile, cmd.OutOrStdout(), func(out io.Writer) error {
		return listComponents(cmd.Context(), viper.GetViper(), listFlags, listWithProps, out, cmd.ErrOrStderr())
	})
}

func listComponents(ctx context.Context, v *viper.Viper, flags *StandardFlags, withProps bool, out, errOut io.Writer) error {
	ws, err := newWorkspace(ctx, v, errOut)
	if err != nil {
		return err
	}
	if !flags.Quiet {
		printProblems(errOut, ws.problems)
	}

	defs := ws.registry.GetComponents(flags.Library, !flags.All)
	entries := make([]listEntry, len(defs))
	for i, def := range defs {
		entries[i] = ws.entry(def, withProps)
	}

	switch strings.ToLower(flags.OutputFormat) {
	case "json":
		return writeJSON(out, entries)
	case "yaml":
		return writeYAML(out, entries)
	default:
		return outputTable(out, entries, withProps, flags.Quiet)
	}
}

func (ws *workspace) entry(def *types.Definition, withProps bool) listEntry {
	e := listEntry{
		ID:            def.ID,
		Title:         def.Title,
		Library:       def.Library,
		Icon:          ws.registry.Icon(def.ID),
		Aliases:       def.Aliases,
		Source:        "built-in",
		Deprecated:    def.Deprecated,
		HasPortalSlot: ws.registry.HasPortalSlot(def.ID),
	}
	if def.CodeComponent {
		e.Source = "code"
	}
	if withProps {
		for _, p := range def.FlatProperties() {
			if p.Name != "" {
				e.Properties = append(e.Properties, p.Name)
			}
		}
	}
	return e
}

func outputTable(out io.Writer, entries []listEntry, withProps, quiet bool) error {
	if len(entries) == 0 {
		if !quiet {
			fmt.Fprintln(out, "No components found.")
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	header := "ID\tTITLE\tLIBRARY\tSOURCE\tALIASES"
	if withProps {
		header += "\tPROPERTIES"
	}
	fmt.Fprintln(w, header)

	for _, e := range entries {
		title := e.Title
		if e.Deprecated {
			title += " (deprecated)"
		}
		row := fmt.Sprintf("%s\t%s\t%s\t%s\t%s",
			e.ID, title, orDash(e.Library), e.Source, orDash(strings.Join(e.Aliases, ", ")))
		if withProps {
			row += "\t" + orDash(strings.Join(e.Properties, ", "))
		}
		fmt.Fprintln(w, row)
	}

	if !quiet {
		fmt.Fprintf(w, "\nTotal: %d components\n", len(entries))
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
