package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/forge/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Reload definition files as they change",
	Long: `Watch the configured definition paths and re-register components as
their files change. Removing a file unregisters its components.

With --catalog the live template catalog is rewritten after every change.

Examples:
  forge watch                          # Report reloads
  forge watch --catalog catalog.html   # Keep a catalog file current`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchCatalog string

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchCatalog, "catalog", "", "Rewrite this catalog file after every change")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := newWorkspace(ctx, viper.GetViper(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	printProblems(cmd.ErrOrStderr(), ws.problems)

	var onChange watcher.ChangeHandler
	if watchCatalog != "" {
		onChange = func(ctx context.Context, _ []watcher.ChangeEvent) error {
			return writeCatalog(ws, watchCatalog)
		}
		if err := onChange(ctx, nil); err != nil {
			return err
		}
	}

	fw, err := startWatcher(ctx, ws, onChange)
	if err != nil {
		return err
	}
	defer fw.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d directories, press Ctrl+C to stop\n", len(fw.WatchList()))
	<-ctx.Done()
	return nil
}

// startWatcher watches the configured definition paths and reloads changed
// files into the workspace registry. onChange, when set, runs after every
// reload.
func startWatcher(ctx context.Context, ws *workspace, onChange watcher.ChangeHandler) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(ws.config.Watch.Debounce, ws.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw.AddFilter(watcher.DefinitionFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.NoGitFilter)
	fw.AddFilter(watcher.ExcludeFilter(ws.config.Components.ExcludePatterns...))

	fw.AddHandler(watcher.NewReloader(ws.loader, ws.logger).Handle)
	if onChange != nil {
		fw.AddHandler(onChange)
	}

	for _, path := range existingPaths(ws.config.Components.DefinitionPaths) {
		if err := fw.AddRecursive(path); err != nil {
			fw.Stop()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return nil, err
	}
	return fw, nil
}

func writeCatalog(ws *workspace, path string) error {
	return withOutput(path, io.Discard, func(out io.Writer) error {
		var catalog string
		if err := recoverContract(func() {
			catalog = ws.manager.Catalog()
		}); err != nil {
			return err
		}
		_, err := io.WriteString(out, catalog)
		return err
	})
}
