package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/conneroisu/forge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Serve the compile API",
	Long: `Start an HTTP server exposing the component registry, the compiler
and the exporter. Registry changes are streamed to WebSocket clients on
/ws; definition files are reloaded as they change unless --no-watch is set.

Endpoints:
  GET  /health                  Server status
  GET  /api/components          Component list (?library=, ?ignoreDeprecated=)
  GET  /api/components/{id}     One definition
  GET  /api/catalog             Live template catalog
  POST /api/compile             Compile one component
  POST /api/export              Export an element tree
  GET  /ws                      Registry event stream

Examples:
  forge serve                     # localhost:8080
  forge serve -p 3000             # Custom port
  forge serve --host 0.0.0.0      # All interfaces`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveFlags   *StandardFlags
	serveNoWatch bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveFlags = AddStandardFlags(serveCmd, "server")
	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload definition files on change")
}

func runServe(cmd *cobra.Command, args []string) error {
	v := viper.GetViper()
	if err := SetViperBindings(v, cmd, map[string]string{
		"port": "server.port",
		"host": "server.host",
	}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws, err := newWorkspace(ctx, v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	printProblems(cmd.ErrOrStderr(), ws.problems)

	if !serveNoWatch {
		fw, err := startWatcher(ctx, ws, nil)
		if err != nil {
			return err
		}
		defer fw.Stop()
	}

	srv := server.New(ws.config, ws.registry, ws.manager, ws.logger)
	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d components on http://%s\n", ws.registry.Count(), ws.config.Address())
	return srv.Start(ctx)
}
