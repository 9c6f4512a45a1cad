package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/conneroisu/forge/internal/config"
	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/library"
	"github.com/conneroisu/forge/internal/loader"
	"github.com/conneroisu/forge/internal/logging"
	"github.com/conneroisu/forge/internal/manager"
	"github.com/conneroisu/forge/internal/registry"
)

// workspace is the state shared by every command: the configuration, a
// registry seeded with the built-in library and the project's definition
// files, and a manager over it.
type workspace struct {
	config   *config.Config
	logger   logging.Logger
	registry *registry.Registry
	loader   *loader.Loader
	manager  *manager.Manager
	problems *ferrors.Collector
}

// newWorkspace loads the configuration from v and every definition file
// under the configured paths. Definition problems are collected, not
// returned; callers decide whether they are fatal.
func newWorkspace(ctx context.Context, v *viper.Viper, stderr io.Writer) (*workspace, error) {
	cfg, err := config.LoadFrom(v)
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg, stderr)
	if err != nil {
		return nil, err
	}

	reg := registry.NewRegistry(logger)
	if err := library.Register(reg); err != nil {
		return nil, err
	}

	ws := &workspace{
		config:   cfg,
		logger:   logger,
		registry: reg,
		loader: loader.New(reg, logger,
			loader.WithExcludePatterns(cfg.Components.ExcludePatterns...)),
		manager: manager.New(reg,
			manager.WithLogger(logger),
			manager.WithFontURL(cfg.Build.FontURL)),
	}

	paths := existingPaths(cfg.Components.DefinitionPaths)
	if len(paths) == 0 {
		logger.Debug(ctx, "No definition paths found", "paths", cfg.Components.DefinitionPaths)
		ws.problems = ferrors.NewCollector()
		return ws, nil
	}
	ws.problems = ws.loader.LoadPaths(ctx, paths)

	return ws, nil
}

func newLogger(cfg *config.Config, out io.Writer) (logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: cfg.Logging.Format,
		Output: out,
	}), nil
}

// existingPaths drops configured paths that do not exist, so a project
// without a components directory still gets the built-in library.
func existingPaths(paths []string) []string {
	var found []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			found = append(found, p)
		}
	}
	return found
}

// printProblems writes every collected problem and reports whether any
// was an error.
func printProblems(w io.Writer, collector *ferrors.Collector) bool {
	if collector == nil {
		return false
	}
	for _, p := range collector.Problems() {
		if p.Severity < ferrors.SeverityError {
			fmt.Fprintln(w, p.Error())
		}
	}
	errs := collector.Errors()
	for _, err := range errs {
		fmt.Fprintln(w, err.Error())
	}
	return len(errs) > 0
}

// knownIDs returns every registered id and alias, for suggestions.
func (ws *workspace) knownIDs() []string {
	var ids []string
	for _, def := range ws.registry.GetComponents("", false) {
		ids = append(ids, def.ID)
		ids = append(ids, def.Aliases...)
	}
	return ids
}

// unknownComponent builds the error returned for an unregistered id.
func (ws *workspace) unknownComponent(id string) error {
	cause := ferrors.NewReferenceError(ferrors.CodeUnknownComponent, "component not found").WithComponent(id)
	return ferrors.NewEnhancedError(
		fmt.Sprintf("Component %q is not registered", id),
		cause,
		ferrors.UnknownComponentSuggestions(id, ws.knownIDs()),
	)
}
