package watcher

import (
	"context"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/loader"
	"github.com/conneroisu/forge/internal/logging"
)

// Reloader applies definition file changes to a loader.
type Reloader struct {
	loader *loader.Loader
	logger logging.Logger
}

// NewReloader creates a reloader over l.
func NewReloader(l *loader.Loader, logger logging.Logger) *Reloader {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Reloader{loader: l, logger: logger.WithComponent("reloader")}
}

// Handle reloads changed files and unregisters the components of removed
// ones. A broken file is reported and skipped; the returned error combines
// every file that failed.
func (r *Reloader) Handle(ctx context.Context, events []ChangeEvent) error {
	var errs []error

	for _, event := range events {
		if event.Type.Gone() {
			removed := r.loader.RemoveFile(ctx, event.Path)
			if len(removed) > 0 {
				r.logger.Info(ctx, "Components unloaded", "file", event.Path, "ids", removed)
			}
			continue
		}

		changed, collector := r.loader.LoadFile(ctx, event.Path)
		for _, p := range collector.Problems() {
			if p.Severity == ferrors.SeverityWarning {
				r.logger.Warn(ctx, nil, p.Message, "file", p.File, "component", p.Component)
			}
		}
		if err := collector.Err(); err != nil {
			r.logger.Error(ctx, err, "Definition file failed to reload", "file", event.Path)
			errs = append(errs, err)
			continue
		}
		if changed {
			r.logger.Info(ctx, "Definition file reloaded",
				"file", event.Path, "event", event.Type.String(), "ids", r.loader.Owned(event.Path))
		}
	}

	return ferrors.Combine(errs...)
}
