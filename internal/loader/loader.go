// Package loader reads user-authored definition files and element documents
// and keeps a registry in sync with definition files on disk.
//
// Definition files hold YAML or JSON. Every definition read from disk is
// registered as a code component, so it can be replaced on reload and can
// never shadow a built-in.
package loader

import (
	"context"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"
	"sort"
	"sync"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/logging"
	"github.com/conneroisu/forge/internal/registry"
	"github.com/conneroisu/forge/internal/types"
	"github.com/conneroisu/forge/internal/validation"
)

// crcTable is used for fast change detection of definition files.
var crcTable = crc32.MakeTable(crc32.Castagnoli)

// Loader registers definitions read from files and tracks which ids came
// from which file.
//
// When several files declare the same id, the file sorting last owns it.
// Removing the owner's declaration falls back to the next declaring file.
type Loader struct {
	registry *registry.Registry
	logger   logging.Logger
	exclude  []string
	workers  int

	mu       sync.Mutex
	hashes   map[string]uint32
	declared map[string][]*types.Definition
	owner    map[string]string
}

// Option configures a Loader.
type Option func(*Loader)

// WithExcludePatterns skips files whose base name matches any glob pattern.
func WithExcludePatterns(patterns ...string) Option {
	return func(l *Loader) {
		l.exclude = append(l.exclude, patterns...)
	}
}

// WithWorkers sets how many files are parsed concurrently.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// New creates a loader registering into reg.
func New(reg *registry.Registry, logger logging.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = logging.Discard()
	}
	l := &Loader{
		registry: reg,
		logger:   logger.WithComponent("loader"),
		workers:  4,
		hashes:   make(map[string]uint32),
		declared: make(map[string][]*types.Definition),
		owner:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ReadDefinitions reads and parses one definition file.
func ReadDefinitions(path string) ([]*types.Definition, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return parseFile(path, data)
}

func readFile(path string) ([]byte, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, ferrors.NewIOError(ferrors.CodeLoadFailed, "invalid definition path", err).WithFile(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.NewIOError(ferrors.CodeLoadFailed, "reading definition file", err).WithFile(path)
	}
	return data, nil
}

func parseFile(path string, data []byte) ([]*types.Definition, error) {
	defs, err := ParseDefinitions(data)
	if err != nil {
		return nil, ferrors.Wrap(err, ferrors.ErrorTypeSchema, ferrors.CodeInvalidDefinition, "parsing definitions").WithFile(path)
	}
	return defs, nil
}

// Excluded reports whether path matches an exclude pattern.
func (l *Loader) Excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range l.exclude {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// Collect returns the definition files under paths, sorted. Paths may name
// files or directories.
func (l *Loader) Collect(paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		if err := validation.ValidatePath(root); err != nil {
			return nil, fmt.Errorf("invalid definition path: %w", err)
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, ferrors.NewIOError(ferrors.CodeLoadFailed, "reading definition path", err).WithFile(root)
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(root))
			continue
		}

		err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !validation.IsDefinitionFile(path) || l.Excluded(path) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, ferrors.NewIOError(ferrors.CodeLoadFailed, "walking definition directory", err).WithFile(root)
		}
	}

	sort.Strings(files)
	return files, nil
}

type parseResult struct {
	path string
	hash uint32
	defs []*types.Definition
	err  error
}

// LoadPaths loads every definition file under paths. Problems are collected
// per file; one bad file does not stop the others from loading.
func (l *Loader) LoadPaths(ctx context.Context, paths []string) *ferrors.Collector {
	collector := ferrors.NewCollector()

	files, err := l.Collect(paths)
	if err != nil {
		collector.AddError(err)
		return collector
	}

	for _, result := range l.parseAll(files) {
		if result.err != nil {
			collector.AddError(result.err)
			continue
		}
		l.apply(ctx, result, collector)
	}

	l.logger.Info(ctx, "Definition files loaded", "files", len(files), "components", l.registry.Count())
	return collector
}

// parseAll parses files on a bounded worker pool and returns the results in
// file order.
func (l *Loader) parseAll(files []string) []parseResult {
	results := make([]parseResult, len(files))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < l.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = parseOne(files[i])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

func parseOne(path string) parseResult {
	data, err := readFile(path)
	if err != nil {
		return parseResult{path: path, err: err}
	}
	defs, err := parseFile(path, data)
	return parseResult{path: path, hash: crc32.Checksum(data, crcTable), defs: defs, err: err}
}

// LoadFile loads or reloads one definition file. It reports whether the
// file changed since it was last loaded.
func (l *Loader) LoadFile(ctx context.Context, path string) (bool, *ferrors.Collector) {
	collector := ferrors.NewCollector()
	path = filepath.Clean(path)

	result := parseOne(path)
	if result.err != nil {
		collector.AddError(result.err)
		return false, collector
	}

	l.mu.Lock()
	previous, seen := l.hashes[path]
	l.mu.Unlock()
	if seen && previous == result.hash {
		return false, collector
	}

	l.apply(ctx, result, collector)
	return true, collector
}

// apply registers the definitions of one parsed file and releases ids the
// file no longer declares.
func (l *Loader) apply(ctx context.Context, result parseResult, collector *ferrors.Collector) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var declared []*types.Definition
	for i, def := range result.defs {
		if def == nil || def.ID == "" {
			collector.Add(ferrors.Problem{
				File:     result.path,
				Field:    fmt.Sprintf("definitions[%d].id", i),
				Message:  "definition requires an id",
				Severity: ferrors.SeverityError,
			})
			continue
		}

		if other, ok := l.owner[def.ID]; ok && other != result.path {
			collector.Add(ferrors.Problem{
				File:      result.path,
				Component: def.ID,
				Message:   fmt.Sprintf("id is also declared in %s", other),
				Severity:  ferrors.SeverityWarning,
			})
			if other > result.path {
				declared = append(declared, def)
				continue
			}
		}

		errs, err := l.registry.RegisterCodeComponent(def)
		if err != nil {
			collector.AddError(ferrors.Wrap(err, ferrors.ErrorTypeSchema, ferrors.CodeInvalidDefinition,
				"registering definition").WithFile(result.path).WithComponent(def.ID))
			continue
		}
		for _, e := range errs {
			collector.Add(ferrors.Problem{
				File:      result.path,
				Component: def.ID,
				Field:     e.Name,
				Message:   e.Message,
				Severity:  ferrors.SeverityError,
			})
		}
		if len(errs) > 0 {
			continue
		}

		if def.Deprecated {
			collector.Add(ferrors.Problem{
				File:      result.path,
				Component: def.ID,
				Message:   "component is deprecated",
				Severity:  ferrors.SeverityWarning,
			})
		}
		l.owner[def.ID] = result.path
		declared = append(declared, def)
	}

	l.declared[result.path] = declared
	l.hashes[result.path] = result.hash

	for _, id := range l.ownedLocked(result.path) {
		if declares(declared, id) {
			continue
		}
		if l.release(ctx, id) {
			l.logger.Info(ctx, "Component removed from definition file", "id", id, "file", result.path)
		}
	}
}

// release drops the registration of id owned by a file that no longer
// declares it. The last other declaring file in path order takes over; with
// none left the id is unregistered and release reports true. The caller
// holds l.mu.
func (l *Loader) release(ctx context.Context, id string) bool {
	delete(l.owner, id)

	paths := make([]string, 0, len(l.declared))
	for path := range l.declared {
		paths = append(paths, path)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))

	for _, path := range paths {
		for _, def := range l.declared[path] {
			if def.ID != id {
				continue
			}
			errs, err := l.registry.RegisterCodeComponent(def)
			if err == nil && len(errs) > 0 {
				err = validation.Errors(errs)
			}
			if err != nil {
				l.logger.Warn(ctx, err, "Fallback definition rejected", "id", id, "file", path)
				continue
			}
			l.owner[id] = path
			l.logger.Info(ctx, "Component restored from definition file", "id", id, "file", path)
			return false
		}
	}

	return l.registry.UnregisterCodeComponent(id)
}

// RemoveFile unregisters every component loaded from path. Ids another file
// still declares are handed to that file instead and are not reported.
func (l *Loader) RemoveFile(ctx context.Context, path string) []string {
	path = filepath.Clean(path)

	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.declared, path)
	delete(l.hashes, path)

	var removed []string
	for _, id := range l.ownedLocked(path) {
		if l.release(ctx, id) {
			removed = append(removed, id)
		}
	}

	if len(removed) > 0 {
		l.logger.Info(ctx, "Definition file removed", "file", path, "components", len(removed))
	}
	return removed
}

// Owned returns the ids whose registered definition comes from path, in
// declaration order.
func (l *Loader) Owned(path string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ownedLocked(filepath.Clean(path))
}

func (l *Loader) ownedLocked(path string) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, def := range l.declared[path] {
		if l.owner[def.ID] == path && !seen[def.ID] {
			seen[def.ID] = true
			ids = append(ids, def.ID)
		}
	}
	// Ids still owned by path that it no longer lists, as during removal.
	var stale []string
	for id, owner := range l.owner {
		if owner == path && !seen[id] {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	return append(ids, stale...)
}

func declares(defs []*types.Definition, id string) bool {
	for _, def := range defs {
		if def.ID == id {
			return true
		}
	}
	return false
}
