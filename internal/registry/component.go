// Package registry stores validated, frozen component definitions.
//
// A Registry owns the definition map, the alias map, the per-library query
// cache and the portal-slot index. Registered definitions are deep copies
// of the caller's value and are never mutated afterwards; re-registration
// replaces an entry wholesale. Callers must treat returned definitions as
// read-only.
package registry

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/conneroisu/forge/internal/compiler"
	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/logging"
	"github.com/conneroisu/forge/internal/types"
	"github.com/conneroisu/forge/internal/validation"
)

// DefaultIcon is returned for definitions that declare no icon.
const DefaultIcon = "widgets"

// Entry is a frozen definition plus its template function.
type Entry struct {
	Definition *types.Definition
	Template   types.TemplateFunc
}

// Registry manages all registered component definitions
type Registry struct {
	components  map[string]*Entry
	aliases     map[string]*Entry
	cache       map[string][]*types.Definition
	portalSlots map[string]struct{}
	mutex       sync.RWMutex
	watchers    []chan types.ComponentEvent
	logger      logging.Logger
}

// NewRegistry creates a new component registry
func NewRegistry(logger logging.Logger) *Registry {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Registry{
		components:  make(map[string]*Entry),
		aliases:     make(map[string]*Entry),
		cache:       make(map[string][]*types.Definition),
		portalSlots: make(map[string]struct{}),
		watchers:    make([]chan types.ComponentEvent, 0),
		logger:      logger.WithComponent("registry"),
	}
}

// Register validates and stores a definition. Default property groups are
// injected first. On validation failure the errors are returned and the
// registry is left untouched.
//
// Register panics with a contract error when a built-in definition with the
// same id is already registered, or when the definition validates but
// cannot be compiled.
func (r *Registry) Register(def *types.Definition) []validation.ValidationError {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if existing, ok := r.components[def.ID]; ok && !existing.Definition.CodeComponent {
		panic(ferrors.NewContractError(ferrors.CodeDuplicateBuiltin,
			fmt.Sprintf("built-in component %q is already registered", def.ID)).
			WithComponent(def.ID))
	}

	return r.register(def)
}

// register stores a definition. The caller holds the write lock.
func (r *Registry) register(def *types.Definition) []validation.ValidationError {
	frozen := def.Clone()
	InjectDefaultProperties(frozen)

	if errs := validation.Validate(frozen); len(errs) > 0 {
		r.logger.Warn(context.Background(), validation.Errors(errs), "Component failed validation",
			"id", frozen.ID, "errors", len(errs))
		return errs
	}

	// Compile once in live mode so contract violations surface at
	// registration rather than at render time.
	compiler.Compile(frozen, types.Internal, nil, "")

	eventType := types.EventTypeAdded
	if existing, ok := r.components[frozen.ID]; ok {
		eventType = types.EventTypeUpdated
		r.removeLocked(existing)
	}

	entry := &Entry{
		Definition: frozen,
		Template:   compiler.TemplateFor(frozen),
	}

	r.components[frozen.ID] = entry
	for _, alias := range frozen.Aliases {
		r.aliases[alias] = entry
	}

	if types.ExposesPortalSlot(frozen.Properties) {
		r.portalSlots[frozen.ID] = struct{}{}
	}

	r.invalidateLocked()
	r.notifyLocked(eventType, frozen.ID, frozen)

	r.logger.Debug(context.Background(), "Component registered",
		"id", frozen.ID, "library", frozen.Library, "event", string(eventType))

	return nil
}

// removeLocked drops an entry and its aliases. The caller holds the write lock.
func (r *Registry) removeLocked(entry *Entry) {
	id := entry.Definition.ID
	delete(r.components, id)
	for _, alias := range entry.Definition.Aliases {
		if r.aliases[alias] == entry {
			delete(r.aliases, alias)
		}
	}
	delete(r.portalSlots, id)
}

func (r *Registry) invalidateLocked() {
	r.cache = make(map[string][]*types.Definition)
}

// GetComponent returns the definition registered under id, or under an
// alias of it. It returns nil and logs when nothing matches.
func (r *Registry) GetComponent(id string) *types.Definition {
	entry := r.Entry(id)
	if entry == nil {
		return nil
	}
	return entry.Definition
}

// Entry returns the registry entry for id or one of its aliases, logging
// when nothing matches.
func (r *Registry) Entry(id string) *Entry {
	entry, ok := r.Lookup(id)
	if !ok {
		r.logger.Warn(context.Background(),
			ferrors.NewReferenceError(ferrors.CodeUnknownComponent, "component not found").WithComponent(id),
			"Component lookup failed", "id", id)
		return nil
	}
	return entry
}

// Lookup returns the registry entry for id or one of its aliases without
// logging.
func (r *Registry) Lookup(id string) (*Entry, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if entry, ok := r.components[id]; ok {
		return entry, true
	}
	entry, ok := r.aliases[id]
	return entry, ok
}

// Template returns the template function registered under id.
func (r *Registry) Template(id string) (types.TemplateFunc, bool) {
	entry := r.Entry(id)
	if entry == nil {
		return nil, false
	}
	return entry.Template, true
}

// Has reports whether id or an alias of it is registered, without logging.
func (r *Registry) Has(id string) bool {
	_, ok := r.Lookup(id)
	return ok
}

// ResolveAlias returns the canonical id for an id or alias.
func (r *Registry) ResolveAlias(id string) (string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if _, ok := r.components[id]; ok {
		return id, true
	}
	if entry, ok := r.aliases[id]; ok {
		return entry.Definition.ID, true
	}
	return "", false
}

// GetComponents returns the definitions of a library, sorted by id. An
// empty library matches every definition. Results are cached per
// library and deprecation filter until the next successful registration.
func (r *Registry) GetComponents(library string, ignoreDeprecated bool) []*types.Definition {
	key := fmt.Sprintf("%s:%t", library, ignoreDeprecated)

	r.mutex.RLock()
	cached, ok := r.cache[key]
	r.mutex.RUnlock()
	if ok {
		return append([]*types.Definition(nil), cached...)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if cached, ok := r.cache[key]; ok {
		return append([]*types.Definition(nil), cached...)
	}

	ids := make([]string, 0, len(r.components))
	for id := range r.components {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make([]*types.Definition, 0, len(ids))
	for _, id := range ids {
		def := r.components[id].Definition
		if library != "" && def.Library != library {
			continue
		}
		if ignoreDeprecated && def.Deprecated {
			continue
		}
		result = append(result, def)
	}

	r.cache[key] = result
	return append([]*types.Definition(nil), result...)
}

// HasPortalSlot reports whether the element type exposes a child-portal slot.
func (r *Registry) HasPortalSlot(id string) bool {
	canonical, ok := r.ResolveAlias(id)
	if !ok {
		return false
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()
	_, ok = r.portalSlots[canonical]
	return ok
}

// Icon returns the icon of a definition, DefaultIcon when it declares none,
// and an empty string for unknown ids.
func (r *Registry) Icon(id string) string {
	entry, ok := r.Lookup(id)
	if !ok {
		return ""
	}
	if entry.Definition.Icon != "" {
		return entry.Definition.Icon
	}
	return DefaultIcon
}

// Clear removes every definition, alias and cached query.
func (r *Registry) Clear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.components = make(map[string]*Entry)
	r.aliases = make(map[string]*Entry)
	r.portalSlots = make(map[string]struct{})
	r.invalidateLocked()
}

// Count returns the number of registered components
func (r *Registry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.components)
}

// Watch returns a channel that receives component events
func (r *Registry) Watch() <-chan types.ComponentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.ComponentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it
func (r *Registry) UnWatch(ch <-chan types.ComponentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// notifyLocked publishes an event without blocking. The caller holds the lock.
func (r *Registry) notifyLocked(eventType types.EventType, id string, def *types.Definition) {
	event := types.ComponentEvent{
		Type:        eventType,
		ComponentID: id,
		Definition:  def,
		Timestamp:   time.Now(),
	}

	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip if channel is full
		}
	}
}
