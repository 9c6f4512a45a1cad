package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"time"

	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/manager"
	"github.com/conneroisu/forge/internal/types"
	"github.com/conneroisu/forge/internal/validation"
	"github.com/conneroisu/forge/internal/version"
)

// maxBodyBytes bounds compile and export request bodies.
const maxBodyBytes = 1 << 20

var componentIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,127}$`)

// ComponentSummary is one entry of the component list.
type ComponentSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Library       string   `json:"library,omitempty"`
	Icon          string   `json:"icon"`
	Aliases       []string `json:"aliases,omitempty"`
	Deprecated    bool     `json:"deprecated,omitempty"`
	CodeComponent bool     `json:"codeComponent,omitempty"`
	HasPortalSlot bool     `json:"hasPortalSlot,omitempty"`
}

// ComponentDetail is the full view of one definition.
type ComponentDetail struct {
	ComponentSummary
	Definition *types.Definition `json:"definition"`
}

// CompileRequest asks for the markup of one definition.
type CompileRequest struct {
	Component string              `json:"component"`
	Mode      string              `json:"mode"`
	Instance  *types.InstanceData `json:"instance,omitempty"`
	Content   string              `json:"content,omitempty"`
}

// CompileResponse carries compiled markup.
type CompileResponse struct {
	Component string `json:"component"`
	Mode      string `json:"mode"`
	Markup    string `json:"markup"`
}

// ExportRequest asks for the export of an element tree.
type ExportRequest struct {
	Mode     string                         `json:"mode"`
	Roots    []string                       `json:"roots"`
	Elements map[string]*types.InstanceData `json:"elements"`
	Assets   map[string]string              `json:"assets,omitempty"`
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error       string              `json:"error"`
	Code        string              `json:"code,omitempty"`
	Suggestions []ferrors.Suggestion `json:"suggestions,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), err, "Failed to encode response", "path", r.URL.Path)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	var structured *ferrors.Error
	if errors.As(err, &structured) {
		resp.Code = structured.Code
	}
	s.writeJSON(w, r, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":     "healthy",
		"timestamp":  time.Now().UTC(),
		"version":    version.Get().Short(),
		"components": s.registry.Count(),
		"clients":    s.hub.Count(),
	})
}

func (s *Server) summary(def *types.Definition) ComponentSummary {
	return ComponentSummary{
		ID:            def.ID,
		Title:         def.Title,
		Library:       def.Library,
		Icon:          s.registry.Icon(def.ID),
		Aliases:       def.Aliases,
		Deprecated:    def.Deprecated,
		CodeComponent: def.CodeComponent,
		HasPortalSlot: s.registry.HasPortalSlot(def.ID),
	}
}

// handleComponents lists definitions. The library and ignoreDeprecated
// query parameters filter the list.
func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ignoreDeprecated := false
	if raw := query.Get("ignoreDeprecated"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid ignoreDeprecated value %q", raw))
			return
		}
		ignoreDeprecated = v
	}

	defs := s.registry.GetComponents(query.Get("library"), ignoreDeprecated)
	summaries := make([]ComponentSummary, len(defs))
	for i, def := range defs {
		summaries[i] = s.summary(def)
	}

	s.writeJSON(w, r, http.StatusOK, summaries)
}

func (s *Server) handleComponent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !componentIDPattern.MatchString(id) {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid component id %q", id))
		return
	}

	entry, ok := s.registry.Lookup(id)
	if !ok {
		s.writeUnknown(w, r, id)
		return
	}

	s.writeJSON(w, r, http.StatusOK, ComponentDetail{
		ComponentSummary: s.summary(entry.Definition),
		Definition:       entry.Definition,
	})
}

func (s *Server) writeUnknown(w http.ResponseWriter, r *http.Request, id string) {
	defs := s.registry.GetComponents("", false)
	known := make([]string, len(defs))
	for i, def := range defs {
		known[i] = def.ID
	}

	s.writeJSON(w, r, http.StatusNotFound, errorResponse{
		Error:       fmt.Sprintf("component %q not found", id),
		Code:        ferrors.CodeUnknownComponent,
		Suggestions: ferrors.UnknownComponentSuggestions(id, known),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(s.manager.Catalog())); err != nil {
		s.logger.Error(r.Context(), err, "Failed to write catalog")
	}
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	mode, err := types.ParseBuildMode(req.Mode)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	entry, ok := s.registry.Lookup(req.Component)
	if !ok {
		s.writeUnknown(w, r, req.Component)
		return
	}

	markup, err := safeCompile(func() (string, error) {
		return entry.Template(mode, req.Instance, req.Content), nil
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "Compile failed", "component", req.Component)
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, CompileResponse{
		Component: entry.Definition.ID,
		Mode:      mode.String(),
		Markup:    markup,
	})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	mode, err := types.ParseBuildMode(req.Mode)
	if err != nil || !mode.IsExport() {
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("export mode must be simple or application"))
		return
	}

	for id, el := range req.Elements {
		if el != nil && el.ID == "" {
			el.ID = id
		}
	}
	ec := manager.ExportContext{Elements: req.Elements, Assets: req.Assets}

	markup, err := safeCompile(func() (string, error) {
		if mode == types.Application {
			return s.manager.ExportApplication(r.Context(), ec, req.Roots)
		}
		return s.manager.Export(ec, req.Roots, mode), nil
	})
	if err != nil {
		s.writeError(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write([]byte(markup)); err != nil {
		s.logger.Error(r.Context(), err, "Failed to write export")
	}
}

// safeCompile turns a compiler contract panic into an error.
func safeCompile(fn func() (string, error)) (markup string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = ferrors.FromPanic(rec)
		}
	}()
	return fn()
}

func (s *Server) isAllowedOrigin(origin string) bool {
	return validation.ValidateOrigin(origin, s.config.Server.AllowedOrigins) == nil
}
