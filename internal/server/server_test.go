package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/forge/internal/config"
	ferrors "github.com/conneroisu/forge/internal/errors"
	"github.com/conneroisu/forge/internal/library"
	"github.com/conneroisu/forge/internal/manager"
	"github.com/conneroisu/forge/internal/registry"
	"github.com/conneroisu/forge/internal/types"
)

func newTestServer(t *testing.T, origins ...string) (*Server, *registry.Registry) {
	t.Helper()

	reg := registry.NewRegistry(nil)
	require.NoError(t, library.Register(reg))

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "localhost", Port: 0, AllowedOrigins: origins},
	}
	return New(cfg, reg, manager.New(reg, manager.WithFontURL("")), nil), reg
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, reg := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(reg.Count()), body["components"])
}

func TestListComponents(t *testing.T) {
	s, reg := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/components", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var all []ComponentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all, reg.Count())

	rec = do(t, h, http.MethodGet, "/api/components?library=core&ignoreDeprecated=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var current []ComponentSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &current))
	assert.Len(t, current, len(all)-1)
	for _, c := range current {
		assert.False(t, c.Deprecated)
	}

	rec = do(t, h, http.MethodGet, "/api/components?ignoreDeprecated=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetComponent(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := do(t, h, http.MethodGet, "/api/components/btn", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var detail ComponentDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, "button", detail.ID, "aliases resolve to the canonical definition")
	assert.Equal(t, "smart_button", detail.Icon)
	require.NotNil(t, detail.Definition)
	assert.Equal(t, "Button", detail.Definition.Title)

	rec = do(t, h, http.MethodGet, "/api/components/portal", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.True(t, detail.HasPortalSlot)
}

func TestGetComponentUnknown(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/api/components/butto", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ferrors.CodeUnknownComponent, body.Code)

	var titles []string
	for _, suggestion := range body.Suggestions {
		titles = append(titles, suggestion.Title)
	}
	assert.Contains(t, titles, `Did you mean "button"?`)
}

func TestGetComponentInvalidID(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/api/components/%3Cscript%3E", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompile(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	body := `{"component":"paragraph","mode":"simple","instance":{"id":"t1","type":"text","inputs":{"text":"Hi"}}}`
	rec := do(t, h, http.MethodPost, "/api/compile", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp CompileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "text", resp.Component)
	assert.Equal(t, "simple", resp.Mode)
	assert.Equal(t, `<p class="el-t1">Hi</p>`, resp.Markup)

	rec = do(t, h, http.MethodPost, "/api/compile", `{"component":"text","mode":"internal"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Markup, "{{ props?.inputs?.text }}")
}

func TestCompileErrors(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	testCases := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed body", `{"component":`, http.StatusBadRequest},
		{"unknown mode", `{"component":"text","mode":"pdf"}`, http.StatusBadRequest},
		{"unknown component", `{"component":"nope","mode":"simple"}`, http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/compile", tc.body)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	payload := ExportRequest{
		Mode:  "simple",
		Roots: []string{"b1"},
		Elements: map[string]*types.InstanceData{
			"b1": {Type: "board", ChildIDs: []string{"t1"}},
			"t1": {Type: "text", Inputs: map[string]interface{}{"text": "Hi"}},
		},
	}
	data, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/export", string(data))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, `<div class="el-b1 board"><p class="el-t1">Hi</p></div>`, rec.Body.String())

	payload.Mode = "application"
	payload.Elements["t1"].Styles = map[string]string{"color": "blue"}
	data, err = json.Marshal(payload)
	require.NoError(t, err)

	rec = do(t, h, http.MethodPost, "/api/export", string(data))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), ".el-t1 { color: blue; }")

	rec = do(t, h, http.MethodPost, "/api/export", `{"mode":"internal"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog(t *testing.T) {
	s, _ := newTestServer(t)
	rec := do(t, s.Handler(), http.MethodGet, "/api/catalog", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `#renderChildren`)
	assert.Contains(t, rec.Body.String(), `#`+manager.TemplateRef("button"))
}

func TestCORS(t *testing.T) {
	s, _ := newTestServer(t, "app.example.com")
	h := s.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/components", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/components", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWebSocketRejectsUnknownOrigin(t *testing.T) {
	s, _ := newTestServer(t, "app.example.com")

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebSocketStreamsRegistryEvents(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, reg := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	host := strings.TrimPrefix(ts.URL, "http://")
	s.config.Server.AllowedOrigins = []string{host}

	go s.hub.Run(ctx)
	go s.forwardEvents(ctx, reg.Watch())

	conn, _, err := websocket.Dial(ctx, "ws://"+host+"/ws", &websocket.DialOptions{
		HTTPHeader: http.Header{"Origin": {"http://" + host}},
	})
	require.NoError(t, err)
	defer conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool { return s.hub.Count() == 1 }, 2*time.Second, 10*time.Millisecond)

	_, err = reg.RegisterCodeComponent(&types.Definition{ID: "widget", Title: "Widget", TagName: "section"})
	require.NoError(t, err)

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var msg UpdateMessage
	require.NoError(t, json.NewDecoder(bytes.NewReader(data)).Decode(&msg))
	assert.Equal(t, "component_added", msg.Type)
	assert.Equal(t, "widget", msg.Target)
}
