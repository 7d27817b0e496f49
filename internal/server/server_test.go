package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/help"
	"github.com/matzehuels/mindmap/pkg/notes"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/store"
)

const user = "42"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

type fixture struct {
	svc *notes.Service
	srv *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := log.New(io.Discard)
	st := store.NewMemory()
	svc := notes.New(st, notes.WithLogger(logger))
	reg := help.NewRegistry("mindmap", []help.Entry{
		{Path: "map", Description: "Manage mind maps", Subcommands: []help.Entry{
			{Path: "map create", Description: "Create a mind map", Args: []help.Arg{{Name: "name", Required: true}}},
		}},
	})
	s := New(svc, pipeline.NewRunner(st, logger),
		WithLogger(logger),
		WithHelp(reg),
		WithRenderOptions(pipeline.Options{NoWatermark: true}),
	)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &fixture{svc: svc, srv: srv}
}

func (f *fixture) get(t *testing.T, path string, header ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, f.srv.URL+path, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp := f.get(t, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Build  struct {
			Version string `json:"version"`
		} `json:"build"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body.Status)
	assert.NotEmpty(t, body.Build.Version)
}

func TestHelp(t *testing.T) {
	f := newFixture(t)

	t.Run("all", func(t *testing.T) {
		resp := f.get(t, "/help")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body helpResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "mindmap", body.Program)
		require.Len(t, body.Commands, 1)
		assert.Equal(t, "map", body.Commands[0].Path)
	})

	t.Run("one", func(t *testing.T) {
		resp := f.get(t, "/help?command=map+create")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body helpResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NotNil(t, body.Command)
		assert.Equal(t, "mindmap map create <name>", body.Usage)
	})

	t.Run("unknown", func(t *testing.T) {
		resp := f.get(t, "/help?command=nope")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
	})
}

func TestRender(t *testing.T) {
	f := newFixture(t)
	record := `{"name":"Posted","nodes":{"ND-1":{"nodetext":"one","nodecolor":"red"},"ND-2":{"nodetext":"two"}}}`

	tests := []struct {
		name        string
		query       string
		body        string
		status      int
		contentType string
		code        string
	}{
		{"png default", "", record, http.StatusOK, "image/png", ""},
		{"dot", "?format=dot", record, http.StatusOK, "text/vnd.graphviz", ""},
		{"yaml body", "?format=dot", "name: Posted\nnodes:\n  ND-1:\n    nodetext: one\n", http.StatusOK, "text/vnd.graphviz", ""},
		{"bad format", "?format=gif", record, http.StatusBadRequest, "application/json", "INVALID_FORMAT"},
		{"empty body", "", "", http.StatusBadRequest, "application/json", "INVALID_INPUT"},
		{"missing nodes", "", `{"name":"x"}`, http.StatusBadRequest, "application/json", "INVALID_INPUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(f.srv.URL+"/render"+tt.query, "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeError(t, resp).Code)
			}
		})
	}
}

func TestRenderPNGBody(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Post(f.srv.URL+"/render", "application/json",
		strings.NewReader(`{"name":"Solo","nodes":{}}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
	assert.Equal(t, "0", resp.Header.Get("X-Mindmap-Nodes"))
	assert.Equal(t, "400", resp.Header.Get("X-Mindmap-Size"))
}

func TestMaps(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec, err := f.svc.CreateMap(ctx, user, "Roadmap")
	require.NoError(t, err)
	_, err = f.svc.AddNode(ctx, user, rec.ID, "ship it", "")
	require.NoError(t, err)

	t.Run("list", func(t *testing.T) {
		resp := f.get(t, "/users/42/maps")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body struct {
			User string          `json:"user"`
			Maps []notes.Summary `json:"maps"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, user, body.User)
		require.Len(t, body.Maps, 1)
		assert.Equal(t, rec.ID, body.Maps[0].ID)
		assert.Equal(t, 1, body.Maps[0].Nodes)
	})

	t.Run("get json", func(t *testing.T) {
		resp := f.get(t, "/users/42/maps/"+rec.ID)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Roadmap", body["name"])
	})

	t.Run("get yaml", func(t *testing.T) {
		resp := f.get(t, "/users/42/maps/"+rec.ID+"?format=yaml")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
		data, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(data), "ship it")
	})

	t.Run("not found", func(t *testing.T) {
		resp := f.get(t, "/users/42/maps/MM-0000000000")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "MAP_NOT_FOUND", decodeError(t, resp).Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := f.get(t, "/users/42/maps/bogus")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Code)
	})
}

func TestMapImageETag(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	rec, err := f.svc.CreateMap(ctx, user, "Cached")
	require.NoError(t, err)
	path := "/users/42/maps/" + rec.ID + "/image"

	first := f.get(t, path)
	require.Equal(t, http.StatusOK, first.StatusCode)
	assert.Equal(t, "image/png", first.Header.Get("Content-Type"))
	etag := first.Header.Get("ETag")
	require.NotEmpty(t, etag)

	again := f.get(t, path, "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, again.StatusCode)

	dot := f.get(t, path+"?format=dot", "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, dot.StatusCode)
	assert.NotEqual(t, etag, dot.Header.Get("ETag"))

	_, err = f.svc.AddNode(ctx, user, rec.ID, "changed", "blue")
	require.NoError(t, err)
	changed := f.get(t, path, "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, changed.StatusCode)
	assert.NotEqual(t, etag, changed.Header.Get("ETag"))
}

func TestUnknownRoute(t *testing.T) {
	f := newFixture(t)
	resp := f.get(t, "/nowhere")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Code)
}

type recordingHooks struct {
	observability.NoopHTTPHooks
	routes   []string
	statuses []int
}

func (h *recordingHooks) OnResponse(_ context.Context, _, route string, status int, _ time.Duration) {
	h.routes = append(h.routes, route)
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooksSeeRoutePattern(t *testing.T) {
	h := &recordingHooks{}
	observability.SetHTTPHooks(h)
	t.Cleanup(observability.Reset)

	f := newFixture(t)
	f.get(t, "/users/42/maps/MM-0000000000")

	require.Len(t, h.routes, 1)
	assert.Equal(t, "/users/{user}/maps/{mapID}", h.routes[0])
	assert.Equal(t, http.StatusNotFound, h.statuses[0])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", errors.InvalidInput("bad"), http.StatusBadRequest},
		{"invalid format", errors.New(errors.ErrCodeInvalidFormat, "gif"), http.StatusBadRequest},
		{"invalid id", errors.New(errors.ErrCodeInvalidID, "x"), http.StatusBadRequest},
		{"map not found", errors.New(errors.ErrCodeMapNotFound, "MM-1"), http.StatusNotFound},
		{"node not found", errors.New(errors.ErrCodeNodeNotFound, "ND-1"), http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("get: %w", errors.New(errors.ErrCodeNotFound, "x")), http.StatusNotFound},
		{"timeout", errors.New(errors.ErrCodeTimeout, "slow"), http.StatusGatewayTimeout},
		{"render", errors.Render(nil, "boom"), http.StatusInternalServerError},
		{"plain", io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	logger := log.New(io.Discard)
	st := store.NewMemory()
	s := New(notes.New(st), pipeline.NewRunner(st, logger), WithLogger(logger))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
