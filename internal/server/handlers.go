package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mindmap/pkg/buildinfo"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/help"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/recordio"
	"github.com/matzehuels/mindmap/pkg/store"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type helpResponse struct {
	Program  string       `json:"program"`
	Commands []help.Entry `json:"commands,omitempty"`
	Command  *help.Entry  `json:"command,omitempty"`
	Usage    string       `json:"usage,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("command"))
	if name == "" {
		writeJSON(w, http.StatusOK, helpResponse{
			Program:  s.help.Program(),
			Commands: s.help.Commands(),
		})
		return
	}
	e, ok := s.help.Lookup(name)
	if !ok {
		writeError(w, http.StatusNotFound, string(errors.ErrCodeNotFound), fmt.Sprintf("unknown command %q", name))
		return
	}
	writeJSON(w, http.StatusOK, helpResponse{
		Program: s.help.Program(),
		Command: &e,
		Usage:   e.Usage(s.help.Program()),
	})
}

// handleRender renders a posted record without storing it. The body may
// be JSON or YAML.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := recordio.ReadRecord(http.MaxBytesReader(w, r.Body, MaxBodySize), recordio.FormatAuto)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	res, err := s.runner.RenderRecord(r.Context(), rec, s.renderOptions(format))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeStats(w, res.Stats)
	writeArtifact(w, format, res.Artifacts[format])
}

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	maps, err := s.notes.ListMaps(r.Context(), user)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": user,
		"maps": maps,
	})
}

// handleGetMap returns the stored record as JSON, or as YAML with
// ?format=yaml.
func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	rec, err := s.notes.GetMap(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "mapID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	switch f := recordio.Format(strings.ToLower(r.URL.Query().Get("format"))); f {
	case recordio.FormatAuto, recordio.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = recordio.WriteRecord(rec, w, recordio.FormatJSON)
	case recordio.FormatYAML:
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_ = recordio.WriteRecord(rec, w, recordio.FormatYAML)
	default:
		s.fail(w, r, errors.New(errors.ErrCodeInvalidFormat, "unsupported record format %q (use json or yaml)", f))
	}
}

// handleMapImage renders a stored map. The ETag is the record fingerprint
// plus the format, so an unchanged map answers If-None-Match with 304
// before any rendering happens.
func (s *Server) handleMapImage(w http.ResponseWriter, r *http.Request) {
	format, err := formatParam(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rec, err := s.notes.GetMap(r.Context(), chi.URLParam(r, "user"), chi.URLParam(r, "mapID"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	etag := fmt.Sprintf(`"%s-%s"`, store.Fingerprint(rec), format)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	res, err := s.runner.RenderRecord(r.Context(), rec, s.renderOptions(format))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeStats(w, res.Stats)
	writeArtifact(w, format, res.Artifacts[format])
}

func (s *Server) renderOptions(format string) pipeline.Options {
	opts := s.options
	opts.Formats = []string{format}
	return opts
}

// fail logs server-side failures and writes the error response.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	writeError(w, status, code, errors.UserMessage(err))
}

// formatParam reads ?format=, defaulting to png.
func formatParam(r *http.Request) (string, error) {
	f := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if f == "" {
		return pipeline.FormatPNG, nil
	}
	if err := pipeline.ValidateFormat(f); err != nil {
		return "", err
	}
	return f, nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	if errors.IsNotFound(err) {
		return http.StatusNotFound
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidID:
		return http.StatusBadRequest
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func writeStats(w http.ResponseWriter, st pipeline.Stats) {
	h := w.Header()
	h.Set("X-Mindmap-Nodes", fmt.Sprint(st.NodeCount))
	h.Set("X-Mindmap-Rings", fmt.Sprint(st.Rings))
	h.Set("X-Mindmap-Size", fmt.Sprint(st.Size))
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
