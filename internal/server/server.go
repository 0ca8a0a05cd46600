// Package server implements the asnlabels HTTP preview server.
//
// The server renders label sheets on request using the same pipeline as the
// CLI. Query parameters use the option keys of the TOML configuration file:
//
//	GET /render.pdf?label_type=4731&first_asn=190&number=21&bar_width=2mm
//
// Runs are serialised; a request waits until the previous run finished.
package server

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/asnlabels/pkg/config"
	"github.com/matzehuels/asnlabels/pkg/errors"
	"github.com/matzehuels/asnlabels/pkg/pipeline"
	"github.com/matzehuels/asnlabels/pkg/sheet"
)

// DefaultMaxLabels caps the labels (identifiers) of a single preview request.
const DefaultMaxLabels = 1000

// Server serves rendered label sheets over HTTP.
type Server struct {
	runner    *pipeline.Runner
	logger    *log.Logger
	maxLabels int
	mu        sync.Mutex // serialises runs
}

// New creates a server rendering with runner. If logger is nil,
// log.Default() is used.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger, maxLabels: DefaultMaxLabels}
}

// SetMaxLabels changes the per-request limit of labels. Sub-labels count
// individually.
func (s *Server) SetMaxLabels(n int) { s.maxLabels = n }

// Routes returns the HTTP handler with all routes and middleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/labels", s.handleLabels)
	r.Get("/render.{format}", s.handleRender)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("preview server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeIO, err, "listen on %s", addr)
	case <-ctx.Done():
		s.logger.Info("shutting down preview server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "shutdown")
		}
		return ctx.Err()
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sheetInfo is the JSON form of a sheet type. Lengths are in points.
type sheetInfo struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Columns     int     `json:"columns"`
	Rows        int     `json:"rows"`
	PerPage     int     `json:"per_page"`
	LabelWidth  float64 `json:"label_width"`
	LabelHeight float64 `json:"label_height"`
	PageWidth   float64 `json:"page_width"`
	PageHeight  float64 `json:"page_height"`
}

func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	types := sheet.All()
	out := make([]sheetInfo, len(types))
	for i, t := range types {
		out[i] = sheetInfo{
			ID:          t.ID,
			Name:        t.Name,
			Columns:     t.Columns,
			Rows:        t.Rows,
			PerPage:     t.PerPage(),
			LabelWidth:  t.LabelWidth,
			LabelHeight: t.LabelHeight,
			PageWidth:   t.Page.Width,
			PageHeight:  t.Page.Height,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := optionsFromQuery(r, chi.URLParam(r, "format"))
	if err != nil {
		writeError(w, err)
		return
	}
	if n := opts.Labels(); n > s.maxLabels {
		writeError(w, errors.Field("number", opts.Number,
			fmt.Sprintf("%d labels exceed the preview limit of %d", n, s.maxLabels)))
		return
	}

	s.mu.Lock()
	var buf bytes.Buffer
	result, err := s.runner.Render(r.Context(), opts, &buf)
	s.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Debug("rendered preview",
		"request_id", w.Header().Get(headerRequestID),
		"range", result.Range(opts),
		"pages", result.Pages)

	w.Header().Set("Content-Type", contentType(opts.Format))
	w.Header().Set("Content-Disposition", `inline; filename="`+opts.Filename()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// optionsFromQuery merges the query parameters of r over the defaults.
func optionsFromQuery(r *http.Request, format string) (config.Options, error) {
	opts := config.Default()
	opts.Format = strings.ToLower(format)
	for key, values := range r.URL.Query() {
		if key == "output" || key == "format" || len(values) == 0 {
			continue
		}
		if err := opts.Set(key, values[len(values)-1]); err != nil {
			return opts, err
		}
	}
	return opts, opts.Validate()
}

func contentType(format string) string {
	if format == config.FormatPNG {
		return "image/png"
	}
	return "application/pdf"
}
