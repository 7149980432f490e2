// =============================================================================
// DCR-PAXLIST Merger - HTTP Server
// =============================================================================
//
// This module exposes the merge pipeline over HTTP.
//
// ROUTES:
//   POST /merge    multipart upload: paxlist (file), dcr (file),
//                  header_row (0-2, optional), apply_formatting (bool, optional)
//                  200 -> XLSX attachment, statistics in X-* headers
//                  400 -> malformed request, JSON {"error": "..."}
//                  422 -> validation or parse failure, JSON {"status": "..."}
//                  500 -> unexpected failure, JSON {"status": "..."}
//   GET  /healthz  liveness probe
//   GET  /metrics  Prometheus metrics
//
// Every request is an independent pipeline run; the server keeps no
// per-request state.
//
// =============================================================================

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ginjaninja78/dcr-paxlist-merger/internal/config"
	apperrors "github.com/ginjaninja78/dcr-paxlist-merger/internal/errors"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/metrics"
	"github.com/ginjaninja78/dcr-paxlist-merger/internal/pipeline"
)

// Response headers carrying the merge statistics.
const (
	HeaderTotalCrew         = "X-Total-Crew"
	HeaderCrewWithBooking   = "X-Crew-With-Booking"
	HeaderJumpseatBookings  = "X-Jumpseat-Bookings"
	HeaderFormattingWarning = "X-Formatting-Warning"
	HeaderRequestID         = "X-Request-ID"
)

// XLSXContentType is the media type of the merged workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Options configures a Server.
type Options struct {
	// Processor runs the merges. Nil means pipeline.New().
	Processor *pipeline.Processor

	// Metrics receives upload sizes and serves /metrics. Nil disables both.
	Metrics *metrics.Registry

	// Logger is used for request-level logging. Nil discards logs.
	Logger pipeline.Logger

	// MaxUploadBytes caps the request body. Zero means 32 MiB.
	MaxUploadBytes int64

	// DefaultHeaderRow is used when the request has no header_row field.
	DefaultHeaderRow int

	// DefaultFormatting is used when the request has no apply_formatting field.
	DefaultFormatting bool
}

// Server is the HTTP front end of the merge pipeline.
type Server struct {
	router *chi.Mux
	opts   Options
}

// New creates a Server with its routes registered.
func New(opts Options) *Server {
	if opts.Processor == nil {
		opts.Processor = pipeline.New()
	}
	if opts.Logger == nil {
		opts.Logger = pipeline.NewLogger(io.Discard, "error")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}

	s := &Server{router: chi.NewRouter(), opts: opts}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(requestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Post("/merge", s.handleMerge)
	if s.opts.Metrics != nil {
		s.router.Method(http.MethodGet, "/metrics", s.opts.Metrics.Handler())
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("Starting DCR-PAXLIST Merger server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.opts.Logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.opts.MaxUploadBytes); err != nil {
		s.badRequest(w, r, fmt.Errorf("invalid multipart form: %w", err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	req, err := s.parseRequest(r)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.UploadBytes.Add(float64(len(req.Paxlist.Data) + len(req.DCR.Data)))
	}

	result := s.opts.Processor.Run(req)
	if !result.Success {
		code := http.StatusUnprocessableEntity
		if apperrors.Is(result.Error, apperrors.CodeInternalError) {
			code = http.StatusInternalServerError
		}
		s.opts.Logger.Warn("[%s] merge failed (%s)", requestIDFrom(r), result.Code)
		writeJSON(w, code, map[string]string{"status": result.Status})
		return
	}

	h := w.Header()
	h.Set("Content-Type", XLSXContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	h.Set(HeaderTotalCrew, strconv.Itoa(result.Stats.TotalCrew))
	h.Set(HeaderCrewWithBooking, strconv.Itoa(result.Stats.CrewWithBooking))
	h.Set(HeaderJumpseatBookings, strconv.Itoa(result.Stats.JumpseatBookings))
	if result.Warning != "" {
		h.Set(HeaderFormattingWarning, result.Warning)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Output); err != nil {
		s.opts.Logger.Error("[%s] failed to write response: %v", requestIDFrom(r), err)
	}
}

// parseRequest extracts the pipeline request from a parsed multipart form.
func (s *Server) parseRequest(r *http.Request) (pipeline.Request, error) {
	req := pipeline.Request{
		DCRHeaderRow:    s.opts.DefaultHeaderRow,
		ApplyFormatting: s.opts.DefaultFormatting,
	}

	var err error
	if req.Paxlist, err = formFile(r, "paxlist"); err != nil {
		return req, err
	}
	if req.DCR, err = formFile(r, "dcr"); err != nil {
		return req, err
	}

	if v := r.FormValue("header_row"); v != "" {
		row, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid header_row %q", v)
		}
		if err := config.ValidateHeaderRow(row); err != nil {
			return req, err
		}
		req.DCRHeaderRow = row
	}

	if v := r.FormValue("apply_formatting"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("invalid apply_formatting %q", v)
		}
		req.ApplyFormatting = enabled
	}

	return req, nil
}

// formFile reads one uploaded file completely.
func formFile(r *http.Request, field string) (pipeline.Input, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return pipeline.Input{}, fmt.Errorf("missing file field %q", field)
		}
		return pipeline.Input{}, fmt.Errorf("failed to read file field %q: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("failed to read file field %q: %w", field, err)
	}
	return pipeline.Input{Name: header.Filename, Data: data}, nil
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	s.opts.Logger.Warn("[%s] bad request: %v", requestIDFrom(r), err)
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

type ctxKey struct{}

// requestID tags every request with a UUID, reusing a client-supplied
// X-Request-ID when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

func requestIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(ctxKey{}).(string)
	return id
}
