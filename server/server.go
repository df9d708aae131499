// Package server exposes a viewer session over HTTP: graph upload, frame
// output in JSON and SVG, gesture input and the selection sidebar.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/TFMV/graphwork/config"
	"github.com/TFMV/graphwork/ingest"
	"github.com/TFMV/graphwork/interaction"
	"github.com/TFMV/graphwork/metrics"
	"github.com/TFMV/graphwork/render"
	"github.com/TFMV/graphwork/viewer"
)

// uploadField is the multipart field carrying the graph file.
const uploadField = "graph"

// controls maps button routes to gesture kinds.
var controls = map[string]viewer.Kind{
	"zoom-in":   viewer.ZoomIn,
	"zoom-out":  viewer.ZoomOut,
	"pan-left":  viewer.PanLeft,
	"pan-right": viewer.PanRight,
	"reset":     viewer.ResetView,
}

// Server serves one viewer session.
type Server struct {
	cfg     config.ServerConfig
	session *viewer.Session
	metrics *metrics.Collector
	logger  *zap.Logger
	mux     *http.ServeMux
}

// New wires the routes for session. A nil logger disables request logging
// and a nil collector serves the default Prometheus registry.
func New(cfg config.ServerConfig, session *viewer.Session, collector *metrics.Collector, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:     cfg,
		session: session,
		metrics: collector,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("POST /upload", s.handleUpload)
	s.mux.HandleFunc("GET /api/frame", s.handleFrame)
	s.mux.HandleFunc("GET /frame.svg", s.handleFrameSVG)
	s.mux.HandleFunc("POST /api/gesture", s.handleGesture)
	s.mux.HandleFunc("POST /api/controls/{action}", s.handleControl)
	s.mux.HandleFunc("GET /api/selection", s.handleSelection)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /metrics", collector.Handler())
	return s
}

// Handler returns the request handler with access logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", zap.String("addr", s.cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, indexPage)
}

type uploadResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Nodes int    `json:"nodes"`
	Edges int    `json:"edges"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadSize); err != nil {
		http.Error(w, "Error parsing form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		http.Error(w, "Error retrieving file: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "Error reading file: "+err.Error(), http.StatusBadRequest)
		return
	}

	g, err := ingest.ProcessNamed(header.Filename, data)
	if err != nil {
		s.logger.Warn("rejected upload", zap.String("file", header.Filename), zap.Error(err))
		http.Error(w, "Error processing file: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.session.Load(g)

	s.writeJSON(w, http.StatusAccepted, uploadResponse{
		ID:    g.ID,
		Name:  g.Name,
		Nodes: g.NodeCount(),
		Edges: g.EdgeCount(),
	})
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.Frame())
}

func (s *Server) handleFrameSVG(w http.ResponseWriter, r *http.Request) {
	opts := render.NewDefaultOptions("svg")
	opts.ShowLabels = r.URL.Query().Get("labels") == "1"

	out, err := render.Render(s.session.Frame(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", render.ContentType("svg"))
	w.Header().Set("Cache-Control", "no-store")
	w.Write(out)
}

type gestureResponse struct {
	Applied bool              `json:"applied"`
	State   interaction.State `json:"state"`
	Kind    string            `json:"kind"`
}

func (s *Server) handleGesture(w http.ResponseWriter, r *http.Request) {
	var g viewer.Gesture
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&g); err != nil {
		http.Error(w, "Invalid gesture: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.gesture(w, g)
}

func (s *Server) handleControl(w http.ResponseWriter, r *http.Request) {
	kind, ok := controls[r.PathValue("action")]
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.gesture(w, viewer.Gesture{Kind: kind})
}

func (s *Server) gesture(w http.ResponseWriter, g viewer.Gesture) {
	applied := s.session.Apply(g)
	s.writeJSON(w, http.StatusOK, gestureResponse{
		Applied: applied,
		State:   s.session.State(),
		Kind:    string(g.Kind),
	})
}

func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.session.Sidebar())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"settled": !s.session.Active(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}
