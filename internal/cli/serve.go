package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modgraph/pkg/buildinfo"
	"github.com/matzehuels/modgraph/pkg/config"
	mgerrors "github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/graph"
	graphio "github.com/matzehuels/modgraph/pkg/io"
	"github.com/matzehuels/modgraph/pkg/observability"
	"github.com/matzehuels/modgraph/pkg/pipeline"
	"github.com/matzehuels/modgraph/pkg/render"
)

const (
	defaultServeAddr = ":8080"
	maxRequestBytes  = 10 << 20
	shutdownTimeout  = 5 * time.Second
	requestIDHeader  = "X-Request-ID"
	cacheHeader      = "X-Cache"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve the render API over HTTP.

Endpoints:
  POST /render/{format}  render a graph JSON body to the given format
  GET  /formats          list available formats
  GET  /healthz          liveness and build information`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	logger := loggerFromContext(ctx)

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              addr,
		Handler:           newServer(runner, c.Config, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "cache", c.Config.Cache.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// =============================================================================
// Handlers
// =============================================================================

type server struct {
	runner *pipeline.Runner
	cfg    *config.Config
	logger *log.Logger
}

type errorResponse struct {
	Code      mgerrors.Code `json:"code"`
	Message   string        `json:"message"`
	RequestID string        `json:"request_id,omitempty"`
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

type formatInfo struct {
	Name        string `json:"name"`
	Extension   string `json:"extension"`
	MimeType    string `json:"mime_type"`
	Description string `json:"description"`
}

// newServer builds the HTTP handler for the render API.
func newServer(runner *pipeline.Runner, cfg *config.Config, logger *log.Logger) http.Handler {
	s := &server{runner: runner, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/formats", s.handleFormats)
	r.Post("/render/{format}", s.handleRender)

	return r
}

// requestID tags each request with an ID, reusing a valid incoming
// X-Request-ID, and reports the request to the HTTP hooks.
func (s *server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		ctx := r.Context()
		reqLogger := s.logger.With("request_id", id)
		ctx = withLogger(ctx, reqLogger)

		hooks := observability.HTTP()
		hooks.OnRequest(ctx, id, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		hooks.OnResponse(ctx, id, r.Method, r.URL.Path, status, dur)
		reqLogger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", dur)
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

func (s *server) handleFormats(w http.ResponseWriter, r *http.Request) {
	reg := pipeline.NewRegistry(nil)
	var out []formatInfo
	for _, name := range pipeline.Formats() {
		info := formatInfo{
			Name:        name,
			Extension:   fileExtension(name),
			MimeType:    mimeType(name),
			Description: "SVG image of the dot diagram (Graphviz)",
		}
		if rd, err := reg.New(name, render.DefaultOptions()); err == nil {
			info.Description = rd.Description()
		}
		out = append(out, info)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(ctx)
	format := chi.URLParam(r, "format")

	if err := mgerrors.ValidateFormatName(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, mgerrors.Wrap(mgerrors.ErrCodeInvalidFormat, err, "format %q", format))
		return
	}

	g, err := graphio.ReadJSON(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		code := mgerrors.ErrCodeInvalidInput
		if errors.Is(err, graph.ErrDuplicateModule) {
			code = mgerrors.ErrCodeDuplicateModule
		}
		s.writeError(w, r, mgerrors.Wrap(code, err, "read graph"))
		return
	}
	if err := validateModuleIDs(g); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(ctx, g, pipeline.Options{
		Formats:  []string{format},
		Render:   s.cfg.RenderOptions(),
		Keywords: s.cfg.Classifier,
		Logger:   logger,
	})
	if err != nil {
		s.writeError(w, r, mgerrors.Wrap(mgerrors.ErrCodeInternal, err, "render %s", format))
		return
	}

	hit := "MISS"
	if result.CacheInfo.AllHit() {
		hit = "HIT"
	}
	w.Header().Set("Content-Type", mimeType(format))
	w.Header().Set(cacheHeader, hit)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Artifacts[format]); err != nil {
		logger.Warn("write response", "error", err)
	}
}

// validateModuleIDs checks every class name in g, including edge endpoints
// that are not registered, before it reaches the renderers.
func validateModuleIDs(g *graph.Graph) error {
	for _, m := range g.Modules() {
		if err := mgerrors.ValidateModuleID(m.ClassName); err != nil {
			return err
		}
	}
	for _, e := range g.Edges() {
		if err := mgerrors.ValidateModuleID(e.From); err != nil {
			return err
		}
		if err := mgerrors.ValidateModuleID(e.To); err != nil {
			return err
		}
	}
	return nil
}

// writeError writes err as a JSON error body with its mapped status code.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := mgerrors.HTTPStatus(err)
	logger := loggerFromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		logger.Debug("request rejected", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{
		Code:      mgerrors.GetCode(err),
		Message:   mgerrors.UserMessage(err),
		RequestID: w.Header().Get(requestIDHeader),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// mimeType returns the Content-Type of a format's output.
func mimeType(format string) string {
	if format == pipeline.FormatSVG {
		return "image/svg+xml"
	}
	r, err := pipeline.NewRegistry(nil).New(format, render.DefaultOptions())
	if err != nil {
		return "text/plain; charset=utf-8"
	}
	return r.MimeType()
}
