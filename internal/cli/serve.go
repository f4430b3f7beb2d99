package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/observability"
	"github.com/pcleckler/UmlConversion/pkg/pipeline"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 5 * time.Second
)

// overviewContentTypes maps overview formats to response content types.
var overviewContentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags pipelineFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve <input>",
		Short: "Serve the generated documents over HTTP",
		Long: `Serve the documents of an input without writing them to disk.

Routes:
  GET  /                   index of documents (JSON)
  GET  /docs/{file}        PlantUML text of one document
  GET  /overview.{format}  group overview (dot, svg, png, pdf)
  POST /refresh            reload the input and rebuild every document`,
		Args: requireInput,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := flags.options(cmd, args[0])
			if err != nil {
				return err
			}
			if len(opts.Overview) == 0 {
				opts.Overview = []string{pipeline.FormatDOT, pipeline.FormatSVG}
			}

			runner, err := c.newRunner(cmd.Context(), cfg.Cache, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			s := newServer(runner, opts, c.Logger)
			if err := s.refresh(cmd.Context()); err != nil {
				return err
			}
			return s.listen(cmd.Context(), addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

// =============================================================================
// Server
// =============================================================================

// server holds the latest pipeline result of one input.
type server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	mu     sync.RWMutex
	result *pipeline.Result
}

func newServer(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *server {
	return &server{runner: runner, opts: opts, logger: logger}
}

// refresh reruns the pipeline and swaps in the new result.
func (s *server) refresh(ctx context.Context) error {
	result, err := s.runner.Execute(ctx, s.opts)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.result = result
	s.mu.Unlock()
	return nil
}

func (s *server) current() *pipeline.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (s *server) listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	printSuccess("Serving %s", StyleHighlight.Render(s.current().Set.Module))
	printDetail("%s", StyleLink.Render("http://"+addr+"/"))

	select {
	case err := <-errc:
		if errors.IsError(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Debug("shutting down server", "addr", addr)
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(observe(s.logger))

	r.Get("/", s.handleIndex)
	r.Get("/docs/{file}", s.handleDocument)
	r.Get("/overview.{format}", s.handleOverview)
	r.Post("/refresh", s.handleRefresh)

	return r
}

// =============================================================================
// Handlers
// =============================================================================

type indexDocument struct {
	File    string `json:"file"`
	Label   string `json:"label"`
	Types   int    `json:"types"`
	GroupID string `json:"group_id,omitempty"`
}

type indexResponse struct {
	Module        string          `json:"module"`
	Types         int             `json:"types"`
	Relationships int             `json:"relationships"`
	Groups        int             `json:"groups"`
	Documents     []indexDocument `json:"documents"`
	Overview      []string        `json:"overview,omitempty"`
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	result := s.current()
	resp := indexResponse{
		Module:        result.Set.Module,
		Types:         result.Stats.TypeCount,
		Relationships: result.Stats.EdgeCount,
		Groups:        result.Stats.GroupCount,
		Documents:     make([]indexDocument, 0, len(result.Documents)),
	}
	for _, d := range result.Documents {
		doc := indexDocument{File: d.FileName, Label: d.Label, Types: d.Types}
		if d.Group != nil {
			doc.GroupID = d.Group.ID.String()
		}
		resp.Documents = append(resp.Documents, doc)
	}
	for _, f := range s.opts.Overview {
		if _, ok := result.Overview[f]; ok {
			resp.Overview = append(resp.Overview, f)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		observability.HTTP().OnError(r.Context(), observability.RequestEvent{Method: r.Method, Path: r.URL.Path, Err: err})
	}
}

func (s *server) handleDocument(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	for _, d := range s.current().Documents {
		if d.FileName == file {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(d.Text))
			return
		}
	}
	http.Error(w, "document not found: "+file, http.StatusNotFound)
}

func (s *server) handleOverview(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	data, ok := s.current().Overview[format]
	if !ok {
		http.Error(w, "overview not rendered as "+format, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", overviewContentTypes[format])
	_, _ = w.Write(data)
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.refresh(r.Context()); err != nil {
		observability.HTTP().OnError(r.Context(), observability.RequestEvent{
			Method: r.Method,
			Path:   r.URL.Path,
			Status: http.StatusUnprocessableEntity,
			Err:    err,
		})
		s.logger.Error("refresh failed", "err", err)
		http.Error(w, errors.UserMessage(err), http.StatusUnprocessableEntity)
		return
	}
	s.handleIndex(w, r)
}

// =============================================================================
// Middleware
// =============================================================================

// observe reports every request to the HTTP hooks and the debug log.
func observe(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			hooks := observability.HTTP()
			hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)
			hooks.OnResponse(r.Context(), observability.RequestEvent{
				Method:   r.Method,
				Path:     r.URL.Path,
				Status:   status,
				Duration: duration,
			})
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration", duration)
		})
	}
}
