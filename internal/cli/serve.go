package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tracemetro/tracemetro/pkg/errors"
	"github.com/tracemetro/tracemetro/pkg/pipeline"
	"github.com/tracemetro/tracemetro/pkg/store"
	"github.com/tracemetro/tracemetro/pkg/trace"
)

// newServeCmd creates the serve command: an HTTP layout service exposing the
// same pipeline as the layout command.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Endpoints:
  POST /v1/layouts      compute a layout from a posted trace document
  GET  /v1/layouts/{id} fetch a previously computed layout run
  GET  /v1/layouts      list recent runs (summaries only)
  GET  /healthz         liveness check

Runs are persisted in MongoDB when store.mongo_uri is configured,
otherwise in process memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe wires up cache, store and router, then serves until ctx is done.
func runServe(ctx context.Context, configPath, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	c, err := openCache(ctx, cfg, false)
	if err != nil {
		return errors.Wrap(errors.ErrCodeCache, err, "initialize cache")
	}
	defer c.Close()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv := &layoutServer{
		runner: pipeline.NewRunner(c, nil, logger),
		store:  st,
		logger: logger,
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.routes(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.Server.Addr)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// openStore selects the run store from the configuration: MongoDB when a URI
// is configured, in-process memory otherwise.
func openStore(ctx context.Context, cfg Config) (store.Store, error) {
	if cfg.Store.MongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, store.MongoConfig{
		URI:        cfg.Store.MongoURI,
		Database:   cfg.Store.Database,
		Collection: cfg.Store.Collection,
	})
}

// =============================================================================
// HTTP Handlers
// =============================================================================

type layoutServer struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

func (s *layoutServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1/layouts", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/", s.handleList)
		r.Get("/{id}", s.handleGet)
	})
	return r
}

// handleCreate computes a layout from a posted trace document and persists
// the run under a fresh id.
func (s *layoutServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	var doc trace.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode trace document"))
		return
	}

	result, err := s.runner.Execute(r.Context(), doc, pipeline.Options{})
	if err != nil {
		writeError(w, err)
		return
	}

	run := store.Run{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		StepCount: result.Stats.StepCount,
		StopCount: result.Stats.StopCount,
		LaneCount: result.Stats.LaneCount,
		Layout:    result.Layout,
	}
	if err := s.store.Save(r.Context(), run); err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("layout run saved", "id", run.ID, "steps", run.StepCount, "lanes", run.LaneCount)
	writeJSON(w, http.StatusCreated, run)
}

// handleGet returns a persisted run including its layout.
func (s *layoutServer) handleGet(w http.ResponseWriter, r *http.Request) {
	run, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleList returns run summaries, newest first.
func (s *layoutServer) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	runs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidTrace:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeLayoutNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}
