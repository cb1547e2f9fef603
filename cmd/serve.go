package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/insight-cli/internal/analysis"
	"github.com/sells-group/insight-cli/internal/model"
	"github.com/sells-group/insight-cli/internal/store"
	"github.com/sells-group/insight-cli/pkg/completion"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API for analysis requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		client := completion.NewClient(cfg.Anthropic.Key,
			completion.WithModels(cfg.Anthropic.Model, cfg.Anthropic.FallbackModel),
			completion.WithMaxTokens(int64(cfg.Anthropic.MaxTokens)),
			completion.WithRequestsPerMinute(cfg.Anthropic.RequestsPerMinute),
		)

		analyzerCfg := analysis.DefaultConfig()
		analyzerCfg.SectionThreshold = cfg.Analysis.SectionThreshold
		analyzerCfg.MaxRecommendations = cfg.Analysis.MaxRecommendations
		if cfg.Analysis.TLDRRetryAttempts > 0 {
			analyzerCfg.TLDRRetry.MaxAttempts = cfg.Analysis.TLDRRetryAttempts
		}
		analyzer := analysis.New(client, analyzerCfg)

		r := chi.NewRouter()
		r.Use(middleware.Recoverer)
		r.Use(middleware.RequestID)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})

		r.Post("/api/analyze", handleAnalyze(ctx, analyzer, st))
		r.Get("/api/runs", handleListRuns(st))
		r.Get("/api/runs/{runID}", handleGetRun(st))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// handleAnalyze accepts a document inline and runs the pipeline in the
// background, returning the run ID immediately.
func handleAnalyze(ctx context.Context, analyzer *analysis.Analyzer, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var doc model.Document
		if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if doc.Content == "" {
			http.Error(w, `{"error":"content is required"}`, http.StatusBadRequest)
			return
		}
		if doc.ID == "" {
			doc.ID = uuid.New().String()
		}
		if len(doc.Sections) == 0 {
			doc.Sections = model.SectionTreeFromMarkdown(doc.Content)
		}

		run, err := st.CreateRun(r.Context(), doc.ID)
		if err != nil {
			http.Error(w, `{"error":"create run failed"}`, http.StatusInternalServerError)
			return
		}

		go func() {
			result, err := analyzer.Analyze(ctx, &doc, nil)
			if err != nil {
				zap.L().Error("api analysis failed",
					zap.String("document", doc.ID),
					zap.Error(err),
				)
				if ferr := st.FailRun(ctx, run.ID, err.Error()); ferr != nil {
					zap.L().Warn("record run failure", zap.Error(ferr))
				}
				return
			}
			if serr := st.CompleteRun(ctx, run.ID, result); serr != nil {
				zap.L().Warn("persist run result", zap.Error(serr))
			}
		}()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"run_id":   run.ID,
			"document": doc.ID,
			"status":   string(run.Status),
		})
	}
}

func handleListRuns(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := store.RunFilter{
			Status:     model.RunStatus(q.Get("status")),
			DocumentID: q.Get("document"),
		}

		runs, err := st.ListRuns(r.Context(), filter)
		if err != nil {
			http.Error(w, `{"error":"list runs failed"}`, http.StatusInternalServerError)
			return
		}
		if runs == nil {
			runs = []model.Run{}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(runs)
	}
}

func handleGetRun(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		run, err := st.GetRun(r.Context(), chi.URLParam(r, "runID"))
		if err != nil {
			http.Error(w, `{"error":"run not found"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(run)
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
