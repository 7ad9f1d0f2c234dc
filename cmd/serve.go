package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/extract"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/pipeline"
)

var servePort int

// takeoffRequest is the POST /takeoff body: pre-extracted room candidates
// for one document.
type takeoffRequest struct {
	DocumentID string                   `json:"document_id"`
	Page       int                      `json:"page"`
	UnitSystem string                   `json:"unit_system"`
	Candidates []model.RawRoomCandidate `json:"candidates"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server for takeoff requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, false)
		if err != nil {
			return err
		}
		defer env.Close()

		mux := newServeMux(env.Pipeline)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		}

		go shutdownServer(ctx, srv)

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownServer waits for the signal context to cancel, then drains
// in-flight requests. The drain gets a fresh timeout context because the
// signal context is already done and would abort the drain immediately.
func shutdownServer(ctx context.Context, srv *http.Server) {
	<-ctx.Done()
	zap.L().Info("shutting down server")
	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

func newServeMux(p *pipeline.Pipeline) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /takeoff", func(w http.ResponseWriter, r *http.Request) {
		var req takeoffRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		if len(req.Candidates) == 0 {
			http.Error(w, `{"error":"candidates are required"}`, http.StatusBadRequest)
			return
		}

		doc := model.Document{ID: req.DocumentID, Page: req.Page}
		if doc.ID == "" {
			doc.ID = "document"
		}
		for i := range req.Candidates {
			if req.Candidates[i].DocumentID == "" {
				req.Candidates[i].DocumentID = doc.ID
			}
			if req.Candidates[i].Page == 0 {
				req.Candidates[i].Page = doc.Page
			}
		}

		report, err := p.RunWithHint(r.Context(), doc, req.Candidates, extract.UnitHint(req.UnitSystem))
		if err != nil {
			zap.L().Error("takeoff request failed",
				zap.String("document", doc.ID),
				zap.Error(err),
			)
			if report == nil {
				http.Error(w, `{"error":"takeoff failed"}`, http.StatusInternalServerError)
				return
			}
			// A failed run still carries the partial layout.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(report)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(report)
	})

	return mux
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
