package main

import (
	"context"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/extract"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch <image>...",
	Short: "Run takeoff for multiple floor plans concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		docs := documentsFromPaths(args)
		return processBatch(ctx, docs, batchLimit, cfg.Batch.MaxConcurrentDocuments, env)
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

func documentsFromPaths(paths []string) []model.Document {
	docs := make([]model.Document, 0, len(paths))
	for _, p := range paths {
		docs = append(docs, model.Document{
			ID:   strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
			Path: p,
		})
	}
	return docs
}

// processBatch extracts and runs each document concurrently. Individual
// failures are logged and counted, never abort the batch.
func processBatch(ctx context.Context, docs []model.Document, limit, concurrency int, env *pipelineEnv) error {
	if len(docs) == 0 {
		zap.L().Info("no documents to process")
		return nil
	}

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(docs)),
		zap.Int("concurrency", concurrency),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, doc := range docs {
		g.Go(func() error {
			log := zap.L().With(zap.String("document", doc.ID))

			candidates, system, err := env.Extractor.Extract(gctx, doc)
			if err != nil {
				failed.Add(1)
				log.Error("extraction failed", zap.Error(err))
				return nil // don't abort batch on individual failure
			}

			report, err := env.Pipeline.RunWithHint(gctx, doc, candidates, extract.UnitHint(system))
			if err != nil {
				failed.Add(1)
				log.Error("takeoff failed", zap.Error(err))
				return nil
			}

			succeeded.Add(1)
			log.Info("takeoff complete",
				zap.String("status", report.Status),
				zap.Int("rooms", len(report.Layout.Rooms)),
				zap.Float64("total_sqft", report.Layout.TotalAreaSqFt),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)

	if failed.Load() > 0 && succeeded.Load() == 0 {
		return eris.New("all documents failed")
	}
	return nil
}
