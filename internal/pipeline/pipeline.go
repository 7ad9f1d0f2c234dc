// Package pipeline sequences validation, consolidation, estimation, and
// costing for one floor-plan document and emits a single report. Room-scoped
// failures degrade the report instead of aborting it; only a broken pricing
// table or an empty layout fails a run, and even then the report carries the
// partial layout rather than discarding it.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/config"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/confidence"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/consolidate"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/cost"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/material"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/store"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/validate"
)

// ErrEmptyLayout is fatal: no rooms survived validation and consolidation.
var ErrEmptyLayout = eris.New("pipeline: no rooms survived validation and consolidation")

// Pipeline orchestrates one takeoff run end to end.
type Pipeline struct {
	cfg          *config.Config
	store        store.Store
	vcfg         validate.Config
	validator    *validate.Validator
	consolidator *consolidate.Consolidator
	estimator    *material.Estimator
	costCalc     *cost.Calculator
}

// New creates a Pipeline. The store may be nil, in which case runs are not
// persisted.
func New(cfg *config.Config, st store.Store, table cost.PricingTable) *Pipeline {
	vcfg := validate.Config{
		AreaMismatchTolerance: cfg.Tolerances.AreaMismatch,
		UnitHint:              model.Unit(cfg.Tolerances.UnitHint),
	}
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		vcfg:      vcfg,
		validator: validate.New(vcfg),
		consolidator: consolidate.New(consolidate.Config{
			AreaTolerance:   cfg.Tolerances.RoomDedup,
			MaxPageDistance: cfg.Tolerances.MaxPageDistance,
		}),
		estimator: material.New(material.Config{
			WasteFactor:       cfg.Materials.WasteFactor,
			WallHeightFt:      cfg.Materials.WallHeightFt,
			OpeningDeduction:  cfg.Materials.OpeningDeduction,
			PanelSqFt:         cfg.Materials.PanelSqFt,
			PaintCoverageSqFt: cfg.Materials.PaintCoverageSqFt,
			PaintCoats:        cfg.Materials.PaintCoats,
			CeilingPaintCoats: cfg.Materials.CeilingPaintCoats,
			CrownWasteFactor:  cfg.Materials.CrownWasteFactor,
			NonFloored:        toSet(cfg.Materials.NonFlooredLabels),
		}),
		costCalc: cost.NewCalculator(table, costOptions(cfg.Pricing)...),
	}
}

func costOptions(pc config.PricingConfig) []cost.Option {
	var opts []cost.Option
	if pc.IncludeLabor {
		opts = append(opts, cost.WithLabor())
	}
	if pc.Contingency > 0 {
		opts = append(opts, cost.WithContingency(pc.Contingency))
	}
	return opts
}

func toSet(labels []string) map[string]bool {
	if len(labels) == 0 {
		return nil
	}
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[l] = true
	}
	return set
}

// Run executes the state machine received -> extracted -> validated ->
// consolidated -> estimated -> reported for one document's candidates. The
// returned report is non-nil even when the run fails; err is non-nil only for
// fatal conditions. Cancellation is honored between stages, never mid-stage.
func (p *Pipeline) Run(ctx context.Context, doc model.Document, candidates []model.RawRoomCandidate) (*model.Report, error) {
	return p.run(ctx, doc, candidates, p.validator)
}

// RunWithHint is Run with a document-level unit hint for bare-number
// dimensions, as detected during extraction. An unknown hint falls back to
// the configured one.
func (p *Pipeline) RunWithHint(ctx context.Context, doc model.Document, candidates []model.RawRoomCandidate, hint model.Unit) (*model.Report, error) {
	v := p.validator
	if hint != model.UnitUnknown && hint != "" {
		vcfg := p.vcfg
		vcfg.UnitHint = hint
		v = validate.New(vcfg)
	}
	return p.run(ctx, doc, candidates, v)
}

func (p *Pipeline) run(ctx context.Context, doc model.Document, candidates []model.RawRoomCandidate, validator *validate.Validator) (*model.Report, error) {
	log := zap.L().With(zap.String("document", doc.ID))
	log.Info("pipeline: starting run", zap.Int("candidates", len(candidates)))

	runID := uuid.New().String()
	report := &model.Report{RunID: runID, DocumentID: doc.ID}

	if p.store != nil {
		if _, err := p.store.CreateRun(ctx, runID, doc.ID); err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
	}
	p.setStatus(ctx, runID, model.RunStatusExtracted)

	fail := func(reason string, cause error) (*model.Report, error) {
		report.Status = model.ReportFailed
		report.FailureReason = reason
		report.GeneratedAt = time.Now().UTC()
		log.Error("pipeline: run failed", zap.String("reason", reason), zap.Error(cause))
		p.setStatus(ctx, runID, model.RunStatusFailed)
		p.saveReport(ctx, runID, report)
		return report, cause
	}

	if err := ctx.Err(); err != nil {
		return fail("canceled before validation", err)
	}

	// Validate every candidate; unparseable rooms become rejections, not
	// errors.
	rooms := make([]model.ValidatedRoom, 0, len(candidates))
	for _, c := range candidates {
		rooms = append(rooms, validator.Validate(c))
	}
	p.setStatus(ctx, runID, model.RunStatusValidated)

	if err := ctx.Err(); err != nil {
		return fail("canceled before consolidation", err)
	}

	layout := p.consolidator.Consolidate(rooms, candidates)
	report.Layout = layout
	report.ExcludedRooms = countRejected(layout)
	p.setStatus(ctx, runID, model.RunStatusConsolidated)

	if len(layout.Rooms) == 0 {
		return fail(ErrEmptyLayout.Error(), ErrEmptyLayout)
	}

	if err := ctx.Err(); err != nil {
		return fail("canceled before estimation", err)
	}

	quantities := p.estimator.Estimate(layout)
	report.Quantities = quantities

	costs, err := p.costCalc.Calculate(quantities)
	if err != nil {
		return fail(err.Error(), err)
	}
	report.Costs = costs
	p.setStatus(ctx, runID, model.RunStatusEstimated)

	report.Confidence = confidence.Aggregate(layout, confidence.Config{
		Weights: p.cfg.Confidence.Weights,
	})

	if report.ExcludedRooms > 0 {
		report.Status = fmt.Sprintf("%s (%d rooms excluded)", model.ReportPartial, report.ExcludedRooms)
	} else {
		report.Status = model.ReportComplete
	}
	report.GeneratedAt = time.Now().UTC()

	p.setStatus(ctx, runID, model.RunStatusReported)
	p.saveReport(ctx, runID, report)

	log.Info("pipeline: run complete",
		zap.String("status", report.Status),
		zap.Int("rooms", len(layout.Rooms)),
		zap.Float64("total_sqft", layout.TotalAreaSqFt),
		zap.Float64("confidence", report.Confidence.Overall),
	)
	return report, nil
}

func countRejected(layout model.Layout) int {
	n := 0
	for _, p := range layout.Provenance {
		if p.Outcome == model.OutcomeRejected {
			n++
		}
	}
	return n
}

func (p *Pipeline) setStatus(ctx context.Context, runID string, status model.RunStatus) {
	if p.store == nil {
		return
	}
	if err := p.store.UpdateRunStatus(ctx, runID, status); err != nil {
		zap.L().Warn("pipeline: failed to update run status",
			zap.String("run_id", runID), zap.String("status", string(status)), zap.Error(err))
	}
}

func (p *Pipeline) saveReport(ctx context.Context, runID string, report *model.Report) {
	if p.store == nil {
		return
	}
	if err := p.store.SaveReport(ctx, runID, report); err != nil {
		zap.L().Warn("pipeline: failed to save report",
			zap.String("run_id", runID), zap.Error(err))
	}
}
