// Package confidence folds per-room confidence into an advisory report.
// Aggregation is an explicit reduce over the layout with no running mutable
// state, so the result is independent of room ordering. It never errors and
// never gates computation.
package confidence

import (
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

// Config holds per-label aggregation weights. Absent labels weigh 1.0, so the
// default is a uniform average.
type Config struct {
	Weights map[string]float64
}

// Aggregate combines the confidence of every room that contributed to the
// estimate into a weighted average. Rejected candidates do not count toward
// the denominator; they are listed separately as excluded.
func Aggregate(layout model.Layout, cfg Config) model.ConfidenceReport {
	report := model.ConfidenceReport{}

	var weighted, totalWeight float64
	for _, room := range layout.Rooms {
		w := 1.0
		if cfg.Weights != nil {
			if lw, ok := cfg.Weights[room.Label]; ok {
				w = lw
			}
		}
		weighted += room.Confidence * w
		totalWeight += w
		report.Rooms = append(report.Rooms, model.RoomConfidence{
			RoomID:     room.ID,
			Label:      room.Label,
			Confidence: room.Confidence,
		})
	}
	if totalWeight > 0 {
		report.Overall = weighted / totalWeight
	}

	for _, p := range layout.Provenance {
		if p.Outcome == model.OutcomeRejected {
			report.Excluded = append(report.Excluded, model.ExcludedRoom{
				Label:  p.Candidate.Label,
				Reason: p.Reason,
			})
		}
	}

	return report
}
