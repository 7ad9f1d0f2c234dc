// Package consolidate merges validated rooms from multiple extraction passes
// or pages into one coherent layout with no duplicate physical rooms. Room
// identity is an equivalence-class problem: an explicit similarity function
// feeds union-find merging, and within each class the highest-confidence
// candidate wins.
package consolidate

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

// Config holds consolidation tolerances.
type Config struct {
	// AreaTolerance is the max relative area difference for two same-label
	// rooms to be considered the same physical room. Default 0.15.
	AreaTolerance float64
	// MaxPageDistance bounds how far apart two page indexes may be while
	// still describing the same room. Default 1 (same or adjacent page).
	MaxPageDistance int
}

// DefaultConfig returns the default consolidation tolerances.
func DefaultConfig() Config {
	return Config{AreaTolerance: 0.15, MaxPageDistance: 1}
}

// Consolidator merges validated rooms into a layout.
type Consolidator struct {
	cfg Config
}

// New creates a Consolidator. Zero tolerances fall back to defaults.
func New(cfg Config) *Consolidator {
	def := DefaultConfig()
	if cfg.AreaTolerance <= 0 {
		cfg.AreaTolerance = def.AreaTolerance
	}
	if cfg.MaxPageDistance <= 0 {
		cfg.MaxPageDistance = def.MaxPageDistance
	}
	return &Consolidator{cfg: cfg}
}

// samePhysicalRoom is the similarity function behind dedup: normalized labels
// must match, areas must agree within tolerance, and the rooms must come from
// the same document on the same or adjacent pages.
func (c *Consolidator) samePhysicalRoom(a, b model.ValidatedRoom) bool {
	if a.Label != b.Label {
		return false
	}
	if a.DocumentID != b.DocumentID {
		return false
	}
	if abs(a.Page-b.Page) > c.cfg.MaxPageDistance {
		return false
	}
	larger := math.Max(a.AreaSqFt, b.AreaSqFt)
	if larger == 0 {
		return false
	}
	return math.Abs(a.AreaSqFt-b.AreaSqFt)/larger <= c.cfg.AreaTolerance
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// Consolidate builds a Layout from validated rooms. Rejected rooms go
// straight to provenance; usable rooms are grouped into equivalence classes
// and each class keeps only its highest-confidence member. Consolidation is
// idempotent: feeding a layout's rooms back in yields the same layout.
func (c *Consolidator) Consolidate(rooms []model.ValidatedRoom, candidates []model.RawRoomCandidate) model.Layout {
	layout := model.Layout{}

	// Candidate audit entries are keyed by position: validator output is
	// ordered the same as its input candidates.
	candidateFor := func(i int) model.RawRoomCandidate {
		if i < len(candidates) {
			return candidates[i]
		}
		return model.RawRoomCandidate{}
	}

	var usable []model.ValidatedRoom
	var usableIdx []int
	for i, r := range rooms {
		if !r.Usable() {
			layout.Provenance = append(layout.Provenance, model.ProvenanceEntry{
				Candidate: candidateFor(i),
				Outcome:   model.OutcomeRejected,
				Reason:    r.Reason,
			})
			continue
		}
		usable = append(usable, r)
		usableIdx = append(usableIdx, i)
	}

	uf := newUnionFind(len(usable))
	for i := 0; i < len(usable); i++ {
		for j := i + 1; j < len(usable); j++ {
			if c.samePhysicalRoom(usable[i], usable[j]) {
				uf.union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := range usable {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	// Deterministic output order: groups by first-seen index.
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Slice(roots, func(a, b int) bool { return groups[roots[a]][0] < groups[roots[b]][0] })

	for _, root := range roots {
		members := groups[root]
		winner := members[0]
		for _, m := range members[1:] {
			if usable[m].Confidence > usable[winner].Confidence {
				winner = m
			}
		}
		kept := usable[winner]
		layout.Rooms = append(layout.Rooms, kept)
		layout.TotalAreaSqFt += kept.AreaSqFt

		for _, m := range members {
			entry := model.ProvenanceEntry{
				RoomID:    kept.ID,
				Candidate: candidateFor(usableIdx[m]),
				Outcome:   model.OutcomeKept,
			}
			if m != winner {
				entry.Outcome = model.OutcomeDiscarded
				entry.Reason = "duplicate of higher-confidence candidate"
				zap.L().Debug("consolidate: discarding duplicate room",
					zap.String("label", kept.Label),
					zap.Float64("kept_sqft", kept.AreaSqFt),
					zap.Float64("discarded_sqft", usable[m].AreaSqFt),
				)
			}
			layout.Provenance = append(layout.Provenance, entry)
		}
	}

	return layout
}
