// Package validate turns raw extraction candidates into validated rooms with
// recomputed geometry. Unparseable candidates are rejected, never fatal: the
// caller records them in provenance and moves on.
package validate

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/dimension"
	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

// Config holds validation tolerances.
type Config struct {
	// AreaMismatchTolerance is the max relative difference between the
	// computed area and an independently stated area before the room is
	// flagged. Default 0.10.
	AreaMismatchTolerance float64
	// UnitHint biases bare-number parsing toward a unit system, typically
	// the one the extraction step detected for the whole document.
	UnitHint model.Unit
}

// DefaultConfig returns the default validation tolerances.
func DefaultConfig() Config {
	return Config{AreaMismatchTolerance: 0.10}
}

// Validator validates raw room candidates.
type Validator struct {
	cfg Config
}

// New creates a Validator. A zero tolerance falls back to the default.
func New(cfg Config) *Validator {
	if cfg.AreaMismatchTolerance <= 0 {
		cfg.AreaMismatchTolerance = DefaultConfig().AreaMismatchTolerance
	}
	return &Validator{cfg: cfg}
}

// Validate resolves a candidate's dimension strings and produces a
// ValidatedRoom. Area is recomputed from width and length; a stated area that
// disagrees beyond the tolerance flags the room and halves its confidence. A
// room is rejected only when no usable numeric dimension exists at all or the
// computed area is non-positive.
func (v *Validator) Validate(c model.RawRoomCandidate) model.ValidatedRoom {
	room := model.ValidatedRoom{
		ID:         uuid.New().String(),
		Label:      NormalizeLabel(c.Label),
		RawLabel:   c.Label,
		DocumentID: c.DocumentID,
		Page:       c.Page,
	}

	width, length, squared, ok := v.resolveDimensions(c)
	if squared {
		room.Status = model.StatusFlagged
		room.Reason = "single dimension, square footprint assumed"
	}
	if !ok {
		// Last resort: a stated area alone still describes usable geometry,
		// modeled as a square footprint and flagged.
		if area, err := dimension.ParseArea(c.StatedArea, v.cfg.UnitHint); err == nil && area > 0 {
			side := math.Sqrt(area) * 12 // inches
			width = model.Dimension{Inches: side, Unit: v.cfg.UnitHint, Confidence: 0.5, Raw: c.StatedArea}
			length = width
			room.Status = model.StatusFlagged
			room.Reason = "dimensions inferred from stated area"
		} else {
			room.Status = model.StatusRejected
			room.Reason = "no usable numeric dimension"
			return room
		}
	}

	room.Width = width
	room.Length = length
	room.AreaSqFt = width.Feet() * length.Feet()
	room.PerimeterFt = 2 * (width.Feet() + length.Feet())
	room.Confidence = c.Confidence * (width.Confidence + length.Confidence) / 2

	if room.AreaSqFt <= 0 {
		room.Status = model.StatusRejected
		room.Reason = "computed area is non-positive"
		return room
	}

	if room.Status == "" {
		room.Status = model.StatusOK
	}

	// Cross-check against an independently stated area when present.
	if c.StatedArea != "" && room.Reason != "dimensions inferred from stated area" {
		if stated, err := dimension.ParseArea(c.StatedArea, v.cfg.UnitHint); err == nil && stated > 0 {
			rel := math.Abs(room.AreaSqFt-stated) / math.Max(room.AreaSqFt, stated)
			if rel > v.cfg.AreaMismatchTolerance {
				room.Status = model.StatusFlagged
				room.Reason = fmt.Sprintf("stated area %.1f sqft disagrees with computed %.1f sqft", stated, room.AreaSqFt)
				room.Confidence /= 2
				zap.L().Debug("validate: area mismatch",
					zap.String("label", room.Label),
					zap.Float64("computed_sqft", room.AreaSqFt),
					zap.Float64("stated_sqft", stated),
				)
			}
		}
	}

	return room
}

// resolveDimensions extracts width and length from the candidate's raw
// dimension strings. Strings containing an "x" are treated as pairs; single
// lengths fill width then length in order. A lone usable length yields a
// square footprint, reported through the squared flag.
func (v *Validator) resolveDimensions(c model.RawRoomCandidate) (w, l model.Dimension, squared, ok bool) {
	var lengths []model.Dimension
	for _, s := range c.Dimensions {
		if pw, pl, err := dimension.ParsePair(s, v.cfg.UnitHint); err == nil {
			return pw, pl, false, true
		}
		d, err := dimension.Parse(s, v.cfg.UnitHint)
		if err != nil {
			zap.L().Debug("validate: skipping unparseable dimension",
				zap.String("label", c.Label), zap.String("input", s), zap.Error(err))
			continue
		}
		lengths = append(lengths, d)
		if len(lengths) == 2 {
			return lengths[0], lengths[1], false, true
		}
	}
	if len(lengths) == 1 {
		return lengths[0], lengths[0], true, true
	}
	return model.Dimension{}, model.Dimension{}, false, false
}
