// Package material computes per-room material quantities from a consolidated
// layout. All formulas are deterministic given the layout and configuration,
// and every quantity carries its room's confidence through unchanged.
package material

import (
	"math"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

// Config holds the estimation factors. Zero values fall back to defaults via
// New; a caller that genuinely wants a zero waste factor sets it explicitly
// after DefaultConfig.
type Config struct {
	// WasteFactor is the cutting-loss overage applied to flooring area and
	// drywall panels. Default 0.10.
	WasteFactor float64
	// WallHeightFt is the assumed wall height. Default 8.
	WallHeightFt float64
	// OpeningDeduction is the flat door/window allowance subtracted from
	// wall area, absent per-opening data. Default 0.15.
	OpeningDeduction float64
	// PanelSqFt is the coverage of one drywall panel (4x8 sheet). Default 32.
	PanelSqFt float64
	// PaintCoverageSqFt is wall area covered per gallon. Default 350.
	PaintCoverageSqFt float64
	// PaintCoats is the number of coats. Default 2.
	PaintCoats int
	// CeilingPaintCoats is the number of ceiling coats. Default 1.
	CeilingPaintCoats int
	// CrownWasteFactor is the miter-cut overage for crown molding, which
	// wastes more than straight baseboard runs. Default 0.15.
	CrownWasteFactor float64
	// NonFloored lists normalized labels excluded from flooring, e.g.
	// closets when policy says so. Default empty.
	NonFloored map[string]bool
}

// DefaultConfig returns the default estimation factors.
func DefaultConfig() Config {
	return Config{
		WasteFactor:       0.10,
		WallHeightFt:      8,
		OpeningDeduction:  0.15,
		PanelSqFt:         32,
		PaintCoverageSqFt: 350,
		PaintCoats:        2,
		CeilingPaintCoats: 1,
		CrownWasteFactor:  0.15,
	}
}

// Estimator computes material quantities.
type Estimator struct {
	cfg Config
}

// New creates an Estimator, filling unset structural constants (wall height,
// panel size, coverage, coats) with defaults. WasteFactor and
// OpeningDeduction are taken as given so zero is a valid policy.
func New(cfg Config) *Estimator {
	def := DefaultConfig()
	if cfg.WallHeightFt <= 0 {
		cfg.WallHeightFt = def.WallHeightFt
	}
	if cfg.PanelSqFt <= 0 {
		cfg.PanelSqFt = def.PanelSqFt
	}
	if cfg.PaintCoverageSqFt <= 0 {
		cfg.PaintCoverageSqFt = def.PaintCoverageSqFt
	}
	if cfg.PaintCoats <= 0 {
		cfg.PaintCoats = def.PaintCoats
	}
	if cfg.CeilingPaintCoats <= 0 {
		cfg.CeilingPaintCoats = def.CeilingPaintCoats
	}
	if cfg.CrownWasteFactor <= 0 {
		cfg.CrownWasteFactor = def.CrownWasteFactor
	}
	return &Estimator{cfg: cfg}
}

// Estimate produces quantities for every usable room in the layout.
func (e *Estimator) Estimate(layout model.Layout) []model.MaterialQuantity {
	var out []model.MaterialQuantity
	for _, room := range layout.Rooms {
		if !room.Usable() {
			continue
		}
		out = append(out, e.EstimateRoom(room)...)
	}
	return out
}

// EstimateRoom computes flooring, drywall, wall and ceiling paint, and trim
// quantities for one room.
func (e *Estimator) EstimateRoom(room model.ValidatedRoom) []model.MaterialQuantity {
	quantities := make([]model.MaterialQuantity, 0, 6)

	if !e.cfg.NonFloored[room.Label] {
		quantities = append(quantities, model.MaterialQuantity{
			RoomID:     room.ID,
			RoomLabel:  room.Label,
			Category:   model.CategoryFlooring,
			Base:       room.AreaSqFt,
			Adjusted:   room.AreaSqFt * (1 + e.cfg.WasteFactor),
			Unit:       "sqft",
			LaborBasis: room.AreaSqFt,
			Confidence: room.Confidence,
		})
	}

	// Net wall area after the flat opening deduction.
	wallArea := room.PerimeterFt * e.cfg.WallHeightFt * (1 - e.cfg.OpeningDeduction)

	panels := wallArea / e.cfg.PanelSqFt
	quantities = append(quantities, model.MaterialQuantity{
		RoomID:     room.ID,
		RoomLabel:  room.Label,
		Category:   model.CategoryDrywall,
		Base:       panels,
		Adjusted:   math.Ceil(panels * (1 + e.cfg.WasteFactor)),
		Unit:       "panel",
		LaborBasis: wallArea,
		Confidence: room.Confidence,
	})

	gallons := wallArea * float64(e.cfg.PaintCoats) / e.cfg.PaintCoverageSqFt
	quantities = append(quantities, model.MaterialQuantity{
		RoomID:     room.ID,
		RoomLabel:  room.Label,
		Category:   model.CategoryPaint,
		Base:       gallons,
		Adjusted:   math.Ceil(gallons),
		Unit:       "gallon",
		LaborBasis: wallArea,
		Confidence: room.Confidence,
	})

	ceilingGallons := room.AreaSqFt * float64(e.cfg.CeilingPaintCoats) / e.cfg.PaintCoverageSqFt
	quantities = append(quantities, model.MaterialQuantity{
		RoomID:     room.ID,
		RoomLabel:  room.Label,
		Category:   model.CategoryCeilingPaint,
		Base:       ceilingGallons,
		Adjusted:   math.Ceil(ceilingGallons),
		Unit:       "gallon",
		LaborBasis: room.AreaSqFt,
		Confidence: room.Confidence,
	})

	// Trim runs along the full perimeter; waste stays in linear feet so a
	// per-foot price applies directly.
	quantities = append(quantities, model.MaterialQuantity{
		RoomID:     room.ID,
		RoomLabel:  room.Label,
		Category:   model.CategoryBaseboard,
		Base:       room.PerimeterFt,
		Adjusted:   room.PerimeterFt * (1 + e.cfg.WasteFactor),
		Unit:       "linear_ft",
		LaborBasis: room.PerimeterFt,
		Confidence: room.Confidence,
	})

	quantities = append(quantities, model.MaterialQuantity{
		RoomID:     room.ID,
		RoomLabel:  room.Label,
		Category:   model.CategoryCrownMolding,
		Base:       room.PerimeterFt,
		Adjusted:   room.PerimeterFt * (1 + e.cfg.CrownWasteFactor),
		Unit:       "linear_ft",
		LaborBasis: room.PerimeterFt,
		Confidence: room.Confidence,
	})

	return quantities
}
