package model

import "time"

// Category identifies a material category.
type Category string

const (
	CategoryFlooring     Category = "flooring"
	CategoryDrywall      Category = "drywall"
	CategoryPaint        Category = "paint"
	CategoryCeilingPaint Category = "ceiling_paint"
	CategoryBaseboard    Category = "baseboard"
	CategoryCrownMolding Category = "crown_molding"
)

// MaterialQuantity is a derived per-room per-category quantity. It is
// recomputed whenever the owning room changes and never mutated in place.
// Confidence is carried through unchanged from the owning room.
type MaterialQuantity struct {
	RoomID    string   `json:"room_id"`
	RoomLabel string   `json:"room_label"`
	Category  Category `json:"category"`
	Base      float64  `json:"base"`
	Adjusted  float64  `json:"adjusted"`
	Unit      string   `json:"unit"`
	// LaborBasis is the installed measure labor is billed against: square
	// footage for area materials, linear footage for trim. It differs from
	// Adjusted for unit-rounded quantities (panels, gallons).
	LaborBasis float64 `json:"labor_basis"`
	Confidence float64 `json:"confidence"`
}

// CostBand holds low/mid/high monetary totals in dollars.
type CostBand struct {
	Low  float64 `json:"low"`
	Mid  float64 `json:"mid"`
	High float64 `json:"high"`
}

// Add accumulates another band into this one.
func (b *CostBand) Add(o CostBand) {
	b.Low += o.Low
	b.Mid += o.Mid
	b.High += o.High
}

// CostEstimate is an immutable snapshot of costed quantities, tied to the
// pricing table version that produced it.
type CostEstimate struct {
	ByCategory map[Category]CostBand `json:"by_category"`
	// Total is the materials subtotal, always the sum of ByCategory.
	Total CostBand `json:"total"`
	// Labor, Contingency, and GrandTotal are present only when the
	// calculator is configured for them. Labor is a single figure because
	// rates do not vary by material tier.
	Labor          float64   `json:"labor,omitempty"`
	Contingency    *CostBand `json:"contingency,omitempty"`
	GrandTotal     *CostBand `json:"grand_total,omitempty"`
	PricingVersion string    `json:"pricing_version"`
}

// RoomConfidence is the per-room entry of a confidence report.
type RoomConfidence struct {
	RoomID     string  `json:"room_id"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// ExcludedRoom lists a room that did not contribute to the estimate.
type ExcludedRoom struct {
	Label  string `json:"label"`
	Reason string `json:"reason"`
}

// ConfidenceReport is advisory metadata attached to every report. It never
// gates or blocks computation.
type ConfidenceReport struct {
	Overall  float64          `json:"overall"`
	Rooms    []RoomConfidence `json:"rooms"`
	Excluded []ExcludedRoom   `json:"excluded,omitempty"`
}

// RunStatus tracks a pipeline run through its state machine.
type RunStatus string

const (
	RunStatusReceived     RunStatus = "received"
	RunStatusExtracted    RunStatus = "extracted"
	RunStatusValidated    RunStatus = "validated"
	RunStatusConsolidated RunStatus = "consolidated"
	RunStatusEstimated    RunStatus = "estimated"
	RunStatusReported     RunStatus = "reported"
	RunStatusFailed       RunStatus = "failed"
)

// Report statuses surfaced to the caller.
const (
	ReportComplete = "complete"
	ReportPartial  = "partial"
	ReportFailed   = "failed"
)

// Report is the single output object of a pipeline run.
type Report struct {
	RunID         string             `json:"run_id"`
	DocumentID    string             `json:"document_id"`
	Status        string             `json:"status"`
	ExcludedRooms int                `json:"excluded_rooms"`
	FailureReason string             `json:"failure_reason,omitempty"`
	Layout        Layout             `json:"layout"`
	Quantities    []MaterialQuantity `json:"quantities,omitempty"`
	Costs         *CostEstimate      `json:"costs,omitempty"`
	Confidence    ConfidenceReport   `json:"confidence"`
	GeneratedAt   time.Time          `json:"generated_at"`
}

// Run is the persisted record of one pipeline execution.
type Run struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Status     RunStatus `json:"status"`
	Report     *Report   `json:"report,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Document identifies one floor-plan input to the pipeline.
type Document struct {
	ID   string `json:"id"`
	Path string `json:"path,omitempty"`
	Page int    `json:"page"`
}
