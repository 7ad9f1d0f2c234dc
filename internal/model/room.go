package model

// Unit tags the original measurement system of a parsed dimension.
type Unit string

const (
	UnitFeetInches  Unit = "ft-in"
	UnitDecimalFeet Unit = "ft"
	UnitInches      Unit = "in"
	UnitMeters      Unit = "m"
	UnitCentimeters Unit = "cm"
	UnitUnknown     Unit = "unknown"
)

// Dimension is a resolved length in canonical inches, tagged with the unit
// it was parsed from and a parse confidence in [0,1].
type Dimension struct {
	Inches     float64 `json:"inches"`
	Unit       Unit    `json:"unit"`
	Confidence float64 `json:"confidence"`
	Raw        string  `json:"raw,omitempty"`
}

// Feet returns the magnitude in decimal feet.
func (d Dimension) Feet() float64 {
	return d.Inches / 12
}

// IsZero reports whether the dimension is unset.
func (d Dimension) IsZero() bool {
	return d.Inches == 0 && d.Unit == ""
}

// RawRoomCandidate is a single unverified room guess from the extraction
// collaborator. Candidates are immutable once produced; multiple candidates
// may refer to the same physical room.
type RawRoomCandidate struct {
	Label      string   `json:"label,omitempty"`
	Dimensions []string `json:"dimensions"`
	StatedArea string   `json:"stated_area,omitempty"`
	DocumentID string   `json:"document_id"`
	Page       int      `json:"page"`
	Confidence float64  `json:"confidence"`
}

// ValidationStatus classifies the outcome of room validation.
type ValidationStatus string

const (
	StatusOK       ValidationStatus = "ok"
	StatusFlagged  ValidationStatus = "flagged"
	StatusRejected ValidationStatus = "rejected"
)

// ValidatedRoom is a room with resolved geometry and a canonical label.
// Area is always recomputed from width and length, never trusted from the
// extraction source.
type ValidatedRoom struct {
	ID          string           `json:"id"`
	Label       string           `json:"label"`
	RawLabel    string           `json:"raw_label,omitempty"`
	Width       Dimension        `json:"width"`
	Length      Dimension        `json:"length"`
	AreaSqFt    float64          `json:"area_sqft"`
	PerimeterFt float64          `json:"perimeter_ft"`
	Status      ValidationStatus `json:"status"`
	Reason      string           `json:"reason,omitempty"`
	Confidence  float64          `json:"confidence"`
	DocumentID  string           `json:"document_id,omitempty"`
	Page        int              `json:"page"`
}

// Usable reports whether the room contributes to quantity and cost
// computation. Rejected rooms are audit-only.
func (r ValidatedRoom) Usable() bool {
	return r.Status == StatusOK || r.Status == StatusFlagged
}
