package model

// ProvenanceOutcome describes what happened to a raw candidate during
// validation and consolidation.
type ProvenanceOutcome string

const (
	OutcomeKept      ProvenanceOutcome = "kept"
	OutcomeDiscarded ProvenanceOutcome = "discarded_duplicate"
	OutcomeRejected  ProvenanceOutcome = "rejected"
)

// ProvenanceEntry records which raw candidate produced (or was discarded in
// favor of) a room in the layout. Candidates are referenced for audit, never
// owned by the layout.
type ProvenanceEntry struct {
	RoomID    string            `json:"room_id,omitempty"`
	Candidate RawRoomCandidate  `json:"candidate"`
	Outcome   ProvenanceOutcome `json:"outcome"`
	Reason    string            `json:"reason,omitempty"`
}

// Layout is the building-level aggregate: the consolidated set of rooms with
// stable identities plus the audit trail of every candidate seen. Rooms holds
// only usable (ok or flagged) rooms; rejected candidates appear in Provenance
// only.
type Layout struct {
	Rooms         []ValidatedRoom   `json:"rooms"`
	TotalAreaSqFt float64           `json:"total_area_sqft"`
	Provenance    []ProvenanceEntry `json:"provenance"`
}

// Room returns the room with the given ID, or nil.
func (l *Layout) Room(id string) *ValidatedRoom {
	for i := range l.Rooms {
		if l.Rooms[i].ID == id {
			return &l.Rooms[i]
		}
	}
	return nil
}
