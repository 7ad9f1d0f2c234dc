package extract

import (
	"context"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

// StaticExtractor returns a fixed candidate set, stamped with the requested
// document's identity. It backs tests and pre-extracted inputs where the
// caller already has the candidates.
type StaticExtractor struct {
	Candidates []model.RawRoomCandidate
	UnitSystem string
	Err        error
}

func (s *StaticExtractor) Extract(_ context.Context, doc model.Document) ([]model.RawRoomCandidate, string, error) {
	if s.Err != nil {
		return nil, "", s.Err
	}
	out := make([]model.RawRoomCandidate, len(s.Candidates))
	for i, c := range s.Candidates {
		c.DocumentID = doc.ID
		c.Page = doc.Page
		out[i] = c
	}
	return out, s.UnitSystem, nil
}
