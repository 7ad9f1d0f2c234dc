// Package extract turns a floor-plan document into raw room candidates by
// asking a vision model to read the dimension labels off the drawing. The
// model's answer is decoded leniently: fenced JSON, numeric-or-string fields,
// and word confidences are all accepted.
package extract

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

// Extractor produces unverified room candidates for a document, plus the
// unit system the drawing appears to use ("imperial", "metric", or "").
type Extractor interface {
	Extract(ctx context.Context, doc model.Document) ([]model.RawRoomCandidate, string, error)
}

// analysisPrompt instructs the vision model to read dimension labels off the
// drawing and answer in a fixed JSON shape. Measurements stay in the units
// printed on the plan; the validator handles conversion.
const analysisPrompt = `You are an expert construction estimator analyzing a residential floor plan. Your task is to READ and EXTRACT the exact dimension labels shown on the drawing.

First determine whether the plan is METRIC (m, cm, mm, m²) or IMPERIAL (feet ', inches ", sq ft). Then scan the entire image for dimension annotations: numbers on dimension lines, room labels that include sizes (e.g. BEDROOM 12x14 or 3.5m x 4.2m), and area labels inside rooms (e.g. 14.8 m² or 150 sq ft). Labels may sit outside the room boundary.

For each room where you can read dimension labels, use the EXACT numbers shown, in their ORIGINAL units, and mark confidence "high". For rooms without visible labels, estimate proportionally against labelled rooms and mark confidence "medium", or "low" if no reference dimensions exist. Include every room and space you can identify, including halls and closets.

Return ONLY a JSON object, no additional text:
{
    "rooms": [
        {
            "name": "Room name as printed, e.g. Master Bedroom",
            "width": "width with its unit notation, e.g. 12'6\" or 4.5m",
            "length": "length with its unit notation",
            "area": "area label if printed on the plan, else omit",
            "confidence": "high, medium, or low"
        }
    ],
    "unit_system": "imperial or metric",
    "warnings": ["rooms whose dimensions were estimated rather than read"]
}

Do NOT convert between unit systems, and never invent a 0 or null dimension.`

// confidenceScore maps the model's word confidence to a numeric one.
func confidenceScore(word string) float64 {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "high":
		return 0.9
	case "low":
		return 0.3
	default:
		return 0.6
	}
}

// UnitHint maps an extractor's unit-system answer to a parsing hint for
// bare-number dimensions.
func UnitHint(system string) model.Unit {
	switch strings.ToLower(strings.TrimSpace(system)) {
	case "imperial":
		return model.UnitDecimalFeet
	case "metric":
		return model.UnitMeters
	default:
		return model.UnitUnknown
	}
}

// decodeCandidates parses the vision model's answer text into room
// candidates. The answer is expected to be the JSON object requested by
// analysisPrompt, possibly wrapped in markdown fences or prose.
func decodeCandidates(text string, doc model.Document) ([]model.RawRoomCandidate, string, error) {
	cleaned := cleanJSON(text)

	var rawMap map[string]any
	if err := json.Unmarshal([]byte(cleaned), &rawMap); err != nil {
		return nil, "", eris.Wrapf(err, "extract: unparseable answer for document %s", doc.ID)
	}

	system, _ := rawMap["unit_system"].(string)
	system = strings.ToLower(strings.TrimSpace(system))

	if warnings, ok := rawMap["warnings"].([]any); ok && len(warnings) > 0 {
		zap.L().Warn("extract: model reported estimated dimensions",
			zap.String("document_id", doc.ID),
			zap.Any("warnings", warnings),
		)
	}

	roomsRaw, _ := rawMap["rooms"].([]any)
	candidates := make([]model.RawRoomCandidate, 0, len(roomsRaw))
	for _, r := range roomsRaw {
		entry, ok := r.(map[string]any)
		if !ok {
			continue
		}

		var dims []string
		if w := fieldString(entry["width"]); w != "" {
			dims = append(dims, w)
		}
		if l := fieldString(entry["length"]); l != "" {
			dims = append(dims, l)
		}

		label, _ := entry["name"].(string)
		word, _ := entry["confidence"].(string)

		candidates = append(candidates, model.RawRoomCandidate{
			Label:      strings.TrimSpace(label),
			Dimensions: dims,
			StatedArea: fieldString(entry["area"]),
			DocumentID: doc.ID,
			Page:       doc.Page,
			Confidence: confidenceScore(word),
		})
	}

	return candidates, system, nil
}

// fieldString coerces a JSON field that may arrive as a string or a number.
func fieldString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// cleanJSON strips markdown fences and surrounding prose from a model answer,
// keeping the outermost JSON object.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
