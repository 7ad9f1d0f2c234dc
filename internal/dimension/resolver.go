// Package dimension parses free-form dimension strings from floor-plan
// extractions into canonical lengths. Parsing is total over the declared
// grammar: an input that cannot be resolved to a unit yields a ParseError,
// never a guessed-unit value.
package dimension

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/scruffyjerk/blueprint-intelligence-engine/internal/model"
)

const (
	inchesPerMeter      = 39.3701
	inchesPerCentimeter = 0.393701
	sqFtPerSqMeter      = 10.7639

	// confBare is the degraded confidence for bare numbers resolved via a
	// unit hint and for mixed-unit pairs.
	confBare = 0.6
)

// ParseError reports an unresolvable dimension string. It is room-scoped and
// never fatal to a pipeline run.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dimension: cannot parse %q: %s", e.Input, e.Reason)
}

var (
	// 12'6", 12'-6", 12' 6", 12'
	feetInchesRe = regexp.MustCompile(`^(\d+)\s*'\s*-?\s*(?:(\d+(?:\.\d+)?)\s*(?:"|”|in)?)?$`)
	// 12.5 ft, 12.5ft, 12.5 feet
	decimalFeetRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(?:ft\.?|feet)$`)
	// 36", 36 in
	inchesRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(?:"|”|in\.?|inches)$`)
	// 3.5 m, 3,5m
	metersRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*m\.?$`)
	// 350 cm
	centimetersRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*cm\.?$`)
	// bare number, unit must come from the hint
	bareRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)$`)

	pairSplitRe = regexp.MustCompile(`\s*[xX×]\s*`)

	// 150 sq ft, 150 sqft, 150 sf
	areaImperialRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(?:sq\.?\s*ft\.?|sqft|sf)$`)
	// 14.8 m², 14.8 m2, 14.8 sqm
	areaMetricRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*(?:m\s*[²2]|sq\.?\s*m\.?|sqm)$`)
)

func num(s string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	return f
}

// Parse resolves a single dimension string into canonical inches. The hint is
// only consulted for bare numbers; explicit units always win. A bare number
// with no hint fails rather than guessing.
func Parse(s string, hint model.Unit) (model.Dimension, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return model.Dimension{}, &ParseError{Input: raw, Reason: "empty string"}
	}

	if m := feetInchesRe.FindStringSubmatch(s); m != nil {
		inches := num(m[1]) * 12
		if m[2] != "" {
			inches += num(m[2])
		}
		return dim(inches, model.UnitFeetInches, 1.0, raw)
	}
	if m := decimalFeetRe.FindStringSubmatch(s); m != nil {
		return dim(num(m[1])*12, model.UnitDecimalFeet, 1.0, raw)
	}
	if m := inchesRe.FindStringSubmatch(s); m != nil {
		return dim(num(m[1]), model.UnitInches, 1.0, raw)
	}
	if m := centimetersRe.FindStringSubmatch(s); m != nil {
		return dim(num(m[1])*inchesPerCentimeter, model.UnitCentimeters, 1.0, raw)
	}
	if m := metersRe.FindStringSubmatch(s); m != nil {
		return dim(num(m[1])*inchesPerMeter, model.UnitMeters, 1.0, raw)
	}
	if m := bareRe.FindStringSubmatch(s); m != nil {
		if hint == "" || hint == model.UnitUnknown {
			return model.Dimension{}, &ParseError{Input: raw, Reason: "bare number with no unit hint"}
		}
		d, err := bareWithHint(num(m[1]), hint, raw)
		if err != nil {
			return model.Dimension{}, err
		}
		return d, nil
	}

	return model.Dimension{}, &ParseError{Input: raw, Reason: "unrecognized format"}
}

func bareWithHint(v float64, hint model.Unit, raw string) (model.Dimension, error) {
	switch hint {
	case model.UnitFeetInches, model.UnitDecimalFeet:
		return dim(v*12, hint, confBare, raw)
	case model.UnitInches:
		return dim(v, hint, confBare, raw)
	case model.UnitMeters:
		return dim(v*inchesPerMeter, hint, confBare, raw)
	case model.UnitCentimeters:
		return dim(v*inchesPerCentimeter, hint, confBare, raw)
	default:
		return model.Dimension{}, &ParseError{Input: raw, Reason: fmt.Sprintf("unsupported unit hint %q", hint)}
	}
}

func dim(inches float64, unit model.Unit, conf float64, raw string) (model.Dimension, error) {
	if inches <= 0 {
		return model.Dimension{}, &ParseError{Input: raw, Reason: "non-positive magnitude"}
	}
	return model.Dimension{Inches: inches, Unit: unit, Confidence: conf, Raw: strings.TrimSpace(raw)}, nil
}

// ParsePair resolves a "W x L" label into two dimensions. A pair that mixes
// metric and imperial units parses, but both sides are degraded to the bare-
// number confidence.
func ParsePair(s string, hint model.Unit) (model.Dimension, model.Dimension, error) {
	parts := pairSplitRe.Split(strings.TrimSpace(s), -1)
	if len(parts) != 2 {
		return model.Dimension{}, model.Dimension{}, &ParseError{Input: s, Reason: "expected two lengths separated by x"}
	}
	w, err := Parse(parts[0], hint)
	if err != nil {
		return model.Dimension{}, model.Dimension{}, err
	}
	// The first side's unit serves as hint for a bare second side: "12' x 9".
	l, err := Parse(parts[1], w.Unit)
	if err != nil {
		return model.Dimension{}, model.Dimension{}, err
	}
	if mixedSystems(w.Unit, l.Unit) {
		w.Confidence = math.Min(w.Confidence, confBare)
		l.Confidence = math.Min(l.Confidence, confBare)
	}
	return w, l, nil
}

func mixedSystems(a, b model.Unit) bool {
	return metric(a) != metric(b)
}

func metric(u model.Unit) bool {
	return u == model.UnitMeters || u == model.UnitCentimeters
}

// ParseArea resolves an area string into square feet. Bare numbers resolve
// through the hint's unit system.
func ParseArea(s string, hint model.Unit) (float64, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &ParseError{Input: raw, Reason: "empty string"}
	}
	if m := areaImperialRe.FindStringSubmatch(s); m != nil {
		return num(m[1]), nil
	}
	if m := areaMetricRe.FindStringSubmatch(s); m != nil {
		return num(m[1]) * sqFtPerSqMeter, nil
	}
	if m := bareRe.FindStringSubmatch(s); m != nil {
		if metric(hint) {
			return num(m[1]) * sqFtPerSqMeter, nil
		}
		if hint == "" || hint == model.UnitUnknown {
			return 0, &ParseError{Input: raw, Reason: "bare area with no unit hint"}
		}
		return num(m[1]), nil
	}
	return 0, &ParseError{Input: raw, Reason: "unrecognized area format"}
}

// Format renders a dimension in its original unit system such that parsing
// the result yields the same canonical magnitude.
func Format(d model.Dimension) string {
	switch d.Unit {
	case model.UnitFeetInches:
		feet := math.Floor(d.Inches / 12)
		inches := d.Inches - feet*12
		return fmt.Sprintf("%.0f'%s\"", feet, trimFloat(inches))
	case model.UnitDecimalFeet:
		return trimFloat(d.Inches/12) + " ft"
	case model.UnitInches:
		return trimFloat(d.Inches) + "\""
	case model.UnitMeters:
		return trimFloat(d.Inches/inchesPerMeter) + " m"
	case model.UnitCentimeters:
		return trimFloat(d.Inches/inchesPerCentimeter) + " cm"
	default:
		return trimFloat(d.Inches) + "\""
	}
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
