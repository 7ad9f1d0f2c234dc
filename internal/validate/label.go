package validate

import "strings"

// canonicalLabels is the closed room vocabulary. Matching is fuzzy
// containment over the lowercased raw label, so "Master Bedroom 2" and
// "BED RM" both normalize to "bedroom". First match in order wins; more
// specific aliases are listed before the generic ones they contain.
var canonicalLabels = []struct {
	label   string
	aliases []string
}{
	{"bathroom", []string{"bathroom", "bath", "washroom", "powder", "wc", "ensuite", "en-suite"}},
	{"closet", []string{"closet", "wardrobe", "pantry", "wic", "w.i.c"}},
	{"kitchen", []string{"kitchen", "kitchenette", "kit."}},
	{"living room", []string{"living room", "living", "family room", "great room", "lounge"}},
	{"hallway", []string{"hallway", "hall", "corridor", "foyer", "entry"}},
	{"bedroom", []string{"bedroom", "bed rm", "bdrm", "bed room", "master", "guest room"}},
	{"other", []string{"dining", "office", "den", "study", "laundry", "garage", "utility", "balcony", "porch", "deck", "mudroom"}},
}

// LabelUnknown is the fallback when no vocabulary entry matches.
const LabelUnknown = "unknown"

// NormalizeLabel maps a raw extracted label onto the closed room vocabulary,
// falling back to "unknown" rather than failing.
func NormalizeLabel(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return LabelUnknown
	}
	for _, entry := range canonicalLabels {
		for _, alias := range entry.aliases {
			if strings.Contains(s, alias) {
				return entry.label
			}
		}
	}
	return LabelUnknown
}
