package dress

import "strings"

// Types is the closed set of dress types, in display order.
var Types = []Type{TypeWedding, TypeCasual, TypeEvening, TypeCocktail, TypeParty, TypeProm}

// ExtractionSizes is the size allow-list applied to scraped records.
// It does not include xl even though the catalog does.
var ExtractionSizes = []Size{SizeXS, SizeS, SizeM, SizeL}

// CatalogSizes is every size the store accepts.
var CatalogSizes = []Size{SizeXS, SizeS, SizeM, SizeL, SizeXL}

// DefaultSizes is used when a record carries no size information.
func DefaultSizes() []Size {
	return []Size{SizeS, SizeM, SizeL}
}

// SanitizeType lower-cases and trims raw and returns it when it names a known
// type. Anything else, including the empty string, becomes casual.
func SanitizeType(raw string) Type {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Types {
		if t == known {
			return t
		}
	}
	return TypeCasual
}

// SanitizeSizes normalizes raw size tokens against ExtractionSizes. A nil
// input yields DefaultSizes. Unknown tokens are dropped; order and duplicates
// are kept.
func SanitizeSizes(raw []string) []Size {
	if raw == nil {
		return DefaultSizes()
	}
	out := make([]Size, 0, len(raw))
	for _, tok := range raw {
		s := Size(strings.ToLower(strings.TrimSpace(tok)))
		if isExtractionSize(s) {
			out = append(out, s)
		}
	}
	return out
}

func isExtractionSize(s Size) bool {
	for _, known := range ExtractionSizes {
		if s == known {
			return true
		}
	}
	return false
}
