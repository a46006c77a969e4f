// Package dress defines the dress record shared by the gallery extractor,
// the seed sync driver and the API, along with the allow-list sanitizers
// that normalize scraped field values.
package dress

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Type is a dress category tag.
type Type string

const (
	TypeWedding  Type = "wedding"
	TypeCasual   Type = "casual"
	TypeEvening  Type = "evening"
	TypeCocktail Type = "cocktail"
	TypeParty    Type = "party"
	TypeProm     Type = "prom"
)

// Size is a dress size tag.
type Size string

const (
	SizeXS Size = "xs"
	SizeS  Size = "s"
	SizeM  Size = "m"
	SizeL  Size = "l"
	SizeXL Size = "xl"
)

// Record is one dress entry. Records are treated as values: the extractor
// builds them once and nothing downstream mutates them.
type Record struct {
	ID     int    `json:"id" yaml:"id" validate:"gt=0"`
	Name   string `json:"name" yaml:"name" validate:"required"`
	Price  int    `json:"price" yaml:"price" validate:"gte=0"`
	Type   Type   `json:"type" yaml:"type" validate:"oneof=wedding casual evening cocktail party prom"`
	Sizes  []Size `json:"sizes" yaml:"sizes" validate:"dive,oneof=xs s m l xl"`
	Colour string `json:"colour" yaml:"colour" validate:"required"`
	Image  string `json:"image" yaml:"image"`
}

// HasImage reports whether the record points at an image.
func (r Record) HasImage() bool {
	return strings.TrimSpace(r.Image) != ""
}

// HasSize reports whether s is one of the record's sizes.
func (r Record) HasSize(s Size) bool {
	for _, rs := range r.Sizes {
		if rs == s {
			return true
		}
	}
	return false
}

var validate = validator.New()

// Validate checks a record against the catalog constraints. Unlike the
// extraction allow-list, the catalog accepts xl.
func Validate(r Record) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid dress %d: %w", r.ID, err)
	}
	return nil
}

// ValidateAll validates every record and rejects duplicate ids.
func ValidateAll(records []Record) error {
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		if err := Validate(r); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate dress id %d", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}
