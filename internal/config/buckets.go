package config

import (
	"slices"

	"github.com/theirongolddev/estalvi/internal/model"
)

// Range is a closed interval used for uniform draws.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// BucketProfile holds every fixed constant that drives one bucket.
type BucketProfile struct {
	Label string
	Unit  string

	// Classification tags.
	Type       string
	Categories []string

	// Forecast offsets applied as baseline*(1+U).
	NextYear   Range
	NextCourse Range

	// Potential savings, in percent.
	Savings Range

	// Synthetic fallback. Monthly buckets draw a base value from Synthetic
	// and scale it by Seasonal; category buckets use Fixed as-is.
	Synthetic Range
	Seasonal  [12]float64
	Fixed     map[string]float64
}

// Matches reports whether a raw record belongs to this bucket.
func (p BucketProfile) Matches(r model.RawRecord) bool {
	return r.Type() == p.Type && slices.Contains(p.Categories, r.Category())
}

// DefaultProfiles maps each bucket to its constants.
var DefaultProfiles = map[model.Bucket]BucketProfile{
	model.Electric: {
		Label: "Consum Elèctric", Unit: "kWh",
		Type: "Energia", Categories: []string{"Consum"},
		NextYear:   Range{-0.05, 0.05},
		NextCourse: Range{-0.03, 0.05},
		Savings:    Range{15, 25},
		Synthetic:  Range{300, 350},
		// Higher in winter, lower in summer.
		Seasonal: [12]float64{1.2, 1.2, 1.0, 0.9, 0.8, 0.8, 0.7, 0.7, 0.9, 1.0, 1.1, 1.2},
	},
	model.Water: {
		Label: "Consum d'Aigua", Unit: "m³",
		Type: "Aigua", Categories: []string{"Consum"},
		NextYear:   Range{-0.05, 0.10},
		NextCourse: Range{-0.02, 0.08},
		Savings:    Range{10, 20},
		Synthetic:  Range{5000, 9000},
		Seasonal:   [12]float64{0.8, 0.8, 0.9, 1.0, 1.1, 1.2, 1.2, 1.2, 1.0, 0.9, 0.8, 0.8},
	},
	model.Office: {
		Label: "Consumibles d'Oficina", Unit: "€",
		Type: "Consumible", Categories: []string{"Papel Universal", "Marcador", "Internet", "Treballs"},
		NextYear:   Range{-0.02, 0.06},
		NextCourse: Range{0, 0.12},
		Savings:    Range{20, 30},
		Fixed: map[string]float64{
			"Papel Universal": 198.56,
			"Marcador":        34.36,
			"Internet":        50,
			"Treballs":        454.72,
		},
	},
	model.Cleaning: {
		Label: "Productes de Neteja", Unit: "€",
		Type: "Consumible", Categories: []string{"WC", "Extraordinaris"},
		NextYear:   Range{0, 0.07},
		NextCourse: Range{0, 0.05},
		Savings:    Range{5, 15},
		Fixed: map[string]float64{
			"WC":             620.05,
			"Extraordinaris": 2548.02,
		},
	},
}

// Profile returns the constants for a bucket.
func Profile(b model.Bucket) BucketProfile {
	return DefaultProfiles[b]
}
