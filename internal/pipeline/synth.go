package pipeline

import (
	"maps"

	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/rng"
)

// SynthesizeMonthly builds twelve months of fallback data for a monthly
// bucket. Each month draws its own base value and scales it by the bucket's
// seasonal factor. Category buckets get nil.
func SynthesizeMonthly(b model.Bucket, year int, src rng.Source) []model.MonthlyAggregate {
	if !b.IsMonthly() {
		return nil
	}
	p := config.Profile(b)

	months := make([]model.MonthlyAggregate, 12)
	for m := range months {
		base := rng.Uniform(src, p.Synthetic.Min, p.Synthetic.Max)
		months[m] = model.MonthlyAggregate{
			Month:     m,
			Year:      year,
			MonthName: MonthNames[m],
			Value:     base * p.Seasonal[m],
		}
	}
	return months
}

// FixedCategoryTotals returns a fresh copy of the fallback totals for a
// category bucket. Monthly buckets get nil.
func FixedCategoryTotals(b model.Bucket) model.CategoryTotals {
	if b.IsMonthly() {
		return nil
	}
	return model.CategoryTotals(maps.Clone(config.Profile(b).Fixed))
}
