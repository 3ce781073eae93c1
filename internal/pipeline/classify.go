package pipeline

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/source"
)

// Select returns the records that belong to bucket b, in file order.
func Select(records []model.RawRecord, b model.Bucket) []model.RawRecord {
	profile := config.Profile(b)
	return lo.Filter(records, func(r model.RawRecord, _ int) bool {
		return profile.Matches(r)
	})
}

// ParseValue parses a Valor field. Unparseable input yields NaN and false;
// callers keep the NaN so it propagates into sums and means.
func ParseValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}

// ClassifyStats counts the rows a classification pass could not use cleanly.
type ClassifyStats struct {
	InvalidDates     int
	NonNumericValues int
}

// ToPoints converts records to dated points sorted by date. Records whose
// date does not parse are skipped.
func ToPoints(records []model.RawRecord) ([]model.ConsumptionPoint, ClassifyStats) {
	var st ClassifyStats
	points := make([]model.ConsumptionPoint, 0, len(records))
	for _, r := range records {
		d, ok := source.ParseDate(r.Date())
		if !ok {
			st.InvalidDates++
			continue
		}
		v, ok := ParseValue(r.Value())
		if !ok {
			st.NonNumericValues++
		}
		points = append(points, model.ConsumptionPoint{Date: d, Value: v})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})
	return points, st
}

// TotalsByCategory sums Valor per Categoria.
func TotalsByCategory(records []model.RawRecord) model.CategoryTotals {
	totals, _ := totalsByCategory(records)
	return totals
}

func totalsByCategory(records []model.RawRecord) (model.CategoryTotals, ClassifyStats) {
	var st ClassifyStats
	totals := make(model.CategoryTotals)
	for _, r := range records {
		v, ok := ParseValue(r.Value())
		if !ok {
			st.NonNumericValues++
		}
		totals[r.Category()] += v
	}
	return totals, st
}
