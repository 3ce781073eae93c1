// Package pipeline turns parsed records into per-bucket aggregates and snapshots.
package pipeline

import (
	"sort"

	"github.com/theirongolddev/estalvi/internal/model"
)

// MonthNames are the display names for months 0-11.
var MonthNames = [12]string{
	"Gener", "Febrer", "Març", "Abril", "Maig", "Juny",
	"Juliol", "Agost", "Setembre", "Octubre", "Novembre", "Desembre",
}

type monthKey struct {
	year  int
	month int
}

// AggregateByMonth groups points by calendar month (UTC) and returns the
// mean value of each group in chronological order.
func AggregateByMonth(points []model.ConsumptionPoint) []model.MonthlyAggregate {
	type acc struct {
		total float64
		count int
	}
	groups := make(map[monthKey]*acc)

	for _, p := range points {
		d := p.Date.UTC()
		k := monthKey{year: d.Year(), month: int(d.Month()) - 1}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.total += p.Value
		a.count++
	}

	result := make([]model.MonthlyAggregate, 0, len(groups))
	for k, a := range groups {
		result = append(result, model.MonthlyAggregate{
			Month:     k.month,
			Year:      k.year,
			MonthName: MonthNames[k.month],
			Value:     a.total / float64(a.count),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result
}
