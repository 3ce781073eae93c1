package model

import (
	"sort"
	"time"
)

// MonthlyAggregate is the mean value of one (year, month) group.
type MonthlyAggregate struct {
	Month     int // 0-11
	Year      int
	MonthName string
	Value     float64
}

// CategoryTotals maps a category label to its accumulated total.
type CategoryTotals map[string]float64

// Labels returns the category labels in sorted order.
func (c CategoryTotals) Labels() []string {
	labels := make([]string, 0, len(c))
	for k := range c {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	return labels
}

// Total sums all categories in label order so repeated calls agree bit for bit.
func (c CategoryTotals) Total() float64 {
	var total float64
	for _, k := range c.Labels() {
		total += c[k]
	}
	return total
}

// SeriesSource tags where a bucket's data came from.
type SeriesSource int

const (
	SourceReal SeriesSource = iota
	SourceSynthetic
)

func (s SeriesSource) String() string {
	if s == SourceSynthetic {
		return "synthetic"
	}
	return "real"
}

// Series is the resolved data for one bucket: either real aggregates or the
// synthetic fallback, never a mix of both.
type Series struct {
	Bucket     Bucket
	Source     SeriesSource
	Monthly    []MonthlyAggregate
	Categories CategoryTotals
}

// Total returns the baseline for forecasts and savings.
func (s Series) Total() float64 {
	if s.Bucket.IsMonthly() {
		var total float64
		for _, m := range s.Monthly {
			total += m.Value
		}
		return total
	}
	return s.Categories.Total()
}

// BucketData holds everything a load produced for one bucket.
type BucketData struct {
	Bucket Bucket

	// Real data. Points and Monthly are set for monthly buckets,
	// Categories for category buckets.
	Points     []ConsumptionPoint
	Monthly    []MonthlyAggregate
	Categories CategoryTotals

	// Synthetic fallback, consulted only when the real data is empty.
	YearlyMonthly    []MonthlyAggregate
	YearlyCategories CategoryTotals
}

// Resolve picks real data when present and the synthetic fallback otherwise.
func (d BucketData) Resolve() Series {
	s := Series{Bucket: d.Bucket}
	if d.Bucket.IsMonthly() {
		if len(d.Monthly) > 0 {
			s.Monthly = d.Monthly
			return s
		}
		s.Source = SourceSynthetic
		s.Monthly = d.YearlyMonthly
		return s
	}
	if len(d.Categories) > 0 {
		s.Categories = d.Categories
		return s
	}
	s.Source = SourceSynthetic
	s.Categories = d.YearlyCategories
	return s
}

// Snapshot is the read-only result of one load. Reloading builds a new one.
type Snapshot struct {
	ID         string
	LoadedAt   time.Time
	SourceName string
	Buckets    map[Bucket]BucketData
}

// Series resolves the data for a single bucket.
func (s *Snapshot) Series(b Bucket) Series {
	d, ok := s.Buckets[b]
	if !ok {
		d = BucketData{Bucket: b}
	}
	return d.Resolve()
}

// Baseline returns the resolved total for a bucket.
func (s *Snapshot) Baseline(b Bucket) float64 {
	return s.Series(b).Total()
}

// BucketSummary holds the dashboard statistics for one bucket.
type BucketSummary struct {
	Bucket         Bucket
	Source         SeriesSource
	Total          float64
	MonthlyAverage float64
	Months         int
	TopCategory    string
	TopShare       float64 // 0-1
}
