package model

import (
	"errors"
	"math"
	"testing"
)

func TestResolve_PrefersRealMonthly(t *testing.T) {
	d := BucketData{
		Bucket:        Electric,
		Monthly:       []MonthlyAggregate{{Month: 0, Year: 2024, Value: 10}},
		YearlyMonthly: []MonthlyAggregate{{Month: 0, Year: 2024, Value: 999}},
	}

	s := d.Resolve()
	if s.Source != SourceReal {
		t.Fatalf("Source = %v, want real", s.Source)
	}
	if s.Total() != 10 {
		t.Errorf("Total = %.2f, want 10 (synthetic must not be mixed in)", s.Total())
	}
}

func TestResolve_FallsBackToSynthetic(t *testing.T) {
	d := BucketData{
		Bucket:        Water,
		YearlyMonthly: []MonthlyAggregate{{Value: 1}, {Value: 2}, {Value: 3}},
	}

	s := d.Resolve()
	if s.Source != SourceSynthetic {
		t.Fatalf("Source = %v, want synthetic", s.Source)
	}
	if s.Total() != 6 {
		t.Errorf("Total = %.2f, want 6", s.Total())
	}
}

func TestResolve_CategoryBuckets(t *testing.T) {
	withReal := BucketData{
		Bucket:           Office,
		Categories:       CategoryTotals{"Marcador": 5},
		YearlyCategories: CategoryTotals{"Marcador": 100, "Internet": 50},
	}
	if got := withReal.Resolve(); got.Source != SourceReal || got.Total() != 5 {
		t.Errorf("real office = (%v, %.2f), want (real, 5)", got.Source, got.Total())
	}

	empty := BucketData{
		Bucket:           Cleaning,
		Categories:       CategoryTotals{},
		YearlyCategories: CategoryTotals{"WC": 1, "Extraordinaris": 2},
	}
	if got := empty.Resolve(); got.Source != SourceSynthetic || got.Total() != 3 {
		t.Errorf("empty cleaning = (%v, %.2f), want (synthetic, 3)", got.Source, got.Total())
	}
}

func TestCategoryTotals_NaNPoisonsTotal(t *testing.T) {
	c := CategoryTotals{"WC": 10, "Extraordinaris": math.NaN()}
	if !math.IsNaN(c.Total()) {
		t.Errorf("Total = %v, want NaN", c.Total())
	}
}

func TestCategoryTotals_LabelsSorted(t *testing.T) {
	c := CategoryTotals{"Treballs": 1, "Internet": 2, "Marcador": 3}
	got := c.Labels()
	want := []string{"Internet", "Marcador", "Treballs"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Labels = %v, want %v", got, want)
		}
	}
}

func TestSnapshotBaseline_MissingBucket(t *testing.T) {
	s := &Snapshot{Buckets: map[Bucket]BucketData{}}
	if got := s.Baseline(Office); got != 0 {
		t.Errorf("Baseline = %.2f, want 0 for a bucket with no data at all", got)
	}
}

func TestParseBucket(t *testing.T) {
	tests := []struct {
		in   string
		want Bucket
	}{
		{"electric", Electric},
		{"Water", Water},
		{" OFFICE ", Office},
		{"cleaning", Cleaning},
	}
	for _, tt := range tests {
		got, err := ParseBucket(tt.in)
		if err != nil {
			t.Fatalf("ParseBucket(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseBucket(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseBucket("gas"); !errors.Is(err, ErrUnknownBucket) {
		t.Errorf("ParseBucket(gas) err = %v, want ErrUnknownBucket", err)
	}
}
