package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/rng"
	"github.com/theirongolddev/estalvi/internal/source"
)

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Snapshot         *model.Snapshot
	Rows             int
	InvalidDates     int
	NonNumericValues int
	LoadTime         time.Duration
}

// ProgressFunc is called as each bucket is built.
// current is the number of buckets done so far, total is the bucket count.
type ProgressFunc func(current, total int)

// Options controls snapshot construction.
type Options struct {
	// Now stamps the snapshot and picks the synthetic year. Zero means time.Now.
	Now time.Time
	// Rand drives the synthetic fallback. Nil means the system source.
	Rand     rng.Source
	Progress ProgressFunc
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	if o.Rand == nil {
		o.Rand = rng.System()
	}
	return o
}

// Load fetches src, parses it and builds a snapshot. On failure no snapshot
// is returned and the error wraps source.ErrLoadFailure.
func Load(ctx context.Context, src source.Source, opts Options) (*LoadResult, error) {
	start := time.Now()

	data, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", src.Name(), err)
	}

	result := Build(source.ParseCSV(string(data)), opts)
	result.Snapshot.SourceName = src.Name()
	result.LoadTime = time.Since(start)
	return result, nil
}

// Build classifies and aggregates already-parsed records into a snapshot.
// Synthetic fallback data is attached to every bucket.
func Build(records []model.RawRecord, opts Options) *LoadResult {
	start := time.Now()
	opts = opts.withDefaults()

	result := &LoadResult{Rows: len(records)}
	snap := &model.Snapshot{
		ID:       uuid.NewString(),
		LoadedAt: opts.Now,
		Buckets:  make(map[model.Bucket]model.BucketData, len(model.AllBuckets)),
	}
	year := opts.Now.Year()

	for i, b := range model.AllBuckets {
		selected := Select(records, b)
		data := model.BucketData{Bucket: b}

		var st ClassifyStats
		if b.IsMonthly() {
			data.Points, st = ToPoints(selected)
			data.Monthly = AggregateByMonth(data.Points)
			data.YearlyMonthly = SynthesizeMonthly(b, year, opts.Rand)
		} else {
			data.Categories, st = totalsByCategory(selected)
			data.YearlyCategories = FixedCategoryTotals(b)
		}
		result.InvalidDates += st.InvalidDates
		result.NonNumericValues += st.NonNumericValues

		snap.Buckets[b] = data
		if opts.Progress != nil {
			opts.Progress(i+1, len(model.AllBuckets))
		}
	}

	result.Snapshot = snap
	result.LoadTime = time.Since(start)
	return result
}
