// Package forecast projects bucket baselines forward and estimates savings.
package forecast

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/rng"
)

var (
	// ErrInvalidDateRange indicates a custom period whose dates do not parse
	// or are out of order.
	ErrInvalidDateRange = errors.New("forecast: invalid date range")
	// ErrUnknownPeriod indicates an unrecognized period name.
	ErrUnknownPeriod = errors.New("forecast: unknown period")
)

// Forecaster projects baselines. It holds no state besides its random
// source and is safe for concurrent use.
type Forecaster struct {
	src rng.Source
}

// New creates a forecaster. A nil source means rng.System().
func New(src rng.Source) *Forecaster {
	if src == nil {
		src = rng.System()
	}
	return &Forecaster{src: src}
}

// Predict projects baseline over period p. Each call draws fresh randomness.
func (f *Forecaster) Predict(b model.Bucket, p Period, baseline float64) (model.PredictionResult, error) {
	res := model.PredictionResult{
		Bucket:   b,
		Period:   p.Kind.String(),
		Baseline: baseline,
	}
	profile := config.Profile(b)

	switch p.Kind {
	case NextYear:
		res.Reference = baseline
		res.PredictedValue = baseline * (1 + rng.Uniform(f.src, profile.NextYear.Min, profile.NextYear.Max))

	case NextCourse:
		res.Reference = baseline * CourseRatio
		res.PredictedValue = res.Reference * (1 + rng.Uniform(f.src, profile.NextCourse.Min, profile.NextCourse.Max))

	case Custom:
		if p.End.Before(p.Start) || p.Start.IsZero() || p.End.IsZero() {
			return model.PredictionResult{}, ErrInvalidDateRange
		}
		res.Reference = baseline * p.Ratio()
		res.PredictedValue = res.Reference * customFactor(b, p.SeasonalFactor())

	default:
		return model.PredictionResult{}, fmt.Errorf("%w: %d", ErrUnknownPeriod, p.Kind)
	}

	res.PercentChangeVsBaseline = PercentChange(res.PredictedValue, res.Reference)
	return res, nil
}

// customFactor applies the seasonal factor to electric and its inverse rule
// to water. Category buckets are not adjusted.
func customFactor(b model.Bucket, sf float64) float64 {
	switch b {
	case model.Electric:
		return sf
	case model.Water:
		if sf < 1 {
			return 1.1
		}
		return 0.9
	}
	return 1
}

// PercentChange returns (predicted/reference - 1) * 100, or 0 when the
// reference is exactly zero. NaN inputs propagate.
func PercentChange(predicted, reference float64) float64 {
	if reference == 0 {
		return 0
	}
	return (predicted/reference - 1) * 100
}

// PredictAll projects every bucket of snap from its resolved baseline.
func (f *Forecaster) PredictAll(snap *model.Snapshot, p Period) ([]model.PredictionResult, error) {
	out := make([]model.PredictionResult, 0, len(model.AllBuckets))
	for _, b := range model.AllBuckets {
		res, err := f.Predict(b, p, snap.Baseline(b))
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
