package forecast

import (
	"github.com/theirongolddev/estalvi/internal/config"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/rng"
)

// EstimateSavings draws an illustrative savings percent from the bucket's
// range and applies it to baseline. A nil source means rng.System().
func EstimateSavings(src rng.Source, b model.Bucket, baseline float64) model.SavingsEstimate {
	if src == nil {
		src = rng.System()
	}
	r := config.Profile(b).Savings
	pct := rng.Uniform(src, r.Min, r.Max)
	return model.SavingsEstimate{
		Bucket:   b,
		Baseline: baseline,
		Percent:  pct,
		Amount:   baseline * pct / 100,
	}
}

// EstimateAllSavings estimates savings for every bucket of snap.
func EstimateAllSavings(src rng.Source, snap *model.Snapshot) []model.SavingsEstimate {
	if src == nil {
		src = rng.System()
	}
	out := make([]model.SavingsEstimate, 0, len(model.AllBuckets))
	for _, b := range model.AllBuckets {
		out = append(out, EstimateSavings(src, b, snap.Baseline(b)))
	}
	return out
}
