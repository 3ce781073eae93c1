package model

// PredictionResult is one bucket's projection for a forecast period.
// Reference is the value the percent change is measured against
// (the baseline, or the baseline scaled to the period length).
type PredictionResult struct {
	Bucket                  Bucket
	Period                  string
	Baseline                float64
	Reference               float64
	PredictedValue          float64
	PercentChangeVsBaseline float64
}

// SavingsEstimate is an illustrative potential-savings figure for one bucket.
type SavingsEstimate struct {
	Bucket   Bucket
	Baseline float64
	Percent  float64
	Amount   float64
}
