package pipeline

import "github.com/theirongolddev/estalvi/internal/model"

// Summarize computes dashboard statistics for every bucket from its resolved
// series, in display order.
func Summarize(snap *model.Snapshot) []model.BucketSummary {
	out := make([]model.BucketSummary, 0, len(model.AllBuckets))
	for _, b := range model.AllBuckets {
		out = append(out, SummarizeSeries(snap.Series(b)))
	}
	return out
}

// SummarizeSeries computes the statistics for a single resolved series.
func SummarizeSeries(s model.Series) model.BucketSummary {
	sum := model.BucketSummary{
		Bucket: s.Bucket,
		Source: s.Source,
		Total:  s.Total(),
	}

	if s.Bucket.IsMonthly() {
		sum.Months = len(s.Monthly)
		if sum.Months > 0 {
			sum.MonthlyAverage = sum.Total / float64(sum.Months)
		}
		return sum
	}

	for _, label := range s.Categories.Labels() {
		if sum.TopCategory == "" || s.Categories[label] > s.Categories[sum.TopCategory] {
			sum.TopCategory = label
		}
	}
	if sum.TopCategory != "" && sum.Total != 0 {
		sum.TopShare = s.Categories[sum.TopCategory] / sum.Total
	}
	return sum
}
