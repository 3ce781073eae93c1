package cmd

import (
	"fmt"
	"strings"
	"testing"

	"github.com/theirongolddev/estalvi/internal/forecast"
	"github.com/theirongolddev/estalvi/internal/model"
	"github.com/theirongolddev/estalvi/internal/source"
)

func TestBucketArg(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		keep    func(model.Bucket) bool
		want    []model.Bucket
		wantErr bool
	}{
		{"all monthly", nil, model.Bucket.IsMonthly, []model.Bucket{model.Electric, model.Water}, false},
		{"all category", nil, isCategoryBucket, []model.Bucket{model.Office, model.Cleaning}, false},
		{"explicit", []string{"Water"}, model.Bucket.IsMonthly, []model.Bucket{model.Water}, false},
		{"wrong view", []string{"office"}, model.Bucket.IsMonthly, nil, true},
		{"unknown", []string{"gas"}, isCategoryBucket, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bucketArg(tt.args, tt.keep)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFriendlyError(t *testing.T) {
	tests := []struct {
		err    error
		prefix string
	}{
		{fmt.Errorf("loading x: %w", source.ErrLoadFailure), "Could not load data"},
		{fmt.Errorf("%w: end before start", forecast.ErrInvalidDateRange), "Invalid date range"},
		{forecast.ErrUnknownPeriod, "Unknown period"},
		{fmt.Errorf("%w: \"gas\"", model.ErrUnknownBucket), "Unknown bucket"},
		{fmt.Errorf("other"), "other"},
	}
	for _, tt := range tests {
		if got := friendlyError(tt.err); !strings.HasPrefix(got, tt.prefix) {
			t.Errorf("friendlyError(%v) = %q, want prefix %q", tt.err, got, tt.prefix)
		}
	}
}
