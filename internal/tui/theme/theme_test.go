package theme

import (
	"testing"

	"github.com/theirongolddev/estalvi/internal/model"
)

func TestBucketColorsSetForEveryTheme(t *testing.T) {
	for _, th := range All {
		seen := make(map[string]bool)
		for _, b := range model.AllBuckets {
			c := th.BucketColor(b)
			if c == "" {
				t.Errorf("%s: no color for %s", th.Name, b)
			}
			if seen[string(c)] {
				t.Errorf("%s: %s shares its color with another bucket", th.Name, b)
			}
			seen[string(c)] = true
		}
	}
}

func TestBucketColorUnknownFallsBackToAccent(t *testing.T) {
	if got := FlexokiDark.BucketColor(model.Bucket(9)); got != FlexokiDark.Accent {
		t.Errorf("BucketColor(9) = %s, want accent %s", got, FlexokiDark.Accent)
	}
}

func TestByName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"classic", "classic"},
		{"terminal", "terminal"},
		{"tokyo-night", "flexoki-dark"},
		{"", "flexoki-dark"},
	}
	for _, tt := range tests {
		if got := ByName(tt.in).Name; got != tt.want {
			t.Errorf("ByName(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
