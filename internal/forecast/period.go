package forecast

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/theirongolddev/estalvi/internal/source"
)

// PeriodKind identifies a forecast horizon.
type PeriodKind int

const (
	NextYear PeriodKind = iota
	NextCourse
	Custom
)

var periodNames = [...]string{"nextYear", "nextCourse", "custom"}

func (k PeriodKind) String() string {
	if k < 0 || int(k) >= len(periodNames) {
		return "unknown"
	}
	return periodNames[k]
}

// CourseRatio is the share of a year covered by a school course (Sep-Jun).
const CourseRatio = 10.0 / 12.0

// Period is a forecast horizon. Start and End are set only for Custom.
type Period struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

func (p Period) String() string {
	if p.Kind == Custom {
		return fmt.Sprintf("custom %s..%s", p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
	}
	return p.Kind.String()
}

// ParsePeriod resolves a period by name. start and end are read only for
// "custom".
func ParsePeriod(name, start, end string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "nextyear", "next-year", "year":
		return Period{Kind: NextYear}, nil
	case "nextcourse", "next-course", "course":
		return Period{Kind: NextCourse}, nil
	case "custom":
		return CustomPeriod(start, end)
	}
	return Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, name)
}

// CustomPeriod parses a custom date range. Both dates must parse and start
// must not be after end.
func CustomPeriod(start, end string) (Period, error) {
	s, ok := source.ParseDate(start)
	if !ok {
		return Period{}, fmt.Errorf("%w: start %q", ErrInvalidDateRange, start)
	}
	e, ok := source.ParseDate(end)
	if !ok {
		return Period{}, fmt.Errorf("%w: end %q", ErrInvalidDateRange, end)
	}
	if e.Before(s) {
		return Period{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidDateRange,
			e.Format("2006-01-02"), s.Format("2006-01-02"))
	}
	return Period{Kind: Custom, Start: s, End: e}, nil
}

// Days is the rounded number of whole days between Start and End.
func (p Period) Days() int {
	return int(math.Round(p.End.Sub(p.Start).Hours() / 24))
}

// Ratio is Days as a share of a 365-day year.
func (p Period) Ratio() float64 {
	return float64(p.Days()) / 365
}

// SeasonalFactor starts at 1, adds 0.1 when the range touches February and
// subtracts 0.05 when it touches August.
func (p Period) SeasonalFactor() float64 {
	var hasFeb, hasAug bool
	cur := time.Date(p.Start.Year(), p.Start.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(p.End.Year(), p.End.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12 && !cur.After(last); i++ {
		switch cur.Month() {
		case time.February:
			hasFeb = true
		case time.August:
			hasAug = true
		}
		cur = cur.AddDate(0, 1, 0)
	}

	sf := 1.0
	if hasFeb {
		sf += 0.1
	}
	if hasAug {
		sf -= 0.05
	}
	return sf
}
