package entry

import (
	"fmt"
	"time"
)

// PeriodVariant selects the aggregation granularity for time buckets.
type PeriodVariant int

const (
	PeriodMonth PeriodVariant = iota
	PeriodQuarter
	PeriodHalfYear
	PeriodYear
)

// Period is one aggregation bucket: a month, quarter, half-year or year.
// Periods are comparable values and usable as map keys.
type Period struct {
	Variant PeriodVariant
	Year    int
	Sub     int // month 1-12, quarter 1-4, half 1-2, 0 for year
}

// PeriodOf buckets a date into the requested variant.
func PeriodOf(variant PeriodVariant, date time.Time) Period {
	p := Period{Variant: variant, Year: date.Year()}
	switch variant {
	case PeriodMonth:
		p.Sub = int(date.Month())
	case PeriodQuarter:
		p.Sub = (int(date.Month())-1)/3 + 1
	case PeriodHalfYear:
		p.Sub = (int(date.Month())-1)/6 + 1
	}
	return p
}

func (p Period) String() string {
	switch p.Variant {
	case PeriodMonth:
		return fmt.Sprintf("%d-%d", p.Year, p.Sub)
	case PeriodQuarter:
		return fmt.Sprintf("%d-Q%d", p.Year, p.Sub)
	case PeriodHalfYear:
		return fmt.Sprintf("%d-H%d", p.Year, p.Sub)
	default:
		return fmt.Sprintf("%d", p.Year)
	}
}

// Before orders periods of the same variant chronologically.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Sub < other.Sub
}
