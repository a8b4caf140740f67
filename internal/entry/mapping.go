package entry

import (
	"sort"

	"github.com/shopspring/decimal"
)

// AccountIndexToID maps each raw account index seen in the entries to the
// resolved account id.
func AccountIndexToID(entries []*Entry) map[int]string {
	out := make(map[int]string)
	for _, e := range entries {
		if e.Raw != nil {
			out[e.Raw.AccountIndex] = e.AccountID
		}
	}
	return out
}

// BalancePerPeriod sums entry amounts per time bucket and returns the
// buckets in chronological order alongside the sums.
func BalancePerPeriod(entries []*Entry, variant PeriodVariant) ([]Period, map[Period]decimal.Decimal) {
	sums := make(map[Period]decimal.Decimal)
	for _, e := range entries {
		if e.Date == nil {
			continue
		}
		p := PeriodOf(variant, *e.Date)
		sums[p] = sums[p].Add(e.Amount)
	}
	periods := make([]Period, 0, len(sums))
	for p := range sums {
		periods = append(periods, p)
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	return periods, sums
}

// BalancePerTagGroup sums amounts per tag group within one period. Keys are
// the groups' canonical string forms.
func BalancePerTagGroup(entries []*Entry, period Period) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, e := range entries {
		if e.Date == nil || e.Amount.IsZero() {
			continue
		}
		if PeriodOf(period.Variant, *e.Date) != period {
			continue
		}
		group := &TagGroup{}
		for _, t := range e.Tags {
			group.Add(t)
		}
		key := group.Key()
		sums[key] = sums[key].Add(e.Amount)
	}
	return sums
}
