package entry

import "sort"

// SortByDate sorts entries stably ascending by date. Entries without a date
// sort after all dated entries so that reconciliation order is never
// corrupted by parse failures.
func SortByDate(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].Date, entries[j].Date
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

// SortedPerAccount regroups entries by account in first-seen order and sorts
// each account's entries stably by date.
func SortedPerAccount(entries []*Entry) []*Entry {
	var order []string
	byAccount := make(map[string][]*Entry)
	for _, e := range entries {
		if _, ok := byAccount[e.AccountID]; !ok {
			order = append(order, e.AccountID)
		}
		byAccount[e.AccountID] = append(byAccount[e.AccountID], e)
	}

	sorted := make([]*Entry, 0, len(entries))
	for _, id := range order {
		group := byAccount[id]
		SortByDate(group)
		sorted = append(sorted, group...)
	}
	return sorted
}

// HaveNoNilDates reports whether every entry carries a date.
func HaveNoNilDates(entries []*Entry) bool {
	for _, e := range entries {
		if e.Date == nil {
			return false
		}
	}
	return true
}

// HaveAscendingDateOrder reports whether entries are fully dated and ordered
// ascending by date.
func HaveAscendingDateOrder(entries []*Entry) bool {
	if !HaveNoNilDates(entries) {
		return false
	}
	for i := 0; i+1 < len(entries); i++ {
		if entries[i].Date.After(*entries[i+1].Date) {
			return false
		}
	}
	return true
}
