package entry

import (
	"regexp"
	"time"
)

// Transactions returns transaction entries, optionally restricted to one
// account (mainID) and to entries whose raw comment references otherID.
func Transactions(entries []*Entry, mainID, otherID string) []*Entry {
	var otherRe *regexp.Regexp
	if otherID != "" {
		otherRe = regexp.MustCompile(regexp.QuoteMeta(otherID))
	}
	var out []*Entry
	for _, e := range entries {
		if !e.IsTransaction() {
			continue
		}
		if mainID != "" && e.AccountID != mainID {
			continue
		}
		if otherRe != nil && (e.Raw == nil || !otherRe.MatchString(e.Raw.Comment)) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ExternalTransactions filters entries typed external.
func ExternalTransactions(entries []*Entry) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if e.Type == TypeExternal {
			out = append(out, e)
		}
	}
	return out
}

// InternalTransactions filters entries typed internal.
func InternalTransactions(entries []*Entry) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if e.Type == TypeInternal {
			out = append(out, e)
		}
	}
	return out
}

// ByAccount filters entries of one account.
func ByAccount(entries []*Entry, accountID string) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if e.AccountID == accountID {
			out = append(out, e)
		}
	}
	return out
}

// ByTag returns entries carrying a tag contained by the given tag.
func ByTag(entries []*Entry, tag Tag) []*Entry {
	var out []*Entry
	for _, e := range entries {
		for _, t := range e.Tags {
			if tag.Contains(t) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// FromToDate returns entries dated within [from, to], inclusive. Undated
// entries are excluded.
func FromToDate(entries []*Entry, from, to time.Time) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if e.Date == nil {
			continue
		}
		if e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// PositiveAmounts filters entries with amounts greater than zero.
func PositiveAmounts(entries []*Entry) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if e.Amount.IsPositive() {
			out = append(out, e)
		}
	}
	return out
}

// NegativeAmounts filters entries with amounts less than zero.
func NegativeAmounts(entries []*Entry) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if e.Amount.IsNegative() {
			out = append(out, e)
		}
	}
	return out
}

// NonVirtual filters entries backed by a raw row.
func NonVirtual(entries []*Entry) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if !e.IsVirtual() {
			out = append(out, e)
		}
	}
	return out
}

// UniqueAccounts collects the distinct non-empty account ids, in first-seen
// order.
func UniqueAccounts(entries []*Entry) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range entries {
		if e.AccountID == "" {
			continue
		}
		if _, ok := seen[e.AccountID]; ok {
			continue
		}
		seen[e.AccountID] = struct{}{}
		out = append(out, e.AccountID)
	}
	return out
}
