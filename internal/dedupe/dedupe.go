// Package dedupe flags likely duplicate transactions, e.g. from overlapping
// statement exports. Findings are reported only; nothing is ever dropped
// automatically.
package dedupe

import (
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog"

	"github.com/bardeteleon/financial-analysis/internal/entry"
)

const (
	// maxDaysApart bounds how far apart two bookings of the same payment
	// can appear across exports.
	maxDaysApart = 7
	// maxNormalizedDistance is the comment edit-distance cutoff, relative
	// to the longer comment.
	maxNormalizedDistance = 0.4
)

// Finding is one suspected duplicate pair, indices into the arena.
type Finding struct {
	A, B       int
	Similarity float64
}

// Find scans each account for transaction pairs with equal amounts, close
// dates and near-identical comments. Pairwise within an account only; the
// same payment showing up on two accounts is a transfer, not a duplicate.
func Find(arena []*entry.Entry, log zerolog.Logger) []Finding {
	var order []string
	byAccount := make(map[string][]int)
	for i, e := range arena {
		if !e.IsTransaction() || e.Raw == nil || e.Date == nil {
			continue
		}
		if _, ok := byAccount[e.AccountID]; !ok {
			order = append(order, e.AccountID)
		}
		byAccount[e.AccountID] = append(byAccount[e.AccountID], i)
	}

	var findings []Finding
	for _, accountID := range order {
		indices := byAccount[accountID]
		for i := 0; i < len(indices); i++ {
			for j := i + 1; j < len(indices); j++ {
				a, b := arena[indices[i]], arena[indices[j]]
				if !a.Amount.Equal(b.Amount) {
					continue
				}
				if daysApart(*a.Date, *b.Date) > maxDaysApart {
					continue
				}
				sim, ok := commentSimilarity(a.Raw.Comment, b.Raw.Comment)
				if !ok {
					continue
				}
				findings = append(findings, Finding{A: indices[i], B: indices[j], Similarity: sim})
			}
		}
	}

	for _, f := range findings {
		a, b := arena[f.A], arena[f.B]
		log.Warn().
			Str("account", a.AccountID).
			Str("amount", a.Amount.StringFixed(2)).
			Str("date_a", a.Date.Format("2006-01-02")).
			Str("date_b", b.Date.Format("2006-01-02")).
			Float64("similarity", f.Similarity).
			Msg("possible duplicate transaction")
	}
	return findings
}

func commentSimilarity(a, b string) (float64, bool) {
	if a == "" || b == "" {
		return 0, false
	}
	dist := levenshtein.ComputeDistance(strings.ToUpper(a), strings.ToUpper(b))
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	normalized := float64(dist) / float64(maxlen)
	if normalized >= maxNormalizedDistance {
		return 0, false
	}
	return 1 - normalized, true
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
