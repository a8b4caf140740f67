// Package reconcile checks the interpreted transactions of each account
// against the balance checkpoints embedded in the statements. Every pair of
// consecutive balances spans an interval; the transactions inside it must
// account for the balance delta.
package reconcile

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bardeteleon/financial-analysis/internal/entry"
)

// Status is the outcome of checking one interval.
type Status int

const (
	StatusValid Status = iota
	StatusInvalid
	StatusUncheckedBeforeFirstBalance
	StatusUncheckedAfterLastBalance
	StatusUncheckedNoBalances
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusUncheckedBeforeFirstBalance:
		return "unchecked (before first balance)"
	case StatusUncheckedAfterLastBalance:
		return "unchecked (after last balance)"
	case StatusUncheckedNoBalances:
		return "unchecked (no balances)"
	default:
		return "unknown"
	}
}

// Unchecked reports whether the interval had no closing balance to verify
// against.
func (s Status) Unchecked() bool { return s != StatusValid && s != StatusInvalid }

// Interval is the span between two consecutive balance checkpoints of one
// account, or a span not enclosed by checkpoints.
type Interval struct {
	AccountID     string
	Status        Status
	From          *time.Time
	To            *time.Time
	StartBalance  decimal.Decimal
	EndBalance    decimal.Decimal
	CalculatedSum decimal.Decimal
	Transactions  int
}

// Discrepancy is the amount by which the transactions fail to explain the
// balance delta. Zero (within tolerance) for valid intervals.
func (iv Interval) Discrepancy() decimal.Decimal {
	return iv.CalculatedSum.Sub(iv.EndBalance)
}

// epsilon absorbs representation noise when comparing calculated sums to
// reported balances.
var epsilon = decimal.NewFromFloat(0.001)

// Validator walks account entry streams and emits checked intervals.
type Validator struct {
	log zerolog.Logger
}

func NewValidator(log zerolog.Logger) *Validator {
	return &Validator{log: log}
}

// Validate reconciles all accounts present in the entries, in first-seen
// account order. The input must already be date-ordered per account.
func (v *Validator) Validate(entries []*entry.Entry) ([]Interval, error) {
	var intervals []Interval
	for _, accountID := range entry.UniqueAccounts(entries) {
		accountIntervals, err := v.ValidateAccount(entry.ByAccount(entries, accountID), accountID)
		if err != nil {
			return nil, err
		}
		intervals = append(intervals, accountIntervals...)
	}
	v.selfCheck(entries, intervals)
	return intervals, nil
}

// ValidateAccount reconciles one account's entries. The entries must all
// belong to the account, carry dates and be in ascending date order;
// anything else means an upstream stage misbehaved and reconciling would
// report nonsense.
func (v *Validator) ValidateAccount(entries []*entry.Entry, accountID string) ([]Interval, error) {
	if !entry.HaveNoNilDates(entries) {
		return nil, fmt.Errorf("reconcile: account %s has entries without dates", accountID)
	}
	if !entry.HaveAscendingDateOrder(entries) {
		return nil, fmt.Errorf("reconcile: account %s entries are not date-ordered", accountID)
	}

	var intervals []Interval
	open := Interval{AccountID: accountID, Status: StatusUncheckedBeforeFirstBalance}
	seenBalance := false
	sum := decimal.Zero

	for _, e := range entries {
		switch {
		case e.IsBalance():
			open.To = e.Date
			open.EndBalance = e.Amount
			if seenBalance {
				open.CalculatedSum = sum
				if sum.Sub(e.Amount).Abs().LessThanOrEqual(epsilon) {
					open.Status = StatusValid
				} else {
					open.Status = StatusInvalid
				}
				intervals = append(intervals, open)
			} else if open.Transactions > 0 {
				intervals = append(intervals, open)
			}

			seenBalance = true
			sum = e.Amount
			open = Interval{
				AccountID:    accountID,
				Status:       StatusUncheckedAfterLastBalance,
				From:         e.Date,
				StartBalance: e.Amount,
			}
		case e.IsTransaction():
			sum = sum.Add(e.Amount)
			open.Transactions++
		}
	}

	if !seenBalance {
		open.Status = StatusUncheckedNoBalances
	}
	open.CalculatedSum = sum
	if open.Transactions > 0 || len(intervals) == 0 {
		intervals = append(intervals, open)
	}
	return intervals, nil
}

// selfCheck verifies that every transaction landed in exactly one interval.
func (v *Validator) selfCheck(entries []*entry.Entry, intervals []Interval) {
	perAccount := make(map[string]int)
	for _, iv := range intervals {
		perAccount[iv.AccountID] += iv.Transactions
	}
	for _, accountID := range entry.UniqueAccounts(entries) {
		want := 0
		for _, e := range entry.ByAccount(entries, accountID) {
			if e.IsTransaction() {
				want++
			}
		}
		if got := perAccount[accountID]; got != want {
			v.log.Error().Str("account", accountID).Int("covered", got).Int("total", want).
				Msg("reconciliation intervals do not cover all transactions")
		}
	}
}

// Summary aggregates how many transactions landed in valid, invalid and
// unchecked intervals, for one account or a whole run.
type Summary struct {
	Valid     int
	Invalid   int
	Unchecked int
}

// Total is the number of transactions covered by the summary.
func (s Summary) Total() int { return s.Valid + s.Invalid + s.Unchecked }

// Summarize derives per-account summaries and the overall summary from the
// intervals. Counts come from summing interval transaction counts only,
// never from re-walking the entries.
func Summarize(intervals []Interval) (map[string]Summary, Summary) {
	perAccount := make(map[string]Summary)
	var overall Summary
	for _, iv := range intervals {
		s := perAccount[iv.AccountID]
		switch iv.Status {
		case StatusValid:
			s.Valid += iv.Transactions
			overall.Valid += iv.Transactions
		case StatusInvalid:
			s.Invalid += iv.Transactions
			overall.Invalid += iv.Transactions
		default:
			s.Unchecked += iv.Transactions
			overall.Unchecked += iv.Transactions
		}
		perAccount[iv.AccountID] = s
	}
	return perAccount, overall
}

// TransactionSum adds up the transaction amounts of the given entries.
func TransactionSum(entries []*entry.Entry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if e.IsTransaction() {
			sum = sum.Add(e.Amount)
		}
	}
	return sum
}
