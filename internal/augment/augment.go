// Package augment enriches the interpreted entry stream with data that the
// statement exports themselves do not carry: user-declared balance
// checkpoints, mirrored transactions for virtual accounts, and alternative
// account id normalization.
package augment

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/entry"
)

// RewriteAlternativeIBANs replaces alternative account ids in raw comments
// with the primary id, so later cross-reference matching only ever sees one
// spelling per account. Operates on raws before interpretation.
func RewriteAlternativeIBANs(raws []entry.Raw, accounts []config.Account, log zerolog.Logger) {
	rewritten := 0
	for _, a := range accounts {
		if a.IBANAlternative == "" {
			continue
		}
		for i := range raws {
			if !strings.Contains(raws[i].Comment, a.IBANAlternative) {
				continue
			}
			raws[i].Comment = strings.ReplaceAll(raws[i].Comment, a.IBANAlternative, a.IBAN)
			rewritten++
		}
	}
	if rewritten > 0 {
		log.Info().Int("count", rewritten).Msg("rewrote alternative account ids in raw comments")
	}
}

// AddManualBalances inserts configured end-of-day balance entries into the
// stream. Each balance is placed directly before the first later-dated entry
// of its account, so an already date-ordered stream stays ordered. Balances
// dated after all entries of the account append at the end.
func AddManualBalances(entries []*entry.Entry, accounts []config.Account, log zerolog.Logger) []*entry.Entry {
	for accountIdx, a := range accounts {
		for _, mb := range a.ManualBalances {
			date, err := time.Parse("2006-01-02", mb.Date)
			if err != nil {
				log.Warn().Str("account", a.Name).Str("date", mb.Date).Msg("skipping manual balance with invalid date")
				continue
			}
			e := entry.New()
			e.Date = &date
			e.Amount = decimal.NewFromFloat(mb.EndOfDayAmount)
			e.OriginalAmount = e.Amount
			e.ConvertedAmount = e.Amount
			e.AccountID = a.ID()
			e.Type = entry.TypeBalance
			e.CardKind = entry.CardGiro

			entries = insertBeforeFirstLater(entries, e, accountIdx, a.ID(), date)
		}
	}
	return entries
}

func insertBeforeFirstLater(entries []*entry.Entry, e *entry.Entry, accountIdx int, accountID string, date time.Time) []*entry.Entry {
	for i, existing := range entries {
		if !sameAccount(existing, accountIdx, accountID) {
			continue
		}
		if existing.Date != nil && existing.Date.After(date) {
			entries = append(entries, nil)
			copy(entries[i+1:], entries[i:])
			entries[i] = e
			return entries
		}
	}
	return append(entries, e)
}

func sameAccount(e *entry.Entry, accountIdx int, accountID string) bool {
	if e.Raw != nil {
		return e.Raw.AccountIndex == accountIdx
	}
	return e.AccountID == accountID
}

// MirrorVirtualAccountTransactions creates the entries of virtual accounts.
// A virtual account has no exports; every transaction of a real account that
// references the virtual account's id gets mirrored onto it with a negated
// amount. The mirrors carry no raw data and are marked internal up front.
func MirrorVirtualAccountTransactions(entries []*entry.Entry, accounts []config.Account, log zerolog.Logger) []*entry.Entry {
	for _, a := range accounts {
		if !a.IsVirtual() {
			continue
		}
		var mirrored []*entry.Entry
		for _, src := range entry.Transactions(entries, "", a.ID()) {
			m := entry.New()
			if src.Date != nil {
				d := *src.Date
				m.Date = &d
			}
			m.Amount = src.Amount.Neg()
			m.OriginalAmount = m.Amount
			m.ConvertedAmount = m.Amount
			m.Tags = append([]entry.Tag(nil), src.Tags...)
			m.AccountID = a.ID()
			m.Type = entry.TypeInternal
			m.CardKind = entry.CardGiro
			mirrored = append(mirrored, m)
		}
		if len(mirrored) > 0 {
			log.Info().Str("account", a.Name).Int("count", len(mirrored)).Msg("mirrored transactions onto virtual account")
			entries = append(entries, mirrored...)
		}
	}
	return entries
}
