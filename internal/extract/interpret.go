package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/currency"
	"github.com/bardeteleon/financial-analysis/internal/entry"
)

var (
	// "1.234,56 H" / "1.234,56 S": thousands-dot, comma-decimal, trailing
	// credit/debit marker.
	amountHSRe = regexp.MustCompile(`^([\d.]+),(\d{2}) ([HS])$`)
	// "-123,45": plain comma-decimal.
	amountPlainRe = regexp.MustCompile(`^(-?\d+),(\d{2})$`)
	// "-1.234,56": thousands and comma-decimal combined.
	amountThousandsRe = regexp.MustCompile(`^(-?[\d.]+),(\d{2})$`)

	// "15.03. 15.03.2023": value date plus booking date; the first date and
	// the trailing year are used.
	datePairRe  = regexp.MustCompile(`^(\d{2})\.(\d{2})\. \d{2}\.\d{2}\.(\d{4})$`)
	dateFullRe  = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{4})$`)
	dateShortRe = regexp.MustCompile(`^(\d{2})\.(\d{2})\.(\d{2})$`)
	dateISORe   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
)

// Interpreter converts raw entry string fields into typed values.
type Interpreter struct {
	cfg  config.Config
	conv *currency.Converter
	log  zerolog.Logger
}

func NewInterpreter(cfg config.Config, conv *currency.Converter, log zerolog.Logger) *Interpreter {
	return &Interpreter{cfg: cfg, conv: conv, log: log}
}

// Run interprets each raw entry into a typed entry. Parse failures keep a
// sentinel value (zero amount, nil date) and log a warning; the batch never
// aborts for one bad row. An empty account list is a configuration failure
// the interpreter cannot reason about and errors out loudly.
func (it *Interpreter) Run(raws []entry.Raw) ([]*entry.Entry, error) {
	if len(it.cfg.Accounts) == 0 {
		return nil, errors.New("interpret: no accounts configured, cannot resolve account ids")
	}

	entries := make([]*entry.Entry, 0, len(raws))
	for i := range raws {
		raw := raws[i]
		e := entry.New()
		e.Raw = &raw

		amount, ok := ParseAmount(raw.Amount)
		if !ok {
			it.log.Warn().Str("amount", raw.Amount).Msg("could not extract amount from")
		}
		e.OriginalAmount = amount

		e.Date = it.parseDate(raw.Date)

		account, err := it.accountFor(raw.AccountIndex)
		if err != nil {
			return nil, err
		}
		e.AccountID = account.ID()
		if strings.Contains(account.InputDirectory, it.cfg.CreditCardMarker) {
			e.CardKind = entry.CardCredit
		} else {
			e.CardKind = entry.CardGiro
		}

		if account.Currency != "" && it.conv != nil && it.conv.IsConfigured() && account.Currency != it.conv.Base() {
			e.OriginalCurrency = account.Currency
			e.ConvertedAmount = it.conv.Convert(amount, account.Currency)
			e.Amount = e.ConvertedAmount
		} else {
			e.Amount = amount
			e.ConvertedAmount = amount
		}

		entries = append(entries, e)
	}
	return entries, nil
}

func (it *Interpreter) accountFor(index int) (config.Account, error) {
	if index < 0 || index >= len(it.cfg.Accounts) {
		return config.Account{}, fmt.Errorf("interpret: account index %d out of range (%d accounts)", index, len(it.cfg.Accounts))
	}
	return it.cfg.Accounts[index], nil
}

// ParseAmount tries the supported amount patterns in order; the first match
// wins. Reports false when no pattern matches.
func ParseAmount(s string) (decimal.Decimal, bool) {
	if m := amountHSRe.FindStringSubmatch(s); m != nil {
		magnitude, err := decimal.NewFromString(strings.ReplaceAll(m[1], ".", "") + "." + m[2])
		if err != nil {
			return decimal.Zero, false
		}
		if m[3] == "S" {
			magnitude = magnitude.Neg()
		}
		return magnitude, true
	}
	if m := amountPlainRe.FindStringSubmatch(s); m != nil {
		d, err := decimal.NewFromString(m[1] + "." + m[2])
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	if m := amountThousandsRe.FindStringSubmatch(s); m != nil {
		d, err := decimal.NewFromString(strings.ReplaceAll(m[1], ".", "") + "." + m[2])
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// parseDate tries the supported date patterns in order and validates the
// result against the calendar. Unparseable dates stay nil and sort after
// all dated entries downstream.
func (it *Interpreter) parseDate(s string) *time.Time {
	var day, month, year string
	switch {
	case datePairRe.MatchString(s):
		m := datePairRe.FindStringSubmatch(s)
		day, month, year = m[1], m[2], m[3]
	case dateFullRe.MatchString(s):
		m := dateFullRe.FindStringSubmatch(s)
		day, month, year = m[1], m[2], m[3]
	case dateShortRe.MatchString(s):
		m := dateShortRe.FindStringSubmatch(s)
		day, month, year = m[1], m[2], "20"+m[3]
	case dateISORe.MatchString(s):
		m := dateISORe.FindStringSubmatch(s)
		day, month, year = m[3], m[2], m[1]
	default:
		it.log.Warn().Str("date", s).Msg("could not extract date from")
		return nil
	}

	t, err := time.Parse("02.01.2006", day+"."+month+"."+year)
	if err != nil {
		it.log.Warn().Str("date", s).Msg("could not extract date from")
		return nil
	}
	return &t
}
