// Package currency converts statement amounts into the configured base
// currency using a static rate table.
package currency

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bardeteleon/financial-analysis/internal/config"
)

type ratePair struct {
	from string
	to   string
}

// Converter applies configured exchange rates. A nil/empty configuration
// yields a pass-through converter.
type Converter struct {
	base  string
	rates map[ratePair]decimal.Decimal
	log   zerolog.Logger
}

// NewConverter builds a converter from config. Unknown rates fall back to
// 1:1 with an error log at conversion time.
func NewConverter(cfg *config.CurrencyConfig, log zerolog.Logger) *Converter {
	c := &Converter{rates: make(map[ratePair]decimal.Decimal), log: log}
	if cfg == nil {
		return c
	}
	c.base = cfg.BaseCurrency
	for _, r := range cfg.ExchangeRates {
		c.rates[ratePair{from: r.From, to: r.To}] = decimal.NewFromFloat(r.Rate)
	}
	return c
}

// IsConfigured reports whether a base currency is set.
func (c *Converter) IsConfigured() bool { return c.base != "" }

// Base returns the configured base currency code.
func (c *Converter) Base() string { return c.base }

// Convert converts amount from the given currency into the base currency.
// Amounts already in the base currency (or with no currency information)
// pass through unchanged.
func (c *Converter) Convert(amount decimal.Decimal, from string) decimal.Decimal {
	if c.base == "" || from == "" || from == c.base {
		return amount
	}
	rate, ok := c.rates[ratePair{from: from, to: c.base}]
	if !ok {
		c.log.Error().Str("from", from).Str("to", c.base).Msg("no exchange rate configured, using 1:1 rate")
		return amount
	}
	return amount.Mul(rate)
}
