package extract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/entry"
	"github.com/bardeteleon/financial-analysis/internal/logging"
)

func TestParseAmountPatterns(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"1.234,56 H", "1234.56", true},
		{"1.234,56 S", "-1234.56", true},
		{"0,01 H", "0.01", true},
		{"-123,45", "-123.45", true},
		{"123,45", "123.45", true},
		{"-1.234,56", "-1234.56", true},
		{"12.345.678,90", "12345678.9", true},
		{"", "", false},
		{"123.45", "", false},
		{"abc", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			require.Equal(t, tc.want, got.String(), "input %q", tc.in)
		}
	}
}

func interpretTestConfig() config.Config {
	return config.Config{
		CreditCardMarker: "Kreditkarte",
		Accounts: []config.Account{
			{Name: "Giro", IBAN: "DE01", InputDirectory: "giro"},
			{Name: "Karte", IBAN: "DE02", InputDirectory: "Kreditkarte"},
		},
	}
}

func TestInterpreterDatePatterns(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"15.03. 17.03.2023", "2023-03-15"},
		{"15.03.2023", "2023-03-15"},
		{"15.03.23", "2023-03-15"},
		{"2023-03-15", "2023-03-15"},
		{"29.02.2024", "2024-02-29"},
	}
	for _, tc := range cases {
		var buf bytes.Buffer
		it := NewInterpreter(interpretTestConfig(), nil, logging.NewWithWriter(&buf))
		entries, err := it.Run([]entry.Raw{{Date: tc.in, Amount: "1,00", AccountIndex: 0, Kind: entry.RawKindTransaction}})
		require.NoError(t, err)
		require.NotNil(t, entries[0].Date, "input %q", tc.in)
		require.Equal(t, tc.want, entries[0].Date.Format("2006-01-02"), "input %q", tc.in)
		require.Empty(t, buf.String())
	}
}

func TestInterpreterRejectsImpossibleDates(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"30.02.2023", "29.02.2023", "32.01.2023", "garbage", ""} {
		var buf bytes.Buffer
		it := NewInterpreter(interpretTestConfig(), nil, logging.NewWithWriter(&buf))
		entries, err := it.Run([]entry.Raw{{Date: in, Amount: "1,00", AccountIndex: 0, Kind: entry.RawKindTransaction}})
		require.NoError(t, err)
		require.Nil(t, entries[0].Date, "input %q", in)
		require.Contains(t, buf.String(), in, "warning should quote the input")
	}
}

func TestInterpreterResolvesAccountAndCard(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	it := NewInterpreter(interpretTestConfig(), nil, logging.NewWithWriter(&buf))
	entries, err := it.Run([]entry.Raw{
		{Date: "01.03.2023", Amount: "-5,00", AccountIndex: 0, Kind: entry.RawKindTransaction},
		{Date: "01.03.2023", Amount: "-7,50", AccountIndex: 1, Kind: entry.RawKindTransaction},
	})
	require.NoError(t, err)

	require.Equal(t, "DE01", entries[0].AccountID)
	require.Equal(t, entry.CardGiro, entries[0].CardKind)
	require.Equal(t, "DE02", entries[1].AccountID)
	require.Equal(t, entry.CardCredit, entries[1].CardKind)
	require.Equal(t, "-7.5", entries[1].Amount.String())
	require.NotNil(t, entries[1].Raw)
}

func TestInterpreterKeepsBadAmountAtZero(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	it := NewInterpreter(interpretTestConfig(), nil, logging.NewWithWriter(&buf))
	entries, err := it.Run([]entry.Raw{{Date: "01.03.2023", Amount: "n/a", AccountIndex: 0, Kind: entry.RawKindTransaction}})
	require.NoError(t, err)
	require.True(t, entries[0].Amount.IsZero())
	require.Contains(t, buf.String(), "n/a")
}

func TestInterpreterFailsWithoutAccounts(t *testing.T) {
	t.Parallel()

	it := NewInterpreter(config.Config{}, nil, logging.NewWithWriter(&bytes.Buffer{}))
	_, err := it.Run([]entry.Raw{{Date: "01.03.2023", Amount: "1,00"}})
	require.Error(t, err)
}
