package classify

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/entry"
	"github.com/bardeteleon/financial-analysis/internal/logging"
)

func classifyTestConfig() config.Config {
	return config.Config{
		Accounts: []config.Account{
			{Name: "Giro", IBAN: "DE01", Owners: []string{"Max Mustermann"}, InputDirectory: "giro"},
			{Name: "Sparen", IBAN: "DE02", Owners: []string{"Max Mustermann"}, InputDirectory: "sparen"},
			{Name: "Extra", IBAN: "DE03", Owners: []string{"Erika Mustermann"}, InputDirectory: "extra"},
		},
	}
}

func transaction(t *testing.T, accountID, dateStr string, amount float64, comment string) *entry.Entry {
	t.Helper()
	d, err := time.Parse("2006-01-02", dateStr)
	require.NoError(t, err)
	e := entry.New()
	e.Date = &d
	e.Amount = decimal.NewFromFloat(amount)
	e.AccountID = accountID
	e.CardKind = entry.CardGiro
	e.Raw = &entry.Raw{Comment: comment, Kind: entry.RawKindTransaction}
	return e
}

func runClassifier(t *testing.T, arena []*entry.Entry) {
	t.Helper()
	var buf bytes.Buffer
	NewClassifier(classifyTestConfig(), logging.NewWithWriter(&buf)).Run(arena)
}

func TestMutualAccountReferenceLinksInternal(t *testing.T) {
	t.Parallel()

	a := transaction(t, "DE01", "2023-03-15", -50, "Umbuchung auf DE02")
	b := transaction(t, "DE02", "2023-03-15", 50, "Umbuchung von DE01")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeInternal, a.Type)
	require.Equal(t, entry.TypeInternal, b.Type)
	require.Equal(t, 1, a.Counterpart)
	require.Equal(t, 0, b.Counterpart)
}

func TestOneSidedAccountReferenceIsEnough(t *testing.T) {
	t.Parallel()

	a := transaction(t, "DE01", "2023-03-15", -50, "Umbuchung auf DE02")
	b := transaction(t, "DE02", "2023-03-15", 50, "Gutschrift")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeInternal, a.Type)
	require.Equal(t, entry.TypeInternal, b.Type)
}

func TestOwnerNamesAloneReachThreshold(t *testing.T) {
	t.Parallel()

	// one owner-name point per direction adds up to the threshold
	a := transaction(t, "DE01", "2023-03-15", -50, "Dauerauftrag Max Mustermann")
	b := transaction(t, "DE02", "2023-03-15", 50, "Gutschrift Max Mustermann")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeInternal, a.Type)
	require.Equal(t, entry.TypeInternal, b.Type)
}

func TestNoEvidenceStaysExternal(t *testing.T) {
	t.Parallel()

	a := transaction(t, "DE01", "2023-03-15", -50, "Miete")
	b := transaction(t, "DE02", "2023-03-15", 50, "Gutschrift")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeExternal, a.Type)
	require.Equal(t, entry.TypeExternal, b.Type)
	require.Equal(t, entry.NoCounterpart, a.Counterpart)
}

func TestAmountMismatchStaysExternal(t *testing.T) {
	t.Parallel()

	a := transaction(t, "DE01", "2023-03-15", -50, "Umbuchung auf DE02")
	b := transaction(t, "DE02", "2023-03-15", 49, "Umbuchung von DE01")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeExternal, a.Type)
	require.Equal(t, entry.TypeExternal, b.Type)
}

func TestSmallAmountToleranceStillMatches(t *testing.T) {
	t.Parallel()

	a := transaction(t, "DE01", "2023-03-15", -50.05, "Umbuchung auf DE02")
	b := transaction(t, "DE02", "2023-03-15", 50, "Umbuchung von DE01")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeInternal, a.Type)
	require.Equal(t, entry.TypeInternal, b.Type)
}

func TestMatchAcrossWeekBoundary(t *testing.T) {
	t.Parallel()

	// Friday to Monday is one business day apart but a different ISO week
	a := transaction(t, "DE01", "2023-03-17", -50, "Umbuchung auf DE02")
	b := transaction(t, "DE02", "2023-03-20", 50, "Umbuchung von DE01")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeInternal, a.Type)
	require.Equal(t, entry.TypeInternal, b.Type)
}

func TestTooManyBusinessDaysApartStaysExternal(t *testing.T) {
	t.Parallel()

	a := transaction(t, "DE01", "2023-03-13", -50, "Umbuchung auf DE02")
	b := transaction(t, "DE02", "2023-03-21", 50, "Umbuchung von DE01")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeExternal, a.Type)
	require.Equal(t, entry.TypeExternal, b.Type)
}

func TestCreditCardDebitIsExternal(t *testing.T) {
	t.Parallel()

	a := transaction(t, "DE01", "2023-03-15", -50, "Umbuchung auf DE02")
	a.CardKind = entry.CardCredit
	b := transaction(t, "DE02", "2023-03-15", 50, "Umbuchung von DE01")
	arena := []*entry.Entry{a, b}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeExternal, a.Type)
	require.Equal(t, entry.TypeExternal, b.Type)
}

func TestBalancesAreTyped(t *testing.T) {
	t.Parallel()

	e := transaction(t, "DE01", "2023-03-15", 1000, "Tagessaldo")
	e.Raw.Kind = entry.RawKindBalance
	arena := []*entry.Entry{e}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeBalance, e.Type)
}

func TestStrongerReferenceWinsTie(t *testing.T) {
	t.Parallel()

	a := transaction(t, "DE01", "2023-03-15", -50, "Umbuchung auf DE02")
	weak := transaction(t, "DE03", "2023-03-15", 50, "Gutschrift Max Mustermann")
	strong := transaction(t, "DE02", "2023-03-15", 50, "Umbuchung von DE01")
	arena := []*entry.Entry{a, weak, strong}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeInternal, a.Type)
	require.Equal(t, 2, a.Counterpart)
	require.Equal(t, 0, strong.Counterpart)
	require.Equal(t, entry.TypeExternal, weak.Type)
}

func TestRerunIsIdempotent(t *testing.T) {
	t.Parallel()

	arena := []*entry.Entry{
		transaction(t, "DE01", "2023-03-15", -50, "Umbuchung auf DE02"),
		transaction(t, "DE02", "2023-03-15", 50, "Umbuchung von DE01"),
		transaction(t, "DE01", "2023-03-16", -12.34, "Supermarkt"),
	}

	runClassifier(t, arena)

	types := make([]entry.Type, len(arena))
	counterparts := make([]int, len(arena))
	for i, e := range arena {
		types[i] = e.Type
		counterparts[i] = e.Counterpart
	}

	runClassifier(t, arena)

	for i, e := range arena {
		require.Equal(t, types[i], e.Type)
		require.Equal(t, counterparts[i], e.Counterpart)
	}
}

func TestUnmatchedInternalIsDemotedToExternal(t *testing.T) {
	t.Parallel()

	orphan := entry.New()
	d, err := time.Parse("2006-01-02", "2023-03-15")
	require.NoError(t, err)
	orphan.Date = &d
	orphan.Amount = decimal.NewFromFloat(50)
	orphan.AccountID = "DE02"
	orphan.Type = entry.TypeInternal
	orphan.CardKind = entry.CardGiro
	arena := []*entry.Entry{orphan}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeExternal, orphan.Type)
	require.Equal(t, entry.NoCounterpart, orphan.Counterpart)
}

func TestVirtualMirrorLinksToItsSource(t *testing.T) {
	t.Parallel()

	src := transaction(t, "DE01", "2023-03-15", -50, "Sparplan DE02")
	mirror := entry.New()
	d := *src.Date
	mirror.Date = &d
	mirror.Amount = decimal.NewFromFloat(50)
	mirror.AccountID = "DE02"
	mirror.Type = entry.TypeInternal
	mirror.CardKind = entry.CardGiro
	arena := []*entry.Entry{src, mirror}

	runClassifier(t, arena)

	require.Equal(t, entry.TypeInternal, src.Type)
	require.Equal(t, 1, src.Counterpart)
	require.Equal(t, 0, mirror.Counterpart)
}
