package tagging

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/entry"
	"github.com/bardeteleon/financial-analysis/internal/logging"
)

func testEntry(t *testing.T, accountID, dateStr, comment string) *entry.Entry {
	t.Helper()
	d, err := time.Parse("2006-01-02", dateStr)
	require.NoError(t, err)
	e := entry.New()
	e.Date = &d
	e.AccountID = accountID
	e.Raw = &entry.Raw{Comment: comment, Kind: entry.RawKindTransaction}
	return e
}

func applyRules(t *testing.T, entries []*entry.Entry, tagRules []config.TagRule) {
	t.Helper()
	rules, err := RulesFromConfig(config.Config{TagRules: tagRules})
	require.NoError(t, err)
	Apply(entries, rules, logging.NewWithWriter(&bytes.Buffer{}))
}

func TestApplyMatchesCommentPattern(t *testing.T) {
	t.Parallel()

	e := testEntry(t, "DE01", "2023-03-01", "REWE SAGT DANKE")
	applyRules(t, []*entry.Entry{e}, []config.TagRule{
		{Tag: "Food-Groceries", CommentPattern: "REWE|EDEKA"},
	})

	require.Len(t, e.Tags, 1)
	require.Equal(t, "Food-Groceries", e.Tags[0].String())
}

func TestApplyFallsBackToUndefined(t *testing.T) {
	t.Parallel()

	e := testEntry(t, "DE01", "2023-03-01", "something else")
	applyRules(t, []*entry.Entry{e}, []config.TagRule{
		{Tag: "Food", CommentPattern: "REWE"},
	})

	require.Len(t, e.Tags, 1)
	require.True(t, e.Tags[0].Equal(entry.UndefinedTag))
}

func TestApplyHonorsDateRangeAndAccount(t *testing.T) {
	t.Parallel()

	rules := []config.TagRule{
		{Tag: "Vacation", CommentPattern: "HOTEL", DateFrom: "2023-03-01", DateTo: "2023-03-10"},
		{Tag: "Work", CommentPattern: "HOTEL", AccountID: "DE02"},
	}

	inRange := testEntry(t, "DE01", "2023-03-05", "HOTEL SEEBLICK")
	outOfRange := testEntry(t, "DE01", "2023-04-01", "HOTEL SEEBLICK")
	otherAccount := testEntry(t, "DE02", "2023-04-01", "HOTEL SEEBLICK")

	applyRules(t, []*entry.Entry{inRange, outOfRange, otherAccount}, rules)

	require.Equal(t, "Vacation", inRange.Tags[0].String())
	require.True(t, outOfRange.Tags[0].Equal(entry.UndefinedTag))
	require.Equal(t, "Work", otherAccount.Tags[0].String())
}

func TestApplyAppendsMultipleMatchesOnce(t *testing.T) {
	t.Parallel()

	e := testEntry(t, "DE01", "2023-03-01", "REWE CITY")
	applyRules(t, []*entry.Entry{e}, []config.TagRule{
		{Tag: "Food", CommentPattern: "REWE"},
		{Tag: "Food", CommentPattern: "CITY"},
		{Tag: "Errand", CommentPattern: "REWE"},
	})

	require.Len(t, e.Tags, 2)
	require.Equal(t, "Food", e.Tags[0].String())
	require.Equal(t, "Errand", e.Tags[1].String())
}

func TestRulesFromConfigRejectsBadPattern(t *testing.T) {
	t.Parallel()

	_, err := RulesFromConfig(config.Config{TagRules: []config.TagRule{
		{Tag: "Broken", CommentPattern: "("},
	}})
	require.Error(t, err)
}

func TestApplySkipsBalances(t *testing.T) {
	t.Parallel()

	e := testEntry(t, "DE01", "2023-03-01", "Tagessaldo")
	e.Raw.Kind = entry.RawKindBalance
	applyRules(t, []*entry.Entry{e}, nil)
	require.Empty(t, e.Tags)
}
