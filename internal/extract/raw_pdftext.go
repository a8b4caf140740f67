package extract

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bardeteleon/financial-analysis/internal/entry"
)

var (
	statementYearRe    = regexp.MustCompile(`Nr\..+?\d+/(\d{4})`)
	statementDateRe    = regexp.MustCompile(`\d{2}\.\d{2}\. \d{2}\.\d{2}\.`)
	statementAmountRe  = regexp.MustCompile(`\d[\d.]*,\d{2} [HS]`)
	statementBalanceRe = regexp.MustCompile(`(alter Kontostand|neuer Kontostand|Übertrag auf|Übertrag von)`)
)

// RawFromStatementText extracts raw entries from the text of a printed bank
// statement (PDF-extracted). Amounts anchor the entries; each amount is
// classified as balance or transaction by the text preceding it, and
// transaction comments are sliced out of the text between consecutive
// anchors.
func RawFromStatementText(text string, accountIndex int, log zerolog.Logger) []entry.Raw {
	year := ""
	if m := statementYearRe.FindStringSubmatch(text); m != nil {
		year = m[1]
	}

	dates := statementDateRe.FindAllString(text, -1)
	amountLocs := statementAmountRe.FindAllStringIndex(text, -1)
	if len(amountLocs) == 0 {
		log.Error().Msg("no amounts found in statement text")
		return nil
	}

	// Text segment running up to and including each amount, used to decide
	// what the amount belongs to.
	fronts := make([]string, len(amountLocs))
	last := 0
	for i, loc := range amountLocs {
		fronts[i] = text[last:loc[1]]
		last = loc[1]
	}

	raws := make([]entry.Raw, len(amountLocs))
	for i, loc := range amountLocs {
		raws[i] = entry.Raw{
			Amount:       text[loc[0]:loc[1]],
			AccountIndex: accountIndex,
			Kind:         entry.RawKindUnknown,
		}
	}

	for i, front := range fronts {
		if m := statementBalanceRe.FindStringSubmatch(front); m != nil {
			raws[i].Comment = m[1]
			raws[i].Kind = entry.RawKindBalance
		}
	}

	dateIdx := 0
	for i, front := range fronts {
		if dateIdx >= len(dates) {
			break
		}
		if strings.Contains(front, dates[dateIdx]) {
			raws[i].Date = dates[dateIdx]
			raws[i].Kind = entry.RawKindTransaction
			dateIdx++
		}
	}

	extractStatementComments(text, raws)

	for i := range raws {
		if raws[i].Date != "" {
			raws[i].Date += year
		}
	}
	return raws
}

// extractStatementComments slices the comment of each transaction out of the
// text between its date and the next entry's anchor, consuming the text left
// to right so repeated dates and amounts cannot rematch earlier regions.
func extractStatementComments(text string, raws []entry.Raw) {
	shrinking := text
	for i := range raws {
		if i == 0 || i == len(raws)-1 || raws[i].Kind != entry.RawKindTransaction {
			continue
		}
		start := raws[i].Date
		end := raws[i+1].Amount
		if raws[i+1].Kind == entry.RawKindTransaction {
			end = raws[i+1].Date
		}
		re := regexp.MustCompile("(?s)" + regexp.QuoteMeta(start) + "(.+?)" + regexp.QuoteMeta(raws[i].Amount) + "(.+?)" + regexp.QuoteMeta(end))
		m := re.FindStringSubmatchIndex(shrinking)
		if m == nil {
			continue
		}
		comment := shrinking[m[2]:m[3]] + " " + shrinking[m[4]:m[5]]
		raws[i].Comment = CleanupWhitespace(comment)
		shrinking = shrinking[m[1]-len(end):]
	}
}
