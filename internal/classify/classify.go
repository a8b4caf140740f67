// Package classify assigns a transaction type to every interpreted entry.
// Transfers between two known accounts become internal and are linked to
// their counterpart; everything else becomes external.
package classify

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bardeteleon/financial-analysis/internal/config"
	"github.com/bardeteleon/financial-analysis/internal/entry"
)

const (
	// maxBusinessDayDistance bounds how far apart the two legs of a
	// transfer may be booked.
	maxBusinessDayDistance = 5
	// minMatchPoints is the evidence threshold a candidate pair must reach.
	minMatchPoints  = 2.0
	accountIDPoints = 2.0
	ownerNamePoints = 1.0
)

// amountTolerance absorbs rounding differences between the two legs of a
// transfer, e.g. after currency conversion.
var amountTolerance = decimal.NewFromFloat(0.1)

type candidate struct {
	index   int
	points  float64
	dayDist int
}

// Classifier types the entries of one arena. Entries are read concurrently
// safe only before Run; Run is the single writer of Type and Counterpart.
type Classifier struct {
	arena     []*entry.Entry
	ownersOf  map[string][]string
	byWeek    map[[2]int][]int
	processed []bool
	log       zerolog.Logger
}

func NewClassifier(cfg config.Config, log zerolog.Logger) *Classifier {
	owners := make(map[string][]string, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		owners[a.ID()] = a.Owners
	}
	return &Classifier{ownersOf: owners, log: log}
}

// Run classifies every entry in the arena in place. The arena order is the
// iteration order, so a given input always yields the same classification.
// Entries already linked to a counterpart keep their link, which makes a
// second run over the same arena a no-op.
func (cl *Classifier) Run(arena []*entry.Entry) {
	cl.arena = arena
	cl.processed = make([]bool, len(arena))
	cl.byWeek = make(map[[2]int][]int)
	for i, e := range arena {
		if e.Date == nil || !e.IsTransaction() {
			continue
		}
		key := weekKey(*e.Date)
		cl.byWeek[key] = append(cl.byWeek[key], i)
	}

	for i, e := range arena {
		if cl.processed[i] {
			continue
		}
		switch {
		case e.Counterpart != entry.NoCounterpart:
			cl.processed[i] = true
		case e.IsBalance():
			e.Type = entry.TypeBalance
			cl.processed[i] = true
		case e.Raw != nil && e.Raw.Kind == entry.RawKindUnknown:
			cl.processed[i] = true
		case e.CardKind == entry.CardCredit && e.Amount.IsNegative():
			// Credit card debits settle against the card statement, not
			// against another known account.
			e.Type = entry.TypeExternal
			cl.processed[i] = true
		default:
			cl.resolve(i)
		}
	}

	internal, external := 0, 0
	for i, e := range arena {
		// anything left unlinked after resolution is external, including
		// entries pre-marked internal that found no counterpart
		if !cl.processed[i] && e.IsTransaction() {
			e.Type = entry.TypeExternal
		}
		switch e.Type {
		case entry.TypeInternal:
			internal++
		case entry.TypeExternal:
			external++
		}
	}
	cl.log.Info().Int("internal", internal).Int("external", external).Msg("classified transactions")
}

// resolve links mutually best-matching candidate pairs, walking the chain of
// best candidates with an explicit frame stack. A frame's best candidate
// being the frame below it means both prefer each other; they link and both
// frames pop. A frame with no viable candidate left pops unlinked and the
// frame below moves on to its next candidate.
func (cl *Classifier) resolve(start int) {
	type frame struct {
		index int
		cands []candidate
		pos   int
	}
	stack := []frame{{index: start, cands: cl.rankedCandidates(start)}}
	onStack := map[int]bool{start: true}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		for f.pos < len(f.cands) && cl.processed[f.cands[f.pos].index] {
			f.pos++
		}
		if f.pos >= len(f.cands) {
			delete(onStack, f.index)
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				stack[len(stack)-1].pos++
			}
			continue
		}

		best := f.cands[f.pos].index
		if len(stack) > 1 && best == stack[len(stack)-2].index {
			cl.link(f.index, best)
			delete(onStack, f.index)
			delete(onStack, best)
			stack = stack[:len(stack)-2]
			continue
		}
		if onStack[best] {
			// chain loops back without being mutual, not a transfer pair
			f.pos++
			continue
		}
		stack = append(stack, frame{index: best, cands: cl.rankedCandidates(best)})
		onStack[best] = true
	}
}

func (cl *Classifier) link(a, b int) {
	cl.arena[a].Type = entry.TypeInternal
	cl.arena[b].Type = entry.TypeInternal
	cl.arena[a].Counterpart = b
	cl.arena[b].Counterpart = a
	cl.processed[a] = true
	cl.processed[b] = true
}

// rankedCandidates gathers qualifying counterpart candidates for the entry
// at index and orders them by match strength. Candidates come from the
// entry's booking week and the adjacent weeks.
func (cl *Classifier) rankedCandidates(index int) []candidate {
	e := cl.arena[index]
	if e.Date == nil || !e.IsTransaction() {
		return nil
	}

	seen := make(map[int]struct{})
	var cands []candidate
	for _, offset := range []int{-7, 0, 7} {
		key := weekKey(e.Date.AddDate(0, 0, offset))
		for _, ci := range cl.byWeek[key] {
			if ci == index {
				continue
			}
			if _, ok := seen[ci]; ok {
				continue
			}
			seen[ci] = struct{}{}

			c := cl.arena[ci]
			if c.AccountID == e.AccountID || c.Date == nil || !c.IsTransaction() {
				continue
			}
			dist := businessDayDistance(*e.Date, *c.Date)
			if dist > maxBusinessDayDistance {
				continue
			}
			if c.Amount.Sub(e.Amount.Neg()).Abs().GreaterThan(amountTolerance) {
				continue
			}
			points := cl.directedPoints(e, c) + cl.directedPoints(c, e)
			if points < minMatchPoints {
				continue
			}
			cands = append(cands, candidate{index: ci, points: points, dayDist: dist})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.points != b.points {
			return a.points > b.points
		}
		if a.dayDist != b.dayDist {
			return a.dayDist < b.dayDist
		}
		if cl.arena[a.index].AccountID != cl.arena[b.index].AccountID {
			return cl.arena[a.index].AccountID < cl.arena[b.index].AccountID
		}
		return a.index < b.index
	})
	return cands
}

// directedPoints rates how strongly e's comment points at the candidate's
// account. An account id reference outweighs an owner name reference.
func (cl *Classifier) directedPoints(e, cand *entry.Entry) float64 {
	comment := matchComment(e, cand)
	if comment == "" {
		return 0
	}
	if strings.Contains(comment, cand.AccountID) {
		return accountIDPoints
	}
	for _, owner := range cl.ownersOf[cand.AccountID] {
		if owner != "" && strings.Contains(comment, owner) {
			return ownerNamePoints
		}
	}
	return 0
}

// matchComment is the text rated for evidence. Virtual entries have no raw
// comment; internal ones stand in for a transfer and implicitly reference
// the other account.
func matchComment(e, other *entry.Entry) string {
	if e.Raw != nil {
		return e.Raw.Comment
	}
	if e.IsInternal() {
		return other.AccountID
	}
	return ""
}

func weekKey(d time.Time) [2]int {
	_, week := d.ISOWeek()
	return [2]int{d.Year(), week}
}

// businessDayDistance counts the weekdays in the half-open interval between
// the two dates, in either order.
func businessDayDistance(a, b time.Time) int {
	if b.Before(a) {
		a, b = b, a
	}
	days := 0
	for d := a; d.Before(b); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}
