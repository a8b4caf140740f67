// Package entry holds the in-memory data model shared by the extraction,
// classification and reconciliation stages.
package entry

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawKind classifies a raw statement row before interpretation.
type RawKind int

const (
	RawKindUnknown RawKind = iota
	RawKindTransaction
	RawKindBalance
)

func (k RawKind) String() string {
	switch k {
	case RawKindTransaction:
		return "transaction"
	case RawKindBalance:
		return "balance"
	default:
		return "unknown"
	}
}

// Raw is one statement row extracted verbatim as strings. Immutable once
// created; one per detected row.
type Raw struct {
	Date         string
	Amount       string
	Comment      string
	AccountIndex int
	Kind         RawKind
}

// Type is the final classification of an interpreted entry.
type Type int

const (
	TypeUnknown Type = iota
	TypeInternal
	TypeExternal
	TypeBalance
)

func (t Type) String() string {
	switch t {
	case TypeInternal:
		return "internal"
	case TypeExternal:
		return "external"
	case TypeBalance:
		return "balance"
	default:
		return "unknown"
	}
}

// CardKind distinguishes credit-card accounts from giro accounts.
type CardKind int

const (
	CardUnset CardKind = iota
	CardGiro
	CardCredit
)

func (c CardKind) String() string {
	switch c {
	case CardGiro:
		return "giro"
	case CardCredit:
		return "credit"
	default:
		return ""
	}
}

// NoCounterpart marks an entry without an internal-transaction partner.
const NoCounterpart = -1

// Entry is a raw entry with typed amount/date and an assigned transaction
// type, or a synthetic (virtual) entry with no backing raw row. Entries live
// in a shared arena slice; Counterpart is an index into that arena. Only the
// classifier writes Type and Counterpart after creation.
type Entry struct {
	Date             *time.Time
	Amount           decimal.Decimal
	OriginalAmount   decimal.Decimal
	OriginalCurrency string
	ConvertedAmount  decimal.Decimal
	Tags             []Tag
	CardKind         CardKind
	AccountID        string
	Type             Type
	Raw              *Raw
	Counterpart      int
}

// New returns an entry with no counterpart link.
func New() *Entry {
	return &Entry{Counterpart: NoCounterpart}
}

// IsVirtual reports whether the entry was synthesized without a raw row.
func (e *Entry) IsVirtual() bool { return e.Raw == nil }

// IsTransaction reports whether the entry represents money movement, either
// by its assigned type or by its raw row kind.
func (e *Entry) IsTransaction() bool {
	if e.Type == TypeInternal || e.Type == TypeExternal {
		return true
	}
	return e.Raw != nil && e.Raw.Kind == RawKindTransaction
}

// IsBalance reports whether the entry is a balance checkpoint.
func (e *Entry) IsBalance() bool {
	if e.Type == TypeBalance {
		return true
	}
	return e.Raw != nil && e.Raw.Kind == RawKindBalance
}

func (e *Entry) IsInternal() bool { return e.Type == TypeInternal }

func (e *Entry) IsExternal() bool { return e.Type == TypeExternal }

func (e *Entry) IsUntagged() bool { return len(e.Tags) == 0 }

func (e *Entry) IsTagged() bool { return !e.IsUntagged() }
