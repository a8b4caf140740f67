package repository

import "time"

// Run is one persisted analysis pass over an input directory.
type Run struct {
	ID            string
	CreatedAt     time.Time
	InputDir      string
	EntryCount    int
	InternalCount int
	ExternalCount int
}

// EntryRecord is one interpreted entry as persisted for a run. Position is
// the entry's arena index within the run, which also encodes counterpart
// links.
type EntryRecord struct {
	ID                  string
	RunID               string
	Position            int
	Date                *string
	Amount              string
	AccountID           string
	Type                string
	Card                string
	Tags                string
	CounterpartPosition *int
	RawKind             *string
	RawComment          *string
}

// IntervalRecord is one persisted reconciliation interval.
type IntervalRecord struct {
	ID            string
	RunID         string
	AccountID     string
	Status        string
	DateFrom      *string
	DateTo        *string
	StartBalance  string
	EndBalance    string
	CalculatedSum string
	Transactions  int
}
