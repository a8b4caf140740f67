package entry

import "github.com/shopspring/decimal"

// InitialBalance reconstructs the balance an account had before its first
// recorded entry: the first balance checkpoint minus every transaction that
// precedes it. Zero when the account has no balance checkpoint.
func InitialBalance(entries []*Entry, accountID string) decimal.Decimal {
	account := ByAccount(entries, accountID)
	firstBalance := -1
	for i, e := range account {
		if e.IsBalance() {
			firstBalance = i
			break
		}
	}
	if firstBalance < 0 {
		return decimal.Zero
	}
	result := account[firstBalance].Amount
	for _, e := range account[:firstBalance] {
		if e.IsTransaction() {
			result = result.Sub(e.Amount)
		}
	}
	return result
}
