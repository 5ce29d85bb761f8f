// Package policy holds the per-account-type rules that decide whether a
// deposit or withdrawal is admissible, and what surcharge (if any) applies.
// Policies are pure decision functions: they read the account, the requested
// amount, and the transaction history, and never mutate anything.
package policy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

// History is the read-only view of an account's ledger that policies
// evaluate against.
type History interface {
	// CountByKind counts transactions of the given kind in [from, to].
	CountByKind(accountID string, kind model.TransactionKind, from, to time.Time) (int, error)
	// SumAmount sums transaction amounts of the given kind in [from, to].
	SumAmount(accountID string, kind model.TransactionKind, from, to time.Time) (decimal.Decimal, error)
	// AverageBalanceAfter averages the balance-after snapshots of all
	// transactions (any kind) in [from, to]. ok is false when the window
	// holds no transactions.
	AverageBalanceAfter(accountID string, from, to time.Time) (avg decimal.Decimal, ok bool, err error)
}

// WithdrawalPolicy decides whether a withdrawal is admissible.
type WithdrawalPolicy interface {
	IsAllowed(acct model.Account, amount decimal.Decimal, hist History, now time.Time) (bool, Reason, error)
}

// DepositPolicy decides whether a deposit is admissible.
type DepositPolicy interface {
	IsAllowed(acct model.Account, amount decimal.Decimal, hist History, now time.Time) (bool, Reason, error)
}

// Surcharger is implemented by withdrawal policies that charge beyond the
// requested amount once a free-transaction quota is used up.
type Surcharger interface {
	SurchargeFor(acct model.Account, hist History, now time.Time) (decimal.Decimal, error)
}

// monthStart returns the first instant of now's calendar month.
func monthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}
