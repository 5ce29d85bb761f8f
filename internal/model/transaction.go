package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind distinguishes the two balance-changing operations.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
)

// Transaction is one immutable row in an account's ledger. Rows are
// append-only; BalanceAfter snapshots the account balance immediately
// after the row was applied.
type Transaction struct {
	ID           string
	AccountID    string
	Amount       decimal.Decimal // always > 0; includes any surcharge
	Kind         TransactionKind
	Timestamp    time.Time
	BalanceAfter decimal.Decimal
}
