package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

// ValidationError describes a single invariant violation in the ledger.
type ValidationError struct {
	Invariant     int
	TransactionID string
	Description   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.TransactionID, e.Description)
}

// BalanceSource reports the current stored balance of an account.
type BalanceSource interface {
	Balance(accountID string) (decimal.Decimal, bool)
}

// Verify enforces 4 invariants over the whole ledger:
//  1. Every amount is strictly positive.
//  2. Amounts and balance-after snapshots have at most 2 decimal places.
//  3. Consecutive balance-after snapshots differ by exactly the row's
//     amount (added for deposits, subtracted for withdrawals), and no
//     snapshot is negative.
//  4. The most recent snapshot equals the account's current balance.
func (s *Store) Verify(balances BalanceSource) []ValidationError {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []ValidationError
	hundred := decimal.NewFromInt(100)

	for accountID, txs := range s.byAccount {
		var prev model.Transaction
		for i, tx := range txs {
			if !tx.Amount.IsPositive() {
				errs = append(errs, ValidationError{
					Invariant:     1,
					TransactionID: tx.ID,
					Description:   fmt.Sprintf("amount %s is not positive", tx.Amount),
				})
			}

			for _, d := range []decimal.Decimal{tx.Amount, tx.BalanceAfter} {
				if !d.Mul(hundred).Equal(d.Mul(hundred).Floor()) {
					errs = append(errs, ValidationError{
						Invariant:     2,
						TransactionID: tx.ID,
						Description:   fmt.Sprintf("%s has more than 2 decimal places", d),
					})
				}
			}

			if tx.BalanceAfter.IsNegative() {
				errs = append(errs, ValidationError{
					Invariant:     3,
					TransactionID: tx.ID,
					Description:   fmt.Sprintf("balance_after %s is negative", tx.BalanceAfter),
				})
			}
			if i > 0 {
				want := prev.BalanceAfter.Add(tx.Amount)
				if tx.Kind == model.KindWithdrawal {
					want = prev.BalanceAfter.Sub(tx.Amount)
				}
				if !tx.BalanceAfter.Equal(want) {
					errs = append(errs, ValidationError{
						Invariant:     3,
						TransactionID: tx.ID,
						Description:   fmt.Sprintf("balance_after %s, want %s after %s of %s", tx.BalanceAfter, want, tx.Kind, tx.Amount),
					})
				}
			}
			prev = tx
		}

		if len(txs) > 0 {
			last := txs[len(txs)-1]
			current, ok := balances.Balance(accountID)
			if !ok {
				errs = append(errs, ValidationError{
					Invariant:     4,
					TransactionID: last.ID,
					Description:   fmt.Sprintf("unknown account %s", accountID),
				})
			} else if !current.Equal(last.BalanceAfter) {
				errs = append(errs, ValidationError{
					Invariant:     4,
					TransactionID: last.ID,
					Description:   fmt.Sprintf("account balance %s != last balance_after %s", current, last.BalanceAfter),
				})
			}
		}
	}

	return errs
}
