// Package engine orchestrates deposits and withdrawals: it resolves the
// policy for the account type, evaluates it against the ledger, applies
// the balance mutation and ledger append as one unit, and reports the
// outcome. A rejected operation changes nothing.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/accounts"
	"github.com/corebank-dev/corebank/internal/ledger"
	"github.com/corebank-dev/corebank/internal/model"
	"github.com/corebank-dev/corebank/internal/policy"
)

// ErrInvalidAmount is returned for non-positive amounts, before any
// policy runs.
var ErrInvalidAmount = errors.New("amount must be positive")

// Result is the outcome of a deposit or withdrawal. Reason is set only
// when a policy (or the final sufficiency gate) rejected the operation.
type Result struct {
	OK      bool
	Balance decimal.Decimal
	Reason  policy.Reason
}

// Engine applies deposits and withdrawals against the account and ledger
// stores. Each operation holds the account's lock across the full
// evaluate-then-mutate sequence.
type Engine struct {
	accounts *accounts.Store
	ledger   *ledger.Store
	locks    keyedLocks
	now      func() time.Time
}

// New creates an Engine over the given stores.
func New(accts *accounts.Store, led *ledger.Store) *Engine {
	return &Engine{accounts: accts, ledger: led, now: time.Now}
}

// Deposit credits amount to the account if its deposit policy allows it.
func (e *Engine) Deposit(accountID string, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, ErrInvalidAmount
	}

	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.accounts.Get(accountID)
	if err != nil {
		return Result{}, err
	}

	now := e.now()
	pol := policy.DepositPolicyFor(acct.Type)
	allowed, reason, err := pol.IsAllowed(acct, amount, e.ledger, now)
	if err != nil {
		return Result{}, fmt.Errorf("evaluating deposit policy: %w", err)
	}
	if !allowed {
		return Result{Balance: acct.Balance, Reason: reason}, nil
	}

	acct.Balance = acct.Balance.Add(amount)
	if err := e.commit(acct, amount, model.KindDeposit, now); err != nil {
		return Result{}, err
	}
	return Result{OK: true, Balance: acct.Balance}, nil
}

// Withdraw debits the account if its withdrawal policy allows it. For
// policies that charge a surcharge past their free quota, the surcharge is
// added to the requested amount, and the whole debit is recorded as one
// withdrawal transaction. The final sufficiency check has the last word:
// it can reject even when the policy approved.
func (e *Engine) Withdraw(accountID string, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, ErrInvalidAmount
	}

	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.accounts.Get(accountID)
	if err != nil {
		return Result{}, err
	}

	pol, err := policy.WithdrawalPolicyFor(acct.Type)
	if err != nil {
		return Result{}, err
	}

	now := e.now()
	allowed, reason, err := pol.IsAllowed(acct, amount, e.ledger, now)
	if err != nil {
		return Result{}, fmt.Errorf("evaluating withdrawal policy: %w", err)
	}
	if !allowed {
		return Result{Balance: acct.Balance, Reason: reason}, nil
	}

	totalDebit := amount
	if sc, ok := pol.(policy.Surcharger); ok {
		surcharge, err := sc.SurchargeFor(acct, e.ledger, now)
		if err != nil {
			return Result{}, fmt.Errorf("computing surcharge: %w", err)
		}
		totalDebit = totalDebit.Add(surcharge)
	}

	if acct.Balance.LessThan(totalDebit) {
		return Result{Balance: acct.Balance, Reason: policy.ReasonInsufficientBalance}, nil
	}

	acct.Balance = acct.Balance.Sub(totalDebit)
	if err := e.commit(acct, totalDebit, model.KindWithdrawal, now); err != nil {
		return Result{}, err
	}
	return Result{OK: true, Balance: acct.Balance}, nil
}

// UpdateKYCStatus flips the account's KYC-verified flag.
func (e *Engine) UpdateKYCStatus(accountID string, verified bool) error {
	unlock := e.locks.lock(accountID)
	defer unlock()

	acct, err := e.accounts.Get(accountID)
	if err != nil {
		return err
	}
	acct.KYCVerified = verified
	return e.accounts.SaveAccount(acct)
}

func (e *Engine) commit(acct model.Account, amount decimal.Decimal, kind model.TransactionKind, now time.Time) error {
	if err := e.accounts.SaveAccount(acct); err != nil {
		return fmt.Errorf("saving account: %w", err)
	}
	tx := model.Transaction{
		ID:           uuid.NewString(),
		AccountID:    acct.ID,
		Amount:       amount,
		Kind:         kind,
		Timestamp:    now,
		BalanceAfter: acct.Balance,
	}
	if err := e.ledger.Append(tx); err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}
	return nil
}
