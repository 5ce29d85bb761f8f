// Package ledger owns the append-only transaction log. It is the sole data
// source for policy decisions: counts, sums, and averages are always
// recomputed from stored state, never cached.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

const fileName = "transactions.csv"

// Store is the transaction log: in-memory per-account history backed by an
// append-only transactions.csv. Rows are never mutated or deleted.
type Store struct {
	mu        sync.RWMutex
	path      string // empty = in-memory only
	byAccount map[string][]model.Transaction
}

// Open reads transactions.csv from dataDir (if present) and returns a
// Store that appends every new transaction to it.
func Open(dataDir string) (*Store, error) {
	s := &Store{
		path:      filepath.Join(dataDir, fileName),
		byAccount: make(map[string][]model.Transaction),
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	txs, err := ReadTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", s.path, err)
	}
	for _, tx := range txs {
		s.byAccount[tx.AccountID] = append(s.byAccount[tx.AccountID], tx)
	}
	return s, nil
}

// NewMemory returns a Store with no backing file.
func NewMemory() *Store {
	return &Store{byAccount: make(map[string][]model.Transaction)}
}

// Append records a transaction. The write is durable before the in-memory
// view is updated, so a failed append leaves no trace.
func (s *Store) Append(tx model.Transaction) error {
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("transaction amount must be positive, got %s", tx.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path != "" {
		if err := s.appendToFile(tx); err != nil {
			return err
		}
	}
	s.byAccount[tx.AccountID] = append(s.byAccount[tx.AccountID], tx)
	return nil
}

func (s *Store) appendToFile(tx model.Transaction) error {
	isNew := false
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendTransaction(f, tx); err != nil {
		return fmt.Errorf("appending transaction: %w", err)
	}
	return nil
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	Kind model.TransactionKind
	From time.Time
	To   time.Time
}

func (f Filter) matches(tx model.Transaction) bool {
	if f.Kind != "" && tx.Kind != f.Kind {
		return false
	}
	if !f.From.IsZero() && tx.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Timestamp.After(f.To) {
		return false
	}
	return true
}

// Query returns the account's transactions matching the filter, oldest
// first.
func (s *Store) Query(accountID string, f Filter) []model.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Transaction
	for _, tx := range s.byAccount[accountID] {
		if f.matches(tx) {
			out = append(out, tx)
		}
	}
	return out
}

// Last returns the account's most recent transaction.
func (s *Store) Last(accountID string) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := s.byAccount[accountID]
	if len(txs) == 0 {
		return model.Transaction{}, false
	}
	return txs[len(txs)-1], true
}

// CountByKind counts the account's transactions of one kind in [from, to].
func (s *Store) CountByKind(accountID string, kind model.TransactionKind, from, to time.Time) (int, error) {
	return len(s.Query(accountID, Filter{Kind: kind, From: from, To: to})), nil
}

// SumAmount sums the amounts of the account's transactions of one kind in
// [from, to].
func (s *Store) SumAmount(accountID string, kind model.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, tx := range s.Query(accountID, Filter{Kind: kind, From: from, To: to}) {
		total = total.Add(tx.Amount)
	}
	return total, nil
}

// AverageBalanceAfter returns the arithmetic mean of balance-after over the
// account's transactions (any kind) in [from, to]. ok is false when the
// window is empty.
func (s *Store) AverageBalanceAfter(accountID string, from, to time.Time) (decimal.Decimal, bool, error) {
	txs := s.Query(accountID, Filter{From: from, To: to})
	if len(txs) == 0 {
		return decimal.Zero, false, nil
	}

	total := decimal.Zero
	for _, tx := range txs {
		total = total.Add(tx.BalanceAfter)
	}
	return total.Div(decimal.NewFromInt(int64(len(txs)))), true, nil
}
