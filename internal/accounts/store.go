// Package accounts stores users, banks, and accounts. Records live in
// memory and are persisted as CSV files under a data directory; every
// write rewrites the affected file atomically (tmp + rename).
package accounts

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/id"
	"github.com/corebank-dev/corebank/internal/model"
)

var (
	// ErrNotFound means the account does not exist.
	ErrNotFound = errors.New("account not found")
	// ErrUserNotFound means the owner reference is dangling.
	ErrUserNotFound = errors.New("user not found")
	// ErrBankNotFound means the bank reference is dangling.
	ErrBankNotFound = errors.New("bank not found")
)

const (
	accountsFile = "accounts.csv"
	usersFile    = "users.csv"
	banksFile    = "banks.csv"
)

// Store holds all users, banks, and accounts.
type Store struct {
	mu       sync.RWMutex
	dataDir  string // empty = in-memory only
	users    map[string]model.User
	banks    map[string]model.Bank
	accounts map[string]model.Account
	byNumber map[string]string // account number -> account ID
	nextSeq  int
}

func newStore(dataDir string) *Store {
	return &Store{
		dataDir:  dataDir,
		users:    make(map[string]model.User),
		banks:    make(map[string]model.Bank),
		accounts: make(map[string]model.Account),
		byNumber: make(map[string]string),
		nextSeq:  1,
	}
}

// NewMemory returns a Store with no backing files.
func NewMemory() *Store {
	return newStore("")
}

// Open loads users.csv, banks.csv, and accounts.csv from dataDir. Missing
// files are treated as empty.
func Open(dataDir string) (*Store, error) {
	s := newStore(dataDir)

	if err := readFile(filepath.Join(dataDir, usersFile), func(r io.Reader) error {
		users, err := ReadUsers(r)
		if err != nil {
			return err
		}
		for _, u := range users {
			s.users[u.ID] = u
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readFile(filepath.Join(dataDir, banksFile), func(r io.Reader) error {
		banks, err := ReadBanks(r)
		if err != nil {
			return err
		}
		for _, b := range banks {
			s.banks[b.ID] = b
		}
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readFile(filepath.Join(dataDir, accountsFile), func(r io.Reader) error {
		accts, err := ReadAccounts(r)
		if err != nil {
			return err
		}
		for _, a := range accts {
			s.accounts[a.ID] = a
			s.byNumber[a.Number] = a.ID
			if _, seq, err := id.ParseAccountNumber(a.Number); err == nil && seq >= s.nextSeq {
				s.nextSeq = seq + 1
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return s, nil
}

func readFile(path string, load func(io.Reader) error) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := load(f); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// CreateUser adds a user and persists the user list.
func (s *Store) CreateUser(name, address string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := model.User{ID: uuid.NewString(), Name: name, Address: address}
	s.users[u.ID] = u
	if err := s.persistUsers(); err != nil {
		delete(s.users, u.ID)
		return model.User{}, err
	}
	return u, nil
}

// CreateBank adds a bank and persists the bank list.
func (s *Store) CreateBank(name, location string) (model.Bank, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := model.Bank{ID: uuid.NewString(), Name: name, Location: location}
	s.banks[b.ID] = b
	if err := s.persistBanks(); err != nil {
		delete(s.banks, b.ID)
		return model.Bank{}, err
	}
	return b, nil
}

// CreateAccountParams holds parameters for opening an account.
type CreateAccountParams struct {
	Type    model.AccountType
	UserID  string
	BankID  string
	Balance decimal.Decimal
}

// CreateAccount opens an account with a fresh account number and persists
// the account list.
func (s *Store) CreateAccount(p CreateAccountParams) (model.Account, error) {
	if !p.Type.Valid() {
		return model.Account{}, fmt.Errorf("invalid account type %q", p.Type)
	}
	if p.Balance.IsNegative() {
		return model.Account{}, fmt.Errorf("initial balance must not be negative, got %s", p.Balance)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[p.UserID]; !ok {
		return model.Account{}, ErrUserNotFound
	}
	if _, ok := s.banks[p.BankID]; !ok {
		return model.Account{}, ErrBankNotFound
	}

	acct := model.Account{
		ID:      uuid.NewString(),
		Number:  id.FormatAccountNumber(time.Now().Year(), s.nextSeq),
		Type:    p.Type,
		Balance: p.Balance,
		UserID:  p.UserID,
		BankID:  p.BankID,
	}
	s.nextSeq++
	s.accounts[acct.ID] = acct
	s.byNumber[acct.Number] = acct.ID

	if err := s.persistAccounts(); err != nil {
		delete(s.accounts, acct.ID)
		delete(s.byNumber, acct.Number)
		return model.Account{}, err
	}
	return acct, nil
}

// Get returns an account by ID.
func (s *Store) Get(accountID string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[accountID]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return acct, nil
}

// ByNumber returns an account by its account number.
func (s *Store) ByNumber(number string) (model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acctID, ok := s.byNumber[number]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return s.accounts[acctID], nil
}

// SaveAccount persists balance/KYC changes to an existing account.
func (s *Store) SaveAccount(acct model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.accounts[acct.ID]
	if !ok {
		return ErrNotFound
	}
	s.accounts[acct.ID] = acct
	if err := s.persistAccounts(); err != nil {
		s.accounts[acct.ID] = prev
		return err
	}
	return nil
}

// Balance reports the current balance of an account. It satisfies the
// ledger's BalanceSource.
func (s *Store) Balance(accountID string) (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct, ok := s.accounts[accountID]
	if !ok {
		return decimal.Zero, false
	}
	return acct.Balance, true
}

// All returns all accounts sorted by account number.
func (s *Store) All() []model.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

func (s *Store) persistUsers() error {
	if s.dataDir == "" {
		return nil
	}
	users := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return writeAtomic(filepath.Join(s.dataDir, usersFile), func(w io.Writer) error {
		return WriteUsers(w, users)
	})
}

func (s *Store) persistBanks() error {
	if s.dataDir == "" {
		return nil
	}
	banks := make([]model.Bank, 0, len(s.banks))
	for _, b := range s.banks {
		banks = append(banks, b)
	}
	sort.Slice(banks, func(i, j int) bool { return banks[i].ID < banks[j].ID })
	return writeAtomic(filepath.Join(s.dataDir, banksFile), func(w io.Writer) error {
		return WriteBanks(w, banks)
	})
}

func (s *Store) persistAccounts() error {
	if s.dataDir == "" {
		return nil
	}
	accts := make([]model.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		accts = append(accts, a)
	}
	sort.Slice(accts, func(i, j int) bool { return accts[i].Number < accts[j].Number })
	return writeAtomic(filepath.Join(s.dataDir, accountsFile), func(w io.Writer) error {
		return WriteAccounts(w, accts)
	})
}

// writeAtomic writes to path via a temp file and rename, so a failed write
// never corrupts the existing file.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}

	if err := write(f); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
