package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-dev/corebank/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seed(t *testing.T, s *Store) (model.User, model.Bank) {
	t.Helper()
	u, err := s.CreateUser("Asha Rao", "12 Hill Road")
	require.NoError(t, err)
	b, err := s.CreateBank("First National", "Mumbai")
	require.NoError(t, err)
	return u, b
}

func TestCreateAccount(t *testing.T) {
	s := NewMemory()
	u, b := seed(t, s)

	acct, err := s.CreateAccount(CreateAccountParams{
		Type:    model.AccountTypeStudent,
		UserID:  u.ID,
		BankID:  b.ID,
		Balance: dec("2000"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, acct.ID)
	assert.Regexp(t, `^CB-\d{4}-\d{6}$`, acct.Number)
	assert.False(t, acct.KYCVerified)

	got, err := s.Get(acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("2000")))

	byNum, err := s.ByNumber(acct.Number)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, byNum.ID)
}

func TestCreateAccount_Validation(t *testing.T) {
	s := NewMemory()
	u, b := seed(t, s)

	_, err := s.CreateAccount(CreateAccountParams{Type: "checking", UserID: u.ID, BankID: b.ID})
	require.Error(t, err)

	_, err = s.CreateAccount(CreateAccountParams{Type: model.AccountTypeStudent, UserID: "nope", BankID: b.ID})
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = s.CreateAccount(CreateAccountParams{Type: model.AccountTypeStudent, UserID: u.ID, BankID: "nope"})
	assert.ErrorIs(t, err, ErrBankNotFound)

	_, err = s.CreateAccount(CreateAccountParams{Type: model.AccountTypeStudent, UserID: u.ID, BankID: b.ID, Balance: dec("-1")})
	require.Error(t, err)
}

func TestGet_NotFound(t *testing.T) {
	s := NewMemory()
	_, err := s.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.ByNumber("CB-2025-000001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAccount(t *testing.T) {
	s := NewMemory()
	u, b := seed(t, s)
	acct, err := s.CreateAccount(CreateAccountParams{Type: model.AccountTypeZeroBalance, UserID: u.ID, BankID: b.ID})
	require.NoError(t, err)

	acct.Balance = dec("150.25")
	acct.KYCVerified = true
	require.NoError(t, s.SaveAccount(acct))

	got, err := s.Get(acct.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(dec("150.25")))
	assert.True(t, got.KYCVerified)

	balance, ok := s.Balance(acct.ID)
	require.True(t, ok)
	assert.True(t, balance.Equal(dec("150.25")))

	assert.ErrorIs(t, s.SaveAccount(model.Account{ID: "nope"}), ErrNotFound)
}

func TestOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	u, b := seed(t, s)
	acct, err := s.CreateAccount(CreateAccountParams{
		Type:    model.AccountTypeRegularSaving,
		UserID:  u.ID,
		BankID:  b.ID,
		Balance: dec("12000"),
	})
	require.NoError(t, err)

	for _, f := range []string{"users.csv", "banks.csv", "accounts.csv"} {
		_, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, f)
	}

	s2, err := Open(dir)
	require.NoError(t, err)
	got, err := s2.ByNumber(acct.Number)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, got.ID)
	assert.Equal(t, model.AccountTypeRegularSaving, got.Type)
	assert.True(t, got.Balance.Equal(dec("12000")))

	// Sequence continues after reload: no duplicate account numbers.
	next, err := s2.CreateAccount(CreateAccountParams{Type: model.AccountTypeStudent, UserID: u.ID, BankID: b.ID})
	require.NoError(t, err)
	assert.NotEqual(t, acct.Number, next.Number)
}
