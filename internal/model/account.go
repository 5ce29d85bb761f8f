package model

import "github.com/shopspring/decimal"

// AccountType classifies accounts by the policy rules that govern them.
type AccountType string

const (
	AccountTypeZeroBalance   AccountType = "zero_balance"
	AccountTypeStudent       AccountType = "student"
	AccountTypeRegularSaving AccountType = "regular_saving"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeZeroBalance, AccountTypeStudent, AccountTypeRegularSaving:
		return true
	}
	return false
}

// Account is a customer bank account. Balance is mutated only by the
// engine's deposit/withdraw operations and never goes negative.
type Account struct {
	ID          string
	Number      string // opaque, unique account number
	Type        AccountType
	Balance     decimal.Decimal
	KYCVerified bool
	UserID      string
	BankID      string
}

// User owns one or more accounts.
type User struct {
	ID      string
	Name    string
	Address string
}

// Bank is the institution an account is held at.
type Bank struct {
	ID       string
	Name     string
	Location string
}
