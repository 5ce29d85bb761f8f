package policy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

// fakeHistory is a canned History for policy tests.
type fakeHistory struct {
	withdrawalsThisMonth int
	depositsThisMonth    decimal.Decimal
	avgBalance           decimal.Decimal
	hasAvg               bool
}

func (f fakeHistory) CountByKind(accountID string, kind model.TransactionKind, from, to time.Time) (int, error) {
	return f.withdrawalsThisMonth, nil
}

func (f fakeHistory) SumAmount(accountID string, kind model.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	return f.depositsThisMonth, nil
}

func (f fakeHistory) AverageBalanceAfter(accountID string, from, to time.Time) (decimal.Decimal, bool, error) {
	return f.avgBalance, f.hasAvg, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func acct(t model.AccountType, balance string) model.Account {
	return model.Account{ID: "acct-1", Type: t, Balance: dec(balance)}
}
