package policy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

const (
	// MonthlyWithdrawalLimit caps withdrawals per calendar month for
	// zero-balance and student accounts.
	MonthlyWithdrawalLimit = 4
	// StudentMinBalance is the balance a student account must retain
	// after any withdrawal.
	StudentMinBalance = 1000
	// SavingAverageBalanceFloor is the minimum 90-day average balance a
	// regular saving account needs to withdraw at all.
	SavingAverageBalanceFloor = 5000
	// SavingFreeWithdrawalsPerMonth is how many withdrawals a regular
	// saving account gets each month before the surcharge kicks in.
	SavingFreeWithdrawalsPerMonth = 10
	// SavingAverageWindowDays is the trailing window for the average
	// balance check.
	SavingAverageWindowDays = 90
)

// SavingWithdrawalSurcharge is the flat charge added to every withdrawal
// past the monthly free quota.
var SavingWithdrawalSurcharge = decimal.NewFromInt(5)

// ZeroBalanceWithdrawal allows a limited number of withdrawals per
// calendar month and nothing else.
type ZeroBalanceWithdrawal struct{}

func (ZeroBalanceWithdrawal) IsAllowed(acct model.Account, amount decimal.Decimal, hist History, now time.Time) (bool, Reason, error) {
	count, err := hist.CountByKind(acct.ID, model.KindWithdrawal, monthStart(now), now)
	if err != nil {
		return false, ReasonNone, fmt.Errorf("counting withdrawals: %w", err)
	}
	if count >= MonthlyWithdrawalLimit {
		return false, ReasonMonthlyWithdrawalLimitBreached, nil
	}
	return true, ReasonNone, nil
}

// StudentWithdrawal applies the monthly withdrawal limit and additionally
// requires the account to retain a minimum balance after the withdrawal.
type StudentWithdrawal struct{}

func (StudentWithdrawal) IsAllowed(acct model.Account, amount decimal.Decimal, hist History, now time.Time) (bool, Reason, error) {
	count, err := hist.CountByKind(acct.ID, model.KindWithdrawal, monthStart(now), now)
	if err != nil {
		return false, ReasonNone, fmt.Errorf("counting withdrawals: %w", err)
	}
	if count >= MonthlyWithdrawalLimit {
		return false, ReasonMonthlyWithdrawalLimitBreached, nil
	}
	if acct.Balance.Sub(amount).LessThan(decimal.NewFromInt(StudentMinBalance)) {
		return false, ReasonMinAccountBalanceBreached, nil
	}
	return true, ReasonNone, nil
}

// SavingWithdrawal gates regular saving accounts on the health of their
// trailing 90-day average balance, and charges a flat surcharge once the
// monthly free-withdrawal quota is spent. The two checks are independent:
// a healthy account past the quota pays the surcharge but is never blocked
// by the count.
type SavingWithdrawal struct{}

func (SavingWithdrawal) IsAllowed(acct model.Account, amount decimal.Decimal, hist History, now time.Time) (bool, Reason, error) {
	from := now.AddDate(0, 0, -SavingAverageWindowDays)
	avg, ok, err := hist.AverageBalanceAfter(acct.ID, from, now)
	if err != nil {
		return false, ReasonNone, fmt.Errorf("averaging balance: %w", err)
	}
	if ok && avg.LessThan(decimal.NewFromInt(SavingAverageBalanceFloor)) {
		return false, ReasonMinAccountBalanceBreached, nil
	}
	return true, ReasonNone, nil
}

// SurchargeFor returns the flat charge for this withdrawal: zero while the
// account still has free withdrawals left this calendar month.
func (SavingWithdrawal) SurchargeFor(acct model.Account, hist History, now time.Time) (decimal.Decimal, error) {
	count, err := hist.CountByKind(acct.ID, model.KindWithdrawal, monthStart(now), now)
	if err != nil {
		return decimal.Zero, fmt.Errorf("counting withdrawals: %w", err)
	}
	if count >= SavingFreeWithdrawalsPerMonth {
		return SavingWithdrawalSurcharge, nil
	}
	return decimal.Zero, nil
}
