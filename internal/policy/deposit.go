package policy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

const (
	// DepositLimitWithoutKYC is the largest single deposit accepted from
	// an account that has not passed KYC verification.
	DepositLimitWithoutKYC = 50000
	// StudentMonthlyDepositLimit caps the total deposited into a student
	// account per calendar month.
	StudentMonthlyDepositLimit = 10000
)

// DefaultDeposit accepts any amount up to the KYC-free ceiling, and larger
// amounts only from KYC-verified accounts.
type DefaultDeposit struct{}

func (DefaultDeposit) IsAllowed(acct model.Account, amount decimal.Decimal, hist History, now time.Time) (bool, Reason, error) {
	if amount.LessThanOrEqual(decimal.NewFromInt(DepositLimitWithoutKYC)) {
		return true, ReasonNone, nil
	}
	if acct.KYCVerified {
		return true, ReasonNone, nil
	}
	return false, ReasonKYCLimitBreached, nil
}

// StudentDeposit caps the calendar-month deposit total. It replaces the
// default policy for student accounts rather than stacking on top of it,
// so the KYC ceiling does not apply here.
type StudentDeposit struct{}

func (StudentDeposit) IsAllowed(acct model.Account, amount decimal.Decimal, hist History, now time.Time) (bool, Reason, error) {
	total, err := hist.SumAmount(acct.ID, model.KindDeposit, monthStart(now), now)
	if err != nil {
		return false, ReasonNone, fmt.Errorf("summing deposits: %w", err)
	}
	if total.Add(amount).GreaterThan(decimal.NewFromInt(StudentMonthlyDepositLimit)) {
		return false, ReasonMonthlyDepositLimitBreached, nil
	}
	return true, ReasonNone, nil
}
