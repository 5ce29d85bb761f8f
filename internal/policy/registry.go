package policy

import (
	"fmt"

	"github.com/corebank-dev/corebank/internal/model"
)

// WithdrawalPolicyFor resolves the withdrawal policy for an account type.
// Every valid type must be mapped; an unmapped type is a configuration
// error, not a user-facing rejection.
func WithdrawalPolicyFor(t model.AccountType) (WithdrawalPolicy, error) {
	switch t {
	case model.AccountTypeZeroBalance:
		return ZeroBalanceWithdrawal{}, nil
	case model.AccountTypeStudent:
		return StudentWithdrawal{}, nil
	case model.AccountTypeRegularSaving:
		return SavingWithdrawal{}, nil
	}
	return nil, fmt.Errorf("no withdrawal policy for account type %q", t)
}

// DepositPolicyFor resolves the deposit policy for an account type.
// Only student accounts have a specialized policy; everything else gets
// the default.
func DepositPolicyFor(t model.AccountType) DepositPolicy {
	if t == model.AccountTypeStudent {
		return StudentDeposit{}
	}
	return DefaultDeposit{}
}
