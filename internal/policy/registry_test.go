package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-dev/corebank/internal/model"
)

func TestWithdrawalPolicyFor(t *testing.T) {
	pol, err := WithdrawalPolicyFor(model.AccountTypeZeroBalance)
	require.NoError(t, err)
	assert.IsType(t, ZeroBalanceWithdrawal{}, pol)

	pol, err = WithdrawalPolicyFor(model.AccountTypeStudent)
	require.NoError(t, err)
	assert.IsType(t, StudentWithdrawal{}, pol)

	pol, err = WithdrawalPolicyFor(model.AccountTypeRegularSaving)
	require.NoError(t, err)
	assert.IsType(t, SavingWithdrawal{}, pol)
}

func TestWithdrawalPolicyFor_UnknownType(t *testing.T) {
	_, err := WithdrawalPolicyFor(model.AccountType("checking"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no withdrawal policy")
}

func TestDepositPolicyFor(t *testing.T) {
	assert.IsType(t, StudentDeposit{}, DepositPolicyFor(model.AccountTypeStudent))

	// Everything else falls back to the default policy.
	assert.IsType(t, DefaultDeposit{}, DepositPolicyFor(model.AccountTypeZeroBalance))
	assert.IsType(t, DefaultDeposit{}, DepositPolicyFor(model.AccountTypeRegularSaving))
	assert.IsType(t, DefaultDeposit{}, DepositPolicyFor(model.AccountType("checking")))
}

func TestReasonMessages(t *testing.T) {
	assert.Equal(t, "Monthly withdrawal limit is exceeded.", ReasonMonthlyWithdrawalLimitBreached.Message())
	assert.Equal(t, "Insufficient balance in your account", ReasonInsufficientBalance.Message())
	assert.Equal(t, "You don't have verified KYC to deposit this much amount", ReasonKYCLimitBreached.Message())
}
