package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-dev/corebank/internal/model"
)

func TestDefaultDeposit_KYC(t *testing.T) {
	pol := DefaultDeposit{}

	// At or under the ceiling: always allowed.
	allowed, _, err := pol.IsAllowed(acct(model.AccountTypeZeroBalance, "0"), dec("50000"), fakeHistory{}, time.Now())
	require.NoError(t, err)
	assert.True(t, allowed)

	// Over the ceiling without KYC: rejected.
	allowed, reason, err := pol.IsAllowed(acct(model.AccountTypeZeroBalance, "0"), dec("50000.01"), fakeHistory{}, time.Now())
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, ReasonKYCLimitBreached, reason)

	// Over the ceiling with KYC: allowed.
	verified := acct(model.AccountTypeZeroBalance, "0")
	verified.KYCVerified = true
	allowed, _, err = pol.IsAllowed(verified, dec("51000"), fakeHistory{}, time.Now())
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestStudentDeposit_MonthlyCap(t *testing.T) {
	pol := StudentDeposit{}

	// 8000 already deposited this month; 2000 more lands exactly on the cap.
	hist := fakeHistory{depositsThisMonth: dec("8000")}
	allowed, _, err := pol.IsAllowed(acct(model.AccountTypeStudent, "5000"), dec("2000"), hist, time.Now())
	require.NoError(t, err)
	assert.True(t, allowed)

	// One cent over the cap is rejected.
	allowed, reason, err := pol.IsAllowed(acct(model.AccountTypeStudent, "5000"), dec("2000.01"), hist, time.Now())
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, ReasonMonthlyDepositLimitBreached, reason)
}

func TestStudentDeposit_NoKYCCheck(t *testing.T) {
	pol := StudentDeposit{}

	// The student policy replaces the default one: a large deposit with no
	// KYC fails on the monthly cap, not on KYC.
	allowed, reason, err := pol.IsAllowed(acct(model.AccountTypeStudent, "0"), dec("60000"), fakeHistory{}, time.Now())
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, ReasonMonthlyDepositLimitBreached, reason)
}
