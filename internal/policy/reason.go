package policy

// Reason is a fixed rejection code returned when a deposit or withdrawal
// is not admissible. The boundary layer maps it to a transport error; the
// core never produces status codes itself.
type Reason string

const (
	// ReasonNone means the operation was allowed.
	ReasonNone Reason = ""

	ReasonMonthlyWithdrawalLimitBreached Reason = "MONTHLY_WITHDRAWAL_LIMIT_BREACHED"
	ReasonMinAccountBalanceBreached      Reason = "MIN_ACCOUNT_BALANCE_BREACHED"
	ReasonInsufficientBalance            Reason = "INSUFFICIENT_BALANCE"
	ReasonMonthlyDepositLimitBreached    Reason = "MONTHLY_DEPOSIT_LIMIT_BREACHED"
	ReasonKYCLimitBreached               Reason = "KYC_LIMIT_BREACHED"
)

var reasonMessages = map[Reason]string{
	ReasonMonthlyWithdrawalLimitBreached: "Monthly withdrawal limit is exceeded.",
	ReasonMinAccountBalanceBreached:      "You do not have min account balance.",
	ReasonInsufficientBalance:            "Insufficient balance in your account",
	ReasonMonthlyDepositLimitBreached:    "Monthly deposit limit is exceeded.",
	ReasonKYCLimitBreached:               "You don't have verified KYC to deposit this much amount",
}

// Message returns the fixed human-readable string for a reason.
func (r Reason) Message() string {
	return reasonMessages[r]
}
