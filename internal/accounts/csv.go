package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

const (
	acctNumFields      = 7
	acctColID          = 0
	acctColNumber      = 1
	acctColType        = 2
	acctColBalance     = 3
	acctColKYCVerified = 4
	acctColUserID      = 5
	acctColBankID      = 6
)

// ReadAccounts reads accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = acctNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

// WriteAccounts writes accounts.csv.
func WriteAccounts(w io.Writer, accts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_id", "account_number", "account_type", "balance", "kyc_verified", "user_id", "bank_id"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, acctNumFields)
	row[acctColID] = acct.ID
	row[acctColNumber] = acct.Number
	row[acctColType] = string(acct.Type)
	row[acctColBalance] = acct.Balance.StringFixed(2)
	row[acctColKYCVerified] = strconv.FormatBool(acct.KYCVerified)
	row[acctColUserID] = acct.UserID
	row[acctColBankID] = acct.BankID
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != acctNumFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", acctNumFields, len(record))
	}

	balance, err := decimal.NewFromString(record[acctColBalance])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing balance %q: %w", record[acctColBalance], err)
	}

	kyc, err := strconv.ParseBool(record[acctColKYCVerified])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing kyc_verified %q: %w", record[acctColKYCVerified], err)
	}

	return model.Account{
		ID:          record[acctColID],
		Number:      record[acctColNumber],
		Type:        model.AccountType(record[acctColType]),
		Balance:     balance,
		KYCVerified: kyc,
		UserID:      record[acctColUserID],
		BankID:      record[acctColBankID],
	}, nil
}

// ReadUsers reads users.csv.
func ReadUsers(r io.Reader) ([]model.User, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading users CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var users []model.User
	for _, rec := range records[1:] {
		users = append(users, model.User{ID: rec[0], Name: rec[1], Address: rec[2]})
	}
	return users, nil
}

// WriteUsers writes users.csv.
func WriteUsers(w io.Writer, users []model.User) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"user_id", "name", "address"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, u := range users {
		if err := cw.Write([]string{u.ID, u.Name, u.Address}); err != nil {
			return fmt.Errorf("writing user %s: %w", u.ID, err)
		}
	}
	return cw.Error()
}

// ReadBanks reads banks.csv.
func ReadBanks(r io.Reader) ([]model.Bank, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading banks CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	var banks []model.Bank
	for _, rec := range records[1:] {
		banks = append(banks, model.Bank{ID: rec[0], Name: rec[1], Location: rec[2]})
	}
	return banks, nil
}

// WriteBanks writes banks.csv.
func WriteBanks(w io.Writer, banks []model.Bank) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"bank_id", "name", "location"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, b := range banks {
		if err := cw.Write([]string{b.ID, b.Name, b.Location}); err != nil {
			return fmt.Errorf("writing bank %s: %w", b.ID, err)
		}
	}
	return cw.Error()
}
