package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank-dev/corebank/internal/model"
)

// Header is the CSV header for transactions.csv.
const Header = "transaction_id,account_id,kind,amount,timestamp,balance_after"

const (
	numFields       = 6
	colID           = 0
	colAccountID    = 1
	colKind         = 2
	colAmount       = 3
	colTimestamp    = 4
	colBalanceAfter = 5
)

// ReadTransactions reads all transactions from a transactions.csv reader.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txs []model.Transaction
	for i, rec := range records[1:] {
		tx, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// WriteTransactions writes transactions to a writer (including header).
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// AppendTransaction appends a single transaction row (no header).
func AppendTransaction(w io.Writer, tx model.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(MarshalTransaction(tx)); err != nil {
		return fmt.Errorf("writing row: %w", err)
	}
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row ([]string).
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = tx.ID
	row[colAccountID] = tx.AccountID
	row[colKind] = string(tx.Kind)
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colTimestamp] = tx.Timestamp.Format(time.RFC3339Nano)
	row[colBalanceAfter] = tx.BalanceAfter.StringFixed(2)
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339Nano, record[colTimestamp])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	balanceAfter, err := decimal.NewFromString(record[colBalanceAfter])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing balance_after %q: %w", record[colBalanceAfter], err)
	}

	return model.Transaction{
		ID:           record[colID],
		AccountID:    record[colAccountID],
		Kind:         model.TransactionKind(record[colKind]),
		Amount:       amount,
		Timestamp:    ts,
		BalanceAfter: balanceAfter,
	}, nil
}
