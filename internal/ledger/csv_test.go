package ledger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corebank-dev/corebank/internal/model"
)

func TestReadTransactions_Empty(t *testing.T) {
	txs, err := ReadTransactions(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestReadTransactions_BadAmount(t *testing.T) {
	in := Header + "\n" + "t1,a1,deposit,not-a-number,2025-01-15T10:00:00Z,100.00\n"
	_, err := ReadTransactions(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing amount")
}

func TestWriteReadTransactions(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	in := []model.Transaction{
		tx("t1", "a1", model.KindDeposit, "1234.56", "1234.56", ts),
		tx("t2", "a1", model.KindWithdrawal, "34.56", "1200.00", ts.Add(time.Hour)),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTransactions(&buf, in))

	out, err := ReadTransactions(&buf)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "t1", out[0].ID)
	assert.True(t, out[1].Amount.Equal(mustDecimal("34.56")))
	assert.True(t, out[1].Timestamp.Equal(ts.Add(time.Hour)))
}
