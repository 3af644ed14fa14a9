package financialimporter

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfluxBatchPoints(t *testing.T) {
	payee := "SHOP"
	transactions := []Transaction{
		{Kind: KindTransaction, Account: AccountRef{ID: "42"}, Date: testDate, Posted: amount("-12.5", "BYN"), Payee: &payee},
		AsCashTransfer(Transaction{Kind: KindTransaction, Account: AccountRef{ID: "42"}, Date: testDate, Posted: amount("-50", "BYN")}),
	}
	accounts := []Account{{ID: "42", Title: "Visa", Instrument: "BYN", Balance: decimal.NewFromInt(100)}}

	exporter := NewInfluxExporter(nil, "finance", "transactions")
	bp, err := exporter.batchPoints(accounts, transactions, time.Date(2018, 1, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	points := bp.Points()
	require.Len(t, points, 3)

	assert.Equal(t, "transactions", points[0].Name())
	assert.Equal(t, "42", points[0].Tags()["account"])
	assert.Equal(t, "SHOP", points[0].Tags()["payee"])
	fields, err := points[0].Fields()
	require.NoError(t, err)
	assert.Equal(t, -12.5, fields["amount"])
	assert.True(t, testDate.Equal(points[0].Time()))

	assert.Equal(t, "transfer", points[1].Tags()["type"])
	assert.Equal(t, "cash:BYN", points[1].Tags()["counterpart"])

	assert.Equal(t, balanceMeasurement, points[2].Name())
	balanceFields, err := points[2].Fields()
	require.NoError(t, err)
	assert.Equal(t, 100.0, balanceFields["balance"])
}

func TestInfluxBatchPointsRepeatedWithdrawals(t *testing.T) {
	withdrawal := AsCashTransfer(Transaction{Kind: KindTransaction, Account: AccountRef{ID: "42"}, Date: testDate, Posted: amount("-50", "BYN")})

	exporter := NewInfluxExporter(nil, "finance", "transactions")
	bp, err := exporter.batchPoints(nil, []Transaction{withdrawal, withdrawal}, testDate)
	require.NoError(t, err)

	points := bp.Points()
	require.Len(t, points, 2)
	assert.NotEqual(t, points[0].Tags()["key"], points[1].Tags()["key"])
}
