package priorbank

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcaldwell/priorbank/pkg/financialimporter"
)

func regular(accountAmount, details, date, transTime string) RegularTransaction {
	return RegularTransaction{
		AccountAmount: dec(accountAmount),
		Amount:        dec(accountAmount),
		FeeAmount:     dec("0"),
		TransCurrIso:  "BYN",
		TransDetails:  details,
		TransDate:     date,
		TransTime:     transTime,
	}
}

func aborted(transAmount, details, date string) AbortedTransaction {
	return AbortedTransaction{
		TransAmount:  dec(transAmount),
		TransCurrIso: "BYN",
		Amount:       dec(transAmount),
		TransDetails: details,
		TransDate:    date,
	}
}

func testSnapshot() ([]Card, []CardDesc) {
	cards := []Card{
		card(42, "C1", 1, "Visa Gold"),
		card(43, "C1", 0, "Visa Old"),
		card(50, "C2", 1, "Maestro"),
	}

	descs := []CardDesc{
		{
			ID: 42,
			Contract: Contract{
				AbortedContractList: []AbortedContract{{
					AbortedTransactionList: []AbortedTransaction{
						aborted("5", "Retail SHOP", "2018-01-12T00:00:00+03:00"),
						aborted("3", "Retail CAFE", "2018-01-11T00:00:00+03:00"),
					},
				}},
				Account: ContractAccount{TransCardList: []TransCard{{
					TransactionList: []RegularTransaction{
						regular("-100", "CH Debit BLR MINSK P2P SDBO", "2018-01-10T00:00:00+03:00", "10:00:00"),
						regular("-50", "ATM 123 MINSK", "2018-01-09T00:00:00+03:00", "09:00:00"),
					},
				}}},
			},
		},
		{
			ID: 50,
			Contract: Contract{
				Account: ContractAccount{TransCardList: []TransCard{{
					TransactionList: []RegularTransaction{
						regular("100", "CH Payment BLR MINSK P2P_SDBO", "2018-01-10T00:00:00+03:00", "10:00:00"),
					},
				}}},
			},
		},
	}

	return cards, descs
}

func TestConvert(t *testing.T) {
	cards, descs := testSnapshot()

	result, err := Convert(cards, descs)
	require.NoError(t, err)

	require.Len(t, result.Accounts, 2)
	assert.Equal(t, "42", result.Accounts[0].ID)
	assert.Equal(t, "50", result.Accounts[1].ID)
	assert.Equal(t, []int64{42, 50}, cardIDs(result.Cards))
	assert.Equal(t, []int64{43}, cardIDs(result.EvictedCards))

	transactions := result.Transactions
	require.Len(t, transactions, 4)

	cash := transactions[0]
	assert.Equal(t, financialimporter.KindTransfer, cash.Kind)
	assert.Nil(t, cash.ID)
	assert.Nil(t, cash.Payee)
	assert.Nil(t, cash.Origin)
	assert.Equal(t, "42", cash.Account.ID)
	assert.Equal(t, "-50", cash.Posted.Amount.String())
	assert.Equal(t, "BYN", cash.Posted.Instrument)
	assert.True(t, financialimporter.IsCashTransfer(cash))
	assert.Equal(t, "50", cash.Counterpart.Posted.Amount.String())

	transfer := transactions[1]
	assert.Equal(t, financialimporter.KindTransfer, transfer.Kind)
	assert.Nil(t, transfer.ID)
	assert.Equal(t, "42", transfer.Account.ID)
	assert.Equal(t, "-100", transfer.Posted.Amount.String())
	require.NotNil(t, transfer.Counterpart)
	assert.Equal(t, "50", transfer.Counterpart.Account.ID)
	assert.Equal(t, "100", transfer.Counterpart.Posted.Amount.String())
	assert.False(t, transfer.Hold)

	cafe := transactions[2]
	assert.Equal(t, financialimporter.KindTransaction, cafe.Kind)
	assert.True(t, cafe.Hold)
	assert.Equal(t, "-3", cafe.Posted.Amount.String())
	assert.Equal(t, "CAFE", *cafe.Payee)
	require.NotNil(t, cafe.ID)
	assert.Equal(t, "3 BYN @ 2018-01-11T00:00:00+03:00  -", *cafe.ID)

	shop := transactions[3]
	assert.Equal(t, "SHOP", *shop.Payee)
	assert.Equal(t, "-5", shop.Posted.Amount.String())
}

func TestConvertDoesNotMutateInput(t *testing.T) {
	cards, descs := testSnapshot()

	_, err := Convert(cards, descs)
	require.NoError(t, err)

	assert.Equal(t, "Retail SHOP", descs[0].Contract.AbortedContractList[0].AbortedTransactionList[0].TransDetails)
	assert.Equal(t, "CH Debit BLR MINSK P2P SDBO", descs[0].Contract.Account.TransCardList[0].TransactionList[0].TransDetails)
}

func TestConvertIsDeterministic(t *testing.T) {
	cards, descs := testSnapshot()

	first, err := Convert(cards, descs)
	require.NoError(t, err)
	second, err := Convert(cards, descs)
	require.NoError(t, err)

	assert.Equal(t, financialimporter.StorageKeys(first.Transactions), financialimporter.StorageKeys(second.Transactions))
}

func TestConvertTransactionsMissingDescription(t *testing.T) {
	_, err := ConvertTransactions([]Card{card(1, "C1", 1, "A")}, nil)
	assert.Error(t, err)
}

func TestConvertTransactionsCorruptedAmountFailsRun(t *testing.T) {
	corrupted := regular("-20", "Retail SHOP", "2018-01-10T00:00:00+03:00", "10:00:00")
	corrupted.TransCurrIso = "USD"
	corrupted.Amount = dec("0")

	descs := []CardDesc{{ID: 42, Contract: Contract{Account: ContractAccount{TransCardList: []TransCard{{
		TransactionList: []RegularTransaction{
			regular("-1", "Retail OK", "2018-01-09T00:00:00+03:00", "09:00:00"),
			corrupted,
		},
	}}}}}}

	_, err := ConvertTransactions([]Card{bynCard()}, descs)

	var corruptedErr *CorruptedAmountError
	assert.True(t, errors.As(err, &corruptedErr))
}

func TestConvertTransactionsMergesCashLegs(t *testing.T) {
	descs := []CardDesc{
		{ID: 42, Contract: Contract{Account: ContractAccount{TransCardList: []TransCard{{
			TransactionList: []RegularTransaction{regular("-50", "ATM 123 MINSK", "2018-01-09T00:00:00+03:00", "09:00:00")},
		}}}}},
		{ID: 50, Contract: Contract{Account: ContractAccount{TransCardList: []TransCard{{
			TransactionList: []RegularTransaction{regular("50", "Cash BRANCH 1", "2018-01-09T00:00:00+03:00", "09:00:00")},
		}}}}},
	}

	transactions, err := ConvertTransactions([]Card{bynCard(), card(50, "C2", 1, "Maestro")}, descs)
	require.NoError(t, err)

	require.Len(t, transactions, 1)
	assert.Equal(t, financialimporter.KindTransfer, transactions[0].Kind)
	assert.Equal(t, "42", transactions[0].Account.ID)
	assert.Equal(t, "50", transactions[0].Counterpart.Account.ID)
}

func TestConvertTransactionsOrdersByDate(t *testing.T) {
	descs := []CardDesc{{ID: 42, Contract: Contract{
		AbortedContractList: []AbortedContract{{AbortedTransactionList: []AbortedTransaction{
			aborted("2", "Retail B", "2018-01-10T00:00:00+03:00"),
		}}},
		Account: ContractAccount{TransCardList: []TransCard{{TransactionList: []RegularTransaction{
			regular("-3", "Retail C", "2018-01-10T00:00:00+03:00", "11:00:00"),
			regular("-1", "Retail A", "2018-01-08T00:00:00+03:00", "08:00:00"),
		}}}},
	}}}

	transactions, err := ConvertTransactions([]Card{bynCard()}, descs)
	require.NoError(t, err)

	payees := []string{}
	for _, tr := range transactions {
		payees = append(payees, *tr.Payee)
	}
	// same day keeps aborted before regular
	assert.Equal(t, []string{"A", "B", "C"}, payees)
}

func TestGroupKeyAndTransactionID(t *testing.T) {
	apiTransaction := APITransaction{
		Kind: KindRegular,
		Card: bynCard(),
		Regular: &RegularTransaction{
			AccountAmount: dec("-20"),
			Amount:        dec("10.50"),
			TransCurrIso:  "USD",
			TransDetails:  "Retail AMAZON",
			TransDate:     "2018-01-10T00:00:00+03:00",
			TransTime:     "15:04:05",
		},
	}
	transaction, err := NormalizeTransaction(apiTransaction)
	require.NoError(t, err)

	i := item{apiTransaction: apiTransaction, transaction: transaction}
	assert.Equal(t, "10.5 USD @ 2018-01-10T00:00:00+03:00 15:04:05", groupKey(i))
	assert.Equal(t, "10.5 USD @ 2018-01-10T00:00:00+03:00 15:04:05 -", *transactionID(i))
	assert.False(t, isTransferItem(i))

	i.transaction = financialimporter.AsCashTransfer(transaction)
	assert.Nil(t, transactionID(i))
}

func TestIsTransferItem(t *testing.T) {
	for details, want := range map[string]bool{
		"CH Debit BLR MINSK P2P SDBO":   true,
		"CH Payment BLR MINSK P2P_SDBO": true,
		"Retail P2P":                    false,
		"ATM 123 MINSK":                 false,
	} {
		i := item{apiTransaction: APITransaction{Kind: KindRegular, Regular: &RegularTransaction{TransDetails: details}}}
		assert.Equal(t, want, isTransferItem(i), details)
	}
}

func TestConvertTransactionsSameDayWithdrawalsGetDistinctKeys(t *testing.T) {
	descs := []CardDesc{{ID: 42, Contract: Contract{Account: ContractAccount{TransCardList: []TransCard{{
		TransactionList: []RegularTransaction{
			regular("-50", "ATM 123 MINSK", "2018-01-09T00:00:00+03:00", "18:00:00"),
			regular("-50", "ATM 123 MINSK", "2018-01-09T00:00:00+03:00", "09:00:00"),
		},
	}}}}}}

	transactions, err := ConvertTransactions([]Card{bynCard()}, descs)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.True(t, financialimporter.IsCashTransfer(transactions[0]))
	assert.True(t, financialimporter.IsCashTransfer(transactions[1]))

	keys := financialimporter.StorageKeys(transactions)
	assert.NotEqual(t, keys[0], keys[1])
}
