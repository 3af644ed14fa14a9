package priorbank

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/bcaldwell/priorbank/pkg/financialimporter"
)

// Markers the bank puts in transDetails of internal transfer legs.
var transferMarkers = []string{"P2P SDBO", "P2P_SDBO"}

type Result struct {
	// Cards kept after deduplication, one per contract
	Cards        []Card
	Accounts     []financialimporter.Account
	Transactions []financialimporter.Transaction
	// Cards dropped as duplicates of another card on the same contract
	EvictedCards []Card
}

// Convert deduplicates cards and converts them with their transactions.
func Convert(cards []Card, cardDescs []CardDesc) (Result, error) {
	distinct, evicted := SplitDistinctCards(cards)

	transactions, err := ConvertTransactions(distinct, cardDescs)
	if err != nil {
		return Result{}, err
	}

	accounts := make([]financialimporter.Account, 0, len(distinct))
	for _, card := range distinct {
		accounts = append(accounts, ToAccount(card))
	}

	return Result{
		Cards:        distinct,
		Accounts:     accounts,
		Transactions: transactions,
		EvictedCards: evicted,
	}, nil
}

type item struct {
	apiTransaction APITransaction
	transaction    financialimporter.Transaction
}

// ConvertTransactions flattens the per card transaction lists of already
// deduplicated cards and converts them to canonical transactions with the
// transfer legs merged.
func ConvertTransactions(cards []Card, cardDescs []CardDesc) ([]financialimporter.Transaction, error) {
	apiTransactions, err := flattenTransactions(cards, cardDescs)
	if err != nil {
		return nil, err
	}

	items := make([]item, 0, len(apiTransactions))
	for _, apiTransaction := range apiTransactions {
		transaction, err := NormalizeTransaction(apiTransaction)
		if err != nil {
			return nil, fmt.Errorf("failed to convert transaction of card %s: %w", accountID(apiTransaction.Card), err)
		}

		if ParseDetails(apiTransaction.TransDetails()).IsCash() {
			transaction = financialimporter.AsCashTransfer(transaction)
		}

		items = append(items, item{apiTransaction: apiTransaction, transaction: transaction})
	}

	slices.SortStableFunc(items, func(a, b item) int {
		return a.transaction.Date.Compare(b.transaction.Date)
	})

	return financialimporter.MergeTransfers(items, financialimporter.MergeOptions[item]{
		SelectTransaction: func(i item) financialimporter.Transaction { return i.transaction },
		IsTransferItem:    isTransferItem,
		GroupKey:          groupKey,
		TransactionID:     transactionID,
	}), nil
}

// flattenTransactions lists aborted transactions of every card before the
// regular ones. The API returns each list newest first, so each is reversed.
func flattenTransactions(cards []Card, cardDescs []CardDesc) ([]APITransaction, error) {
	cardDescByID := make(map[int64]CardDesc, len(cardDescs))
	for _, desc := range cardDescs {
		cardDescByID[desc.ID] = desc
	}

	descs := make([]CardDesc, len(cards))
	for i, card := range cards {
		desc, ok := cardDescByID[card.ClientObject.ID]
		if !ok {
			return nil, fmt.Errorf("no card description for card %s", accountID(card))
		}
		descs[i] = desc
	}

	aborted := []APITransaction{}
	for i, card := range cards {
		for _, contract := range descs[i].Contract.AbortedContractList {
			for _, t := range reversed(contract.AbortedTransactionList) {
				t := t // per-iteration copy; module targets go1.21 loop semantics
				aborted = append(aborted, APITransaction{Kind: KindAborted, Card: card, Aborted: &t})
			}
		}
	}

	regular := []APITransaction{}
	for i, card := range cards {
		for _, transCard := range descs[i].Contract.Account.TransCardList {
			for _, t := range reversed(transCard.TransactionList) {
				t := t // per-iteration copy; module targets go1.21 loop semantics
				regular = append(regular, APITransaction{Kind: KindRegular, Card: card, Regular: &t})
			}
		}
	}

	return append(aborted, regular...), nil
}

func reversed[T any](list []T) []T {
	r := slices.Clone(list)
	slices.Reverse(r)
	return r
}

func isTransferItem(i item) bool {
	details := i.apiTransaction.TransDetails()
	for _, marker := range transferMarkers {
		if strings.Contains(details, marker) {
			return true
		}
	}
	return false
}

// groupKey is the same for both legs of a transfer: magnitude, currency and time.
func groupKey(i item) string {
	amount := i.transaction.OriginOrPosted()
	return fmt.Sprintf("%s %s @ %s %s",
		amount.Amount.Abs().String(), amount.Instrument, i.transaction.Date.Format(time.RFC3339), i.apiTransaction.TransTime())
}

func transactionID(i item) *string {
	// cash withdrawals and merged transfers
	if i.transaction.IsTransfer() {
		return nil
	}

	sign := "-"
	if i.transaction.Posted.Amount.Sign() >= 0 {
		sign = "+"
	}

	id := groupKey(i) + " " + sign
	return &id
}
