package priorbank

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bcaldwell/priorbank/pkg/financialimporter"
)

var transDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeTransaction converts one raw transaction into the canonical shape.
func NormalizeTransaction(apiTransaction APITransaction) (financialimporter.Transaction, error) {
	accountCurrency := apiTransaction.Card.ClientObject.CurrIso

	switch {
	case apiTransaction.Kind == KindAborted && apiTransaction.Aborted != nil:
		return normalizeAborted(apiTransaction.Card, accountCurrency, *apiTransaction.Aborted)
	case apiTransaction.Kind == KindRegular && apiTransaction.Regular != nil:
		return normalizeRegular(apiTransaction.Card, accountCurrency, *apiTransaction.Regular)
	}

	return financialimporter.Transaction{}, fmt.Errorf("%w: %q", ErrUnsupportedTransactionKind, apiTransaction.Kind)
}

func normalizeAborted(card Card, accountCurrency string, t AbortedTransaction) (financialimporter.Transaction, error) {
	date, err := parseTransDate(t.TransDate)
	if err != nil {
		return financialimporter.Transaction{}, err
	}

	// aborted records carry transAmount with the opposite sign of regular ones
	sign := decimal.NewFromInt(int64(t.TransAmount.Neg().Sign()))
	posted := financialimporter.Amount{Amount: t.Amount.Abs().Mul(sign), Instrument: accountCurrency}

	var origin *financialimporter.Amount
	if t.TransCurrIso != accountCurrency {
		origin = &financialimporter.Amount{Amount: t.TransAmount.Neg(), Instrument: t.TransCurrIso}
	}

	return newTransaction(card, date, true, posted, origin, ParseDetails(t.TransDetails)), nil
}

func normalizeRegular(card Card, accountCurrency string, t RegularTransaction) (financialimporter.Transaction, error) {
	date, err := parseTransDate(t.TransDate)
	if err != nil {
		return financialimporter.Transaction{}, err
	}

	posted := financialimporter.Amount{Amount: t.AccountAmount, Instrument: accountCurrency}

	var origin *financialimporter.Amount
	if t.TransCurrIso != accountCurrency {
		amount, err := RegularTransactionAmount(accountCurrency, t)
		if err != nil {
			return financialimporter.Transaction{}, err
		}
		origin = &financialimporter.Amount{Amount: amount, Instrument: t.TransCurrIso}
	}

	return newTransaction(card, date, false, posted, origin, ParseDetails(t.TransDetails)), nil
}

func newTransaction(card Card, date time.Time, hold bool, posted financialimporter.Amount, origin *financialimporter.Amount, details Details) financialimporter.Transaction {
	var parsedComment string
	if details.Comment != nil {
		parsedComment = *details.Comment
	}

	return financialimporter.Transaction{
		Kind:     financialimporter.KindTransaction,
		ID:       nil,
		Account:  financialimporter.AccountRef{ID: accountID(card)},
		Date:     date,
		Hold:     hold,
		Posted:   posted,
		Origin:   origin,
		Payee:    details.Payee,
		MCC:      nil,
		Location: nil,
		Comment:  financialimporter.JoinComments(parsedComment, financialimporter.FormatComment(posted, origin)),
	}
}

func parseTransDate(transDate string) (time.Time, error) {
	for _, layout := range transDateLayouts {
		if t, err := time.Parse(layout, transDate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse transDate %q", transDate)
}
