package priorbank

import (
	"log/slog"

	"github.com/shopspring/decimal"
)

// RegularTransactionAmount returns the amount of t in the currency it was made
// in, signed like the account amount.
func RegularTransactionAmount(accountCurrency string, t RegularTransaction) (decimal.Decimal, error) {
	if accountCurrency == t.TransCurrIso {
		return t.AccountAmount, nil
	}

	if t.Amount.IsZero() {
		// only the fee was recorded
		if !t.FeeAmount.IsZero() {
			return t.FeeAmount, nil
		}

		slog.Error("cannot handle corrupted transaction amounts",
			"accountCurrency", accountCurrency,
			"transCurrIso", t.TransCurrIso,
			"accountAmount", t.AccountAmount.String(),
			"amount", t.Amount.String(),
			"feeAmount", t.FeeAmount.String(),
			"transDetails", t.TransDetails,
			"transDate", t.TransDate,
			"transTime", t.TransTime,
		)
		return decimal.Zero, &CorruptedAmountError{AccountCurrency: accountCurrency, Transaction: t}
	}

	// the sign of amount is unreliable, accountAmount carries the direction
	return t.Amount.Abs().Mul(decimal.NewFromInt(int64(t.AccountAmount.Sign()))), nil
}
