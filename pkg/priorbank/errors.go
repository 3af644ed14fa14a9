package priorbank

import (
	"errors"
	"fmt"
)

var ErrUnsupportedTransactionKind = errors.New("unsupported transaction kind")

// CorruptedAmountError is returned for a foreign currency transaction that
// carries neither an amount nor a fee.
type CorruptedAmountError struct {
	AccountCurrency string
	Transaction     RegularTransaction
}

func (e *CorruptedAmountError) Error() string {
	return fmt.Sprintf("cannot handle corrupted transaction amounts: %s transaction %q on %s in %s account",
		e.Transaction.TransCurrIso, e.Transaction.TransDetails, e.Transaction.TransDate, e.AccountCurrency)
}
