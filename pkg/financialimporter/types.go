package financialimporter

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindTransaction TransactionKind = "transaction"
	KindTransfer    TransactionKind = "transfer"
)

const (
	AccountTypeCard = "ccard"
	AccountTypeCash = "cash"
)

type Amount struct {
	Amount     decimal.Decimal `json:"amount"`
	Instrument string          `json:"instrument"`
}

// AccountRef points at the account a transaction or movement belongs to. Cash
// accounts have no id and are identified by type and instrument.
type AccountRef struct {
	ID         string `json:"id,omitempty"`
	Type       string `json:"type,omitempty"`
	Instrument string `json:"instrument,omitempty"`
}

type Account struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Type       string          `json:"type"`
	SyncID     []string        `json:"syncID"`
	Instrument string          `json:"instrument"`
	Balance    decimal.Decimal `json:"balance"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Movement is the other side of a transfer.
type Movement struct {
	Account AccountRef `json:"account"`
	Posted  Amount     `json:"posted"`
	Origin  *Amount    `json:"origin"`
	Hold    bool       `json:"hold"`
}

type Transaction struct {
	Kind     TransactionKind `json:"type"`
	ID       *string         `json:"id"`
	Account  AccountRef      `json:"account"`
	Date     time.Time       `json:"date"`
	Hold     bool            `json:"hold"`
	Posted   Amount          `json:"posted"`
	Origin   *Amount         `json:"origin"`
	Payee    *string         `json:"payee"`
	MCC      *int            `json:"mcc"`
	Location *Location       `json:"location"`
	Comment  *string         `json:"comment"`

	Counterpart *Movement `json:"counterpart,omitempty"`
}

// OriginOrPosted returns the amount in the currency the merchant charged.
func (t Transaction) OriginOrPosted() Amount {
	if t.Origin != nil {
		return *t.Origin
	}
	return t.Posted
}

func (t Transaction) IsTransfer() bool {
	return t.Kind == KindTransfer
}

type FinancialImporter interface {
	Import() (int, error)
}
