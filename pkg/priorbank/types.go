package priorbank

import "github.com/shopspring/decimal"

const activeCardStatus = 1

// Card is one entry of the card list response.
type Card struct {
	ClientObject ClientObject `json:"clientObject"`
	Balance      CardBalance  `json:"balance"`
}

type ClientObject struct {
	ID                 int64  `json:"id"`
	Type               int    `json:"type"` // 5 for credit cards, 6 for debit cards
	DefaultSynonym     string `json:"defaultSynonym"`
	CustomSynonym      string `json:"customSynonym"`
	CardMaskedNumber   string `json:"cardMaskedNumber"`
	CurrIso            string `json:"currIso"`
	CardContractNumber string `json:"cardContractNumber"`
	CardStatus         int    `json:"cardStatus"`
}

type CardBalance struct {
	Available decimal.Decimal `json:"available"`
}

// CardDesc is one entry of the card description response, matched to a Card by id.
type CardDesc struct {
	ID       int64    `json:"id"`
	Contract Contract `json:"contract"`
}

type Contract struct {
	AbortedContractList []AbortedContract `json:"abortedContractList"`
	Account             ContractAccount   `json:"account"`
}

type AbortedContract struct {
	AbortedTransactionList []AbortedTransaction `json:"abortedTransactionList"`
}

type ContractAccount struct {
	TransCardList []TransCard `json:"transCardList"`
}

type TransCard struct {
	TransactionList []RegularTransaction `json:"transactionList"`
}

// AbortedTransaction was authorized but has not settled.
type AbortedTransaction struct {
	TransAmount  decimal.Decimal `json:"transAmount"`
	TransCurrIso string          `json:"transCurrIso"`
	Amount       decimal.Decimal `json:"amount"`
	TransDetails string          `json:"transDetails"`
	TransDate    string          `json:"transDate"`
	TransTime    string          `json:"transTime,omitempty"`
}

type RegularTransaction struct {
	AccountAmount decimal.Decimal `json:"accountAmount"`
	FeeAmount     decimal.Decimal `json:"feeAmount"`
	Amount        decimal.Decimal `json:"amount"`
	TransCurrIso  string          `json:"transCurrIso"`
	TransDetails  string          `json:"transDetails"`
	TransDate     string          `json:"transDate"`
	TransTime     string          `json:"transTime"`
}

type TransactionKind string

const (
	KindAborted TransactionKind = "abortedTransaction"
	KindRegular TransactionKind = "regularTransaction"
)

// APITransaction tags a raw transaction with its variant and owning card.
// Exactly one of Aborted and Regular is set, matching Kind.
type APITransaction struct {
	Kind    TransactionKind
	Card    Card
	Aborted *AbortedTransaction
	Regular *RegularTransaction
}

func (t APITransaction) TransDetails() string {
	switch {
	case t.Aborted != nil:
		return t.Aborted.TransDetails
	case t.Regular != nil:
		return t.Regular.TransDetails
	}
	return ""
}

func (t APITransaction) TransTime() string {
	switch {
	case t.Aborted != nil:
		return t.Aborted.TransTime
	case t.Regular != nil:
		return t.Regular.TransTime
	}
	return ""
}
