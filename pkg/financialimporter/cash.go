package financialimporter

// AsCashTransfer reshapes a card transaction into a transfer between the card
// and the owner's cash account in the charged currency.
func AsCashTransfer(t Transaction) Transaction {
	cash := t.OriginOrPosted()

	transfer := t
	transfer.Kind = KindTransfer
	transfer.Payee = nil
	transfer.MCC = nil
	transfer.Location = nil
	transfer.Counterpart = &Movement{
		Account: AccountRef{
			Type:       AccountTypeCash,
			Instrument: cash.Instrument,
		},
		Posted: Amount{
			Amount:     cash.Amount.Neg(),
			Instrument: cash.Instrument,
		},
		Hold: t.Hold,
	}

	return transfer
}

// IsCashTransfer is true for transfers whose other side is a cash account.
func IsCashTransfer(t Transaction) bool {
	return t.Counterpart != nil && t.Counterpart.Account.Type == AccountTypeCash
}
