package financialimporter

// MergeOptions tells MergeTransfers how to look at a bank specific item.
type MergeOptions[T any] struct {
	SelectTransaction func(T) Transaction
	// IsTransferItem marks items the bank flags as one leg of an internal
	// transfer. Items that already are transfers are always candidates.
	IsTransferItem func(T) bool
	// GroupKey must be identical for both legs of one transfer.
	GroupKey func(T) string
	// TransactionID gives unpaired items a stable id, nil to leave it unset.
	TransactionID func(T) *string
}

// MergeTransfers collapses opposite signed transfer legs sharing a group key
// into single transfer records. Within a group legs are paired greedily in
// input order, each with the next unpaired leg of opposite sign. The merged
// record takes the position of its earlier leg and every other item keeps its
// relative order.
func MergeTransfers[T any](items []T, opts MergeOptions[T]) []Transaction {
	transactions := make([]Transaction, len(items))
	groups := map[string][]int{}
	groupOrder := []string{}

	for i, item := range items {
		transactions[i] = opts.SelectTransaction(item)
		if !transactions[i].IsTransfer() && (opts.IsTransferItem == nil || !opts.IsTransferItem(item)) {
			continue
		}

		key := opts.GroupKey(item)
		if _, ok := groups[key]; !ok {
			groupOrder = append(groupOrder, key)
		}
		groups[key] = append(groups[key], i)
	}

	// partner[i] is the index of the leg merged with i, -1 when unpaired
	partner := make([]int, len(items))
	for i := range partner {
		partner[i] = -1
	}

	for _, key := range groupOrder {
		legs := groups[key]
		for a := 0; a < len(legs); a++ {
			i := legs[a]
			if partner[i] != -1 {
				continue
			}
			for b := a + 1; b < len(legs); b++ {
				j := legs[b]
				if partner[j] != -1 || !oppositeSigns(transactions[i], transactions[j]) {
					continue
				}
				partner[i] = j
				partner[j] = i
				break
			}
		}
	}

	merged := make([]Transaction, 0, len(items))
	for i, item := range items {
		j := partner[i]
		switch {
		case j == -1:
			t := transactions[i]
			if t.ID == nil && opts.TransactionID != nil {
				t.ID = opts.TransactionID(item)
			}
			merged = append(merged, t)
		case j > i:
			merged = append(merged, mergeLegs(transactions[i], transactions[j]))
		}
	}

	return merged
}

func oppositeSigns(a, b Transaction) bool {
	return a.Posted.Amount.Sign()*b.Posted.Amount.Sign() < 0
}

// mergeLegs keeps the outflow leg as the transfer and moves the inflow leg
// into the counterpart. The inflow comment is appended unless it repeats the
// outflow one.
func mergeLegs(a, b Transaction) Transaction {
	outflow, inflow := a, b
	if outflow.Posted.Amount.Sign() > 0 {
		outflow, inflow = b, a
	}

	outflowComment, inflowComment := stringValue(outflow.Comment), stringValue(inflow.Comment)
	if inflowComment == outflowComment {
		inflowComment = ""
	}

	return Transaction{
		Kind:    KindTransfer,
		ID:      nil,
		Account: outflow.Account,
		Date:    outflow.Date,
		Hold:    outflow.Hold || inflow.Hold,
		Posted:  outflow.Posted,
		Origin:  outflow.Origin,
		Payee:   nil,
		Comment: JoinComments(outflowComment, inflowComment),
		Counterpart: &Movement{
			Account: inflow.Account,
			Posted:  inflow.Posted,
			Origin:  inflow.Origin,
			Hold:    inflow.Hold,
		},
	}
}
