package priorbank

import (
	"slices"
	"strconv"
	"strings"

	"k8s.io/klog"

	"github.com/bcaldwell/priorbank/pkg/financialimporter"
)

// ChooseDistinctCards keeps one card per contract number. Reissued cards show
// up as extra records on the same contract; the active one wins, then the
// first by default synonym. Survivors keep their input order.
func ChooseDistinctCards(cards []Card) []Card {
	distinct, _ := SplitDistinctCards(cards)
	return distinct
}

// SplitDistinctCards is ChooseDistinctCards that also returns the evicted
// cards, in input order.
func SplitDistinctCards(cards []Card) (distinct, evicted []Card) {
	groups := map[string][]int{}
	for i, card := range cards {
		contract := card.ClientObject.CardContractNumber
		groups[contract] = append(groups[contract], i)
	}

	keep := make([]bool, len(cards))
	for contract, indexes := range groups {
		slices.SortStableFunc(indexes, func(a, b int) int {
			return compareCards(cards[a], cards[b])
		})
		keep[indexes[0]] = true

		for _, i := range indexes[1:] {
			klog.V(2).Infof("Evicting card %d (%s) in favour of %d on contract %s\n",
				cards[i].ClientObject.ID, cards[i].ClientObject.DefaultSynonym,
				cards[indexes[0]].ClientObject.ID, contract)
		}
	}

	distinct = make([]Card, 0, len(groups))
	evicted = []Card{}
	for i, card := range cards {
		if keep[i] {
			distinct = append(distinct, card)
		} else {
			evicted = append(evicted, card)
		}
	}

	return distinct, evicted
}

func compareCards(a, b Card) int {
	if rank, other := statusRank(a), statusRank(b); rank != other {
		return rank - other
	}
	return strings.Compare(a.ClientObject.DefaultSynonym, b.ClientObject.DefaultSynonym)
}

func statusRank(card Card) int {
	if card.ClientObject.CardStatus == activeCardStatus {
		return 0
	}
	return 1
}

func accountID(card Card) string {
	return strconv.FormatInt(card.ClientObject.ID, 10)
}

func ToAccount(card Card) financialimporter.Account {
	title := card.ClientObject.CustomSynonym
	if title == "" {
		title = card.ClientObject.DefaultSynonym
	}

	masked := card.ClientObject.CardMaskedNumber
	if len(masked) > 4 {
		masked = masked[len(masked)-4:]
	}

	return financialimporter.Account{
		ID:         accountID(card),
		Title:      title,
		Type:       financialimporter.AccountTypeCard,
		SyncID:     []string{masked},
		Instrument: card.ClientObject.CurrIso,
		Balance:    card.Balance.Available,
	}
}
