package priorbank

import "strings"

// Prefixes overlap by content, so the order is the match priority.
var knownTransactionTypes = []string{"Retail", "ATM", "CH Debit", "CH Payment", "Cash"}

// Details is the parsed transDetails text. A recognized type comes with a
// payee, anything else is kept as a comment.
type Details struct {
	Type    *string
	Payee   *string
	Comment *string
}

func (d Details) IsCash() bool {
	return d.Type != nil && (*d.Type == "ATM" || *d.Type == "Cash")
}

func ParseDetails(transDetails string) Details {
	for _, t := range knownTransactionTypes {
		if strings.HasPrefix(transDetails, t+" ") {
			transactionType := t
			payee := normalizeSpaces(transDetails[len(t):])
			return Details{Type: &transactionType, Payee: &payee}
		}
	}

	comment := normalizeSpaces(transDetails)
	return Details{Comment: &comment}
}

// normalizeSpaces drops the empty tokens of a split on single spaces.
func normalizeSpaces(text string) string {
	parts := strings.Split(text, " ")
	words := parts[:0]
	for _, p := range parts {
		if p != "" {
			words = append(words, p)
		}
	}
	return strings.Join(words, " ")
}
