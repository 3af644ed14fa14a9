package financialimporter

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatComment describes a cross currency conversion, e.g. "10.00 USD\n(rate=2.0000)".
// Returns "" when there was no conversion.
func FormatComment(posted Amount, origin *Amount) string {
	if origin == nil {
		return ""
	}

	lines := []string{fmt.Sprintf("%s %s", origin.Amount.Abs().StringFixed(2), origin.Instrument)}
	if !origin.Amount.IsZero() {
		lines = append(lines, fmt.Sprintf("(rate=%s)", formatRate(posted.Amount.Abs().Div(origin.Amount.Abs()))))
	}

	return strings.Join(lines, "\n")
}

func formatRate(rate decimal.Decimal) string {
	if rate.IsZero() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return rate.StringFixed(4)
	}
	return "1/" + decimal.NewFromInt(1).Div(rate).StringFixed(4)
}

// JoinComments joins the non-empty parts with newlines, nil when nothing is left.
func JoinComments(parts ...string) *string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}

	if len(nonEmpty) == 0 {
		return nil
	}

	comment := strings.Join(nonEmpty, "\n")
	return &comment
}
