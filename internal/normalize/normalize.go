// Package normalize cleans a raw extracted receipt record: currency aliases
// resolve to ISO 4217 codes, the total is rounded, quantities are defaulted
// and the total is cross-checked against the item sum. Normalization is
// idempotent and never mutates its input.
package normalize

import (
	"math"
	"strings"

	"github.com/Irina-Igmm/pdf-ocr/internal/locale"
	"github.com/Irina-Igmm/pdf-ocr/internal/receipt"
)

// sumTolerance is how far the stated total may drift from the sum of the
// line items before the mismatch diagnostic fires. Receipts legitimately
// carry non-itemized charges, so a mismatch is reported, never corrected.
const sumTolerance = 0.05

// Diagnostics carries derived observations about a normalized record. They
// are advisory: the record itself is never rewritten because of them.
type Diagnostics struct {
	// CurrencyUnresolved is set when the recognized currency token matched
	// no alias and is not a valid ISO 4217 code; the token passed through
	// verbatim and should be treated as low confidence.
	CurrencyUnresolved bool

	// TotalMismatch is set when the stated total and the item sum disagree
	// beyond the tolerance.
	TotalMismatch bool

	// ItemSum is the computed sum of quantity × price over the items,
	// populated whenever the record has items.
	ItemSum float64
}

// Normalize returns a cleaned copy of the record and the diagnostics
// derived while cleaning it
func Normalize(rec *receipt.Record) (*receipt.Record, Diagnostics) {
	out := rec.Clone()
	var diags Diagnostics

	if cur := out.Transaction.Currency; cur != nil {
		resolved, unresolved := resolveCurrency(*cur)
		out.Transaction.Currency = &resolved
		diags.CurrencyUnresolved = unresolved
	}

	if t := out.Transaction.TotalAmount; t != nil {
		rounded := Round2(*t)
		out.Transaction.TotalAmount = &rounded
	}

	for i := range out.Transaction.Items {
		if out.Transaction.Items[i].Quantity <= 0 {
			out.Transaction.Items[i].Quantity = 1
		}
	}

	if len(out.Transaction.Items) > 0 {
		var sum float64
		for _, item := range out.Transaction.Items {
			sum += float64(item.Quantity) * item.Price
		}
		diags.ItemSum = Round2(sum)
		if t := out.Transaction.TotalAmount; t != nil {
			diags.TotalMismatch = math.Abs(*t-diags.ItemSum) > sumTolerance
		}
	}

	return out, diags
}

// resolveCurrency maps a recognized token to its ISO code. Tokens that are
// already valid ISO codes pass (upper-cased); anything else passes through
// unchanged and is flagged.
func resolveCurrency(token string) (code string, unresolved bool) {
	if iso, ok := locale.ResolveCurrency(token); ok {
		return iso, false
	}
	upper := strings.ToUpper(strings.TrimSpace(token))
	if locale.KnownISO(upper) {
		return upper, false
	}
	return token, true
}

// Round2 rounds to 2 decimal places using round-half-to-even on the
// cent-scaled value, chosen over half-up for determinism across
// aggregations
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
