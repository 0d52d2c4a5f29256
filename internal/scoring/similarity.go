// Package scoring compares a predicted receipt record against a hand-labeled
// ground truth record: token-overlap similarity for free-text fields, exact
// match for currency, tolerance-based match for amounts and greedy set
// matching for line items. Absence on both sides always scores 1.0 (both
// sides correctly express ignorance), presence against absence 0.0.
package scoring

import (
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// amountTolerance is the absolute difference under which two amounts count
// as the same value
const amountTolerance = 0.01

// amountEpsilon absorbs binary representation error in tolerance checks:
// 100.01-100.00 is 0.010000000000000675 in float64 and must still count as
// within a 0.01 tolerance
const amountEpsilon = 1e-9

// FieldScore is the comparison result for a single field
type FieldScore struct {
	ExactMatch bool    `json:"exact_match"`
	Similarity float64 `json:"similarity"` // in [0, 1]
}

// TextScore compares two free-text fields by Jaccard token overlap.
// Symmetric; nil-vs-nil scores 1.0, nil-vs-value 0.0.
func TextScore(a, b *string) FieldScore {
	sim := tokenSimilarity(a, b)
	exact := (a == nil && b == nil) || (a != nil && b != nil && *a == *b)
	return FieldScore{ExactMatch: exact, Similarity: sim}
}

// CurrencyScore compares two currency codes by exact match after
// normalization: 1.0 or 0.0
func CurrencyScore(a, b *string) FieldScore {
	match := foldPtr(a) == foldPtr(b)
	sim := 0.0
	if match {
		sim = 1.0
	}
	return FieldScore{ExactMatch: match, Similarity: sim}
}

// AmountScore compares two amounts. Within the tolerance the score is 1.0;
// beyond it the score decays with the relative difference, floored at 0.0.
func AmountScore(pred, truth *float64) FieldScore {
	if pred == nil && truth == nil {
		return FieldScore{ExactMatch: true, Similarity: 1.0}
	}
	if pred == nil || truth == nil {
		return FieldScore{ExactMatch: false, Similarity: 0.0}
	}
	diff := math.Abs(*pred - *truth)
	if diff <= amountTolerance+amountEpsilon {
		return FieldScore{ExactMatch: true, Similarity: 1.0}
	}
	denom := math.Abs(*truth)
	if denom < 1.0 {
		denom = 1.0
	}
	return FieldScore{Similarity: math.Max(0, 1.0-diff/denom)}
}

func tokenSimilarity(a, b *string) float64 {
	if a == nil && b == nil {
		return 1.0
	}
	if a == nil || b == nil {
		return 0.0
	}
	return jaccard(*a, *b)
}

// jaccard is the |intersection| / |union| overlap of the two token sets;
// 1.0 when both are empty, 0.0 when exactly one is
func jaccard(a, b string) float64 {
	ta := tokens(a)
	tb := tokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}
	inter := 0
	union := len(tb)
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// stripAccents folds accented letters to their base form so OCR variants of
// the same word still match ("Café" / "Cafe")
var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// tokens lower-cases, strips accents and splits on anything that is not a
// letter or digit
func tokens(s string) map[string]struct{} {
	folded, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func foldPtr(s *string) string {
	if s == nil {
		// sentinel that no real value can collide with
		return "\x00absent"
	}
	return strings.ToUpper(strings.TrimSpace(*s))
}
