package scoring

import (
	"math"
	"sort"

	"github.com/Irina-Igmm/pdf-ocr/internal/receipt"
)

// MatchConfig holds the thresholds that decide when a predicted line item
// counts as the same item as a ground-truth one. Exposed so a stricter
// matcher (exact weighted bipartite assignment) could be swapped in with
// different gates.
type MatchConfig struct {
	// NameThreshold is the minimum name token similarity
	NameThreshold float64
	// PriceTolerance is the maximum absolute price difference
	PriceTolerance float64
}

// DefaultMatchConfig returns the standard thresholds
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{NameThreshold: 0.5, PriceTolerance: 0.01}
}

// ItemScore is the set-matching result for the item lists
type ItemScore struct {
	Matched   int     `json:"matched"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

type candidate struct {
	pred, truth int
	quality     float64
}

// MatchItems greedily matches predicted against ground-truth line items,
// order-independent. A pair is eligible when the name similarity clears the
// threshold, the quantities are exactly equal and the prices agree within
// the tolerance. Eligible pairs are committed best-first; consumed items are
// never revisited. Greedy matching approximates optimal assignment, which is
// acceptable at receipt-sized item counts.
func MatchItems(pred, truth []receipt.LineItem, cfg MatchConfig) ItemScore {
	if len(pred) == 0 && len(truth) == 0 {
		return ItemScore{Precision: 1.0, Recall: 1.0, F1: 1.0}
	}
	if len(truth) == 0 {
		return ItemScore{Precision: 0.0, Recall: 1.0, F1: 0.0}
	}
	if len(pred) == 0 {
		return ItemScore{Precision: 1.0, Recall: 0.0, F1: 0.0}
	}

	var candidates []candidate
	for i, p := range pred {
		for j, t := range truth {
			if p.Quantity != t.Quantity {
				continue
			}
			if math.Abs(p.Price-t.Price) > cfg.PriceTolerance+amountEpsilon {
				continue
			}
			sim := jaccard(p.Name, t.Name)
			if sim < cfg.NameThreshold {
				continue
			}
			// the price residual only orders candidates; eligibility was
			// already gated above
			quality := sim - 0.05*math.Abs(p.Price-t.Price)
			candidates = append(candidates, candidate{pred: i, truth: j, quality: quality})
		}
	}

	sort.Slice(candidates, func(a, b int) bool {
		ca, cb := candidates[a], candidates[b]
		if ca.quality != cb.quality {
			return ca.quality > cb.quality
		}
		if ca.pred != cb.pred {
			return ca.pred < cb.pred
		}
		return ca.truth < cb.truth
	})

	usedPred := make([]bool, len(pred))
	usedTruth := make([]bool, len(truth))
	matched := 0
	for _, c := range candidates {
		if usedPred[c.pred] || usedTruth[c.truth] {
			continue
		}
		usedPred[c.pred] = true
		usedTruth[c.truth] = true
		matched++
	}

	precision := float64(matched) / float64(len(pred))
	recall := float64(matched) / float64(len(truth))
	f1 := 0.0
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return ItemScore{Matched: matched, Precision: precision, Recall: recall, F1: f1}
}
