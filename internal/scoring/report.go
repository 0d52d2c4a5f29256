package scoring

import "github.com/Irina-Igmm/pdf-ocr/internal/receipt"

// Report holds the per-field scores for one predicted record compared
// against its ground truth
type Report struct {
	ProviderName    FieldScore `json:"provider_name"`
	ProviderAddress FieldScore `json:"provider_address"`
	VATNumber       FieldScore `json:"vat_number"`
	Currency        FieldScore `json:"currency"`
	TotalAmount     FieldScore `json:"total_amount"`
	VAT             FieldScore `json:"vat"`
	Items           ItemScore  `json:"items"`
}

// ScoreRecord compares a predicted record against a ground truth record
// field by field. Defined for any pair of records, however incomplete.
func ScoreRecord(pred, truth *receipt.Record, cfg MatchConfig) Report {
	return Report{
		ProviderName:    TextScore(pred.Provider.Name, truth.Provider.Name),
		ProviderAddress: TextScore(pred.Provider.Address, truth.Provider.Address),
		VATNumber:       TextScore(pred.Provider.VATNumber, truth.Provider.VATNumber),
		Currency:        CurrencyScore(pred.Transaction.Currency, truth.Transaction.Currency),
		TotalAmount:     AmountScore(pred.Transaction.TotalAmount, truth.Transaction.TotalAmount),
		VAT:             TextScore(pred.Transaction.VAT, truth.Transaction.VAT),
		Items:           MatchItems(pred.Transaction.Items, truth.Transaction.Items, cfg),
	}
}

// Summary is the corpus-level average of every field score
type Summary struct {
	Samples         int     `json:"samples"`
	ProviderName    float64 `json:"provider_name"`
	ProviderAddress float64 `json:"provider_address"`
	VATNumber       float64 `json:"vat_number"`
	Currency        float64 `json:"currency"`
	TotalAmount     float64 `json:"total_amount"`
	VAT             float64 `json:"vat"`
	ItemsPrecision  float64 `json:"items_precision"`
	ItemsRecall     float64 `json:"items_recall"`
	ItemsF1         float64 `json:"items_f1"`
}

// Aggregate averages reports across a corpus. Plain summation keeps the
// reduction associative and commutative, so any processing order yields the
// same summary.
func Aggregate(reports []Report) Summary {
	s := Summary{Samples: len(reports)}
	if len(reports) == 0 {
		return s
	}
	for _, r := range reports {
		s.ProviderName += r.ProviderName.Similarity
		s.ProviderAddress += r.ProviderAddress.Similarity
		s.VATNumber += r.VATNumber.Similarity
		s.Currency += r.Currency.Similarity
		s.TotalAmount += r.TotalAmount.Similarity
		s.VAT += r.VAT.Similarity
		s.ItemsPrecision += r.Items.Precision
		s.ItemsRecall += r.Items.Recall
		s.ItemsF1 += r.Items.F1
	}
	n := float64(len(reports))
	s.ProviderName /= n
	s.ProviderAddress /= n
	s.VATNumber /= n
	s.Currency /= n
	s.TotalAmount /= n
	s.VAT /= n
	s.ItemsPrecision /= n
	s.ItemsRecall /= n
	s.ItemsF1 /= n
	return s
}
