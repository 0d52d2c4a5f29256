package scoring_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Irina-Igmm/pdf-ocr/internal/receipt"
	"github.com/Irina-Igmm/pdf-ocr/internal/scoring"
)

var _ = Describe("MatchItems", func() {
	var cfg scoring.MatchConfig

	BeforeEach(func() {
		cfg = scoring.DefaultMatchConfig()
	})

	It("matches within the price tolerance and scores the misses", func() {
		pred := []receipt.LineItem{
			{Name: "Milk", Quantity: 1, Price: 1.78},
			{Name: "Bread", Quantity: 1, Price: 2.50},
		}
		truth := []receipt.LineItem{
			{Name: "Milk", Quantity: 1, Price: 1.79},
			{Name: "Bread", Quantity: 1, Price: 2.50},
			{Name: "Eggs", Quantity: 1, Price: 3.20},
		}

		s := scoring.MatchItems(pred, truth, cfg)
		Expect(s.Matched).To(Equal(2))
		Expect(s.Precision).To(Equal(1.0))
		Expect(s.Recall).To(BeNumerically("~", 2.0/3.0, 1e-9))
		Expect(s.F1).To(BeNumerically("~", 0.8, 1e-9))
	})

	It("scores two empty lists as perfect", func() {
		s := scoring.MatchItems(nil, nil, cfg)
		Expect(s.Precision).To(Equal(1.0))
		Expect(s.Recall).To(Equal(1.0))
		Expect(s.F1).To(Equal(1.0))
	})

	It("penalizes predictions when the truth has no items", func() {
		pred := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.78}}
		s := scoring.MatchItems(pred, nil, cfg)
		Expect(s.Precision).To(Equal(0.0))
		Expect(s.Recall).To(Equal(1.0))
		Expect(s.F1).To(Equal(0.0))
	})

	It("penalizes an empty prediction when the truth has items", func() {
		truth := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.78}}
		s := scoring.MatchItems(nil, truth, cfg)
		Expect(s.Precision).To(Equal(1.0))
		Expect(s.Recall).To(Equal(0.0))
		Expect(s.F1).To(Equal(0.0))
	})

	It("requires exactly equal quantities", func() {
		pred := []receipt.LineItem{{Name: "Milk", Quantity: 2, Price: 1.78}}
		truth := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.78}}
		s := scoring.MatchItems(pred, truth, cfg)
		Expect(s.Matched).To(Equal(0))
		Expect(s.F1).To(Equal(0.0))
	})

	It("rejects pairs below the name threshold", func() {
		pred := []receipt.LineItem{{Name: "Organic Whole Milk Carton", Quantity: 1, Price: 1.78}}
		truth := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.78}}
		s := scoring.MatchItems(pred, truth, cfg)
		Expect(s.Matched).To(Equal(0))
	})

	It("accepts a one-cent price difference at the default tolerance", func() {
		pred := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.78}}
		truth := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.79}}
		s := scoring.MatchItems(pred, truth, cfg)
		Expect(s.Matched).To(Equal(1))
	})

	It("rejects pairs beyond the price tolerance", func() {
		pred := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.98}}
		truth := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.78}}
		s := scoring.MatchItems(pred, truth, cfg)
		Expect(s.Matched).To(Equal(0))
	})

	It("never matches the same item twice", func() {
		pred := []receipt.LineItem{
			{Name: "Milk", Quantity: 1, Price: 1.78},
			{Name: "Milk", Quantity: 1, Price: 1.78},
		}
		truth := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.78}}
		s := scoring.MatchItems(pred, truth, cfg)
		Expect(s.Matched).To(Equal(1))
		Expect(s.Precision).To(Equal(0.5))
		Expect(s.Recall).To(Equal(1.0))
	})

	It("is independent of input order", func() {
		pred := []receipt.LineItem{
			{Name: "Bread", Quantity: 1, Price: 2.50},
			{Name: "Milk", Quantity: 1, Price: 1.78},
		}
		truth := []receipt.LineItem{
			{Name: "Milk", Quantity: 1, Price: 1.78},
			{Name: "Bread", Quantity: 1, Price: 2.50},
		}
		s := scoring.MatchItems(pred, truth, cfg)
		Expect(s.Matched).To(Equal(2))
		Expect(s.F1).To(Equal(1.0))
	})

	It("honors a custom price tolerance", func() {
		cfg.PriceTolerance = 0.25
		pred := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.98}}
		truth := []receipt.LineItem{{Name: "Milk", Quantity: 1, Price: 1.78}}
		s := scoring.MatchItems(pred, truth, cfg)
		Expect(s.Matched).To(Equal(1))
	})
})

var _ = Describe("ScoreRecord", func() {
	It("scores every field of a pair of records", func() {
		pred := &receipt.Record{}
		pred.Provider.Name = receipt.String("REWE Markt GmbH")
		pred.Transaction.Currency = receipt.String("EUR")
		pred.Transaction.TotalAmount = receipt.Float(10.26)
		pred.Transaction.Items = []receipt.LineItem{{Name: "Milch", Quantity: 2, Price: 3.56}}

		truth := &receipt.Record{}
		truth.Provider.Name = receipt.String("REWE Markt GmbH")
		truth.Provider.Address = receipt.String("Musterstraße 12, 10115 Berlin")
		truth.Transaction.Currency = receipt.String("EUR")
		truth.Transaction.TotalAmount = receipt.Float(10.26)
		truth.Transaction.Items = []receipt.LineItem{{Name: "Milch", Quantity: 2, Price: 3.56}}

		r := scoring.ScoreRecord(pred, truth, scoring.DefaultMatchConfig())
		Expect(r.ProviderName.ExactMatch).To(BeTrue())
		Expect(r.ProviderAddress.Similarity).To(Equal(0.0))
		Expect(r.VATNumber.Similarity).To(Equal(1.0))
		Expect(r.Currency.ExactMatch).To(BeTrue())
		Expect(r.TotalAmount.ExactMatch).To(BeTrue())
		Expect(r.Items.F1).To(Equal(1.0))
	})
})

var _ = Describe("Aggregate", func() {
	It("averages the per-sample scores", func() {
		reports := []scoring.Report{
			{
				TotalAmount: scoring.FieldScore{Similarity: 1.0},
				Items:       scoring.ItemScore{Precision: 1.0, Recall: 1.0, F1: 1.0},
			},
			{
				TotalAmount: scoring.FieldScore{Similarity: 0.5},
				Items:       scoring.ItemScore{Precision: 0.5, Recall: 1.0, F1: 2.0 / 3.0},
			},
		}
		s := scoring.Aggregate(reports)
		Expect(s.Samples).To(Equal(2))
		Expect(s.TotalAmount).To(Equal(0.75))
		Expect(s.ItemsPrecision).To(Equal(0.75))
		Expect(s.ItemsRecall).To(Equal(1.0))
		Expect(s.ItemsF1).To(BeNumerically("~", 5.0/6.0, 1e-9))
	})

	It("returns a zero summary for an empty corpus", func() {
		s := scoring.Aggregate(nil)
		Expect(s.Samples).To(Equal(0))
		Expect(s.TotalAmount).To(Equal(0.0))
	})
})
