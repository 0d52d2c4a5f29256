package receipt_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Irina-Igmm/pdf-ocr/internal/receipt"
)

func TestReceipt(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Receipt Suite")
}

var _ = Describe("Record", func() {
	Describe("Clone", func() {
		var (
			original *receipt.Record
			clone    *receipt.Record
		)

		BeforeEach(func() {
			original = &receipt.Record{}
			original.Provider.Name = receipt.String("REWE Markt GmbH")
			original.Transaction.Currency = receipt.String("EUR")
			original.Transaction.TotalAmount = receipt.Float(10.26)
			original.Transaction.Items = []receipt.LineItem{
				{Name: "Milch", Quantity: 2, Price: 3.56},
			}
			clone = original.Clone()
		})

		It("copies every field", func() {
			Expect(clone).To(Equal(original))
		})

		It("does not share pointer fields with the original", func() {
			*clone.Provider.Name = "changed"
			*clone.Transaction.TotalAmount = 0
			Expect(original.Provider.Name).To(HaveValue(Equal("REWE Markt GmbH")))
			Expect(original.Transaction.TotalAmount).To(HaveValue(Equal(10.26)))
		})

		It("does not share the item slice with the original", func() {
			clone.Transaction.Items[0].Price = 99.99
			Expect(original.Transaction.Items[0].Price).To(Equal(3.56))
		})
	})
})
