package receipt

// Record is the structured result of parsing one block of extracted receipt
// text. Optional fields are pointers: nil means the value could not be
// recovered from the text, which is not the same thing as an empty string or
// a zero amount.
type Record struct {
	Provider    Provider    `json:"ServiceProvider"`
	Transaction Transaction `json:"TransactionDetails"`
}

// Provider identifies the merchant that issued the receipt
type Provider struct {
	Name      *string `json:"Name,omitempty"`
	Address   *string `json:"Address,omitempty"`
	VATNumber *string `json:"VATNumber,omitempty"`
}

// Transaction holds the monetary details of the receipt
type Transaction struct {
	Items       []LineItem `json:"Items"`
	Currency    *string    `json:"Currency,omitempty"`    // ISO 4217 after normalization
	TotalAmount *float64   `json:"TotalAmount,omitempty"` // rounded to 2 decimals after normalization
	VAT         *string    `json:"VAT,omitempty"`         // verbatim, e.g. "19% MwSt"
}

// LineItem is one purchased item line
type LineItem struct {
	Name     string  `json:"Item"`
	Quantity int     `json:"Quantity"` // defaults to 1 when unrecoverable
	Price    float64 `json:"Price"`
}

// Sample pairs a source document with its hand-labeled ground truth record
type Sample struct {
	PDFPath     string `json:"pdf_path"`
	GroundTruth Record `json:"ground_truth"`
}

// String returns a pointer to s, for building records with optional fields
func String(s string) *string {
	return &s
}

// Float returns a pointer to f, for building records with optional fields
func Float(f float64) *float64 {
	return &f
}

// Clone returns a deep copy of the record so callers can mutate the copy
// without aliasing the original
func (r *Record) Clone() *Record {
	out := &Record{}
	out.Provider.Name = cloneString(r.Provider.Name)
	out.Provider.Address = cloneString(r.Provider.Address)
	out.Provider.VATNumber = cloneString(r.Provider.VATNumber)
	out.Transaction.Currency = cloneString(r.Transaction.Currency)
	out.Transaction.VAT = cloneString(r.Transaction.VAT)
	if r.Transaction.TotalAmount != nil {
		v := *r.Transaction.TotalAmount
		out.Transaction.TotalAmount = &v
	}
	if r.Transaction.Items != nil {
		out.Transaction.Items = make([]LineItem, len(r.Transaction.Items))
		copy(out.Transaction.Items, r.Transaction.Items)
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
