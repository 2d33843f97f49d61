package domain

// CartLine is a single entry in the cart. Lines are identified by the
// (ProductID, VariantKey) pair so the same product in two variants occupies
// two lines, while re-adding the same variant merges quantities.
type CartLine struct {
	ProductID  string  `json:"product_id"`
	VariantKey string  `json:"variant_key,omitempty"`
	Name       string  `json:"name"`
	Slug       string  `json:"slug,omitempty"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	ImageURL   string  `json:"image_url,omitempty"`
}

// Subtotal returns the line total.
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// SameLine reports whether the other line refers to the same product variant.
func (l CartLine) SameLine(productID, variantKey string) bool {
	return l.ProductID == productID && l.VariantKey == variantKey
}

// Cart holds the shopper's current selection together with the open state of
// the cart drawer in the view.
type Cart struct {
	Lines  []CartLine `json:"lines"`
	IsOpen bool       `json:"is_open"`
}

// ItemCount returns the total number of units across all lines.
func (c Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// TotalAmount returns the sum of all line subtotals.
func (c Cart) TotalAmount() float64 {
	total := 0.0
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}

// FindLine returns the index of the line matching the product variant,
// or -1 when the cart has no such line.
func (c Cart) FindLine(productID, variantKey string) int {
	for i, l := range c.Lines {
		if l.SameLine(productID, variantKey) {
			return i
		}
	}
	return -1
}
