package domain

// ProductRef is what the view layer hands the cart when a product is added.
type ProductRef struct {
	ID    string
	Name  string
	Price float64
	Image string
}

// LineItem is one product reference plus a quantity in the cart.
type LineItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price times quantity for the line.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// Cart is an ordered snapshot of line items.
type Cart struct {
	Items []LineItem
}

// TotalItems sums the quantities of all line items.
func (c Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice sums price times quantity over all line items.
func (c Cart) TotalPrice() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	return total
}
