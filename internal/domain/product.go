package domain

// Product is an entry in the static storefront catalog.
type Product struct {
	ID          string
	Name        string
	Price       float64
	Description string
	Category    string
	Image       string
	Rating      float64
	Stock       int
}

// Ref returns the subset of the product the cart keeps.
func (p Product) Ref() ProductRef {
	return ProductRef{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
}
