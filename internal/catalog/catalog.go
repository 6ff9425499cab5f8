// Package catalog holds the static storefront product list.
package catalog

import (
	"strings"

	"github.com/msomdec/novacart/internal/domain"
)

// Catalog is a read-only, ordered product list.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
}

// New builds a catalog over the given products, keeping their order.
func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: append([]domain.Product(nil), products...),
		byID:     make(map[string]int, len(products)),
	}
	for i, p := range c.products {
		c.byID[p.ID] = i
	}
	return c
}

// Default returns the storefront's built-in catalog.
func Default() *Catalog {
	return New(defaultProducts)
}

// All returns every product in catalog order.
func (c *Catalog) All() []domain.Product {
	return append([]domain.Product(nil), c.products...)
}

// Find looks a product up by id.
func (c *Catalog) Find(id string) (domain.Product, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return c.products[i], true
}

// Search returns products whose name, category, or description contains the
// query, ignoring case. The query is not trimmed; an empty query matches
// everything.
func (c *Catalog) Search(query string) []domain.Product {
	q := strings.ToLower(query)
	if q == "" {
		return c.All()
	}

	var out []domain.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

var defaultProducts = []domain.Product{
	{
		ID:          "1",
		Name:        "Premium Wireless Headphones",
		Price:       299.99,
		Description: "High-quality wireless headphones with noise cancellation and premium sound quality. Perfect for music lovers and professionals.",
		Category:    "Audio",
		Image:       "/assets/product-headphones.jpg",
		Rating:      4.8,
		Stock:       45,
	},
	{
		ID:          "2",
		Name:        "Smart Watch Pro",
		Price:       399.99,
		Description: "Advanced smartwatch with health tracking, notifications, and long battery life. Stay connected on the go.",
		Category:    "Wearables",
		Image:       "/assets/product-smartwatch.jpg",
		Rating:      4.6,
		Stock:       32,
	},
	{
		ID:          "3",
		Name:        "Ultra Performance Laptop",
		Price:       1299.99,
		Description: "Powerful laptop with the latest processor, stunning display, and all-day battery. Perfect for work and creativity.",
		Category:    "Computers",
		Image:       "/assets/product-laptop.jpg",
		Rating:      4.9,
		Stock:       18,
	},
	{
		ID:          "4",
		Name:        "Wireless Earbuds",
		Price:       149.99,
		Description: "Compact wireless earbuds with crystal clear sound and comfortable fit. Includes charging case.",
		Category:    "Audio",
		Image:       "/assets/product-earbuds.jpg",
		Rating:      4.5,
		Stock:       67,
	},
	{
		ID:          "5",
		Name:        "Professional Camera",
		Price:       1899.99,
		Description: "Professional-grade camera with high resolution sensor and advanced features for photographers.",
		Category:    "Photography",
		Image:       "/assets/product-camera.jpg",
		Rating:      4.9,
		Stock:       12,
	},
	{
		ID:          "6",
		Name:        "RGB Gaming Keyboard",
		Price:       179.99,
		Description: "Mechanical gaming keyboard with customizable RGB lighting and responsive keys. Perfect for gamers.",
		Category:    "Gaming",
		Image:       "/assets/product-keyboard.jpg",
		Rating:      4.7,
		Stock:       41,
	},
	{
		ID:          "7",
		Name:        "Premium Smartphone",
		Price:       999.99,
		Description: "Latest smartphone with advanced camera system, powerful processor, and elegant design.",
		Category:    "Mobile",
		Image:       "/assets/product-smartphone.jpg",
		Rating:      4.8,
		Stock:       28,
	},
	{
		ID:          "8",
		Name:        "Professional Tablet",
		Price:       799.99,
		Description: "High-performance tablet with stylus support, perfect for creativity and productivity on the go.",
		Category:    "Tablets",
		Image:       "/assets/product-tablet.jpg",
		Rating:      4.7,
		Stock:       35,
	},
}
