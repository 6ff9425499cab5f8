package handler

import "github.com/msomdec/novacart/internal/domain"

// IdentityDTO is the JSON representation of the signed-in user.
type IdentityDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func toIdentityDTO(id domain.Identity) IdentityDTO {
	return IdentityDTO{ID: id.ID, Email: id.Email, Name: id.Name}
}

// ProductDTO is the JSON representation of a catalog product.
type ProductDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	Stock       int     `json:"stock"`
}

func toProductDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Image:       p.Image,
		Rating:      p.Rating,
		Stock:       p.Stock,
	}
}

func toProductDTOs(products []domain.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	return dtos
}

// LineItemDTO is the JSON representation of a cart line.
type LineItemDTO struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CartDTO is the JSON representation of a cart with its derived totals.
type CartDTO struct {
	Items      []LineItemDTO `json:"items"`
	TotalItems int           `json:"totalItems"`
	TotalPrice float64       `json:"totalPrice"`
}

func toCartDTO(c domain.Cart) CartDTO {
	items := make([]LineItemDTO, len(c.Items))
	for i, it := range c.Items {
		items[i] = LineItemDTO{
			ID:       it.ID,
			Name:     it.Name,
			Price:    it.Price,
			Image:    it.Image,
			Quantity: it.Quantity,
			Subtotal: it.Subtotal(),
		}
	}
	return CartDTO{
		Items:      items,
		TotalItems: c.TotalItems(),
		TotalPrice: c.TotalPrice(),
	}
}
