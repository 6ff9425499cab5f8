package handler

import (
	"net/http"

	"github.com/msomdec/novacart/internal/catalog"
)

// ProductHandler serves the static catalog.
type ProductHandler struct {
	catalog *catalog.Catalog
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(c *catalog.Catalog) *ProductHandler {
	return &ProductHandler{catalog: c}
}

// HandleList returns the catalog, filtered by the q query parameter.
// GET /api/products?q=audio
func (h *ProductHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Search(r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]any{
		"products": toProductDTOs(products),
	})
}

// HandleGet returns one product.
// GET /api/products/{id}
func (h *ProductHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	p, ok := h.catalog.Find(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"product": toProductDTO(p),
	})
}
