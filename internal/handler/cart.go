package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/novacart/internal/catalog"
	"github.com/msomdec/novacart/internal/service"
)

// CartHandler dispatches cart operations for the browser's cart.
type CartHandler struct {
	catalog *catalog.Catalog
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(c *catalog.Catalog) *CartHandler {
	return &CartHandler{catalog: c}
}

// HandleGet returns the cart.
// GET /api/cart
func (h *CartHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeCart(w, WorkspaceFromContext(r.Context()).Cart)
}

// HandleAdd adds one unit of a catalog product.
// POST /api/cart/items
// Request: {"productId":"..."}
func (h *CartHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	p, ok := h.catalog.Find(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, "Product not found.")
		return
	}

	cart := WorkspaceFromContext(r.Context()).Cart
	if err := cart.AddToCart(r.Context(), p.Ref()); err != nil {
		slog.Error("add to cart", "product_id", p.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	writeCart(w, cart)
}

// HandleUpdate sets a line's quantity; zero or less removes it.
// PATCH /api/cart/items/{id}
// Request: {"quantity":3}
func (h *CartHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := readJSON(w, r, &req); err != nil || req.Quantity == nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	cart := WorkspaceFromContext(r.Context()).Cart
	if err := cart.UpdateQuantity(r.Context(), r.PathValue("id"), *req.Quantity); err != nil {
		slog.Error("update cart quantity", "product_id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	writeCart(w, cart)
}

// HandleRemove drops a line from the cart.
// DELETE /api/cart/items/{id}
func (h *CartHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	cart := WorkspaceFromContext(r.Context()).Cart
	if err := cart.RemoveFromCart(r.Context(), r.PathValue("id")); err != nil {
		slog.Error("remove from cart", "product_id", r.PathValue("id"), "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	writeCart(w, cart)
}

// HandleClear empties the cart.
// DELETE /api/cart
func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	cart := WorkspaceFromContext(r.Context()).Cart
	if err := cart.Clear(r.Context()); err != nil {
		slog.Error("clear cart", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}
	writeCart(w, cart)
}

func writeCart(w http.ResponseWriter, cart *service.CartStore) {
	writeJSON(w, http.StatusOK, map[string]any{
		"cart": toCartDTO(cart.Snapshot()),
	})
}
