package handlers

import (
	"log/slog"
	"net/http"

	"github.com/alextreichler/shopfront/internal/cart"
)

func (h *ShopHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	session := h.session(r)

	product, err := h.Store.GetProduct(r.Context(), id)
	if err != nil {
		slog.Error("Failed to load product", "product_id", id, "error", err)
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}
	if product == nil {
		h.flash(session, FlashDanger, "Product does not exist.")
		h.redirect(w, r, session, "/")
		return
	}

	session.Values[keyCart] = cartFrom(session).Add(*product)
	h.flash(session, FlashSuccess, product.Name+" added to cart.")
	h.redirect(w, r, session, "/")
}

func (h *ShopHandler) ViewCart(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	c := cartFrom(session)
	if c.Empty() {
		h.flash(session, FlashInfo, "Your cart is empty.")
		h.redirect(w, r, session, "/")
		return
	}

	h.render(w, r, session, "cart.html", map[string]interface{}{
		"Cart":  c,
		"Total": c.Total(),
	})
}

func (h *ShopHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	session := h.session(r)

	if c, ok := session.Values[keyCart].(cart.Cart); ok {
		session.Values[keyCart] = c.Remove(id)
		h.flash(session, FlashSuccess, "Product removed from cart.")
	}
	h.redirect(w, r, session, "/cart")
}
