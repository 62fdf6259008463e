package handlers

import (
	"log/slog"
	"net/http"
)

func (h *ShopHandler) Index(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		slog.Error("Failed to list products", "error", err)
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	h.render(w, r, h.session(r), "index.html", map[string]interface{}{
		"Products": products,
	})
}

func (h *ShopHandler) Category(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	products, err := h.Store.ListProductsByCategory(r.Context(), name)
	if err != nil {
		slog.Error("Failed to list products", "category", name, "error", err)
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	h.render(w, r, h.session(r), "category.html", map[string]interface{}{
		"Products":     products,
		"CategoryName": name,
	})
}
