package handlers

import (
	"log/slog"
	"net/http"
)

// MyOrders lists the signed-in customer's orders. Guests are sent to /login.
func (h *ShopHandler) MyOrders(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)

	userID := currentUserID(session)
	if userID == nil {
		h.flash(session, FlashInfo, "Please log in to see your orders.")
		h.redirect(w, r, session, "/login")
		return
	}

	orders, err := h.Store.ListOrdersByUser(r.Context(), *userID)
	if err != nil {
		slog.Error("Failed to list orders", "user_id", *userID, "error", err)
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	h.render(w, r, session, "orders.html", map[string]interface{}{
		"Orders": orders,
	})
}
