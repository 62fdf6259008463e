package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/alextreichler/shopfront/internal/cart"
	"github.com/alextreichler/shopfront/internal/models"
)

type PaymentMethod struct {
	Value string
	Label string
}

// PaymentMethods are labels only; no payment is taken.
var PaymentMethods = []PaymentMethod{
	{Value: "cod", Label: "Cash on delivery"},
	{Value: "bank_transfer", Label: "Bank transfer"},
	{Value: "card", Label: "Credit card"},
}

func validPaymentMethod(v string) bool {
	for _, m := range PaymentMethods {
		if m.Value == v {
			return true
		}
	}
	return false
}

func (h *ShopHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	c := cartFrom(session)
	if c.Empty() {
		h.flash(session, FlashInfo, "Your cart is empty.")
		h.redirect(w, r, session, "/")
		return
	}

	h.render(w, r, session, "checkout.html", map[string]interface{}{
		"Cart":           c,
		"Total":          c.Total(),
		"PaymentMethods": PaymentMethods,
	})
}

func (h *ShopHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	c := cartFrom(session)
	if c.Empty() {
		h.flash(session, FlashInfo, "Your cart is empty.")
		h.redirect(w, r, session, "/")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	address := strings.TrimSpace(r.FormValue("address"))
	phone := strings.TrimSpace(r.FormValue("phone"))
	method := r.FormValue("payment_method")

	// Validation
	var problems []string
	if name == "" {
		problems = append(problems, "Your name is required.")
	} else if utf8.RuneCountInString(name) > models.MaxNameLen {
		problems = append(problems, fmt.Sprintf("Your name must be at most %d characters.", models.MaxNameLen))
	}
	if address == "" {
		problems = append(problems, "Shipping address is required.")
	} else if utf8.RuneCountInString(address) > models.MaxAddressLen {
		problems = append(problems, fmt.Sprintf("Shipping address must be at most %d characters.", models.MaxAddressLen))
	}
	if phone == "" {
		problems = append(problems, "Phone number is required.")
	} else if utf8.RuneCountInString(phone) > models.MaxPhoneLen {
		problems = append(problems, fmt.Sprintf("Phone number must be at most %d characters.", models.MaxPhoneLen))
	}
	if !validPaymentMethod(method) {
		problems = append(problems, "Please choose a payment method.")
	}
	if len(problems) > 0 {
		for _, msg := range problems {
			h.flash(session, FlashDanger, msg)
		}
		h.redirect(w, r, session, "/checkout")
		return
	}

	order := &models.Order{
		UserID:        currentUserID(session),
		Name:          name,
		Address:       address,
		Phone:         phone,
		PaymentMethod: method,
		TotalPrice:    c.Total(),
		Items:         c.OrderItems(),
	}
	if err := h.Store.CreateOrder(r.Context(), order); err != nil {
		slog.Error("Failed to create order", "error", err)
		h.flash(session, FlashDanger, "Failed to place order. Please try again.")
		h.redirect(w, r, session, "/checkout")
		return
	}

	slog.Info("Order placed", "order_id", order.ID, "items", len(order.Items), "total", order.TotalPrice)
	session.Values[keyCart] = cart.Cart{}
	h.flash(session, FlashSuccess, "Payment successful! Your order is being processed.")
	h.redirect(w, r, session, "/")
}
