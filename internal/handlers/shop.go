package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"github.com/alextreichler/shopfront/internal/cart"
	"github.com/alextreichler/shopfront/internal/store"
)

const sessionName = "shop-session"

// Session keys.
const (
	keyUserID   = "user_id"
	keyUsername = "username"
	keyCart     = "cart"
)

type ShopHandler struct {
	Store        *store.Store
	SessionStore sessions.Store
	Templates    *TemplateCache
}

// Routes registers every storefront route on mux. registerLimiter throttles
// POST /register and may be nil.
func (h *ShopHandler) Routes(mux *http.ServeMux, registerLimiter *RateLimiter) {
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /category/{name}", h.Category)

	mux.HandleFunc("GET /register", h.RegisterGet)
	mux.HandleFunc("POST /register", registerLimiter.Middleware(h.RegisterPost))
	mux.HandleFunc("GET /login", h.LoginGet)
	mux.HandleFunc("POST /login", h.LoginPost)
	mux.HandleFunc("GET /logout", h.Logout)

	mux.HandleFunc("GET /add_to_cart/{id}", h.AddToCart)
	mux.HandleFunc("GET /cart", h.ViewCart)
	mux.HandleFunc("GET /remove_from_cart/{id}", h.RemoveFromCart)

	mux.HandleFunc("GET /checkout", h.Checkout)
	mux.HandleFunc("POST /process_payment", h.ProcessPayment)
	mux.HandleFunc("GET /orders", h.MyOrders)
}

// session returns the shop session. A cookie that no longer decodes (for
// example after a key rotation) yields a fresh session.
func (h *ShopHandler) session(r *http.Request) *sessions.Session {
	session, err := h.SessionStore.Get(r, sessionName)
	if err != nil {
		slog.Debug("Discarding undecodable session", "error", err)
	}
	return session
}

// redirect saves session, then redirects with 303.
func (h *ShopHandler) redirect(w http.ResponseWriter, r *http.Request, session *sessions.Session, url string) {
	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func (h *ShopHandler) flash(session *sessions.Session, kind, msg string) {
	session.AddFlash(FlashMessage{Type: kind, Message: msg})
}

// render fills the layout data shared by every page, consumes pending flashes
// and writes page.
func (h *ShopHandler) render(w http.ResponseWriter, r *http.Request, session *sessions.Session, page string, data map[string]interface{}) {
	if data == nil {
		data = make(map[string]interface{})
	}
	categories, err := h.Store.Categories(r.Context())
	if err != nil {
		slog.Error("Failed to list categories", "error", err)
	}
	username, _ := session.Values[keyUsername].(string)

	data["Flashes"] = GetFlash(session)
	data["CsrfField"] = csrf.TemplateField(r)
	data["Username"] = username
	data["CartCount"] = cartFrom(session).Count()
	data["Categories"] = categories

	if err := session.Save(r, w); err != nil {
		slog.Error("Failed to save session", "error", err)
	}
	if err := h.Templates.Render(w, page, data); err != nil {
		slog.Error("Failed to render page", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func cartFrom(session *sessions.Session) cart.Cart {
	c, _ := session.Values[keyCart].(cart.Cart)
	return c
}

// currentUserID returns nil for anonymous visitors.
func currentUserID(session *sessions.Session) *uint {
	id, ok := session.Values[keyUserID].(uint)
	if !ok {
		return nil
	}
	return &id
}

// productID parses the {id} path segment. Non-numeric ids are not routes.
func productID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 0)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
