package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/alextreichler/shopfront/internal/auth"
	"github.com/alextreichler/shopfront/internal/models"
	"github.com/alextreichler/shopfront/internal/store"
)

func (h *ShopHandler) RegisterGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.session(r), "register.html", nil)
}

func (h *ShopHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		h.flash(session, FlashDanger, "Username and password are required.")
		h.redirect(w, r, session, "/register")
		return
	}
	if utf8.RuneCountInString(username) > models.MaxUsernameLen {
		h.flash(session, FlashDanger, fmt.Sprintf("Username must be at most %d characters.", models.MaxUsernameLen))
		h.redirect(w, r, session, "/register")
		return
	}
	if len(password) > auth.MaxPasswordBytes {
		h.flash(session, FlashDanger, fmt.Sprintf("Password must be at most %d bytes.", auth.MaxPasswordBytes))
		h.redirect(w, r, session, "/register")
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	_, err = h.Store.CreateUser(r.Context(), username, hashed)
	if errors.Is(err, store.ErrUsernameTaken) {
		h.flash(session, FlashDanger, "Username already exists!")
		h.redirect(w, r, session, "/register")
		return
	}
	if err != nil {
		slog.Error("Failed to create user", "username", username, "error", err)
		h.flash(session, FlashDanger, "Internal Server Error")
		h.redirect(w, r, session, "/register")
		return
	}

	slog.Info("User registered", "username", username)
	h.flash(session, FlashSuccess, "Registration successful! Please log in.")
	h.redirect(w, r, session, "/login")
}

func (h *ShopHandler) LoginGet(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, h.session(r), "login.html", nil)
}

func (h *ShopHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := h.Store.GetUserByUsername(r.Context(), username)
	if err != nil {
		slog.Error("Failed to look up user", "username", username, "error", err)
		h.flash(session, FlashDanger, "Internal Server Error")
		h.redirect(w, r, session, "/login")
		return
	}

	if user == nil || auth.CheckPassword(user.PasswordHash, password) != nil {
		h.flash(session, FlashDanger, "Invalid username or password!")
		h.redirect(w, r, session, "/login")
		return
	}

	session.Values[keyUserID] = user.ID
	session.Values[keyUsername] = user.Username
	h.flash(session, FlashSuccess, "Logged in successfully!")

	slog.Info("Login successful", "user_id", user.ID)
	h.redirect(w, r, session, "/")
}

// Logout forgets the user but keeps the cart.
func (h *ShopHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.session(r)
	delete(session.Values, keyUserID)
	delete(session.Values, keyUsername)
	h.flash(session, FlashInfo, "You have been logged out.")
	h.redirect(w, r, session, "/login")
}
