package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

type homeView struct {
	Flash            *flashMessage
	User             *core.User
	TransactionCount int64
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	view := homeView{Flash: popFlash(w, r)}

	// The home page renders for anonymous visitors too.
	if userID, err := s.sessions.Verify(w, r); err == nil {
		user, err := s.users.GetUserByID(r.Context(), userID)
		if err == nil {
			view.User = &user
			count, err := s.txs.CountTransactions(r.Context(), userID)
			if err != nil {
				slog.ErrorContext(r.Context(), "Count transactions failed", "error", err, "user_id", userID)
			}
			view.TransactionCount = count
		}
	}

	s.render(w, r, "home.html", view)
}

type authFormView struct {
	Flash *flashMessage
	Email string
	Name  string
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, r, "register.html", authFormView{Flash: popFlash(w, r)})
		return
	}

	if err := r.ParseForm(); err != nil {
		setFlash(w, flashDanger, "Invalid form submission.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	name := sanitizeInput(r.Form.Get("name"))
	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")
	confirm := r.Form.Get("confirm_password")

	if email == "" || password == "" {
		setFlash(w, flashDanger, "Email and password are required.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	if password != confirm {
		setFlash(w, flashDanger, "Passwords do not match. Please try again.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.ErrorContext(r.Context(), "Password hashing failed", "error", err)
		setFlash(w, flashDanger, "Registration failed. Please try again.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	userID, err := s.users.CreateUser(r.Context(), name, email, hash)
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			setFlash(w, flashWarning, "Email already registered. Please login.")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		slog.ErrorContext(r.Context(), "User creation failed", "error", err)
		setFlash(w, flashDanger, "Registration failed. Please try again.")
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	// Log the new user in immediately.
	if err := s.sessions.Issue(w, userID); err != nil {
		slog.ErrorContext(r.Context(), "Session issue failed", "error", err, "user_id", userID)
	}
	setFlash(w, flashSuccess, "Registration successful! You are now logged in.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.render(w, r, "login.html", authFormView{Flash: popFlash(w, r)})
		return
	}

	if err := r.ParseForm(); err != nil {
		setFlash(w, flashDanger, "Invalid form submission.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	email := sanitizeInput(r.Form.Get("email"))
	password := r.Form.Get("password")

	user, err := s.users.GetUserByEmail(r.Context(), email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, password) {
		// Same message whether the email or the password is wrong.
		flash := &flashMessage{Category: flashDanger, Text: "Invalid email or password"}
		s.render(w, r, "login.html", authFormView{Flash: flash, Email: email})
		return
	}

	if err := s.sessions.Issue(w, user.ID); err != nil {
		slog.ErrorContext(r.Context(), "Session issue failed", "error", err, "user_id", user.ID)
		setFlash(w, flashDanger, "Login failed. Please try again.")
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	setFlash(w, flashSuccess, "Login successful!")

	// Returning users land on the dashboard, new users on home.
	count, err := s.txs.CountTransactions(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Count transactions failed", "error", err, "user_id", user.ID)
	}
	if count == 0 {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	setFlash(w, flashSuccess, "You have been logged out.")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
