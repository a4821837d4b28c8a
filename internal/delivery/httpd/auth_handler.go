package httpd

import (
	"net/http"

	"github.com/mkravets/eduline/internal/middleware"
	"github.com/mkravets/eduline/internal/models"
)

func (h *Handler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	if user := middleware.UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, middleware.DashboardPath(user), http.StatusSeeOther)
		return
	}
	h.renderer.HTML(w, http.StatusOK, "login.html", h.page(r, "Sign in", nil))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, "/login", "Invalid form data")
		return
	}

	req := &models.LoginRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	}

	if err := h.validate.Struct(req); err != nil {
		h.redirectError(w, r, "/login", "Please enter a valid email and password")
		return
	}

	user, session, err := h.authService.Login(r.Context(), req)
	if err != nil {
		h.handleServiceError(w, r, err, "/login")
		return
	}

	middleware.WriteSessionCookie(w, h.sessionCfg, session.Token, h.secureCookies)
	http.Redirect(w, r, middleware.DashboardPath(user), http.StatusSeeOther)
}

func (h *Handler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	if user := middleware.UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, middleware.DashboardPath(user), http.StatusSeeOther)
		return
	}
	h.renderer.HTML(w, http.StatusOK, "register.html", h.page(r, "Register", nil))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectError(w, r, "/register", "Invalid form data")
		return
	}

	req := &models.RegisterRequest{
		Name:     r.FormValue("name"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}

	if err := h.validate.Struct(req); err != nil {
		h.redirectError(w, r, "/register", "Please fill in all fields; passwords need at least 8 characters")
		return
	}

	if _, err := h.authService.Register(r.Context(), req); err != nil {
		h.handleServiceError(w, r, err, "/register")
		return
	}

	h.redirectSuccess(w, r, "/login", "Account created, you can sign in now")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromContext(r.Context())
	if token != "" {
		if err := h.authService.Logout(r.Context(), token); err != nil {
			h.logger.Error().Err(err).Msg("Failed to delete session")
		}
	}

	middleware.ExpireSessionCookie(w, h.sessionCfg, h.secureCookies)
	h.redirectSuccess(w, r, "/login", "Signed out")
}
