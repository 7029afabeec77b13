package handler

import (
	"net/http"

	"github.com/distrischool/identity/internal/api"
	"github.com/distrischool/identity/internal/domain"
	internal_errors "github.com/distrischool/identity/internal/errors"
	"github.com/distrischool/identity/internal/middleware"
	"github.com/distrischool/identity/internal/middleware/metrics"
)

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case internal_errors.IsConflict(err):
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeError
	}
}

func loginOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case internal_errors.IsUnauthorized(err):
		return metrics.OutcomeInvalidCredentials
	default:
		return metrics.OutcomeError
	}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	view, err := h.auth.Register(r.Context(), req.Email, req.Password, domain.Role(req.Role))
	metrics.RecordRegistration(registrationOutcome(err))
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	token, err := h.auth.Login(r.Context(), req.Email, req.Password)
	metrics.RecordLogin(loginOutcome(err))
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	// Cookie for browser clients, JSON body for everyone else.
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    token.Value,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, api.LoginResponse{AccessToken: token.Value})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.WriteHeader(http.StatusOK)
}

// Me returns the principal carried by the bearer token. It mostly exists so
// clients can check a token without decoding it themselves.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, api.MeResponse{Email: principal.Email, Role: string(principal.Role)})
}
