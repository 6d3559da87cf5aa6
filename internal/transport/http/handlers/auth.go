package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/contacthub/contacthub/internal/application/auth"
	"github.com/contacthub/contacthub/internal/domain"
	"github.com/contacthub/contacthub/internal/logger"
	"github.com/contacthub/contacthub/internal/metrics"
	"github.com/contacthub/contacthub/internal/transport/http/dto"
	"github.com/contacthub/contacthub/internal/transport/http/middleware"
	"github.com/contacthub/contacthub/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	metrics.RecordSignup()
	logger.WithCtx(r.Context()).Info().
		Int64("user_id", u.ID).
		Msg("user signed up")

	response.Created(w, dto.SignupData{
		User:   dto.NewUserView(u),
		Detail: "User successfully created. Check your email for confirmation.",
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	toks, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		metrics.RecordLogin(false)
		response.WriteError(w, r, err)
		return
	}

	metrics.RecordLogin(true)
	response.OK(w, dto.NewTokenPairView(toks))
}

// Refresh handles GET /api/auth/refresh_token. The bearer token on this
// route is the refresh token, not an access token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw, err := middleware.BearerToken(r)
	if err != nil {
		response.WriteError(w, r, domain.ErrRefreshTokenInvalid())
		return
	}

	toks, err := h.svc.Refresh(r.Context(), raw)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	metrics.RecordTokenRefresh()
	response.OK(w, dto.NewTokenPairView(toks))
}

// Logout handles POST /api/auth/logout. Revokes the stored refresh token;
// the access token stays valid until it expires.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenInvalid())
		return
	}

	if err := h.svc.Logout(r.Context(), u); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusResponse{Message: "Logged out"})
}

// ConfirmEmail handles GET /api/auth/confirmed_email/{token}.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	if err := h.svc.ConfirmEmail(r.Context(), token); err != nil {
		response.WriteError(w, r, err)
		return
	}

	metrics.RecordEmailVerification()
	response.OK(w, dto.StatusResponse{Message: "Email confirmed"})
}

// RequestEmail handles POST /api/auth/request_email. Always answers the
// same way so it cannot be used to enumerate accounts.
func (h *AuthHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestEmailRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.svc.RequestVerification(r.Context(), req.Email); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.StatusResponse{Message: "Check your email for confirmation."})
}
