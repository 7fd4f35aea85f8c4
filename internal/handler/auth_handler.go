package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"kiosk-auth/internal/service"
)

// AuthHandler handles HTTP requests for the kiosk auth flows.
type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Response is the standard API envelope.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

// RegisterRoutes mounts the auth endpoints on r.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/master-password", h.LoginMasterPassword)
	r.Post("/auth/pin", h.LoginPIN)
	r.Put("/auth/pin", h.SetPIN)
	r.Post("/support/master-password", h.GenerateSupportPassword)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type pinLoginRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

type setPINRequest struct {
	PIN string `json:"pin"`
}

type supportPasswordRequest struct {
	DeviceID string `json:"device_id"`
}

type lockoutPayload struct {
	RemainingMinutes int `json:"remaining_minutes"`
}

type rejectedPayload struct {
	RemainingAttempts int `json:"remaining_attempts"`
}

// LoginMasterPassword handles POST /auth/master-password.
func (h *AuthHandler) LoginMasterPassword(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.LoginMasterPassword(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, result, "login successful")
}

// LoginPIN handles POST /auth/pin, the recovery flow.
func (h *AuthHandler) LoginPIN(w http.ResponseWriter, r *http.Request) {
	var req pinLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.LoginPIN(r.Context(), req.Username, req.PIN)
	if err != nil {
		h.writeAuthError(w, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, result, "login successful")
}

// SetPIN handles PUT /auth/pin. Requires a valid session token; a recovery
// token is enough, since resetting the PIN is what recovery is for.
func (h *AuthHandler) SetPIN(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	var req setPINRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.authService.SetPIN(r.Context(), claims.Username, req.PIN); err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to set PIN", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to set PIN")
		return
	}

	h.writeSuccess(w, http.StatusOK, nil, "PIN updated")
}

// GenerateSupportPassword handles POST /support/master-password. Guarded by
// a full session token: only a logged-in admin (or the operator portal with
// one) can mint codes.
func (h *AuthHandler) GenerateSupportPassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authenticate(w, r)
	if !ok {
		return
	}
	if claims.Scope != service.ScopeSession {
		h.writeError(w, http.StatusForbidden, "recovery session cannot issue support passwords")
		return
	}

	var req supportPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.authService.GenerateSupportPassword(r.Context(), req.DeviceID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to generate support password", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "failed to generate password")
		return
	}

	h.writeSuccess(w, http.StatusOK, result, "password generated")
}

func (h *AuthHandler) authenticate(w http.ResponseWriter, r *http.Request) (*service.SessionClaims, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		h.writeError(w, http.StatusUnauthorized, "missing bearer token")
		return nil, false
	}

	claims, err := h.authService.ParseToken(token)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "invalid session token")
		return nil, false
	}
	return claims, true
}

// writeAuthError maps service-level auth failures onto HTTP statuses:
// 423 for lockout, 401 for rejection, 400 for malformed input.
func (h *AuthHandler) writeAuthError(w http.ResponseWriter, err error) {
	var locked *service.LockoutError
	if errors.As(err, &locked) {
		h.writeJSON(w, http.StatusLocked, Response{
			Success: false,
			Error:   "account locked",
			Data:    lockoutPayload{RemainingMinutes: locked.RemainingMinutes},
		})
		return
	}

	var rejected *service.CredentialsError
	if errors.As(err, &rejected) {
		h.writeJSON(w, http.StatusUnauthorized, Response{
			Success: false,
			Error:   "invalid credentials",
			Data:    rejectedPayload{RemainingAttempts: rejected.RemainingAttempts},
		})
		return
	}

	if errors.Is(err, service.ErrInvalidInput) {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.logger.Error("login failed unexpectedly", zap.Error(err))
	h.writeError(w, http.StatusInternalServerError, "internal error")
}

func (h *AuthHandler) writeSuccess(w http.ResponseWriter, status int, data interface{}, message string) {
	h.writeJSON(w, status, Response{
		Success: true,
		Data:    data,
		Message: message,
	})
}

func (h *AuthHandler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, Response{
		Success: false,
		Error:   message,
	})
}

func (h *AuthHandler) writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}
