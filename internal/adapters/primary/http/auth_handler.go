package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/otavioq/ticket-metrics-backend/internal/adapters/primary/validation"
	"github.com/otavioq/ticket-metrics-backend/internal/core/ports"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService  ports.AuthService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService ports.AuthService, errorHandler *ErrorHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterRoutes sets up the routing for the auth endpoints.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

// LoginRequest defines the expected JSON body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate validates the login request
func (r *LoginRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("username", r.Username)
	v.Required("password", r.Password)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TokenResponse carries the signed access token
type TokenResponse struct {
	Token string `json:"token"`
}

// HandleLogin authenticates the admin user and returns a JWT
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	// 1. Decode and validate the request body
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}
	if err := req.Validate(); HandleError(w, r, err, h.errorHandler) {
		return
	}

	// 2. Authenticate via the core service
	token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if HandleError(w, r, err, h.errorHandler) {
		return
	}

	// 3. Send the token
	WriteJSON(w, http.StatusOK, TokenResponse{Token: token})
}
