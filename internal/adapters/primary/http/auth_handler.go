package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ferren/application-rollup-backend/internal/adapters/primary/validation"
	"github.com/ferren/application-rollup-backend/internal/core/ports"
)

// AuthHandler handles dashboard login.
type AuthHandler struct {
	authService  ports.AuthService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService ports.AuthService, errorHandler *ErrorHandler, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "auth"),
	}
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

type LoginRequest struct {
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("password", r.Password)
	// bcrypt only reads the first 72 bytes; anything longer can never match.
	v.MaxLength("password", r.Password, 72)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

type LoginResponse struct {
	Token string `json:"token"`
}

// HandleLogin handles POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[LoginRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Password)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}
