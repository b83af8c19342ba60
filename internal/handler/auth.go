package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Briancute/local-lead-finder/internal/auth"
	"github.com/Briancute/local-lead-finder/internal/handler/dto"
	"github.com/Briancute/local-lead-finder/internal/service"
)

// AuthHandler handles account registration, login and profile requests.
type AuthHandler struct {
	service *service.AuthService
	responder
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger, isDevelopment bool) *AuthHandler {
	return &AuthHandler{
		service:   svc,
		responder: responder{logger: logger, exposeErrors: isDevelopment},
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeBadJSON(w, err)
		return
	}

	result, err := h.service.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.handleServiceError(w, r, err, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Message: "User created successfully",
		Token:   result.Token,
		User:    dto.ToUserResponse(result.User),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		h.writeBadJSON(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			h.writeError(w, http.StatusBadRequest, "Missing credentials", "Email and password are required")
			return
		}
		h.handleServiceError(w, r, err, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{
		Message: "Login successful",
		Token:   result.Token,
		User:    dto.ToUserResponse(result.User),
	})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.handleServiceError(w, r, err, "Failed to get user")
		return
	}
	writeJSON(w, http.StatusOK, dto.MeResponse{User: dto.ToUserResponse(user)})
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		h.writeError(w, http.StatusBadRequest, "Missing required fields", "Name, email, and password are required")
	case errors.Is(err, service.ErrPasswordTooShort):
		h.writeError(w, http.StatusBadRequest, "Invalid password", "Password must be at least 6 characters")
	case errors.Is(err, service.ErrInvalidEmail):
		h.writeError(w, http.StatusBadRequest, "Invalid email", "Email address is not valid")
	case errors.Is(err, service.ErrEmailExists):
		h.writeError(w, http.StatusConflict, "User exists", "Email already registered")
	case errors.Is(err, service.ErrInvalidCredentials):
		h.writeError(w, http.StatusUnauthorized, "Invalid credentials", "Email or password is incorrect")
	case errors.Is(err, service.ErrUserNotFound):
		h.writeError(w, http.StatusNotFound, "User not found", "")
	default:
		h.internalError(w, r, fallback, err)
	}
}
