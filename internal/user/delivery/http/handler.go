package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/retail-pos/internal/user/domain"
	"github.com/tair/retail-pos/internal/user/usecase/command"
	"github.com/tair/retail-pos/internal/user/usecase/query"
	"github.com/tair/retail-pos/pkg/auth"
	"github.com/tair/retail-pos/pkg/logger"
	"github.com/tair/retail-pos/pkg/metrics"
	"github.com/tair/retail-pos/pkg/ratelimit"
)

// UserHandler handles the account endpoints
type UserHandler struct {
	registerHandler *command.RegisterUserHandler
	loginHandler    *command.LoginUserHandler
	getUserHandler  *query.GetUserHandler

	tokens  *auth.TokenManager
	limiter *ratelimit.Limiter
	metrics *metrics.HTTPMetrics
}

// NewUserHandler creates a new user handler. limiter may be nil.
func NewUserHandler(
	registerHandler *command.RegisterUserHandler,
	loginHandler *command.LoginUserHandler,
	getUserHandler *query.GetUserHandler,
	tokens *auth.TokenManager,
	limiter *ratelimit.Limiter,
	httpMetrics *metrics.HTTPMetrics,
) *UserHandler {
	return &UserHandler{
		registerHandler: registerHandler,
		loginHandler:    loginHandler,
		getUserHandler:  getUserHandler,
		tokens:          tokens,
		limiter:         limiter,
		metrics:         httpMetrics,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type credentialsRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password,omitempty"`
	FullName        string `json:"full_name,omitempty"`
}

// Register godoc
// @Summary Register a shop owner
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Account data"
// @Success 201 {object} Response{data=command.AuthResponse}
// @Failure 400 {object} Response
// @Failure 409 {object} Response
// @Failure 429 {object} Response
// @Router /auth/register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	res, err := h.registerHandler.Handle(r.Context(), command.RegisterUserCommand{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FullName:        req.FullName,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Account created successfully",
		Data:    res,
	})
}

// Login godoc
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "Credentials"
// @Success 200 {object} Response{data=command.AuthResponse}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Failure 429 {object} Response
// @Router /auth/login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	res, err := h.loginHandler.Handle(r.Context(), command.LoginUserCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: res})
}

// Me godoc
// @Summary Current account
// @Tags Auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response{data=domain.User}
// @Failure 401 {object} Response
// @Failure 404 {object} Response
// @Router /auth/me [get]
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.getUserHandler.Handle(r.Context(), query.GetUserQuery{ID: auth.OwnerIDFromContext(r.Context())})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: user})
}

// RegisterRoutes registers the account routes; register and login are rate limited
func (h *UserHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/auth/register", h.metrics.Wrap("/auth/register", h.limiter.Middleware(h.Register))).Methods("POST")
	router.HandleFunc("/auth/login", h.metrics.Wrap("/auth/login", h.limiter.Middleware(h.Login))).Methods("POST")
	router.HandleFunc("/auth/me", h.metrics.Wrap("/auth/me", h.tokens.Middleware(h.Me))).Methods("GET")
}

func (h *UserHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrPasswordMismatch):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrEmailTaken):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		status, message = http.StatusNotFound, err.Error()
	}

	event := logger.Warn(r.Context())
	if status >= http.StatusInternalServerError {
		event = logger.Error(r.Context())
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Auth request failed")

	respondJSON(w, status, Response{Success: false, Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
