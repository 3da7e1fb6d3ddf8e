package command

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/user/domain"
	"github.com/tair/retail-pos/pkg/auth"
	"github.com/tair/retail-pos/pkg/logger"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// TokenIssuer signs access tokens for an owner
type TokenIssuer interface {
	GenerateToken(ownerID uuid.UUID, email string) (string, error)
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Email           string
	Password        string
	ConfirmPassword string // optional; checked when set
	FullName        string
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository, tokens TokenIssuer) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo, tokens: tokens}
}

// Handle creates the account and signs the new owner in
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*AuthResponse, error) {
	email := normalizeEmail(cmd.Email)
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	if len(cmd.Password) < domain.MinPasswordLength {
		return nil, domain.ErrWeakPassword
	}
	if cmd.ConfirmPassword != "" && cmd.ConfirmPassword != cmd.Password {
		return nil, domain.ErrPasswordMismatch
	}

	existing, err := h.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return nil, domain.ErrEmailTaken
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, err
	}

	hashed, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:    email,
		Password: hashed,
		FullName: strings.TrimSpace(cmd.FullName),
	}
	if err := h.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx).Str("user_id", user.ID.String()).Msg("User registered")

	return issue(h.tokens, user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func issue(tokens TokenIssuer, user *domain.User) (*AuthResponse, error) {
	token, err := tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResponse{Token: token, User: user}, nil
}
