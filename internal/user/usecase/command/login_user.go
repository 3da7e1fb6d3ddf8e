package command

import (
	"context"
	"errors"

	"github.com/tair/retail-pos/internal/user/domain"
	"github.com/tair/retail-pos/pkg/auth"
)

// LoginUserCommand represents the command to login a user
type LoginUserCommand struct {
	Email    string
	Password string
}

// LoginUserHandler handles user login command
type LoginUserHandler struct {
	repo   domain.UserRepository
	tokens TokenIssuer
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository, tokens TokenIssuer) *LoginUserHandler {
	return &LoginUserHandler{repo: repo, tokens: tokens}
}

// Handle executes the login user command. Unknown email and wrong password fail alike.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*AuthResponse, error) {
	email := normalizeEmail(cmd.Email)
	if !emailPattern.MatchString(email) {
		return nil, domain.ErrInvalidEmail
	}
	if cmd.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := h.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	return issue(h.tokens, user)
}
