package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/retail-pos/internal/user/domain"
	"github.com/tair/retail-pos/internal/user/usertest"
	"github.com/tair/retail-pos/pkg/auth"
)

func newTokens() *auth.TokenManager {
	return auth.NewTokenManager("test-secret", time.Hour, "pos-service")
}

func TestRegisterUser(t *testing.T) {
	repo := usertest.NewRepository()
	tokens := newTokens()
	h := NewRegisterUserHandler(repo, tokens)

	res, err := h.Handle(context.Background(), RegisterUserCommand{
		Email:           "  Shop@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		FullName:        "Asha Traders",
	})
	require.NoError(t, err)

	assert.Equal(t, "shop@example.com", res.User.Email)
	assert.NotEqual(t, "secret1", res.User.Password)
	assert.True(t, auth.CheckPassword(res.User.Password, "secret1"))

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.OwnerID)
}

func TestRegisterUser_Rejections(t *testing.T) {
	repo := usertest.NewRepository()
	h := NewRegisterUserHandler(repo, newTokens())
	_, err := h.Handle(context.Background(), RegisterUserCommand{Email: "taken@example.com", Password: "secret1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		cmd  RegisterUserCommand
		want error
	}{
		{"bad email", RegisterUserCommand{Email: "not-an-email", Password: "secret1"}, domain.ErrInvalidEmail},
		{"short password", RegisterUserCommand{Email: "a@b.co", Password: "12345"}, domain.ErrWeakPassword},
		{"mismatch", RegisterUserCommand{Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret2"}, domain.ErrPasswordMismatch},
		{"taken", RegisterUserCommand{Email: "TAKEN@example.com", Password: "secret1"}, domain.ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoginUser(t *testing.T) {
	repo := usertest.NewRepository()
	tokens := newTokens()
	registered, err := NewRegisterUserHandler(repo, tokens).Handle(context.Background(), RegisterUserCommand{
		Email: "shop@example.com", Password: "secret1",
	})
	require.NoError(t, err)
	h := NewLoginUserHandler(repo, tokens)

	res, err := h.Handle(context.Background(), LoginUserCommand{Email: "Shop@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, res.User.ID)
	assert.NotEmpty(t, res.Token)

	_, err = h.Handle(context.Background(), LoginUserCommand{Email: "shop@example.com", Password: "wrong-one"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = h.Handle(context.Background(), LoginUserCommand{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = h.Handle(context.Background(), LoginUserCommand{Email: "nobody", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestLoginUser_RepositoryFailure(t *testing.T) {
	repo := usertest.NewRepository()
	repo.Err = errors.New("db down")
	h := NewLoginUserHandler(repo, newTokens())

	_, err := h.Handle(context.Background(), LoginUserCommand{Email: "shop@example.com", Password: "secret1"})
	assert.EqualError(t, err, "db down")
}
