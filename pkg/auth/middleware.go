package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/pkg/logger"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// ContextWithClaims stores validated claims on ctx
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFromContext returns the claims stored by Middleware
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

// OwnerIDFromContext returns the authenticated owner, or uuid.Nil
func OwnerIDFromContext(ctx context.Context) uuid.UUID {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.OwnerID
	}
	return uuid.Nil
}

// Middleware rejects requests without a valid bearer token and stores the claims in the request context
func (m *TokenManager) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			logger.Warn(ctx).Msg("Missing authorization header")
			unauthorized(w, "Authorization header required")
			return
		}

		scheme, token, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			logger.Warn(ctx).Msg("Invalid authorization header format")
			unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.ValidateToken(token)
		if err != nil {
			logger.Warn(ctx).Err(err).Msg("Invalid token")
			unauthorized(w, "Invalid or expired token")
			return
		}

		logger.Debug(ctx).
			Str("owner_id", claims.OwnerID.String()).
			Msg("Request authenticated")

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(ctx, claims)))
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
