package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/auth"
	"github.com/tair/eco-catalog/pkg/logger"
	"github.com/tair/eco-catalog/pkg/respond"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	EmailKey  contextKey = "email"
	TokenKey  contextKey = "token"
)

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticator resolves the caller identity from the Authorization header.
type Authenticator struct {
	tokens TokenValidator
}

func NewAuthenticator(tokens TokenValidator) *Authenticator {
	return &Authenticator{tokens: tokens}
}

// Require rejects requests without a valid bearer token.
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respond.Error(w, r, apperror.Unauthorized("Authorization header required"))
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			respond.Error(w, r, apperror.Unauthorized("Invalid authorization header format"))
			return
		}

		claims, err := a.tokens.ValidateToken(token)
		if err != nil {
			respond.Error(w, r, apperror.Unauthorized("Invalid token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), token, claims)))
	}
}

// Optional attaches the identity when a valid token is present and
// otherwise serves the request anonymously.
func (a *Authenticator) Optional(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token, ok := bearerToken(r.Header.Get("Authorization")); ok {
			claims, err := a.tokens.ValidateToken(token)
			if err == nil {
				logger.Debug(r.Context()).
					Uint("user_id", claims.UserID).
					Msg("Optional auth: User identified")
				r = r.WithContext(withClaims(r.Context(), token, claims))
			}
		}

		next.ServeHTTP(w, r)
	}
}

// ContextWithUserID stores a trusted user id.
func ContextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext returns the authenticated user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok && id != 0
}

// ContextWithToken stores the raw bearer token of the caller.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}

// TokenFromContext returns the bearer token the caller authenticated with,
// for forwarding to downstream services.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok && token != ""
}

func withClaims(ctx context.Context, token string, claims *auth.Claims) context.Context {
	ctx = ContextWithUserID(ctx, claims.UserID)
	ctx = ContextWithToken(ctx, token)
	return context.WithValue(ctx, EmailKey, claims.Email)
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
