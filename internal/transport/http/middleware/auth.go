package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/contacts-api/internal/domain"
)

type contextKey string

const accountKey contextKey = "account"

// IdentityResolver turns a bearer token into the authenticated account.
type IdentityResolver interface {
	Resolve(ctx context.Context, bearer string) (*domain.Account, error)
}

// Auth returns middleware that resolves the Bearer token and injects the
// authenticated account into the request context. Token failures are 401;
// a valid token whose account has been deleted is 404, matching the
// distinction the resolver makes.
func Auth(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			bearer := strings.TrimPrefix(authHeader, "Bearer ")
			account, err := resolver.Resolve(r.Context(), bearer)
			if err != nil {
				if errors.Is(err, domain.ErrAccountNotFound) {
					writeJSONError(w, http.StatusNotFound, "account not found")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAccount(r.Context(), account)))
		})
	}
}

// WithAccount returns a context carrying the authenticated account.
func WithAccount(ctx context.Context, a *domain.Account) context.Context {
	return context.WithValue(ctx, accountKey, a)
}

// AccountFromContext extracts the authenticated account from the request context.
func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	a, ok := ctx.Value(accountKey).(*domain.Account)
	return a, ok
}
