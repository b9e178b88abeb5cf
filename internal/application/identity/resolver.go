package identity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/contacts-api/internal/domain"
	"github.com/contacts-api/internal/infrastructure/token"
)

type accountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
}

type tokenValidator interface {
	Validate(tokenStr, requiredType string) (*token.Claims, error)
}

// Resolver turns a bearer token into the authenticated account.
type Resolver struct {
	repo   accountStore
	tokens tokenValidator
}

func NewResolver(repo accountStore, tokens tokenValidator) *Resolver {
	return &Resolver{repo: repo, tokens: tokens}
}

// Resolve validates bearer as an access token and loads its account.
// Every token failure (bad signature, expired, wrong type) collapses into
// domain.ErrUnauthorized. A token that verifies but whose subject no longer
// exists yields domain.ErrAccountNotFound instead, so the two conditions
// stay apart in logs and responses.
func (r *Resolver) Resolve(ctx context.Context, bearer string) (*domain.Account, error) {
	claims, err := r.tokens.Validate(bearer, token.TypeAccess)
	if err != nil {
		slog.Debug("bearer token rejected", "err", err)
		return nil, fmt.Errorf("could not validate credentials: %w", domain.ErrUnauthorized)
	}
	a, err := r.repo.Get(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	return a, nil
}
