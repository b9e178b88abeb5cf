package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/contacts-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Token types carried in the "type" claim. Access and refresh tokens share
// one signing secret; the claim is what keeps one from being replayed as the
// other.
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims holds the JWT payload fields.
type Claims struct {
	TokenType string `json:"type"`
	Email     string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a process-wide symmetric secret.
type Provider struct {
	secret          []byte
	accessTTL       time.Duration
	refreshTTL      time.Duration
	verificationTTL time.Duration
}

func NewProvider(secret string, accessTTL, refreshTTL, verificationTTL time.Duration) (*Provider, error) {
	if secret == "" {
		return nil, errors.New("signing secret is empty")
	}
	return &Provider{
		secret:          []byte(secret),
		accessTTL:       accessTTL,
		refreshTTL:      refreshTTL,
		verificationTTL: verificationTTL,
	}, nil
}

// IssueAccess returns a short-lived access token for the given account id.
func (p *Provider) IssueAccess(subject string) (string, error) {
	return p.sign(subject, TypeAccess, "", p.accessTTL)
}

// IssueRefresh returns a longer-lived refresh token for the given account id.
func (p *Provider) IssueRefresh(subject string) (string, error) {
	return p.sign(subject, TypeRefresh, "", p.refreshTTL)
}

// IssueVerification returns the email-verification token: an access-typed
// token with a long TTL and the account email embedded, so the verify
// endpoint can cross-check subject and email.
func (p *Provider) IssueVerification(subject, email string) (string, error) {
	return p.sign(subject, TypeAccess, email, p.verificationTTL)
}

func (p *Provider) sign(subject, tokenType, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TokenType: tokenType,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Validate verifies the signature and expiry of tokenStr and checks its type
// claim against requiredType. Failures map to three distinguishable kinds:
// domain.ErrTokenExpired, domain.ErrTokenTypeMismatch, and
// domain.ErrTokenInvalid for everything else (bad signature, malformed
// payload, wrong algorithm).
func (p *Provider) Validate(tokenStr, requiredType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrTokenExpired)
		}
		return nil, fmt.Errorf("%v: %w", err, domain.ErrTokenInvalid)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenInvalid
	}
	if claims.TokenType != requiredType {
		return nil, fmt.Errorf("got %q, want %q: %w", claims.TokenType, requiredType, domain.ErrTokenTypeMismatch)
	}
	return claims, nil
}
