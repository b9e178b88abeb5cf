package token

import (
	"testing"
	"time"

	"github.com/contacts-api/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider("test-secret", 30*time.Minute, 7*24*time.Hour, 24*time.Hour)
	require.NoError(t, err)
	return p
}

func TestNewProvider_EmptySecret(t *testing.T) {
	_, err := NewProvider("", time.Minute, time.Minute, time.Minute)
	assert.Error(t, err)
}

func TestValidate_AccessRoundTrip(t *testing.T) {
	p := newTestProvider(t)

	tok, err := p.IssueAccess("acct-1")
	require.NoError(t, err)

	claims, err := p.Validate(tok, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "acct-1", claims.Subject)
	assert.Equal(t, TypeAccess, claims.TokenType)
}

func TestValidate_RefreshRoundTrip(t *testing.T) {
	p := newTestProvider(t)

	tok, err := p.IssueRefresh("acct-1")
	require.NoError(t, err)

	claims, err := p.Validate(tok, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.TokenType)
}

func TestValidate_TypeMismatch(t *testing.T) {
	p := newTestProvider(t)

	access, err := p.IssueAccess("acct-1")
	require.NoError(t, err)
	refresh, err := p.IssueRefresh("acct-1")
	require.NoError(t, err)

	_, err = p.Validate(access, TypeRefresh)
	assert.ErrorIs(t, err, domain.ErrTokenTypeMismatch)

	_, err = p.Validate(refresh, TypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenTypeMismatch)
}

func TestValidate_Expired(t *testing.T) {
	p, err := NewProvider("test-secret", -time.Minute, -time.Minute, -time.Minute)
	require.NoError(t, err)

	tok, err := p.IssueAccess("acct-1")
	require.NoError(t, err)

	_, err = p.Validate(tok, TypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
	assert.NotErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidate_BadSignature(t *testing.T) {
	p := newTestProvider(t)
	other, err := NewProvider("other-secret", 30*time.Minute, time.Hour, time.Hour)
	require.NoError(t, err)

	tok, err := other.IssueAccess("acct-1")
	require.NoError(t, err)

	_, err = p.Validate(tok, TypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidate_Garbage(t *testing.T) {
	p := newTestProvider(t)

	_, err := p.Validate("not-a-jwt", TypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidate_MissingSubject(t *testing.T) {
	p := newTestProvider(t)

	claims := Claims{
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = p.Validate(tok, TypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestValidate_RejectsNoneAlgorithm(t *testing.T) {
	p := newTestProvider(t)

	claims := Claims{
		TokenType: TypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acct-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.Validate(tok, TypeAccess)
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestIssueVerification_EmbedsEmail(t *testing.T) {
	p := newTestProvider(t)

	tok, err := p.IssueVerification("acct-1", "a@x.com")
	require.NoError(t, err)

	claims, err := p.Validate(tok, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "acct-1", claims.Subject)
}
