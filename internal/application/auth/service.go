package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contacts-api/internal/domain"
	"github.com/contacts-api/internal/infrastructure/token"
	"github.com/contacts-api/internal/pkg/id"
)

// Account lifecycle event types published on signup and verification.
const (
	EventRegistered = "account.registered"
	EventVerified   = "account.verified"
)

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type Service interface {
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error)
	Login(ctx context.Context, req domain.LoginRequest) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	VerifyEmail(ctx context.Context, verificationToken string) (*domain.Account, error)
	MarkVerified(ctx context.Context, accountID string) (*domain.Account, error)
}

type accountStore interface {
	Put(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
}

type hasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type tokenProvider interface {
	IssueAccess(subject string) (string, error)
	IssueRefresh(subject string) (string, error)
	IssueVerification(subject, email string) (string, error)
	Validate(tokenStr, requiredType string) (*token.Claims, error)
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type eventPublisher interface {
	Publish(ctx context.Context, eventType, accountID string) error
}

type service struct {
	repo    accountStore
	hasher  hasher
	tokens  tokenProvider
	mailer  mailer
	events  eventPublisher
	baseURL string
}

type ServiceDeps struct {
	AccountRepo accountStore
	Hasher      hasher
	Tokens      tokenProvider
	Mailer      mailer
	Events      eventPublisher // optional
	BaseURL     string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:    deps.AccountRepo,
		hasher:  deps.Hasher,
		tokens:  deps.Tokens,
		mailer:  deps.Mailer,
		events:  deps.Events,
		baseURL: deps.BaseURL,
	}
}

// Register creates an unverified account and sends the verification email.
// Mail and event delivery are best-effort: a failure is logged and reported
// nowhere else, the account stays created.
func (s *service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Account, error) {
	email := normalizeEmail(req.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%s: %w", email, domain.ErrEmailTaken)
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	a := &domain.Account{
		AccountID:    id.New(),
		Email:        email,
		PasswordHash: hash,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, err
	}

	s.sendVerificationEmail(a)
	s.publish(ctx, EventRegistered, a.AccountID)
	return a, nil
}

// Login checks the credentials and issues an access/refresh token pair.
// A missing account and a wrong password return the same error.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*TokenPair, error) {
	a, err := s.repo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.hasher.Verify(req.Password, a.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.issuePair(a.AccountID)
}

// Refresh exchanges a valid refresh token for a fresh token pair.
func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Validate(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.Get(ctx, claims.Subject); err != nil {
		return nil, err
	}
	return s.issuePair(claims.Subject)
}

// VerifyEmail validates the emailed token and flips the account's verified
// flag. The token's embedded email must still match the account's email.
func (s *service) VerifyEmail(ctx context.Context, verificationToken string) (*domain.Account, error) {
	claims, err := s.tokens.Validate(verificationToken, token.TypeAccess)
	if err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("missing email claim: %w", domain.ErrTokenInvalid)
	}
	a, err := s.repo.Get(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if a.Email != claims.Email {
		return nil, domain.ErrAccountNotFound
	}
	return s.markVerified(ctx, a)
}

// MarkVerified flips the verified flag. Verifying an already-verified
// account is a no-op success.
func (s *service) MarkVerified(ctx context.Context, accountID string) (*domain.Account, error) {
	a, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.markVerified(ctx, a)
}

func (s *service) markVerified(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if a.Verified {
		return a, nil
	}
	if err := s.repo.Update(ctx, a.AccountID, map[string]interface{}{"verified": true}); err != nil {
		return nil, err
	}
	a.Verified = true
	s.publish(ctx, EventVerified, a.AccountID)
	return a, nil
}

func (s *service) issuePair(accountID string) (*TokenPair, error) {
	access, err := s.tokens.IssueAccess(accountID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(accountID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *service) sendVerificationEmail(a *domain.Account) {
	verificationToken, err := s.tokens.IssueVerification(a.AccountID, a.Email)
	if err != nil {
		slog.Warn("could not issue verification token", "account_id", a.AccountID, "err", err)
		return
	}
	link := fmt.Sprintf("%s/v1/auth/verify/%s", s.baseURL, verificationToken)
	body := fmt.Sprintf("Please verify your email by clicking the link: <a href=%q>Verify</a>", link)
	if err := s.mailer.SendEmail(a.Email, "Verify Your Email", body); err != nil {
		slog.Warn("could not send verification email", "account_id", a.AccountID, "err", err)
	}
}

func (s *service) publish(ctx context.Context, eventType, accountID string) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, eventType, accountID); err != nil {
		slog.Warn("could not publish account event", "event", eventType, "account_id", accountID, "err", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
