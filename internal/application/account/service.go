package account

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/contacts-api/internal/domain"
)

type accountStore interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type Service interface {
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	SetAvatar(ctx context.Context, accountID, filename string, r io.Reader, contentType string) (*domain.Account, error)
}

type service struct {
	repo  accountStore
	store objectStore
}

func NewService(repo accountStore, store objectStore) Service {
	return &service{repo: repo, store: store}
}

func (s *service) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.repo.Get(ctx, accountID)
}

// SetAvatar uploads the image and replaces the account's avatar reference.
// The object key is derived from the account id so a re-upload overwrites
// the previous avatar instead of leaking orphaned objects.
func (s *service) SetAvatar(ctx context.Context, accountID, filename string, r io.Reader, contentType string) (*domain.Account, error) {
	a, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("avatars/%s%s", accountID, safeExt(filename))
	url, err := s.store.Upload(ctx, key, r, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.repo.Update(ctx, accountID, map[string]interface{}{"avatar": url}); err != nil {
		return nil, err
	}
	a.Avatar = &url
	return a, nil
}

func safeExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif":
		return ext
	default:
		return ""
	}
}
