package account

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/contacts-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) Update(ctx context.Context, accountID string, updates map[string]interface{}) error {
	return m.Called(ctx, accountID, updates).Error(0)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

func TestSetAvatar_Success(t *testing.T) {
	repo := &mockAccountStore{}
	repo.On("Get", mock.Anything, "acct-1").Return(&domain.Account{AccountID: "acct-1"}, nil)
	repo.On("Update", mock.Anything, "acct-1", map[string]interface{}{"avatar": "s3://bucket/avatars/acct-1.png"}).Return(nil)

	store := &mockObjectStore{}
	store.On("Upload", mock.Anything, "avatars/acct-1.png", mock.Anything, "image/png").
		Return("s3://bucket/avatars/acct-1.png", nil)

	svc := NewService(repo, store)
	a, err := svc.SetAvatar(context.Background(), "acct-1", "me.PNG", strings.NewReader("img"), "image/png")

	require.NoError(t, err)
	require.NotNil(t, a.Avatar)
	assert.Equal(t, "s3://bucket/avatars/acct-1.png", *a.Avatar)
	repo.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestSetAvatar_AccountNotFound(t *testing.T) {
	repo := &mockAccountStore{}
	repo.On("Get", mock.Anything, "missing").Return(nil, domain.ErrAccountNotFound)

	svc := NewService(repo, &mockObjectStore{})
	_, err := svc.SetAvatar(context.Background(), "missing", "me.png", strings.NewReader("img"), "image/png")

	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestSetAvatar_UploadFailure(t *testing.T) {
	repo := &mockAccountStore{}
	repo.On("Get", mock.Anything, "acct-1").Return(&domain.Account{AccountID: "acct-1"}, nil)

	store := &mockObjectStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", assert.AnError)

	svc := NewService(repo, store)
	_, err := svc.SetAvatar(context.Background(), "acct-1", "me.png", strings.NewReader("img"), "image/png")

	assert.Error(t, err)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSafeExt_StripsUnknownExtensions(t *testing.T) {
	assert.Equal(t, ".png", safeExt("photo.png"))
	assert.Equal(t, ".jpeg", safeExt("photo.JPEG"))
	assert.Equal(t, "", safeExt("script.sh"))
	assert.Equal(t, "", safeExt("noext"))
}
