package http

import (
	"github.com/contacts-api/internal/infrastructure/dynamo"
	s3infra "github.com/contacts-api/internal/infrastructure/s3"
	"github.com/contacts-api/internal/infrastructure/smtp"
	"github.com/contacts-api/internal/infrastructure/sns"
	"github.com/contacts-api/internal/infrastructure/token"
	"github.com/contacts-api/internal/pkg/password"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	AccountRepo *dynamo.AccountRepo
	ContactRepo *dynamo.ContactRepo
	AvatarStore *s3infra.Store
	Mailer      smtp.Mailer
	Events      sns.EventPublisher // optional, nil disables event publishing
	Tokens      *token.Provider
	Hasher      *password.Hasher
}
