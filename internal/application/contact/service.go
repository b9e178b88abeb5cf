package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contacts-api/internal/domain"
	"github.com/contacts-api/internal/pkg/id"
)

const (
	defaultPageLimit   = 10
	birthdayWindowDays = 7
)

type contactStore interface {
	Put(ctx context.Context, c *domain.Contact) error
	Get(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	GetByEmail(ctx context.Context, email string) (*domain.Contact, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Contact, error)
	Delete(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
}

// Service exposes the per-owner contact operations. Every method takes the
// resolved account id of the caller; the store beneath is keyed by it, so
// there is no path to another tenant's rows.
type Service interface {
	Create(ctx context.Context, ownerID string, req domain.ContactRequest) (*domain.Contact, error)
	List(ctx context.Context, ownerID string, skip, limit int) ([]domain.Contact, error)
	Get(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	Update(ctx context.Context, ownerID, contactID string, req domain.ContactRequest) (*domain.Contact, error)
	Delete(ctx context.Context, ownerID, contactID string) (*domain.Contact, error)
	Search(ctx context.Context, ownerID, query string) ([]domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, ownerID string, asOf time.Time) ([]domain.Contact, error)
}

type service struct {
	repo contactStore
}

func NewService(repo contactStore) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, ownerID string, req domain.ContactRequest) (*domain.Contact, error) {
	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	c := &domain.Contact{
		OwnerID:   ownerID,
		ContactID: id.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Phone:     req.Phone,
		Birthday:  birthday,
		Note:      req.Note,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context, ownerID string, skip, limit int) ([]domain.Contact, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	contacts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if skip >= len(contacts) {
		return []domain.Contact{}, nil
	}
	end := skip + limit
	if end > len(contacts) {
		end = len(contacts)
	}
	return contacts[skip:end], nil
}

func (s *service) Get(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	return s.repo.Get(ctx, ownerID, contactID)
}

// Update is full-replace: every field of the stored contact is overwritten
// from req. The lookup is owner-scoped, so a contact belonging to another
// account surfaces as not found.
func (s *service) Update(ctx context.Context, ownerID, contactID string, req domain.ContactRequest) (*domain.Contact, error) {
	existing, err := s.repo.Get(ctx, ownerID, contactID)
	if err != nil {
		return nil, err
	}
	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkEmailFree(ctx, email, contactID); err != nil {
		return nil, err
	}
	c := &domain.Contact{
		OwnerID:   ownerID,
		ContactID: contactID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     email,
		Phone:     req.Phone,
		Birthday:  birthday,
		Note:      req.Note,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.repo.Put(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, ownerID, contactID string) (*domain.Contact, error) {
	return s.repo.Delete(ctx, ownerID, contactID)
}

// Search matches the query case-insensitively as a substring of first name,
// last name, or email. Matches are unioned.
func (s *service) Search(ctx context.Context, ownerID, query string) ([]domain.Contact, error) {
	contacts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)
	matched := []domain.Contact{}
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.FirstName), q) ||
			strings.Contains(strings.ToLower(c.LastName), q) ||
			strings.Contains(strings.ToLower(c.Email), q) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// UpcomingBirthdays returns the owner's contacts whose birthday, projected
// onto the current year, falls within [asOf, asOf+7d] inclusive. The window
// is compared as month/day pairs so a late-December asOf picks up early
// January birthdays. A Feb 29 birthday counts as Feb 28 in non-leap years.
func (s *service) UpcomingBirthdays(ctx context.Context, ownerID string, asOf time.Time) ([]domain.Contact, error) {
	contacts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	upcoming := []domain.Contact{}
	for _, c := range contacts {
		if birthdayInWindow(c.Birthday, asOf) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}

func birthdayInWindow(birthday, asOf time.Time) bool {
	bm, bd := birthday.Month(), birthday.Day()
	for i := 0; i <= birthdayWindowDays; i++ {
		d := asOf.AddDate(0, 0, i)
		if d.Month() == bm && d.Day() == bd {
			return true
		}
		// Feb 29 birthdays celebrate on Feb 28 when the window's year has no leap day.
		if bm == time.February && bd == 29 && !isLeapYear(d.Year()) &&
			d.Month() == time.February && d.Day() == 28 {
			return true
		}
	}
	return false
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func (s *service) checkEmailFree(ctx context.Context, email, selfID string) error {
	other, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			return nil
		}
		return err
	}
	if other.ContactID == selfID {
		return nil
	}
	return fmt.Errorf("contact email %s: %w", email, domain.ErrEmailTaken)
}

func parseBirthday(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("birthday must be in YYYY-MM-DD format: %w", domain.ErrBadRequest)
	}
	return t, nil
}
