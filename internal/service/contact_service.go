package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contacts_api/internal/model"
	"contacts_api/internal/repository"
)

var ErrContactNotFound = errors.New("contact not found")

// ContactService defines the externally visible contact operations.
// Authorization has already been checked by the access middleware before
// any of these run.
type ContactService interface {
	GetContacts(ctx context.Context, limit, offset int, filters model.ContactFilters) ([]model.Contact, error)
	GetUpcomingBirthdays(ctx context.Context, limit, offset int) ([]model.Contact, error)
	GetContactByID(ctx context.Context, id int64) (*model.Contact, error)
	CreateContact(ctx context.Context, req model.ContactRequest) (*model.Contact, error)
	UpdateContact(ctx context.Context, id int64, req model.ContactRequest) (*model.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

type contactService struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactService creates a new ContactService
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo, now: time.Now}
}

// GetContacts lists contacts, either filtered (OR-combined equality on the
// supplied fields) or paginated. An empty result is ErrContactNotFound.
func (s *contactService) GetContacts(ctx context.Context, limit, offset int, filters model.ContactFilters) ([]model.Contact, error) {
	contacts, err := s.repo.List(ctx, limit, offset, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	if len(contacts) == 0 {
		return nil, ErrContactNotFound
	}
	return contacts, nil
}

// GetUpcomingBirthdays selects, from the requested page of contacts, those
// whose birthday falls within the next 7 days.
func (s *contactService) GetUpcomingBirthdays(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	page, err := s.repo.List(ctx, limit, offset, model.ContactFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts for birthdays: %w", err)
	}

	upcoming := FilterUpcomingBirthdays(page, s.now())
	if len(upcoming) == 0 {
		return nil, ErrContactNotFound
	}
	return upcoming, nil
}

func (s *contactService) GetContactByID(ctx context.Context, id int64) (*model.Contact, error) {
	contact, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact: %w", err)
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

func (s *contactService) CreateContact(ctx context.Context, req model.ContactRequest) (*model.Contact, error) {
	contact := contactFromRequest(req)
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact in repo: %w", err)
	}
	return contact, nil
}

// UpdateContact overwrites all six mutable fields of the contact wholesale
func (s *contactService) UpdateContact(ctx context.Context, id int64, req model.ContactRequest) (*model.Contact, error) {
	updated, err := s.repo.Update(ctx, id, contactFromRequest(req))
	if err != nil {
		return nil, fmt.Errorf("failed to update contact in repo: %w", err)
	}
	if updated == nil {
		return nil, ErrContactNotFound
	}
	return updated, nil
}

func (s *contactService) DeleteContact(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact in repo: %w", err)
	}
	if deleted == nil {
		return ErrContactNotFound
	}
	return nil
}

func contactFromRequest(req model.ContactRequest) *model.Contact {
	return &model.Contact{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       req.Birthday,
		AdditionalData: req.AdditionalData,
	}
}
