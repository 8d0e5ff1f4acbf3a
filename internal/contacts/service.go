// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contacts

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/metrics"
	"github.com/taibuivan/contactly/internal/platform/validate"
	"github.com/taibuivan/contactly/internal/users/identity"
	"github.com/taibuivan/contactly/pkg/pagination"
	"github.com/taibuivan/contactly/pkg/textnorm"
)

// DefaultBirthdayDays is the window used when a request does not specify one.
const DefaultBirthdayDays = 7

// MaxBirthdayDays covers a full year including a leap day. Longer windows are
// clamped to it.
const MaxBirthdayDays = 366

// CreateInput is the payload of a new contact.
type CreateInput struct {
	FirstName   string  `json:"firstname" validate:"required,min=2,max=50"`
	LastName    string  `json:"lastname" validate:"required,min=2,max=50"`
	Birthday    string  `json:"birthday" validate:"required,datetime=2006-01-02"`
	Email       string  `json:"email" validate:"required,min=7,max=100,email"`
	PhoneNumber string  `json:"phonenumber" validate:"required,min=7,max=20"`
	Info        *string `json:"info"`
}

// UpdateInput is a partial contact update; omitted fields are left unchanged.
type UpdateInput struct {
	FirstName   *string `json:"firstname" validate:"omitempty,min=2,max=50"`
	LastName    *string `json:"lastname" validate:"omitempty,min=2,max=50"`
	Birthday    *string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Email       *string `json:"email" validate:"omitempty,min=7,max=100,email"`
	PhoneNumber *string `json:"phonenumber" validate:"omitempty,min=7,max=20"`
	Info        *string `json:"info"`
}

// Service applies contact business rules on top of a [Repository].
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a contact [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

/*
CreateContact stores a new contact for owner.

Description: The duplicate check runs first so the common case gets a clean
400; the unique indexes still catch a concurrent insert that slips past it.

Returns:
  - *Contact: The stored contact with id and timestamps
  - error: VALIDATION_ERROR, DUPLICATE_CONTACT, or INTERNAL_ERROR
*/
func (service *Service) CreateContact(context context.Context, owner *identity.Identity, input CreateInput) (*Contact, error) {
	input.FirstName = textnorm.Name(input.FirstName)
	input.LastName = textnorm.Name(input.LastName)
	input.Info = textnorm.Ptr(input.Info, textnorm.Text)

	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	birthday, err := ParseDate(input.Birthday)
	if err != nil {
		return nil, validate.RequiredError(FieldBirthday, "Must be a date in YYYY-MM-DD format")
	}

	duplicate, err := service.repo.ExistsDuplicate(context, owner.ID, input.Email, input.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if duplicate {
		return nil, service.rejectDuplicate(context, owner)
	}

	contact := &Contact{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Birthday:    birthday,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Info:        input.Info,
	}

	if err := service.repo.Create(context, owner.ID, contact); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, service.rejectDuplicate(context, owner)
		}
		return nil, err
	}

	metrics.ContactsCreatedTotal.Inc()
	service.logger.InfoContext(context, "contact_created",
		slog.String("user_id", owner.ID),
		slog.Int64("contact_id", contact.ID),
	)

	return contact, nil
}

// ListContacts returns the owner's contacts matching filter.
func (service *Service) ListContacts(context context.Context, owner *identity.Identity, filter Filter, page pagination.Params) ([]*Contact, error) {
	return service.repo.List(context, owner.ID, filter, page)
}

// GetContact returns one contact, or NOT_FOUND.
func (service *Service) GetContact(context context.Context, owner *identity.Identity, id int64) (*Contact, error) {
	contact, err := service.repo.GetByID(context, owner.ID, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}
	return contact, nil
}

/*
UpdateContact overwrites the fields present in input.

Returns:
  - *Contact: The contact after the update
  - error: VALIDATION_ERROR, NOT_FOUND, DUPLICATE_CONTACT, or INTERNAL_ERROR
*/
func (service *Service) UpdateContact(context context.Context, owner *identity.Identity, id int64, input UpdateInput) (*Contact, error) {
	input.FirstName = textnorm.Ptr(input.FirstName, textnorm.Name)
	input.LastName = textnorm.Ptr(input.LastName, textnorm.Name)
	input.Info = textnorm.Ptr(input.Info, textnorm.Text)

	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	fields := Fields{
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		PhoneNumber: input.PhoneNumber,
		Info:        input.Info,
	}

	if input.Birthday != nil {
		birthday, err := ParseDate(*input.Birthday)
		if err != nil {
			return nil, validate.RequiredError(FieldBirthday, "Must be a date in YYYY-MM-DD format")
		}
		fields.Birthday = &birthday
	}

	contact, err := service.repo.Update(context, owner.ID, id, fields)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, service.rejectDuplicate(context, owner)
		}
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}

	service.logger.InfoContext(context, "contact_updated",
		slog.String("user_id", owner.ID),
		slog.Int64("contact_id", id),
	)

	return contact, nil
}

// DeleteContact removes a contact and returns its final state.
func (service *Service) DeleteContact(context context.Context, owner *identity.Identity, id int64) (*Contact, error) {
	contact, err := service.repo.Delete(context, owner.ID, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrNotFound
	}

	service.logger.WarnContext(context, "contact_deleted",
		slog.String("user_id", owner.ID),
		slog.Int64("contact_id", id),
	)

	return contact, nil
}

// UpcomingBirthdays lists contacts with a birthday in the next days days.
func (service *Service) UpcomingBirthdays(context context.Context, owner *identity.Identity, days int) ([]*Contact, error) {
	if days < 1 {
		return nil, validate.RequiredError(FieldDays, "Must be at least 1")
	}
	return service.repo.UpcomingBirthdays(context, owner.ID, min(days, MaxBirthdayDays))
}

func (service *Service) rejectDuplicate(context context.Context, owner *identity.Identity) *apperr.AppError {
	metrics.DuplicateContactsTotal.Inc()
	service.logger.InfoContext(context, "contact_duplicate_rejected", slog.String("user_id", owner.ID))
	return ErrDuplicate
}
