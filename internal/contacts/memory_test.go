// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contacts_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/contactly/internal/contacts"
	"github.com/taibuivan/contactly/pkg/pagination"
)

// memoryRepository is an in-process [contacts.Repository] with the same
// owner scoping and uniqueness rules as the Postgres implementation.
type memoryRepository struct {
	mu     sync.Mutex
	rows   map[int64]contacts.Contact
	nextID int64
	today  time.Time

	// createErr, when set, is returned by Create instead of inserting.
	createErr error
	calls     int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows:  make(map[int64]contacts.Contact),
		today: time.Date(2024, time.December, 28, 9, 0, 0, 0, time.UTC),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (repo *memoryRepository) List(_ context.Context, ownerID string, filter contacts.Filter, page pagination.Params) ([]*contacts.Contact, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.calls++

	matched := make([]*contacts.Contact, 0)
	for _, id := range repo.sortedIDs() {
		row := repo.rows[id]
		if row.UserID != ownerID ||
			!strings.Contains(row.FirstName, filter.FirstName) ||
			!strings.Contains(row.LastName, filter.LastName) ||
			!strings.Contains(row.Email, filter.Email) {
			continue
		}
		matched = append(matched, &row)
	}

	if page.Offset() >= len(matched) {
		return []*contacts.Contact{}, nil
	}
	end := min(page.Offset()+page.Limit, len(matched))
	return matched[page.Offset():end], nil
}

func (repo *memoryRepository) GetByID(_ context.Context, ownerID string, id int64) (*contacts.Contact, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.calls++

	row, ok := repo.rows[id]
	if !ok || row.UserID != ownerID {
		return nil, nil
	}
	return &row, nil
}

func (repo *memoryRepository) Create(_ context.Context, ownerID string, contact *contacts.Contact) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.calls++

	if repo.createErr != nil {
		return repo.createErr
	}
	if repo.clash(ownerID, 0, contact.Email, contact.PhoneNumber) {
		return contacts.ErrDuplicate
	}

	repo.nextID++
	now := time.Now().UTC()
	contact.ID = repo.nextID
	contact.UserID = ownerID
	contact.CreatedAt = now
	contact.UpdatedAt = now
	repo.rows[contact.ID] = *contact
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, ownerID string, id int64, fields contacts.Fields) (*contacts.Contact, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.calls++

	row, ok := repo.rows[id]
	if !ok || row.UserID != ownerID {
		return nil, nil
	}

	email, phone := row.Email, row.PhoneNumber
	if fields.Email != nil {
		email = *fields.Email
	}
	if fields.PhoneNumber != nil {
		phone = *fields.PhoneNumber
	}
	if repo.clash(ownerID, id, email, phone) {
		return nil, contacts.ErrDuplicate
	}

	if fields.FirstName != nil {
		row.FirstName = *fields.FirstName
	}
	if fields.LastName != nil {
		row.LastName = *fields.LastName
	}
	if fields.Birthday != nil {
		row.Birthday = *fields.Birthday
	}
	if fields.Info != nil {
		row.Info = fields.Info
	}
	row.Email, row.PhoneNumber = email, phone
	row.UpdatedAt = time.Now().UTC()

	repo.rows[id] = row
	return &row, nil
}

func (repo *memoryRepository) Delete(_ context.Context, ownerID string, id int64) (*contacts.Contact, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.calls++

	row, ok := repo.rows[id]
	if !ok || row.UserID != ownerID {
		return nil, nil
	}
	delete(repo.rows, id)
	return &row, nil
}

func (repo *memoryRepository) ExistsDuplicate(_ context.Context, ownerID, email, phoneNumber string) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.calls++

	return repo.clash(ownerID, 0, email, phoneNumber), nil
}

func (repo *memoryRepository) UpcomingBirthdays(_ context.Context, ownerID string, days int) ([]*contacts.Contact, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.calls++

	owned := make([]*contacts.Contact, 0)
	for _, id := range repo.sortedIDs() {
		row := repo.rows[id]
		if row.UserID == ownerID {
			owned = append(owned, &row)
		}
	}
	return contacts.Upcoming(owned, repo.today, days), nil
}

func (repo *memoryRepository) clash(ownerID string, exceptID int64, email, phone string) bool {
	for id, row := range repo.rows {
		if id == exceptID || row.UserID != ownerID {
			continue
		}
		if row.Email == email || row.PhoneNumber == phone {
			return true
		}
	}
	return false
}

func (repo *memoryRepository) sortedIDs() []int64 {
	ids := make([]int64, 0, len(repo.rows))
	for id := range repo.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (repo *memoryRepository) callCount() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.calls
}
