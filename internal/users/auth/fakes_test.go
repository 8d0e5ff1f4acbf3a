// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/mailer"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/identity"
)

// memoryUsers is an in-process [auth.UserRepository].
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*identity.Identity
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*identity.Identity)}
}

func (repo *memoryUsers) Create(_ context.Context, user *identity.Identity) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, existing := range repo.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return apperr.Conflict("Account already exists")
		}
	}

	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	repo.users[user.ID] = &stored
	return nil
}

func (repo *memoryUsers) find(match func(*identity.Identity) bool) (*identity.Identity, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if match(user) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, identity.ErrNotFound
}

func (repo *memoryUsers) FindByID(_ context.Context, id string) (*identity.Identity, error) {
	return repo.find(func(u *identity.Identity) bool { return u.ID == id })
}

func (repo *memoryUsers) FindByUsername(_ context.Context, username string) (*identity.Identity, error) {
	return repo.find(func(u *identity.Identity) bool { return u.Username == username })
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*identity.Identity, error) {
	return repo.find(func(u *identity.Identity) bool { return u.Email == email })
}

func (repo *memoryUsers) mutate(match func(*identity.Identity) bool, apply func(*identity.Identity)) (*identity.Identity, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, user := range repo.users {
		if match(user) {
			apply(user)
			user.UpdatedAt = time.Now().UTC()
			copied := *user
			return &copied, nil
		}
	}
	return nil, identity.ErrNotFound
}

func (repo *memoryUsers) MarkConfirmed(_ context.Context, id string) error {
	_, err := repo.mutate(func(u *identity.Identity) bool { return u.ID == id }, func(u *identity.Identity) { u.Confirmed = true })
	return err
}

func (repo *memoryUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	_, err := repo.mutate(func(u *identity.Identity) bool { return u.ID == id }, func(u *identity.Identity) { u.PasswordHash = passwordHash })
	return err
}

func (repo *memoryUsers) UpdateAvatar(_ context.Context, id, avatarURL string) (*identity.Identity, error) {
	return repo.mutate(func(u *identity.Identity) bool { return u.ID == id }, func(u *identity.Identity) { u.AvatarURL = avatarURL })
}

func (repo *memoryUsers) UpdateRole(_ context.Context, username string, role sec.Role) (*identity.Identity, error) {
	return repo.mutate(func(u *identity.Identity) bool { return u.Username == username }, func(u *identity.Identity) { u.Role = role })
}

// recordingCache records invalidations.
type recordingCache struct {
	mu          sync.Mutex
	invalidated []string
	err         error
}

func (cache *recordingCache) Get(context.Context, string) (*identity.Identity, error) { return nil, nil }
func (cache *recordingCache) Put(context.Context, *identity.Identity) error          { return nil }

func (cache *recordingCache) Invalidate(_ context.Context, username string) error {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	cache.invalidated = append(cache.invalidated, username)
	return cache.err
}

func (cache *recordingCache) keys() []string {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	return append([]string(nil), cache.invalidated...)
}

// recordingMailer captures outgoing messages.
type recordingMailer struct {
	mu       sync.Mutex
	messages []mailer.Message
	fail     bool
}

func (m *recordingMailer) Send(_ context.Context, message mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp: connection refused")
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *recordingMailer) sent() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.messages...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
