// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/avatar"
	"github.com/taibuivan/contactly/internal/platform/middleware"
	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/account"
	"github.com/taibuivan/contactly/internal/users/identity"
)

// # Fakes

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*identity.Identity
}

func (repo *memoryUsers) UpdateAvatar(_ context.Context, id, avatarURL string) (*identity.Identity, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.ID == id {
			user.AvatarURL = avatarURL
			copied := *user
			return &copied, nil
		}
	}
	return nil, identity.ErrNotFound
}

func (repo *memoryUsers) UpdateRole(_ context.Context, username string, role sec.Role) (*identity.Identity, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[username]
	if !ok {
		return nil, identity.ErrNotFound
	}
	user.Role = role
	copied := *user
	return &copied, nil
}

type recordingStore struct {
	uploads []avatar.Upload
	bodies  []string
	err     error
}

func (store *recordingStore) Put(_ context.Context, upload avatar.Upload) (string, error) {
	if store.err != nil {
		return "", store.err
	}
	body, err := io.ReadAll(upload.Body)
	if err != nil {
		return "", err
	}
	store.uploads = append(store.uploads, upload)
	store.bodies = append(store.bodies, string(body))
	return "https://cdn.example.com/contactly/avatars/" + upload.PublicID, nil
}

type recordingCache struct {
	invalidated []string
}

func (cache *recordingCache) Get(context.Context, string) (*identity.Identity, error) { return nil, nil }
func (cache *recordingCache) Put(context.Context, *identity.Identity) error          { return nil }
func (cache *recordingCache) Invalidate(_ context.Context, username string) error {
	cache.invalidated = append(cache.invalidated, username)
	return nil
}

type stubResolver struct {
	users *memoryUsers
}

func (resolver *stubResolver) Resolve(_ context.Context, token string) (*identity.Identity, error) {
	resolver.users.mu.Lock()
	defer resolver.users.mu.Unlock()
	user, ok := resolver.users.users[token]
	if !ok {
		return nil, apperr.Unauthorized(identity.MessageUnauthorized)
	}
	copied := *user
	return &copied, nil
}

// # Fixture

type fixture struct {
	users   *memoryUsers
	store   *recordingStore
	cache   *recordingCache
	service *account.Service
	routes  http.Handler
}

func newFixture(t *testing.T, profileLimit func(http.Handler) http.Handler) *fixture {
	t.Helper()

	users := &memoryUsers{users: map[string]*identity.Identity{
		"root":  {ID: "u-root", Username: "root", Email: "root@example.com", Role: sec.RoleAdmin, Confirmed: true},
		"alice": {ID: "u-alice", Username: "alice", Email: "alice@example.com", Role: sec.RoleUser, Confirmed: true},
	}}
	f := &fixture{users: users, store: &recordingStore{}, cache: &recordingCache{}}
	f.service = account.NewService(users, f.store, f.cache, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if profileLimit == nil {
		profileLimit = func(next http.Handler) http.Handler { return next }
	}
	f.routes = account.NewHandler(f.service, &stubResolver{users: users}, profileLimit).Routes()
	return f
}

type envelope struct {
	Data  *identity.Identity `json:"data"`
	Error string             `json:"error"`
	Code  string             `json:"code"`
}

func (f *fixture) do(t *testing.T, request *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	f.routes.ServeHTTP(recorder, request)

	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body), recorder.Body.String())
	return recorder, body
}

func avatarRequest(t *testing.T, field, contentType, content string) *http.Request {
	t.Helper()

	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="me.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	request := httptest.NewRequest(http.MethodPatch, "/avatar", &buffer)
	request.Header.Set("Content-Type", writer.FormDataContentType())
	return request
}

// # Tests

func TestGetMe(t *testing.T) {
	f := newFixture(t, nil)

	recorder, body := f.do(t, httptest.NewRequest(http.MethodGet, "/me", nil), "alice")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "alice", body.Data.Username)
	assert.Equal(t, sec.RoleUser, body.Data.Role)

	recorder, body = f.do(t, httptest.NewRequest(http.MethodGet, "/me", nil), "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, apperr.CodeUnauthorized, body.Code)
}

func TestGetMe_RateLimited(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFixture(t, middleware.RateLimit(ctx, middleware.PerMinute(10), 10))

	for i := 0; i < 10; i++ {
		recorder, _ := f.do(t, httptest.NewRequest(http.MethodGet, "/me", nil), "alice")
		require.Equal(t, http.StatusOK, recorder.Code, "request %d", i+1)
	}

	recorder, body := f.do(t, httptest.NewRequest(http.MethodGet, "/me", nil), "alice")
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, apperr.CodeRateLimited, body.Code)

	// The avatar route does not share the profile budget.
	recorder, _ = f.do(t, avatarRequest(t, "file", "image/png", "png-bytes"), "root")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestUpdateAvatar(t *testing.T) {
	f := newFixture(t, nil)

	recorder, body := f.do(t, avatarRequest(t, "file", "image/png", "png-bytes"), "root")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "https://cdn.example.com/contactly/avatars/root", body.Data.AvatarURL)

	require.Len(t, f.store.uploads, 1)
	assert.Equal(t, "root", f.store.uploads[0].PublicID)
	assert.Equal(t, "image/png", f.store.uploads[0].ContentType)
	assert.Equal(t, int64(len("png-bytes")), f.store.uploads[0].Size)
	assert.Equal(t, "png-bytes", f.store.bodies[0])
	assert.Equal(t, []string{"root"}, f.cache.invalidated)
}

func TestUpdateAvatar_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		request func(t *testing.T) *http.Request
		token   string
		status  int
		code    string
	}{
		{
			name:    "anonymous",
			request: func(t *testing.T) *http.Request { return avatarRequest(t, "file", "image/png", "x") },
			status:  http.StatusUnauthorized,
			code:    apperr.CodeUnauthorized,
		},
		{
			name:    "not_admin",
			request: func(t *testing.T) *http.Request { return avatarRequest(t, "file", "image/png", "x") },
			token:   "alice",
			status:  http.StatusForbidden,
			code:    apperr.CodeForbidden,
		},
		{
			name:    "wrong_field",
			request: func(t *testing.T) *http.Request { return avatarRequest(t, "image", "image/png", "x") },
			token:   "root",
			status:  http.StatusBadRequest,
			code:    apperr.CodeValidation,
		},
		{
			name:    "not_an_image",
			request: func(t *testing.T) *http.Request { return avatarRequest(t, "file", "text/plain", "x") },
			token:   "root",
			status:  http.StatusBadRequest,
			code:    apperr.CodeValidation,
		},
		{
			name: "not_multipart",
			request: func(t *testing.T) *http.Request {
				request := httptest.NewRequest(http.MethodPatch, "/avatar", bytes.NewBufferString(`{}`))
				request.Header.Set("Content-Type", "application/json")
				return request
			},
			token:  "root",
			status: http.StatusBadRequest,
			code:   apperr.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)

			recorder, body := f.do(t, tt.request(t), tt.token)
			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.code, body.Code)
			assert.Empty(t, f.store.uploads)
			assert.Empty(t, f.cache.invalidated)
		})
	}
}

func TestUpdateAvatar_StorageDisabled(t *testing.T) {
	f := newFixture(t, nil)
	_, f.store.err = avatar.DisabledStore{}.Put(context.Background(), avatar.Upload{})

	recorder, body := f.do(t, avatarRequest(t, "file", "image/png", "x"), "root")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Equal(t, apperr.CodeServiceUnavailable, body.Code)
}

func TestUpdateAvatar_StorageFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.store.err = errors.New("cloudinary: 502 bad gateway")

	recorder, body := f.do(t, avatarRequest(t, "file", "image/png", "x"), "root")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, apperr.CodeInternal, body.Code)
	assert.Empty(t, f.cache.invalidated)
}

func TestPromote(t *testing.T) {
	f := newFixture(t, nil)

	promoted, err := f.service.Promote(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, promoted.Role)
	assert.Equal(t, []string{"alice"}, f.cache.invalidated)

	_, err = f.service.Promote(context.Background(), "ghost")
	assert.ErrorIs(t, err, identity.ErrNotFound)
}
