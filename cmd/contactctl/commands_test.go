// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/contactly/internal/platform/sec"
	"github.com/taibuivan/contactly/internal/users/auth"
	"github.com/taibuivan/contactly/internal/users/identity"
)

type fakeAdmins struct {
	inputs []auth.RegisterInput
}

func (admins *fakeAdmins) CreateAdmin(_ context.Context, input auth.RegisterInput) (*identity.Identity, error) {
	admins.inputs = append(admins.inputs, input)
	return &identity.Identity{ID: "u-1", Username: input.Username, Role: sec.RoleAdmin}, nil
}

type fakePromoter struct{}

func (fakePromoter) Promote(_ context.Context, username string) (*identity.Identity, error) {
	if username == "ghost" {
		return nil, identity.ErrNotFound
	}
	return &identity.Identity{Username: username, Role: sec.RoleAdmin}, nil
}

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	original := readPassword
	t.Cleanup(func() { readPassword = original })

	readPassword = func() ([]byte, error) {
		if len(answers) == 0 {
			return nil, errors.New("no input")
		}
		answer := answers[0]
		answers = answers[1:]
		return []byte(answer), nil
	}
}

func newCommands() (*commands, *fakeAdmins, *[]int, *bytes.Buffer) {
	admins := &fakeAdmins{}
	rollbacks := &[]int{}
	out := &bytes.Buffer{}
	return &commands{
		admins:   admins,
		promoter: fakePromoter{},
		migrateDown: func(steps int) error {
			*rollbacks = append(*rollbacks, steps)
			return nil
		},
		out: out,
	}, admins, rollbacks, out
}

func TestCreateAdmin(t *testing.T) {
	cmd, admins, _, out := newCommands()
	stubPasswords(t, "s3cret", "s3cret")

	err := cmd.run(context.Background(), []string{"create-admin", "-username", "root", "-email", "root@example.com"})
	require.NoError(t, err)

	require.Len(t, admins.inputs, 1)
	assert.Equal(t, auth.RegisterInput{Username: "root", Email: "root@example.com", Password: "s3cret"}, admins.inputs[0])
	assert.Contains(t, out.String(), "created admin root")
}

func TestCreateAdmin_PasswordMismatch(t *testing.T) {
	cmd, admins, _, _ := newCommands()
	stubPasswords(t, "s3cret", "other")

	err := cmd.run(context.Background(), []string{"create-admin", "-username", "root", "-email", "root@example.com"})
	assert.EqualError(t, err, "passwords do not match")
	assert.Empty(t, admins.inputs)
}

func TestPromote(t *testing.T) {
	cmd, _, _, out := newCommands()

	require.NoError(t, cmd.run(context.Background(), []string{"promote", "-username", "alice"}))
	assert.Equal(t, "alice is now admin\n", out.String())

	assert.ErrorIs(t, cmd.run(context.Background(), []string{"promote", "-username", "ghost"}), identity.ErrNotFound)
}

func TestMigrateDown(t *testing.T) {
	cmd, _, rollbacks, _ := newCommands()

	require.NoError(t, cmd.run(context.Background(), []string{"migrate-down"}))
	require.NoError(t, cmd.run(context.Background(), []string{"migrate-down", "-steps", "3"}))
	assert.Equal(t, []int{1, 3}, *rollbacks)
}

func TestUsageErrors(t *testing.T) {
	cmd, _, _, _ := newCommands()

	for _, args := range [][]string{
		nil,
		{"unknown"},
		{"promote"},
		{"create-admin", "-username", "root"},
		{"migrate-down", "-steps", "0"},
		{"promote", "-bogus"},
	} {
		assert.ErrorIs(t, cmd.run(context.Background(), args), errUsage, "%v", args)
	}
}
