// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/contactly/internal/platform/apperr"
	"github.com/taibuivan/contactly/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))
	assert.ErrorIs(t, dberr.Wrap(pgx.ErrNoRows, "get"), dberr.ErrNotFound)

	err := dberr.Wrap(errors.New("connection reset"), "list_contacts")
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
}

func TestUniqueViolation(t *testing.T) {
	violation := &pgconn.PgError{Code: "23505", ConstraintName: "contact_owner_email_key"}

	name, ok := dberr.UniqueViolation(fmt.Errorf("insert: %w", violation))
	assert.True(t, ok)
	assert.Equal(t, "contact_owner_email_key", name)

	_, ok = dberr.UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)

	_, ok = dberr.UniqueViolation(errors.New("boom"))
	assert.False(t, ok)
}
