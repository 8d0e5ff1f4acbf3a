// Copyright (c) 2026 Contactly. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contacts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/contactly/internal/platform/database/schema"
	"github.com/taibuivan/contactly/internal/platform/dberr"
	"github.com/taibuivan/contactly/internal/platform/postgres"
	"github.com/taibuivan/contactly/pkg/pagination"
)

// PostgresRepository implements [Repository] on contacts.contact.
type PostgresRepository struct {
	db  postgres.DB
	now func() time.Time
}

// NewPostgresRepository constructs a [PostgresRepository].
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db, now: time.Now}
}

// WithClock overrides the source of "today" for birthday queries.
func (repository *PostgresRepository) WithClock(now func() time.Time) *PostgresRepository {
	repository.now = now
	return repository
}

// selectColumns is the column list every read scans, in [scanContact] order.
var selectColumns = strings.Join(schema.Contact.Columns(), ", ")

func (repository *PostgresRepository) List(context context.Context, ownerID string, filter Filter, page pagination.Params) ([]*Contact, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		  AND position($2 IN %s) > 0
		  AND position($3 IN %s) > 0
		  AND position($4 IN %s) > 0
		ORDER BY %s
		LIMIT $5 OFFSET $6
	`,
		selectColumns, schema.Contact.Table, schema.Contact.UserID,
		schema.Contact.FirstName, schema.Contact.LastName, schema.Contact.Email,
		schema.Contact.ID,
	)

	rows, err := repository.db.Query(context, query,
		ownerID, filter.FirstName, filter.LastName, filter.Email, page.Limit, page.Offset(),
	)
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_contact_repo_list_failed")
	}

	return collectContacts(rows, "postgres_contact_repo_list_failed")
}

func (repository *PostgresRepository) GetByID(context context.Context, ownerID string, id int64) (*Contact, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		selectColumns, schema.Contact.Table, schema.Contact.ID, schema.Contact.UserID,
	)

	contact, err := scanContact(repository.db.QueryRow(context, query, id, ownerID))
	if dberr.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_contact_repo_get_failed")
	}
	return contact, nil
}

func (repository *PostgresRepository) Create(context context.Context, ownerID string, contact *Contact) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING %s, %s, %s
	`,
		schema.Contact.Table, schema.Contact.UserID, schema.Contact.FirstName, schema.Contact.LastName,
		schema.Contact.Birthday, schema.Contact.Email, schema.Contact.PhoneNumber, schema.Contact.Info,
		schema.Contact.CreatedAt, schema.Contact.UpdatedAt,
		schema.Contact.ID, schema.Contact.CreatedAt, schema.Contact.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		ownerID, contact.FirstName, contact.LastName, contact.Birthday.Time,
		contact.Email, contact.PhoneNumber, contact.Info,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return classifyWrite(err, "postgres_contact_repo_create_failed")
	}

	contact.UserID = ownerID
	return nil
}

func (repository *PostgresRepository) Update(context context.Context, ownerID string, id int64, fields Fields) (*Contact, error) {
	query := fmt.Sprintf(`
		UPDATE %[1]s
		SET %[2]s = COALESCE($3, %[2]s),
		    %[3]s = COALESCE($4, %[3]s),
		    %[4]s = COALESCE($5, %[4]s),
		    %[5]s = COALESCE($6, %[5]s),
		    %[6]s = COALESCE($7, %[6]s),
		    %[7]s = COALESCE($8, %[7]s),
		    %[8]s = NOW()
		WHERE %[9]s = $1 AND %[10]s = $2
		RETURNING %[11]s
	`,
		schema.Contact.Table,
		schema.Contact.FirstName, schema.Contact.LastName, schema.Contact.Birthday,
		schema.Contact.Email, schema.Contact.PhoneNumber, schema.Contact.Info,
		schema.Contact.UpdatedAt, schema.Contact.ID, schema.Contact.UserID,
		selectColumns,
	)

	var birthday *time.Time
	if fields.Birthday != nil {
		birthday = &fields.Birthday.Time
	}

	contact, err := scanContact(repository.db.QueryRow(context, query,
		id, ownerID, fields.FirstName, fields.LastName, birthday,
		fields.Email, fields.PhoneNumber, fields.Info,
	))
	if dberr.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, classifyWrite(err, "postgres_contact_repo_update_failed")
	}
	return contact, nil
}

func (repository *PostgresRepository) Delete(context context.Context, ownerID string, id int64) (*Contact, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2 RETURNING %s`,
		schema.Contact.Table, schema.Contact.ID, schema.Contact.UserID, selectColumns,
	)

	contact, err := scanContact(repository.db.QueryRow(context, query, id, ownerID))
	if dberr.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_contact_repo_delete_failed")
	}
	return contact, nil
}

func (repository *PostgresRepository) ExistsDuplicate(context context.Context, ownerID, email, phoneNumber string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND (%s = $2 OR %s = $3))`,
		schema.Contact.Table, schema.Contact.UserID, schema.Contact.Email, schema.Contact.PhoneNumber,
	)

	var exists bool
	if err := repository.db.QueryRow(context, query, ownerID, email, phoneNumber).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "postgres_contact_repo_exists_failed")
	}
	return exists, nil
}

// UpcomingBirthdays narrows candidates by birth month in SQL and applies the
// exact calendar window in Go, which handles year wrap and leap days.
func (repository *PostgresRepository) UpcomingBirthdays(context context.Context, ownerID string, days int) ([]*Contact, error) {
	today := repository.now()

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND CAST(EXTRACT(MONTH FROM %s) AS INTEGER) = ANY($2)
	`,
		selectColumns, schema.Contact.Table, schema.Contact.UserID, schema.Contact.Birthday,
	)

	rows, err := repository.db.Query(context, query, ownerID, WindowMonths(today, days))
	if err != nil {
		return nil, dberr.Wrap(err, "postgres_contact_repo_birthdays_failed")
	}

	candidates, err := collectContacts(rows, "postgres_contact_repo_birthdays_failed")
	if err != nil {
		return nil, err
	}

	return Upcoming(candidates, today, days), nil
}

// # Scanning

func scanContact(row pgx.Row) (*Contact, error) {
	contact := &Contact{}
	err := row.Scan(
		&contact.ID, &contact.UserID, &contact.FirstName, &contact.LastName, &contact.Birthday.Time,
		&contact.Email, &contact.PhoneNumber, &contact.Info, &contact.CreatedAt, &contact.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return contact, nil
}

func collectContacts(rows pgx.Rows, action string) ([]*Contact, error) {
	defer rows.Close()

	contacts := make([]*Contact, 0)
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		contacts = append(contacts, contact)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, action)
	}
	return contacts, nil
}

// classifyWrite maps a unique violation on the owner's email or phone index to
// [ErrDuplicate].
func classifyWrite(err error, action string) error {
	if constraint, ok := dberr.UniqueViolation(err); ok {
		if constraint == schema.Contact.UniqueEmail || constraint == schema.Contact.UniquePhone {
			return ErrDuplicate
		}
	}
	return dberr.Wrap(err, action)
}
