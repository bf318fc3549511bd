package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"contacts_api/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the repositories use. Declared as an
// interface so tests can substitute a pgxmock pool.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ContactRepository defines persistence operations for contact records
type ContactRepository interface {
	List(ctx context.Context, limit, offset int, filters model.ContactFilters) ([]model.Contact, error)
	FindByID(ctx context.Context, id int64) (*model.Contact, error)
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, id int64, contact *model.Contact) (*model.Contact, error)
	Delete(ctx context.Context, id int64) (*model.Contact, error)
}

type contactRepository struct {
	db DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = "id, first_name, last_name, email, phone_number, birthday, additional_data"

// List retrieves contacts. When one or more filters are supplied the result
// is every contact matching ANY of them (OR-combined equality, deduplicated
// by being a single query) and limit/offset are ignored. Without filters it
// is a plain paginated listing in insertion order.
func (r *contactRepository) List(ctx context.Context, limit, offset int, filters model.ContactFilters) ([]model.Contact, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + contactColumns + " FROM contacts")

	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.FirstName != "" {
		conditions = append(conditions, fmt.Sprintf("first_name = $%d", argCount))
		args = append(args, filters.FirstName)
		argCount++
	}
	if filters.LastName != "" {
		conditions = append(conditions, fmt.Sprintf("last_name = $%d", argCount))
		args = append(args, filters.LastName)
		argCount++
	}
	if filters.Email != "" {
		conditions = append(conditions, fmt.Sprintf("email = $%d", argCount))
		args = append(args, filters.Email)
		argCount++
	}

	if len(conditions) > 0 {
		// A match on any supplied field qualifies the record.
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " OR "))
		queryBuilder.WriteString(" ORDER BY id")
	} else {
		queryBuilder.WriteString(fmt.Sprintf(" ORDER BY id LIMIT $%d OFFSET $%d", argCount, argCount+1))
		args = append(args, limit, offset)
	}

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Email,
			&c.PhoneNumber, &c.Birthday, &c.AdditionalData,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

// FindByID retrieves a contact by its ID
func (r *contactRepository) FindByID(ctx context.Context, id int64) (*model.Contact, error) {
	c := &model.Contact{}
	sql := "SELECT " + contactColumns + " FROM contacts WHERE id = $1"
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email,
		&c.PhoneNumber, &c.Birthday, &c.AdditionalData,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	return c, nil
}

// Create inserts a new contact, assigning a fresh id. Field validation has
// already happened at the boundary.
func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	sql := `INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_data)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, sql, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday, c.AdditionalData).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// Update overwrites all six mutable fields of an existing contact and returns
// the updated record, or (nil, nil) if the id does not exist.
func (r *contactRepository) Update(ctx context.Context, id int64, c *model.Contact) (*model.Contact, error) {
	updated := &model.Contact{}
	sql := `UPDATE contacts
            SET first_name = $1, last_name = $2, email = $3, phone_number = $4, birthday = $5, additional_data = $6
            WHERE id = $7 RETURNING ` + contactColumns
	err := r.db.QueryRow(ctx, sql, c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday, c.AdditionalData, id).Scan(
		&updated.ID, &updated.FirstName, &updated.LastName, &updated.Email,
		&updated.PhoneNumber, &updated.Birthday, &updated.AdditionalData,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return updated, nil
}

// Delete removes a contact and returns the removed record, or (nil, nil) if
// the id does not exist. Deletion is physical and immediate.
func (r *contactRepository) Delete(ctx context.Context, id int64) (*model.Contact, error) {
	deleted := &model.Contact{}
	sql := "DELETE FROM contacts WHERE id = $1 RETURNING " + contactColumns
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&deleted.ID, &deleted.FirstName, &deleted.LastName, &deleted.Email,
		&deleted.PhoneNumber, &deleted.Birthday, &deleted.AdditionalData,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}
	return deleted, nil
}
