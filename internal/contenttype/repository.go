package contenttype

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rumbo-cms/rumbo/internal/database"
)

// ErrNotFound is returned when a content type does not exist.
var ErrNotFound = errors.New("content type not found")

// ErrAlreadyExists is returned when a content type or field with the same
// api identifier already exists.
var ErrAlreadyExists = errors.New("already exists")

// Repository handles database operations for content type definitions.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new content type Repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// List returns all content types with their fields in position order,
// sorted by api identifier for deterministic output.
func (r *Repository) List(ctx context.Context) ([]ContentType, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT id, api_identifier, display_name, public_read, created_at, updated_at
		FROM content_types
		ORDER BY api_identifier`)
	if err != nil {
		return nil, fmt.Errorf("querying content types: %w", err)
	}
	defer rows.Close()

	types, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (ContentType, error) {
		var ct ContentType
		err := row.Scan(&ct.ID, &ct.APIIdentifier, &ct.DisplayName, &ct.PublicRead, &ct.CreatedAt, &ct.UpdatedAt)
		return ct, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning content types: %w", err)
	}

	for i := range types {
		fields, err := r.listFields(ctx, types[i].ID)
		if err != nil {
			return nil, err
		}
		types[i].Fields = fields
	}

	return types, nil
}

// GetByIdentifier returns the content type with the given api identifier,
// including its fields in position order.
func (r *Repository) GetByIdentifier(ctx context.Context, apiID string) (ContentType, error) {
	var ct ContentType
	err := r.db.Pool().QueryRow(ctx, `
		SELECT id, api_identifier, display_name, public_read, created_at, updated_at
		FROM content_types
		WHERE api_identifier = $1`, apiID,
	).Scan(&ct.ID, &ct.APIIdentifier, &ct.DisplayName, &ct.PublicRead, &ct.CreatedAt, &ct.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ContentType{}, ErrNotFound
		}
		return ContentType{}, fmt.Errorf("querying content type: %w", err)
	}

	ct.Fields, err = r.listFields(ctx, ct.ID)
	if err != nil {
		return ContentType{}, err
	}

	return ct, nil
}

// listFields returns the fields of a content type in position order.
func (r *Repository) listFields(ctx context.Context, contentTypeID string) ([]Field, error) {
	rows, err := r.db.Pool().Query(ctx, `
		SELECT id, api_identifier, label, type, required, position
		FROM content_fields
		WHERE content_type_id = $1
		ORDER BY position`, contentTypeID)
	if err != nil {
		return nil, fmt.Errorf("querying fields: %w", err)
	}
	defer rows.Close()

	fields, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Field, error) {
		var f Field
		err := row.Scan(&f.ID, &f.APIIdentifier, &f.Label, &f.Type, &f.Required, &f.Position)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning fields: %w", err)
	}

	return fields, nil
}

// Create inserts a content type and its fields in a single transaction.
// The ID fields of ct and its fields are populated on success.
func (r *Repository) Create(ctx context.Context, ct *ContentType) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	ct.ID = uuid.NewString()
	err = tx.QueryRow(ctx, `
		INSERT INTO content_types (id, api_identifier, display_name, public_read)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (api_identifier) DO NOTHING
		RETURNING created_at, updated_at`,
		ct.ID, ct.APIIdentifier, ct.DisplayName, ct.PublicRead,
	).Scan(&ct.CreatedAt, &ct.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("content type %q: %w", ct.APIIdentifier, ErrAlreadyExists)
		}
		return fmt.Errorf("inserting content type: %w", err)
	}

	for i := range ct.Fields {
		ct.Fields[i].ID = uuid.NewString()
		ct.Fields[i].Position = i
		_, err := tx.Exec(ctx, `
			INSERT INTO content_fields (id, content_type_id, api_identifier, label, type, required, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			ct.Fields[i].ID, ct.ID, ct.Fields[i].APIIdentifier, ct.Fields[i].Label,
			ct.Fields[i].Type, ct.Fields[i].Required, i,
		)
		if err != nil {
			return fmt.Errorf("inserting field %q: %w", ct.Fields[i].APIIdentifier, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing content type: %w", err)
	}
	return nil
}

// AddField appends a field to an existing content type at the next position.
// The field's ID and Position are populated on success.
func (r *Repository) AddField(ctx context.Context, contentTypeID string, f *Field) error {
	f.ID = uuid.NewString()
	err := r.db.Pool().QueryRow(ctx, `
		INSERT INTO content_fields (id, content_type_id, api_identifier, label, type, required, position)
		VALUES ($1, $2, $3, $4, $5, $6,
			(SELECT COALESCE(MAX(position) + 1, 0) FROM content_fields WHERE content_type_id = $2))
		RETURNING position`,
		f.ID, contentTypeID, f.APIIdentifier, f.Label, f.Type, f.Required,
	).Scan(&f.Position)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("field %q: %w", f.APIIdentifier, ErrAlreadyExists)
		}
		return fmt.Errorf("inserting field: %w", err)
	}
	return nil
}

// UpdateFieldLabel changes a field's label and required flag. The api
// identifier and type are deliberately not updatable here: renaming the
// identifier orphans stored values and retyping invalidates them.
func (r *Repository) UpdateFieldLabel(ctx context.Context, fieldID, label string, required bool) error {
	tag, err := r.db.Pool().Exec(ctx, `
		UPDATE content_fields SET label = $2, required = $3 WHERE id = $1`,
		fieldID, label, required)
	if err != nil {
		return fmt.Errorf("updating field: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountEntries returns the number of entries stored for a content type.
func (r *Repository) CountEntries(ctx context.Context, contentTypeID string) (int, error) {
	var count int
	err := r.db.Pool().QueryRow(ctx,
		`SELECT COUNT(*) FROM entries WHERE content_type_id = $1`, contentTypeID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}
