package entry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rumbo-cms/rumbo/internal/database"
	"github.com/rumbo-cms/rumbo/internal/search"
)

// ErrNotFound is returned when a content entry does not exist.
var ErrNotFound = errors.New("content entry not found")

// Status is the publication state of an entry. It controls public
// visibility only and has no other side effects.
type Status string

// Entry publication states.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// validStatuses is the set of accepted status values.
var validStatuses = map[Status]bool{
	StatusDraft:     true,
	StatusPublished: true,
	StatusArchived:  true,
}

// Entry is one stored instance of a content type. Data is the schema-less
// value map, stored and returned byte-for-byte as JSONB.
type Entry struct {
	ID            string     `json:"id"`
	ContentTypeID string     `json:"content_type_id"`
	Data          ValueMap   `json:"data"`
	Status        Status     `json:"status"`
	CreatedBy     *string    `json:"created_by,omitempty"`
	UpdatedBy     *string    `json:"updated_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// Repository is the persistence gateway for content entries. It performs no
// schema enforcement on the data column: validation belongs to the service
// layer at write time, tolerance to the display layer at read time.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new entry Repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// entryColumns is the SELECT list shared by all queries that scan entries.
const entryColumns = "id, content_type_id, data, status, created_by, updated_by, created_at, updated_at, published_at"

// scanEntry scans one row into an Entry. The data column arrives as raw
// JSONB bytes and is decoded into the value map.
func scanEntry(row pgx.CollectableRow) (Entry, error) {
	var e Entry
	var data []byte
	err := row.Scan(&e.ID, &e.ContentTypeID, &data, &e.Status,
		&e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt, &e.PublishedAt)
	if err != nil {
		return Entry{}, err
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &e.Data); err != nil {
			return Entry{}, fmt.Errorf("decoding entry data: %w", err)
		}
	}
	if e.Data == nil {
		e.Data = ValueMap{}
	}
	return e, nil
}

// List retrieves a paginated list of entries for a content type, with
// optional status filter, per-field value filters (matched against the
// JSONB data by key), and a substring search over the serialized data.
func (r *Repository) List(ctx context.Context, contentTypeID string, q QueryParams, publishedOnly bool) ([]Entry, int, error) {
	whereParts := []string{"content_type_id = $1"}
	args := []any{contentTypeID}
	argIdx := 2

	if publishedOnly {
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, StatusPublished)
		argIdx++
	} else if q.Status != "" {
		whereParts = append(whereParts, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, q.Status)
		argIdx++
	}

	// Sort filter keys for deterministic parameter ordering.
	filterKeys := make([]string, 0, len(q.Filters))
	for key := range q.Filters {
		filterKeys = append(filterKeys, key)
	}
	sort.Strings(filterKeys)

	for _, key := range filterKeys {
		// The key is bound as a parameter to the ->> operator, so user
		// input never reaches the SQL text itself.
		whereParts = append(whereParts, fmt.Sprintf("data ->> $%d = $%d", argIdx, argIdx+1))
		args = append(args, key, q.Filters[key])
		argIdx += 2
	}

	if clause, searchArgs := search.BuildSearchClause(q.Search, argIdx); clause != "" {
		whereParts = append(whereParts, clause)
		args = append(args, searchArgs...)
		argIdx += len(searchArgs)
	}

	whereClause := "WHERE " + strings.Join(whereParts, " AND ")

	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM entries %s", whereClause)
	var total int
	if err := r.db.Pool().QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting entries: %w", err)
	}

	orderDir := "DESC"
	if strings.EqualFold(q.Order, "asc") {
		orderDir = "ASC"
	}

	offset := (q.Page - 1) * q.PerPage
	dataSQL := fmt.Sprintf("SELECT %s FROM entries %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		entryColumns, whereClause, q.Sort, orderDir, argIdx, argIdx+1)
	args = append(args, q.PerPage, offset)

	rows, err := r.db.Pool().Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	entries, err := pgx.CollectRows(rows, scanEntry)
	if err != nil {
		return nil, 0, fmt.Errorf("scanning entries: %w", err)
	}

	return entries, total, nil
}

// GetByID retrieves a single entry by UUID, scoped to a content type.
func (r *Repository) GetByID(ctx context.Context, contentTypeID, id string, publishedOnly bool) (Entry, error) {
	sql := fmt.Sprintf("SELECT %s FROM entries WHERE content_type_id = $1 AND id = $2", entryColumns)
	args := []any{contentTypeID, id}

	if publishedOnly {
		sql += " AND status = $3"
		args = append(args, StatusPublished)
	}

	rows, err := r.db.Pool().Query(ctx, sql, args...)
	if err != nil {
		return Entry{}, fmt.Errorf("querying entry: %w", err)
	}
	defer rows.Close()

	e, err := pgx.CollectOneRow(rows, scanEntry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("scanning entry: %w", err)
	}

	return e, nil
}

// Insert creates a new entry and returns the full stored row.
func (r *Repository) Insert(ctx context.Context, contentTypeID string, data ValueMap, status Status, adminID string) (Entry, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding entry data: %w", err)
	}

	id := uuid.NewString()
	sql := fmt.Sprintf(`
		INSERT INTO entries (id, content_type_id, data, status, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING %s`, entryColumns)

	rows, err := r.db.Pool().Query(ctx, sql, id, contentTypeID, payload, status, nullIfEmpty(adminID))
	if err != nil {
		return Entry{}, fmt.Errorf("inserting entry: %w", err)
	}
	defer rows.Close()

	e, err := pgx.CollectOneRow(rows, scanEntry)
	if err != nil {
		return Entry{}, fmt.Errorf("scanning inserted entry: %w", err)
	}
	return e, nil
}

// Update replaces an entry's data and status and returns the full updated
// row. The write is unconditional: concurrent editors race and the last
// write wins.
func (r *Repository) Update(ctx context.Context, contentTypeID, id string, data ValueMap, status Status, adminID string) (Entry, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return Entry{}, fmt.Errorf("encoding entry data: %w", err)
	}

	sql := fmt.Sprintf(`
		UPDATE entries
		SET data = $3, status = $4, updated_by = $5, updated_at = now()
		WHERE content_type_id = $1 AND id = $2
		RETURNING %s`, entryColumns)

	rows, err := r.db.Pool().Query(ctx, sql, contentTypeID, id, payload, status, nullIfEmpty(adminID))
	if err != nil {
		return Entry{}, fmt.Errorf("updating entry: %w", err)
	}
	defer rows.Close()

	e, err := pgx.CollectOneRow(rows, scanEntry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("scanning updated entry: %w", err)
	}
	return e, nil
}

// SetStatus transitions an entry to the given status. Publishing stamps
// published_at; other transitions leave it untouched.
func (r *Repository) SetStatus(ctx context.Context, contentTypeID, id string, status Status, adminID string) (Entry, error) {
	publishedAt := ""
	if status == StatusPublished {
		publishedAt = ", published_at = now()"
	}

	sql := fmt.Sprintf(`
		UPDATE entries
		SET status = $3, updated_by = $4, updated_at = now()%s
		WHERE content_type_id = $1 AND id = $2
		RETURNING %s`, publishedAt, entryColumns)

	rows, err := r.db.Pool().Query(ctx, sql, contentTypeID, id, status, nullIfEmpty(adminID))
	if err != nil {
		return Entry{}, fmt.Errorf("setting entry status: %w", err)
	}
	defer rows.Close()

	e, err := pgx.CollectOneRow(rows, scanEntry)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("scanning entry: %w", err)
	}
	return e, nil
}

// Delete removes an entry. Deleting a missing entry returns ErrNotFound.
func (r *Repository) Delete(ctx context.Context, contentTypeID, id string) error {
	tag, err := r.db.Pool().Exec(ctx,
		"DELETE FROM entries WHERE content_type_id = $1 AND id = $2", contentTypeID, id)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// nullIfEmpty maps an empty admin ID to SQL NULL.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
