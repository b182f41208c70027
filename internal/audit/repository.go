// Package audit records significant admin actions to the audit_log table.
// Writes happen on a background goroutine so that audit persistence can
// never slow down or fail an API request.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rumbo-cms/rumbo/internal/database"
)

// Record is a single row in the audit_log table.
type Record struct {
	ID         string         `json:"id"`
	Action     string         `json:"action"`
	ActorID    *string        `json:"actor_id,omitempty"`
	Resource   *string        `json:"resource,omitempty"`
	ResourceID *string        `json:"resource_id,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Filters narrows audit listings by exact action and resource match.
type Filters struct {
	Action   string
	Resource string
}

// Repository provides database operations for the audit_log table.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new audit Repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a single audit event. Empty ActorID, Resource, and
// ResourceID values are stored as NULL.
func (r *Repository) Insert(ctx context.Context, event Event) error {
	var payload []byte
	if event.Payload != nil {
		var err error
		payload, err = json.Marshal(event.Payload)
		if err != nil {
			return fmt.Errorf("marshaling audit payload: %w", err)
		}
	}

	_, err := r.db.Pool().Exec(ctx,
		`INSERT INTO audit_log (action, actor_id, resource, resource_id, payload)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.Action,
		nullIfEmpty(event.ActorID),
		nullIfEmpty(event.Resource),
		nullIfEmpty(event.ResourceID),
		nullableJSON(payload),
	)
	if err != nil {
		return fmt.Errorf("inserting audit event: %w", err)
	}
	return nil
}

// List retrieves a paginated, filtered list of audit records ordered by
// created_at DESC. Pagination parameters are validated by the caller.
func (r *Repository) List(ctx context.Context, filters Filters, page, perPage int) ([]*Record, int, error) {
	// Column names below are hardcoded; filter values are parameterized.
	var conditions []string
	var args []any
	paramIdx := 1

	if filters.Action != "" {
		conditions = append(conditions, fmt.Sprintf("action = $%d", paramIdx))
		args = append(args, filters.Action)
		paramIdx++
	}
	if filters.Resource != "" {
		conditions = append(conditions, fmt.Sprintf("resource = $%d", paramIdx))
		args = append(args, filters.Resource)
		paramIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM audit_log %s", whereClause)
	var total int
	if err := r.db.Pool().QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting audit records: %w", err)
	}

	offset := (page - 1) * perPage
	selectQuery := fmt.Sprintf(
		`SELECT id, action, actor_id, resource, resource_id, payload, created_at
		 FROM audit_log %s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		whereClause, paramIdx, paramIdx+1,
	)
	args = append(args, perPage, offset)

	rows, err := r.db.Pool().Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying audit records: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*Record, error) {
		var rec Record
		var payload []byte
		if err := row.Scan(&rec.ID, &rec.Action, &rec.ActorID, &rec.Resource, &rec.ResourceID, &payload, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if payload != nil {
			if err := json.Unmarshal(payload, &rec.Payload); err != nil {
				return nil, fmt.Errorf("unmarshaling audit payload: %w", err)
			}
		}
		return &rec, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scanning audit records: %w", err)
	}

	return records, total, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
