// Package plugin manages optional site features that can be toggled at
// runtime, such as the public site renderer and the media gallery.
package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rumbo-cms/rumbo/internal/database"
)

// ErrNotFound is returned when a plugin row does not exist. Plugin rows
// are seeded by migration; unknown names are never created on demand.
var ErrNotFound = errors.New("plugin not found")

// Plugin is a row from the plugins table.
type Plugin struct {
	Name      string         `json:"name"`
	Enabled   bool           `json:"enabled"`
	Settings  map[string]any `json:"settings"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Repository provides database operations for the plugins table.
type Repository struct {
	db *database.DB
}

// NewRepository creates a new plugin Repository.
func NewRepository(db *database.DB) *Repository {
	return &Repository{db: db}
}

// List returns all plugins ordered by name.
func (r *Repository) List(ctx context.Context) ([]Plugin, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT name, enabled, settings, updated_at FROM plugins ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing plugins: %w", err)
	}
	defer rows.Close()

	plugins, err := pgx.CollectRows(rows, scanPlugin)
	if err != nil {
		return nil, fmt.Errorf("scanning plugins: %w", err)
	}
	return plugins, nil
}

// Get returns a single plugin by name.
func (r *Repository) Get(ctx context.Context, name string) (Plugin, error) {
	rows, err := r.db.Pool().Query(ctx,
		`SELECT name, enabled, settings, updated_at FROM plugins WHERE name = $1`, name)
	if err != nil {
		return Plugin{}, fmt.Errorf("querying plugin: %w", err)
	}
	defer rows.Close()

	p, err := pgx.CollectOneRow(rows, scanPlugin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plugin{}, ErrNotFound
		}
		return Plugin{}, fmt.Errorf("scanning plugin: %w", err)
	}
	return p, nil
}

// Update sets the enabled flag and settings for a plugin.
func (r *Repository) Update(ctx context.Context, name string, enabled bool, settings map[string]any) (Plugin, error) {
	settingsJSON, err := json.Marshal(settings)
	if err != nil {
		return Plugin{}, fmt.Errorf("marshaling plugin settings: %w", err)
	}
	if settings == nil {
		settingsJSON = []byte("{}")
	}

	rows, err := r.db.Pool().Query(ctx,
		`UPDATE plugins SET enabled = $2, settings = $3, updated_at = now()
		 WHERE name = $1
		 RETURNING name, enabled, settings, updated_at`,
		name, enabled, settingsJSON)
	if err != nil {
		return Plugin{}, fmt.Errorf("updating plugin: %w", err)
	}
	defer rows.Close()

	p, err := pgx.CollectOneRow(rows, scanPlugin)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Plugin{}, ErrNotFound
		}
		return Plugin{}, fmt.Errorf("scanning updated plugin: %w", err)
	}
	return p, nil
}

func scanPlugin(row pgx.CollectableRow) (Plugin, error) {
	var p Plugin
	var settingsJSON []byte
	if err := row.Scan(&p.Name, &p.Enabled, &settingsJSON, &p.UpdatedAt); err != nil {
		return Plugin{}, err
	}
	if err := json.Unmarshal(settingsJSON, &p.Settings); err != nil {
		return Plugin{}, fmt.Errorf("unmarshaling plugin settings: %w", err)
	}
	if p.Settings == nil {
		p.Settings = map[string]any{}
	}
	return p, nil
}
