package plugin

import (
	"context"
	"fmt"

	"github.com/rumbo-cms/rumbo/internal/audit"
)

// Well-known plugin names seeded by migration.
const (
	PublicSite = "public_site"
	Gallery    = "gallery"
)

// Service provides plugin configuration lookups and updates.
type Service struct {
	repo         *Repository
	auditService *audit.Service
}

// NewService creates a new plugin Service. The audit service is optional.
func NewService(repo *Repository, auditService *audit.Service) *Service {
	return &Service{repo: repo, auditService: auditService}
}

// List returns all plugins.
func (s *Service) List(ctx context.Context) ([]Plugin, error) {
	return s.repo.List(ctx)
}

// Enabled reports whether the named plugin is enabled. Lookup failures
// count as disabled so public surfaces fail closed.
func (s *Service) Enabled(ctx context.Context, name string) bool {
	p, err := s.repo.Get(ctx, name)
	if err != nil {
		return false
	}
	return p.Enabled
}

// Update sets the enabled flag and settings for a plugin and records an
// audit event.
func (s *Service) Update(ctx context.Context, name string, enabled bool, settings map[string]any, adminID string) (Plugin, error) {
	p, err := s.repo.Update(ctx, name, enabled, settings)
	if err != nil {
		return Plugin{}, fmt.Errorf("updating plugin %s: %w", name, err)
	}

	if s.auditService != nil {
		s.auditService.Log(ctx, audit.Event{
			Action:     "plugin.update",
			ActorID:    adminID,
			Resource:   "plugins",
			ResourceID: name,
			Payload:    map[string]any{"enabled": enabled},
		})
	}
	return p, nil
}
