package contenttype

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Service provides business logic for content type management. Definitions
// are cached in memory and refreshed after every mutation so that the hot
// read path (every entry request resolves a content type) never touches the
// database.
type Service struct {
	repo *Repository

	mu    sync.RWMutex
	types map[string]ContentType
}

// NewService creates a new content type Service. Call Refresh before serving
// requests to populate the cache.
func NewService(repo *Repository) *Service {
	return &Service{
		repo:  repo,
		types: make(map[string]ContentType),
	}
}

// Refresh reloads all content type definitions from the database into the
// in-memory cache.
func (s *Service) Refresh(ctx context.Context) error {
	types, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("refreshing content types: %w", err)
	}

	byIdentifier := make(map[string]ContentType, len(types))
	for _, ct := range types {
		byIdentifier[ct.APIIdentifier] = ct
	}

	s.mu.Lock()
	s.types = byIdentifier
	s.mu.Unlock()
	return nil
}

// Seed creates any template content types that do not exist yet. Existing
// definitions are left untouched: templates are starting points, not a
// source of truth that overwrites admin edits.
func (s *Service) Seed(ctx context.Context, templates []ContentType) error {
	for _, tpl := range templates {
		ct := tpl
		err := s.repo.Create(ctx, &ct)
		if err != nil {
			if errors.Is(err, ErrAlreadyExists) {
				continue
			}
			return fmt.Errorf("seeding template %q: %w", tpl.APIIdentifier, err)
		}
		slog.Info("seeded content type from template",
			"api_identifier", ct.APIIdentifier,
			"fields", len(ct.Fields),
		)
	}
	return s.Refresh(ctx)
}

// Get returns the cached content type with the given api identifier.
func (s *Service) Get(apiID string) (ContentType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ct, ok := s.types[apiID]
	return ct, ok
}

// All returns a snapshot of all cached content types keyed by api identifier.
func (s *Service) All() map[string]ContentType {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]ContentType, len(s.types))
	for k, v := range s.types {
		snapshot[k] = v
	}
	return snapshot
}

// Create validates and persists a new content type, then refreshes the cache.
func (s *Service) Create(ctx context.Context, ct ContentType) (ContentType, error) {
	if err := ValidateDefinition(ct); err != nil {
		return ContentType{}, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	if err := s.repo.Create(ctx, &ct); err != nil {
		return ContentType{}, err
	}

	if err := s.Refresh(ctx); err != nil {
		return ContentType{}, err
	}
	return ct, nil
}

// AddField validates and appends a field to an existing content type, then
// refreshes the cache. Entries written before the field existed simply lack
// the key and are treated as empty by the display layer.
func (s *Service) AddField(ctx context.Context, apiID string, f Field) (Field, error) {
	ct, ok := s.Get(apiID)
	if !ok {
		return Field{}, ErrNotFound
	}

	candidate := ct
	candidate.Fields = append(append([]Field{}, ct.Fields...), f)
	if err := ValidateDefinition(candidate); err != nil {
		return Field{}, fmt.Errorf("%w: %w", ErrInvalidDefinition, err)
	}

	if err := s.repo.AddField(ctx, ct.ID, &f); err != nil {
		return Field{}, err
	}

	if err := s.Refresh(ctx); err != nil {
		return Field{}, err
	}
	return f, nil
}

// UpdateField changes the label and required flag of an existing field,
// then refreshes the cache. The api identifier and type of a field are
// immutable: stored entry data is keyed by identifier and validated by
// type, so changing either would silently reinterpret existing entries.
func (s *Service) UpdateField(ctx context.Context, apiID, fieldAPIID, label string, required bool) (Field, error) {
	ct, ok := s.Get(apiID)
	if !ok {
		return Field{}, ErrNotFound
	}

	f, ok := ct.FieldByIdentifier(fieldAPIID)
	if !ok {
		return Field{}, ErrNotFound
	}

	if label == "" {
		return Field{}, fmt.Errorf("%w: label is required", ErrInvalidDefinition)
	}

	if err := s.repo.UpdateFieldLabel(ctx, f.ID, label, required); err != nil {
		return Field{}, err
	}

	if err := s.Refresh(ctx); err != nil {
		return Field{}, err
	}

	f.Label = label
	f.Required = required
	return f, nil
}

// CountEntries reports the number of stored entries for a content type.
func (s *Service) CountEntries(ctx context.Context, apiID string) (int, error) {
	ct, ok := s.Get(apiID)
	if !ok {
		return 0, ErrNotFound
	}
	return s.repo.CountEntries(ctx, ct.ID)
}

// ErrInvalidDefinition is returned when a content type definition fails
// validation. The wrapped error lists every problem found.
var ErrInvalidDefinition = errors.New("invalid content type definition")
