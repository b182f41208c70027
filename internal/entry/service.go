package entry

import (
	"context"
	"errors"
	"fmt"

	"github.com/rumbo-cms/rumbo/internal/audit"
	"github.com/rumbo-cms/rumbo/internal/contenttype"
	"github.com/rumbo-cms/rumbo/internal/server"
)

// Service implements the business logic for entry CRUD operations: default
// filling, schema validation at write time, status transitions, and audit
// logging. Writes are last-write-wins; there is no version stamping or
// conflict detection between concurrent editors.
type Service struct {
	repo         *Repository
	types        *contenttype.Service
	auditService *audit.Service
}

// NewService creates a new entry Service. The audit service is optional;
// if nil, audit events are silently skipped.
func NewService(repo *Repository, types *contenttype.Service, auditService *audit.Service) *Service {
	return &Service{
		repo:         repo,
		types:        types,
		auditService: auditService,
	}
}

// logAudit sends an audit event if the audit service is configured.
func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	if s.auditService != nil {
		s.auditService.Log(ctx, event)
	}
}

// ValidationError is returned when entry data fails schema validation.
type ValidationError struct {
	Fields []server.FieldError
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d field errors", len(e.Fields))
}

// resolve looks up the content type for an api identifier.
func (s *Service) resolve(apiID string) (contenttype.ContentType, error) {
	ct, ok := s.types.Get(apiID)
	if !ok {
		return contenttype.ContentType{}, ErrNotFound
	}
	return ct, nil
}

// List retrieves a paginated list of entries for a content type.
func (s *Service) List(ctx context.Context, apiID string, q QueryParams, publishedOnly bool) ([]Entry, int, error) {
	ct, err := s.resolve(apiID)
	if err != nil {
		return nil, 0, err
	}

	entries, total, err := s.repo.List(ctx, ct.ID, q, publishedOnly)
	if err != nil {
		return nil, 0, fmt.Errorf("listing %s entries: %w", apiID, err)
	}
	return entries, total, nil
}

// GetByID retrieves a single entry.
func (s *Service) GetByID(ctx context.Context, apiID, id string, publishedOnly bool) (Entry, error) {
	ct, err := s.resolve(apiID)
	if err != nil {
		return Entry{}, err
	}

	e, err := s.repo.GetByID(ctx, ct.ID, id, publishedOnly)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("getting %s entry: %w", apiID, err)
	}
	return e, nil
}

// Create fills defaults, validates, and inserts a new entry as a draft. A
// validation failure leaves nothing persisted: the caller's draft is
// unchanged and can simply be resubmitted.
func (s *Service) Create(ctx context.Context, apiID string, data ValueMap, adminID string) (Entry, error) {
	ct, err := s.resolve(apiID)
	if err != nil {
		return Entry{}, err
	}

	full := Defaults(ct.Fields, data)
	if errs := GenerateSchema(ct.Fields).Validate(full); len(errs) > 0 {
		return Entry{}, &ValidationError{Fields: errs}
	}

	e, err := s.repo.Insert(ctx, ct.ID, full, StatusDraft, adminID)
	if err != nil {
		return Entry{}, fmt.Errorf("creating %s entry: %w", apiID, err)
	}

	s.logAudit(ctx, audit.Event{
		Action:     "entry.create",
		ActorID:    adminID,
		Resource:   apiID,
		ResourceID: e.ID,
	})
	return e, nil
}

// Update merges incoming data over the stored value map (incoming wins),
// fills defaults for newly added fields, validates against the current
// descriptor list, and persists. Orphaned keys in the stored map are
// carried along untouched: they are tolerated at rest and ignored by the
// validator.
func (s *Service) Update(ctx context.Context, apiID, id string, data ValueMap, adminID string) (Entry, error) {
	ct, err := s.resolve(apiID)
	if err != nil {
		return Entry{}, err
	}

	stored, err := s.repo.GetByID(ctx, ct.ID, id, false)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("loading %s entry for update: %w", apiID, err)
	}

	merged := make(ValueMap, len(stored.Data)+len(data))
	for k, v := range stored.Data {
		merged[k] = v
	}
	for k, v := range data {
		merged[k] = v
	}
	full := Defaults(ct.Fields, merged)

	if errs := GenerateSchema(ct.Fields).Validate(full); len(errs) > 0 {
		return Entry{}, &ValidationError{Fields: errs}
	}

	e, err := s.repo.Update(ctx, ct.ID, id, full, stored.Status, adminID)
	if err != nil {
		return Entry{}, fmt.Errorf("updating %s entry: %w", apiID, err)
	}

	s.logAudit(ctx, audit.Event{
		Action:     "entry.update",
		ActorID:    adminID,
		Resource:   apiID,
		ResourceID: id,
	})
	return e, nil
}

// Publish sets an entry's status to published and stamps published_at.
func (s *Service) Publish(ctx context.Context, apiID, id, adminID string) (Entry, error) {
	return s.transition(ctx, apiID, id, StatusPublished, "entry.publish", adminID)
}

// Archive sets an entry's status to archived, removing it from public view.
func (s *Service) Archive(ctx context.Context, apiID, id, adminID string) (Entry, error) {
	return s.transition(ctx, apiID, id, StatusArchived, "entry.archive", adminID)
}

// transition applies a status change and logs the audit event.
func (s *Service) transition(ctx context.Context, apiID, id string, status Status, action, adminID string) (Entry, error) {
	ct, err := s.resolve(apiID)
	if err != nil {
		return Entry{}, err
	}

	e, err := s.repo.SetStatus(ctx, ct.ID, id, status, adminID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Entry{}, err
		}
		return Entry{}, fmt.Errorf("%s on %s entry: %w", action, apiID, err)
	}

	s.logAudit(ctx, audit.Event{
		Action:     action,
		ActorID:    adminID,
		Resource:   apiID,
		ResourceID: id,
	})
	return e, nil
}

// Delete removes an entry permanently.
func (s *Service) Delete(ctx context.Context, apiID, id, adminID string) error {
	ct, err := s.resolve(apiID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, ct.ID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("deleting %s entry: %w", apiID, err)
	}

	s.logAudit(ctx, audit.Event{
		Action:     "entry.delete",
		ActorID:    adminID,
		Resource:   apiID,
		ResourceID: id,
	})
	return nil
}
