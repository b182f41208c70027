package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// eventChannelSize is the buffer for the async event channel. When the
// channel is full, events are dropped with a warning log rather than
// blocking the request.
const eventChannelSize = 256

// Event describes an admin action to be recorded.
type Event struct {
	Action     string         // e.g. "entry.publish", "admin.login.success"
	ActorID    string         // admin UUID, empty for failed logins
	Resource   string         // e.g. "plan", "media"
	ResourceID string         // UUID of the affected resource
	Payload    map[string]any // optional extra context
}

// Service provides asynchronous audit logging. Events are queued on a
// buffered channel and written to the database by a background goroutine.
type Service struct {
	repo    *Repository
	eventCh chan Event
	done    chan struct{}
	dropped atomic.Uint64
}

// NewService creates a new audit Service. Call Start to begin processing
// events and Shutdown to drain and stop.
func NewService(repo *Repository) *Service {
	return &Service{
		repo:    repo,
		eventCh: make(chan Event, eventChannelSize),
		done:    make(chan struct{}),
	}
}

// Log queues an audit event for asynchronous persistence. It never blocks;
// when the channel is full the event is dropped and counted.
func (s *Service) Log(ctx context.Context, event Event) {
	select {
	case s.eventCh <- event:
	default:
		dropped := s.dropped.Add(1)
		slog.Warn("audit channel full, dropping event",
			"action", event.Action,
			"resource", event.Resource,
			"resource_id", event.ResourceID,
			"total_dropped", dropped,
		)
	}
}

// Start launches the background writer goroutine. Must be called once.
func (s *Service) Start() {
	go s.processEvents()
}

// Shutdown stops accepting events, drains the channel, and waits for the
// writer to finish. The context bounds how long the caller is willing to
// wait; even on timeout the writer is always waited for, so no database
// write races the pool closing.
func (s *Service) Shutdown(ctx context.Context) {
	close(s.eventCh)

	select {
	case <-s.done:
		slog.Info("audit service shutdown complete")
	case <-ctx.Done():
		slog.Warn("audit service shutdown timeout, still waiting for drain")
		<-s.done
	}
}

func (s *Service) processEvents() {
	defer close(s.done)

	for event := range s.eventCh {
		s.writeEvent(event)
	}
}

// writeEvent persists one event. Errors are logged, never propagated.
func (s *Service) writeEvent(event Event) {
	// The originating request context may already be cancelled by the
	// time the event is dequeued, so use a fresh one.
	ctx := context.Background()

	if err := s.repo.Insert(ctx, event); err != nil {
		slog.Error("failed to write audit event",
			"action", event.Action,
			"resource", event.Resource,
			"resource_id", event.ResourceID,
			"error", err,
		)
	}
}

// DroppedCount returns the number of events dropped since start.
func (s *Service) DroppedCount() uint64 {
	return s.dropped.Load()
}

// List retrieves a paginated, filtered list of audit records.
func (s *Service) List(ctx context.Context, filters Filters, page, perPage int) ([]*Record, int, error) {
	return s.repo.List(ctx, filters, page, perPage)
}
