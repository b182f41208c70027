package audit

import (
	"context"
	"testing"
)

func TestLog_DropsWhenChannelFull(t *testing.T) {
	// No Start: nothing consumes the channel, so events past the buffer
	// capacity must be dropped rather than blocking the caller.
	s := NewService(nil)
	ctx := context.Background()

	for i := 0; i < eventChannelSize; i++ {
		s.Log(ctx, Event{Action: "entry.create"})
	}
	if got := s.DroppedCount(); got != 0 {
		t.Fatalf("dropped %d events before the buffer filled", got)
	}

	s.Log(ctx, Event{Action: "entry.create"})
	s.Log(ctx, Event{Action: "entry.delete"})

	if got := s.DroppedCount(); got != 2 {
		t.Errorf("dropped count = %d, want 2", got)
	}
}
