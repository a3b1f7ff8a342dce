// Package notify publishes a summary of every build to interested listeners,
// such as a dapp dev server that reloads ABIs when a build finishes.
package notify

import (
	"context"
	"time"
)

// Event is the payload emitted after each pipeline run.
type Event struct {
	RunID     string
	Pattern   string
	Success   bool
	Contracts int
	Warnings  int
	Errors    int
	Failure   string // fatal pipeline error, if any
	Duration  time.Duration
}

// Payload renders the event as the JSON object sent over the wire.
func (e Event) Payload() map[string]any {
	p := map[string]any{
		"run_id":      e.RunID,
		"pattern":     e.Pattern,
		"success":     e.Success,
		"contracts":   e.Contracts,
		"warnings":    e.Warnings,
		"errors":      e.Errors,
		"duration_ms": e.Duration.Milliseconds(),
	}
	if e.Failure != "" {
		p["failure"] = e.Failure
	}
	return p
}

// Notifier delivers build events.
type Notifier interface {
	Notify(ctx context.Context, ev Event) error
	Close() error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }
func (Nop) Close() error                        { return nil }
