package notify

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPayload(t *testing.T) {
	ev := Event{
		RunID:     "run-1",
		Pattern:   "src/**/*.sol",
		Success:   false,
		Contracts: 3,
		Warnings:  1,
		Errors:    2,
		Duration:  1500 * time.Millisecond,
	}

	assert.Equal(t, map[string]any{
		"run_id":      "run-1",
		"pattern":     "src/**/*.sol",
		"success":     false,
		"contracts":   3,
		"warnings":    1,
		"errors":      2,
		"duration_ms": int64(1500),
	}, ev.Payload())

	ev.Failure = "boom"
	assert.Equal(t, "boom", ev.Payload()["failure"])
}

func TestNop(t *testing.T) {
	var n Notifier = Nop{}
	assert.NoError(t, n.Notify(context.Background(), Event{}))
	assert.NoError(t, n.Close())
}

func TestDialSocketIO_RejectsRelativeURL(t *testing.T) {
	ctx, _ := testutil.Context(t)

	_, err := DialSocketIO(ctx, config.NotifySettings{URL: "localhost:3000", Namespace: "/", Event: "build"})

	require.Error(t, err)
}

func TestDialSocketIO_UnreachableEndpointFails(t *testing.T) {
	// --- Arrange ---
	// Reserve a port and close it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	ctx, _ := testutil.Context(t)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	// --- Act ---
	_, err = DialSocketIO(ctx, config.NotifySettings{URL: "http://" + addr, Namespace: "/", Event: "build"})

	// --- Assert ---
	require.Error(t, err)
}
