package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/solforge/internal/config"
	"github.com/specialistvlad/solforge/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// ConnectTimeout bounds the initial socket.io handshake.
var ConnectTimeout = 15 * time.Second

// SocketIO emits build events on a socket.io connection.
type SocketIO struct {
	event  string
	client *socket.Socket
}

// DialSocketIO connects to the endpoint described by settings and waits for
// the handshake to finish.
func DialSocketIO(ctx context.Context, settings config.NotifySettings) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", settings.URL)

	parsedURL, err := url.Parse(settings.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notify URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("notify URL %q must be absolute", settings.URL)
	}

	opts := socket.DefaultOptions()
	if parsedURL.Path != "" && parsedURL.Path != "/" {
		opts.SetPath(parsedURL.Path)
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(settings.Namespace, opts)

	connectChan := make(chan error, 1)
	io.Once(types.EventName("connect"), func(...any) {
		logger.Debug("Notifier connected.", "sid", io.Id())
		connectChan <- nil
	})
	io.Once(types.EventName("connect_error"), func(errs ...any) {
		err := errors.New("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIO{event: settings.Event, client: io}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection: %w", ctx.Err())
	case <-time.After(ConnectTimeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", ConnectTimeout)
	}
}

// Notify emits ev under the configured event name.
func (s *SocketIO) Notify(ctx context.Context, ev Event) error {
	if !s.client.Connected() {
		return errors.New("socket.io notifier is not connected")
	}
	payload := ev.Payload()
	if data, err := json.Marshal(payload); err == nil {
		ctxlog.FromContext(ctx).Debug("Emitting build event", "event", s.event, "data", string(data))
	}
	s.client.Emit(s.event, payload)
	return nil
}

// Close disconnects from the endpoint.
func (s *SocketIO) Close() error {
	s.client.Disconnect()
	return nil
}
