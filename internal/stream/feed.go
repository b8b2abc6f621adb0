package stream

// feed.go is the push-based supplement to the notification poller: a
// websocket subscription that delivers notifications as the server
// emits them and redials after a fixed delay when the connection
// drops. Pages that cannot hold a socket fall back to polling.

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"agriport/internal/api"
	"agriport/internal/session"
)

const defaultReconnectDelay = 5 * time.Second

type Feed struct {
	wsURL          string
	authScheme     string
	sessions       session.Store
	dialer         *websocket.Dialer
	reconnectDelay time.Duration
	logger         zerolog.Logger
}

func NewFeed(wsURL, authScheme string, sessions session.Store, logger zerolog.Logger) *Feed {
	return &Feed{
		wsURL:          wsURL,
		authScheme:     authScheme,
		sessions:       sessions,
		dialer:         websocket.DefaultDialer,
		reconnectDelay: defaultReconnectDelay,
		logger:         logger.With().Str("component", "stream").Logger(),
	}
}

// Watch subscribes to the current session's notification feed. The
// returned channel closes when ctx is cancelled. Connection drops are
// retried forever with a fixed delay; a missing session is an error
// because the endpoint is per-user.
func (f *Feed) Watch(ctx context.Context) (<-chan api.Notification, error) {
	s, err := f.sessions.Read()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("cannot watch notifications without a session")
	}

	endpoint := fmt.Sprintf("%s/ws/notifications/%s/%d/",
		f.wsURL, strings.ToLower(string(s.UserType)), s.UserID)

	header := http.Header{}
	header.Set("Authorization", f.authScheme+" "+s.Token)

	out := make(chan api.Notification)
	go f.run(ctx, endpoint, header, out)
	return out, nil
}

func (f *Feed) run(ctx context.Context, endpoint string, header http.Header, out chan<- api.Notification) {
	defer close(out)

	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := f.dialer.DialContext(ctx, endpoint, header)
		if err != nil {
			f.logger.Warn().Err(err).Msg("websocket dial failed, will retry")
			if !f.sleep(ctx) {
				return
			}
			continue
		}

		f.logger.Debug().Str("endpoint", endpoint).Msg("websocket connected")
		f.read(ctx, conn, out)
		conn.Close()

		if !f.sleep(ctx) {
			return
		}
	}
}

// read pumps notifications until the connection fails or ctx ends.
func (f *Feed) read(ctx context.Context, conn *websocket.Conn, out chan<- api.Notification) {
	// unblock ReadJSON when the context is cancelled
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	for {
		var n api.Notification
		if err := conn.ReadJSON(&n); err != nil {
			if ctx.Err() == nil {
				f.logger.Warn().Err(err).Msg("websocket read failed, reconnecting")
			}
			return
		}

		select {
		case out <- n:
		case <-ctx.Done():
			return
		}
	}
}

// sleep waits out the reconnect delay; false means ctx ended first.
func (f *Feed) sleep(ctx context.Context) bool {
	select {
	case <-time.After(f.reconnectDelay):
		return true
	case <-ctx.Done():
		return false
	}
}
