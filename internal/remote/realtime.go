package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/coder/websocket"
	"github.com/rs/zerolog"
)

// Subscriber maintains the websocket connection to the per-space change
// feed, decoding events and handing them to the coordinator in receipt
// order. The connection is re-dialed with exponential backoff whenever it
// drops; Close tears it down for good.
type Subscriber struct {
	url     string
	header  http.Header
	handler func(ChangeEvent)
	log     zerolog.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// Subscribe dials the feed and starts the read loop. The handler is invoked
// from a single goroutine, so per-connection event order is preserved.
func Subscribe(baseURL, spaceID, token string, handler func(ChangeEvent), log zerolog.Logger) *Subscriber {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Subscriber{
		url:     feedURL(baseURL, spaceID),
		handler: handler,
		log:     log.With().Str("component", "realtime").Logger(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	if token != "" {
		s.header = http.Header{"Authorization": {"Bearer " + token}}
	}
	go s.run(ctx)
	return s
}

// Close stops the subscription. No handler call happens after Close
// returns.
func (s *Subscriber) Close() {
	s.cancel()
	<-s.done
}

func (s *Subscriber) run(ctx context.Context) {
	defer close(s.done)

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = time.Second
	exp.MaxInterval = 30 * time.Second
	exp.MaxElapsedTime = 0 // keep reconnecting for the life of the session

	for {
		if ctx.Err() != nil {
			return
		}
		conn, _, err := websocket.Dial(ctx, s.url, &websocket.DialOptions{
			HTTPHeader: s.header,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			wait := exp.NextBackOff()
			s.log.Debug().Err(err).Dur("retry_in", wait).Msg("feed dial failed")
			reconnectsTotal.Inc()
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return
			}
			continue
		}

		exp.Reset()
		s.log.Info().Msg("change feed connected")
		s.readLoop(ctx, conn)
		_ = conn.Close(websocket.StatusNormalClosure, "")
		if ctx.Err() == nil {
			s.log.Info().Msg("change feed disconnected, will reconnect")
		}
	}
}

func (s *Subscriber) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		var ev ChangeEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			s.log.Warn().Err(err).Msg("undecodable feed event dropped")
			continue
		}
		eventsTotal.WithLabelValues(ev.EntityType, string(ev.Op)).Inc()
		s.handler(ev)
	}
}

func feedURL(baseURL, spaceID string) string {
	url := baseURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return url + "/api/spaces/" + spaceID + "/events"
}
