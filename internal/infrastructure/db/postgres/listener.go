package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/lumenpaints/erp-backend/internal/core/ports"
)

const (
	notifyChannel    = "erp_changes"
	reconnectBackoff = 5 * time.Second
	eventBuffer      = 64
)

// ChangeListener turns LISTEN/NOTIFY on the erp_changes channel into a
// change-event stream. It holds one dedicated connection from the pool
// and re-acquires it with backoff when the connection drops; events
// emitted while disconnected are lost, matching the feed's best-effort
// contract.
type ChangeListener struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewChangeListener(pool *pgxpool.Pool, log zerolog.Logger) *ChangeListener {
	return &ChangeListener{pool: pool, log: log}
}

// Subscribe starts listening and returns the event channel. The first
// listen must succeed; later connection losses are retried internally.
// The channel closes when ctx is cancelled.
func (l *ChangeListener) Subscribe(ctx context.Context) (<-chan ports.ChangeEvent, error) {
	conn, err := l.listen(ctx)
	if err != nil {
		return nil, err
	}

	events := make(chan ports.ChangeEvent, eventBuffer)
	go l.run(ctx, conn, events)
	return events, nil
}

func (l *ChangeListener) listen(ctx context.Context) (*pgxpool.Conn, error) {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Exec(ctx, "listen "+notifyChannel); err != nil {
		conn.Release()
		return nil, err
	}
	return conn, nil
}

func (l *ChangeListener) run(ctx context.Context, conn *pgxpool.Conn, events chan<- ports.ChangeEvent) {
	defer close(events)
	defer func() {
		if conn != nil {
			conn.Release()
		}
	}()

	for {
		if conn == nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(reconnectBackoff):
			}
			fresh, err := l.listen(ctx)
			if err != nil {
				l.log.Warn().Err(err).Msg("change feed reconnect failed")
				continue
			}
			conn = fresh
			l.log.Info().Msg("change feed reconnected")
		}

		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.Error().Err(err).Msg("change feed connection lost")
			conn.Release()
			conn = nil
			continue
		}

		var ev ports.ChangeEvent
		if err := json.Unmarshal([]byte(notification.Payload), &ev); err != nil {
			l.log.Warn().Err(err).Msg("undecodable change notification dropped")
			continue
		}

		select {
		case events <- ev:
		case <-ctx.Done():
			return
		}
	}
}
