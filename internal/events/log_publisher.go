package events

import (
	"context"

	"github.com/rs/zerolog"
)

// LogPublisher writes events to the application log.
// Used when no broker is configured.
type LogPublisher struct {
	log zerolog.Logger
}

// NewLogPublisher creates a publisher that logs each event at info level
func NewLogPublisher(log zerolog.Logger) *LogPublisher {
	return &LogPublisher{
		log: log.With().Str("component", "event_publisher").Logger(),
	}
}

// Publish logs every event
func (p *LogPublisher) Publish(_ context.Context, events ...Event) error {
	for _, evt := range events {
		p.log.Info().
			Str("type", string(evt.Type)).
			Str("module", evt.Module).
			Str("key", evt.Key).
			Interface("data", evt.Data).
			Msg("Ledger event")
	}
	return nil
}

// Close is a no-op
func (p *LogPublisher) Close() error {
	return nil
}
