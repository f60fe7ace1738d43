package testing

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/bank/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPriceOracle is a testify mock of domain.PriceOracle
type MockPriceOracle struct {
	mock.Mock
}

// ClosePrice returns the configured price for symbol
func (m *MockPriceOracle) ClosePrice(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, symbol, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// RecordingPublisher captures published events for assertions
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

// NewRecordingPublisher creates an empty recording publisher
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// SetError makes subsequent Publish calls fail with err
func (p *RecordingPublisher) SetError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Publish records evts
func (p *RecordingPublisher) Publish(_ context.Context, evts ...events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, evts...)
	return nil
}

// Close is a no-op
func (p *RecordingPublisher) Close() error {
	return nil
}

// Events returns a copy of everything published so far
func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}

// Types returns the event types published so far, in order
func (p *RecordingPublisher) Types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.EventType, 0, len(p.events))
	for _, evt := range p.events {
		out = append(out, evt.Type)
	}
	return out
}
