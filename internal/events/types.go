// Package events defines the ledger events emitted after each committed mutation.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// EventType identifies the kind of ledger event
type EventType string

const (
	// TransactionRecorded is emitted for every new transaction row
	TransactionRecorded EventType = "transaction.recorded"
	// AccountOpened is emitted when an account is created with its initial deposit
	AccountOpened EventType = "account.opened"
	// PositionBought is emitted when a buy order settles
	PositionBought EventType = "position.bought"
)

// EventData is the interface that all event data types must implement
type EventData interface {
	// EventType returns the event type this data is associated with
	EventType() EventType
}

// Event is an envelope around typed event data
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Module    string    `json:"module"`
	// Key partitions the event stream; transaction id for ledger events
	Key  string    `json:"key"`
	Data EventData `json:"data"`
}

// New builds an event for data, stamping type and timestamp
func New(module, key string, data EventData, at time.Time) Event {
	return Event{
		Type:      data.EventType(),
		Timestamp: at.UTC(),
		Module:    module,
		Key:       key,
		Data:      data,
	}
}

// Publisher delivers committed ledger events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

// TransactionRecordedData describes one new transaction row
type TransactionRecordedData struct {
	TransactionID string      `json:"transaction_id"`
	Amount        json.Number `json:"amount"`
	Note          string      `json:"note"`
	DebitID       *string     `json:"debit_id"`
	CreditID      *string     `json:"credit_id"`
	CustomerID    string      `json:"customer_id"`
}

// EventType returns the event type for TransactionRecordedData
func (d *TransactionRecordedData) EventType() EventType {
	return TransactionRecorded
}

// AccountOpenedData describes a newly opened account
type AccountOpenedData struct {
	AccountID  string      `json:"account_id"`
	CustomerID string      `json:"customer_id"`
	AcctTypeID int         `json:"acct_type_id"`
	Balance    json.Number `json:"balance"`
}

// EventType returns the event type for AccountOpenedData
func (d *AccountOpenedData) EventType() EventType {
	return AccountOpened
}

// PositionBoughtData describes a settled buy order
type PositionBoughtData struct {
	PortfolioID string      `json:"portfolio_id"`
	AccountID   string      `json:"account_id"`
	TickerID    string      `json:"ticker_id"`
	PositionID  string      `json:"position_id,omitempty"`
	Symbol      string      `json:"symbol"`
	Quantity    int         `json:"quantity"`
	Price       json.Number `json:"price"`
	TotalCost   json.Number `json:"total_cost"`
	NewPosition bool        `json:"new_position"`
}

// EventType returns the event type for PositionBoughtData
func (d *PositionBoughtData) EventType() EventType {
	return PositionBought
}

// MarshalJSON customizes JSON serialization for Event
func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	aux := struct {
		Data json.RawMessage `json:"data"`
		Alias
	}{
		Alias: Alias(e),
	}

	if e.Data != nil {
		dataBytes, err := json.Marshal(e.Data)
		if err != nil {
			return nil, err
		}
		aux.Data = dataBytes
	}

	return json.Marshal(aux)
}

// UnmarshalJSON customizes JSON deserialization for Event
func (e *Event) UnmarshalJSON(data []byte) error {
	type Alias Event
	aux := &struct {
		Data json.RawMessage `json:"data"`
		*Alias
	}{
		Alias: (*Alias)(e),
	}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if len(aux.Data) == 0 {
		e.Data = nil
		return nil
	}

	var eventData EventData
	switch aux.Type {
	case TransactionRecorded:
		eventData = &TransactionRecordedData{}
	case AccountOpened:
		eventData = &AccountOpenedData{}
	case PositionBought:
		eventData = &PositionBoughtData{}
	default:
		return fmt.Errorf("unknown event type %q", aux.Type)
	}

	if err := json.Unmarshal(aux.Data, eventData); err != nil {
		return err
	}
	e.Data = eventData
	return nil
}
