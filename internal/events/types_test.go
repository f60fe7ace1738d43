package events

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StampsTypeAndTime(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))
	evt := New("ledger", "tx-1", &AccountOpenedData{AccountID: "a1"}, at)

	assert.Equal(t, AccountOpened, evt.Type)
	assert.Equal(t, "ledger", evt.Module)
	assert.Equal(t, "tx-1", evt.Key)
	assert.Equal(t, time.UTC, evt.Timestamp.Location())
}

func TestEvent_JSONRoundTrip(t *testing.T) {
	credit := "acct-1"
	evt := New("ledger", "tx-1", &TransactionRecordedData{
		TransactionID: "tx-1",
		Amount:        json.Number("25.00"),
		Note:          "Deposit at 2026-01-02 03:04:05",
		CreditID:      &credit,
		CustomerID:    "cust-1",
	}, time.Now())

	data, err := json.Marshal(evt)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"transaction.recorded"`)
	assert.Contains(t, string(data), `"amount":25.00`)
	assert.Contains(t, string(data), `"debit_id":null`)

	var decoded Event
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.IsType(t, &TransactionRecordedData{}, decoded.Data)

	got := decoded.Data.(*TransactionRecordedData)
	assert.Equal(t, "tx-1", got.TransactionID)
	assert.Nil(t, got.DebitID)
	require.NotNil(t, got.CreditID)
	assert.Equal(t, "acct-1", *got.CreditID)
}

func TestEvent_UnmarshalUnknownType(t *testing.T) {
	var decoded Event
	err := json.Unmarshal([]byte(`{"type":"nope","data":{"x":1}}`), &decoded)
	assert.Error(t, err)
}

func TestLogPublisher_Publish(t *testing.T) {
	var buf bytes.Buffer
	pub := NewLogPublisher(zerolog.New(&buf))

	err := pub.Publish(context.Background(),
		New("portfolio", "tx-9", &PositionBoughtData{Symbol: "XYZ", Quantity: 10}, time.Now()))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"type":"position.bought"`)
	assert.Contains(t, buf.String(), `"key":"tx-9"`)
	assert.NoError(t, pub.Close())
}
