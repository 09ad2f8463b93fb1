package orderbookv1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLog_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		log     Log
		wantErr bool
	}{
		{
			name: "open with open payload",
			log:  Log{Type: LogTypeOpen, Sequence: 1, Open: &OpenLog{OrderID: "A"}},
		},
		{
			name:    "open with match payload",
			log:     Log{Type: LogTypeOpen, Sequence: 1, Match: &MatchLog{}},
			wantErr: true,
		},
		{
			name:    "two payloads",
			log:     Log{Type: LogTypeDone, Sequence: 1, Done: &DoneLog{}, Open: &OpenLog{}},
			wantErr: true,
		},
		{
			name:    "no payload",
			log:     Log{Type: LogTypeReceived, Sequence: 1},
			wantErr: true,
		},
		{
			name:    "unknown type",
			log:     Log{Type: "trade", Sequence: 1, Match: &MatchLog{}},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.log.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSequence(t *testing.T) {
	seq := newTestSequence()
	order := createTestOrder(t, "B1", SideBid, "100", "2")

	received := seq.Received(order)
	assert.Equal(t, LogTypeReceived, received.Type)
	assert.Equal(t, int64(1), received.Sequence)
	assert.Equal(t, "B1", received.OrderID())
	assert.NoError(t, received.Validate())

	seq.Seed(41, 7)
	assert.Equal(t, int64(41), seq.LastLog())
	assert.Equal(t, int64(7), seq.LastTrade())

	next := seq.Received(order)
	assert.Equal(t, int64(42), next.Sequence)
	assert.Equal(t, int64(7), seq.LastTrade())
}

func TestLog_JSON(t *testing.T) {
	seq := newTestSequence()
	limit := NewLimit(dec("100.5"))
	log, err := limit.AddOrder(createTestOrder(t, "A1", SideAsk, "100.5", "0.25"), seq)
	require.NoError(t, err)

	raw, err := json.Marshal(log)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "open", fields["type"])
	assert.NotContains(t, fields, "match")
	open, ok := fields["open"].(map[string]any)
	require.True(t, ok)
	// decimals travel as strings so no precision is lost
	assert.Equal(t, "100.5", open["price"])
	assert.Equal(t, "0.25", open["size"])
}
