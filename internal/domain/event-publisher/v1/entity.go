package eventpublisherv1

import (
	"encoding/json"

	orderbookv1 "github.com/muhammadchandra19/matching-engine/internal/domain/orderbook/v1"
)

// Envelope is the wire form of one published event.
type Envelope struct {
	Type     orderbookv1.LogType `json:"type"`
	Sequence int64               `json:"sequence"`
	Pair     string              `json:"pair"`
	// Payload holds the kind-specific body selected by Type.
	Payload json.RawMessage `json:"payload"`
	Time    int64           `json:"time"`
}

// NewEnvelope wraps log for publishing. Time is unix nanoseconds.
func NewEnvelope(log orderbookv1.Log) (Envelope, error) {
	if err := log.Validate(); err != nil {
		return Envelope{}, err
	}

	var payload any
	switch log.Type {
	case orderbookv1.LogTypeReceived:
		payload = log.Received
	case orderbookv1.LogTypeOpen:
		payload = log.Open
	case orderbookv1.LogTypeMatch:
		payload = log.Match
	case orderbookv1.LogTypeDone:
		payload = log.Done
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{
		Type:     log.Type,
		Sequence: log.Sequence,
		Pair:     log.Pair,
		Payload:  raw,
		Time:     log.Time.UnixNano(),
	}, nil
}
