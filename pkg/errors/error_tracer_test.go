package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errBackend = stderrors.New("connection refused")

func TestErrorTracer(t *testing.T) {
	testCases := []struct {
		name     string
		tracer   *ErrorTracer
		expected string
	}{
		{
			name:     "code only",
			tracer:   NewTracer(SnapshotStoreError),
			expected: "snapshot_store_error",
		},
		{
			name:     "wrapped cause",
			tracer:   NewTracer(SnapshotStoreError).Wrap(errBackend),
			expected: "snapshot_store_error: connection refused",
		},
		{
			name:     "from error",
			tracer:   TracerFromError(errBackend),
			expected: "general_internal_server_error: connection refused",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.tracer.Error())
		})
	}
}

func TestErrorTracer_Unwrap(t *testing.T) {
	err := NewTracer(JournalAppendError).Wrap(errBackend)

	assert.ErrorIs(t, err, errBackend)
	assert.ErrorIs(t, err, NewTracer(JournalAppendError))
	assert.NotErrorIs(t, err, NewTracer(JournalReadError))
	assert.NotEmpty(t, err.StackTrace())
}

func TestErrorCodeEquals(t *testing.T) {
	err := NewErrorDetails("pair is required", ConfigError, "PAIR")

	assert.True(t, ErrorCodeEquals(err, ConfigError))
	assert.False(t, ErrorCodeEquals(err, RedisConfigError))
	assert.False(t, ErrorCodeEquals(errBackend, ConfigError))
	assert.Equal(t, "pair is required", err.Error())
}
