package util

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID(t *testing.T) {
	testCases := []struct {
		name     string
		id       string
		assertFn func(t *testing.T, got string)
	}{
		{
			name: "keeps the given id",
			id:   "req-1",
			assertFn: func(t *testing.T, got string) {
				assert.Equal(t, "req-1", got)
			},
		},
		{
			name: "generates a uuid when empty",
			id:   "",
			assertFn: func(t *testing.T, got string) {
				_, err := uuid.Parse(got)
				require.NoError(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := WithRequestID(context.Background(), tc.id)
			tc.assertFn(t, GetRequestID(ctx))
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, int64(-1), GetOffset(context.Background()))
	assert.Equal(t, int64(42), GetOffset(WithOffset(context.Background(), 42)))
}
