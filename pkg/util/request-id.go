package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	requestIDKey = key("x-request-id")
	offsetKey    = key("x-order-offset")
)

// WithRequestID returns a context with a request id.
// It will generate new request id if the provided id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = generate()
	}

	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id from ctx, or an empty string if none is set.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithOffset returns a context carrying the stream offset of the command being processed.
func WithOffset(ctx context.Context, offset int64) context.Context {
	return context.WithValue(ctx, offsetKey, offset)
}

// GetOffset returns the command offset from ctx.
// will return -1 if not present
func GetOffset(ctx context.Context) int64 {
	offset, ok := ctx.Value(offsetKey).(int64)
	if !ok {
		return -1
	}
	return offset
}

// generate returns a uuid-v4 string to use as request id
func generate() string {
	return uuid.NewString()
}
