package engine

import (
	"bytes"
	"encoding/binary"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/muhammadchandra19/matching-engine/pkg/config"
)

// Options represents configuration options for the Engine.
type Options struct {
	SnapshotInterval    time.Duration
	SnapshotOffsetDelta int64
	MailboxSize         int
	// EmitReceived makes the engine emit a Received event for every accepted order.
	EmitReceived bool
	// NewOrderID names market orders that arrive without an id. It receives the
	// command offset and message time and must return the same id for the same
	// command, so a replay after restart reproduces the events.
	NewOrderID func(offset int64, receivedAt time.Time) string
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		SnapshotInterval:    30 * time.Second,
		SnapshotOffsetDelta: 1000,
		MailboxSize:         1024,
		NewOrderID:          commandULID,
	}
}

// OptionsFromConfig builds engine options from the ENGINE_ environment block.
func OptionsFromConfig(cfg config.EngineConfig) *Options {
	opts := DefaultEngineOptions()
	if cfg.SnapshotInterval > 0 {
		opts.SnapshotInterval = cfg.SnapshotInterval
	}
	if cfg.SnapshotOffsetDelta > 0 {
		opts.SnapshotOffsetDelta = cfg.SnapshotOffsetDelta
	}
	if cfg.MailboxSize > 0 {
		opts.MailboxSize = cfg.MailboxSize
	}
	opts.EmitReceived = cfg.EmitReceived
	return opts
}

// commandULID derives a ULID from the command: its time part is the message
// time, its entropy is the offset.
func commandULID(offset int64, receivedAt time.Time) string {
	var ms uint64
	if !receivedAt.IsZero() && receivedAt.UnixMilli() > 0 {
		ms = ulid.Timestamp(receivedAt)
	}

	var entropy [10]byte
	binary.BigEndian.PutUint64(entropy[2:], uint64(offset))
	return ulid.MustNew(ms, bytes.NewReader(entropy[:])).String()
}
