package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// ConfigError represents an invalid or incomplete configuration.
	ConfigError ErrorCode = "config_error"

	// MalformedSnapshotError represents a snapshot that cannot be restored.
	MalformedSnapshotError ErrorCode = "malformed_snapshot"

	// SnapshotMarshalError represents a failure to encode a snapshot.
	SnapshotMarshalError ErrorCode = "snapshot_marshal_error"
	// SnapshotUnmarshalError represents a failure to decode a stored snapshot.
	SnapshotUnmarshalError ErrorCode = "snapshot_unmarshal_error"
	// SnapshotStoreError represents a failure to persist a snapshot.
	SnapshotStoreError ErrorCode = "snapshot_store_error"
	// SnapshotLoadError represents a failure to read a snapshot.
	SnapshotLoadError ErrorCode = "snapshot_load_error"

	// JournalOpenError represents a failure to open the event journal.
	JournalOpenError ErrorCode = "journal_open_error"
	// JournalAppendError represents a failure to append events to the journal.
	JournalAppendError ErrorCode = "journal_append_error"
	// JournalReadError represents a failure to read events back from the journal.
	JournalReadError ErrorCode = "journal_read_error"

	// PublishEventError represents a failure to publish events downstream.
	PublishEventError ErrorCode = "publish_event_error"
	// ReadOrderError represents a failure to read or decode an incoming command.
	ReadOrderError ErrorCode = "read_order_error"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisGetError represents an error when getting a value from Redis.
	RedisGetError ErrorCode = "redis_get_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
)
