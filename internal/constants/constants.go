package constants

import "time"

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	RequestTimeout     = 30 * time.Second
)

const (
	DBMaxOpenConns    = 1
	DBMaxIdleConns    = 1
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// LocalSnapshotKey is where the roster, field and batting order live.
	LocalSnapshotKey   = "softballData"
	FirstAddedPlayerID = 100
)

const (
	LiveSendBuffer     = 16
	LiveBroadcastQueue = 64
	LiveWriteTimeout   = 10 * time.Second
	LivePingInterval   = 30 * time.Second
)
