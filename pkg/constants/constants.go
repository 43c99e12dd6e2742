package constants

import "time"

const (
	CHANNEL_SIZE      = 100 // broker transmit queue size
	CONN_SEND_BUFFER  = 64  // outbound event buffer per websocket connection
	REDIS_TIMEOUT     = 30  // cache entry TTL (minutes)
	WS_READ_BUFFER    = 2048
	WS_WRITE_BUFFER   = 2048

	// DefaultRequestTTL is how long a pending friend request stays acceptable
	// before the sweeper (or a lazy read) flips it to expired.
	DefaultRequestTTL = 7 * 24 * time.Hour

	// DefaultSweepInterval is the cadence of the background expiry sweep.
	// Correctness does not depend on it: reads expire lazily as well.
	DefaultSweepInterval = 10 * time.Minute

	// DefaultOfflineDebounce delays the offline transition after a user's
	// last connection closes, absorbing quick reconnects from page
	// navigation and tab switches.
	DefaultOfflineDebounce = 5 * time.Second
)
