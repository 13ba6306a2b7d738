// Package constants provides application-wide constants and timeouts.
package constants

import "time"

// Timeouts for various operations.
const (
	// ShutdownTimeout bounds graceful HTTP shutdown and the final span flush.
	ShutdownTimeout = 30 * time.Second
)
