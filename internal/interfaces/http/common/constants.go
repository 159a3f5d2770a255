package common

import "time"

const (
	// MaxRequestBody limits JSON request bodies for submission and moderation endpoints.
	MaxRequestBody = 1 << 20
	// RequestTimeout bounds every handler's store calls.
	RequestTimeout = 5 * time.Second
	// BulkRequestTimeout bounds approve-all sweeps.
	BulkRequestTimeout = 60 * time.Second
)
