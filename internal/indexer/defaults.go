package indexer

import "time"

const (
	defaultPollInterval    = 5 * time.Second
	defaultApplyTimeout    = 2 * time.Minute
	defaultPrefetchWorkers = 8
	defaultMaxTxDataBytes  = 1024

	headerCacheTTL     = 30 * time.Minute
	headerCacheCleanup = 10 * time.Minute
)
