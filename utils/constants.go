// File: utils/constants.go
package utils

import "time"

// GateCachePrefix is the prefix used for Redis member-gate cache keys.
const GateCachePrefix = "gate:"

// DedupePrefix is the prefix used for Redis postback-dedupe keys.
const DedupePrefix = "dedupe:"

// DedupeTTL is the time-to-live for postback-dedupe entries.
const DedupeTTL = 10 * time.Minute
