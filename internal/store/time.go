package store

import "time"

// Timestamps are persisted as integer milliseconds since the Unix epoch, in
// UTC. Sub-millisecond precision is deliberately dropped.

// ToMillis converts a time to its persisted millisecond form.
func ToMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// FromMillis reverses ToMillis.
func FromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
