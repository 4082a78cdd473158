package ports

import "context"

// KeyValueStore is the persistence boundary for session state: at-least-once
// durable across process restarts, get/set/remove per key. Absent keys return
// domain.ErrKeyNotFound — never treated as fatal by callers.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	// Ping reports store reachability for readiness probes.
	Ping(ctx context.Context) error
}
