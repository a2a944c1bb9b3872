// idempotency.go - Exactly-once guard for transaction processing.
//
// Keys are opaque caller-supplied strings. Once marked, a key is considered
// processed for the lifetime of the manager; there is no TTL or garbage
// collection.
package ledger

// IdempotencyManager is the set of idempotency keys that have already been
// applied.
//
// Not safe for concurrent use on its own; the owning Manager serializes
// access.
type IdempotencyManager struct {
	processed map[string]struct{}
}

func NewIdempotencyManager() *IdempotencyManager {
	return &IdempotencyManager{processed: make(map[string]struct{})}
}

// IsProcessed reports whether the key has already been consumed.
func (im *IdempotencyManager) IsProcessed(key string) bool {
	_, ok := im.processed[key]
	return ok
}

// MarkProcessed permanently consumes the key.
func (im *IdempotencyManager) MarkProcessed(key string) {
	im.processed[key] = struct{}{}
}

// RemoveProcessed releases a key. Administrative and testing use only.
func (im *IdempotencyManager) RemoveProcessed(key string) {
	delete(im.processed, key)
}
