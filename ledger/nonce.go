/*
nonce.go - Per-account transaction ordering

PURPOSE:
  Each account carries a monotonically increasing sequence counter. A
  transaction is only accepted when its nonce is the strict successor of
  the last accepted value, which rejects both replays (old nonce) and
  gaps (future nonce). There is no out-of-order buffering or window
  tolerance.

SEE ALSO:
  - manager.go: validates caller-supplied nonces during processing
  - invariants.go: replays the log to verify nonce monotonicity
*/
package ledger

// NonceManager tracks the last accepted nonce per account. An account with
// no stored value is at zero, so its first valid nonce is 1.
//
// Not safe for concurrent use on its own; the owning Manager serializes
// access.
type NonceManager struct {
	nonces map[string]uint64
}

func NewNonceManager() *NonceManager {
	return &NonceManager{nonces: make(map[string]uint64)}
}

// GetNextNonce increments and returns the counter for an account, starting
// at 1. Intended for callers that want the manager to issue sequential
// numbering; processing itself validates caller-supplied nonces instead.
func (nm *NonceManager) GetNextNonce(account string) uint64 {
	nm.nonces[account]++
	return nm.nonces[account]
}

// ValidateNonce reports whether nonce is the strict successor of the last
// accepted value for the account. Read-only.
func (nm *NonceManager) ValidateNonce(account string, nonce uint64) bool {
	return nonce == nm.nonces[account]+1
}

// ResetNonce removes the stored counter for an account. Administrative and
// testing use only.
func (nm *NonceManager) ResetNonce(account string) {
	delete(nm.nonces, account)
}

// current returns the last accepted nonce for an account, zero if none.
func (nm *NonceManager) current(account string) uint64 {
	return nm.nonces[account]
}

// record stores nonce as the new last accepted value for the account.
// Called after a transaction has been fully applied.
func (nm *NonceManager) record(account string, nonce uint64) {
	nm.nonces[account] = nonce
}
