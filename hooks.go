package tokencount

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache and dispatcher call them on hot paths.
type Hooks interface {
	// A provider entry was dropped on read.
	// reason ∈ {"corrupt", "key_mismatch", "value_decode"}
	SelfHealEntry(storageKey, reason string)

	// Provider returned ok=false on Set. The insert fails and the run is aborted.
	ProviderSetRejected(storageKey string)

	// Counting the initial token at position index failed; the run is aborted.
	WorkerFailed(index int, token Token, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) SelfHealEntry(string, string)   {}
func (NopHooks) ProviderSetRejected(string)     {}
func (NopHooks) WorkerFailed(int, Token, error) {}
