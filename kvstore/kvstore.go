// Package kvstore is the persisted key-value adapter behind session state: the
// identity marker, the serialized cart, and the language preference live here.
// Writes are fire-and-forget; a broken store degrades the session to
// in-memory-only rather than failing the caller.
package kvstore

// Store reads and writes JSON-serializable blobs under well-known keys.
type Store interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}
