package rediscache

const (
	// KeyPrefixResults is the prefix for cached discovery result keys
	KeyPrefixResults = "nbscout:results:"
	// KeyPrefixCounters is the prefix for per-record engagement counter hashes
	KeyPrefixCounters = "nbscout:counters:"
	// KeyDirtyCounters is the set of record IDs with undrained counters
	KeyDirtyCounters = "nbscout:counters:dirty"
)

// ResultsKey returns the cache key for a discovery/search result set.
func ResultsKey(cacheKey string) string {
	return KeyPrefixResults + cacheKey
}

// CountersKey returns the counter hash key for a record.
func CountersKey(recordID string) string {
	return KeyPrefixCounters + recordID
}
