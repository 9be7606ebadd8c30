package redis

const (
	// KeyPrefix namespaces every key written by the library.
	KeyPrefix = "promptlib:"
)

// Key returns the Redis key for a store key.
func Key(name string) string {
	return KeyPrefix + name
}
