package lock

// Config holds configuration for the Redis-backed lock.
type Config struct {
	// Addr is the Redis address. Empty selects the in-process lock.
	Addr string `mapstructure:"addr" default:""`
	// Password authenticates against Redis.
	Password string `mapstructure:"password" default:""`
	// DB is the Redis database index.
	DB int `mapstructure:"db" default:"0"`
	// TTLSeconds is the lease of a held lock.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"1800"`
	// Prefix namespaces lock keys.
	Prefix string `mapstructure:"prefix" default:"registry-sync:lock:"`
}
