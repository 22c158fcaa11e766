package resolver

// Config holds configuration for the organization directory.
type Config struct {
	// BaseURL of the directory. Empty disables resolution.
	BaseURL string `mapstructure:"base_url" default:""`
	// Token is sent as a bearer token when set.
	Token string `mapstructure:"token" default:""`
	// TimeoutSeconds bounds one request.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"15"`
	// MaxRetries is the number of extra attempts after a retryable failure.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// CacheTTLSeconds keeps successful lookups in memory. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"600"`
}
