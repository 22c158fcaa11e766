package render

// Config holds configuration for the DOM provider.
type Config struct {
	// Driver selects the provider (chrome, file).
	Driver string `mapstructure:"driver" default:"chrome"`
	// Headless runs the browser without a window.
	Headless bool `mapstructure:"headless" default:"true"`
	// TimeoutSeconds bounds one render attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"120"`
	// SettleSeconds is the wait after navigation before expanding cards.
	SettleSeconds int `mapstructure:"settle_seconds" default:"10"`
	// MaxRetries is the number of extra attempts after a failed render.
	MaxRetries int `mapstructure:"max_retries" default:"2"`
	// UserAgent is sent by the browser.
	UserAgent string `mapstructure:"user_agent" default:"Mozilla/5.0"`
	// FilePath is the saved page served by the file driver.
	FilePath string `mapstructure:"file_path" default:""`
	// Archive stores every rendered page in object storage.
	Archive bool `mapstructure:"archive" default:"false"`
	// ArchivePrefix is the object key prefix of archived pages.
	ArchivePrefix string `mapstructure:"archive_prefix" default:"snapshots"`
	// ArchiveKeep is how many pages are kept per name. Zero keeps everything.
	ArchiveKeep int `mapstructure:"archive_keep" default:"20"`
}

const (
	DriverChrome = "chrome"
	DriverFile   = "file"
)
