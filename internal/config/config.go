package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "allyoucanfly"

	// DefaultCatalogFile is the route catalog file name looked up in the
	// XDG config directory.
	DefaultCatalogFile = "routes.yaml"

	// DefaultTimeout bounds one leg request.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent is sent with every leg request.
	DefaultUserAgent = "allyoucanfly/1.0"

	// DefaultMaxConsecutive is the number of requests allowed between cooldowns.
	DefaultMaxConsecutive = 50

	// DefaultBaseDelay is the pause before every request.
	DefaultBaseDelay = 1800 * time.Millisecond

	// DefaultJitter is the upper bound of the random delay added to
	// DefaultBaseDelay.
	DefaultJitter = 400 * time.Millisecond

	// DefaultCooldown is the pause taken once the window is used up.
	DefaultCooldown = 1500 * time.Millisecond

	// DefaultInactivityReset clears the consecutive counter after an idle period.
	DefaultInactivityReset = 10 * time.Second

	// DefaultCacheTTL is how long fetched legs stay valid.
	DefaultCacheTTL = 4 * time.Hour

	// DefaultCacheBackend stores legs in SQLite under the data directory.
	DefaultCacheBackend = "sqlite"

	// DefaultMaxRetries is the number of additional attempts per hop.
	DefaultMaxRetries = 2

	// DefaultRetryBaseDelay is doubled after every transport failure.
	DefaultRetryBaseDelay = time.Second

	// Rate-limit cooldowns by tier.
	DefaultShortCooldown  = 30 * time.Second
	DefaultMediumCooldown = 2 * time.Minute
	DefaultLongCooldown   = 5 * time.Minute

	// DefaultMinConnection and DefaultMaxConnection bound a layover.
	DefaultMinConnection = 90 * time.Minute
	DefaultMaxConnection = 1440 * time.Minute

	// DefaultMinTurnaround separates an outbound arrival from a return departure.
	DefaultMinTurnaround = 360 * time.Minute

	// DefaultMaxDayOffset is how many days later a connecting hop may leave
	// when overnight connections are allowed.
	DefaultMaxDayOffset = 1

	// DefaultConcurrency resolves candidates one at a time.
	DefaultConcurrency = 1
)

// Config holds all configuration options for a run.
// It is populated from defaults, the config file and CLI flags and passed
// explicitly rather than kept in global state.
type Config struct {
	// CatalogPath is the route catalog (YAML or JSON).
	CatalogPath string

	// URLTemplate is the leg endpoint with {origin}, {destination} and
	// {date} placeholders. Signed query parameters are never logged.
	URLTemplate string

	// FixturesDir serves legs from JSON files instead of the endpoint.
	FixturesDir string

	// Headers are sent with every leg request.
	Headers map[string]string

	// ProxyAddress routes leg requests through a SOCKS5 proxy when set.
	ProxyAddress string

	// Timeout bounds each leg request.
	Timeout time.Duration

	// UserAgent is the User-Agent header of leg requests.
	UserAgent string

	// MaxConsecutive is the number of requests between cooldowns.
	MaxConsecutive int

	// BaseDelay is the pause before every request.
	BaseDelay time.Duration

	// Jitter is the upper bound of the random extra delay.
	Jitter time.Duration

	// Cooldown is the pause taken when the window is used up.
	Cooldown time.Duration

	// InactivityReset clears the window after an idle period.
	InactivityReset time.Duration

	// CacheTTL is how long fetched legs stay valid.
	CacheTTL time.Duration

	// CacheBackend is sqlite, badger or memory.
	CacheBackend string

	// DataDir holds the cache database.
	// Defaults to XDG data directory (~/.local/share/allyoucanfly on Linux).
	DataDir string

	// MaxRetries is the number of additional attempts per hop.
	MaxRetries int

	// RetryBaseDelay is the first transport backoff; it doubles per attempt.
	RetryBaseDelay time.Duration

	// ShortCooldown, MediumCooldown and LongCooldown are the forced pauses
	// after a rate-limit response of each tier.
	ShortCooldown  time.Duration
	MediumCooldown time.Duration
	LongCooldown   time.Duration

	// MinConnection and MaxConnection bound a layover (inclusive).
	MinConnection time.Duration
	MaxConnection time.Duration

	// MinTurnaround separates an outbound arrival from a return departure.
	MinTurnaround time.Duration

	// RadiusKm enables airport changes within this distance. 0 disables.
	RadiusKm float64

	// MaxTransfers is 0, 1 or 2.
	MaxTransfers int

	// AllowOvernight lets connecting hops leave up to MaxDayOffset days later.
	AllowOvernight bool

	// MaxDayOffset is the overnight limit in days.
	MaxDayOffset int

	// BookingHorizonDays stops probing dates later than today plus this
	// many days. 0 is unlimited.
	BookingHorizonDays int

	// Concurrency is the number of candidates resolved in parallel. All of
	// them share one throttle.
	Concurrency int

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// LogJSON switches the log handler to JSON.
	LogJSON bool

	// JSONReport enables JSON report output. Mutually exclusive with
	// MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output. Mutually exclusive with
	// JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// Stream prints itineraries as they are found.
	Stream bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		CatalogPath:     filepath.Join(XDGConfigDir(), DefaultCatalogFile),
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		MaxConsecutive:  DefaultMaxConsecutive,
		BaseDelay:       DefaultBaseDelay,
		Jitter:          DefaultJitter,
		Cooldown:        DefaultCooldown,
		InactivityReset: DefaultInactivityReset,
		CacheTTL:        DefaultCacheTTL,
		CacheBackend:    DefaultCacheBackend,
		DataDir:         XDGDataDir(),
		MaxRetries:      DefaultMaxRetries,
		RetryBaseDelay:  DefaultRetryBaseDelay,
		ShortCooldown:   DefaultShortCooldown,
		MediumCooldown:  DefaultMediumCooldown,
		LongCooldown:    DefaultLongCooldown,
		MinConnection:   DefaultMinConnection,
		MaxConnection:   DefaultMaxConnection,
		MinTurnaround:   DefaultMinTurnaround,
		MaxDayOffset:    DefaultMaxDayOffset,
		Concurrency:     DefaultConcurrency,
	}
}

// XDGDataDir returns the XDG data directory.
// On Linux: ~/.local/share/allyoucanfly
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory.
// On Linux: ~/.config/allyoucanfly
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration used by a search and returns the
// first problem found.
func (c *Config) Validate() error {
	if c.URLTemplate == "" && c.FixturesDir == "" {
		return ErrNoLegSource
	}
	if c.URLTemplate != "" && c.FixturesDir != "" {
		return ErrConflictingLegSources
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxConsecutive <= 0 {
		return ErrInvalidMaxConsecutive
	}
	for _, d := range []time.Duration{
		c.BaseDelay, c.Jitter, c.Cooldown, c.InactivityReset, c.RetryBaseDelay,
		c.ShortCooldown, c.MediumCooldown, c.LongCooldown, c.MinTurnaround,
	} {
		if d < 0 {
			return ErrInvalidDelay
		}
	}
	if c.CacheTTL <= 0 {
		return ErrInvalidCacheTTL
	}
	switch c.CacheBackend {
	case "sqlite", "badger", "memory":
	default:
		return ErrInvalidCacheBackend
	}
	if c.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	if c.MinConnection < 0 || c.MaxConnection < c.MinConnection {
		return ErrInvalidConnection
	}
	if c.RadiusKm < 0 {
		return ErrInvalidRadius
	}
	if c.MaxTransfers < 0 || c.MaxTransfers > 2 {
		return ErrInvalidTransfers
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
