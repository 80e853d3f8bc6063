package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".allyoucanfly"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the configuration file. Zero values
// leave the corresponding Config field untouched.
type File struct {
	Catalog  string       `yaml:"catalog,omitempty"`
	DataDir  string       `yaml:"dataDir,omitempty"`
	Fetcher  FetcherFile  `yaml:"fetcher,omitempty"`
	Throttle ThrottleFile `yaml:"throttle,omitempty"`
	Cache    CacheFile    `yaml:"cache,omitempty"`
	Retry    RetryFile    `yaml:"retry,omitempty"`
	Search   SearchFile   `yaml:"search,omitempty"`
}

// FetcherFile configures the leg source.
type FetcherFile struct {
	URLTemplate    string            `yaml:"urlTemplate,omitempty"`
	FixturesDir    string            `yaml:"fixturesDir,omitempty"`
	Headers        map[string]string `yaml:"headers,omitempty"`
	Proxy          string            `yaml:"proxy,omitempty"`
	TimeoutSeconds int               `yaml:"timeoutSeconds,omitempty"`
	UserAgent      string            `yaml:"userAgent,omitempty"`
}

// ThrottleFile configures the request throttle.
type ThrottleFile struct {
	MaxConsecutive    int `yaml:"maxConsecutive,omitempty"`
	BaseDelayMs       int `yaml:"baseDelayMs,omitempty"`
	JitterMs          int `yaml:"jitterMs,omitempty"`
	CooldownMs        int `yaml:"cooldownMs,omitempty"`
	InactivityResetMs int `yaml:"inactivityResetMs,omitempty"`
}

// CacheFile configures the leg cache.
type CacheFile struct {
	TTLHours float64 `yaml:"ttlHours,omitempty"`
	Backend  string  `yaml:"backend,omitempty"`
}

// RetryFile configures hop retries.
type RetryFile struct {
	MaxRetries            *int `yaml:"maxRetries,omitempty"`
	BaseDelayMs           int  `yaml:"baseDelayMs,omitempty"`
	ShortCooldownSeconds  int  `yaml:"shortCooldownSeconds,omitempty"`
	MediumCooldownSeconds int  `yaml:"mediumCooldownSeconds,omitempty"`
	LongCooldownSeconds   int  `yaml:"longCooldownSeconds,omitempty"`
}

// SearchFile holds search defaults.
type SearchFile struct {
	MinConnectionMinutes int     `yaml:"minConnectionMinutes,omitempty"`
	MaxConnectionMinutes int     `yaml:"maxConnectionMinutes,omitempty"`
	MinTurnaroundMinutes int     `yaml:"minTurnaroundMinutes,omitempty"`
	RadiusKm             float64 `yaml:"radiusKm,omitempty"`
	MaxTransfers         int     `yaml:"maxTransfers,omitempty"`
	AllowOvernight       *bool   `yaml:"allowOvernight,omitempty"`
	MaxDayOffset         int     `yaml:"maxDayOffset,omitempty"`
	BookingHorizonDays   int     `yaml:"bookingHorizonDays,omitempty"`
	Concurrency          int     `yaml:"concurrency,omitempty"`
}

// LoadConfigFile loads a configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .allyoucanfly in the current directory
// 3. Look for .allyoucanfly in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Apply overlays the non-zero values of the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	setString(&cfg.CatalogPath, cf.Catalog)
	setString(&cfg.DataDir, cf.DataDir)

	f := cf.Fetcher
	setString(&cfg.URLTemplate, f.URLTemplate)
	setString(&cfg.FixturesDir, f.FixturesDir)
	setString(&cfg.ProxyAddress, f.Proxy)
	setString(&cfg.UserAgent, f.UserAgent)
	setDuration(&cfg.Timeout, f.TimeoutSeconds, time.Second)
	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.Headers))
		}
		for k, v := range f.Headers {
			cfg.Headers[k] = v
		}
	}

	th := cf.Throttle
	setInt(&cfg.MaxConsecutive, th.MaxConsecutive)
	setDuration(&cfg.BaseDelay, th.BaseDelayMs, time.Millisecond)
	setDuration(&cfg.Jitter, th.JitterMs, time.Millisecond)
	setDuration(&cfg.Cooldown, th.CooldownMs, time.Millisecond)
	setDuration(&cfg.InactivityReset, th.InactivityResetMs, time.Millisecond)

	if cf.Cache.TTLHours != 0 {
		cfg.CacheTTL = time.Duration(cf.Cache.TTLHours * float64(time.Hour))
	}
	setString(&cfg.CacheBackend, cf.Cache.Backend)

	r := cf.Retry
	if r.MaxRetries != nil {
		cfg.MaxRetries = *r.MaxRetries
	}
	setDuration(&cfg.RetryBaseDelay, r.BaseDelayMs, time.Millisecond)
	setDuration(&cfg.ShortCooldown, r.ShortCooldownSeconds, time.Second)
	setDuration(&cfg.MediumCooldown, r.MediumCooldownSeconds, time.Second)
	setDuration(&cfg.LongCooldown, r.LongCooldownSeconds, time.Second)

	s := cf.Search
	setDuration(&cfg.MinConnection, s.MinConnectionMinutes, time.Minute)
	setDuration(&cfg.MaxConnection, s.MaxConnectionMinutes, time.Minute)
	setDuration(&cfg.MinTurnaround, s.MinTurnaroundMinutes, time.Minute)
	if s.RadiusKm != 0 {
		cfg.RadiusKm = s.RadiusKm
	}
	setInt(&cfg.MaxTransfers, s.MaxTransfers)
	if s.AllowOvernight != nil {
		cfg.AllowOvernight = *s.AllowOvernight
	}
	setInt(&cfg.MaxDayOffset, s.MaxDayOffset)
	setInt(&cfg.BookingHorizonDays, s.BookingHorizonDays)
	setInt(&cfg.Concurrency, s.Concurrency)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v int, unit time.Duration) {
	if v != 0 {
		*dst = time.Duration(v) * unit
	}
}
