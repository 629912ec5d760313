package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Constants
const (
	DefaultListen     = ":8080"
	DefaultConfigFile = "epoch-demo.yaml"
	DateLayout        = "2006-01-02"
	EpochStart        = "1970-01-01"
	MinimumAge        = 16

	// Error messages
	ErrInvalidDateFormat = "Invalid date format"
	ErrInvalidFormat     = "Invalid format"
	ErrInvalidDay        = "Invalid day!"
	ErrNumberOutOfRange  = "Number out of range"
	ErrNoEventsFound     = "Didn't find any data"
	ErrWrongData         = "wrong data"
	ErrTooYoung          = "too young"
	ErrInvalidBody       = "Invalid request body"
	ErrMissingParam      = "Missing query parameter"
	ErrInvalidNumber     = "Number must be an integer"
	ErrInternalServer    = "Internal server error"

	// ICS constants
	ICSProductID = "-//Klabast//Epoch Demo//EN"
	ICSDomain    = "epoch-demo"
)

// Days maps day numbers to their registered names (1=monday ... 7=sunday)
var Days = map[int]string{
	1: "monday",
	2: "tuesday",
	3: "wednesday",
	4: "thursday",
	5: "friday",
	6: "saturday",
	7: "sunday",
}

// Config is the service configuration read from YAML.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`

	// Timezone is the IANA zone used for date_added. "Local" means the process zone.
	Timezone string `yaml:"timezone"`

	// AuthFile points to a username:argon2id-hash file protecting event writes.
	// Empty disables write protection.
	AuthFile string `yaml:"auth_file"`

	// LogRequests toggles the per-request log line.
	LogRequests *bool `yaml:"log_requests"`
}

// DefaultConfig returns the in-memory defaults.
func DefaultConfig() *Config {
	c := &Config{}
	c.Normalize()
	return c
}

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Timezone == "" {
		c.Timezone = "Local"
	}
	if c.LogRequests == nil {
		enabled := true
		c.LogRequests = &enabled
	}
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// LoadConfig reads configuration from a YAML file.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Normalize()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
