// Package config provides configuration management for clipd.
// Configuration is loaded from environment variables (optionally seeded from
// a .env file) with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// Default values
	DefaultPort               = 5050
	DefaultLogLevel           = "info"
	DefaultDataDir            = ".clipd"
	DefaultHighlightThreshold = 7

	// Environment variable names
	EnvPort               = "CLIPD_PORT"
	EnvLogLevel           = "CLIPD_LOG_LEVEL"
	EnvDataDir            = "CLIPD_DATA_DIR"
	EnvAnalyzerBaseURL    = "CLIPD_ANALYZER_BASE_URL"
	EnvAnalyzerAPIKey     = "CLIPD_ANALYZER_API_KEY"
	EnvAnalyzerPollSecs   = "CLIPD_ANALYZER_POLL_SECONDS"
	EnvAnalyzerTimeout    = "CLIPD_ANALYZER_TIMEOUT_SECONDS"
	EnvFetchTimeout       = "CLIPD_FETCH_TIMEOUT_SECONDS"
	EnvEncodeTimeout      = "CLIPD_ENCODE_TIMEOUT_SECONDS"
	EnvHighlightThreshold = "CLIPD_HIGHLIGHT_THRESHOLD"
	EnvHistoryEnabled     = "CLIPD_HISTORY_ENABLED"

	// Database filename
	DBFilename = "clipd.db"

	// Timing defaults, in seconds
	DefaultAnalyzerPollSecs    = 5
	DefaultAnalyzerTimeoutSecs = 600
	DefaultFetchTimeoutSecs    = 600
	DefaultEncodeTimeoutSecs   = 300
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	DownloadsDir() string
	ClipsDir() string
	AnalyzerBaseURL() string
	AnalyzerAPIKey() string
	AnalyzerPollInterval() time.Duration
	AnalyzerTimeout() time.Duration
	FetchTimeout() time.Duration
	EncodeTimeout() time.Duration
	HighlightThreshold() int
	HistoryEnabled() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port               int
	logLevel           string
	dataDir            string
	analyzerBaseURL    string
	analyzerAPIKey     string
	analyzerPollSecs   int
	analyzerTimeout    int
	fetchTimeout       int
	encodeTimeout      int
	highlightThreshold int
	historyEnabled     bool
}

// New creates a new EnvConfig with defaults and environment variable overrides.
// A .env file in the working directory is loaded first when present.
func New() (*EnvConfig, error) {
	// Missing .env is not an error; the environment wins either way.
	_ = godotenv.Load()

	cfg := &EnvConfig{
		port:               DefaultPort,
		logLevel:           DefaultLogLevel,
		dataDir:            defaultDataDir(),
		analyzerPollSecs:   DefaultAnalyzerPollSecs,
		analyzerTimeout:    DefaultAnalyzerTimeoutSecs,
		fetchTimeout:       DefaultFetchTimeoutSecs,
		encodeTimeout:      DefaultEncodeTimeoutSecs,
		highlightThreshold: DefaultHighlightThreshold,
		historyEnabled:     true,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.analyzerBaseURL = os.Getenv(EnvAnalyzerBaseURL)
	cfg.analyzerAPIKey = os.Getenv(EnvAnalyzerAPIKey)

	var err error
	if cfg.analyzerPollSecs, err = positiveSecsEnv(EnvAnalyzerPollSecs, cfg.analyzerPollSecs); err != nil {
		return nil, err
	}
	if cfg.analyzerTimeout, err = positiveSecsEnv(EnvAnalyzerTimeout, cfg.analyzerTimeout); err != nil {
		return nil, err
	}
	if cfg.fetchTimeout, err = positiveSecsEnv(EnvFetchTimeout, cfg.fetchTimeout); err != nil {
		return nil, err
	}
	if cfg.encodeTimeout, err = positiveSecsEnv(EnvEncodeTimeout, cfg.encodeTimeout); err != nil {
		return nil, err
	}

	if th := os.Getenv(EnvHighlightThreshold); th != "" {
		threshold, err := strconv.Atoi(th)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHighlightThreshold, err)
		}
		cfg.highlightThreshold = threshold
	}

	if he := os.Getenv(EnvHistoryEnabled); he != "" {
		enabled, err := strconv.ParseBool(he)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHistoryEnabled, err)
		}
		cfg.historyEnabled = enabled
	}

	return cfg, nil
}

func positiveSecsEnv(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if secs < 1 {
		return 0, fmt.Errorf("invalid %s: must be at least 1 second", name)
	}
	return secs, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// DownloadsDir returns the directory holding raw downloaded videos
func (c *EnvConfig) DownloadsDir() string {
	return filepath.Join(c.dataDir, "downloads")
}

// ClipsDir returns the public serving root for cut clips and highlight reels
func (c *EnvConfig) ClipsDir() string {
	return filepath.Join(c.dataDir, "clips")
}

func (c *EnvConfig) AnalyzerBaseURL() string {
	return c.analyzerBaseURL
}

func (c *EnvConfig) AnalyzerAPIKey() string {
	return c.analyzerAPIKey
}

// AnalyzerPollInterval returns the fixed delay between analyzer status polls
func (c *EnvConfig) AnalyzerPollInterval() time.Duration {
	return time.Duration(c.analyzerPollSecs) * time.Second
}

// AnalyzerTimeout bounds the whole submit-poll-report conversation for one job
func (c *EnvConfig) AnalyzerTimeout() time.Duration {
	return time.Duration(c.analyzerTimeout) * time.Second
}

func (c *EnvConfig) FetchTimeout() time.Duration {
	return time.Duration(c.fetchTimeout) * time.Second
}

func (c *EnvConfig) EncodeTimeout() time.Duration {
	return time.Duration(c.encodeTimeout) * time.Second
}

// HighlightThreshold returns the minimum viral potential for the highlight reel
func (c *EnvConfig) HighlightThreshold() int {
	return c.highlightThreshold
}

func (c *EnvConfig) HistoryEnabled() bool {
	return c.historyEnabled
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
