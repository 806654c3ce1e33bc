package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backend names accepted by the store config key.
const (
	StoreCSV    = "csv"
	StoreSheets = "sheets"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Enrichment API
	GeminiAPIKey string
	Model        string

	// Refresh cycle tuning
	Interval    time.Duration
	BatchSize   int
	Retries     int
	CallDelay   time.Duration
	CallTimeout time.Duration

	// Record store
	Store           string
	DataDir         string
	SpreadsheetID   string
	CredentialsFile string

	// Dataset years
	SourceYear int
	TargetYear int

	// Seed file for init
	Input string

	// HTTP server
	Host string
	Port int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.confsync.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindAPIKeys()
	setDefaults()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		// Search for config in standard locations
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".confsync")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Format:  viper.GetString("format"),

		ConfigFile: viper.ConfigFileUsed(),

		GeminiAPIKey: firstNonEmpty(viper.GetString("GEMINI_API_KEY"), viper.GetString("GOOGLE_API_KEY")),
		Model:        viper.GetString("model"),

		Interval:    viper.GetDuration("interval"),
		BatchSize:   viper.GetInt("batch_size"),
		Retries:     viper.GetInt("retries"),
		CallDelay:   viper.GetDuration("call_delay"),
		CallTimeout: viper.GetDuration("call_timeout"),

		Store:           viper.GetString("store"),
		DataDir:         viper.GetString("data_dir"),
		SpreadsheetID:   viper.GetString("spreadsheet_id"),
		CredentialsFile: viper.GetString("credentials_file"),

		SourceYear: viper.GetInt("source_year"),
		TargetYear: viper.GetInt("target_year"),

		Input: viper.GetString("input"),

		Host: viper.GetString("host"),
		Port: viper.GetInt("port"),

		LogLevel:  viper.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// setDefaults registers the default value for every tunable key.
func setDefaults() {
	viper.SetDefault("model", "gemini-2.5-flash")
	viper.SetDefault("interval", 12*time.Hour)
	viper.SetDefault("batch_size", 10)
	viper.SetDefault("retries", 3)
	viper.SetDefault("call_delay", 2*time.Second)
	viper.SetDefault("call_timeout", 60*time.Second)
	viper.SetDefault("store", StoreCSV)
	viper.SetDefault("data_dir", "data")
	viper.SetDefault("source_year", 2025)
	viper.SetDefault("target_year", 2026)
	viper.SetDefault("input", "conferences.csv")
	viper.SetDefault("host", "localhost")
	viper.SetDefault("port", 8080)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreCSV, StoreSheets:
	default:
		return fmt.Errorf("unknown store backend %q (want %s or %s)", c.Store, StoreCSV, StoreSheets)
	}
	if c.Store == StoreSheets && c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet_id is required for the %s store", StoreSheets)
	}
	if c.SourceYear >= c.TargetYear {
		return fmt.Errorf("source_year %d must precede target_year %d", c.SourceYear, c.TargetYear)
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindAPIKeys explicitly binds API key environment variables to Viper.
func bindAPIKeys() {
	apiKeys := []string{
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
	}

	for _, key := range apiKeys {
		if err := viper.BindEnv(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
