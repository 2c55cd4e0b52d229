package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/luga/pkg/constants"
	"github.com/agentstation/luga/pkg/errors"
)

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Dashboard configuration
	DashboardHost     string
	DashboardPort     int
	DashboardHeadless bool
	ResultTTL         time.Duration
	MaxUploadMB       int64

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// explicitLevel is set when --log-level was given
	explicitLevel bool
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env files
// 4. Config file (~/.luga.yaml or ./.luga.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv("LUGA_CONFIG"))
}

func loadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".luga")
		// A missing config file is fine
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		DashboardHost:     v.GetString("dashboard_host"),
		DashboardPort:     v.GetInt("dashboard_port"),
		DashboardHeadless: v.GetBool("dashboard_headless"),
		ResultTTL:         v.GetDuration("result_ttl"),
		MaxUploadMB:       v.GetInt64("max_upload_mb"),

		// LogLevel stays empty unless set so -v/-q can apply
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dashboard_host", constants.DefaultDashboardHost)
	v.SetDefault("dashboard_port", constants.DefaultDashboardPort)
	v.SetDefault("dashboard_headless", false)
	v.SetDefault("result_ttl", constants.DefaultResultTTL)
	v.SetDefault("max_upload_mb", constants.DefaultMaxUploadMB)
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

func (c *Config) validate() error {
	if c.DashboardPort <= 0 || c.DashboardPort > 65535 {
		return errors.NewConfigError("dashboard_port", "must be between 1 and 65535", nil)
	}
	if c.ResultTTL <= 0 {
		return errors.NewConfigError("result_ttl", "must be positive", nil)
	}
	if c.MaxUploadMB <= 0 {
		return errors.NewConfigError("max_upload_mb", "must be positive", nil)
	}
	return nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so flag values take
// precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = c.Verbose || verbose
	c.Quiet = c.Quiet || quiet
	c.NoColor = c.NoColor || noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
		c.explicitLevel = true
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so it wins, since godotenv never overrides.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}
