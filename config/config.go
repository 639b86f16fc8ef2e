package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultAPIBase  = "http://localhost:5000"
	DefaultDatabase = "chinook"
)

type Config struct {
	Port            string
	APIBase         string // analytics backend, e.g. http://localhost:5000
	DefaultDatabase string
	MultipleCharts  bool
	LogLevel        string
	SessionTTL      time.Duration
	SessionStore    string // "memory" or "badger"
	DBPath          string
}

// Keys are the viper keys; each is also read from the upper-case environment
// variable of the same name.
const (
	KeyPort            = "port"
	KeyAPIBase         = "analytics_api_base"
	KeyDefaultDatabase = "default_database"
	KeyMultipleCharts  = "multiple_charts"
	KeyLogLevel        = "log_level"
	KeySessionTTL      = "session_ttl"
	KeySessionStore    = "session_store"
	KeyDBPath          = "db_path"
)

// New returns a viper instance with defaults and environment binding set up.
// A .env file in the working directory is loaded first if present.
func New() *viper.Viper {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(KeyPort, "9090")
	v.SetDefault(KeyAPIBase, DefaultAPIBase)
	v.SetDefault(KeyDefaultDatabase, DefaultDatabase)
	v.SetDefault(KeyMultipleCharts, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeySessionTTL, 30*time.Minute)
	v.SetDefault(KeySessionStore, "memory")
	v.SetDefault(KeyDBPath, "./data/badger")

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags maps command flags onto viper keys; flag names use dashes.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var bindErr error
	flags.VisitAll(func(f *pflag.Flag) {
		if bindErr != nil {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			bindErr = fmt.Errorf("failed to bind flag %s: %w", f.Name, err)
		}
	})
	return bindErr
}

// Load reads the configuration out of v and validates it.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:            v.GetString(KeyPort),
		APIBase:         strings.TrimRight(strings.TrimSpace(v.GetString(KeyAPIBase)), "/"),
		DefaultDatabase: strings.TrimSpace(v.GetString(KeyDefaultDatabase)),
		MultipleCharts:  v.GetBool(KeyMultipleCharts),
		LogLevel:        strings.ToLower(v.GetString(KeyLogLevel)),
		SessionTTL:      v.GetDuration(KeySessionTTL),
		SessionStore:    strings.ToLower(strings.TrimSpace(v.GetString(KeySessionStore))),
		DBPath:          v.GetString(KeyDBPath),
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	if cfg.DefaultDatabase == "" {
		cfg.DefaultDatabase = DefaultDatabase
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if !strings.HasPrefix(c.APIBase, "http://") && !strings.HasPrefix(c.APIBase, "https://") {
		return fmt.Errorf("analytics API base must be an http(s) URL, got %q", c.APIBase)
	}
	switch c.SessionStore {
	case "memory":
	case "badger":
		if c.DBPath == "" {
			return fmt.Errorf("db path is required for the badger session store")
		}
	default:
		return fmt.Errorf("unknown session store %q (want memory or badger)", c.SessionStore)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}
