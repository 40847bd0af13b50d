package config

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"

	PostgresClientPGXPool = "pgxpool"
	PostgresClientSQLDB   = "sqldb"
	PostgresClientSQLX    = "sqlx"
)

var (
	ErrInvalidConfig         = errors.New("invalid configuration")
	ErrMissingSessionSecret  = errors.New("session_secret is required unless insecure_plain_sessions is enabled")
	ErrUnreadableConfigFile  = errors.New("config file could not be read")
	ErrUnreadableDotEnvFile  = errors.New(".env file could not be read")
	ErrInvalidSettingValue   = errors.New("invalid setting value")
	ErrMissingPostgresDSN    = errors.New("postgres_dsn is required for the postgres store")
	ErrUnknownStore          = errors.New("unknown store")
	ErrUnknownPostgresClient = errors.New("unknown postgres client")
)

// Config holds all settings of the service. The yaml tags double as the setting keys.
type Config struct {
	HTTPAddr              string        `yaml:"http_addr"`
	Store                 string        `yaml:"store"`
	PostgresDSN           string        `yaml:"postgres_dsn"`
	PostgresReplicaDSN    string        `yaml:"postgres_replica_dsn"`
	PostgresClient        string        `yaml:"postgres_client"`
	SQLitePath            string        `yaml:"sqlite_path"`
	EventsTable           string        `yaml:"events_table"`
	FineRatePerDay        string        `yaml:"fine_rate_per_day"`
	Timezone              string        `yaml:"timezone"`
	SessionSecret         string        `yaml:"session_secret"`
	SessionTTL            time.Duration `yaml:"session_ttl"`
	InsecurePlainSessions bool          `yaml:"insecure_plain_sessions"`
	CookieSecure          bool          `yaml:"cookie_secure"`
	RedisAddr             string        `yaml:"redis_addr"`
	LoginAttemptLimit     int           `yaml:"login_attempt_limit"`
	LoginAttemptWindow    time.Duration `yaml:"login_attempt_window"`
	OverdueSweepSchedule  string        `yaml:"overdue_sweep_schedule"`
	OTLPEndpoint          string        `yaml:"otlp_endpoint"`
	ServiceName           string        `yaml:"service_name"`
	LogLevel              string        `yaml:"log_level"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		HTTPAddr:             ":8080",
		Store:                StoreSQLite,
		PostgresClient:       PostgresClientPGXPool,
		SQLitePath:           "library.db",
		EventsTable:          "events",
		FineRatePerDay:       "10.00",
		Timezone:             "UTC",
		SessionTTL:           12 * time.Hour,
		LoginAttemptLimit:    5,
		LoginAttemptWindow:   15 * time.Minute,
		OverdueSweepSchedule: "0 6 * * *",
		ServiceName:          "library-circulation",
		LogLevel:             "info",
	}
}

// Validate checks the settings that every command depends on.
func (c Config) Validate() error {
	var errs []error

	switch c.Store {
	case StorePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			errs = append(errs, ErrMissingPostgresDSN)
		}

		switch c.PostgresClient {
		case PostgresClientPGXPool, PostgresClientSQLDB, PostgresClientSQLX:
		default:
			errs = append(errs, errors.Join(ErrUnknownPostgresClient, errors.New(c.PostgresClient)))
		}

	case StoreSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			errs = append(errs, errors.Join(ErrInvalidSettingValue, errors.New("sqlite_path must not be empty")))
		}

	case StoreMemory:

	default:
		errs = append(errs, errors.Join(ErrUnknownStore, errors.New(c.Store)))
	}

	if strings.TrimSpace(c.EventsTable) == "" {
		errs = append(errs, errors.Join(ErrInvalidSettingValue, errors.New("events_table must not be empty")))
	}

	if _, err := c.FineRate(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}

	if c.SessionTTL <= 0 {
		errs = append(errs, errors.Join(ErrInvalidSettingValue, errors.New("session_ttl must be positive")))
	}

	if c.LoginAttemptLimit <= 0 {
		errs = append(errs, errors.Join(ErrInvalidSettingValue, errors.New("login_attempt_limit must be positive")))
	}

	if c.LoginAttemptWindow <= 0 {
		errs = append(errs, errors.Join(ErrInvalidSettingValue, errors.New("login_attempt_window must be positive")))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}

	return nil
}

// RequireSessionSecret fails when sessions would be neither signed nor explicitly allowed to be plain.
func (c Config) RequireSessionSecret() error {
	if c.InsecurePlainSessions || c.SessionSecret != "" {
		return nil
	}

	return ErrMissingSessionSecret
}

// FineRate parses fine_rate_per_day.
func (c Config) FineRate() (core.Money, error) {
	rate, err := core.ParseMoney(c.FineRatePerDay)
	if err != nil {
		return 0, errors.Join(ErrInvalidSettingValue, errors.New("fine_rate_per_day: "+c.FineRatePerDay), err)
	}

	return rate, nil
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Join(ErrInvalidSettingValue, errors.New("timezone: "+c.Timezone), err)
	}

	return loc, nil
}

// SlogLevel parses log_level (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, errors.Join(ErrInvalidSettingValue, errors.New("log_level: "+c.LogLevel), err)
	}

	return level, nil
}

// setting binds one key to its Config field.
type setting struct {
	key    string
	usage  string
	isBool bool
	get    func(c *Config) string
	set    func(c *Config, value string) error
}

func (s setting) envName() string {
	return EnvPrefix + strings.ToUpper(s.key)
}

func (s setting) flagName() string {
	return strings.ReplaceAll(s.key, "_", "-")
}

func stringSetting(key, usage string, field func(c *Config) *string) setting {
	return setting{
		key:   key,
		usage: usage,
		get:   func(c *Config) string { return *field(c) },
		set: func(c *Config, value string) error {
			*field(c) = strings.TrimSpace(value)
			return nil
		},
	}
}

func boolSetting(key, usage string, field func(c *Config) *bool) setting {
	return setting{
		key:    key,
		usage:  usage,
		isBool: true,
		get:    func(c *Config) string { return strconv.FormatBool(*field(c)) },
		set: func(c *Config, value string) error {
			parsed, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return errors.Join(ErrInvalidSettingValue, errors.New(key+": "+value), err)
			}

			*field(c) = parsed

			return nil
		},
	}
}

func intSetting(key, usage string, field func(c *Config) *int) setting {
	return setting{
		key:   key,
		usage: usage,
		get:   func(c *Config) string { return strconv.Itoa(*field(c)) },
		set: func(c *Config, value string) error {
			parsed, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return errors.Join(ErrInvalidSettingValue, errors.New(key+": "+value), err)
			}

			*field(c) = parsed

			return nil
		},
	}
}

func durationSetting(key, usage string, field func(c *Config) *time.Duration) setting {
	return setting{
		key:   key,
		usage: usage,
		get:   func(c *Config) string { return field(c).String() },
		set: func(c *Config, value string) error {
			parsed, err := time.ParseDuration(strings.TrimSpace(value))
			if err != nil {
				return errors.Join(ErrInvalidSettingValue, errors.New(key+": "+value), err)
			}

			*field(c) = parsed

			return nil
		},
	}
}

//nolint:funlen
func settings() []setting {
	return []setting{
		stringSetting("http_addr", "HTTP listen address",
			func(c *Config) *string { return &c.HTTPAddr }),
		stringSetting("store", "event store: postgres, sqlite or memory",
			func(c *Config) *string { return &c.Store }),
		stringSetting("postgres_dsn", "PostgreSQL DSN of the primary",
			func(c *Config) *string { return &c.PostgresDSN }),
		stringSetting("postgres_replica_dsn", "PostgreSQL DSN of a read replica (pgxpool only)",
			func(c *Config) *string { return &c.PostgresReplicaDSN }),
		stringSetting("postgres_client", "PostgreSQL client: pgxpool, sqldb or sqlx",
			func(c *Config) *string { return &c.PostgresClient }),
		stringSetting("sqlite_path", "SQLite database file",
			func(c *Config) *string { return &c.SQLitePath }),
		stringSetting("events_table", "name of the events table",
			func(c *Config) *string { return &c.EventsTable }),
		stringSetting("fine_rate_per_day", "fine per overdue day, e.g. 10.00",
			func(c *Config) *string { return &c.FineRatePerDay }),
		stringSetting("timezone", "IANA timezone that defines the calendar day",
			func(c *Config) *string { return &c.Timezone }),
		stringSetting("session_secret", "HMAC secret for signed session cookies",
			func(c *Config) *string { return &c.SessionSecret }),
		durationSetting("session_ttl", "lifetime of a session",
			func(c *Config) *time.Duration { return &c.SessionTTL }),
		boolSetting("insecure_plain_sessions", "accept unsigned session cookies",
			func(c *Config) *bool { return &c.InsecurePlainSessions }),
		boolSetting("cookie_secure", "set the Secure attribute on the session cookie",
			func(c *Config) *bool { return &c.CookieSecure }),
		stringSetting("redis_addr", "Redis address for the login rate limiter (empty = in-memory)",
			func(c *Config) *string { return &c.RedisAddr }),
		intSetting("login_attempt_limit", "login attempts per window",
			func(c *Config) *int { return &c.LoginAttemptLimit }),
		durationSetting("login_attempt_window", "login rate limit window",
			func(c *Config) *time.Duration { return &c.LoginAttemptWindow }),
		stringSetting("overdue_sweep_schedule", "cron schedule of the overdue sweep (empty = disabled)",
			func(c *Config) *string { return &c.OverdueSweepSchedule }),
		stringSetting("otlp_endpoint", "OTLP gRPC endpoint (empty = disabled)",
			func(c *Config) *string { return &c.OTLPEndpoint }),
		stringSetting("service_name", "service name reported to OpenTelemetry",
			func(c *Config) *string { return &c.ServiceName }),
		stringSetting("log_level", "log level: debug, info, warn or error",
			func(c *Config) *string { return &c.LogLevel }),
	}
}
