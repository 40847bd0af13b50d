// Package config provides the runtime configuration of the library circulation service.
//
// Settings are layered in increasing precedence: built-in defaults, an optional YAML file,
// a .env file plus the process environment (LIBRARY_* variables), and command-line flags.
//
// The package also contains the factories for the PostgreSQL connections (pgx.Pool, sql.DB, sqlx.DB),
// the slog JSON logger, and the OpenTelemetry providers used when OTLP export is enabled.
//
// This package is part of the shell (infrastructure) layer.
package config
