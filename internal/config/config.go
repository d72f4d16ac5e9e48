// Package config provides centralized configuration for the CLI.
// Runtime settings load from environment variables with defaults and
// are validated up front; exporter credentials live in a YAML file.
package config

// Config holds all environment-derived settings.
type Config struct {
	Sessions SessionsConfig
	Import   ImportConfig
	Host     HostConfig
	Report   ReportConfig
	Audit    AuditConfig
	Logging  LoggingConfig
}

// SessionsConfig locates the session tree.
type SessionsConfig struct {
	// Root is the session tree directory. Empty means
	// ~/.sessionctl/sessions.
	Root string `env:"SESSION_ROOT"`
}

// ImportConfig holds bulk-import defaults; flags override both.
type ImportConfig struct {
	// Delimiter separates fields in import files. The literal NONE
	// selects single-field mode.
	Delimiter string `env:"IMPORT_DELIMITER" default:","`

	// Overwrite replaces existing sessions instead of creating
	// timestamp-suffixed siblings.
	Overwrite bool `env:"IMPORT_OVERWRITE" default:"false"`
}

// HostConfig describes the target terminal application environment,
// which gates VT320 emulation and RDP sessions.
type HostConfig struct {
	// AppVersion is the host application version the sessions are
	// written for.
	AppVersion string `env:"HOST_APP_VERSION" default:"9.2.1"`

	// Platform is the target platform ("windows", "linux", ...).
	// Empty means the current OS.
	Platform string `env:"TARGET_PLATFORM"`
}

// ReportConfig overrides the report fallback chain.
type ReportConfig struct {
	// PrimaryDir is tried first for the run report; empty uses the
	// conventional chain (Documents, Desktop, session root).
	PrimaryDir string `env:"REPORT_PRIMARY_DIR"`

	// SecondaryDir is tried after PrimaryDir.
	SecondaryDir string `env:"REPORT_SECONDARY_DIR"`
}

// AuditConfig enables the optional Postgres run history.
type AuditConfig struct {
	// DatabaseURL is the Postgres connection string. Empty disables
	// run auditing entirely.
	DatabaseURL string `env:"AUDIT_DATABASE_URL" envAlt:"DATABASE_URL"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json.
	Format string `env:"LOG_FORMAT" default:"text"`
}
