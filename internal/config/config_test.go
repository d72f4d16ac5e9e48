package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Import.Delimiter != "," {
		t.Errorf("Delimiter = %q, want comma", cfg.Import.Delimiter)
	}
	if cfg.Import.Overwrite {
		t.Error("Overwrite defaults to true")
	}
	if cfg.Host.AppVersion != "9.2.1" {
		t.Errorf("AppVersion = %q", cfg.Host.AppVersion)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SESSION_ROOT", "/srv/sessions")
	t.Setenv("IMPORT_DELIMITER", ";")
	t.Setenv("IMPORT_OVERWRITE", "true")
	t.Setenv("TARGET_PLATFORM", "windows")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Sessions.Root != "/srv/sessions" {
		t.Errorf("Root = %q", cfg.Sessions.Root)
	}
	if cfg.Import.Delimiter != ";" || !cfg.Import.Overwrite {
		t.Errorf("Import = %+v", cfg.Import)
	}
	if cfg.Host.Platform != "windows" {
		t.Errorf("Platform = %q", cfg.Host.Platform)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q", cfg.Logging.Level)
	}
}

func TestLoadEnvAlt(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/audit")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Audit.DatabaseURL != "postgres://localhost/audit" {
		t.Errorf("DatabaseURL = %q, want the envAlt value", cfg.Audit.DatabaseURL)
	}
}

func TestLoadInvalidLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Fatalf("Load() error = %v, want LOG_LEVEL complaint", err)
	}
}

func TestStringMasksAuditURL(t *testing.T) {
	t.Setenv("AUDIT_DATABASE_URL", "postgres://user:secret@db/audit")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s := cfg.String()
	if strings.Contains(s, "secret") {
		t.Errorf("String() leaks credentials: %s", s)
	}
	if !strings.Contains(s, "[MASKED]") {
		t.Errorf("String() missing mask: %s", s)
	}
}

func TestLoadExportSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `zabbix:
  url: http://zabbix.example.com/api_jsonrpc.php
  username: api-user
  password: api-pass
output:
  dir: /tmp/exports
default_username: netops
debug: true
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	settings, err := LoadExportSettings(path)
	if err != nil {
		t.Fatalf("LoadExportSettings() error = %v", err)
	}
	if settings.Zabbix.URL != "http://zabbix.example.com/api_jsonrpc.php" {
		t.Errorf("URL = %q", settings.Zabbix.URL)
	}
	if settings.Zabbix.Username != "api-user" || settings.Zabbix.Password != "api-pass" {
		t.Errorf("credentials = %+v", settings.Zabbix)
	}
	if settings.Output.Dir != "/tmp/exports" {
		t.Errorf("Dir = %q", settings.Output.Dir)
	}
	if settings.DefaultUsername != "netops" || !settings.Debug {
		t.Errorf("settings = %+v", settings)
	}
}

func TestLoadExportSettingsDefaultsAndErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("output dir default", func(t *testing.T) {
		path := filepath.Join(dir, "minimal.yml")
		content := "zabbix:\n  url: http://z/api_jsonrpc.php\n  username: u\n  password: p\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		settings, err := LoadExportSettings(path)
		if err != nil {
			t.Fatalf("LoadExportSettings() error = %v", err)
		}
		if settings.Output.Dir != "exports" {
			t.Errorf("Dir = %q, want exports", settings.Output.Dir)
		}
	})

	t.Run("missing url", func(t *testing.T) {
		path := filepath.Join(dir, "nourl.yml")
		if err := os.WriteFile(path, []byte("zabbix:\n  username: u\n"), 0o600); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := LoadExportSettings(path); err == nil {
			t.Fatal("LoadExportSettings() succeeded without zabbix.url")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadExportSettings(filepath.Join(dir, "absent.yml")); err == nil {
			t.Fatal("LoadExportSettings() succeeded on a missing file")
		}
	})
}
