package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("sqlbridge-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Database.Host != "localhost" {
		t.Fatalf("Database.Host = %q", cfg.Database.Host)
	}
	if cfg.Database.User != "root" {
		t.Fatalf("Database.User = %q", cfg.Database.User)
	}
	if cfg.Database.Name != "test_db" {
		t.Fatalf("Database.Name = %q", cfg.Database.Name)
	}
	if cfg.Database.Port != 3306 {
		t.Fatalf("Database.Port = %d", cfg.Database.Port)
	}
	if cfg.Ollama.URL != "http://localhost:11434" {
		t.Fatalf("Ollama.URL = %q", cfg.Ollama.URL)
	}
	if cfg.Ollama.Model != "llama3.2" {
		t.Fatalf("Ollama.Model = %q", cfg.Ollama.Model)
	}
	if cfg.Auth.Required {
		t.Fatal("Auth.Required should default to false")
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"SQLBRIDGE_PROFILE": "prod"})
	cfg, err := Load("sqlbridge-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q", cfg.Profile)
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadOverridesFromEnvironment(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"SQLBRIDGE_HTTP_ADDR":         ":9999",
		"SQLBRIDGE_HTTP_READ_TIMEOUT": "15s",
		"DB_HOST":                     "db.internal",
		"DB_USER":                     "reporting",
		"DB_PASSWORD":                 "secret",
		"DB_NAME":                     "warehouse",
		"DB_PORT":                     "3307",
		"OLLAMA_URL":                  "http://ollama:11434",
		"OLLAMA_MODEL":                "llama3.2:70b",
		"SQLBRIDGE_LOG_LEVEL":         "error",
		"SQLBRIDGE_LOG_JSON":          "false",
	})
	cfg, err := Load("sqlbridge-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 15*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %v", cfg.HTTP.ReadTimeout)
	}
	if cfg.Database.Host != "db.internal" {
		t.Fatalf("Database.Host = %q", cfg.Database.Host)
	}
	if cfg.Database.Port != 3307 {
		t.Fatalf("Database.Port = %d", cfg.Database.Port)
	}
	if cfg.Ollama.Model != "llama3.2:70b" {
		t.Fatalf("Ollama.Model = %q", cfg.Ollama.Model)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Observability.LogJSON {
		t.Fatal("LogJSON should be false")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"bad profile":  {"SQLBRIDGE_PROFILE": "staging"},
		"bad port":     {"DB_PORT": "not-a-port"},
		"port too big": {"DB_PORT": "70000"},
		"bad duration": {"SQLBRIDGE_HTTP_READ_TIMEOUT": "fast"},
		"bad level":    {"SQLBRIDGE_LOG_LEVEL": "loud"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load("sqlbridge-api", mapLookup(env)); err == nil {
				t.Fatal("Load() should have failed")
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{Host: "localhost", User: "root", Password: "pw", Name: "test_db", Port: 3306}
	want := "root:pw@tcp(localhost:3306)/test_db?parseTime=true"
	if got := db.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
