package config

import (
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so defaults are observable
// regardless of the test process environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "READ_TIMEOUT", "READ_HEADER_TIMEOUT", "WRITE_TIMEOUT",
		"IDLE_TIMEOUT", "MAX_HEADER_BYTES", "GIN_MODE",
		"LOG_LEVEL", "LOG_PRETTY", "SWAGGER_ENABLED", "API_BASE_PATH",
		"DB_PATH",
		"RATE_LIMIT", "RATE_WINDOW", "RATE_MAX_CLIENTS", "RATE_STRATEGY",
		"DEDUP_WINDOW", "DEDUP_MAX_ENTRIES",
		"CORS_ALLOWED_ORIGINS", "ENABLE_HSTS", "HSTS_MAX_AGE",
		"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT",
		"OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SERVICE_NAME",
		"OTEL_TRACES_SAMPLER_ARG",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/api" {
		t.Errorf("APIBasePath = %q, want /api", cfg.APIBasePath)
	}
	if cfg.DBPath != "" {
		t.Errorf("DBPath = %q, want empty (unconfigured)", cfg.DBPath)
	}
	if cfg.RateLimit != 10 || cfg.RateWindow != time.Minute || cfg.RateMaxClients != 500 {
		t.Errorf("rate defaults wrong: limit=%d window=%v clients=%d",
			cfg.RateLimit, cfg.RateWindow, cfg.RateMaxClients)
	}
	if cfg.RateStrategy != RateStrategyWindow {
		t.Errorf("RateStrategy = %q, want %q", cfg.RateStrategy, RateStrategyWindow)
	}
	if cfg.DedupWindow != 5*time.Minute || cfg.DedupMaxEntries != 1000 {
		t.Errorf("dedup defaults wrong: window=%v entries=%d", cfg.DedupWindow, cfg.DedupMaxEntries)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 {
		t.Errorf("AllowedOrigins = %v, want empty", cfg.CORS.AllowedOrigins)
	}
	if cfg.OTEL.Enabled {
		t.Error("OTEL must be disabled by default")
	}
	if cfg.OTEL.SampleRatio != 1.0 {
		t.Errorf("SampleRatio = %v, want 1.0", cfg.OTEL.SampleRatio)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_PATH", "/data/orders.db")
	t.Setenv("RATE_LIMIT", "25")
	t.Setenv("RATE_WINDOW", "30s")
	t.Setenv("RATE_STRATEGY", "BUCKET")
	t.Setenv("DEDUP_WINDOW", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://naijamart.ng, https://www.naijamart.ng")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("API_BASE_PATH", "v1/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.DBPath != "/data/orders.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.RateLimit != 25 || cfg.RateWindow != 30*time.Second {
		t.Errorf("rate overrides wrong: limit=%d window=%v", cfg.RateLimit, cfg.RateWindow)
	}
	if cfg.RateStrategy != RateStrategyBucket {
		t.Errorf("RateStrategy = %q, want %q", cfg.RateStrategy, RateStrategyBucket)
	}
	if cfg.DedupWindow != 2*time.Minute {
		t.Errorf("DedupWindow = %v", cfg.DedupWindow)
	}
	want := []string{"https://naijamart.ng", "https://www.naijamart.ng"}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != want[0] || cfg.CORS.AllowedOrigins[1] != want[1] {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.CORS.AllowedOrigins, want)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn (normalized)", cfg.LogLevel)
	}
	if cfg.APIBasePath != "/v1" {
		t.Errorf("APIBasePath = %q, want /v1", cfg.APIBasePath)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, val, wantSubstr string
	}{
		{"LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"RATE_LIMIT", "0", "RATE_LIMIT"},
		{"RATE_MAX_CLIENTS", "-5", "RATE_MAX_CLIENTS"},
		{"RATE_STRATEGY", "leaky", "RATE_STRATEGY"},
		{"DEDUP_MAX_ENTRIES", "0", "DEDUP_MAX_ENTRIES"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tc.key, tc.val)

			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.val)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Fatalf("error %q does not mention %s", err, tc.wantSubstr)
			}
		})
	}
}

func TestLoad_MalformedNumbersFallBackToDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT", "plenty")
	t.Setenv("RATE_WINDOW", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RateLimit != 10 || cfg.RateWindow != time.Minute {
		t.Errorf("malformed values must fall back: limit=%d window=%v", cfg.RateLimit, cfg.RateWindow)
	}
}

func TestMustLoad_PanicsOnInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_STRATEGY", "leaky")

	defer func() {
		if recover() == nil {
			t.Fatal("expected MustLoad to panic")
		}
	}()
	MustLoad()
}

func TestNormalizeBasePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "/"},
		{"/", "/"},
		{"api", "/api"},
		{"/api/", "/api"},
		{"/api/v1//", "/api/v1"},
	}
	for _, tc := range tests {
		if got := normalizeBasePath(tc.in); got != tc.want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
