package config

import (
	"os"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{
			name:     "true value",
			key:      "TEST_BOOL",
			value:    "true",
			def:      false,
			expected: true,
		},
		{
			name:     "false value",
			key:      "TEST_BOOL_FALSE",
			value:    "false",
			def:      true,
			expected: false,
		},
		{
			name:     "invalid value uses default",
			key:      "TEST_BOOL_INVALID",
			value:    "invalid",
			def:      true,
			expected: true,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_BOOL_MISSING",
			value:    "",
			def:      false,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{name: "empty", input: "", expected: nil},
		{name: "single", input: "a", expected: []string{"a"}},
		{name: "spaces and quotes", input: ` "a" , 'b',, c `, expected: []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitAndTrim(tt.input)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitAndTrim() length = %v, want %v", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitAndTrim()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name     string
		dsn      string
		expected string
	}{
		{name: "with credentials", dsn: "postgres://u:pw@db:5432/app", expected: "postgres://***@db:5432/app"},
		{name: "without credentials", dsn: "postgres://db:5432/app", expected: "postgres://db:5432/app"},
		{name: "not a url", dsn: "host=db user=u", expected: "host=db user=u"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactURL(tt.dsn); got != tt.expected {
				t.Errorf("redactURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("memory store with jwt", func(t *testing.T) {
		t.Setenv("ABLEMAP_STORE", "memory")
		t.Setenv("ABLEMAP_AUTH_PROVIDER", "jwt")
		t.Setenv("ABLEMAP_JWT_SECRET", "s3cret")
		t.Setenv("ABLEMAP_IDENTITY_CACHE_TTL", "1m")

		cfg := Load()
		if cfg.StoreMode != StoreMemory {
			t.Errorf("StoreMode = %v, want %v", cfg.StoreMode, StoreMemory)
		}
		if cfg.JWTSecret != "s3cret" {
			t.Errorf("JWTSecret = %v, want s3cret", cfg.JWTSecret)
		}
		if cfg.IdentityCacheTTL != time.Minute {
			t.Errorf("IdentityCacheTTL = %v, want 1m", cfg.IdentityCacheTTL)
		}
		if cfg.IdentityTimeout != 3*time.Second {
			t.Errorf("IdentityTimeout = %v, want 3s", cfg.IdentityTimeout)
		}
		if got := cfg.Redacted().JWTSecret; got != "***REDACTED***" {
			t.Errorf("Redacted().JWTSecret = %v", got)
		}
	})

	panics := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "postgres without database url",
			env:  map[string]string{"ABLEMAP_STORE": "postgres", "ABLEMAP_DATABASE_URL": ""},
		},
		{
			name: "jwt without secret",
			env:  map[string]string{"ABLEMAP_STORE": "memory", "ABLEMAP_AUTH_PROVIDER": "jwt", "ABLEMAP_JWT_SECRET": ""},
		},
		{
			name: "unknown store",
			env:  map[string]string{"ABLEMAP_STORE": "sqlite"},
		},
		{
			name: "unknown auth provider",
			env:  map[string]string{"ABLEMAP_STORE": "memory", "ABLEMAP_AUTH_PROVIDER": "google"},
		},
	}

	for _, tt := range panics {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("Load() should have panicked")
				}
			}()
			Load()
		})
	}
}
