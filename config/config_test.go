package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("USE_SSM", "false")
	t.Setenv("APP_ENV", "development")

	LoadConfig()

	if AppConfig.Port != "3000" {
		t.Errorf("Port = %q, want 3000", AppConfig.Port)
	}
	if AppConfig.JWTExpiresIn != 24*time.Hour {
		t.Errorf("JWTExpiresIn = %v, want 24h", AppConfig.JWTExpiresIn)
	}
	if AppConfig.AuthEmailDomain != "oficinadoaluno.com" {
		t.Errorf("AuthEmailDomain = %q", AppConfig.AuthEmailDomain)
	}
	if AppConfig.AllowedExtensions == "" {
		t.Error("AllowedExtensions is empty")
	}
}

func TestLoadConfigExpiryShorthand(t *testing.T) {
	t.Setenv("USE_SSM", "false")
	t.Setenv("APP_ENV", "development")

	tests := []struct {
		in   string
		want time.Duration
	}{
		{"12h", 12 * time.Hour},
		{"7d", 7 * 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Setenv("JWT_EXPIRES_IN", tt.in)
		LoadConfig()
		if AppConfig.JWTExpiresIn != tt.want {
			t.Errorf("JWT_EXPIRES_IN=%s: got %v, want %v", tt.in, AppConfig.JWTExpiresIn, tt.want)
		}
	}
}
