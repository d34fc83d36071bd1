package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RECENT_LIMIT", "")
	t.Setenv("SESSION_EXPIRY", "")
	t.Setenv("DB_DRIVER", "")

	cfg := Load()
	if cfg.RecentLimit != 15 {
		t.Fatalf("expected default recent limit 15, got %d", cfg.RecentLimit)
	}
	if cfg.SessionExpiry != 7*24*time.Hour {
		t.Fatalf("unexpected session expiry %s", cfg.SessionExpiry)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("expected postgres driver, got %q", cfg.DBDriver)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("RECENT_LIMIT", "30")
	t.Setenv("SESSION_EXPIRY", "2h")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("GMAIL_RPS", "not-a-number")

	cfg := Load()
	if cfg.RecentLimit != 30 {
		t.Fatalf("expected recent limit 30, got %d", cfg.RecentLimit)
	}
	if cfg.SessionExpiry != 2*time.Hour {
		t.Fatalf("expected 2h expiry, got %s", cfg.SessionExpiry)
	}
	if !cfg.CookieSecure {
		t.Fatal("expected secure cookies")
	}
	if cfg.GmailRPS != 25 {
		t.Fatalf("invalid GMAIL_RPS should fall back to default, got %v", cfg.GmailRPS)
	}
}
