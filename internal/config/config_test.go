package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.App.Addr != ":8080" || cfg.App.LogFormat != "json" {
		t.Fatalf("app defaults = %+v", cfg.App)
	}
	if cfg.App.SinkTimeout != 15*time.Second {
		t.Fatalf("sink timeout = %v", cfg.App.SinkTimeout)
	}
	if !cfg.Identity.Required || !cfg.Identity.AutoGenerate {
		t.Fatalf("identity defaults = %+v", cfg.Identity)
	}
	// Only the local save is on by default: a fresh deployment must never
	// lose results to an unconfigured network sink.
	if cfg.Form.Enabled || cfg.Endpoint.Enabled || !cfg.Download.Enabled {
		t.Fatalf("sink defaults = form:%v endpoint:%v download:%v",
			cfg.Form.Enabled, cfg.Endpoint.Enabled, cfg.Download.Enabled)
	}
	if cfg.AdminEnabled() {
		t.Fatalf("admin enabled without credentials")
	}
}

func TestLoadRejectsEnabledSinkWithoutURL(t *testing.T) {
	t.Setenv("MUSHRELAY_FORM_ENABLED", "true")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "MUSHRELAY_FORM_URL") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadRejectsEndpointSinkWithoutURL(t *testing.T) {
	t.Setenv("MUSHRELAY_ENDPOINT_ENABLED", "true")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "MUSHRELAY_ENDPOINT_URL") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadRejectsAdminWithoutHash(t *testing.T) {
	t.Setenv("MUSHRELAY_ADMIN_EMAIL", "admin@lab.example")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "MUSHRELAY_ADMIN_PASSWORD_HASH") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	t.Setenv("MUSHRELAY_LOG_FORMAT", "yaml")
	if _, err := Load(); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadFullSinkChain(t *testing.T) {
	t.Setenv("MUSHRELAY_FORM_ENABLED", "true")
	t.Setenv("MUSHRELAY_FORM_URL", "https://collector.lab.example/api/collect")
	t.Setenv("MUSHRELAY_ENDPOINT_ENABLED", "true")
	t.Setenv("MUSHRELAY_ENDPOINT_URL", "https://collector.lab.example/api/v1/submissions")
	t.Setenv("MUSHRELAY_ENDPOINT_METHOD", "PUT")
	t.Setenv("MUSHRELAY_DOWNLOAD_DIR", "/var/lib/mushrelay/results")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Endpoint.Method != "PUT" || cfg.Form.Field != "results" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
