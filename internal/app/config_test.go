package app

import "testing"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %s", cfg.HTTPAddr)
	}
	if cfg.OpsAddr != ":9090" {
		t.Errorf("OpsAddr = %s", cfg.OpsAddr)
	}
}

func TestReadConfigFromEnv(t *testing.T) {
	t.Setenv("CLEARR_HTTP_ADDR", ":8181")
	t.Setenv("CLEARR_OPS_ADDR", ":9191")
	t.Setenv("CLEARR_POSTGRES_DSN", "postgres://clearr:pw@localhost:5432/clearr")
	t.Setenv("CLEARR_ADMIN_PASSWORD", "hunter2")
	t.Setenv("CLEARR_ADMIN_SECRET", "signing-key")
	t.Setenv("CLEARR_BASE_URL", "https://clearr.example")
	t.Setenv("CLEARR_NOTIFY_SMTP_HOST", "smtp.example.com")
	t.Setenv("CLEARR_NOTIFY_SMTP_PORT", "2525")
	t.Setenv("CLEARR_NOTIFY_FROM", "shop@clearr.example")
	t.Setenv("CLEARR_NOTIFY_TO", "ops@clearr.example")

	cfg := ReadConfig()
	if cfg.HTTPAddr != ":8181" || cfg.OpsAddr != ":9191" {
		t.Errorf("addrs = %s %s", cfg.HTTPAddr, cfg.OpsAddr)
	}
	if cfg.PostgresDSN == "" || cfg.AdminPassword != "hunter2" || cfg.AdminSecret != "signing-key" {
		t.Errorf("cfg = %+v", cfg)
	}
	if !cfg.Notify.Enabled() {
		t.Error("notify must be enabled with host/from/to set")
	}
	if cfg.Notify.Port != 2525 {
		t.Errorf("smtp port = %d", cfg.Notify.Port)
	}
	if cfg.Notify.BaseURL != "https://clearr.example" {
		t.Errorf("notify base url = %s", cfg.Notify.BaseURL)
	}
}

func TestReadConfigDefaultsWithoutEnv(t *testing.T) {
	t.Setenv("CLEARR_HTTP_ADDR", "")
	t.Setenv("CLEARR_OPS_ADDR", "")
	t.Setenv("CLEARR_NOTIFY_SMTP_HOST", "")

	cfg := ReadConfig()
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %s", cfg.HTTPAddr)
	}
	if cfg.Notify.Enabled() {
		t.Error("notify must be disabled without SMTP host")
	}
	if cfg.Notify.Port != 587 {
		t.Errorf("default smtp port = %d", cfg.Notify.Port)
	}
}
