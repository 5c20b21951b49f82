package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Thresholds.SeniorPartnerMin != 71 || cfg.Thresholds.SeniorAttorneyMin != 41 {
		t.Errorf("thresholds = %+v, want 71/41", cfg.Thresholds)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intakeflow.yml")
	content := `
port: 9090
data_dir: /tmp/intake-data
clients_dir: /tmp/intake-clients
model: gpt-4o
llm_timeout_seconds: 5
thresholds:
  senior_partner_min: 80
  senior_attorney_min: 50
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Port)
	}
	if cfg.Model != "gpt-4o" {
		t.Errorf("Model = %q, want gpt-4o", cfg.Model)
	}
	if cfg.Thresholds.SeniorPartnerMin != 80 {
		t.Errorf("SeniorPartnerMin = %d, want 80", cfg.Thresholds.SeniorPartnerMin)
	}
}

func TestValidateRejectsBadThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds = Thresholds{SeniorPartnerMin: 30, SeniorAttorneyMin: 50}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted thresholds")
	}

	cfg.Thresholds = Thresholds{SeniorPartnerMin: 120, SeniorAttorneyMin: 50}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range threshold")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "intakeflow.yml")

	cfg := DefaultConfig()
	cfg.Port = 9999
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Port != 9999 {
		t.Errorf("Port = %d, want 9999", loaded.Port)
	}
}

func TestLoadClients(t *testing.T) {
	dir := t.TempDir()
	content := `
business_name: Smith & Jones Law
greeting: Welcome to Smith & Jones.
fee_structure: Contingency fee.
case_types: [personal_injury, criminal_defense]
`
	if err := os.WriteFile(filepath.Join(dir, "smith-jones.yml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	clients, err := LoadClients(dir)
	if err != nil {
		t.Fatalf("LoadClients: %v", err)
	}

	c := clients.Get("smith-jones")
	if c == nil {
		t.Fatal("client not loaded under file-derived id")
	}
	if c.BusinessName != "Smith & Jones Law" {
		t.Errorf("BusinessName = %q", c.BusinessName)
	}
	if clients.Get("nobody") != nil {
		t.Error("unknown client should be nil")
	}
}

func TestLoadClientsRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	// Missing business_name and case_types.
	if err := os.WriteFile(filepath.Join(dir, "broken.yml"), []byte("greeting: hi\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadClients(dir); err == nil {
		t.Error("expected error for invalid client bundle")
	}
}

func TestLoadClientsEmptyDirFails(t *testing.T) {
	if _, err := LoadClients(t.TempDir()); err == nil {
		t.Error("expected error for empty clients dir")
	}
}

func TestEffectiveThresholds(t *testing.T) {
	defaults := DefaultThresholds()

	c := &Client{}
	if got := c.EffectiveThresholds(defaults); got != defaults {
		t.Errorf("nil override should return defaults, got %+v", got)
	}

	c.Thresholds = &Thresholds{SeniorPartnerMin: 90, SeniorAttorneyMin: 60}
	got := c.EffectiveThresholds(defaults)
	if got.SeniorPartnerMin != 90 || got.SeniorAttorneyMin != 60 {
		t.Errorf("override not applied: %+v", got)
	}
}
