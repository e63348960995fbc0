package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	want := Default()
	if *cfg != *want {
		t.Errorf("LoadFrom() = %+v, want %+v", cfg, want)
	}
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	toml := `
[quote]
validity_days = 45
currency_symbol = "£"
number_prefix = "SQ"

[seed]
enabled = false
`
	if err := os.WriteFile(filepath.Join(dir, "sheetquote.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHEETQUOTE_QUOTE_NUMBER_PREFIX", "QX")
	t.Setenv("SHEETQUOTE_UPLOAD_MAX_BYTES", "2048")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Quote.ValidityDays != 45 || cfg.Quote.CurrencySymbol != "£" {
		t.Errorf("file values not applied: %+v", cfg.Quote)
	}
	if cfg.Quote.NumberPrefix != "QX" {
		t.Errorf("NumberPrefix = %q, env should win over file", cfg.Quote.NumberPrefix)
	}
	if cfg.Upload.MaxBytes != 2048 {
		t.Errorf("MaxBytes = %d, want 2048", cfg.Upload.MaxBytes)
	}
	if cfg.Seed.Enabled {
		t.Error("seed.enabled = false in file was ignored")
	}
	if cfg.Quote.DefaultTerms != DefaultTerms {
		t.Errorf("DefaultTerms = %q, want default", cfg.Quote.DefaultTerms)
	}
}

func TestLoadFrom_ConfigNameFromEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "staging.toml"), []byte("[quote]\nvalidity_days = 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SHEETQUOTE_CONFIG", "staging")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Quote.ValidityDays != 7 {
		t.Errorf("ValidityDays = %d, want 7", cfg.Quote.ValidityDays)
	}
}

func TestLoadFrom_BadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sheetquote.toml"), []byte("[quote\nbroken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(dir); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}

func TestLoadFrom_NonPositiveValuesFallBack(t *testing.T) {
	t.Setenv("SHEETQUOTE_QUOTE_VALIDITY_DAYS", "0")
	t.Setenv("SHEETQUOTE_UPLOAD_MAX_BYTES", "-1")
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Quote.ValidityDays != 30 || cfg.Upload.MaxBytes != 10<<20 {
		t.Errorf("got %d days, %d bytes", cfg.Quote.ValidityDays, cfg.Upload.MaxBytes)
	}
}
