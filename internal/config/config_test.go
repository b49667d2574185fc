package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg")
	content := []byte("SOURCE=sqlite\nDB_PATH=/tmp/x.db\nPER_PAGE=5\nSEARCH_BOX=false\nPROBE_INTERVAL=2s\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != SourceSQLite || cfg.DBPath != "/tmp/x.db" || cfg.PerPage != 5 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.SearchBox {
		t.Fatalf("expected search box disabled")
	}
	if cfg.ProbeInterval != 2*time.Second {
		t.Fatalf("probe interval = %v", cfg.ProbeInterval)
	}
	if cfg.Path != path {
		t.Fatalf("path = %q, want %q", cfg.Path, path)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != SourceMemory || cfg.PerPage != 20 || cfg.Loading != "placeholder" || !cfg.SearchBox {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LISTKIT_SOURCE", "HTTP")
	t.Setenv("LISTKIT_URL", "http://example.test")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Source != SourceHTTP || cfg.URL != "http://example.test" {
		t.Fatalf("expected values from env, got %+v", cfg)
	}
}

func TestSaveWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg")
	cfg := Config{Source: SourceMemory, DBPath: "a.db", URL: "http://x", PerPage: 10, Loading: "spin", SearchBox: true, LogLevel: "warn", ProbeInterval: 5 * time.Second}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	expected := "SOURCE=memory\nDB_PATH=a.db\nURL=http://x\nPER_PAGE=10\nSTART_PAGE=0\nLOADING=spin\nSEARCH_BOX=true\nLOG_LEVEL=warn\nPROBE_INTERVAL=5s\n"
	if string(data) != expected {
		t.Fatalf("file content = %q, want %q", string(data), expected)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if back.Loading != "spin" || back.PerPage != 10 {
		t.Fatalf("round trip mismatch: %+v", back)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	cfg.Source = SourceHTTP
	cfg.URL = "http://api.test"
	cfg.Token = "secret"
	cfg.PerPage = 7
	cfg.StartPage = 1
	cfg.Loading = "none"
	cfg.SearchBox = false
	cfg.LogLevel = "debug"
	cfg.LogFile = "/tmp/x.log"
	cfg.ProbeInterval = 30 * time.Second
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if back != cfg {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, cfg)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"unknown source", Config{Source: "ftp", Loading: "spin", PerPage: 1}},
		{"unknown loading", Config{Source: SourceMemory, Loading: "dots", PerPage: 1}},
		{"zero per page", Config{Source: SourceMemory, Loading: "none"}},
		{"http without url", Config{Source: SourceHTTP, Loading: "none", PerPage: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Save(filepath.Join(t.TempDir(), "cfg"), tt.cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestDefaultPathUsesHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	want := filepath.Join(dir, ".listkitrc")
	if got := DefaultPath(); got != want {
		t.Fatalf("DefaultPath() = %q, want %q", got, want)
	}
}
