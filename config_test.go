package kentscript

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_LoadConfig_Missing_File_Gives_Defaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func Test_LoadConfig_Reads_Fields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kent.yaml")
	data := "workers: 8\nhistory_file: .hist\ncolor: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 8 || cfg.HistoryFile != ".hist" || cfg.Color {
		t.Fatalf("got %+v", cfg)
	}
}

func Test_LoadConfig_Zero_Workers_Falls_Back(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kent.yaml")
	if err := os.WriteFile(path, []byte("workers: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != defaultPoolWorkers {
		t.Fatalf("workers: %d", cfg.Workers)
	}
}

func Test_LoadConfig_Malformed_Is_An_Error(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kent.yaml")
	if err := os.WriteFile(path, []byte("workers: [not an int\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("want an error for malformed yaml")
	}
}
