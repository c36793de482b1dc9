package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Assembler.MaxLineLength != 254 {
		t.Errorf("Expected MaxLineLength=254, got %d", cfg.Assembler.MaxLineLength)
	}
	if !cfg.Assembler.AllowTrailingBlank {
		t.Error("Expected AllowTrailingBlank=true")
	}
	if cfg.Listing.Emit {
		t.Error("Expected Listing.Emit=false")
	}
	if cfg.Listing.NumberFormat != "hex" {
		t.Errorf("Expected NumberFormat=hex, got %s", cfg.Listing.NumberFormat)
	}
	if cfg.Listing.BytesPerRow != 8 {
		t.Errorf("Expected BytesPerRow=8, got %d", cfg.Listing.BytesPerRow)
	}
	if !cfg.Inspector.ColorOutput {
		t.Error("Expected Inspector.ColorOutput=true")
	}
	if cfg.Inspector.StartupPanel != "source" {
		t.Errorf("Expected StartupPanel=source, got %s", cfg.Inspector.StartupPanel)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	switch runtime.GOOS {
	case "windows":
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}
	case "darwin", "linux":
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "asm8086" && path != "config.toml" {
			t.Errorf("Expected path in asm8086 directory or fallback, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	cfg := DefaultConfig()
	cfg.Assembler.MaxLineLength = 120
	cfg.Listing.Emit = true
	cfg.Listing.NumberFormat = "dec"
	cfg.Inspector.ColorOutput = false
	cfg.Inspector.StartupPanel = "encoding"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loaded.Assembler.MaxLineLength != 120 {
		t.Errorf("Expected MaxLineLength=120, got %d", loaded.Assembler.MaxLineLength)
	}
	if !loaded.Listing.Emit {
		t.Error("Expected Listing.Emit=true")
	}
	if loaded.Listing.NumberFormat != "dec" {
		t.Errorf("Expected NumberFormat=dec, got %s", loaded.Listing.NumberFormat)
	}
	if loaded.Inspector.ColorOutput {
		t.Error("Expected ColorOutput=false")
	}
	if loaded.Inspector.StartupPanel != "encoding" {
		t.Errorf("Expected StartupPanel=encoding, got %s", loaded.Inspector.StartupPanel)
	}
}

func TestLoadNonExistent(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	if cfg.Assembler.MaxLineLength != 254 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[assembler]
max_line_length = "not a number"
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
