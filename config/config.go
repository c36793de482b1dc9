// Package config holds ambient, non-semantic settings of the assembler
// driver — line-length limits, listing output, and the inspector TUI's
// starting state. Of these, only the inspector settings are read by the
// rest of the module: asm8086.Assemble applies its own fixed 254-character
// line cap, and no listing is emitted. It cannot change the instruction
// grammar or encoding, which are fixed by the scanner/parser/encoder
// packages.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config is the full set of ambient settings, grouped by concern.
type Config struct {
	Assembler struct {
		MaxLineLength      int  `toml:"max_line_length"`
		AllowTrailingBlank bool `toml:"allow_trailing_blank_lines"`
	} `toml:"assembler"`

	Listing struct {
		Emit         bool   `toml:"emit"`
		NumberFormat string `toml:"number_format"` // hex, dec
		BytesPerRow  int    `toml:"bytes_per_row"`
	} `toml:"listing"`

	Inspector struct {
		ColorOutput  bool   `toml:"color_output"`
		StartupPanel string `toml:"startup_panel"` // source, tokens, encoding, errors
	} `toml:"inspector"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Assembler.MaxLineLength = 254
	cfg.Assembler.AllowTrailingBlank = true

	cfg.Listing.Emit = false
	cfg.Listing.NumberFormat = "hex"
	cfg.Listing.BytesPerRow = 8

	cfg.Inspector.ColorOutput = true
	cfg.Inspector.StartupPanel = "source"

	return cfg
}

// GetConfigPath returns the platform-specific config file path.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "asm8086")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "asm8086")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing
// file is not an error — it yields the default configuration.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file.
func (c *Config) SaveTo(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
