package harness

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/ppcverify/emu"
	"github.com/sarchlab/ppcverify/icache"
	"github.com/sarchlab/ppcverify/insts"
)

// Config holds the settings of a test run.
type Config struct {
	// Oracle selects the expected-result source: "auto", "host" or
	// "reference".
	Oracle string `json:"oracle"`

	// Families lists the enabled families. Empty enables all.
	Families []string `json:"families"`

	Verbose  bool   `json:"verbose"`
	LogLevel string `json:"log_level"`

	// Initial register values of every case.
	SeedRD  uint32 `json:"seed_rd"`
	SeedCR  uint32 `json:"seed_cr"`
	SeedXER uint32 `json:"seed_xer"`

	// MaxSteps bounds each emulated run.
	MaxSteps uint64 `json:"max_steps"`

	// Emulator instruction cache geometry.
	ICacheSize          int `json:"icache_size"`
	ICacheAssociativity int `json:"icache_associativity"`
	ICacheBlockSize     int `json:"icache_block_size"`
}

// DefaultConfig returns the default run configuration.
func DefaultConfig() *Config {
	ic := icache.DefaultConfig()
	return &Config{
		Oracle:              OracleAuto,
		LogLevel:            logrus.InfoLevel.String(),
		MaxSteps:            16,
		ICacheSize:          ic.Size,
		ICacheAssociativity: ic.Associativity,
		ICacheBlockSize:     ic.BlockSize,
	}
}

// LoadConfig loads a configuration from a JSON file. Fields missing from
// the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the configuration to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Oracle {
	case OracleAuto, OracleHost, OracleReference:
	default:
		return fmt.Errorf("oracle must be one of auto, host, reference; got %q", c.Oracle)
	}

	known := FamilyNames()
	for _, f := range c.Families {
		if !slices.Contains(known, f) {
			return fmt.Errorf("unknown family %q", f)
		}
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}

	if c.SeedXER&^insts.XERArchMask != 0 {
		return fmt.Errorf("seed_xer sets undefined bits: %08x", c.SeedXER&^insts.XERArchMask)
	}
	if c.SeedXER&(insts.XEROV|insts.XERCA) != 0 {
		return fmt.Errorf("seed_xer must have OV and CA clear")
	}

	if c.MaxSteps < 2 {
		return fmt.Errorf("max_steps must be >= 2")
	}

	if c.ICacheBlockSize < 4 || c.ICacheBlockSize&(c.ICacheBlockSize-1) != 0 {
		return fmt.Errorf("icache_block_size must be a power of two >= 4")
	}
	if c.ICacheAssociativity <= 0 {
		return fmt.Errorf("icache_associativity must be > 0")
	}
	if c.ICacheSize <= 0 || c.ICacheSize%(c.ICacheAssociativity*c.ICacheBlockSize) != 0 {
		return fmt.Errorf("icache_size must be a positive multiple of associativity * block size")
	}

	return nil
}

// ICacheConfig returns the emulator instruction cache geometry.
func (c *Config) ICacheConfig() icache.Config {
	return icache.Config{
		Size:          c.ICacheSize,
		Associativity: c.ICacheAssociativity,
		BlockSize:     c.ICacheBlockSize,
	}
}

// EmulatorOptions returns the emulator settings the configuration implies.
func (c *Config) EmulatorOptions() []emu.EmulatorOption {
	return []emu.EmulatorOption{
		emu.WithMaxInstructions(c.MaxSteps),
		emu.WithICacheConfig(c.ICacheConfig()),
	}
}

// ContextOptions returns the Context settings the configuration implies.
func (c *Config) ContextOptions() []Option {
	return []Option{
		WithVerbose(c.Verbose),
		WithFamilies(c.Families...),
		WithSeeds(c.SeedRD, c.SeedCR, c.SeedXER),
	}
}
