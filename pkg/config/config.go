/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"gopkg.in/yaml.v3"
)

// AutoValue marks a setting that BootstrapConfig generates.
const AutoValue = "auto"

// EnvPrefix is the prefix of environment variables that override the file.
const EnvPrefix = "MODELMARKET"

// Config represents the modelmarket configuration
type Config struct {
	DataDir   string      `yaml:"data_dir"`
	Port      int         `yaml:"port"`
	Bind      string      `yaml:"bind"`
	ProgramID string      `yaml:"program_id"`
	Rent      ledger.Rent `yaml:"rent"`
	Security  Security    `yaml:"security"`
	Logging   Logging     `yaml:"logging"`
}

// Security contains security-related configuration
type Security struct {
	APIKey string `yaml:"api_key"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir:   "./data",
		Port:      8080,
		Bind:      "127.0.0.1",
		ProgramID: AutoValue,
		Rent:      ledger.DefaultRent(),
		Security: Security{
			APIKey: AutoValue,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// Validate checks the configuration for values the host cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := c.ProgramIdentity(); err != nil {
		return err
	}
	if err := c.Rent.Validate(); err != nil {
		return fmt.Errorf("invalid rent: %w", err)
	}
	return nil
}

// ProgramIdentity parses ProgramID.
func (c *Config) ProgramIdentity() (identity.Identity, error) {
	if c.ProgramID == "" || c.ProgramID == AutoValue {
		return identity.Zero, fmt.Errorf("program_id is not set (run 'modelmarket init' first)")
	}
	id, err := identity.Parse(c.ProgramID)
	if err != nil {
		return identity.Zero, fmt.Errorf("invalid program_id: %w", err)
	}
	return id, nil
}

// Address returns the listen address for the API server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	// Validate path to prevent directory traversal
	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write with secure permissions (0600)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewViper returns a viper instance that reads MODELMARKET_* environment
// variables, with nested keys joined by underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ApplyOverrides copies every key set in v (by a bound flag or environment
// variable) over the file values.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v.IsSet("data_dir") {
		c.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("port") {
		c.Port = v.GetInt("port")
	}
	if v.IsSet("bind") {
		c.Bind = v.GetString("bind")
	}
	if v.IsSet("program_id") {
		c.ProgramID = v.GetString("program_id")
	}
	if v.IsSet("rent.lamports_per_byte_year") {
		c.Rent.LamportsPerByteYear = v.GetUint64("rent.lamports_per_byte_year")
	}
	if v.IsSet("rent.exemption_threshold") {
		c.Rent.ExemptionThreshold = v.GetFloat64("rent.exemption_threshold")
	}
	if v.IsSet("rent.burn_percent") {
		// out-of-range values stay out of range so Validate rejects them
		burn := v.GetUint("rent.burn_percent")
		if burn > math.MaxUint8 {
			burn = math.MaxUint8
		}
		c.Rent.BurnPercent = uint8(burn)
	}
	if v.IsSet("security.api_key") {
		c.Security.APIKey = v.GetString("security.api_key")
	}
	if v.IsSet("logging.level") {
		c.Logging.Level = v.GetString("logging.level")
	}
}

// GenerateSecureKey generates a cryptographically secure random key
func GenerateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate secure key: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// BootstrapConfig creates a new configuration with a generated program
// identity and API key and saves it to configPath.
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	programID, err := identity.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate program id: %w", err)
	}
	config.ProgramID = programID.String()

	apiKey, err := GenerateSecureKey(32) // 256 bits
	if err != nil {
		return nil, fmt.Errorf("failed to generate API key: %w", err)
	}
	config.Security.APIKey = apiKey

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./modelmarket.yaml"
	}

	// For Linux/macOS, use ~/.config/modelmarket/config.yaml
	configDir := filepath.Join(homeDir, ".config", "modelmarket")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
