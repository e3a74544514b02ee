package config

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/ssargent/modelmarket/pkg/identity"
	"github.com/ssargent/modelmarket/pkg/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, "./data", config.DataDir)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, "auto", config.ProgramID)
	assert.Equal(t, ledger.DefaultRent(), config.Rent)
	assert.Equal(t, "auto", config.Security.APIKey)
	assert.Equal(t, "info", config.Logging.Level)
}

func TestGenerateSecureKey(t *testing.T) {
	t.Run("generate 32 byte key", func(t *testing.T) {
		key, err := GenerateSecureKey(32)
		require.NoError(t, err)
		assert.Len(t, key, 64) // 32 bytes = 64 hex characters

		_, err = hex.DecodeString(key)
		assert.NoError(t, err)
	})

	t.Run("generate different keys", func(t *testing.T) {
		key1, err := GenerateSecureKey(16)
		require.NoError(t, err)
		key2, err := GenerateSecureKey(16)
		require.NoError(t, err)

		assert.NotEqual(t, key1, key2)
	})

	t.Run("zero length", func(t *testing.T) {
		key, err := GenerateSecureKey(0)
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Run("load existing config", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "config.yaml")
		expectedConfig := &Config{
			DataDir:   "/custom/data",
			Port:      9000,
			Bind:      "0.0.0.0",
			ProgramID: "11111111111111111111111111111112",
			Rent: ledger.Rent{
				LamportsPerByteYear: 10,
				ExemptionThreshold:  1.5,
				BurnPercent:         20,
			},
			Security: Security{
				APIKey: "test-api-key",
			},
			Logging: Logging{
				Level: "debug",
			},
		}

		err := SaveConfig(expectedConfig, configPath)
		require.NoError(t, err)

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, expectedConfig, loadedConfig)
	})

	t.Run("missing keys keep defaults", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "partial.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("port: 9100\n"), 0600))

		loadedConfig, err := LoadConfig(configPath)
		require.NoError(t, err)
		assert.Equal(t, 9100, loadedConfig.Port)
		assert.Equal(t, ledger.DefaultRent(), loadedConfig.Rent)
		assert.Equal(t, "info", loadedConfig.Logging.Level)
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("load invalid yaml", func(t *testing.T) {
		tmpDir := t.TempDir()

		configPath := filepath.Join(tmpDir, "invalid.yaml")
		err := os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0644)
		require.NoError(t, err)

		_, err = LoadConfig(configPath)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse config file")
	})
}

func TestSaveConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	config := DefaultConfig()

	err := SaveConfig(config, configPath)
	require.NoError(t, err)

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestBootstrapConfig(t *testing.T) {
	tmpDir := t.TempDir()

	configPath := filepath.Join(tmpDir, "config.yaml")
	dataDir := "/custom/data/dir"

	config, err := BootstrapConfig(configPath, dataDir)
	require.NoError(t, err)

	assert.Equal(t, dataDir, config.DataDir)
	assert.Equal(t, 8080, config.Port)
	assert.Equal(t, "info", config.Logging.Level)

	// Generated values replace "auto"
	assert.NotEqual(t, "auto", config.ProgramID)
	assert.NotEqual(t, "auto", config.Security.APIKey)

	programID, err := config.ProgramIdentity()
	require.NoError(t, err)
	assert.False(t, programID.IsZero())

	_, err = hex.DecodeString(config.Security.APIKey)
	assert.NoError(t, err)

	assert.True(t, ConfigExists(configPath))
	require.NoError(t, config.Validate())

	loadedConfig, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, config, loadedConfig)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		c := DefaultConfig()
		c.ProgramID = identity.MustParse("11111111111111111111111111111112").String()
		return c
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "auto program id", mutate: func(c *Config) { c.ProgramID = "auto" }},
		{name: "garbage program id", mutate: func(c *Config) { c.ProgramID = "not-base58-0OIl" }},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }},
		{name: "port out of range", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "negative threshold", mutate: func(c *Config) { c.Rent.ExemptionThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestConfig_ApplyOverrides(t *testing.T) {
	t.Setenv("MODELMARKET_PORT", "9999")
	t.Setenv("MODELMARKET_LOGGING_LEVEL", "debug")
	t.Setenv("MODELMARKET_RENT_EXEMPTION_THRESHOLD", "3.5")

	v := NewViper()
	v.Set("data_dir", "/from/flag")

	config := DefaultConfig()
	config.ApplyOverrides(v)

	assert.Equal(t, 9999, config.Port)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, 3.5, config.Rent.ExemptionThreshold)
	assert.Equal(t, "/from/flag", config.DataDir)

	// Unset keys keep their values
	assert.Equal(t, "127.0.0.1", config.Bind)
	assert.Equal(t, uint64(3480), config.Rent.LamportsPerByteYear)
	assert.Equal(t, uint8(50), config.Rent.BurnPercent)
}

func TestConfig_ApplyOverrides_Rent(t *testing.T) {
	tests := []struct {
		name      string
		burn      string
		wantBurn  uint8
		wantValid bool
	}{
		{name: "in range", burn: "20", wantBurn: 20, wantValid: true},
		{name: "over 100", burn: "150", wantBurn: 150, wantValid: false},
		{name: "over uint8", burn: "300", wantBurn: 255, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MODELMARKET_RENT_BURN_PERCENT", tt.burn)
			t.Setenv("MODELMARKET_RENT_LAMPORTS_PER_BYTE_YEAR", "100")

			config := DefaultConfig()
			config.ProgramID = "11111111111111111111111111111112"
			config.ApplyOverrides(NewViper())

			assert.Equal(t, tt.wantBurn, config.Rent.BurnPercent)
			assert.Equal(t, uint64(100), config.Rent.LamportsPerByteYear)
			if tt.wantValid {
				assert.NoError(t, config.Validate())
			} else {
				assert.Error(t, config.Validate())
			}
		})
	}
}

func TestConfig_Address(t *testing.T) {
	config := DefaultConfig()
	assert.Equal(t, "127.0.0.1:8080", config.Address())
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, "modelmarket")
	assert.Contains(t, path, "config.yaml")
}

func TestConfigExists(t *testing.T) {
	tmpDir := t.TempDir()

	existingPath := filepath.Join(tmpDir, "exists.yaml")
	nonExistentPath := filepath.Join(tmpDir, "does-not-exist.yaml")

	err := os.WriteFile(existingPath, []byte("test"), 0644)
	require.NoError(t, err)

	assert.True(t, ConfigExists(existingPath))
	assert.False(t, ConfigExists(nonExistentPath))
}

func TestConfigYAMLMarshalling(t *testing.T) {
	config := &Config{
		DataDir:   "/test/data",
		Port:      9999,
		Bind:      "localhost",
		ProgramID: "11111111111111111111111111111112",
		Rent:      ledger.DefaultRent(),
		Security: Security{
			APIKey: "api-key-456",
		},
		Logging: Logging{
			Level: "warn",
		},
	}

	data, err := yaml.Marshal(config)
	require.NoError(t, err)
	assert.Contains(t, string(data), "lamports_per_byte_year: 3480")

	var unmarshalled Config
	err = yaml.Unmarshal(data, &unmarshalled)
	require.NoError(t, err)

	assert.Equal(t, config, &unmarshalled)
}

func TestSaveConfigErrorHandling(t *testing.T) {
	config := DefaultConfig()

	// A regular file in the path means the directory can't be created
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))
	invalidPath := filepath.Join(blocker, "sub", "config.yaml")

	err := SaveConfig(config, invalidPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create config directory")
}
