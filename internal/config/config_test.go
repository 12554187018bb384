package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		VRChat: VRChatConfig{BaseURL: "https://vrchat.com/api/1"},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},  // case insensitive
		{"trace", false}, // not supported
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data base path")
}

func TestValidate_EmptyVRChatBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.VRChat.BaseURL = ""

	err := cfg.Validate()
	assert.Error(t, err)
}

func TestDatabasePath(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, filepath.Join("/some/path", "worldmark.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/some/path", "auth.key"), cfg.AuthKeyPath())
}

func TestExpandPath_Tilde(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/worldmark", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "worldmark"), expanded)
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	expanded, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", expanded)
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitOrigins("*"))
	assert.Equal(t,
		[]string{"https://a.example", "https://b.example"},
		splitOrigins("https://a.example, https://b.example"))
	assert.Empty(t, splitOrigins(""))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("WORLDMARK_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "WORLDMARK_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "WORLDMARK_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "WORLDMARK_TEST_MISSING", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nWORLDMARK_ENVFILE_A=hello\nWORLDMARK_ENVFILE_B=\"quoted\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("WORLDMARK_ENVFILE_A")
		os.Unsetenv("WORLDMARK_ENVFILE_B")
	})

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("WORLDMARK_ENVFILE_A"))
	assert.Equal(t, "quoted", os.Getenv("WORLDMARK_ENVFILE_B"))
}
