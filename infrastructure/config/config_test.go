package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DMS_TARGET_URL", "https://dms.example.com/#/deviceList/detail/doorLockDetail/X1")
	t.Setenv("DMS_USERNAME", "18500000000")
	t.Setenv("DMS_PASSWORD", "secret")
	t.Setenv("DMS_INSTALLER", "张三(18500000000)")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "login", cfg.LoginSignature)
	assert.Equal(t, 3, cfg.Repeat)
	assert.Equal(t, 3, cfg.LoginAttempts)
	assert.Equal(t, 3*time.Second, cfg.CyclePause)
	assert.Equal(t, "playwright", cfg.Driver)
	assert.Equal(t, 9515, cfg.ChromeDriverPort)
	assert.Equal(t, "ocr-server", cfg.Solver)
	assert.Equal(t, "密码", cfg.AuthType)
	assert.Equal(t, "安装师傅", cfg.GranteeRole)
	assert.Equal(t, "一个月", cfg.Duration)
	assert.False(t, cfg.DryRun)
}

func TestFromEnvOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("DMS_REPEAT", "5")
	t.Setenv("DMS_CYCLE_PAUSE", "1.5")
	t.Setenv("DMS_HEADLESS", "true")
	t.Setenv("DMS_BROWSER_DRIVER", "selenium")
	t.Setenv("DMS_DRY_RUN", "1")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Repeat)
	assert.Equal(t, 1500*time.Millisecond, cfg.CyclePause)
	assert.True(t, cfg.Headless)
	assert.Equal(t, "selenium", cfg.Driver)
	assert.True(t, cfg.DryRun)

	t.Setenv("DMS_CYCLE_PAUSE", "250ms")
	cfg, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.CyclePause)
}

func TestFromEnvReportsEveryBadKey(t *testing.T) {
	t.Setenv("DMS_REPEAT", "three")
	t.Setenv("DMS_HEADLESS", "maybe")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DMS_REPEAT")
	assert.Contains(t, err.Error(), "DMS_HEADLESS")
}

func TestValidate(t *testing.T) {
	setRequired(t)
	cfg, err := FromEnv()
	require.NoError(t, err)

	bad := cfg
	bad.Password = ""
	bad.Repeat = 0
	bad.Driver = "chromedp"
	err = bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DMS_PASSWORD")
	assert.Contains(t, err.Error(), "repeat count")
	assert.Contains(t, err.Error(), "chromedp")

	openai := cfg
	openai.Solver = "openai"
	assert.ErrorContains(t, openai.Validate(), "OPENAI_API_KEY")
	openai.OpenAIKey = "sk-test"
	assert.NoError(t, openai.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dms.env")
	require.NoError(t, os.WriteFile(path, []byte("DMS_REPEAT=7\nDMS_DRY_RUN=true\n"), 0644))
	// registered for cleanup, then removed so the file can supply them
	t.Setenv("DMS_REPEAT", "")
	t.Setenv("DMS_DRY_RUN", "")
	os.Unsetenv("DMS_REPEAT")
	os.Unsetenv("DMS_DRY_RUN")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Repeat)
	assert.True(t, cfg.DryRun)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
