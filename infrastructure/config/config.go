// Package config reads the run configuration from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultEnvFile = ".env"

type Config struct {
	TargetURL      string
	LoginSignature string
	Username       string
	Password       string

	Repeat        int
	LoginAttempts int
	CyclePause    time.Duration

	Headless         bool
	Driver           string
	ChromeDriverPath string
	ChromeDriverPort int
	StateFile        string

	Solver      string
	OCREndpoint string
	OpenAIKey   string
	OpenAIModel string

	ScreenshotDir string
	LogLevel      string
	LogFile       string
	LocatorsFile  string

	Installer   string
	AuthType    string
	GranteeRole string
	Duration    string

	DryRun bool
}

// Load - loads envFile into the environment, then reads the configuration. A missing
// default .env is fine; a missing explicitly named file is not.
func Load(envFile string) (Config, error) {
	if envFile == "" {
		if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
		}
	} else if err := godotenv.Load(envFile); err != nil {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return FromEnv()
}

// FromEnv - reads the configuration from environment variables
func FromEnv() (Config, error) {
	r := &reader{}
	cfg := Config{
		TargetURL:      r.str("DMS_TARGET_URL", ""),
		LoginSignature: r.str("DMS_LOGIN_SIGNATURE", "login"),
		Username:       r.str("DMS_USERNAME", ""),
		Password:       r.str("DMS_PASSWORD", ""),

		Repeat:        r.int("DMS_REPEAT", 3),
		LoginAttempts: r.int("DMS_LOGIN_ATTEMPTS", 3),
		CyclePause:    r.duration("DMS_CYCLE_PAUSE", 3*time.Second),

		Headless:         r.bool("DMS_HEADLESS", false),
		Driver:           r.str("DMS_BROWSER_DRIVER", "playwright"),
		ChromeDriverPath: r.str("DMS_CHROMEDRIVER_PATH", ""),
		ChromeDriverPort: r.int("DMS_CHROMEDRIVER_PORT", 9515),
		StateFile:        r.str("DMS_STATE_FILE", ""),

		Solver:      r.str("DMS_CAPTCHA_SOLVER", "ocr-server"),
		OCREndpoint: r.str("DMS_OCR_ENDPOINT", "http://127.0.0.1:9898"),
		OpenAIKey:   r.str("OPENAI_API_KEY", ""),
		OpenAIModel: r.str("OPENAI_MODEL", "gpt-4o"),

		ScreenshotDir: r.str("DMS_SCREENSHOT_DIR", "."),
		LogLevel:      r.str("DMS_LOG_LEVEL", "info"),
		LogFile:       r.str("DMS_LOG_FILE", ""),
		LocatorsFile:  r.str("DMS_LOCATORS_FILE", ""),

		Installer:   r.str("DMS_INSTALLER", ""),
		AuthType:    r.str("DMS_AUTH_TYPE", "密码"),
		GranteeRole: r.str("DMS_GRANTEE_ROLE", "安装师傅"),
		Duration:    r.str("DMS_DURATION", "一个月"),

		DryRun: r.bool("DMS_DRY_RUN", false),
	}
	if len(r.errs) > 0 {
		return Config{}, errors.Join(r.errs...)
	}
	return cfg, nil
}

// Validate - checks the configuration is complete and consistent
func (c Config) Validate() error {
	var errs []error
	required := []struct{ key, value string }{
		{"DMS_TARGET_URL", c.TargetURL},
		{"DMS_USERNAME", c.Username},
		{"DMS_PASSWORD", c.Password},
		{"DMS_INSTALLER", c.Installer},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, fmt.Errorf("%s is not set", r.key))
		}
	}

	if c.Repeat < 1 {
		errs = append(errs, fmt.Errorf("repeat count must be at least 1, got %d", c.Repeat))
	}
	if c.LoginAttempts < 1 {
		errs = append(errs, fmt.Errorf("login attempts must be at least 1, got %d", c.LoginAttempts))
	}
	if c.CyclePause < 0 {
		errs = append(errs, fmt.Errorf("cycle pause must not be negative"))
	}

	switch c.Driver {
	case "playwright", "selenium":
	default:
		errs = append(errs, fmt.Errorf("unknown browser driver %q (want playwright or selenium)", c.Driver))
	}

	switch c.Solver {
	case "ocr-server":
		if c.OCREndpoint == "" {
			errs = append(errs, errors.New("DMS_OCR_ENDPOINT is not set"))
		}
	case "openai":
		if c.OpenAIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown captcha solver %q (want ocr-server or openai)", c.Solver))
	}

	return errors.Join(errs...)
}

// reader collects parse errors so every bad key is reported at once
type reader struct {
	errs []error
}

func (r *reader) str(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func (r *reader) int(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a number", key, v))
		return def
	}
	return n
}

func (r *reader) bool(key string, def bool) bool {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a boolean", key, v))
		return def
	}
	return b
}

// duration accepts Go durations ("3s") and bare seconds ("3")
func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}
