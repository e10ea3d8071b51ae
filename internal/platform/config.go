package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/studynotes/pkg/adapters/fs"
	"github.com/aretw0/studynotes/pkg/adapters/rest"
)

const (
	// ConfigFile is looked up from the working directory upwards.
	ConfigFile = "studynotes.yaml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "STUDYNOTES_"
	// TokenFile is the name of the token file inside the state directory.
	TokenFile = "token.yaml"
	// CookieFile holds the refresh cookie next to the token file.
	CookieFile = "cookies.yaml"

	// DefaultTimeout is the transport timeout when none is configured.
	DefaultTimeout = 60 * time.Second
)

// Config is the resolved application configuration.
type Config struct {
	BaseURL  string        `yaml:"base_url"`
	Timeout  time.Duration `yaml:"timeout"`
	StateDir string        `yaml:"state_dir"`
	VaultDir string        `yaml:"vault_dir"`
	LogLevel string        `yaml:"log_level"`

	// Source is the config file that was applied, if any.
	Source string `yaml:"-"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	state := filepath.Join(".", fs.DefaultSystemDir)
	if dir, err := os.UserConfigDir(); err == nil {
		state = filepath.Join(dir, "studynotes")
	}
	return Config{
		BaseURL:  rest.DefaultBaseURL,
		Timeout:  DefaultTimeout,
		StateDir: state,
		VaultDir: "notes",
		LogLevel: "info",
	}
}

// LoadConfig layers defaults, the nearest studynotes.yaml (or the one in the
// user config dir), a .env file next to it or in dir, and STUDYNOTES_*
// environment variables, in that order.
func LoadConfig(dir string) (Config, error) {
	cfg := DefaultConfig()

	root, _ := FindRoot(dir)
	file := ""
	if root != "" && hasFile(root, ConfigFile) {
		file = filepath.Join(root, ConfigFile)
	} else if udir, err := os.UserConfigDir(); err == nil && hasFile(filepath.Join(udir, "studynotes"), ConfigFile) {
		file = filepath.Join(udir, "studynotes", ConfigFile)
	}
	if file != "" {
		if err := cfg.applyFile(file); err != nil {
			return cfg, err
		}
	}

	envDir := dir
	if root != "" {
		envDir = root
	}
	dotenv, err := readDotEnv(filepath.Join(envDir, ".env"))
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	// Relative directories are relative to the config file.
	base := filepath.Dir(path)
	for _, p := range []*string{&c.StateDir, &c.VaultDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
	c.Source = path
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"BASE_URL":  &c.BaseURL,
		"STATE_DIR": &c.StateDir,
		"VAULT_DIR": &c.VaultDir,
		"LOG_LEVEL": &c.LogLevel,
	}
	for key, dst := range str {
		if v, ok := lookup(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT %q: %w", EnvPrefix, v, err)
		}
		c.Timeout = d
	}
	return nil
}

func readDotEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}
	return env, nil
}

// Validate reports configuration that cannot work.
func (c Config) Validate() error {
	switch {
	case !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://"):
		return fmt.Errorf("base url must be http(s): %q", c.BaseURL)
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	case c.StateDir == "":
		return errors.New("state dir is empty")
	}
	return nil
}
