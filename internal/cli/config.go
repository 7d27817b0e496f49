package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mindmap/pkg/store"
)

// defaultAddr is the listen address of the serve command.
const defaultAddr = "127.0.0.1:8080"

// Config is the on-disk CLI configuration.
//
//	user = "42"
//
//	[store]
//	backend = "sqlite"
//	path = "/home/me/.local/share/mindmap/mindmaps.db"
//
//	[render]
//	watermark = "Generated with mindmap-bot"
//	concurrency = 4
//
//	[server]
//	addr = "127.0.0.1:8080"
type Config struct {
	User   string       `toml:"user"`
	Store  store.Config `toml:"store"`
	Render RenderConfig `toml:"render"`
	Server ServerConfig `toml:"server"`
}

// RenderConfig holds render defaults.
type RenderConfig struct {
	Watermark   string `toml:"watermark"`
	NoWatermark bool   `toml:"no_watermark"`
	Concurrency int    `toml:"concurrency"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	dir, err := dataDir()
	if err != nil {
		dir = "."
	}
	return Config{
		User:   defaultUser(),
		Store:  store.DefaultConfig(dir),
		Server: ServerConfig{Addr: defaultAddr},
	}
}

// LoadConfig reads path on top of DefaultConfig. A missing file is not an
// error; an empty path means the default location.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	return cfg, nil
}

// WriteConfig writes cfg to path, creating parent directories.
func WriteConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the config file using XDG standard (~/.config/mindmap/config.toml).
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// dataDir returns the data directory using XDG standard (~/.local/share/mindmap/).
func dataDir() (string, error) {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

// defaultUser is the local account name, or "local" when unknown.
func defaultUser() string {
	for _, env := range []string{"MINDMAP_USER", "USER", "USERNAME"} {
		if u := os.Getenv(env); u != "" {
			return u
		}
	}
	return "local"
}
