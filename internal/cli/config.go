package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/tracemetro/tracemetro/pkg/errors"
)

// Config is the TOML configuration consumed by the serve command and the
// cache helpers. All fields have working defaults; a missing config file is
// not an error.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
}

// ServerConfig configures the HTTP layout service.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// CacheConfig selects and configures the layout cache backend. When
// RedisAddr is set the Redis backend is used, otherwise the file backend
// rooted at Dir.
type CacheConfig struct {
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// StoreConfig configures layout-run persistence. An empty MongoURI selects
// the in-memory store.
type StoreConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// defaultConfig returns the configuration used when no file is present.
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Cache:  CacheConfig{Dir: defaultCacheDir()},
	}
}

// loadConfig reads a TOML config file, applying defaults for absent fields.
// An empty path returns the defaults; a missing explicit path is an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = defaultCacheDir()
	}
	return cfg, nil
}

// defaultCacheDir returns the per-user layout cache directory.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "tracemetro")
}
