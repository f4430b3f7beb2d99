package pipeline

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pcleckler/UmlConversion/pkg/cache"
	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/source"
	"github.com/pcleckler/UmlConversion/pkg/source/golang"
)

// ConfigFileNames are looked up, in order, beside the input.
var ConfigFileNames = []string{"umlconv.toml", "umlconv.yaml", "umlconv.yml"}

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultRedisAddr is used when the redis backend has no address.
const DefaultRedisAddr = "localhost:6379"

// Config is the content of a config file. Zero values leave the
// corresponding option alone.
type Config struct {
	MaxTypesPerPage   int      `toml:"max_types_per_page" yaml:"max_types_per_page"`
	TimestampFooter   bool     `toml:"timestamp_footer" yaml:"timestamp_footer"`
	OutputDir         string   `toml:"output_dir" yaml:"output_dir"`
	ExceptionBases    []string `toml:"exception_bases" yaml:"exception_bases"`
	IncludeUnexported bool     `toml:"include_unexported" yaml:"include_unexported"`
	Strict            bool     `toml:"strict" yaml:"strict"`
	Overview          []string `toml:"overview" yaml:"overview"`
	EdgeLabels        bool     `toml:"edge_labels" yaml:"edge_labels"`

	Cache CacheConfig `toml:"cache" yaml:"cache"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-" yaml:"-"`
}

// CacheConfig selects and tunes the model cache.
type CacheConfig struct {
	Backend       string        `toml:"backend" yaml:"backend"`
	RedisAddr     string        `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string        `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int           `toml:"redis_db" yaml:"redis_db"`
	TTL           time.Duration `toml:"ttl" yaml:"ttl"`
	// Scope namespaces cache keys so projects sharing a backend never read
	// each other's models.
	Scope string `toml:"scope" yaml:"scope"`
}

// SetDefaults fills unset cache settings.
func (c *CacheConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = CacheFile
	}
	if c.Backend == CacheRedis && c.RedisAddr == "" {
		c.RedisAddr = DefaultRedisAddr
	}
	if c.TTL <= 0 {
		c.TTL = cache.DefaultTTL
	}
}

// Validate checks the cache settings.
func (c *CacheConfig) Validate() error {
	return errors.ValidateOneOf("cache backend", c.Backend, CacheFile, CacheRedis, CacheNone)
}

// FindConfig returns the config file beside input, or "" when there is
// none. Model inputs are looked up in their directory, Go package inputs in
// the package directory.
func FindConfig(input string) string {
	dir := filepath.Dir(input)
	if source.Detect(input) == source.KindGo {
		if d, err := golang.Dir(input); err == nil {
			dir = d
		}
	}
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// LoadConfig reads the config file at path. An empty path yields the
// defaults. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return cfg, errors.New(errors.ErrCodeFileNotFound, "config file not found: %s", path)
			}
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
		}
		if err := decodeConfig(data, path, &cfg); err != nil {
			return cfg, err
		}
		cfg.Path = path
	}
	cfg.Cache.SetDefaults()
	if err := cfg.Cache.Validate(); err != nil {
		return cfg, err
	}
	if err := ValidateFormats(cfg.Overview); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decodeConfig(data []byte, path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
		}
	}
	return nil
}

// Apply copies the set config values onto opts.
func (c Config) Apply(opts *Options) {
	if c.MaxTypesPerPage != 0 {
		opts.MaxTypesPerPage = c.MaxTypesPerPage
	}
	if c.TimestampFooter {
		opts.TimestampFooter = true
	}
	if c.OutputDir != "" {
		opts.OutputDir = c.resolve(c.OutputDir)
	}
	if len(c.ExceptionBases) > 0 {
		opts.ExceptionBases = c.ExceptionBases
	}
	if c.IncludeUnexported {
		opts.IncludeUnexported = true
	}
	if c.Strict {
		opts.Strict = true
	}
	if len(c.Overview) > 0 {
		opts.Overview = c.Overview
	}
	if c.EdgeLabels {
		opts.EdgeLabels = true
	}
}

// resolve makes p relative to the config file's directory.
func (c Config) resolve(p string) string {
	if c.Path == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(c.Path), p)
}
