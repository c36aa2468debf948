package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"compassai/internal/domain"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "COMPASS"

// Config is the resolved client configuration.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Store   StoreConfig   `mapstructure:"store"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type APIConfig struct {
	BaseURL        string `mapstructure:"baseURL"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

type CatalogConfig struct {
	Mode       domain.CatalogMode `mapstructure:"mode"`
	StaticPath string             `mapstructure:"staticPath"`
	PageSize   int                `mapstructure:"pageSize"`
}

type StoreConfig struct {
	// Path is the settings database; empty selects the per-user default.
	Path string `mapstructure:"path"`
}

type UIConfig struct {
	SearchDebounceMs int `mapstructure:"searchDebounceMs"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type MetricsConfig struct {
	DumpPath string `mapstructure:"dumpPath"`
}

// Timeout is the per-request deadline of the REST client; zero means none.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// SearchDebounce is the delay before a typed search is sent; zero disables it.
func (c Config) SearchDebounce() time.Duration {
	return time.Duration(c.UI.SearchDebounceMs) * time.Millisecond
}

// Options selects the sources merged by Load, lowest priority first:
// defaults, the config file, the .env file, the environment, Overrides.
type Options struct {
	Path      string
	EnvFile   string
	Overrides map[string]any
}

type Loader struct {
	logger *zap.Logger
}

func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger.Named("config")}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.baseURL", domain.DefaultAPIBaseURL)
	v.SetDefault("api.timeoutSeconds", domain.DefaultAPITimeoutSeconds)
	v.SetDefault("catalog.mode", string(domain.DefaultCatalogMode))
	v.SetDefault("catalog.staticPath", "")
	v.SetDefault("catalog.pageSize", domain.DefaultHomePageSize)
	v.SetDefault("store.path", "")
	v.SetDefault("ui.searchDebounceMs", domain.DefaultSearchDebounceMs)
	v.SetDefault("log.level", domain.DefaultLogLevel)
	v.SetDefault("log.file", "")
	v.SetDefault("metrics.dumpPath", "")
}

// EnvName returns the environment variable that sets key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load resolves the configuration.
func (l *Loader) Load(opts Options) (Config, error) {
	v := newViper()

	if opts.Path != "" {
		v.SetConfigFile(opts.Path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", opts.Path, err)
		}
		l.logger.Debug("config file loaded", zap.String("path", opts.Path))
	}

	if opts.EnvFile != "" {
		if err := l.applyDotEnv(v, opts.EnvFile); err != nil {
			return Config{}, err
		}
	}

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	normalize(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyDotEnv copies known keys from a .env file. Variables already present
// in the process environment win.
func (l *Loader) applyDotEnv(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("env file not found", zap.String("path", path))
			return nil
		}
		return fmt.Errorf("read env file %s: %w", path, err)
	}
	for _, key := range v.AllKeys() {
		name := EnvName(key)
		value, ok := values[name]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(name); set {
			continue
		}
		v.Set(key, value)
	}
	return nil
}

func normalize(cfg *Config) {
	cfg.API.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.API.BaseURL), "/")
	cfg.Catalog.Mode = domain.CatalogMode(strings.ToLower(strings.TrimSpace(string(cfg.Catalog.Mode))))
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
}

// Validate reports every invalid setting at once.
func Validate(cfg Config) error {
	var problems []string
	if cfg.API.BaseURL == "" {
		problems = append(problems, "api.baseURL is required")
	}
	if cfg.API.TimeoutSeconds < 0 {
		problems = append(problems, "api.timeoutSeconds must be >= 0")
	}
	if !cfg.Catalog.Mode.Valid() {
		problems = append(problems, fmt.Sprintf("catalog.mode must be %q or %q", domain.CatalogModeRemote, domain.CatalogModeStatic))
	}
	if cfg.Catalog.PageSize <= 0 {
		problems = append(problems, "catalog.pageSize must be > 0")
	}
	if cfg.UI.SearchDebounceMs < 0 {
		problems = append(problems, "ui.searchDebounceMs must be >= 0")
	}
	if _, err := zapcore.ParseLevel(cfg.Log.Level); err != nil {
		problems = append(problems, fmt.Sprintf("log.level %q is invalid", cfg.Log.Level))
	}
	if len(problems) > 0 {
		return domain.E(domain.CodeInvalidArgument, "load config", strings.Join(problems, "; "), domain.ErrInvalidRequest)
	}
	return nil
}
