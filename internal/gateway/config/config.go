package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	BackendRules  = "rules"
	BackendGemini = "gemini"
)

type Config struct {
	Port        string         `toml:"port"`
	Env         string         `toml:"env"`
	Backend     string         `toml:"backend"`
	DatabaseURL string         `toml:"database_url"`
	MinLatency  Duration       `toml:"min_latency"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Cache       CacheConfig    `toml:"cache"`
	Artifact    ArtifactConfig `toml:"artifact"`
}

type GeminiConfig struct {
	APIKey      string `toml:"api_key"`
	Model       string `toml:"model"`
	MaxAttempts int    `toml:"max_attempts"`
}

type CacheConfig struct {
	Size int      `toml:"size"`
	TTL  Duration `toml:"ttl"`
}

type ArtifactConfig struct {
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// CanUseS3 reports whether enough is configured to reach a bucket.
func (a ArtifactConfig) CanUseS3() bool {
	return strings.TrimSpace(a.Endpoint) != "" &&
		strings.TrimSpace(a.AccessKey) != "" &&
		strings.TrimSpace(a.SecretKey) != "" &&
		strings.TrimSpace(a.Bucket) != ""
}

// Duration is a time.Duration written as "10m" or "1.5s" in TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func defaults() *Config {
	return &Config{
		Port:    ":8081",
		Env:     "local",
		Backend: BackendRules,
		Gemini: GeminiConfig{
			Model:       "gemini-2.5-flash",
			MaxAttempts: 3,
		},
		Cache: CacheConfig{
			Size: 256,
			TTL:  Duration(10 * time.Minute),
		},
		Artifact: ArtifactConfig{
			Region: "us-east-1",
			Bucket: "snippetlens-reports",
			UseSSL: true,
		},
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(flag.CommandLine, os.Args[1:], os.Getenv)
}

// Parse layers defaults, an optional TOML file, command line flags and
// environment variables, in that order.
func Parse(fs *flag.FlagSet, args []string, getenv func(string) string) (*Config, error) {
	cfg := defaults()

	port := fs.String("port", cfg.Port, "server port")
	path := fs.String("config", "", "path to a TOML config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if p := firstNonEmpty(strings.TrimSpace(*path), strings.TrimSpace(getenv("SNIPPETLENS_CONFIG"))); p != "" {
		if _, err := toml.DecodeFile(p, cfg); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", p, err)
		}
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "port" {
			cfg.Port = *port
		}
	})

	if err := applyEnv(cfg, getenv); err != nil {
		return nil, err
	}
	cfg.Port = normalizePort(cfg.Port)
	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	env := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg.Port = firstNonEmpty(env("PORT"), cfg.Port)
	cfg.Env = firstNonEmpty(env("APP_ENV"), cfg.Env)
	cfg.Backend = firstNonEmpty(env("ANALYZER_BACKEND"), cfg.Backend)
	cfg.DatabaseURL = firstNonEmpty(env("DATABASE_URL"), cfg.DatabaseURL)
	cfg.Gemini.APIKey = firstNonEmpty(env("GEMINI_API_KEY"), cfg.Gemini.APIKey)
	cfg.Gemini.Model = firstNonEmpty(env("GEMINI_MODEL"), cfg.Gemini.Model)

	cfg.Artifact.Endpoint = firstNonEmpty(env("ARTIFACT_S3_ENDPOINT"), cfg.Artifact.Endpoint)
	cfg.Artifact.Region = firstNonEmpty(env("ARTIFACT_S3_REGION"), cfg.Artifact.Region)
	cfg.Artifact.AccessKey = firstNonEmpty(env("ARTIFACT_S3_ACCESS_KEY"), env("MINIO_ROOT_USER"), cfg.Artifact.AccessKey)
	cfg.Artifact.SecretKey = firstNonEmpty(env("ARTIFACT_S3_SECRET_KEY"), env("MINIO_ROOT_PASSWORD"), cfg.Artifact.SecretKey)
	cfg.Artifact.Bucket = firstNonEmpty(env("ARTIFACT_S3_BUCKET"), cfg.Artifact.Bucket)

	if raw := env("ARTIFACT_S3_USE_SSL"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("ARTIFACT_S3_USE_SSL: %w", err)
		}
		cfg.Artifact.UseSSL = v
	}
	if err := envInt(env("GEMINI_MAX_ATTEMPTS"), "GEMINI_MAX_ATTEMPTS", &cfg.Gemini.MaxAttempts); err != nil {
		return err
	}
	if err := envInt(env("ANALYSIS_CACHE_SIZE"), "ANALYSIS_CACHE_SIZE", &cfg.Cache.Size); err != nil {
		return err
	}
	if err := envDuration(env("ANALYSIS_CACHE_TTL"), "ANALYSIS_CACHE_TTL", &cfg.Cache.TTL); err != nil {
		return err
	}
	return envDuration(env("ANALYSIS_MIN_LATENCY"), "ANALYSIS_MIN_LATENCY", &cfg.MinLatency)
}

func envInt(raw, key string, dst *int) error {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = v
	return nil
}

func envDuration(raw, key string, dst *Duration) error {
	if raw == "" {
		return nil
	}
	if err := dst.UnmarshalText([]byte(raw)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendRules:
	case BackendGemini:
		if strings.TrimSpace(c.Gemini.APIKey) == "" {
			return fmt.Errorf("backend %q requires GEMINI_API_KEY", c.Backend)
		}
	default:
		return fmt.Errorf("unknown analyzer backend %q (want %q or %q)", c.Backend, BackendRules, BackendGemini)
	}
	if c.MinLatency < 0 {
		return fmt.Errorf("min latency must not be negative")
	}
	return nil
}

func normalizePort(port string) string {
	port = strings.TrimSpace(port)
	if port == "" || strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
