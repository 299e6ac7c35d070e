package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValueSource string

const (
	SourceUnknown ValueSource = "unknown"
	SourceConfig  ValueSource = "config"
	SourceEnv     ValueSource = "env"
	SourceCLI     ValueSource = "cli"
	SourceDefault ValueSource = "default"
)

// ResolvedValue carries a setting together with where it came from, so
// `yardpilot config` can show provenance for debugging layered setups.
type ResolvedValue struct {
	Value  string      `json:"value"`
	Source ValueSource `json:"source"`
	From   string      `json:"from,omitempty"`
}

type ResolveOptions struct {
	ConfigPath string
	CLIDBPath  string
	CLIModel   string
	CLICache   string
	CLIRedis   string
}

// ResolvedConfig is the merged view of config file, environment and CLI
// flags. Later layers win: file < env < flag.
type ResolvedConfig struct {
	ConfigPath string `json:"config_path"`

	DBPath ResolvedValue `json:"db_path"`

	CacheBackend ResolvedValue `json:"cache_backend"`
	RedisAddr    ResolvedValue `json:"redis_addr"`
	CacheTTL     ResolvedValue `json:"cache_ttl_seconds"`

	LLMModel ResolvedValue `json:"llm_model"`
	LLMKeys  map[string]ResolvedValue `json:"llm_keys,omitempty"`

	DuplicateThreshold ResolvedValue `json:"duplicate_threshold"`
	KnowledgeThreshold ResolvedValue `json:"knowledge_threshold"`
	FleetDisabled      ResolvedValue `json:"fleet_disabled"`
}

type fileConfig struct {
	DBPath string `yaml:"db_path"`
	Cache  struct {
		Backend    string `yaml:"backend"`
		RedisAddr  string `yaml:"redis_addr"`
		TTLSeconds string `yaml:"ttl_seconds"`
	} `yaml:"cache"`
	LLM struct {
		Model  string `yaml:"model"`
		APIKey string `yaml:"api_key"`
	} `yaml:"llm"`
	Thresholds struct {
		Duplicate string `yaml:"duplicate"`
		Knowledge string `yaml:"knowledge"`
	} `yaml:"thresholds"`
	FleetDisabled string `yaml:"fleet_disabled"`
}

func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".yardpilot", "config.yaml")
}

func ResolveConfig(opts ResolveOptions) (ResolvedConfig, error) {
	path := strings.TrimSpace(opts.ConfigPath)
	if path == "" {
		path = DefaultConfigPath()
	}

	out := ResolvedConfig{
		ConfigPath: path,
		LLMKeys:    map[string]ResolvedValue{},
	}

	cfg, err := loadConfig(path)
	if err != nil {
		return out, err
	}

	if cfg != nil {
		apply(&out.DBPath, cfg.DBPath, SourceConfig, path)
		apply(&out.CacheBackend, cfg.Cache.Backend, SourceConfig, path)
		apply(&out.RedisAddr, cfg.Cache.RedisAddr, SourceConfig, path)
		apply(&out.CacheTTL, cfg.Cache.TTLSeconds, SourceConfig, path)
		apply(&out.LLMModel, cfg.LLM.Model, SourceConfig, path)
		apply(&out.DuplicateThreshold, cfg.Thresholds.Duplicate, SourceConfig, path)
		apply(&out.KnowledgeThreshold, cfg.Thresholds.Knowledge, SourceConfig, path)
		apply(&out.FleetDisabled, cfg.FleetDisabled, SourceConfig, path)

		if key := strings.TrimSpace(cfg.LLM.APIKey); key != "" {
			provider := providerOf(cfg.LLM.Model)
			if provider == "" {
				provider = "default"
			}
			out.LLMKeys[provider] = ResolvedValue{Value: key, Source: SourceConfig, From: path}
		}
	}

	applyEnv(&out.DBPath, "YARDPILOT_DB")
	applyEnv(&out.DBPath, "YARDPILOT_DB_PATH")
	applyEnv(&out.CacheBackend, "YARDPILOT_CACHE")
	applyEnv(&out.RedisAddr, "YARDPILOT_REDIS_ADDR")
	applyEnv(&out.CacheTTL, "YARDPILOT_CACHE_TTL")
	applyEnv(&out.LLMModel, "YARDPILOT_LLM")
	applyEnv(&out.DuplicateThreshold, "YARDPILOT_DUP_THRESHOLD")
	applyEnv(&out.KnowledgeThreshold, "YARDPILOT_KB_THRESHOLD")
	applyEnv(&out.FleetDisabled, "YARDPILOT_FLEET_DISABLED")

	for env, provider := range map[string]string{
		"OPENROUTER_API_KEY": "openrouter",
		"GEMINI_API_KEY":     "google",
		"GOOGLE_API_KEY":     "google",
	} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			out.LLMKeys[provider] = ResolvedValue{Value: v, Source: SourceEnv, From: env}
		}
	}

	apply(&out.DBPath, opts.CLIDBPath, SourceCLI, "--db")
	apply(&out.LLMModel, opts.CLIModel, SourceCLI, "--model")
	apply(&out.CacheBackend, opts.CLICache, SourceCLI, "--cache")
	apply(&out.RedisAddr, opts.CLIRedis, SourceCLI, "--redis")

	if out.DBPath.Value != "" {
		out.DBPath.Value = expandUserPath(out.DBPath.Value)
	}

	if out.CacheBackend.Value == "" {
		out.CacheBackend = ResolvedValue{Value: "memory", Source: SourceDefault, From: "built-in default"}
	}
	switch out.CacheBackend.Value {
	case "memory", "redis":
	default:
		return out, fmt.Errorf("unknown cache backend %q (want memory or redis)", out.CacheBackend.Value)
	}

	return out, nil
}

// APIKeyForProvider returns the key for a provider or model string, falling
// back to a "default" key when the file set one without a provider.
func (r ResolvedConfig) APIKeyForProvider(providerOrModel string) ResolvedValue {
	provider := providerOf(providerOrModel)
	if provider == "" {
		return ResolvedValue{}
	}
	if v, ok := r.LLMKeys[provider]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	if v, ok := r.LLMKeys["default"]; ok && strings.TrimSpace(v.Value) != "" {
		return v
	}
	return ResolvedValue{}
}

// Float parses a resolved value as a float, with a fallback for unset or
// malformed values. Threshold settings go through here.
func (v ResolvedValue) Float(fallback float64) float64 {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

// Int parses a resolved value as an int, with a fallback.
func (v ResolvedValue) Int(fallback int) int {
	s := strings.TrimSpace(v.Value)
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// Bool reports whether a resolved value is an affirmative flag.
func (v ResolvedValue) Bool() bool {
	switch strings.ToLower(strings.TrimSpace(v.Value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func providerOf(providerOrModel string) string {
	v := strings.ToLower(strings.TrimSpace(providerOrModel))
	if v == "" {
		return ""
	}
	if idx := strings.Index(v, "/"); idx > 0 {
		return v[:idx]
	}
	return v
}

func apply(dst *ResolvedValue, raw string, source ValueSource, from string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return
	}
	*dst = ResolvedValue{Value: v, Source: source, From: from}
}

func applyEnv(dst *ResolvedValue, envKey string) {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		*dst = ResolvedValue{Value: v, Source: SourceEnv, From: envKey}
	}
}

func loadConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &cfg, nil
}

func expandUserPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
