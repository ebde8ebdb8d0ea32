package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr             string `yaml:"addr"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"`
	ShutdownSecs     int    `yaml:"shutdown_secs"`
	MaxUploadMB      int    `yaml:"max_upload_mb"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LanguageConfig configures the language detector.
type LanguageConfig struct {
	MinConfidence float64 `yaml:"min_confidence"`
}

// GoogleTranslateConfig holds settings for the Google Translate web backend.
type GoogleTranslateConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries"`
}

// VertexConfig holds settings for the Gemini translation backend.
type VertexConfig struct {
	ProjectID       string `yaml:"project_id"`
	Region          string `yaml:"region"`
	Model           string `yaml:"model"`
	CredentialsFile string `yaml:"credentials_file"`
}

// RedisConfig contains connection details for the redis translation cache.
type RedisConfig struct {
	Addr        string `yaml:"addr"`
	PasswordEnv string `yaml:"password_env"`
	DB          int    `yaml:"db"`
	Prefix      string `yaml:"prefix"`
}

// CacheConfig selects and configures the translation cache.
type CacheConfig struct {
	Type       string       `yaml:"type"`
	TTLSecs    int          `yaml:"ttl_secs"`
	MaxEntries int          `yaml:"max_entries"`
	Redis      *RedisConfig `yaml:"redis,omitempty"`
}

// TranslatorConfig selects and configures the translation backend.
type TranslatorConfig struct {
	Type              string                 `yaml:"type"`
	FallbackToEnglish bool                   `yaml:"fallback_to_english"`
	Google            *GoogleTranslateConfig `yaml:"google,omitempty"`
	Vertex            *VertexConfig          `yaml:"vertex,omitempty"`
	Cache             CacheConfig            `yaml:"cache"`
}

// HuggingFaceConfig holds settings for the hosted question-answering model.
type HuggingFaceConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// AnswerConfig selects and configures the question-answering model.
type AnswerConfig struct {
	Type        string             `yaml:"type"`
	Preload     bool               `yaml:"preload"`
	HuggingFace *HuggingFaceConfig `yaml:"huggingface,omitempty"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Language   LanguageConfig   `yaml:"language"`
	Translator TranslatorConfig `yaml:"translator"`
	Answer     AnswerConfig     `yaml:"answer"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/pdfqa/config.yaml.
// If neither exists, it writes defaults to ~/.config/pdfqa/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pdfqa", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Translator: TranslatorConfig{Type: "google"},
		Answer:     AnswerConfig{Type: "lexical"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8000"
	}
	if cfg.Server.ReadTimeoutSecs == 0 {
		cfg.Server.ReadTimeoutSecs = 60
	}
	if cfg.Server.WriteTimeoutSecs == 0 {
		cfg.Server.WriteTimeoutSecs = 120
	}
	if cfg.Server.ShutdownSecs == 0 {
		cfg.Server.ShutdownSecs = 10
	}
	if cfg.Server.MaxUploadMB == 0 {
		cfg.Server.MaxUploadMB = 50
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Translator.Type == "" {
		cfg.Translator.Type = "google"
	}
	if cfg.Translator.Type == "google" {
		if cfg.Translator.Google == nil {
			cfg.Translator.Google = &GoogleTranslateConfig{}
		}
		if cfg.Translator.Google.BaseURL == "" {
			cfg.Translator.Google.BaseURL = "https://translate.googleapis.com"
		}
		if cfg.Translator.Google.TimeoutSecs == 0 {
			cfg.Translator.Google.TimeoutSecs = 30
		}
		if cfg.Translator.Google.MaxRetries == 0 {
			cfg.Translator.Google.MaxRetries = 3
		}
	}
	if cfg.Translator.Type == "vertex" && cfg.Translator.Vertex != nil {
		if cfg.Translator.Vertex.Region == "" {
			cfg.Translator.Vertex.Region = "us-central1"
		}
		if cfg.Translator.Vertex.Model == "" {
			cfg.Translator.Vertex.Model = "gemini-1.5-flash"
		}
	}
	if cfg.Translator.Cache.Type == "" {
		cfg.Translator.Cache.Type = "memory"
	}
	if cfg.Translator.Cache.TTLSecs == 0 {
		cfg.Translator.Cache.TTLSecs = 3600
	}
	if cfg.Translator.Cache.MaxEntries == 0 {
		cfg.Translator.Cache.MaxEntries = 10000
	}
	if cfg.Translator.Cache.Type == "redis" && cfg.Translator.Cache.Redis != nil {
		if cfg.Translator.Cache.Redis.Addr == "" {
			cfg.Translator.Cache.Redis.Addr = "localhost:6379"
		}
		if cfg.Translator.Cache.Redis.Prefix == "" {
			cfg.Translator.Cache.Redis.Prefix = "pdfqa:tr:"
		}
	}
	if cfg.Answer.Type == "" {
		cfg.Answer.Type = "lexical"
	}
	if cfg.Answer.Type == "huggingface" {
		if cfg.Answer.HuggingFace == nil {
			cfg.Answer.HuggingFace = &HuggingFaceConfig{}
		}
		if cfg.Answer.HuggingFace.BaseURL == "" {
			cfg.Answer.HuggingFace.BaseURL = "https://api-inference.huggingface.co"
		}
		if cfg.Answer.HuggingFace.APIKeyEnv == "" {
			cfg.Answer.HuggingFace.APIKeyEnv = "HF_API_TOKEN"
		}
		if cfg.Answer.HuggingFace.Model == "" {
			cfg.Answer.HuggingFace.Model = "distilbert-base-uncased-distilled-squad"
		}
		if cfg.Answer.HuggingFace.TimeoutSecs == 0 {
			cfg.Answer.HuggingFace.TimeoutSecs = 60
		}
	}
}
