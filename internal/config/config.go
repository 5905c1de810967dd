package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"pdfchat/internal/models"
)

type Config struct {
	Server       ServerConfig   `yaml:"server"`
	Storage      StorageConfig  `yaml:"storage"`
	RAG          RAGConfig      `yaml:"rag"`
	EmbedLLM     LLMConfig      `yaml:"embed_llm"`
	InferenceLLM LLMConfig      `yaml:"inference_llm"`
	Retry        RetryConfig    `yaml:"retry"`
	Database     DatabaseConfig `yaml:"database"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadMB    int64    `yaml:"max_upload_mb"`
}

type StorageConfig struct {
	UploadDir         string   `yaml:"upload_dir"`
	IndexDir          string   `yaml:"index_dir"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
}

type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
}

// LLMConfig configures one model endpoint. Provider is "local", "ollama"
// or "openai"; Key and BaseURL are ignored by the local provider.
// Temperature is a pointer so an explicit 0 survives defaulting.
type LLMConfig struct {
	Provider    string   `yaml:"provider"`
	BaseURL     string   `yaml:"base_url"`
	Key         string   `yaml:"key"`
	Model       string   `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
	MaxTokens   int      `yaml:"max_tokens"`
}

type RetryConfig struct {
	MaxAttempts      int `yaml:"max_attempts"`
	BaseDelaySeconds int `yaml:"base_delay_seconds"`
}

// DatabaseConfig selects the durable session store. When Enabled is false
// sessions live in an in-memory map.
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Key     string `yaml:"key"`
	Debug   bool   `yaml:"debug"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return &cfg, nil
}

// ApplyDefaults fills unset fields so a minimal config file still yields a
// runnable service.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":5000"
	}
	if c.Server.MaxUploadMB <= 0 {
		c.Server.MaxUploadMB = 50
	}
	if c.Storage.UploadDir == "" {
		c.Storage.UploadDir = "./uploads"
	}
	if c.Storage.IndexDir == "" {
		c.Storage.IndexDir = "./indexes"
	}
	if len(c.Storage.AllowedExtensions) == 0 {
		c.Storage.AllowedExtensions = []string{".pdf"}
	}
	if c.RAG.ChunkSize <= 0 {
		c.RAG.ChunkSize = models.DefaultChunkSize
	}
	if c.RAG.ChunkOverlap <= 0 {
		c.RAG.ChunkOverlap = models.DefaultChunkOverlap
	}
	if c.RAG.TopK <= 0 {
		c.RAG.TopK = models.DefaultTopK
	}
	if c.EmbedLLM.Provider == "" {
		c.EmbedLLM.Provider = "local"
	}
	if c.InferenceLLM.Temperature == nil {
		t := models.DefaultTemperature
		c.InferenceLLM.Temperature = &t
	}
	if c.InferenceLLM.MaxTokens <= 0 {
		c.InferenceLLM.MaxTokens = models.DefaultMaxTokens
	}
	if c.Retry.MaxAttempts <= 0 {
		c.Retry.MaxAttempts = models.DefaultMaxAttempts
	}
	if c.Retry.BaseDelaySeconds <= 0 {
		c.Retry.BaseDelaySeconds = models.DefaultRetryDelaySecond
	}
}
