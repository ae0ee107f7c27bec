// Package config loads service configuration from an optional YAML file and
// overrides it with environment variables. Everything downstream takes
// config by value; nothing else in the module reads the environment.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Addr is the listen address of the HTTP API.
	Addr string `yaml:"addr"`

	// ExtractURL and StorageURL point at the text-extraction and durable
	// file-storage services.
	ExtractURL string `yaml:"extractUrl"`
	StorageURL string `yaml:"storageUrl"`

	// SheetsURL is the records backend web app. Empty selects the in-memory
	// store.
	SheetsURL string `yaml:"sheetsUrl"`

	// Provider and Model select the default inference backend.
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`

	// DeepAnalysis switches inference to the extended prompt that also asks
	// for abstract, summary, methodology, and study-aid fields.
	DeepAnalysis bool `yaml:"deepAnalysis"`

	GeminiAPIKey  string `yaml:"geminiApiKey"`
	OpenAIAPIKey  string `yaml:"openaiApiKey"`
	OpenAIBaseURL string `yaml:"openaiBaseUrl"`
	OllamaURL     string `yaml:"ollamaUrl"`
}

func defaults() Config {
	return Config{
		Addr:     ":8888",
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
	}
}

// Load reads the YAML file at path when it exists, then applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	overrideString(&cfg.Addr, "REFSHELF_ADDR")
	overrideString(&cfg.ExtractURL, "EXTRACT_URL")
	overrideString(&cfg.StorageURL, "STORAGE_URL")
	overrideString(&cfg.SheetsURL, "SHEETS_URL")
	overrideString(&cfg.Provider, "MODEL_PROVIDER")
	overrideString(&cfg.Model, "MODEL_NAME")
	overrideString(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	overrideString(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	overrideString(&cfg.OpenAIBaseURL, "OPENAI_BASE_URL")
	overrideString(&cfg.OllamaURL, "OLLAMA_URL")
	if v := os.Getenv("DEEP_ANALYSIS"); v != "" {
		cfg.DeepAnalysis = v == "1" || v == "true"
	}

	return cfg, nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
