package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings mirrors settings.yaml.
type Settings struct {
	OpenAI struct {
		Model     string `mapstructure:"model"`
		MaxTokens int    `mapstructure:"max_tokens"`
	} `mapstructure:"openai"`
	Analysis struct {
		BatchSize          int     `mapstructure:"batch_size"`
		RelevanceThreshold float64 `mapstructure:"relevance_threshold"`
	} `mapstructure:"analysis"`
	Output struct {
		Format          string `mapstructure:"format"`
		IncludeMetadata bool   `mapstructure:"include_metadata"`
	} `mapstructure:"output"`
}

// Source is one scrape target from sources.yaml.
type Source struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Scraper string `yaml:"scraper"`
	Enabled bool   `yaml:"enabled"`
}

// Sources mirrors sources.yaml.
type Sources struct {
	Sources map[string]Source `yaml:"sources"`
}

// LoadSettings materializes settings.yaml if absent, then reads it with
// Viper. Defaults cover fields a hand-edited file may omit.
func LoadSettings(configDir string) (*Settings, error) {
	if _, err := Ensure(configDir, DocSettings); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("openai.model", "gpt-4")
	v.SetDefault("openai.max_tokens", 4000)
	v.SetDefault("analysis.batch_size", 10)
	v.SetDefault("analysis.relevance_threshold", 0.7)
	v.SetDefault("output.format", "markdown")
	v.SetConfigName("settings")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	return &s, nil
}

// LoadSources materializes sources.yaml if absent and decodes it. The
// sources document is a nested list of scrape targets, so it is decoded
// directly rather than flattened through Viper keys.
func LoadSources(configDir string) (*Sources, error) {
	path, err := Ensure(configDir, DocSources)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	var s Sources
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode sources: %w", err)
	}
	return &s, nil
}
