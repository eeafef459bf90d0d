package groqfmt

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config holds project-level formatting settings, usually read from
// groqfmt.yaml at the project root.
type Config struct {
	// Width is the target line width in runes.
	Width int `yaml:"width"`
	// Markdown enables rewriting ```groq blocks inside .md files when
	// formatting directories.
	Markdown bool `yaml:"markdown"`
	// Exclude lists glob patterns skipped during directory walks.
	Exclude []string `yaml:"exclude"`
}

func getDefaultConfig() *Config {
	return &Config{
		Width:    DefaultWidth,
		Markdown: true,
	}
}

// LoadConfig loads configuration from the specified file. A missing
// file yields the defaults; a present file is parsed strictly so typos
// surface as errors. Values may reference environment variables in
// ${VAR} form, resolved after loading an optional .env file.
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := getDefaultConfig()

	err = yaml.UnmarshalWithOptions([]byte(os.ExpandEnv(string(data))), config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Width <= 0 {
		config.Width = DefaultWidth
	}

	return config, nil
}

// loadEnvFiles loads a .env file from the current directory if present
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}

	err := godotenv.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	return nil
}
