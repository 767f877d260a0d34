package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the content of a config file. Every field is optional.
type Config struct {
	Dir      string  `yaml:"dir"`
	Database string  `yaml:"database"`
	Indent   *string `yaml:"indent"`
	Verbose  bool    `yaml:"verbose"`
}

// LoadConfig reads a YAML config file. Unknown fields are rejected.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return &cfg, nil
}
