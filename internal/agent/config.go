package agent

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed agents.yaml
var defaultAgents []byte

// Definition describes one agent
type Definition struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description"`
	Instructions string `yaml:"instructions"`
	Index        string `yaml:"index,omitempty"`
	TopK         int    `yaml:"top_k,omitempty"`
}

// Config is the agents file
type Config struct {
	Agents   []Definition `yaml:"agents"`
	Reviewer Definition   `yaml:"reviewer"`
}

// DefaultTopK is used for agents with an index and no top_k
const DefaultTopK = 3

// LoadConfig reads agent definitions from path, or the built-in
// definitions when path is empty.
func LoadConfig(path string) (*Config, error) {
	data := defaultAgents
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read agents file: %w", err)
		}
		data = b
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates agent definitions
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse agents: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("agents validation: %w", err)
	}
	for i := range cfg.Agents {
		if cfg.Agents[i].Index != "" && cfg.Agents[i].TopK <= 0 {
			cfg.Agents[i].TopK = DefaultTopK
		}
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Agents) == 0 {
		return fmt.Errorf("at least one agent is required")
	}
	seen := make(map[string]bool, len(c.Agents))
	for i, a := range c.Agents {
		if a.Name == "" {
			return fmt.Errorf("agent %d has no name", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("duplicate agent name %q", a.Name)
		}
		seen[a.Name] = true
		if a.Instructions == "" {
			return fmt.Errorf("agent %q has no instructions", a.Name)
		}
	}
	return nil
}

// MissingIndexes returns the knowledge indexes agents refer to that are
// not in available, in agent order.
func (c *Config) MissingIndexes(available []string) []string {
	have := make(map[string]bool, len(available))
	for _, name := range available {
		have[name] = true
	}

	var missing []string
	for _, a := range c.Agents {
		if a.Index != "" && !have[a.Index] {
			missing = append(missing, a.Index)
			have[a.Index] = true
		}
	}
	return missing
}
