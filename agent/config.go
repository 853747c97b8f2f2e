package agent

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the key=value settings read from a strategy configuration file.
type Config map[string]string

// Configurable strategies accept settings after construction.
type Configurable interface {
	Configure(cfg Config)
}

// ConfigPath returns the configuration file for a canonical strategy name.
func ConfigPath(dir, name string) string {
	return filepath.Join(dir, name+".cfg")
}

// LoadConfig parses a configuration file. Comments start with '#', keys and
// values are trimmed, later keys overwrite earlier ones.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg := Config{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		cfg[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

func (c Config) Has(key string) bool {
	_, ok := c[key]
	return ok
}

func (c Config) String(key, fallback string) string {
	if v, ok := c[key]; ok {
		return v
	}
	return fallback
}

func (c Config) Int(key string, fallback int) int {
	if v, ok := c[key]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func (c Config) Float(key string, fallback float64) float64 {
	if v, ok := c[key]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Bool treats "true", "1" and "yes" (any case) as true and any other present
// value as false.
func (c Config) Bool(key string, fallback bool) bool {
	v, ok := c[key]
	if !ok {
		return fallback
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
