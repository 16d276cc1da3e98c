package tools

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrBodyTooLarge is returned when a request body exceeds Config.MaxBodyBytes.
var ErrBodyTooLarge = errors.New("body too large")

// Config 服务配置
type Config struct {
	Listen          string `yaml:"listen"`
	MaxBodyBytes    int    `yaml:"max_body_bytes"`
	MailPath        string `yaml:"mail_path"`
	SaveAttachments bool   `yaml:"save_attachments"`
}

// DefaultConfig 默认配置
func DefaultConfig() *Config {
	return &Config{
		Listen:       ":6001",
		MaxBodyBytes: 1 << 20,
		MailPath:     "mail",
	}
}

// LoadConfig reads the YAML config at path. An empty path falls back to
// MAILREPLY_CONFIG. A missing file yields the defaults. MAILREPLY_LISTEN
// overrides the listen address.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv("MAILREPLY_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.Listen = envOrDefault("MAILREPLY_LISTEN", cfg.Listen)
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}
	return cfg, nil
}

// checkSize 检查正文大小
func (c *Config) checkSize(n int) error {
	if c.MaxBodyBytes > 0 && n > c.MaxBodyBytes {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrBodyTooLarge, n, c.MaxBodyBytes)
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
