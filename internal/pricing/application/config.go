package application

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FeedConfig carries the opaque supplier export parameters and the fetch
// window. Region and tariff are passed through to the exporter untouched.
type FeedConfig struct {
	URL          string        `yaml:"url"`
	Region       string        `yaml:"region"`
	Tariff       string        `yaml:"tariff"`
	Timeout      time.Duration `yaml:"timeout"`
	DaysBackward int           `yaml:"days_backward"`
	DaysForward  int           `yaml:"days_forward"`
}

// LoadFeedConfig loads feed config from yaml or env.
func LoadFeedConfig() (FeedConfig, error) {
	cfg := FeedConfig{
		URL:          getenvDefault("PRICE_FEED_URL", "https://andelenergi.dk/"),
		Region:       getenvDefault("PRICE_FEED_REGION", "east"),
		Tariff:       getenvDefault("PRICE_FEED_TARIFF", "c"),
		Timeout:      10 * time.Second,
		DaysBackward: 4,
		DaysForward:  4,
	}

	if path := os.Getenv("PRICE_FEED_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.DaysBackward <= 0 {
		cfg.DaysBackward = 4
	}
	if cfg.DaysForward <= 0 {
		cfg.DaysForward = 4
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
