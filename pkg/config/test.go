package config

import "github.com/creasty/defaults"

// NewForTest returns a Config populated with defaults and test-safe values,
// without consulting the environment or a config file.
func NewForTest() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	cfg.Environment = "test"
	cfg.DatabaseFilePath = ":memory:"
	cfg.JWTSecret = "test-secret"
	return cfg
}
