package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	ListenAddr    string `yaml:"listen_addr"`
	LogLevel      string `yaml:"log_level"`
	LogJSON       bool   `yaml:"log_json"`
	JwtTTLSeconds int    `yaml:"jwt_ttl_seconds"`
	Pg            Pg     `yaml:"pg"`
	Kafka         Kafka  `yaml:"kafka"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Kafka struct {
	Brokers string `yaml:"brokers"` // comma-separated bootstrap servers
	// Audit events waiting for the background worker. Events past this
	// limit are dropped, not queued.
	QueueSize int `yaml:"queue_size"`
}

type Private struct {
	// Base64-encoded HMAC signing key. Decoded once at startup, a key
	// that fails to decode is fatal.
	JwtKey string `yaml:"jwt_key"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLSeconds) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.mustValidate()
	return cfg
}

func (c *Config) mustValidate() {
	if c.Public.ListenAddr == "" {
		panic("config: listen_addr is required")
	}
	if c.Public.JwtTTLSeconds <= 0 {
		panic("config: jwt_ttl_seconds must be positive")
	}
	if c.Private.JwtKey == "" {
		panic("config: jwt_key is required")
	}
}
