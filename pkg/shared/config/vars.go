package config

import (
	"time"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Logger     Logger     `yaml:"logger"`
	HttpClient HttpClient `yaml:"http_client"`
	Attack     Attack     `yaml:"attack"`
}

// Logger holds the logging configuration.
type Logger struct {
	Level           string `yaml:"level"`
	DisableTime     *bool  `yaml:"disable_time"`
	JSONFormat      *bool  `yaml:"json_format"`
	IncludeLocation *bool  `yaml:"include_location"`
}

// HttpClient holds the HTTP client configuration.
type HttpClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TlsClientConfig  TlsClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

// TlsClientConfig holds TLS settings for outgoing connections.
type TlsClientConfig struct {
	Verify *bool `yaml:"verify"`
}

// Proxy holds an optional outbound proxy address.
type Proxy struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

// Attack holds settings for retrieving the ATT&CK technique data.
type Attack struct {
	BaseURL  string `yaml:"base_url"`
	Domain   string `yaml:"domain"`
	Version  string `yaml:"version"`
	CacheDir string `yaml:"cache_dir"`
}
