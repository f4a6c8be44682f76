package config

import (
	"fmt"
	"net/url"
	"time"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := validateHTTPConfig(&cfg.HttpClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := validateAttackConfig(&cfg.Attack); err != nil {
		return fmt.Errorf("YAML global config: attack directive is invalid: %w", err)
	}
	return nil
}

// validateHTTPConfig checks if the HTTP configurations have valid values.
func validateHTTPConfig(httpConfig *HttpClient) error {
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"retry_wait_time":     httpConfig.RetryWaitTime,
		"retry_max_wait_time": httpConfig.RetryMaxWaitTime,
		"timeout":             httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	if httpConfig.Proxy.Host != "" {
		proxy := fmt.Sprintf("%s:%s", httpConfig.Proxy.Host, httpConfig.Proxy.Port)
		if _, err := url.Parse(proxy); err != nil {
			return fmt.Errorf("proxy address %q is invalid: %w", proxy, err)
		}
	}

	return nil
}

// validateAttackConfig checks if the ATT&CK source configuration has valid values.
func validateAttackConfig(attackConfig *Attack) error {
	if attackConfig.BaseURL != "" {
		if _, err := url.ParseRequestURI(attackConfig.BaseURL); err != nil {
			return fmt.Errorf("base_url %q is invalid: %w", attackConfig.BaseURL, err)
		}
	}
	return nil
}

// validateDuration verifies a duration is non-negative and within limit.
func validateDuration(duration time.Duration, name string, limit time.Duration) error {
	if duration < 0 {
		return fmt.Errorf("%s must not be negative: %s", name, duration)
	}
	if duration > limit {
		return fmt.Errorf("%s must not exceed %s: %s", name, limit, duration)
	}
	return nil
}
