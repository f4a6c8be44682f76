// Package attack retrieves ATT&CK technique bundles from the published CTI
// snapshots.
package attack

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/control-frameworks/attackmap/internal/stix"
	"github.com/control-frameworks/attackmap/pkg/shared/config"
	"github.com/control-frameworks/attackmap/pkg/shared/files"
	"github.com/control-frameworks/attackmap/pkg/shared/httpclient"
)

// Client downloads ATT&CK bundles, optionally keeping a local cache so
// repeated runs against the same version skip the network entirely.
type Client struct {
	httpc    *resty.Client
	baseURL  string
	cacheDir string
	logger   hclog.Logger
}

// NewClient builds an ATT&CK client from the application configuration.
func NewClient(cfg *config.Config, logger hclog.Logger) *Client {
	return &Client{
		httpc:    httpclient.InitializeRestyClient(logger, cfg),
		baseURL:  config.AttackBaseURL(cfg),
		cacheDir: config.AttackCacheDir(cfg),
		logger:   logger,
	}
}

// Fetch returns the ATT&CK bundle for the given domain and version as an
// object store.
func (c *Client) Fetch(domain, version string) (*stix.Store, error) {
	if data, ok := c.readCache(domain, version); ok {
		bundle, err := stix.DecodeBundle(data)
		if err == nil {
			c.logger.Debug("loaded ATT&CK bundle from cache", "domain", domain, "version", version)
			return bundle.Store(), nil
		}
		c.logger.Warn("cached ATT&CK bundle is unreadable, refetching", "error", err)
	}

	url := c.bundleURL(domain, version)
	c.logger.Info("downloading ATT&CK data", "url", url)
	resp, err := c.httpc.R().Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download ATT&CK data from %q: %w", url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to download ATT&CK data from %q: status %s", url, resp.Status())
	}

	bundle, err := stix.DecodeBundle(resp.Body())
	if err != nil {
		return nil, err
	}

	c.writeCache(domain, version, resp.Body())
	return bundle.Store(), nil
}

// bundleURL points at the tagged CTI snapshot for a domain, e.g.
// .../ATT%26CK-v9.0/enterprise-attack/enterprise-attack.json.
func (c *Client) bundleURL(domain, version string) string {
	return fmt.Sprintf("%s/ATT%%26CK-%s/%s/%s.json", c.baseURL, version, domain, domain)
}

func (c *Client) cachePath(domain, version string) string {
	return filepath.Join(c.cacheDir, fmt.Sprintf("%s-%s.json", domain, version))
}

func (c *Client) readCache(domain, version string) ([]byte, bool) {
	if c.cacheDir == "" {
		return nil, false
	}
	data, err := os.ReadFile(c.cachePath(domain, version))
	if err != nil {
		return nil, false
	}
	return data, true
}

// writeCache stores the raw bundle. Cache write failures are non-fatal.
func (c *Client) writeCache(domain, version string, data []byte) {
	if c.cacheDir == "" {
		return
	}
	if err := files.WriteFileInFolder(c.cachePath(domain, version), data); err != nil {
		c.logger.Warn("failed to cache ATT&CK bundle", "error", err)
	}
}
