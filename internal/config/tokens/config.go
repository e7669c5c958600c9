// Package tokens 代币访问配置
package tokens

import (
	"fmt"
	"strings"
	"time"

	"github.com/weisyn/tokens/pkg/types"
)

// TokensOptions 代币访问配置选项
type TokensOptions struct {
	Endpoints     []string      `json:"endpoints"`
	Timeout       time.Duration `json:"timeout"`
	RetryAttempts int           `json:"retry_attempts"`
	RetryBackoff  time.Duration `json:"retry_backoff"`
	ProbeRetries  int           `json:"probe_retries"`
	IngressExpiry time.Duration `json:"ingress_expiry"`

	Cache CacheOptions `json:"cache"`

	EXTDirectory EXTDirectoryOptions `json:"ext_directory"`
}

// CacheOptions 发现结果缓存配置
type CacheOptions struct {
	Enabled      bool          `json:"enabled"`
	TTL          time.Duration `json:"ttl"`
	MaxEntrySize int           `json:"max_entry_size"`
	Shards       int           `json:"shards"`
}

// EXTDirectoryOptions EXT 集合目录配置，空 URL 表示使用适配器内置地址
type EXTDirectoryOptions struct {
	Enabled        bool          `json:"enabled"`
	CollectionsURL string        `json:"collections_url"`
	FiltersURL     string        `json:"filters_url"`
	AssetsBaseURL  string        `json:"assets_base_url"`
	CacheTTL       time.Duration `json:"cache_ttl"`
}

// Config 代币访问配置实现
type Config struct {
	options *TokensOptions
}

// New 创建配置，用户配置覆盖默认值；时长字段格式错误时返回错误
func New(userConfig *types.UserTokensConfig) (*Config, error) {
	options := createDefaultTokensOptions()
	if userConfig != nil {
		if err := applyUserTokensConfig(options, userConfig); err != nil {
			return nil, err
		}
	}
	return &Config{options: options}, nil
}

// Default 默认配置
func Default() *Config {
	return &Config{options: createDefaultTokensOptions()}
}

func createDefaultTokensOptions() *TokensOptions {
	return &TokensOptions{
		Endpoints:     []string{defaultEndpoint},
		Timeout:       defaultTimeout,
		RetryAttempts: defaultRetryAttempts,
		RetryBackoff:  defaultRetryBackoff,
		ProbeRetries:  defaultProbeRetries,
		IngressExpiry: defaultIngressExpiry,
		Cache: CacheOptions{
			Enabled:      defaultCacheEnabled,
			TTL:          defaultCacheTTL,
			MaxEntrySize: defaultCacheMaxEntrySize,
			Shards:       defaultCacheShards,
		},
		EXTDirectory: EXTDirectoryOptions{
			Enabled:  defaultEXTDirectoryEnabled,
			CacheTTL: defaultEXTDirectoryCacheTTL,
		},
	}
}

func applyUserTokensConfig(options *TokensOptions, user *types.UserTokensConfig) error {
	if len(user.Endpoints) > 0 {
		endpoints := make([]string, 0, len(user.Endpoints))
		for _, ep := range user.Endpoints {
			if ep = strings.TrimSpace(ep); ep != "" {
				endpoints = append(endpoints, ep)
			}
		}
		if len(endpoints) > 0 {
			options.Endpoints = endpoints
		}
	}
	if err := applyDuration(&options.Timeout, user.Timeout, "timeout"); err != nil {
		return err
	}
	if err := applyDuration(&options.RetryBackoff, user.RetryBackoff, "retry_backoff"); err != nil {
		return err
	}
	if err := applyDuration(&options.IngressExpiry, user.IngressExpiry, "ingress_expiry"); err != nil {
		return err
	}
	if user.RetryAttempts != nil && *user.RetryAttempts > 0 {
		options.RetryAttempts = *user.RetryAttempts
	}
	if user.ProbeRetries != nil && *user.ProbeRetries >= 0 {
		options.ProbeRetries = *user.ProbeRetries
	}

	if c := user.Cache; c != nil {
		if c.Enabled != nil {
			options.Cache.Enabled = *c.Enabled
		}
		if err := applyDuration(&options.Cache.TTL, c.TTL, "cache.ttl"); err != nil {
			return err
		}
		if c.MaxEntrySize != nil && *c.MaxEntrySize > 0 {
			options.Cache.MaxEntrySize = *c.MaxEntrySize
		}
	}

	if d := user.EXTDirectory; d != nil {
		if d.Enabled != nil {
			options.EXTDirectory.Enabled = *d.Enabled
		}
		applyString(&options.EXTDirectory.CollectionsURL, d.CollectionsURL)
		applyString(&options.EXTDirectory.FiltersURL, d.FiltersURL)
		applyString(&options.EXTDirectory.AssetsBaseURL, d.AssetsBaseURL)
		if err := applyDuration(&options.EXTDirectory.CacheTTL, d.CacheTTL, "ext_directory.cache_ttl"); err != nil {
			return err
		}
	}
	return nil
}

func applyString(dst *string, value *string) {
	if value != nil && strings.TrimSpace(*value) != "" {
		*dst = strings.TrimSpace(*value)
	}
}

func applyDuration(dst *time.Duration, value *string, field string) error {
	if value == nil {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("解析配置项 %s 失败: %w", field, err)
	}
	if d <= 0 {
		return fmt.Errorf("配置项 %s 必须为正数: %s", field, *value)
	}
	*dst = d
	return nil
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *TokensOptions {
	return c.options
}

// GetEndpoints 网关地址
func (c *Config) GetEndpoints() []string {
	return c.options.Endpoints
}

// GetProbeRetries 探测重试次数
func (c *Config) GetProbeRetries() int {
	return c.options.ProbeRetries
}

// IsCacheEnabled 是否启用发现结果缓存
func (c *Config) IsCacheEnabled() bool {
	return c.options.Cache.Enabled
}

// IsEXTDirectoryEnabled 是否启用 EXT 集合目录
func (c *Config) IsEXTDirectoryEnabled() bool {
	return c.options.EXTDirectory.Enabled
}
