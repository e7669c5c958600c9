// Package types provides configuration type definitions.
package types

// AppConfig 命令行工具根配置
// 只包含JSON配置文件解析所需的结构，默认值在 internal/config/*/defaults.go 中定义
type AppConfig struct {
	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 代币访问配置
	Tokens *UserTokensConfig `json:"tokens,omitempty"`
}

// UserLogConfig 用户日志配置
// 只包含JSON配置文件中实际出现的字段
type UserLogConfig struct {
	Level     *string `json:"level,omitempty"`      // 日志级别：debug, info, warn, error, fatal
	FilePath  *string `json:"file_path,omitempty"`  // 日志文件路径
	ToConsole *bool   `json:"to_console,omitempty"` // 是否输出到控制台
}

// UserTokensConfig 用户代币访问配置
type UserTokensConfig struct {
	Endpoints     []string `json:"endpoints,omitempty"`      // 网关地址，按优先级排列
	Timeout       *string  `json:"timeout,omitempty"`        // 单次请求超时，如 "30s"
	RetryAttempts *int     `json:"retry_attempts,omitempty"` // 普通调用的尝试次数
	RetryBackoff  *string  `json:"retry_backoff,omitempty"`  // 重试退避基数
	ProbeRetries  *int     `json:"probe_retries,omitempty"`  // 标准探测的重试次数
	IngressExpiry *string  `json:"ingress_expiry,omitempty"` // 请求过期时长

	Cache *UserDiscoveryCacheConfig `json:"cache,omitempty"`

	EXTDirectory *UserEXTDirectoryConfig `json:"ext_directory,omitempty"`
}

// UserDiscoveryCacheConfig 标准发现结果缓存
type UserDiscoveryCacheConfig struct {
	Enabled      *bool   `json:"enabled,omitempty"`
	TTL          *string `json:"ttl,omitempty"`
	MaxEntrySize *int    `json:"max_entry_size,omitempty"`
}

// UserEXTDirectoryConfig EXT 集合目录（链下 HTTP 查询，默认关闭）
type UserEXTDirectoryConfig struct {
	Enabled        *bool   `json:"enabled,omitempty"`
	CollectionsURL *string `json:"collections_url,omitempty"`
	FiltersURL     *string `json:"filters_url,omitempty"` // 含一个 %s，填入合约文本形式
	AssetsBaseURL  *string `json:"assets_base_url,omitempty"`
	CacheTTL       *string `json:"cache_ttl,omitempty"`
}
