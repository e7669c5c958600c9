package tokens

import "time"

// 代币访问配置默认值
const (
	// defaultEndpoint 公共 HTTP 网关
	defaultEndpoint = "https://icp-api.io"

	// defaultTimeout 单次请求超时
	defaultTimeout = 30 * time.Second

	// defaultRetryAttempts 普通调用尝试次数
	defaultRetryAttempts = 3

	// defaultRetryBackoff 线性退避基数
	defaultRetryBackoff = 500 * time.Millisecond

	// defaultProbeRetries 标准探测只重试一次
	defaultProbeRetries = 1

	// defaultIngressExpiry 请求过期时长
	defaultIngressExpiry = 4 * time.Minute

	// === 发现结果缓存 ===

	defaultCacheEnabled      = false
	defaultCacheTTL          = 10 * time.Minute
	defaultCacheMaxEntrySize = 4096 // bytes
	defaultCacheShards       = 64

	// === EXT 集合目录 ===

	defaultEXTDirectoryEnabled  = false
	defaultEXTDirectoryCacheTTL = time.Hour
)
