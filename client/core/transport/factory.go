package transport

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// ClientConfig 客户端配置
type ClientConfig struct {
	// 网关端点(按优先级排序)
	Endpoints []EndpointConfig `json:"endpoints"`

	// 超时配置
	Timeout       time.Duration `json:"timeout"`
	RetryAttempts int           `json:"retry_attempts"`
	RetryBackoff  time.Duration `json:"retry_backoff"`
	IngressExpiry time.Duration `json:"ingress_expiry"`

	// 健康检查，0 表示关闭
	HealthCheckInterval time.Duration `json:"health_check_interval"`
}

// EndpointConfig 端点配置
type EndpointConfig struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"` // 优先级,数字越小越优先
	URL      string `json:"url"`
}

// FallbackClient 支持故障转移的客户端
type FallbackClient struct {
	config    ClientConfig
	clients   []clientWithPriority
	current   int
	logger    log.Logger
	mu        sync.RWMutex
	closeCh   chan struct{}
	closeOnce sync.Once
}

type clientWithPriority struct {
	name      string
	priority  int
	client    Client
	healthy   bool
	lastCheck time.Time
}

// NewFallbackClient 创建支持故障转移的客户端
func NewFallbackClient(config ClientConfig, logger log.Logger) (*FallbackClient, error) {
	if len(config.Endpoints) == 0 {
		return nil, ErrNoEndpoints
	}

	// 设置默认值
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 500 * time.Millisecond
	}

	fc := &FallbackClient{
		config:  config,
		clients: make([]clientWithPriority, 0, len(config.Endpoints)),
		logger:  logger,
		closeCh: make(chan struct{}),
	}

	for i, ep := range config.Endpoints {
		if ep.URL == "" {
			continue // 跳过无效端点
		}
		name := ep.Name
		if name == "" {
			name = fmt.Sprintf("endpoint-%d", i)
		}
		fc.clients = append(fc.clients, clientWithPriority{
			name:     name,
			priority: ep.Priority,
			client:   NewHTTPClient(ep.URL, config.Timeout).WithIngressExpiry(config.IngressExpiry),
			healthy:  true, // 初始假设健康
		})
	}

	if len(fc.clients) == 0 {
		return nil, fmt.Errorf("no valid clients created")
	}

	sort.SliceStable(fc.clients, func(i, j int) bool {
		return fc.clients[i].priority < fc.clients[j].priority
	})

	if config.HealthCheckInterval > 0 {
		go fc.healthCheckLoop()
	}

	return fc, nil
}

// NewFallbackClientFromURLs 按给定顺序创建端点
func NewFallbackClientFromURLs(urls []string, config ClientConfig, logger log.Logger) (*FallbackClient, error) {
	config.Endpoints = make([]EndpointConfig, 0, len(urls))
	for i, u := range urls {
		config.Endpoints = append(config.Endpoints, EndpointConfig{Priority: i, URL: u})
	}
	return NewFallbackClient(config, logger)
}

// healthCheckLoop 健康检查循环
func (fc *FallbackClient) healthCheckLoop() {
	ticker := time.NewTicker(fc.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			fc.checkAllClients()
		case <-fc.closeCh:
			return
		}
	}
}

// checkAllClients 检查所有客户端健康状态
func (fc *FallbackClient) checkAllClients() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	for i := range fc.clients {
		err := fc.clients[i].client.Ping(ctx)
		fc.clients[i].healthy = (err == nil)
		fc.clients[i].lastCheck = time.Now()
	}
}

// getClient 获取当前可用客户端
func (fc *FallbackClient) getClient() (int, Client) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if fc.current < len(fc.clients) && fc.clients[fc.current].healthy {
		return fc.current, fc.clients[fc.current].client
	}

	for i, c := range fc.clients {
		if c.healthy {
			fc.current = i
			return i, c.client
		}
	}

	// 全部不健康时重置状态，从第一个开始
	for i := range fc.clients {
		fc.clients[i].healthy = true
	}
	fc.current = 0
	return 0, fc.clients[0].client
}

// markUnhealthy 标记端点不健康
func (fc *FallbackClient) markUnhealthy(index int) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if index < len(fc.clients) {
		fc.clients[index].healthy = false
	}
}

// tryWithFallback 尝试执行操作,失败时降级
//
// 合约拒绝等确定性错误直接返回，不切换端点。
func (fc *FallbackClient) tryWithFallback(ctx context.Context, op func(Client) error) error {
	var lastErr error

	for attempt := 0; attempt < fc.config.RetryAttempts; attempt++ {
		index, client := fc.getClient()

		err := op(client)
		if err == nil {
			return nil
		}
		if isPermanent(err) {
			return err
		}

		lastErr = err
		fc.markUnhealthy(index)
		if fc.logger != nil {
			fc.logger.Warnf("端点 %s 调用失败 (第 %d 次): %v", fc.clients[index].name, attempt+1, err)
		}

		if attempt < fc.config.RetryAttempts-1 {
			if werr := waitBackoff(ctx, fc.config.RetryBackoff, attempt); werr != nil {
				return werr
			}
		}
	}

	return fmt.Errorf("all endpoints failed: %w", lastErr)
}

// Query 只读调用
func (fc *FallbackClient) Query(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	var result []byte
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.Query(ctx, canister, method, arg)
		return e
	})
	return result, err
}

// Update 更新调用
func (fc *FallbackClient) Update(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	var result []byte
	err := fc.tryWithFallback(ctx, func(c Client) error {
		var e error
		result, e = c.Update(ctx, canister, method, arg)
		return e
	})
	return result, err
}

// Ping 检查当前端点
func (fc *FallbackClient) Ping(ctx context.Context) error {
	return fc.tryWithFallback(ctx, func(c Client) error {
		return c.Ping(ctx)
	})
}

// Close 停止健康检查并关闭所有端点
func (fc *FallbackClient) Close() error {
	var err error
	fc.closeOnce.Do(func() {
		close(fc.closeCh)

		fc.mu.Lock()
		defer fc.mu.Unlock()

		for _, c := range fc.clients {
			if e := c.client.Close(); e != nil && err == nil {
				err = e
			}
		}
	})
	return err
}

// 确保实现了Client接口
var _ Client = (*FallbackClient)(nil)

// ProbeClient 探测专用传输，失败时有限重试
type ProbeClient struct {
	base     token.Transport
	attempts int
	backoff  time.Duration
}

// DefaultProbeRetries 探测调用的默认重试次数
const DefaultProbeRetries = 1

// NewProbeClient 包装传输，探测调用最多重试 retries 次
func NewProbeClient(base token.Transport, retries int, backoff time.Duration) *ProbeClient {
	if retries < 0 {
		retries = 0
	}
	return &ProbeClient{base: base, attempts: retries + 1, backoff: backoff}
}

// Query 只读调用，瞬时错误时重试
func (p *ProbeClient) Query(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < p.attempts; attempt++ {
		reply, err := p.base.Query(ctx, canister, method, arg)
		if err == nil {
			return reply, nil
		}
		if isPermanent(err) {
			return nil, err
		}
		lastErr = err
		if attempt < p.attempts-1 {
			if werr := waitBackoff(ctx, p.backoff, attempt); werr != nil {
				return nil, werr
			}
		}
	}
	return nil, lastErr
}

// Update 探测不发起更新调用，直接透传
func (p *ProbeClient) Update(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error) {
	return p.base.Update(ctx, canister, method, arg)
}

var _ token.Transport = (*ProbeClient)(nil)
