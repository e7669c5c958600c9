// Package client 代币访问客户端 - 不依赖 fx 装配的统一入口
//
// 适合作为库直接嵌入：给定网关地址即可发现标准、构造门面、解码调用。
package client

import (
	"context"
	"time"

	"github.com/weisyn/tokens/client/core/transport"
	"github.com/weisyn/tokens/internal/core/token/dispatcher"
	"github.com/weisyn/tokens/internal/core/token/registry"
	"github.com/weisyn/tokens/internal/core/token/standards"
	"github.com/weisyn/tokens/internal/core/token/standards/ext"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// 默认请求超时
const defaultTimeout = 30 * time.Second

// Client 代币访问客户端
type Client struct {
	transport token.Transport
	registry  *registry.Registry
}

// Option 客户端选项
type Option func(*settings)

type settings struct {
	directory ext.Directory
	retries   int
}

// WithEXTDirectory 为 EXT 适配器提供链下集合目录
func WithEXTDirectory(directory ext.Directory) Option {
	return func(s *settings) { s.directory = directory }
}

// WithProbeRetries 探测调用的重试次数（默认 1）
func WithProbeRetries(retries int) Option {
	return func(s *settings) { s.retries = retries }
}

// New 创建新的客户端实例
// gatewayURL: HTTP 网关地址，如 "https://icp-api.io"
func New(gatewayURL string, opts ...Option) *Client {
	return NewWithTransport(transport.NewHTTPClient(gatewayURL, defaultTimeout), opts...)
}

// NewWithTransport 使用自定义 transport 创建客户端
// 例如签名传输。t 若自带重试（如 transport.FallbackClient），探测的实际尝试次数会相乘，
// 应传入 RetryAttempts 为 1 的实例。
func NewWithTransport(t token.Transport, opts ...Option) *Client {
	s := settings{retries: transport.DefaultProbeRetries}
	for _, opt := range opts {
		opt(&s)
	}
	reg, _ := registry.New(registry.Options{
		Adapters:  standards.Default(s.directory),
		Transport: transport.NewProbeClient(t, s.retries, 0),
	})
	return &Client{transport: t, registry: reg}
}

// Transport 获取底层的 transport
func (c *Client) Transport() token.Transport {
	return c.transport
}

// Discover 发现合约实现的标准
func (c *Client) Discover(ctx context.Context, canister types.Identity) []types.StandardDescriptor {
	return c.registry.Discover(ctx, canister)
}

// Open 为合约构造门面；standards 为空时自动发现
func (c *Client) Open(ctx context.Context, canister types.Identity, standards ...string) (*dispatcher.Facade, error) {
	return dispatcher.New(ctx, canister, dispatcher.Options{
		Standards: standards,
		Registry:  c.registry,
		Transport: c.transport,
	})
}

// DecodeCall 便捷方法：构造门面后解码一次调用
func (c *Client) DecodeCall(ctx context.Context, canister types.Identity, method string, raw []byte, encoding types.Encoding, standards ...string) (*types.CallDescription, error) {
	facade, err := c.Open(ctx, canister, standards...)
	if err != nil {
		return nil, err
	}
	return facade.DecodeCall(method, raw, encoding)
}
