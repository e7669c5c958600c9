package token

import (
	"context"

	"github.com/weisyn/tokens/internal/core/infrastructure/metrics"
	"github.com/weisyn/tokens/internal/core/token/dispatcher"
	"github.com/weisyn/tokens/internal/core/token/registry"
	log "github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
	tokeniface "github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// FacadeFactory 为合约构造门面
//
// 发现走注册表的探测传输；门面上的调用走普通传输（或调用方给的签名传输）。
type FacadeFactory struct {
	registry  *registry.Registry
	transport tokeniface.Transport
	metrics   *metrics.TokenMetrics
	logger    log.Logger
}

// NewFacadeFactory 创建门面工厂
func NewFacadeFactory(reg *registry.Registry, transport tokeniface.Transport, m *metrics.TokenMetrics, logger log.Logger) *FacadeFactory {
	return &FacadeFactory{registry: reg, transport: transport, metrics: m, logger: logger}
}

// Open 构造门面；standards 为空时先发现合约支持的标准
func (f *FacadeFactory) Open(ctx context.Context, contract types.Identity, standards ...string) (*dispatcher.Facade, error) {
	return f.OpenWith(ctx, contract, f.transport, standards...)
}

// OpenWith 同 Open，但门面调用使用给定传输，如签名传输
func (f *FacadeFactory) OpenWith(ctx context.Context, contract types.Identity, transport tokeniface.Transport, standards ...string) (*dispatcher.Facade, error) {
	return dispatcher.New(ctx, contract, dispatcher.Options{
		Standards: standards,
		Registry:  f.registry,
		Transport: transport,
		Metrics:   f.metrics,
		Logger:    f.logger,
	})
}

// Discover 发现合约支持的标准
func (f *FacadeFactory) Discover(ctx context.Context, contract types.Identity) []types.StandardDescriptor {
	return f.registry.Discover(ctx, contract)
}
