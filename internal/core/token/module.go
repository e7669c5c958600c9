// Package token 装配代币访问服务：网关传输、标准适配器、发现注册表与门面工厂
package token

import (
	"context"
	"fmt"

	"github.com/weisyn/tokens/client/core/transport"
	tokensconfig "github.com/weisyn/tokens/internal/config/tokens"
	logpkg "github.com/weisyn/tokens/internal/core/infrastructure/log"
	"github.com/weisyn/tokens/internal/core/infrastructure/metrics"
	"github.com/weisyn/tokens/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/tokens/internal/core/token/registry"
	"github.com/weisyn/tokens/internal/core/token/standards"
	"github.com/weisyn/tokens/internal/core/token/standards/ext"
	log "github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/tokens/pkg/interfaces/infrastructure/storage"
	tokeniface "github.com/weisyn/tokens/pkg/interfaces/token"
	"go.uber.org/fx"
)

// ModuleParams 代币模块依赖
type ModuleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *tokensconfig.Config
	Logger    log.Logger            `optional:"true"`
	Metrics   *metrics.TokenMetrics `optional:"true"`
}

// ModuleOutput 代币模块输出
type ModuleOutput struct {
	fx.Out

	Transport tokeniface.Transport
	Adapters  []tokeniface.Adapter
	Registry  *registry.Registry
	Facades   *FacadeFactory
}

// Module 返回代币模块
func Module() fx.Option {
	return fx.Module("token",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 按配置创建代币访问服务
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := params.Logger
	if logger == nil {
		logger = logpkg.NewNop()
	}
	opts := params.Config.GetOptions()

	client, err := transport.NewFallbackClientFromURLs(opts.Endpoints, transport.ClientConfig{
		Timeout:       opts.Timeout,
		RetryAttempts: opts.RetryAttempts,
		RetryBackoff:  opts.RetryBackoff,
		IngressExpiry: opts.IngressExpiry,
	}, logpkg.NewModuleLogger(logger, "transport"))
	if err != nil {
		return ModuleOutput{}, fmt.Errorf("创建网关传输失败: %w", err)
	}
	// 发现流程使用单次尝试的独立客户端，重试次数只由 ProbeClient 控制
	probeBase, err := transport.NewFallbackClientFromURLs(opts.Endpoints, transport.ClientConfig{
		Timeout:       opts.Timeout,
		RetryAttempts: 1,
		RetryBackoff:  opts.RetryBackoff,
		IngressExpiry: opts.IngressExpiry,
	}, logpkg.NewModuleLogger(logger, "discovery-transport"))
	if err != nil {
		_ = client.Close()
		return ModuleOutput{}, fmt.Errorf("创建探测传输失败: %w", err)
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			if err := probeBase.Close(); err != nil {
				_ = client.Close()
				return err
			}
			return client.Close()
		},
	})

	var directory ext.Directory
	if params.Config.IsEXTDirectoryEnabled() {
		directory = ext.NewHTTPDirectory(directoryConfig(opts.EXTDirectory), logpkg.NewModuleLogger(logger, "ext-directory"))
		logger.Infof("已启用 EXT 集合目录")
	}
	adapters := standards.Default(directory)

	var cache storage.MemoryStore
	if params.Config.IsCacheEnabled() {
		store, err := memory.New(opts.Cache, logpkg.NewModuleLogger(logger, "cache"))
		if err != nil {
			return ModuleOutput{}, fmt.Errorf("创建发现结果缓存失败: %w", err)
		}
		params.Lifecycle.Append(fx.Hook{
			OnStop: func(context.Context) error { return store.Close() },
		})
		cache = store
	}

	reg, err := registry.New(registry.Options{
		Adapters:  adapters,
		Transport: transport.NewProbeClient(probeBase, opts.ProbeRetries, opts.RetryBackoff),
		Cache:     cache,
		CacheTTL:  opts.Cache.TTL,
		Metrics:   params.Metrics,
		Logger:    logger,
	})
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		Transport: client,
		Adapters:  adapters,
		Registry:  reg,
		Facades:   NewFacadeFactory(reg, client, params.Metrics, logger),
	}, nil
}

// directoryConfig 空字段沿用内置默认值
func directoryConfig(opts tokensconfig.EXTDirectoryOptions) ext.DirectoryConfig {
	cfg := ext.DefaultDirectoryConfig()
	if opts.CollectionsURL != "" {
		cfg.CollectionsURL = opts.CollectionsURL
	}
	if opts.FiltersURL != "" {
		cfg.FiltersURL = opts.FiltersURL
	}
	if opts.AssetsBaseURL != "" {
		cfg.AssetsBaseURL = opts.AssetsBaseURL
	}
	if opts.CacheTTL > 0 {
		cfg.CacheTTL = opts.CacheTTL
	}
	return cfg
}
