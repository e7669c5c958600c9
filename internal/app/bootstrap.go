package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	config "github.com/weisyn/tokens/internal/config"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto"
	log "github.com/weisyn/tokens/internal/core/infrastructure/log"
	"github.com/weisyn/tokens/internal/core/infrastructure/metrics"
	"github.com/weisyn/tokens/internal/core/token"
	configiface "github.com/weisyn/tokens/pkg/interfaces/config"
	cryptoiface "github.com/weisyn/tokens/pkg/interfaces/infrastructure/crypto"
	"go.uber.org/fx"
)

// Bootstrap 应用引导程序
type Bootstrap struct {
	opts  *options
	fxApp *fx.App

	// 由 fx.Populate 填充
	facades  *token.FacadeFactory
	accounts cryptoiface.AccountCodec
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts *options) *Bootstrap {
	return &Bootstrap{
		opts: opts,
	}
}

// SetupInfrastructureLayer 设置基础设施层模块
func (b *Bootstrap) SetupInfrastructureLayer() []fx.Option {
	modules := []fx.Option{
		config.Module(),  // 1. 配置(不依赖其他)
		log.Module(),     // 2. 日志(依赖配置)
		crypto.Module(),  // 3. 账户地址编解码
		metrics.Module(), // 4. 指标(可选注册表)
	}
	if b.opts.enableMetrics {
		modules = append(modules, fx.Provide(func() prometheus.Registerer { return prometheus.DefaultRegisterer }))
	}
	return modules
}

// SetupBusinessLayer 设置业务逻辑层模块
func (b *Bootstrap) SetupBusinessLayer() []fx.Option {
	return []fx.Option{
		token.Module(), // 传输、适配器、注册表、门面工厂
	}
}

// SetupApplicationLayer 设置应用层模块
func (b *Bootstrap) SetupApplicationLayer() []fx.Option {
	return []fx.Option{
		fx.Provide(func() configiface.AppOptions { return b.opts }),
		fx.Populate(&b.facades, &b.accounts),
	}
}

// SetupModules 设置所有应用模块
func (b *Bootstrap) SetupModules() []fx.Option {
	var allModules []fx.Option
	allModules = append(allModules, b.SetupInfrastructureLayer()...)
	allModules = append(allModules, b.SetupBusinessLayer()...)
	allModules = append(allModules, b.SetupApplicationLayer()...)
	return allModules
}

// CreateFxApp 创建并配置fx应用
func (b *Bootstrap) CreateFxApp() error {
	b.fxApp = fx.New(
		fx.Options(b.SetupModules()...),
		// 禁用fx内部日志
		fx.NopLogger,
	)
	if err := b.fxApp.Err(); err != nil {
		return fmt.Errorf("装配模块失败: %w", err)
	}
	return nil
}

// StartApp 启动应用程序
func (b *Bootstrap) StartApp(ctx context.Context) error {
	if err := b.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// StopApp 停止应用程序
func (b *Bootstrap) StopApp(ctx context.Context) error {
	if err := b.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}
