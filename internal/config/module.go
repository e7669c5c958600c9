// Package config 提供应用配置管理功能
package config

import (
	tokensconfig "github.com/weisyn/tokens/internal/config/tokens"
	"github.com/weisyn/tokens/pkg/interfaces/config"
	"github.com/weisyn/tokens/pkg/types"
	"go.uber.org/fx"
)

// ConfigParams 定义配置模块的依赖参数
type ConfigParams struct {
	fx.In

	// 应用配置选项
	AppOptions config.AppOptions `optional:"true"`
}

// ConfigOutput 定义配置模块的输出结构
type ConfigOutput struct {
	fx.Out

	// 配置提供者
	Provider config.Provider

	// 原始用户配置，供日志模块使用
	AppConfig *types.AppConfig
}

// Module 返回配置模块
func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			ProvideConfigServices,
			func(provider config.Provider) *tokensconfig.Config {
				return provider.GetTokens()
			},
		),
	)
}

// ProvideConfigServices 提供配置服务，用户配置不合法时启动失败
func ProvideConfigServices(params ConfigParams) (ConfigOutput, error) {
	var appConfig *types.AppConfig
	if params.AppOptions != nil {
		appConfig = params.AppOptions.GetAppConfig()
	}
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}

	provider, err := NewProvider(appConfig)
	if err != nil {
		return ConfigOutput{}, err
	}

	return ConfigOutput{
		Provider:  provider,
		AppConfig: appConfig,
	}, nil
}
