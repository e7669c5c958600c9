package app

import (
	"github.com/weisyn/tokens/pkg/interfaces/config"
	"github.com/weisyn/tokens/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
// 实现config.AppOptions接口
type options struct {
	// 配置文件路径，为空时只用默认值与代码中的覆盖
	configFilePath string

	// 用户配置
	appConfig *types.AppConfig

	// 是否注册 Prometheus 指标
	enableMetrics bool
}

// 编译时校验options是否实现了config.AppOptions接口
var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithAppConfig 直接给出用户配置（与配置文件同时存在时，以此为准）
func WithAppConfig(appConfig *types.AppConfig) Option {
	return func(o *options) {
		o.appConfig = appConfig
	}
}

// WithTokens 设置代币访问配置
func WithTokens(userTokensConfig *types.UserTokensConfig) Option {
	return func(o *options) {
		if o.appConfig == nil {
			o.appConfig = &types.AppConfig{}
		}
		o.appConfig.Tokens = userTokensConfig
	}
}

// WithLog 设置日志配置
func WithLog(userLogConfig *types.UserLogConfig) Option {
	return func(o *options) {
		if o.appConfig == nil {
			o.appConfig = &types.AppConfig{}
		}
		o.appConfig.Log = userLogConfig
	}
}

// WithMetrics 把指标注册到默认 Prometheus 注册表
func WithMetrics() Option {
	return func(o *options) {
		o.enableMetrics = true
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	options := &options{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}
