// Package app 装配代币访问应用：配置、日志、指标、地址编解码与门面工厂
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	config "github.com/weisyn/tokens/internal/config"
	"github.com/weisyn/tokens/internal/core/token"
	cryptoiface "github.com/weisyn/tokens/pkg/interfaces/infrastructure/crypto"
)

// ConfigPathEnv 配置文件路径环境变量，优先级低于 WithConfigFile
const ConfigPathEnv = "TOKENS_CONFIG_PATH"

// startTimeout 启动与停止的超时
const startTimeout = 30 * time.Second

// App 代币访问应用的对外接口
type App interface {
	// Facades 门面工厂
	Facades() *token.FacadeFactory

	// Accounts 账户地址编解码
	Accounts() cryptoiface.AccountCodec

	// Stop 停止应用，关闭传输与缓存
	Stop() error
}

// internalApp 应用的内部实现
type internalApp struct {
	bootstrap *Bootstrap
}

// Facades 门面工厂
func (a *internalApp) Facades() *token.FacadeFactory {
	return a.bootstrap.facades
}

// Accounts 账户地址编解码
func (a *internalApp) Accounts() cryptoiface.AccountCodec {
	return a.bootstrap.accounts
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	return a.bootstrap.StopApp(ctx)
}

// Start 加载配置并启动应用
func Start(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)
	if err := loadConfigFile(opts); err != nil {
		return nil, err
	}

	bootstrap := NewBootstrap(opts)
	if err := bootstrap.CreateFxApp(); err != nil {
		return nil, fmt.Errorf("创建应用失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := bootstrap.StartApp(ctx); err != nil {
		return nil, err
	}

	return &internalApp{bootstrap: bootstrap}, nil
}

// loadConfigFile 读取配置文件；代码中给出的配置优先
func loadConfigFile(opts *options) error {
	path := opts.configFilePath
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}
	if path == "" || opts.appConfig != nil {
		return nil
	}
	appConfig, err := config.LoadAppConfig(path)
	if err != nil {
		return err
	}
	opts.appConfig = appConfig
	return nil
}
