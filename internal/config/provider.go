package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weisyn/tokens/internal/config/log"
	"github.com/weisyn/tokens/internal/config/tokens"
	"github.com/weisyn/tokens/pkg/interfaces/config"
	"github.com/weisyn/tokens/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
	log       *log.Config
	tokens    *tokens.Config
}

// NewProvider 创建配置提供者
//
// 代币配置在这里一次性解析并校验，时长字段格式错误直接返回错误。
func NewProvider(appConfig *types.AppConfig) (config.Provider, error) {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	tokensConfig, err := tokens.New(appConfig.Tokens)
	if err != nil {
		return nil, fmt.Errorf("代币访问配置无效: %w", err)
	}
	logConfig := log.New(appConfig.Log)
	if err := ValidateMandatoryConfig(logConfig.GetOptions(), tokensConfig.GetOptions()); err != nil {
		return nil, err
	}
	return &Provider{
		appConfig: appConfig,
		log:       logConfig,
		tokens:    tokensConfig,
	}, nil
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	return p.log.GetOptions()
}

// GetTokens 获取代币访问配置
func (p *Provider) GetTokens() *tokens.Config {
	return p.tokens
}

// LoadAppConfig 从 JSON 文件读取用户配置
//
// 只有文件中出现的字段会覆盖默认值（用户配置结构体全部为指针字段）。
func LoadAppConfig(path string) (*types.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	return &appConfig, nil
}
