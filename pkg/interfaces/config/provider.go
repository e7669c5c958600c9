// Package config provides configuration provider interfaces.
package config

import (
	logconfig "github.com/weisyn/tokens/internal/config/log"
	tokensconfig "github.com/weisyn/tokens/internal/config/tokens"
)

// Provider 配置提供者接口
type Provider interface {
	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetTokens 获取代币访问配置（网关、重试、发现缓存、EXT 目录）
	GetTokens() *tokensconfig.Config
}
