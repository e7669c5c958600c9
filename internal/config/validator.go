package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/weisyn/tokens/internal/config/log"
	"github.com/weisyn/tokens/internal/config/tokens"
)

// ValidationError 配置验证错误
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置验证失败 [%s]: %s", e.Field, e.Message)
}

// ValidateMandatoryConfig 验证合并默认值之后的配置
//
// 检查项：
//   - tokens.endpoints 至少一个，且均为 http/https 地址
//   - retry_attempts >= 1，probe_retries >= 0
//   - 启用缓存时 ttl、max_entry_size、shards 均为正数
//   - log.level 为已知级别
func ValidateMandatoryConfig(logOptions *log.LogOptions, tokensOptions *tokens.TokensOptions) error {
	var errors []error

	if tokensOptions == nil {
		return &ValidationErrors{Errors: []error{&ValidationError{Field: "tokens", Message: "代币访问配置不能为空"}}}
	}

	if len(tokensOptions.Endpoints) == 0 {
		errors = append(errors, &ValidationError{
			Field:   "tokens.endpoints",
			Message: "至少需要一个网关地址",
		})
	}
	for i, endpoint := range tokensOptions.Endpoints {
		u, err := url.Parse(strings.TrimSpace(endpoint))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errors = append(errors, &ValidationError{
				Field:   fmt.Sprintf("tokens.endpoints[%d]", i),
				Message: fmt.Sprintf("网关地址无效: %q（期望 http:// 或 https:// 开头）", endpoint),
			})
		}
	}

	if tokensOptions.RetryAttempts < 1 {
		errors = append(errors, &ValidationError{
			Field:   "tokens.retry_attempts",
			Message: "retry_attempts 必须 >= 1",
		})
	}
	if tokensOptions.ProbeRetries < 0 {
		errors = append(errors, &ValidationError{
			Field:   "tokens.probe_retries",
			Message: "probe_retries 不能为负数",
		})
	}

	if tokensOptions.Cache.Enabled {
		if tokensOptions.Cache.TTL <= 0 {
			errors = append(errors, &ValidationError{Field: "tokens.cache.ttl", Message: "启用缓存时 ttl 必须 > 0"})
		}
		if tokensOptions.Cache.MaxEntrySize <= 0 {
			errors = append(errors, &ValidationError{Field: "tokens.cache.max_entry_size", Message: "max_entry_size 必须 > 0"})
		}
		if tokensOptions.Cache.Shards <= 0 {
			errors = append(errors, &ValidationError{Field: "tokens.cache.shards", Message: "shards 必须 > 0"})
		}
	}

	if logOptions != nil {
		if _, ok := logOptions.LevelMap[strings.ToLower(logOptions.Level)]; !ok {
			errors = append(errors, &ValidationError{
				Field:   "log.level",
				Message: fmt.Sprintf("未知日志级别: %q", logOptions.Level),
			})
		}
	}

	if len(errors) > 0 {
		return &ValidationErrors{Errors: errors}
	}
	return nil
}

// ValidationErrors 多个验证错误
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	msg := "配置验证失败，发现以下问题：\n"
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}
