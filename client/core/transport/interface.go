// Package transport provides transport implementations for token contract calls.
package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/weisyn/tokens/pkg/interfaces/token"
)

// Client 合约调用传输客户端
// 在 token.Transport 之上增加连通性检查与资源释放
type Client interface {
	token.Transport

	// Ping 检查网关是否可用
	Ping(ctx context.Context) error

	// Close 释放连接与后台任务
	Close() error
}

var (
	// ErrUpdateRequiresSigner 匿名 HTTP 传输不能发起需要签名的更新调用
	ErrUpdateRequiresSigner = errors.New("update call requires a signing transport")
	// ErrNoEndpoints 未配置任何网关地址
	ErrNoEndpoints = errors.New("no endpoints configured")
)

// RejectError 副本拒绝了调用（方法不存在、合约 trap 等）
type RejectError struct {
	Code      uint64
	Message   string
	ErrorCode string
}

// Error 实现 error 接口
func (e *RejectError) Error() string {
	if e.ErrorCode != "" {
		return fmt.Sprintf("call rejected (code %d, %s): %s", e.Code, e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("call rejected (code %d): %s", e.Code, e.Message)
}

// HTTPStatusError 网关返回非 2xx 状态
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

// Error 实现 error 接口
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("gateway returned http %d: %s", e.StatusCode, e.Body)
}

// isPermanent 重试无意义的错误：合约拒绝、缺少签名、4xx
func isPermanent(err error) bool {
	var reject *RejectError
	if errors.As(err, &reject) {
		return true
	}
	if errors.Is(err, ErrUpdateRequiresSigner) {
		return true
	}
	var status *HTTPStatusError
	if errors.As(err, &status) {
		return status.StatusCode >= 400 && status.StatusCode < 500
	}
	return false
}
