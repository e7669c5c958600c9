package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput 调用方传入的参数不合法
	ErrInvalidInput = errors.New("invalid input")
	// ErrMalformedAddress 地址文本结构不合法
	ErrMalformedAddress = errors.New("malformed address")
	// ErrChecksumMismatch 地址内嵌校验和不匹配
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrUnsupportedOperation 已绑定的适配器均不支持该操作
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrAdapterProbeFailure 探测失败，仅在发现过程内部使用
	ErrAdapterProbeFailure = errors.New("adapter probe failure")
)

// ContractRejectedError 合约执行成功但返回了标准自有的错误变体
//
// Payload 保留合约原始错误（通常为解码后的 Candid 变体），不做归一化。
type ContractRejectedError struct {
	Standard string
	Method   string
	Payload  any
}

// Error 实现 error 接口
func (e *ContractRejectedError) Error() string {
	return fmt.Sprintf("contract rejected %s call %s: %v", e.Standard, e.Method, e.Payload)
}
