package types

import "fmt"

// Encoding 原始调用参数的二进制编码
type Encoding string

const (
	// EncodingCandid 平台原生的类型化编码
	EncodingCandid Encoding = "candid"
	// EncodingCBOR 紧凑二进制编码
	EncodingCBOR Encoding = "cbor"
)

// ParseEncoding 解析编码名称
func ParseEncoding(name string) (Encoding, error) {
	switch Encoding(name) {
	case EncodingCandid, EncodingCBOR:
		return Encoding(name), nil
	default:
		return "", fmt.Errorf("%w: 未知编码 %q", ErrInvalidInput, name)
	}
}

// CallDescription 解码后的规范调用描述
//
// Args 中的账户参数一律为账户文本形式字符串，
// 结构化参数使用本包定义的参数结构（TransferArgs 等）。
type CallDescription struct {
	Operation Operation `json:"type"`
	Args      []any     `json:"args"`
}

// NewCall 构造调用描述
func NewCall(op Operation, args ...any) *CallDescription {
	if args == nil {
		args = []any{}
	}
	return &CallDescription{Operation: op, Args: args}
}
