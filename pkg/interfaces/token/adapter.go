// Package token 定义代币标准适配器契约
//
// 🎯 **适配器生命周期**
// - Adapter：无状态描述，声明实现的标准，可选提供探测与调用解码
// - Instance：Bind 后得到的实例，绑定一个合约与已接受的标准集合，
//   其能力集合（Capabilities）在绑定时一次性确定，之后不再变化
//
// 门面按固定顺序持有实例，对每个规范操作选取第一个声明该能力、
// 且实现了对应操作接口的实例。
package token

import (
	"context"

	"github.com/weisyn/tokens/pkg/types"
)

// Transport 合约调用传输
//
// Query 为只读调用，Update 为状态变更调用；返回合约回复的原始参数字节。
// 签名、重试与超时由传输实现负责。
type Transport interface {
	Query(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error)
	Update(ctx context.Context, canister types.Identity, method string, arg []byte) ([]byte, error)
}

// Adapter 一个代币标准的适配器
type Adapter interface {
	// Name 适配器名称，用于日志与指标
	Name() string

	// Standards 实现的标准；只有全部出现在已选标准集合中时才会被选中
	Standards() []string

	// Bind 绑定合约，accepted 为已选标准集合
	Bind(contract types.Identity, transport Transport, accepted types.StandardSet) (Instance, error)
}

// Prober 可自我描述（或启发式探测）支持标准的适配器
//
// 返回错误等价于"不支持"。
type Prober interface {
	Probe(ctx context.Context, contract types.Identity, transport Transport) ([]types.StandardDescriptor, error)
}

// CallDecoder 能把原始方法调用解码为规范调用描述的适配器
//
// 不认识的方法返回 (nil, nil)；参数无法解析时返回错误，门面把两者都视为不匹配。
type CallDecoder interface {
	Encodings() []types.Encoding
	DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error)
}

// Instance 绑定后的适配器实例
type Instance interface {
	// Capabilities 绑定时确定的能力集合
	Capabilities() types.OperationSet
}

// SenderProvider 能给出调用方身份的传输（签名传输通常实现它）
//
// 部分标准的转账参数需要显式填写 from，如 EXT。
type SenderProvider interface {
	Sender() types.Identity
}

// MetadataInterpreter 把条目元数据转换为展示字段
type MetadataInterpreter interface {
	TokenMetadataToName(metadata types.Metadata) (string, bool)
	TokenMetadataToDescription(metadata types.Metadata) (string, bool)
	TokenMetadataToImage(metadata types.Metadata) (string, bool)
	TokenMetadataToURL(metadata types.Metadata) (string, bool)
	TokenMetadataToAttributes(metadata types.Metadata) ([]types.Attribute, bool)
}
