// Package dip721v2 DIP-721 v2 非同质化代币适配器
package dip721v2

import (
	"context"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "dip721v2"

// URL 标准文档地址
const URL = "https://github.com/Psychedelic/DIP721"

// 名称与符号缺省值
const (
	DefaultName   = "Unknown"
	DefaultSymbol = "NFT"
)

// Capabilities DIP-721 v2 能力表
var Capabilities = types.CapabilityTable{
	types.StandardDIP721V2: {
		types.OpMetadata, types.OpName, types.OpSymbol, types.OpLogo, types.OpTotalSupply,
		types.OpBalanceOf, types.OpTokenMetadata, types.OpOwnerOf, types.OpTokens, types.OpTokensOf,
		types.OpTransferToken,
	},
}

// SupportedInterfaceType variant { Burn; Mint; Approval; TransactionHistory }
var SupportedInterfaceType = candid.VariantOf(
	candid.F("Burn", candid.Null),
	candid.F("Mint", candid.Null),
	candid.F("Approval", candid.Null),
	candid.F("TransactionHistory", candid.Null),
)

// SupportedInterfaces 调用 dip721_supported_interfaces，返回接口标签集合
//
// 应答必须是 variant 列表；任何其他形状都视为不是 DIP-721 v2 合约。
func SupportedInterfaces(ctx context.Context, caller common.Caller) (map[string]bool, error) {
	v, err := caller.QueryValue(ctx, "dip721_supported_interfaces")
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(items))
	for _, item := range items {
		vr, err := candid.AsVariant(item)
		if err != nil {
			return nil, err
		}
		for _, f := range SupportedInterfaceType.Fields {
			if vr.ID == f.ID {
				out[f.Name] = true
			}
		}
	}
	return out, nil
}

// Adapter DIP-721 v2 适配器
type Adapter struct{}

// New 创建适配器
func New() *Adapter {
	return &Adapter{}
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string { return []string{types.StandardDIP721V2} }

// Probe dip721_supported_interfaces 能正常应答即视为支持
func (a *Adapter) Probe(ctx context.Context, contract types.Identity, transport token.Transport) ([]types.StandardDescriptor, error) {
	if _, err := SupportedInterfaces(ctx, common.NewCaller(types.StandardDIP721V2, contract, transport)); err != nil {
		return nil, err
	}
	return []types.StandardDescriptor{common.Descriptor(types.StandardDIP721V2, URL)}, nil
}

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	return &Instance{Base: common.NewBase(types.StandardDIP721V2, contract, transport, Capabilities, accepted)}, nil
}

// Encodings 支持的调用编码
func (a *Adapter) Encodings() []types.Encoding {
	return []types.Encoding{types.EncodingCandid}
}

var (
	_ token.Adapter     = (*Adapter)(nil)
	_ token.Prober      = (*Adapter)(nil)
	_ token.CallDecoder = (*Adapter)(nil)
)
