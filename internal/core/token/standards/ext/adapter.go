// Package ext EXT（Toniq Labs 可扩展代币）非同质化集合适配器
//
// 合约按旧式账户哈希记账，条目以 "\x0Atid" 前缀的标识寻址；
// 名称、符号、图标与属性不在合约上，来自索引页与链下目录。
package ext

import (
	"context"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "ext"

// URL 标准文档地址
const URL = "https://github.com/Toniq-Labs/extendable-token"

// 名称与符号缺省值
const (
	DefaultName   = "Unknown"
	DefaultSymbol = "EXT"
)

// 元数据键
const (
	MetadataName        = "@ext/common:name"
	MetadataSymbol      = "@ext/common:symbol"
	MetadataTotalSupply = "@ext/common:total_supply"
	MetadataImage       = "@ext/nonfungible:image"
	MetadataURL         = "@ext/nonfungible:url"
	MetadataAttributes  = "@ext/nonfungible:attributes"
)

// Capabilities EXT 能力表
var Capabilities = types.CapabilityTable{
	types.StandardEXTCommon: {
		types.OpMetadata, types.OpName, types.OpSymbol, types.OpLogo, types.OpTotalSupply, types.OpBalanceOf,
	},
	types.StandardEXTNonFungible: {
		types.OpTokenMetadata, types.OpOwnerOf, types.OpTokens, types.OpTokensOf, types.OpTransferToken,
	},
}

// UserType variant { principal : principal; address : text }
var UserType = candid.VariantOf(
	candid.F("principal", candid.Principal),
	candid.F("address", candid.Text),
)

// TransferRequestType transfer 的参数
var TransferRequestType = candid.RecordOf(
	candid.F("to", UserType),
	candid.F("token", candid.Text),
	candid.F("notify", candid.Bool),
	candid.F("from", UserType),
	candid.F("memo", candid.Blob),
	candid.F("subaccount", candid.OptOf(candid.Blob)),
	candid.F("amount", candid.Nat),
)

// Extensions 调用 extensions，返回合约声明的扩展名
func Extensions(ctx context.Context, caller common.Caller) ([]string, error) {
	v, err := caller.QueryValue(ctx, "extensions")
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		name, err := candid.AsText(item)
		if err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, nil
}

// Option 适配器选项
type Option func(*Adapter)

// WithDirectory 设置链下集合目录
func WithDirectory(directory Directory) Option {
	return func(a *Adapter) {
		a.directory = directory
	}
}

// Adapter EXT 适配器
type Adapter struct {
	directory Directory
}

// New 创建适配器；未设置目录时名称与符号取缺省值
func New(opts ...Option) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string {
	return []string{types.StandardEXTCommon, types.StandardEXTNonFungible}
}

// Probe extensions 同时包含 @ext/common 与 @ext/nonfungible 才视为支持
func (a *Adapter) Probe(ctx context.Context, contract types.Identity, transport token.Transport) ([]types.StandardDescriptor, error) {
	names, err := Extensions(ctx, common.NewCaller(types.StandardEXTNonFungible, contract, transport))
	if err != nil {
		return nil, err
	}
	if !types.NewStandardSet(names...).ContainsAll(a.Standards()) {
		return nil, nil
	}
	return []types.StandardDescriptor{
		common.Descriptor(types.StandardEXTCommon, URL),
		common.Descriptor(types.StandardEXTNonFungible, URL),
	}, nil
}

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	base := common.NewBase(types.StandardEXTNonFungible, contract, transport, Capabilities, accepted)
	return &Instance{CollectionReader: NewCollectionReader(base, a.directory)}, nil
}

// Encodings 支持的调用编码
func (a *Adapter) Encodings() []types.Encoding {
	return []types.Encoding{types.EncodingCandid}
}

var (
	_ token.Adapter             = (*Adapter)(nil)
	_ token.Prober              = (*Adapter)(nil)
	_ token.CallDecoder         = (*Adapter)(nil)
	_ token.MetadataInterpreter = (*Adapter)(nil)
)
