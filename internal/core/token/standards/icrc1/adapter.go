// Package icrc1 ICRC-1 同质化代币适配器
package icrc1

import (
	"context"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "icrc1"

// DefaultMaxMemoSize 标准规定的最小 memo 上限
const DefaultMaxMemoSize = 32

// 元数据键
const (
	MetadataLogo        = "icrc1:logo"
	MetadataMaxMemoSize = "icrc1:max_memo_size"
)

// Capabilities ICRC-1 能力表
var Capabilities = types.CapabilityTable{
	types.StandardICRC1: {
		types.OpMetadata, types.OpName, types.OpSymbol, types.OpLogo,
		types.OpTotalSupply, types.OpMaxMemoSize, types.OpBalanceOf,
		types.OpDecimals, types.OpFee, types.OpMintingAccount, types.OpTransfer,
	},
}

// TransferArgType icrc1_transfer 参数
var TransferArgType = candid.RecordOf(
	candid.F("from_subaccount", common.Subaccount),
	candid.F("to", common.AccountType),
	candid.F("amount", candid.Nat),
	candid.F("fee", candid.OptOf(candid.Nat)),
	candid.F("memo", candid.OptOf(candid.Blob)),
	candid.F("created_at_time", candid.OptOf(candid.Nat64)),
)

// Adapter ICRC-1 适配器
type Adapter struct{}

// New 创建适配器
func New() *Adapter {
	return &Adapter{}
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string { return []string{types.StandardICRC1} }

// Probe 读取 icrc1_supported_standards
func (a *Adapter) Probe(ctx context.Context, contract types.Identity, transport token.Transport) ([]types.StandardDescriptor, error) {
	v, err := common.NewCaller(types.StandardICRC1, contract, transport).QueryValue(ctx, "icrc1_supported_standards")
	if err != nil {
		return nil, err
	}
	return common.SupportedStandardsFrom(v)
}

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	return &Instance{Base: common.NewBase(types.StandardICRC1, contract, transport, Capabilities, accepted)}, nil
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
