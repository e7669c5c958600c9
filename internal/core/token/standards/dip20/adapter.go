// Package dip20 DIP-20 同质化代币适配器
//
// DIP-20 合约没有标准自描述方法，支持与否由 probeHeuristic 按合约行为推断。
// DIP-20 只按身份记账，带非默认子账户的账户会被拒绝。
package dip20

import (
	"context"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "dip20"

// Descriptor 探测成功时报告的标准描述
var Descriptor = common.Descriptor(types.StandardDIP20, "https://github.com/Psychedelic/DIP20")

// Capabilities DIP-20 能力表
var Capabilities = types.CapabilityTable{
	types.StandardDIP20: {
		types.OpMetadata, types.OpName, types.OpSymbol, types.OpLogo, types.OpTotalSupply,
		types.OpBalanceOf, types.OpDecimals, types.OpFee, types.OpMintingAccount, types.OpTransfer,
	},
}

// MetadataType getMetadata 返回的 record
var MetadataType = candid.RecordOf(
	candid.F("fee", candid.Nat),
	candid.F("decimals", candid.Nat8),
	candid.F("owner", candid.Principal),
	candid.F("logo", candid.Text),
	candid.F("name", candid.Text),
	candid.F("totalSupply", candid.Nat),
	candid.F("symbol", candid.Text),
)

// Adapter DIP-20 适配器
type Adapter struct{}

// New 创建适配器
func New() *Adapter {
	return &Adapter{}
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string { return []string{types.StandardDIP20} }

// Probe 启发式探测，见 probeHeuristic
func (a *Adapter) Probe(ctx context.Context, contract types.Identity, transport token.Transport) ([]types.StandardDescriptor, error) {
	if err := probeHeuristic(ctx, common.NewCaller(types.StandardDIP20, contract, transport)); err != nil {
		return nil, err
	}
	return []types.StandardDescriptor{Descriptor}, nil
}

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	return &Instance{Base: common.NewBase(types.StandardDIP20, contract, transport, Capabilities, accepted)}, nil
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
