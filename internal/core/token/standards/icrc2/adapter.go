// Package icrc2 ICRC-2 授权转账适配器
//
// ICRC-2 是 ICRC-1 的扩展，账本通过 icrc1_supported_standards 声明，
// 因此本适配器不单独探测，只在 ICRC-1 与 ICRC-2 同时被选中时绑定。
package icrc2

import (
	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "icrc2"

// Capabilities ICRC-2 能力表
var Capabilities = types.CapabilityTable{
	types.StandardICRC2: {types.OpTransferFrom, types.OpApprove, types.OpAllowance},
}

// Candid 参数类型
var (
	ApproveArgsType = candid.RecordOf(
		candid.F("from_subaccount", common.Subaccount),
		candid.F("spender", common.AccountType),
		candid.F("amount", candid.Nat),
		candid.F("expected_allowance", candid.OptOf(candid.Nat)),
		candid.F("expires_at", candid.OptOf(candid.Nat64)),
		candid.F("fee", candid.OptOf(candid.Nat)),
		candid.F("memo", candid.OptOf(candid.Blob)),
		candid.F("created_at_time", candid.OptOf(candid.Nat64)),
	)

	TransferFromArgsType = candid.RecordOf(
		candid.F("spender_subaccount", common.Subaccount),
		candid.F("from", common.AccountType),
		candid.F("to", common.AccountType),
		candid.F("amount", candid.Nat),
		candid.F("fee", candid.OptOf(candid.Nat)),
		candid.F("memo", candid.OptOf(candid.Blob)),
		candid.F("created_at_time", candid.OptOf(candid.Nat64)),
	)

	AllowanceArgsType = candid.RecordOf(
		candid.F("account", common.AccountType),
		candid.F("spender", common.AccountType),
	)
)

// Adapter ICRC-2 适配器
type Adapter struct{}

// New 创建适配器
func New() *Adapter {
	return &Adapter{}
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 同时要求 ICRC-1 与 ICRC-2
func (a *Adapter) Standards() []string {
	return []string{types.StandardICRC1, types.StandardICRC2}
}

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	return &Instance{Base: common.NewBase(types.StandardICRC2, contract, transport, Capabilities, accepted)}, nil
}

// Encodings 支持的调用编码
func (a *Adapter) Encodings() []types.Encoding {
	return []types.Encoding{types.EncodingCandid, types.EncodingCBOR}
}

var (
	_ token.Adapter     = (*Adapter)(nil)
	_ token.CallDecoder = (*Adapter)(nil)
)
