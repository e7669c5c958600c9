// Package icrc7 ICRC-7 非同质化代币适配器
//
// ICRC-7 的读写接口均为批量形式，单项操作通过长度为 1 的批量调用实现。
package icrc7

import (
	"errors"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "icrc7"

// DefaultMaxMemoSize 标准规定的最小 memo 上限
const DefaultMaxMemoSize = 32

// ErrMalformedBatchReply 批量转账对单项返回了 null
var ErrMalformedBatchReply = errors.New("icrc7: ledger returned no result for a single transfer")

// Capabilities ICRC-7 能力表
var Capabilities = types.CapabilityTable{
	types.StandardICRC7: {
		types.OpMetadata, types.OpName, types.OpSymbol, types.OpLogo,
		types.OpTotalSupply, types.OpMaxMemoSize, types.OpBalanceOf, types.OpBatchBalanceOf,
		types.OpSupplyCap, types.OpTokenMetadata, types.OpOwnerOf, types.OpTokens, types.OpTokensOf,
		types.OpTransferToken, types.OpBatchTokenMetadata, types.OpBatchOwnerOf, types.OpBatchTransferToken,
	},
}

// Candid 类型
var (
	AccountsType = candid.VecOf(common.AccountType)
	TokenIDsType = candid.VecOf(candid.Nat)

	TransferArgType = candid.RecordOf(
		candid.F("from_subaccount", common.Subaccount),
		candid.F("to", common.AccountType),
		candid.F("token_id", candid.Nat),
		candid.F("memo", candid.OptOf(candid.Blob)),
		candid.F("created_at_time", candid.OptOf(candid.Nat64)),
	)
)

// Adapter ICRC-7 适配器
type Adapter struct{}

// New 创建适配器
func New() *Adapter {
	return &Adapter{}
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string { return []string{types.StandardICRC7} }

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	return &Instance{Base: common.NewBase(types.StandardICRC7, contract, transport, Capabilities, accepted)}, nil
}

// Encodings 支持的调用编码
func (a *Adapter) Encodings() []types.Encoding {
	return []types.Encoding{types.EncodingCandid}
}

var (
	_ token.Adapter     = (*Adapter)(nil)
	_ token.CallDecoder = (*Adapter)(nil)
)
