// Package dip721v2approval DIP-721 v2 授权扩展适配器
package dip721v2approval

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/internal/core/token/standards/dip721v2"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Name 适配器名称
const Name = "dip721v2approval"

// approvalInterface dip721_supported_interfaces 中的授权接口标签
const approvalInterface = "Approval"

// Capabilities DIP-721 v2 授权能力表
var Capabilities = types.CapabilityTable{
	types.StandardDIP721V2Approval: {
		types.OpTransferTokenFrom, types.OpApproveCollection, types.OpRevokeCollectionApproval,
	},
}

// ErrApprovalUnsupported 合约未声明 Approval 接口
var ErrApprovalUnsupported = errors.New("dip721: contract does not declare the Approval interface")

// Adapter DIP-721 v2 授权适配器
type Adapter struct{}

// New 创建适配器
func New() *Adapter {
	return &Adapter{}
}

// Name 适配器名称
func (a *Adapter) Name() string { return Name }

// Standards 实现的标准
func (a *Adapter) Standards() []string { return []string{types.StandardDIP721V2Approval} }

// Probe 要求 dip721_supported_interfaces 中含 Approval
func (a *Adapter) Probe(ctx context.Context, contract types.Identity, transport token.Transport) ([]types.StandardDescriptor, error) {
	interfaces, err := dip721v2.SupportedInterfaces(ctx, common.NewCaller(types.StandardDIP721V2Approval, contract, transport))
	if err != nil {
		return nil, err
	}
	if !interfaces[approvalInterface] {
		return nil, ErrApprovalUnsupported
	}
	return []types.StandardDescriptor{common.Descriptor(types.StandardDIP721V2Approval, dip721v2.URL)}, nil
}

// Bind 绑定合约
func (a *Adapter) Bind(contract types.Identity, transport token.Transport, accepted types.StandardSet) (token.Instance, error) {
	return &Instance{Base: common.NewBase(types.StandardDIP721V2Approval, contract, transport, Capabilities, accepted)}, nil
}

// Encodings 支持的调用编码
func (a *Adapter) Encodings() []types.Encoding {
	return []types.Encoding{types.EncodingCandid, types.EncodingCBOR}
}

// Instance 绑定到一个支持授权的 DIP-721 v2 集合
type Instance struct {
	common.Base
}

// TransferTokenFrom dip721_transfer_from(from, to, token_id)
func (i *Instance) TransferTokenFrom(ctx context.Context, args types.TransferTokenFromArgs) (*big.Int, error) {
	if args.TokenID == nil {
		return nil, fmt.Errorf("%w: tokenID 不能为空", types.ErrInvalidInput)
	}
	from, err := dip721v2.PrincipalOf(args.From)
	if err != nil {
		return nil, err
	}
	to, err := dip721v2.PrincipalOf(args.To)
	if err != nil {
		return nil, err
	}
	v, err := i.UpdateResult(ctx, "dip721_transfer_from",
		candid.A(candid.Principal, from),
		candid.A(candid.Principal, to),
		candid.A(candid.Nat, args.TokenID),
	)
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// ApproveCollection dip721_set_approval_for_all(spender, true)
func (i *Instance) ApproveCollection(ctx context.Context, args types.CollectionApproval) (*big.Int, error) {
	return i.setApprovalForAll(ctx, args.Spender, true)
}

// RevokeCollectionApproval dip721_set_approval_for_all(spender, false)
func (i *Instance) RevokeCollectionApproval(ctx context.Context, args types.CollectionApproval) (*big.Int, error) {
	return i.setApprovalForAll(ctx, args.Spender, false)
}

func (i *Instance) setApprovalForAll(ctx context.Context, spender string, approved bool) (*big.Int, error) {
	operator, err := dip721v2.PrincipalOf(spender)
	if err != nil {
		return nil, err
	}
	v, err := i.UpdateResult(ctx, "dip721_set_approval_for_all",
		candid.A(candid.Principal, operator),
		candid.A(candid.Bool, approved),
	)
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

var (
	_ token.Adapter                   = (*Adapter)(nil)
	_ token.Prober                    = (*Adapter)(nil)
	_ token.CallDecoder               = (*Adapter)(nil)
	_ token.TokenTransferFromer       = (*Instance)(nil)
	_ token.CollectionApprover        = (*Instance)(nil)
	_ token.CollectionApprovalRevoker = (*Instance)(nil)
)
