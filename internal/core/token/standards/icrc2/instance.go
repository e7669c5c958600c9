package icrc2

import (
	"context"
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Instance 绑定到一个 ICRC-2 账本
type Instance struct {
	common.Base
}

// TransferFrom icrc2_transfer_from
func (i *Instance) TransferFrom(ctx context.Context, args types.TransferFromArgs) (*big.Int, error) {
	if args.Amount == nil {
		return nil, fmt.Errorf("%w: amount 不能为空", types.ErrInvalidInput)
	}
	from, err := common.AccountArg(args.From)
	if err != nil {
		return nil, err
	}
	to, err := common.AccountArg(args.To)
	if err != nil {
		return nil, err
	}
	arg := candid.Fields(
		"spender_subaccount", common.SubaccountOpt(args.SpenderSubaccount),
		"from", from,
		"to", to,
		"amount", args.Amount,
		"fee", common.OptNat(args.Fee),
		"memo", common.OptBlob(args.Memo),
		"created_at_time", common.OptUint64(args.CreatedAtTime),
	)
	v, err := i.UpdateResult(ctx, "icrc2_transfer_from", candid.A(TransferFromArgsType, arg))
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// Approve icrc2_approve
func (i *Instance) Approve(ctx context.Context, args types.ApproveArgs) (*big.Int, error) {
	if args.Amount == nil {
		return nil, fmt.Errorf("%w: amount 不能为空", types.ErrInvalidInput)
	}
	spender, err := common.AccountArg(args.Spender)
	if err != nil {
		return nil, err
	}
	arg := candid.Fields(
		"from_subaccount", common.SubaccountOpt(args.FromSubaccount),
		"spender", spender,
		"amount", args.Amount,
		"expected_allowance", common.OptNat(args.ExpectedAllowance),
		"expires_at", common.OptUint64(args.ExpiresAt),
		"fee", common.OptNat(args.Fee),
		"memo", common.OptBlob(args.Memo),
		"created_at_time", common.OptUint64(args.CreatedAtTime),
	)
	v, err := i.UpdateResult(ctx, "icrc2_approve", candid.A(ApproveArgsType, arg))
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// Allowance icrc2_allowance
func (i *Instance) Allowance(ctx context.Context, args types.AllowanceArgs) (types.Allowance, error) {
	account, err := common.AccountArg(args.Account)
	if err != nil {
		return types.Allowance{}, err
	}
	spender, err := common.AccountArg(args.Spender)
	if err != nil {
		return types.Allowance{}, err
	}
	v, err := i.QueryValue(ctx, "icrc2_allowance", candid.A(AllowanceArgsType, candid.Fields(
		"account", account,
		"spender", spender,
	)))
	if err != nil {
		return types.Allowance{}, err
	}

	f := common.ReadFields(v)
	out := types.Allowance{
		Allowance: f.Nat("allowance"),
		ExpiresAt: f.OptUint64("expires_at"),
	}
	return out, f.Err()
}

var (
	_ token.TransferFromer  = (*Instance)(nil)
	_ token.Approver        = (*Instance)(nil)
	_ token.AllowanceReader = (*Instance)(nil)
)
