package icrc1

import (
	"context"
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Instance 绑定到一个 ICRC-1 账本
type Instance struct {
	common.Base
}

// Metadata icrc1_metadata
func (i *Instance) Metadata(ctx context.Context) (types.Metadata, error) {
	v, err := i.QueryValue(ctx, "icrc1_metadata")
	if err != nil {
		return nil, err
	}
	return common.MetadataFrom(v)
}

// Name icrc1_name
func (i *Instance) Name(ctx context.Context) (string, error) {
	return i.queryText(ctx, "icrc1_name")
}

// Symbol icrc1_symbol
func (i *Instance) Symbol(ctx context.Context) (string, error) {
	return i.queryText(ctx, "icrc1_symbol")
}

// Logo 元数据中的 icrc1:logo
func (i *Instance) Logo(ctx context.Context) (string, bool, error) {
	metadata, err := i.Metadata(ctx)
	if err != nil {
		return "", false, err
	}
	logo, ok := metadata.Text(MetadataLogo)
	return logo, ok, nil
}

// TotalSupply icrc1_total_supply
func (i *Instance) TotalSupply(ctx context.Context) (*big.Int, error) {
	return i.queryNat(ctx, "icrc1_total_supply")
}

// MaxMemoSize 元数据中的 icrc1:max_memo_size，缺省 32
func (i *Instance) MaxMemoSize(ctx context.Context) (int, error) {
	metadata, err := i.Metadata(ctx)
	if err != nil {
		return 0, err
	}
	if n, ok := metadata.Nat(MetadataMaxMemoSize); ok && n.IsInt64() {
		return int(n.Int64()), nil
	}
	return DefaultMaxMemoSize, nil
}

// BalanceOf icrc1_balance_of
func (i *Instance) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	rec, err := common.AccountArg(account)
	if err != nil {
		return nil, err
	}
	return i.queryNat(ctx, "icrc1_balance_of", candid.A(common.AccountType, rec))
}

// Decimals icrc1_decimals
func (i *Instance) Decimals(ctx context.Context) (int, error) {
	v, err := i.QueryValue(ctx, "icrc1_decimals")
	if err != nil {
		return 0, err
	}
	n, err := candid.AsUint64(v)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Fee icrc1_fee
func (i *Instance) Fee(ctx context.Context) (*big.Int, error) {
	return i.queryNat(ctx, "icrc1_fee")
}

// MintingAccount icrc1_minting_account
func (i *Instance) MintingAccount(ctx context.Context) (string, bool, error) {
	v, err := i.QueryValue(ctx, "icrc1_minting_account")
	if err != nil {
		return "", false, err
	}
	o, err := candid.AsOpt(v)
	if err != nil || !o.Some {
		return "", false, err
	}
	account, err := common.AccountText(o.Value)
	if err != nil {
		return "", false, err
	}
	return account, true, nil
}

// Transfer icrc1_transfer，返回交易序号
func (i *Instance) Transfer(ctx context.Context, args types.TransferArgs) (*big.Int, error) {
	arg, err := TransferArg(args)
	if err != nil {
		return nil, err
	}
	v, err := i.UpdateResult(ctx, "icrc1_transfer", candid.A(TransferArgType, arg))
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// TransferArg 构造 TransferArg record，ICRC-4 批量转账复用
func TransferArg(args types.TransferArgs) (candid.Record, error) {
	if args.Amount == nil {
		return nil, fmt.Errorf("%w: amount 不能为空", types.ErrInvalidInput)
	}
	to, err := common.AccountArg(args.To)
	if err != nil {
		return nil, err
	}
	return candid.Fields(
		"from_subaccount", common.SubaccountOpt(args.FromSubaccount),
		"to", to,
		"amount", args.Amount,
		"fee", common.OptNat(args.Fee),
		"memo", common.OptBlob(args.Memo),
		"created_at_time", common.OptUint64(args.CreatedAtTime),
	), nil
}

func (i *Instance) queryText(ctx context.Context, method string, args ...candid.Arg) (string, error) {
	v, err := i.QueryValue(ctx, method, args...)
	if err != nil {
		return "", err
	}
	return candid.AsText(v)
}

func (i *Instance) queryNat(ctx context.Context, method string, args ...candid.Arg) (*big.Int, error) {
	v, err := i.QueryValue(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

var (
	_ token.MetadataReader       = (*Instance)(nil)
	_ token.NameReader           = (*Instance)(nil)
	_ token.SymbolReader         = (*Instance)(nil)
	_ token.LogoReader           = (*Instance)(nil)
	_ token.TotalSupplyReader    = (*Instance)(nil)
	_ token.MaxMemoSizeReader    = (*Instance)(nil)
	_ token.BalanceReader        = (*Instance)(nil)
	_ token.DecimalsReader       = (*Instance)(nil)
	_ token.FeeReader            = (*Instance)(nil)
	_ token.MintingAccountReader = (*Instance)(nil)
	_ token.Transferer           = (*Instance)(nil)
)
