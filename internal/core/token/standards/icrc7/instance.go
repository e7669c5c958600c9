package icrc7

import (
	"context"
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Instance 绑定到一个 ICRC-7 集合
type Instance struct {
	common.Base
}

// Metadata icrc7_collection_metadata
func (i *Instance) Metadata(ctx context.Context) (types.Metadata, error) {
	v, err := i.QueryValue(ctx, "icrc7_collection_metadata")
	if err != nil {
		return nil, err
	}
	return common.MetadataFrom(v)
}

// Name icrc7_name
func (i *Instance) Name(ctx context.Context) (string, error) {
	v, err := i.QueryValue(ctx, "icrc7_name")
	if err != nil {
		return "", err
	}
	return candid.AsText(v)
}

// Symbol icrc7_symbol
func (i *Instance) Symbol(ctx context.Context) (string, error) {
	v, err := i.QueryValue(ctx, "icrc7_symbol")
	if err != nil {
		return "", err
	}
	return candid.AsText(v)
}

// Logo icrc7_logo
func (i *Instance) Logo(ctx context.Context) (string, bool, error) {
	o, err := i.queryOpt(ctx, "icrc7_logo")
	if err != nil || !o.Some {
		return "", false, err
	}
	logo, err := candid.AsText(o.Value)
	if err != nil {
		return "", false, err
	}
	return logo, true, nil
}

// TotalSupply icrc7_total_supply
func (i *Instance) TotalSupply(ctx context.Context) (*big.Int, error) {
	v, err := i.QueryValue(ctx, "icrc7_total_supply")
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// MaxMemoSize icrc7_max_memo_size，未设置时为 32
func (i *Instance) MaxMemoSize(ctx context.Context) (int, error) {
	o, err := i.queryOpt(ctx, "icrc7_max_memo_size")
	if err != nil {
		return 0, err
	}
	if !o.Some {
		return DefaultMaxMemoSize, nil
	}
	n, err := candid.AsUint64(o.Value)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// SupplyCap icrc7_supply_cap
func (i *Instance) SupplyCap(ctx context.Context) (*big.Int, bool, error) {
	o, err := i.queryOpt(ctx, "icrc7_supply_cap")
	if err != nil || !o.Some {
		return nil, false, err
	}
	n, err := candid.AsNat(o.Value)
	if err != nil {
		return nil, false, err
	}
	return n, true, nil
}

// BalanceOf 单个账户的持有数量
func (i *Instance) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	balances, err := i.BatchBalanceOf(ctx, []string{account})
	if err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return nil, fmt.Errorf("icrc7_balance_of 返回了空列表")
	}
	return balances[0], nil
}

// BatchBalanceOf icrc7_balance_of
func (i *Instance) BatchBalanceOf(ctx context.Context, accounts []string) ([]*big.Int, error) {
	arg := make([]any, 0, len(accounts))
	for _, account := range accounts {
		rec, err := common.AccountArg(account)
		if err != nil {
			return nil, err
		}
		arg = append(arg, rec)
	}
	v, err := i.QueryValue(ctx, "icrc7_balance_of", candid.A(AccountsType, arg))
	if err != nil {
		return nil, err
	}
	return natList(v)
}

// TokenMetadata 单个条目的元数据
func (i *Instance) TokenMetadata(ctx context.Context, tokenID *big.Int) (types.Metadata, bool, error) {
	list, err := i.BatchTokenMetadata(ctx, []*big.Int{tokenID})
	if err != nil || len(list) == 0 || list[0] == nil {
		return nil, false, err
	}
	return list[0], true, nil
}

// BatchTokenMetadata icrc7_token_metadata
func (i *Instance) BatchTokenMetadata(ctx context.Context, tokenIDs []*big.Int) ([]types.Metadata, error) {
	v, err := i.QueryValue(ctx, "icrc7_token_metadata", candid.A(TokenIDsType, tokenIDs))
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make([]types.Metadata, len(items))
	for n, item := range items {
		o, err := candid.AsOpt(item)
		if err != nil {
			return nil, err
		}
		if !o.Some {
			continue
		}
		if out[n], err = common.MetadataFrom(o.Value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// OwnerOf 单个条目的持有者
func (i *Instance) OwnerOf(ctx context.Context, tokenID *big.Int) (string, bool, error) {
	owners, err := i.BatchOwnerOf(ctx, []*big.Int{tokenID})
	if err != nil || len(owners) == 0 || owners[0] == "" {
		return "", false, err
	}
	return owners[0], true, nil
}

// BatchOwnerOf icrc7_owner_of
func (i *Instance) BatchOwnerOf(ctx context.Context, tokenIDs []*big.Int) ([]string, error) {
	v, err := i.QueryValue(ctx, "icrc7_owner_of", candid.A(TokenIDsType, tokenIDs))
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(items))
	for n, item := range items {
		o, err := candid.AsOpt(item)
		if err != nil {
			return nil, err
		}
		if !o.Some {
			continue
		}
		if out[n], err = common.AccountText(o.Value); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Tokens icrc7_tokens
func (i *Instance) Tokens(ctx context.Context, prev, take *big.Int) ([]*big.Int, error) {
	v, err := i.QueryValue(ctx, "icrc7_tokens",
		candid.A(candid.OptOf(candid.Nat), common.OptNat(prev)),
		candid.A(candid.OptOf(candid.Nat), common.OptNat(take)),
	)
	if err != nil {
		return nil, err
	}
	return natList(v)
}

// TokensOf icrc7_tokens_of
func (i *Instance) TokensOf(ctx context.Context, account string, prev, take *big.Int) ([]*big.Int, error) {
	rec, err := common.AccountArg(account)
	if err != nil {
		return nil, err
	}
	v, err := i.QueryValue(ctx, "icrc7_tokens_of",
		candid.A(common.AccountType, rec),
		candid.A(candid.OptOf(candid.Nat), common.OptNat(prev)),
		candid.A(candid.OptOf(candid.Nat), common.OptNat(take)),
	)
	if err != nil {
		return nil, err
	}
	return natList(v)
}

// TransferToken 长度为 1 的 icrc7_transfer
func (i *Instance) TransferToken(ctx context.Context, args types.TransferTokenArgs) (*big.Int, error) {
	results, err := i.BatchTransferToken(ctx, []types.TransferTokenArgs{args})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || (results[0].TxID == nil && results[0].Err == nil) {
		return nil, ErrMalformedBatchReply
	}
	return results[0].TxID, results[0].Err
}

// BatchTransferToken icrc7_transfer
func (i *Instance) BatchTransferToken(ctx context.Context, batch []types.TransferTokenArgs) ([]types.BatchResult, error) {
	arg := make([]any, 0, len(batch))
	for n, args := range batch {
		if args.TokenID == nil {
			return nil, fmt.Errorf("%w: transfer[%d] 缺少 token_id", types.ErrInvalidInput, n)
		}
		to, err := common.AccountArg(args.To)
		if err != nil {
			return nil, fmt.Errorf("transfer[%d]: %w", n, err)
		}
		arg = append(arg, candid.Fields(
			"from_subaccount", common.SubaccountOpt(args.FromSubaccount),
			"to", to,
			"token_id", args.TokenID,
			"memo", common.OptBlob(args.Memo),
			"created_at_time", common.OptUint64(args.CreatedAtTime),
		))
	}

	v, err := i.UpdateValue(ctx, "icrc7_transfer", candid.A(candid.VecOf(TransferArgType), arg))
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}

	out := make([]types.BatchResult, len(batch))
	for n := 0; n < len(out) && n < len(items); n++ {
		o, err := candid.AsOpt(items[n])
		if err != nil {
			return nil, fmt.Errorf("result[%d]: %w", n, err)
		}
		if !o.Some {
			continue
		}
		res, err := i.Unwrap("icrc7_transfer", o.Value)
		if err != nil {
			out[n].Err = err
			continue
		}
		if out[n].TxID, err = candid.AsNat(res); err != nil {
			return nil, fmt.Errorf("result[%d]: %w", n, err)
		}
	}
	return out, nil
}

func (i *Instance) queryOpt(ctx context.Context, method string) (candid.Opt, error) {
	v, err := i.QueryValue(ctx, method)
	if err != nil {
		return candid.None, err
	}
	return candid.AsOpt(v)
}

func natList(v any) ([]*big.Int, error) {
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make([]*big.Int, 0, len(items))
	for _, item := range items {
		n, err := candid.AsNat(item)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

var (
	_ token.MetadataReader           = (*Instance)(nil)
	_ token.NameReader               = (*Instance)(nil)
	_ token.SymbolReader             = (*Instance)(nil)
	_ token.LogoReader               = (*Instance)(nil)
	_ token.TotalSupplyReader        = (*Instance)(nil)
	_ token.MaxMemoSizeReader        = (*Instance)(nil)
	_ token.BalanceReader            = (*Instance)(nil)
	_ token.BatchBalanceReader       = (*Instance)(nil)
	_ token.SupplyCapReader          = (*Instance)(nil)
	_ token.TokenMetadataReader      = (*Instance)(nil)
	_ token.OwnerReader              = (*Instance)(nil)
	_ token.TokensLister             = (*Instance)(nil)
	_ token.TokensOfLister           = (*Instance)(nil)
	_ token.TokenTransferer          = (*Instance)(nil)
	_ token.BatchTokenMetadataReader = (*Instance)(nil)
	_ token.BatchOwnerReader         = (*Instance)(nil)
	_ token.BatchTokenTransferer     = (*Instance)(nil)
)
