package dip721v2

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Instance 绑定到一个 DIP-721 v2 集合
type Instance struct {
	common.Base
}

// Metadata dip721_metadata
func (i *Instance) Metadata(ctx context.Context) (types.Metadata, error) {
	v, err := i.QueryValue(ctx, "dip721_metadata")
	if err != nil {
		return nil, err
	}
	return collectionMetadata(v)
}

// Name dip721_name，未设置时为 "Unknown"
func (i *Instance) Name(ctx context.Context) (string, error) {
	return i.optTextOr(ctx, "dip721_name", DefaultName)
}

// Symbol dip721_symbol，未设置时为 "NFT"
func (i *Instance) Symbol(ctx context.Context) (string, error) {
	return i.optTextOr(ctx, "dip721_symbol", DefaultSymbol)
}

// Logo dip721_logo
func (i *Instance) Logo(ctx context.Context) (string, bool, error) {
	v, err := i.QueryValue(ctx, "dip721_logo")
	if err != nil {
		return "", false, err
	}
	return optText(v)
}

// TotalSupply dip721_total_supply，包括已销毁的条目
func (i *Instance) TotalSupply(ctx context.Context) (*big.Int, error) {
	v, err := i.QueryValue(ctx, "dip721_total_supply")
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// BalanceOf dip721_balance_of，合约返回错误时视为 0
func (i *Instance) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	owner, err := PrincipalOf(account)
	if err != nil {
		return nil, err
	}
	v, err := i.QueryResult(ctx, "dip721_balance_of", candid.A(candid.Principal, owner))
	if isRejected(err) {
		return big.NewInt(0), nil
	}
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// TokenMetadata dip721_token_metadata
func (i *Instance) TokenMetadata(ctx context.Context, tokenID *big.Int) (types.Metadata, bool, error) {
	if tokenID == nil {
		return nil, false, fmt.Errorf("%w: tokenID 不能为空", types.ErrInvalidInput)
	}
	v, err := i.QueryResult(ctx, "dip721_token_metadata", candid.A(candid.Nat, tokenID))
	if isRejected(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	metadata, err := tokenMetadata(v)
	if err != nil {
		return nil, false, err
	}
	return metadata, true, nil
}

// OwnerOf dip721_owner_of
func (i *Instance) OwnerOf(ctx context.Context, tokenID *big.Int) (string, bool, error) {
	if tokenID == nil {
		return "", false, fmt.Errorf("%w: tokenID 不能为空", types.ErrInvalidInput)
	}
	v, err := i.QueryResult(ctx, "dip721_owner_of", candid.A(candid.Nat, tokenID))
	if isRejected(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	o, err := candid.AsOpt(v)
	if err != nil || !o.Some {
		return "", false, err
	}
	id, err := candid.AsIdentity(o.Value)
	if err != nil {
		return "", false, err
	}
	return id.String(), true, nil
}

// Tokens 按总量推出 0..n-1 的条目编号后分页，已销毁的条目也在其中
func (i *Instance) Tokens(ctx context.Context, prev, take *big.Int) ([]*big.Int, error) {
	total, err := i.TotalSupply(ctx)
	if err != nil {
		return nil, err
	}

	start := new(big.Int)
	if prev != nil {
		if prev.Sign() < 0 || prev.Cmp(total) >= 0 {
			return []*big.Int{}, nil
		}
		start.Add(prev, big.NewInt(1))
	}
	end := new(big.Int).Set(total)
	if take != nil {
		if limit := new(big.Int).Add(start, take); limit.Cmp(end) < 0 {
			end = limit
		}
	}

	out := []*big.Int{}
	for id := start; id.Cmp(end) < 0; id = new(big.Int).Add(id, big.NewInt(1)) {
		out = append(out, id)
	}
	return out, nil
}

// TokensOf dip721_owner_token_metadata 中的条目编号，升序分页
func (i *Instance) TokensOf(ctx context.Context, account string, prev, take *big.Int) ([]*big.Int, error) {
	owner, err := PrincipalOf(account)
	if err != nil {
		return nil, err
	}
	v, err := i.QueryResult(ctx, "dip721_owner_token_metadata", candid.A(candid.Principal, owner))
	if isRejected(err) {
		return []*big.Int{}, nil
	}
	if err != nil {
		return nil, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	ids := make([]*big.Int, 0, len(items))
	for _, item := range items {
		f := common.ReadFields(item)
		id := f.Nat("token_identifier")
		if err := f.Err(); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	common.SortIDs(ids)
	return common.Paginate(ids, prev, take), nil
}

// TransferToken dip721_transfer
func (i *Instance) TransferToken(ctx context.Context, args types.TransferTokenArgs) (*big.Int, error) {
	if args.TokenID == nil {
		return nil, fmt.Errorf("%w: tokenID 不能为空", types.ErrInvalidInput)
	}
	to, err := PrincipalOf(args.To)
	if err != nil {
		return nil, err
	}
	v, err := i.UpdateResult(ctx, "dip721_transfer", candid.A(candid.Principal, to), candid.A(candid.Nat, args.TokenID))
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

func (i *Instance) optTextOr(ctx context.Context, method, fallback string) (string, error) {
	v, err := i.QueryValue(ctx, method)
	if err != nil {
		return "", err
	}
	text, ok, err := optText(v)
	if err != nil {
		return "", err
	}
	if !ok {
		return fallback, nil
	}
	return text, nil
}

// PrincipalOf 账户文本 → 身份；DIP-721 只按身份记账，带子账户的账户被拒绝
func PrincipalOf(account string) (types.Identity, error) {
	acc, err := address.Decode(account)
	if err != nil {
		return types.Identity{}, err
	}
	if acc.HasSubaccount() {
		return types.Identity{}, fmt.Errorf("%w: DIP-721 不支持子账户 %s", types.ErrInvalidInput, account)
	}
	return acc.Owner, nil
}

func isRejected(err error) bool {
	var rejected *types.ContractRejectedError
	return errors.As(err, &rejected)
}

var (
	_ token.MetadataReader      = (*Instance)(nil)
	_ token.NameReader          = (*Instance)(nil)
	_ token.SymbolReader        = (*Instance)(nil)
	_ token.LogoReader          = (*Instance)(nil)
	_ token.TotalSupplyReader   = (*Instance)(nil)
	_ token.BalanceReader       = (*Instance)(nil)
	_ token.TokenMetadataReader = (*Instance)(nil)
	_ token.OwnerReader         = (*Instance)(nil)
	_ token.TokensLister        = (*Instance)(nil)
	_ token.TokensOfLister      = (*Instance)(nil)
	_ token.TokenTransferer     = (*Instance)(nil)
)
