package dip20

import (
	"context"
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// 元数据键
const (
	MetadataFee         = "dip20:fee"
	MetadataDecimals    = "dip20:decimals"
	MetadataOwner       = "dip20:owner"
	MetadataLogo        = "dip20:logo"
	MetadataName        = "dip20:name"
	MetadataTotalSupply = "dip20:totalSupply"
	MetadataSymbol      = "dip20:symbol"
)

// tokenInfo getMetadata 的解码结果
type tokenInfo struct {
	fee         *big.Int
	decimals    uint64
	owner       types.Identity
	logo        string
	name        string
	totalSupply *big.Int
	symbol      string
}

func readTokenInfo(v any) (tokenInfo, error) {
	f := common.ReadFields(v)
	m := tokenInfo{
		fee:         f.Nat("fee"),
		decimals:    f.Uint64("decimals"),
		owner:       f.Identity("owner"),
		logo:        f.Text("logo"),
		name:        f.Text("name"),
		totalSupply: f.Nat("totalSupply"),
		symbol:      f.Text("symbol"),
	}
	return m, f.Err()
}

// Instance 绑定到一个 DIP-20 合约
type Instance struct {
	common.Base
}

func (i *Instance) info(ctx context.Context) (tokenInfo, error) {
	v, err := i.QueryValue(ctx, "getMetadata")
	if err != nil {
		return tokenInfo{}, err
	}
	return readTokenInfo(v)
}

// Metadata getMetadata 转为通用元数据
func (i *Instance) Metadata(ctx context.Context) (types.Metadata, error) {
	m, err := i.info(ctx)
	if err != nil {
		return nil, err
	}
	return types.Metadata{
		{Key: MetadataFee, Value: types.NatValue(m.fee)},
		{Key: MetadataDecimals, Value: types.NatValue(new(big.Int).SetUint64(m.decimals))},
		{Key: MetadataOwner, Value: types.TextValue(m.owner.String())},
		{Key: MetadataLogo, Value: types.TextValue(m.logo)},
		{Key: MetadataName, Value: types.TextValue(m.name)},
		{Key: MetadataTotalSupply, Value: types.NatValue(m.totalSupply)},
		{Key: MetadataSymbol, Value: types.TextValue(m.symbol)},
	}, nil
}

// Name name
func (i *Instance) Name(ctx context.Context) (string, error) {
	return i.queryText(ctx, "name")
}

// Symbol symbol
func (i *Instance) Symbol(ctx context.Context) (string, error) {
	return i.queryText(ctx, "symbol")
}

// Logo logo，空串视为未设置
func (i *Instance) Logo(ctx context.Context) (string, bool, error) {
	logo, err := i.queryText(ctx, "logo")
	if err != nil {
		return "", false, err
	}
	return logo, logo != "", nil
}

// TotalSupply totalSupply
func (i *Instance) TotalSupply(ctx context.Context) (*big.Int, error) {
	v, err := i.QueryValue(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// BalanceOf balanceOf(principal)
func (i *Instance) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	owner, err := ownerOf(account)
	if err != nil {
		return nil, err
	}
	v, err := i.QueryValue(ctx, "balanceOf", candid.A(candid.Principal, owner))
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// Decimals decimals
func (i *Instance) Decimals(ctx context.Context) (int, error) {
	v, err := i.QueryValue(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	n, err := candid.AsUint64(v)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Fee DIP-20 转账不收取账本费用
func (i *Instance) Fee(ctx context.Context) (*big.Int, error) {
	return big.NewInt(0), nil
}

// MintingAccount getMetadata 中的 owner
func (i *Instance) MintingAccount(ctx context.Context) (string, bool, error) {
	m, err := i.info(ctx)
	if err != nil {
		return "", false, err
	}
	return m.owner.String(), true, nil
}

// Transfer transfer(principal, nat)
func (i *Instance) Transfer(ctx context.Context, args types.TransferArgs) (*big.Int, error) {
	if args.Amount == nil {
		return nil, fmt.Errorf("%w: amount 不能为空", types.ErrInvalidInput)
	}
	to, err := ownerOf(args.To)
	if err != nil {
		return nil, err
	}
	v, err := i.UpdateResult(ctx, "transfer", candid.A(candid.Principal, to), candid.A(candid.Nat, args.Amount))
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

func (i *Instance) queryText(ctx context.Context, method string) (string, error) {
	v, err := i.QueryValue(ctx, method)
	if err != nil {
		return "", err
	}
	return candid.AsText(v)
}

// ownerOf 账户文本 → 身份；DIP-20 无法表达子账户
func ownerOf(account string) (types.Identity, error) {
	acc, err := address.Decode(account)
	if err != nil {
		return types.Identity{}, err
	}
	if acc.HasSubaccount() {
		return types.Identity{}, fmt.Errorf("%w: DIP-20 不支持子账户 %s", types.ErrInvalidInput, account)
	}
	return acc.Owner, nil
}

var (
	_ token.MetadataReader       = (*Instance)(nil)
	_ token.NameReader           = (*Instance)(nil)
	_ token.SymbolReader         = (*Instance)(nil)
	_ token.LogoReader           = (*Instance)(nil)
	_ token.TotalSupplyReader    = (*Instance)(nil)
	_ token.BalanceReader        = (*Instance)(nil)
	_ token.DecimalsReader       = (*Instance)(nil)
	_ token.FeeReader            = (*Instance)(nil)
	_ token.MintingAccountReader = (*Instance)(nil)
	_ token.Transferer           = (*Instance)(nil)
)
