package ext

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// ErrSenderRequired 转出需要能给出调用方身份的传输
var ErrSenderRequired = fmt.Errorf("%w: EXT 转出需要带调用方身份的传输", types.ErrInvalidInput)

// Instance 绑定到一个 EXT 集合
type Instance struct {
	CollectionReader
}

// BalanceOf tokens(账户哈希) 的条目数，合约返回错误时为 0
func (i *Instance) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	ids, err := i.owned(ctx, account)
	if err != nil {
		return nil, err
	}
	return big.NewInt(int64(len(ids))), nil
}

// TokenMetadata 条目图片与查看地址，目录中有属性时一并给出
func (i *Instance) TokenMetadata(ctx context.Context, tokenID *big.Int) (types.Metadata, bool, error) {
	index, err := indexOf(tokenID)
	if err != nil {
		return nil, false, err
	}
	canister := i.Contract
	tid, err := TokenIdentifier(canister, index)
	if err != nil {
		return nil, false, err
	}

	url := fmt.Sprintf("https://%s.raw.icp0.io/?tokenid=%s", canister, tid)
	metadata := types.Metadata{
		{Key: MetadataImage, Value: types.TextValue(url)},
		{Key: MetadataURL, Value: types.TextValue(url)},
	}
	if dir := i.directory; dir != nil {
		attributes, ok, err := dir.Attributes(ctx, canister.String(), index)
		if err != nil && ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		if err == nil && ok {
			metadata = append(metadata, types.MetadataEntry{Key: MetadataAttributes, Value: attributes})
		}
	}
	return metadata, true, nil
}

// OwnerOf getRegistry 中的持有者账户哈希
func (i *Instance) OwnerOf(ctx context.Context, tokenID *big.Int) (string, bool, error) {
	index, err := indexOf(tokenID)
	if err != nil {
		return "", false, err
	}
	v, err := i.QueryValue(ctx, "getRegistry")
	if err != nil {
		return "", false, err
	}
	items, err := candid.AsVec(v)
	if err != nil {
		return "", false, err
	}
	for _, item := range items {
		pair, err := candid.AsRecord(item)
		if err != nil {
			return "", false, err
		}
		id, err := candid.AsUint64(pair[0])
		if err != nil {
			return "", false, err
		}
		if id != uint64(index) {
			continue
		}
		owner, err := candid.AsText(pair[1])
		if err != nil {
			return "", false, err
		}
		return owner, true, nil
	}
	return "", false, nil
}

// Tokens getTokens 中的条目编号，升序分页
func (i *Instance) Tokens(ctx context.Context, prev, take *big.Int) ([]*big.Int, error) {
	ids, err := i.tokenIDs(ctx)
	if err != nil {
		return nil, err
	}
	common.SortIDs(ids)
	return common.Paginate(ids, prev, take), nil
}

// TokensOf tokens(账户哈希) 中的条目编号，升序分页
func (i *Instance) TokensOf(ctx context.Context, account string, prev, take *big.Int) ([]*big.Int, error) {
	ids, err := i.owned(ctx, account)
	if err != nil {
		return nil, err
	}
	common.SortIDs(ids)
	return common.Paginate(ids, prev, take), nil
}

// TransferToken transfer，转出方为传输给出的调用方身份加 FromSubaccount
func (i *Instance) TransferToken(ctx context.Context, args types.TransferTokenArgs) (*big.Int, error) {
	index, err := indexOf(args.TokenID)
	if err != nil {
		return nil, err
	}
	sp, ok := i.Transport.(token.SenderProvider)
	if !ok {
		return nil, ErrSenderRequired
	}
	to, err := AccountHash(args.To)
	if err != nil {
		return nil, err
	}
	tid, err := TokenIdentifier(i.Contract, index)
	if err != nil {
		return nil, err
	}

	from := address.Hash(types.NewAccount(sp.Sender(), args.FromSubaccount))
	memo := args.Memo
	if memo == nil {
		memo = []byte{0}
	}
	req := candid.Fields(
		"to", candid.Tag("address", to),
		"token", tid.String(),
		"notify", false,
		"from", candid.Tag("address", from),
		"memo", memo,
		"subaccount", common.SubaccountOpt(args.FromSubaccount),
		"amount", big.NewInt(1),
	)
	v, err := i.UpdateResult(ctx, "transfer", candid.A(TransferRequestType, req))
	if err != nil {
		return nil, err
	}
	return candid.AsNat(v)
}

// owned tokens(账户哈希)，合约返回错误时为空
func (i *Instance) owned(ctx context.Context, account string) ([]*big.Int, error) {
	hash, err := AccountHash(account)
	if err != nil {
		return nil, err
	}
	v, err := i.QueryResult(ctx, "tokens", candid.A(candid.Text, hash))
	var rejected *types.ContractRejectedError
	if errors.As(err, &rejected) {
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
		id, err := candid.AsNat(item)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// AccountHash 账户哈希形式原样返回（小写），账户文本形式先解码再取哈希
func AccountHash(account string) (string, error) {
	if address.IsHashForm(account) {
		return strings.ToLower(account), nil
	}
	acc, err := address.Decode(account)
	if err != nil {
		return "", err
	}
	return address.Hash(acc), nil
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
