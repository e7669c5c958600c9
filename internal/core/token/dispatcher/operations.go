package dispatcher

import (
	"context"
	"math/big"

	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// 以下每个方法把调用原样转发给该操作路由到的实例；
// 没有实例支持时返回 types.ErrUnsupportedOperation。

func (f *Facade) Metadata(ctx context.Context) (types.Metadata, error) {
	r, err := route[token.MetadataReader](f, types.OpMetadata)
	if err != nil {
		return nil, err
	}
	return r.Metadata(ctx)
}

func (f *Facade) Name(ctx context.Context) (string, error) {
	r, err := route[token.NameReader](f, types.OpName)
	if err != nil {
		return "", err
	}
	return r.Name(ctx)
}

func (f *Facade) Symbol(ctx context.Context) (string, error) {
	r, err := route[token.SymbolReader](f, types.OpSymbol)
	if err != nil {
		return "", err
	}
	return r.Symbol(ctx)
}

func (f *Facade) Logo(ctx context.Context) (string, bool, error) {
	r, err := route[token.LogoReader](f, types.OpLogo)
	if err != nil {
		return "", false, err
	}
	return r.Logo(ctx)
}

func (f *Facade) TotalSupply(ctx context.Context) (*big.Int, error) {
	r, err := route[token.TotalSupplyReader](f, types.OpTotalSupply)
	if err != nil {
		return nil, err
	}
	return r.TotalSupply(ctx)
}

func (f *Facade) MaxMemoSize(ctx context.Context) (int, error) {
	r, err := route[token.MaxMemoSizeReader](f, types.OpMaxMemoSize)
	if err != nil {
		return 0, err
	}
	return r.MaxMemoSize(ctx)
}

// BalanceOf account 为账户文本形式（EXT 也接受哈希形式）
func (f *Facade) BalanceOf(ctx context.Context, account string) (*big.Int, error) {
	r, err := route[token.BalanceReader](f, types.OpBalanceOf)
	if err != nil {
		return nil, err
	}
	return r.BalanceOf(ctx, account)
}

func (f *Facade) BatchBalanceOf(ctx context.Context, accounts []string) ([]*big.Int, error) {
	r, err := route[token.BatchBalanceReader](f, types.OpBatchBalanceOf)
	if err != nil {
		return nil, err
	}
	return r.BatchBalanceOf(ctx, accounts)
}

func (f *Facade) Decimals(ctx context.Context) (int, error) {
	r, err := route[token.DecimalsReader](f, types.OpDecimals)
	if err != nil {
		return 0, err
	}
	return r.Decimals(ctx)
}

func (f *Facade) Fee(ctx context.Context) (*big.Int, error) {
	r, err := route[token.FeeReader](f, types.OpFee)
	if err != nil {
		return nil, err
	}
	return r.Fee(ctx)
}

func (f *Facade) MintingAccount(ctx context.Context) (string, bool, error) {
	r, err := route[token.MintingAccountReader](f, types.OpMintingAccount)
	if err != nil {
		return "", false, err
	}
	return r.MintingAccount(ctx)
}

func (f *Facade) Transfer(ctx context.Context, args types.TransferArgs) (*big.Int, error) {
	r, err := route[token.Transferer](f, types.OpTransfer)
	if err != nil {
		return nil, err
	}
	return r.Transfer(ctx, args)
}

func (f *Facade) TransferFrom(ctx context.Context, args types.TransferFromArgs) (*big.Int, error) {
	r, err := route[token.TransferFromer](f, types.OpTransferFrom)
	if err != nil {
		return nil, err
	}
	return r.TransferFrom(ctx, args)
}

func (f *Facade) Approve(ctx context.Context, args types.ApproveArgs) (*big.Int, error) {
	r, err := route[token.Approver](f, types.OpApprove)
	if err != nil {
		return nil, err
	}
	return r.Approve(ctx, args)
}

func (f *Facade) Allowance(ctx context.Context, args types.AllowanceArgs) (types.Allowance, error) {
	r, err := route[token.AllowanceReader](f, types.OpAllowance)
	if err != nil {
		return types.Allowance{}, err
	}
	return r.Allowance(ctx, args)
}

func (f *Facade) BatchTransfer(ctx context.Context, args []types.TransferArgs) ([]types.BatchResult, error) {
	r, err := route[token.BatchTransferer](f, types.OpBatchTransfer)
	if err != nil {
		return nil, err
	}
	return r.BatchTransfer(ctx, args)
}

func (f *Facade) SupplyCap(ctx context.Context) (*big.Int, bool, error) {
	r, err := route[token.SupplyCapReader](f, types.OpSupplyCap)
	if err != nil {
		return nil, false, err
	}
	return r.SupplyCap(ctx)
}

func (f *Facade) TokenMetadata(ctx context.Context, tokenID *big.Int) (types.Metadata, bool, error) {
	r, err := route[token.TokenMetadataReader](f, types.OpTokenMetadata)
	if err != nil {
		return nil, false, err
	}
	return r.TokenMetadata(ctx, tokenID)
}

func (f *Facade) OwnerOf(ctx context.Context, tokenID *big.Int) (string, bool, error) {
	r, err := route[token.OwnerReader](f, types.OpOwnerOf)
	if err != nil {
		return "", false, err
	}
	return r.OwnerOf(ctx, tokenID)
}

// Tokens prev 为上一页最后一个 id（nil 表示从头），take 为 nil 时由标准决定页大小
func (f *Facade) Tokens(ctx context.Context, prev, take *big.Int) ([]*big.Int, error) {
	r, err := route[token.TokensLister](f, types.OpTokens)
	if err != nil {
		return nil, err
	}
	return r.Tokens(ctx, prev, take)
}

func (f *Facade) TokensOf(ctx context.Context, account string, prev, take *big.Int) ([]*big.Int, error) {
	r, err := route[token.TokensOfLister](f, types.OpTokensOf)
	if err != nil {
		return nil, err
	}
	return r.TokensOf(ctx, account, prev, take)
}

func (f *Facade) TransferToken(ctx context.Context, args types.TransferTokenArgs) (*big.Int, error) {
	r, err := route[token.TokenTransferer](f, types.OpTransferToken)
	if err != nil {
		return nil, err
	}
	return r.TransferToken(ctx, args)
}

func (f *Facade) TransferTokenFrom(ctx context.Context, args types.TransferTokenFromArgs) (*big.Int, error) {
	r, err := route[token.TokenTransferFromer](f, types.OpTransferTokenFrom)
	if err != nil {
		return nil, err
	}
	return r.TransferTokenFrom(ctx, args)
}

func (f *Facade) ApproveCollection(ctx context.Context, args types.CollectionApproval) (*big.Int, error) {
	r, err := route[token.CollectionApprover](f, types.OpApproveCollection)
	if err != nil {
		return nil, err
	}
	return r.ApproveCollection(ctx, args)
}

func (f *Facade) RevokeCollectionApproval(ctx context.Context, args types.CollectionApproval) (*big.Int, error) {
	r, err := route[token.CollectionApprovalRevoker](f, types.OpRevokeCollectionApproval)
	if err != nil {
		return nil, err
	}
	return r.RevokeCollectionApproval(ctx, args)
}

func (f *Facade) BatchTokenMetadata(ctx context.Context, tokenIDs []*big.Int) ([]types.Metadata, error) {
	r, err := route[token.BatchTokenMetadataReader](f, types.OpBatchTokenMetadata)
	if err != nil {
		return nil, err
	}
	return r.BatchTokenMetadata(ctx, tokenIDs)
}

func (f *Facade) BatchOwnerOf(ctx context.Context, tokenIDs []*big.Int) ([]string, error) {
	r, err := route[token.BatchOwnerReader](f, types.OpBatchOwnerOf)
	if err != nil {
		return nil, err
	}
	return r.BatchOwnerOf(ctx, tokenIDs)
}

func (f *Facade) BatchTransferToken(ctx context.Context, args []types.TransferTokenArgs) ([]types.BatchResult, error) {
	r, err := route[token.BatchTokenTransferer](f, types.OpBatchTransferToken)
	if err != nil {
		return nil, err
	}
	return r.BatchTransferToken(ctx, args)
}
