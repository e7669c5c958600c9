package token

import (
	"context"
	"math/big"

	"github.com/weisyn/tokens/pkg/types"
)

// 每个规范操作对应一个接口；实例只实现其标准覆盖的那部分。
// 账户参数与返回值一律为账户文本形式。

type MetadataReader interface {
	Metadata(ctx context.Context) (types.Metadata, error)
}

type NameReader interface {
	Name(ctx context.Context) (string, error)
}

type SymbolReader interface {
	Symbol(ctx context.Context) (string, error)
}

// LogoReader 未设置 logo 时返回 ok=false
type LogoReader interface {
	Logo(ctx context.Context) (logo string, ok bool, err error)
}

type TotalSupplyReader interface {
	TotalSupply(ctx context.Context) (*big.Int, error)
}

type MaxMemoSizeReader interface {
	MaxMemoSize(ctx context.Context) (int, error)
}

type BalanceReader interface {
	BalanceOf(ctx context.Context, account string) (*big.Int, error)
}

type BatchBalanceReader interface {
	BatchBalanceOf(ctx context.Context, accounts []string) ([]*big.Int, error)
}

type DecimalsReader interface {
	Decimals(ctx context.Context) (int, error)
}

type FeeReader interface {
	Fee(ctx context.Context) (*big.Int, error)
}

// MintingAccountReader 没有铸币账户时返回 ok=false
type MintingAccountReader interface {
	MintingAccount(ctx context.Context) (account string, ok bool, err error)
}

type Transferer interface {
	Transfer(ctx context.Context, args types.TransferArgs) (*big.Int, error)
}

type TransferFromer interface {
	TransferFrom(ctx context.Context, args types.TransferFromArgs) (*big.Int, error)
}

type Approver interface {
	Approve(ctx context.Context, args types.ApproveArgs) (*big.Int, error)
}

type AllowanceReader interface {
	Allowance(ctx context.Context, args types.AllowanceArgs) (types.Allowance, error)
}

type BatchTransferer interface {
	BatchTransfer(ctx context.Context, args []types.TransferArgs) ([]types.BatchResult, error)
}

// SupplyCapReader 无上限时返回 ok=false
type SupplyCapReader interface {
	SupplyCap(ctx context.Context) (supplyCap *big.Int, ok bool, err error)
}

// TokenMetadataReader 条目不存在时返回 ok=false
type TokenMetadataReader interface {
	TokenMetadata(ctx context.Context, tokenID *big.Int) (metadata types.Metadata, ok bool, err error)
}

// OwnerReader 条目不存在时返回 ok=false
type OwnerReader interface {
	OwnerOf(ctx context.Context, tokenID *big.Int) (owner string, ok bool, err error)
}

type TokensLister interface {
	Tokens(ctx context.Context, prev *big.Int, take *big.Int) ([]*big.Int, error)
}

type TokensOfLister interface {
	TokensOf(ctx context.Context, account string, prev *big.Int, take *big.Int) ([]*big.Int, error)
}

type TokenTransferer interface {
	TransferToken(ctx context.Context, args types.TransferTokenArgs) (*big.Int, error)
}

type TokenTransferFromer interface {
	TransferTokenFrom(ctx context.Context, args types.TransferTokenFromArgs) (*big.Int, error)
}

type CollectionApprover interface {
	ApproveCollection(ctx context.Context, args types.CollectionApproval) (*big.Int, error)
}

type CollectionApprovalRevoker interface {
	RevokeCollectionApproval(ctx context.Context, args types.CollectionApproval) (*big.Int, error)
}

// BatchTokenMetadataReader 结果与输入一一对应，不存在的条目为 nil
type BatchTokenMetadataReader interface {
	BatchTokenMetadata(ctx context.Context, tokenIDs []*big.Int) ([]types.Metadata, error)
}

// BatchOwnerReader 结果与输入一一对应，不存在的条目为空串
type BatchOwnerReader interface {
	BatchOwnerOf(ctx context.Context, tokenIDs []*big.Int) ([]string, error)
}

type BatchTokenTransferer interface {
	BatchTransferToken(ctx context.Context, args []types.TransferTokenArgs) ([]types.BatchResult, error)
}

// OperationInterfaces 规范操作 → 实例必须实现的接口检查
var OperationInterfaces = map[types.Operation]func(Instance) bool{
	types.OpMetadata:                 implements[MetadataReader],
	types.OpName:                     implements[NameReader],
	types.OpSymbol:                   implements[SymbolReader],
	types.OpLogo:                     implements[LogoReader],
	types.OpTotalSupply:              implements[TotalSupplyReader],
	types.OpMaxMemoSize:              implements[MaxMemoSizeReader],
	types.OpBalanceOf:                implements[BalanceReader],
	types.OpBatchBalanceOf:           implements[BatchBalanceReader],
	types.OpDecimals:                 implements[DecimalsReader],
	types.OpFee:                      implements[FeeReader],
	types.OpMintingAccount:           implements[MintingAccountReader],
	types.OpTransfer:                 implements[Transferer],
	types.OpTransferFrom:             implements[TransferFromer],
	types.OpApprove:                  implements[Approver],
	types.OpAllowance:                implements[AllowanceReader],
	types.OpBatchTransfer:            implements[BatchTransferer],
	types.OpSupplyCap:                implements[SupplyCapReader],
	types.OpTokenMetadata:            implements[TokenMetadataReader],
	types.OpOwnerOf:                  implements[OwnerReader],
	types.OpTokens:                   implements[TokensLister],
	types.OpTokensOf:                 implements[TokensOfLister],
	types.OpTransferToken:            implements[TokenTransferer],
	types.OpTransferTokenFrom:        implements[TokenTransferFromer],
	types.OpApproveCollection:        implements[CollectionApprover],
	types.OpRevokeCollectionApproval: implements[CollectionApprovalRevoker],
	types.OpBatchTokenMetadata:       implements[BatchTokenMetadataReader],
	types.OpBatchOwnerOf:             implements[BatchOwnerReader],
	types.OpBatchTransferToken:       implements[BatchTokenTransferer],
}

func implements[T any](inst Instance) bool {
	_, ok := inst.(T)
	return ok
}
