package types

import (
	"fmt"
	"sort"
)

// Operation 与具体标准无关的规范操作名
type Operation string

// 规范操作
const (
	OpMetadata                 Operation = "metadata"
	OpName                     Operation = "name"
	OpSymbol                   Operation = "symbol"
	OpLogo                     Operation = "logo"
	OpTotalSupply              Operation = "totalSupply"
	OpMaxMemoSize              Operation = "maxMemoSize"
	OpBalanceOf                Operation = "balanceOf"
	OpBatchBalanceOf           Operation = "batchBalanceOf"
	OpDecimals                 Operation = "decimals"
	OpFee                      Operation = "fee"
	OpMintingAccount           Operation = "mintingAccount"
	OpTransfer                 Operation = "transfer"
	OpTransferFrom             Operation = "transferFrom"
	OpApprove                  Operation = "approve"
	OpAllowance                Operation = "allowance"
	OpBatchTransfer            Operation = "batchTransfer"
	OpSupplyCap                Operation = "supplyCap"
	OpTokenMetadata            Operation = "tokenMetadata"
	OpOwnerOf                  Operation = "ownerOf"
	OpTokens                   Operation = "tokens"
	OpTokensOf                 Operation = "tokensOf"
	OpTransferToken            Operation = "transferToken"
	OpTransferTokenFrom        Operation = "transferTokenFrom"
	OpApproveCollection        Operation = "approveCollection"
	OpRevokeCollectionApproval Operation = "revokeCollectionApproval"
	OpBatchTokenMetadata       Operation = "batchTokenMetadata"
	OpBatchOwnerOf             Operation = "batchOwnerOf"
	OpBatchTransferToken       Operation = "batchTransferToken"
)

// AllOperations 全部规范操作（固定顺序）
var AllOperations = []Operation{
	OpMetadata, OpName, OpSymbol, OpLogo, OpTotalSupply, OpMaxMemoSize,
	OpBalanceOf, OpBatchBalanceOf, OpDecimals, OpFee, OpMintingAccount,
	OpTransfer, OpTransferFrom, OpApprove, OpAllowance, OpBatchTransfer,
	OpSupplyCap, OpTokenMetadata, OpOwnerOf, OpTokens, OpTokensOf,
	OpTransferToken, OpTransferTokenFrom, OpApproveCollection, OpRevokeCollectionApproval,
	OpBatchTokenMetadata, OpBatchOwnerOf, OpBatchTransferToken,
}

// ParseOperation 按名称解析规范操作
func ParseOperation(name string) (Operation, error) {
	for _, op := range AllOperations {
		if string(op) == name {
			return op, nil
		}
	}
	return "", fmt.Errorf("%w: 未知操作 %q", ErrInvalidInput, name)
}

// OperationSet 适配器实例在绑定时确定的能力集合
type OperationSet map[Operation]struct{}

// NewOperationSet 构造能力集合
func NewOperationSet(ops ...Operation) OperationSet {
	set := make(OperationSet, len(ops))
	for _, op := range ops {
		set[op] = struct{}{}
	}
	return set
}

// Has 是否包含
func (s OperationSet) Has(op Operation) bool {
	_, ok := s[op]
	return ok
}

// Add 加入若干操作
func (s OperationSet) Add(ops ...Operation) {
	for _, op := range ops {
		s[op] = struct{}{}
	}
}

// Sorted 按名称排序输出
func (s OperationSet) Sorted() []Operation {
	out := make([]Operation, 0, len(s))
	for op := range s {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// CapabilityTable 标准名 → 该标准开启的操作
//
// 适配器绑定时只展开 accepted 中出现的标准。
type CapabilityTable map[string][]Operation

// Resolve 按已接受标准计算能力集合
func (t CapabilityTable) Resolve(accepted StandardSet) OperationSet {
	set := NewOperationSet()
	for standard, ops := range t {
		if accepted.Has(standard) {
			set.Add(ops...)
		}
	}
	return set
}
