package types

import "math/big"

// TransferArgs 同质化代币转账
type TransferArgs struct {
	To             string      `json:"to"`
	Amount         *big.Int    `json:"amount"`
	Fee            *big.Int    `json:"fee,omitempty"`
	FromSubaccount *Subaccount `json:"fromSubaccount,omitempty"`
	Memo           []byte      `json:"memo,omitempty"`
	CreatedAtTime  *uint64     `json:"createdAtTime,omitempty"`
}

// TransferFromArgs 代扣转账
type TransferFromArgs struct {
	From              string      `json:"from"`
	To                string      `json:"to"`
	Amount            *big.Int    `json:"amount"`
	Fee               *big.Int    `json:"fee,omitempty"`
	SpenderSubaccount *Subaccount `json:"spenderSubaccount,omitempty"`
	Memo              []byte      `json:"memo,omitempty"`
	CreatedAtTime     *uint64     `json:"createdAtTime,omitempty"`
}

// ApproveArgs 授权额度
type ApproveArgs struct {
	Spender           string      `json:"spender"`
	Amount            *big.Int    `json:"amount"`
	Fee               *big.Int    `json:"fee,omitempty"`
	FromSubaccount    *Subaccount `json:"fromSubaccount,omitempty"`
	ExpectedAllowance *big.Int    `json:"expectedAllowance,omitempty"`
	ExpiresAt         *uint64     `json:"expiresAt,omitempty"`
	Memo              []byte      `json:"memo,omitempty"`
	CreatedAtTime     *uint64     `json:"createdAtTime,omitempty"`
}

// AllowanceArgs 额度查询
type AllowanceArgs struct {
	Account string `json:"account"`
	Spender string `json:"spender"`
}

// Allowance 额度查询结果
type Allowance struct {
	Allowance *big.Int `json:"allowance"`
	ExpiresAt *uint64  `json:"expiresAt,omitempty"`
}

// TransferTokenArgs 非同质化代币转移
type TransferTokenArgs struct {
	TokenID        *big.Int    `json:"tokenId"`
	To             string      `json:"to"`
	FromSubaccount *Subaccount `json:"fromSubaccount,omitempty"`
	Memo           []byte      `json:"memo,omitempty"`
	CreatedAtTime  *uint64     `json:"createdAtTime,omitempty"`
}

// TransferTokenFromArgs 非同质化代币代转
type TransferTokenFromArgs struct {
	TokenID           *big.Int    `json:"tokenId"`
	From              string      `json:"from"`
	To                string      `json:"to"`
	SpenderSubaccount *Subaccount `json:"spenderSubaccount,omitempty"`
	Memo              []byte      `json:"memo,omitempty"`
	CreatedAtTime     *uint64     `json:"createdAtTime,omitempty"`
}

// CollectionApproval 整个集合的授权（撤销时忽略 ExpiresAt）
type CollectionApproval struct {
	Spender        string      `json:"spender"`
	FromSubaccount *Subaccount `json:"fromSubaccount,omitempty"`
	ExpiresAt      *uint64     `json:"expiresAt,omitempty"`
	Memo           []byte      `json:"memo,omitempty"`
	CreatedAtTime  *uint64     `json:"createdAtTime,omitempty"`
}

// BatchResult 批量操作中单项的结果，Err 非空表示该项失败
type BatchResult struct {
	TxID *big.Int `json:"txId,omitempty"`
	Err  error    `json:"-"`
}
