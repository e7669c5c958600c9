package common

import (
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/codec/cbor"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/pkg/types"
)

// CandidArgs 解码 Candid 调用参数，至少包含 n 个
func CandidArgs(raw []byte, n int) ([]any, error) {
	values, err := candid.Decode(raw)
	if err != nil {
		return nil, err
	}
	if len(values) < n {
		return nil, fmt.Errorf("期望至少 %d 个参数，实际 %d 个", n, len(values))
	}
	return values, nil
}

// CandidRecordArg 解码只有一个 record 参数的调用
func CandidRecordArg(raw []byte) (*Fields, error) {
	values, err := CandidArgs(raw, 1)
	if err != nil {
		return nil, err
	}
	return ReadFields(values[0]), nil
}

// === CBOR 参数 ===

// CBORAccount CBOR 中的账户：owner 为字节串，subaccount 为 0/1 元素数组
type CBORAccount struct {
	Owner      []byte   `cbor:"owner"`
	Subaccount [][]byte `cbor:"subaccount"`
}

// Text 转为账户文本形式
func (a CBORAccount) Text() (string, error) {
	owner, err := types.IdentityFromBytes(a.Owner)
	if err != nil {
		return "", err
	}
	sub, err := CBORSubaccount(a.Subaccount)
	if err != nil {
		return "", err
	}
	return address.Encode(types.NewAccount(owner, sub)), nil
}

// CBOROpt 0/1 元素数组 → 指针
func CBOROpt[T any](o []T) (*T, error) {
	switch len(o) {
	case 0:
		return nil, nil
	case 1:
		return &o[0], nil
	default:
		return nil, fmt.Errorf("opt 数组长度 %d", len(o))
	}
}

// CBORSubaccount opt blob → 子账户
func CBORSubaccount(o [][]byte) (*types.Subaccount, error) {
	b, err := CBOROpt(o)
	if err != nil || b == nil {
		return nil, err
	}
	sub, err := types.SubaccountFromBytes(*b)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CBORBlob opt blob → []byte
func CBORBlob(o [][]byte) ([]byte, error) {
	b, err := CBOROpt(o)
	if err != nil || b == nil {
		return nil, err
	}
	return *b, nil
}

// CBORNat opt nat → *big.Int
func CBORNat(o []*big.Int) (*big.Int, error) {
	n, err := CBOROpt(o)
	if err != nil || n == nil {
		return nil, err
	}
	return *n, nil
}

// CBORRecordArg 解码 CBOR 调用参数数组中的第一个参数
func CBORRecordArg(raw []byte, v any) error {
	args, err := cbor.DecodeArgs(raw)
	if err != nil {
		return err
	}
	return cbor.DecodeArg(args, 0, v)
}

// CBORReader 依次转换 CBOR 参数字段，记录第一个错误
type CBORReader struct {
	err error
}

// Err 第一个转换错误
func (r *CBORReader) Err() error {
	return r.err
}

// Account 账户 → 文本形式
func (r *CBORReader) Account(a CBORAccount) string {
	if r.err != nil {
		return ""
	}
	text, err := a.Text()
	r.err = err
	return text
}

// Nat 必填 nat
func (r *CBORReader) Nat(name string, n *big.Int) *big.Int {
	if r.err == nil && n == nil {
		r.err = fmt.Errorf("缺少字段 %s", name)
	}
	return n
}

// OptNat opt nat
func (r *CBORReader) OptNat(o []*big.Int) *big.Int {
	if r.err != nil {
		return nil
	}
	n, err := CBORNat(o)
	r.err = err
	return n
}

// OptUint64 opt nat64
func (r *CBORReader) OptUint64(o []uint64) *uint64 {
	if r.err != nil {
		return nil
	}
	v, err := CBOROpt(o)
	r.err = err
	return v
}

// OptBlob opt blob
func (r *CBORReader) OptBlob(o [][]byte) []byte {
	if r.err != nil {
		return nil
	}
	b, err := CBORBlob(o)
	r.err = err
	return b
}

// OptSubaccount opt blob → 子账户
func (r *CBORReader) OptSubaccount(o [][]byte) *types.Subaccount {
	if r.err != nil {
		return nil
	}
	sub, err := CBORSubaccount(o)
	r.err = err
	return sub
}
