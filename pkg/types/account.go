// Package types 定义多标准代币门面共享的数据结构
//
// 包括身份、子账户、账户、标准描述、规范操作名与调用描述，
// 以及门面与适配器之间传递的参数结构和错误分类。
package types

import (
	"encoding/binary"
	"fmt"
)

// SubaccountLength 子账户固定字节长度
const SubaccountLength = 32

// Subaccount 同一身份下的 32 字节余额分区键，全零为默认子账户
type Subaccount [SubaccountLength]byte

// SubaccountFromBytes 由 32 字节构造子账户
func SubaccountFromBytes(b []byte) (Subaccount, error) {
	var sub Subaccount
	if len(b) != SubaccountLength {
		return sub, fmt.Errorf("%w: 子账户长度必须为 %d 字节，实际 %d", ErrInvalidInput, SubaccountLength, len(b))
	}
	copy(sub[:], b)
	return sub, nil
}

// SubaccountFromIndex 以大端序把序号写入末尾 8 字节
func SubaccountFromIndex(index uint64) Subaccount {
	var sub Subaccount
	binary.BigEndian.PutUint64(sub[SubaccountLength-8:], index)
	return sub
}

// IsZero 是否默认子账户
func (s Subaccount) IsZero() bool {
	return s == Subaccount{}
}

// Bytes 返回字节切片副本
func (s Subaccount) Bytes() []byte {
	out := make([]byte, SubaccountLength)
	copy(out, s[:])
	return out
}

// Account 身份与可选子账户组成的一个余额地址
type Account struct {
	Owner      Identity
	Subaccount *Subaccount
}

// NewAccount 构造账户，sub 为 nil 表示默认子账户
func NewAccount(owner Identity, sub *Subaccount) Account {
	return Account{Owner: owner, Subaccount: sub}
}

// EffectiveSubaccount 返回实际生效的子账户（缺省时为全零）
func (a Account) EffectiveSubaccount() Subaccount {
	if a.Subaccount == nil {
		return Subaccount{}
	}
	return *a.Subaccount
}

// HasSubaccount 是否携带非默认子账户
func (a Account) HasSubaccount() bool {
	return a.Subaccount != nil && !a.Subaccount.IsZero()
}

// Equal 按身份与生效子账户比较
func (a Account) Equal(other Account) bool {
	return a.Owner == other.Owner && a.EffectiveSubaccount() == other.EffectiveSubaccount()
}
