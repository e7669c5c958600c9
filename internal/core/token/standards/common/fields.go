package common

import (
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/pkg/types"
)

// Fields 从解码后的 record 中按名取值，记录第一个错误
type Fields struct {
	rec candid.Record
	err error
}

// NewFields 包装 record
func NewFields(rec candid.Record) *Fields {
	return &Fields{rec: rec}
}

// ReadFields 包装任意解码值，不是 record 时记录错误
func ReadFields(v any) *Fields {
	rec, err := candid.AsRecord(v)
	return &Fields{rec: rec, err: err}
}

// Err 第一个取值错误
func (f *Fields) Err() error {
	return f.err
}

func (f *Fields) field(name string) any {
	if f.err != nil {
		return nil
	}
	v, err := f.rec.Field(name)
	if err != nil {
		f.err = err
		return nil
	}
	return v
}

func (f *Fields) opt(name string) candid.Opt {
	if f.err != nil {
		return candid.None
	}
	o, err := f.rec.OptField(name)
	if err != nil {
		f.fail(name, err)
		return candid.None
	}
	return o
}

func (f *Fields) fail(name string, err error) {
	if f.err == nil {
		f.err = fmt.Errorf("字段 %s: %w", name, err)
	}
}

// Raw 原始字段值
func (f *Fields) Raw(name string) any {
	return f.field(name)
}

// Nat nat 字段
func (f *Fields) Nat(name string) *big.Int {
	v := f.field(name)
	if f.err != nil {
		return nil
	}
	n, err := candid.AsNat(v)
	if err != nil {
		f.fail(name, err)
	}
	return n
}

// Uint64 nat64 字段
func (f *Fields) Uint64(name string) uint64 {
	v := f.field(name)
	if f.err != nil {
		return 0
	}
	n, err := candid.AsUint64(v)
	if err != nil {
		f.fail(name, err)
	}
	return n
}

// Text text 字段
func (f *Fields) Text(name string) string {
	v := f.field(name)
	if f.err != nil {
		return ""
	}
	s, err := candid.AsText(v)
	if err != nil {
		f.fail(name, err)
	}
	return s
}

// Identity principal 字段
func (f *Fields) Identity(name string) types.Identity {
	v := f.field(name)
	if f.err != nil {
		return types.Identity{}
	}
	id, err := candid.AsIdentity(v)
	if err != nil {
		f.fail(name, err)
	}
	return id
}

// Account account record 字段，转为账户文本形式
func (f *Fields) Account(name string) string {
	v := f.field(name)
	if f.err != nil {
		return ""
	}
	text, err := AccountText(v)
	if err != nil {
		f.fail(name, err)
	}
	return text
}

// OptNat opt nat 字段，null 返回 nil
func (f *Fields) OptNat(name string) *big.Int {
	o := f.opt(name)
	if !o.Some {
		return nil
	}
	n, err := candid.AsNat(o.Value)
	if err != nil {
		f.fail(name, err)
	}
	return n
}

// OptUint64 opt nat64 字段
func (f *Fields) OptUint64(name string) *uint64 {
	o := f.opt(name)
	if !o.Some {
		return nil
	}
	n, err := candid.AsUint64(o.Value)
	if err != nil {
		f.fail(name, err)
		return nil
	}
	return &n
}

// OptBlob opt blob 字段
func (f *Fields) OptBlob(name string) []byte {
	o := f.opt(name)
	if !o.Some {
		return nil
	}
	b, err := candid.AsBlob(o.Value)
	if err != nil {
		f.fail(name, err)
	}
	return b
}

// OptSubaccount opt blob 字段，长度必须为 32
func (f *Fields) OptSubaccount(name string) *types.Subaccount {
	o := f.opt(name)
	if f.err != nil {
		return nil
	}
	sub, err := SubaccountFromOpt(o)
	if err != nil {
		f.fail(name, err)
	}
	return sub
}

// OptNat 构造 opt nat
func OptNat(n *big.Int) candid.Opt {
	if n == nil {
		return candid.None
	}
	return candid.Some(n)
}

// OptUint64 构造 opt nat64
func OptUint64(v *uint64) candid.Opt {
	if v == nil {
		return candid.None
	}
	return candid.Some(*v)
}

// OptBlob 构造 opt blob，nil 为 null
func OptBlob(b []byte) candid.Opt {
	if b == nil {
		return candid.None
	}
	return candid.Some(b)
}
