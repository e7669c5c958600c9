package candid

import (
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/pkg/types"
)

// Opt opt 值，Some 为 false 表示 null
type Opt struct {
	Value any
	Some  bool
}

// Some 构造非空 opt
func Some(v any) Opt { return Opt{Value: v, Some: true} }

// None 空 opt
var None = Opt{}

// Record 以字段 ID 为键的 record 值
type Record map[uint32]any

// Fields 由 name, value 交替列表构造 record
func Fields(kv ...any) Record {
	rec := make(Record, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		name, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("candid: 字段名必须为 string，实际 %T", kv[i]))
		}
		rec[Hash(name)] = kv[i+1]
	}
	return rec
}

// Tuple 以下标为字段 ID 构造 record
func Tuple(values ...any) Record {
	rec := make(Record, len(values))
	for i, v := range values {
		rec[uint32(i)] = v
	}
	return rec
}

// Get 按字段名取值
func (r Record) Get(name string) (any, bool) {
	v, ok := r[Hash(name)]
	return v, ok
}

// Variant variant 值
type Variant struct {
	ID    uint32
	Value any
}

// Tag 构造 variant
func Tag(name string, value any) Variant {
	return Variant{ID: Hash(name), Value: value}
}

// Is 是否为指定标签
func (v Variant) Is(name string) bool {
	return v.ID == Hash(name)
}

// String 便于日志与错误信息
func (v Variant) String() string {
	return fmt.Sprintf("variant{%d=%v}", v.ID, v.Value)
}

// === 解码结果取值辅助 ===

// AsBool bool
func AsBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, typeError("bool", v)
	}
	return b, nil
}

// AsNat nat 或任意无符号定长整数
func AsNat(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil || n.Sign() < 0 {
			return nil, typeError("nat", v)
		}
		return n, nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	default:
		return nil, typeError("nat", v)
	}
}

// AsInt int 或 nat
func AsInt(v any) (*big.Int, error) {
	switch n := v.(type) {
	case *big.Int:
		if n == nil {
			return nil, typeError("int", v)
		}
		return n, nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	default:
		return AsNat(v)
	}
}

// AsUint64 nat64 或不超过 2^64-1 的 nat
func AsUint64(v any) (uint64, error) {
	n, err := AsNat(v)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("candid: 数值 %s 超出 uint64", n)
	}
	return n.Uint64(), nil
}

// AsText text
func AsText(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", typeError("text", v)
	}
	return s, nil
}

// AsIdentity principal
func AsIdentity(v any) (types.Identity, error) {
	id, ok := v.(types.Identity)
	if !ok {
		return types.Identity{}, typeError("principal", v)
	}
	return id, nil
}

// AsBlob vec nat8
func AsBlob(v any) ([]byte, error) {
	switch b := v.(type) {
	case []byte:
		return b, nil
	case []any:
		out := make([]byte, len(b))
		for i, item := range b {
			n, ok := item.(uint8)
			if !ok {
				return nil, typeError("blob", v)
			}
			out[i] = n
		}
		return out, nil
	default:
		return nil, typeError("blob", v)
	}
}

// AsOpt opt
func AsOpt(v any) (Opt, error) {
	o, ok := v.(Opt)
	if !ok {
		return Opt{}, typeError("opt", v)
	}
	return o, nil
}

// AsVec vec（blob 会被展开为 uint8 列表）
func AsVec(v any) ([]any, error) {
	switch items := v.(type) {
	case []any:
		return items, nil
	case []byte:
		out := make([]any, len(items))
		for i, b := range items {
			out[i] = b
		}
		return out, nil
	default:
		return nil, typeError("vec", v)
	}
}

// AsRecord record
func AsRecord(v any) (Record, error) {
	r, ok := v.(Record)
	if !ok {
		return nil, typeError("record", v)
	}
	return r, nil
}

// AsVariant variant
func AsVariant(v any) (Variant, error) {
	vr, ok := v.(Variant)
	if !ok {
		return Variant{}, typeError("variant", v)
	}
	return vr, nil
}

// Field 取必填字段
func (r Record) Field(name string) (any, error) {
	v, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("candid: 缺少字段 %q", name)
	}
	return v, nil
}

// OptField 取 opt 字段，字段缺失视为 null
func (r Record) OptField(name string) (Opt, error) {
	v, ok := r.Get(name)
	if !ok || v == nil {
		return None, nil
	}
	return AsOpt(v)
}

func typeError(want string, got any) error {
	return fmt.Errorf("candid: 期望 %s，实际 %T", want, got)
}
