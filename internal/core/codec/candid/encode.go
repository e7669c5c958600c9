package candid

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"unicode/utf8"

	"github.com/aviate-labs/agent-go/candid/idl"
	"github.com/aviate-labs/agent-go/principal"

	"github.com/weisyn/tokens/pkg/types"
)

// Arg 带类型的参数
type Arg struct {
	Type  *Type
	Value any
}

// A 构造参数
func A(t *Type, v any) Arg { return Arg{Type: t, Value: v} }

// Encode 编码参数列表
//
// 类型与值先转换为 idl 表示，再交给 idl.Encode 生成消息。
func Encode(args ...Arg) ([]byte, error) {
	idlTypes := make([]idl.Type, len(args))
	idlValues := make([]any, len(args))
	for i, a := range args {
		t, err := toIDLType(a.Type, 0)
		if err != nil {
			return nil, fmt.Errorf("参数 %d 类型: %w", i, err)
		}
		v, err := toIDLValue(a.Type, a.Value, 0)
		if err != nil {
			return nil, fmt.Errorf("参数 %d 值: %w", i, err)
		}
		idlTypes[i] = t
		idlValues[i] = v
	}
	return idl.Encode(idlTypes, idlValues)
}

// MustEncode 编码失败时 panic，用于编译期已知的参数
func MustEncode(args ...Arg) []byte {
	out, err := Encode(args...)
	if err != nil {
		panic(err)
	}
	return out
}

// label 返回哈希值等于字段 ID 的标签名
//
// 有名字段直接用名字；元组下标等无名字段按 223 进制展开为 rune 序列，
// 使 idl.Hash 的结果恰好为 ID。
func label(f Field) string {
	if f.Name != "" && Hash(f.Name) == f.ID {
		return f.Name
	}
	if f.ID == 0 {
		return "\x00"
	}
	var digits []rune
	for id := f.ID; id > 0; id /= 223 {
		digits = append([]rune{rune(id % 223)}, digits...)
	}
	return string(digits)
}

func toIDLType(t *Type, depth int) (idl.Type, error) {
	if t == nil {
		return nil, errors.New("类型为空")
	}
	if depth > maxDepth {
		return nil, errors.New("类型嵌套过深")
	}
	switch t.Kind {
	case KindNull:
		return new(idl.NullType), nil
	case KindBool:
		return new(idl.BoolType), nil
	case KindNat:
		return new(idl.NatType), nil
	case KindInt:
		return new(idl.IntType), nil
	case KindNat8:
		return idl.Nat8Type(), nil
	case KindNat16:
		return idl.Nat16Type(), nil
	case KindNat32:
		return idl.Nat32Type(), nil
	case KindNat64:
		return idl.Nat64Type(), nil
	case KindInt8:
		return idl.Int8Type(), nil
	case KindInt16:
		return idl.Int16Type(), nil
	case KindInt32:
		return idl.Int32Type(), nil
	case KindInt64:
		return idl.Int64Type(), nil
	case KindFloat32:
		return idl.Float32Type(), nil
	case KindFloat64:
		return idl.Float64Type(), nil
	case KindText:
		return new(idl.TextType), nil
	case KindReserved:
		return new(idl.ReservedType), nil
	case KindEmpty:
		return new(idl.EmptyType), nil
	case KindPrincipal:
		return new(idl.PrincipalType), nil
	case KindOpt, KindVec:
		elem, err := toIDLType(t.Elem, depth+1)
		if err != nil {
			return nil, err
		}
		if t.Kind == KindOpt {
			return idl.NewOptionalType(elem), nil
		}
		return idl.NewVectorType(elem), nil
	case KindRecord, KindVariant:
		fields := make([]idl.FieldType, len(t.Fields))
		for i, f := range t.Fields {
			if i > 0 && f.ID <= t.Fields[i-1].ID {
				return nil, fmt.Errorf("%s 字段 ID 重复或未排序", t.Kind)
			}
			ft, err := toIDLType(f.Type, depth+1)
			if err != nil {
				return nil, err
			}
			fields[i] = idl.FieldType{Name: label(f), Type: ft}
		}
		if t.Kind == KindRecord {
			return &idl.RecordType{Fields: fields}, nil
		}
		return &idl.VariantType{Fields: fields}, nil
	default:
		return nil, fmt.Errorf("不支持的类型 %s", t.Kind)
	}
}

func toIDLValue(t *Type, v any, depth int) (any, error) {
	if t == nil {
		return nil, errors.New("类型为空")
	}
	if depth > maxDepth {
		return nil, errors.New("值嵌套过深")
	}
	switch t.Kind {
	case KindNull, KindReserved, KindEmpty:
		return nil, nil
	case KindBool:
		b, ok := deref(v).(bool)
		if !ok {
			return nil, typeError("bool", v)
		}
		return b, nil
	case KindNat:
		n, err := toBig(v)
		if err != nil || n.Sign() < 0 {
			return nil, typeError("nat", v)
		}
		return idl.NewBigNat(n), nil
	case KindInt:
		n, err := toBig(v)
		if err != nil {
			return nil, typeError("int", v)
		}
		return idl.NewBigInt(n), nil
	case KindNat8, KindNat16, KindNat32, KindNat64:
		return fixedNat(t.Kind, v)
	case KindInt8, KindInt16, KindInt32, KindInt64:
		return fixedInt(t.Kind, v)
	case KindFloat32:
		f, ok := deref(v).(float32)
		if !ok {
			return nil, typeError("float32", v)
		}
		return f, nil
	case KindFloat64:
		f, ok := deref(v).(float64)
		if !ok {
			return nil, typeError("float64", v)
		}
		return f, nil
	case KindText:
		s, ok := deref(v).(string)
		if !ok || !utf8.ValidString(s) {
			return nil, typeError("text", v)
		}
		return s, nil
	case KindPrincipal:
		id, ok := deref(v).(types.Identity)
		if !ok {
			return nil, typeError("principal", v)
		}
		return principal.Principal{Raw: id.Bytes()}, nil
	case KindOpt:
		if o, ok := v.(Opt); ok {
			if !o.Some {
				return nil, nil
			}
			v = o.Value
		} else if isNil(v) {
			return nil, nil
		}
		return toIDLValue(t.Elem, deref(v), depth+1)
	case KindVec:
		v = deref(v)
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, typeError("vec", v)
		}
		items := make([]any, rv.Len())
		for i := range items {
			item, err := toIDLValue(t.Elem, rv.Index(i).Interface(), depth+1)
			if err != nil {
				return nil, fmt.Errorf("vec[%d]: %w", i, err)
			}
			items[i] = item
		}
		return items, nil
	case KindRecord:
		rec, ok := v.(Record)
		if !ok {
			return nil, typeError("record", v)
		}
		out := make(map[string]any, len(t.Fields))
		for _, f := range t.Fields {
			fv, present := rec[f.ID]
			if !present && !optional(f.Type) {
				return nil, fmt.Errorf("record 缺少字段 %s(%d)", f.Name, f.ID)
			}
			item, err := toIDLValue(f.Type, fv, depth+1)
			if err != nil {
				return nil, fmt.Errorf("字段 %s: %w", f.Name, err)
			}
			out[label(f)] = item
		}
		return out, nil
	case KindVariant:
		vr, ok := v.(Variant)
		if !ok {
			return nil, typeError("variant", v)
		}
		idx, found := t.FieldByID(vr.ID)
		if !found {
			return nil, fmt.Errorf("variant 无标签 %d", vr.ID)
		}
		f := t.Fields[idx]
		item, err := toIDLValue(f.Type, vr.Value, depth+1)
		if err != nil {
			return nil, err
		}
		return idl.Variant{Name: label(f), Value: item}, nil
	default:
		return nil, fmt.Errorf("无法编码类型 %s", t.Kind)
	}
}

func optional(t *Type) bool {
	return t.Kind == KindOpt || t.Kind == KindNull || t.Kind == KindReserved
}

func fixedNat(k Kind, v any) (any, error) {
	n, err := toBig(v)
	if err != nil || n.Sign() < 0 || !n.IsUint64() {
		return nil, typeError(k.String(), v)
	}
	u := n.Uint64()
	switch k {
	case KindNat8:
		if u > math.MaxUint8 {
			return nil, typeError("nat8", v)
		}
		return uint8(u), nil
	case KindNat16:
		if u > math.MaxUint16 {
			return nil, typeError("nat16", v)
		}
		return uint16(u), nil
	case KindNat32:
		if u > math.MaxUint32 {
			return nil, typeError("nat32", v)
		}
		return uint32(u), nil
	default:
		return u, nil
	}
}

func fixedInt(k Kind, v any) (any, error) {
	n, err := toBig(v)
	if err != nil || !n.IsInt64() {
		return nil, typeError(k.String(), v)
	}
	i := n.Int64()
	switch k {
	case KindInt8:
		if i < math.MinInt8 || i > math.MaxInt8 {
			return nil, typeError("int8", v)
		}
		return int8(i), nil
	case KindInt16:
		if i < math.MinInt16 || i > math.MaxInt16 {
			return nil, typeError("int16", v)
		}
		return int16(i), nil
	case KindInt32:
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, typeError("int32", v)
		}
		return int32(i), nil
	default:
		return i, nil
	}
}

// toBig 把常见整数类型转为 *big.Int
func toBig(v any) (*big.Int, error) {
	switch n := deref(v).(type) {
	case *big.Int:
		if n == nil {
			return nil, typeError("integer", v)
		}
		return n, nil
	case big.Int:
		return &n, nil
	case int:
		return big.NewInt(int64(n)), nil
	case int8:
		return big.NewInt(int64(n)), nil
	case int16:
		return big.NewInt(int64(n)), nil
	case int32:
		return big.NewInt(int64(n)), nil
	case int64:
		return big.NewInt(n), nil
	case uint:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(n)), nil
	case uint64:
		return new(big.Int).SetUint64(n), nil
	default:
		return nil, typeError("integer", v)
	}
}

// deref 解开非 *big.Int 的指针
func deref(v any) any {
	if _, ok := v.(*big.Int); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		return rv.Elem().Interface()
	}
	return v
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
