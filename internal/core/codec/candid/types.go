// Package candid 在 agent-go 的 candid/idl 之上提供代币接口使用的类型描述与值表示
//
// 编码覆盖基本类型、principal、opt、vec、record、variant；
// 解码额外支持递归类型与 service 引用，func 引用返回 ErrUnsupportedType。
package candid

import (
	"fmt"
	"sort"
	"strings"
)

// Kind 类型种类
type Kind int

// 类型种类，opcode 为线上 SLEB128 编码值
const (
	KindNull Kind = iota
	KindBool
	KindNat
	KindInt
	KindNat8
	KindNat16
	KindNat32
	KindNat64
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindText
	KindReserved
	KindEmpty
	KindPrincipal
	KindOpt
	KindVec
	KindRecord
	KindVariant
	KindFunc
	KindService
)

var opcodes = map[Kind]int64{
	KindNull:      -1,
	KindBool:      -2,
	KindNat:       -3,
	KindInt:       -4,
	KindNat8:      -5,
	KindNat16:     -6,
	KindNat32:     -7,
	KindNat64:     -8,
	KindInt8:      -9,
	KindInt16:     -10,
	KindInt32:     -11,
	KindInt64:     -12,
	KindFloat32:   -13,
	KindFloat64:   -14,
	KindText:      -15,
	KindReserved:  -16,
	KindEmpty:     -17,
	KindOpt:       -18,
	KindVec:       -19,
	KindRecord:    -20,
	KindVariant:   -21,
	KindFunc:      -22,
	KindService:   -23,
	KindPrincipal: -24,
}

var kindByOpcode = func() map[int64]Kind {
	out := make(map[int64]Kind, len(opcodes))
	for k, op := range opcodes {
		out[op] = k
	}
	return out
}()

var kindNames = map[Kind]string{
	KindNull: "null", KindBool: "bool", KindNat: "nat", KindInt: "int",
	KindNat8: "nat8", KindNat16: "nat16", KindNat32: "nat32", KindNat64: "nat64",
	KindInt8: "int8", KindInt16: "int16", KindInt32: "int32", KindInt64: "int64",
	KindFloat32: "float32", KindFloat64: "float64", KindText: "text",
	KindReserved: "reserved", KindEmpty: "empty", KindPrincipal: "principal",
	KindOpt: "opt", KindVec: "vec", KindRecord: "record", KindVariant: "variant",
	KindFunc: "func", KindService: "service",
}

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) primitive() bool {
	return k < KindOpt
}

// Field record/variant 字段
type Field struct {
	ID   uint32
	Name string
	Type *Type
}

// Type Candid 类型
type Type struct {
	Kind   Kind
	Elem   *Type   // opt / vec
	Fields []Field // record / variant，按 ID 升序
}

func (t *Type) String() string {
	return t.describe(0)
}

func (t *Type) describe(depth int) string {
	if depth > 8 {
		return "..."
	}
	switch t.Kind {
	case KindOpt, KindVec:
		return t.Kind.String() + " " + t.Elem.describe(depth+1)
	case KindRecord, KindVariant:
		parts := make([]string, 0, len(t.Fields))
		for _, f := range t.Fields {
			name := f.Name
			if name == "" {
				name = fmt.Sprint(f.ID)
			}
			parts = append(parts, name+":"+f.Type.describe(depth+1))
		}
		return t.Kind.String() + " {" + strings.Join(parts, "; ") + "}"
	default:
		return t.Kind.String()
	}
}

// FieldByID 按字段 ID 查找，返回下标
func (t *Type) FieldByID(id uint32) (int, bool) {
	i := sort.Search(len(t.Fields), func(i int) bool { return t.Fields[i].ID >= id })
	if i < len(t.Fields) && t.Fields[i].ID == id {
		return i, true
	}
	return -1, false
}

// 基本类型单例
var (
	Null      = &Type{Kind: KindNull}
	Bool      = &Type{Kind: KindBool}
	Nat       = &Type{Kind: KindNat}
	Int       = &Type{Kind: KindInt}
	Nat8      = &Type{Kind: KindNat8}
	Nat16     = &Type{Kind: KindNat16}
	Nat32     = &Type{Kind: KindNat32}
	Nat64     = &Type{Kind: KindNat64}
	Int8      = &Type{Kind: KindInt8}
	Int16     = &Type{Kind: KindInt16}
	Int32     = &Type{Kind: KindInt32}
	Int64     = &Type{Kind: KindInt64}
	Float32   = &Type{Kind: KindFloat32}
	Float64   = &Type{Kind: KindFloat64}
	Text      = &Type{Kind: KindText}
	Reserved  = &Type{Kind: KindReserved}
	Empty     = &Type{Kind: KindEmpty}
	Principal = &Type{Kind: KindPrincipal}
	Blob      = VecOf(Nat8)
)

// OptOf opt T
func OptOf(elem *Type) *Type { return &Type{Kind: KindOpt, Elem: elem} }

// VecOf vec T
func VecOf(elem *Type) *Type { return &Type{Kind: KindVec, Elem: elem} }

// F 命名字段
func F(name string, t *Type) Field { return Field{ID: Hash(name), Name: name, Type: t} }

// RecordOf record { ... }
func RecordOf(fields ...Field) *Type {
	return &Type{Kind: KindRecord, Fields: sortFields(fields)}
}

// VariantOf variant { ... }
func VariantOf(fields ...Field) *Type {
	return &Type{Kind: KindVariant, Fields: sortFields(fields)}
}

// TupleOf 以 0..n-1 为字段 ID 的 record
func TupleOf(elems ...*Type) *Type {
	fields := make([]Field, len(elems))
	for i, e := range elems {
		fields[i] = Field{ID: uint32(i), Type: e}
	}
	return &Type{Kind: KindRecord, Fields: fields}
}

func sortFields(fields []Field) []Field {
	out := append([]Field(nil), fields...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
