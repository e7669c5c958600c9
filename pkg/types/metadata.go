package types

import (
	"encoding/base64"
	"encoding/json"
	"math/big"
)

// MetadataKind 元数据值的变体标签
type MetadataKind string

const (
	MetadataBlob  MetadataKind = "Blob"
	MetadataText  MetadataKind = "Text"
	MetadataNat   MetadataKind = "Nat"
	MetadataInt   MetadataKind = "Int"
	MetadataArray MetadataKind = "Array"
	MetadataMap   MetadataKind = "Map"
)

// MetadataValue 合约元数据值（ICRC-3 Value 形状）
type MetadataValue struct {
	Kind  MetadataKind
	Blob  []byte
	Text  string
	Num   *big.Int // Nat 与 Int 共用
	Array []MetadataValue
	Map   Metadata
}

// MetadataEntry 键值对
type MetadataEntry struct {
	Key   string
	Value MetadataValue
}

// Metadata 有序键值列表
type Metadata []MetadataEntry

// TextValue 构造 Text 值
func TextValue(s string) MetadataValue { return MetadataValue{Kind: MetadataText, Text: s} }

// NatValue 构造 Nat 值
func NatValue(n *big.Int) MetadataValue { return MetadataValue{Kind: MetadataNat, Num: n} }

// IntValue 构造 Int 值
func IntValue(n *big.Int) MetadataValue { return MetadataValue{Kind: MetadataInt, Num: n} }

// BlobValue 构造 Blob 值
func BlobValue(b []byte) MetadataValue { return MetadataValue{Kind: MetadataBlob, Blob: b} }

// ArrayValue 构造 Array 值
func ArrayValue(items ...MetadataValue) MetadataValue {
	return MetadataValue{Kind: MetadataArray, Array: items}
}

// MapValue 构造 Map 值
func MapValue(entries Metadata) MetadataValue { return MetadataValue{Kind: MetadataMap, Map: entries} }

// Get 按键查找首个条目
func (m Metadata) Get(key string) (MetadataValue, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return MetadataValue{}, false
}

// Text 按键取 Text 值
func (m Metadata) Text(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok || v.Kind != MetadataText {
		return "", false
	}
	return v.Text, true
}

// Nat 按键取 Nat 值
func (m Metadata) Nat(key string) (*big.Int, bool) {
	v, ok := m.Get(key)
	if !ok || v.Kind != MetadataNat || v.Num == nil {
		return nil, false
	}
	return v.Num, true
}

var maxSafeInteger = big.NewInt(1<<53 - 1)

// JSONValue 转为 JSON 友好的值
//
// Blob 转 base64；超出 2^53-1 的整数转十进制字符串。
func (v MetadataValue) JSONValue() any {
	switch v.Kind {
	case MetadataBlob:
		return base64.StdEncoding.EncodeToString(v.Blob)
	case MetadataText:
		return v.Text
	case MetadataNat, MetadataInt:
		if v.Num == nil {
			return 0
		}
		if new(big.Int).Abs(v.Num).Cmp(maxSafeInteger) <= 0 {
			return v.Num.Int64()
		}
		return v.Num.String()
	case MetadataArray:
		out := make([]any, 0, len(v.Array))
		for _, item := range v.Array {
			out = append(out, item.JSONValue())
		}
		return out
	case MetadataMap:
		return v.Map.JSONValue()
	default:
		return nil
	}
}

// JSONValue 转为 JSON 对象
func (m Metadata) JSONValue() map[string]any {
	out := make(map[string]any, len(m))
	for _, e := range m {
		out[e.Key] = e.Value.JSONValue()
	}
	return out
}

// MarshalJSON 实现 json.Marshaler
func (v MetadataValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.JSONValue())
}

// MarshalJSON 实现 json.Marshaler
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.JSONValue())
}

// Attribute OpenSea 风格的条目属性
type Attribute struct {
	Value       any    `json:"value"`
	TraitType   string `json:"traitType"`
	DisplayType string `json:"displayType,omitempty"`
}
