package common

import (
	"fmt"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/pkg/types"
)

// MetadataFrom 解码 vec record { text; Value }
func MetadataFrom(v any) (types.Metadata, error) {
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make(types.Metadata, 0, len(items))
	for i, item := range items {
		pair, err := candid.AsRecord(item)
		if err != nil {
			return nil, fmt.Errorf("metadata[%d]: %w", i, err)
		}
		key, err := candid.AsText(pair[0])
		if err != nil {
			return nil, fmt.Errorf("metadata[%d] key: %w", i, err)
		}
		value, err := MetadataValueFrom(pair[1])
		if err != nil {
			return nil, fmt.Errorf("metadata[%s]: %w", key, err)
		}
		out = append(out, types.MetadataEntry{Key: key, Value: value})
	}
	return out, nil
}

// MetadataValueFrom 解码 Value 变体（Nat/Int/Text/Blob/Array/Map，兼容 Nat64/Int64）
func MetadataValueFrom(v any) (types.MetadataValue, error) {
	vr, err := candid.AsVariant(v)
	if err != nil {
		return types.MetadataValue{}, err
	}
	switch {
	case vr.Is("Nat"), vr.Is("Nat64"), vr.Is("Nat32"), vr.Is("Nat16"), vr.Is("Nat8"):
		n, err := candid.AsNat(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.NatValue(n), nil
	case vr.Is("Int"), vr.Is("Int64"), vr.Is("Int32"), vr.Is("Int16"), vr.Is("Int8"):
		n, err := candid.AsInt(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.IntValue(n), nil
	case vr.Is("Text"):
		s, err := candid.AsText(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.TextValue(s), nil
	case vr.Is("Blob"):
		b, err := candid.AsBlob(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.BlobValue(b), nil
	case vr.Is("Array"):
		items, err := candid.AsVec(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		values := make([]types.MetadataValue, 0, len(items))
		for _, item := range items {
			value, err := MetadataValueFrom(item)
			if err != nil {
				return types.MetadataValue{}, err
			}
			values = append(values, value)
		}
		return types.ArrayValue(values...), nil
	case vr.Is("Map"):
		entries, err := MetadataFrom(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.MapValue(entries), nil
	default:
		return types.MetadataValue{}, fmt.Errorf("不支持的元数据标签 %d", vr.ID)
	}
}
