package dip721v2

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

// 元数据键前缀
const keyPrefix = "dip721v2:"

// collectionMetadata dip721_metadata 应答 → 通用元数据
func collectionMetadata(v any) (types.Metadata, error) {
	f := common.ReadFields(v)
	name := f.Raw("name")
	symbol := f.Raw("symbol")
	logo := f.Raw("logo")
	createdAt := f.Uint64("created_at")
	upgradedAt := f.Uint64("upgraded_at")
	custodians := f.Raw("custodians")
	if err := f.Err(); err != nil {
		return nil, err
	}

	var out types.Metadata
	for _, entry := range []struct {
		key string
		v   any
	}{{"name", name}, {"symbol", symbol}, {"logo", logo}} {
		text, ok, err := optText(entry.v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.key, err)
		}
		if ok {
			out = append(out, types.MetadataEntry{Key: keyPrefix + entry.key, Value: types.TextValue(text)})
		}
	}
	out = append(out,
		types.MetadataEntry{Key: keyPrefix + "created_at", Value: natValue(createdAt)},
		types.MetadataEntry{Key: keyPrefix + "upgraded_at", Value: natValue(upgradedAt)},
	)

	items, err := candid.AsVec(custodians)
	if err != nil {
		return nil, fmt.Errorf("custodians: %w", err)
	}
	list := make([]types.MetadataValue, 0, len(items))
	for _, item := range items {
		id, err := candid.AsIdentity(item)
		if err != nil {
			return nil, fmt.Errorf("custodians: %w", err)
		}
		list = append(list, types.TextValue(id.String()))
	}
	out = append(out, types.MetadataEntry{Key: keyPrefix + "custodians", Value: types.ArrayValue(list...)})
	return out, nil
}

// tokenMetadata TokenMetadata record → 通用元数据，缺省的 opt 字段不出现
func tokenMetadata(v any) (types.Metadata, error) {
	rec, err := candid.AsRecord(v)
	if err != nil {
		return nil, err
	}
	var out types.Metadata
	add := func(key string, value types.MetadataValue) {
		out = append(out, types.MetadataEntry{Key: keyPrefix + key, Value: value})
	}

	optional := []struct {
		key       string
		principal bool
	}{
		{"transferred_at", false},
		{"transferred_by", true},
		{"owner", true},
		{"operator", true},
		{"approved_at", false},
		{"approved_by", true},
	}
	for _, field := range optional {
		value, ok, err := optField(rec, field.key, field.principal)
		if err != nil {
			return nil, err
		}
		if ok {
			add(field.key, value)
		}
	}

	f := common.NewFields(rec)
	burned := f.Raw("is_burned")
	tokenID := f.Nat("token_identifier")
	if err := f.Err(); err != nil {
		return nil, err
	}
	isBurned, err := candid.AsBool(burned)
	if err != nil {
		return nil, fmt.Errorf("is_burned: %w", err)
	}
	add("is_burned", types.NatValue(boolNat(isBurned)))
	add("token_identifier", types.NatValue(tokenID))

	for _, key := range []string{"burned_at", "burned_by"} {
		value, ok, err := optField(rec, key, key == "burned_by")
		if err != nil {
			return nil, err
		}
		if ok {
			add(key, value)
		}
	}

	mintedAt := f.Uint64("minted_at")
	mintedBy := f.Identity("minted_by")
	properties := f.Raw("properties")
	if err := f.Err(); err != nil {
		return nil, err
	}
	add("minted_at", natValue(mintedAt))
	add("minted_by", types.TextValue(mintedBy.String()))

	props, err := propertiesFrom(properties)
	if err != nil {
		return nil, fmt.Errorf("properties: %w", err)
	}
	add("properties", types.MapValue(props))
	return out, nil
}

// propertiesFrom vec record { text; GenericValue }
func propertiesFrom(v any) (types.Metadata, error) {
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make(types.Metadata, 0, len(items))
	for _, item := range items {
		pair, err := candid.AsRecord(item)
		if err != nil {
			return nil, err
		}
		key, err := candid.AsText(pair[0])
		if err != nil {
			return nil, err
		}
		value, err := genericValue(pair[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, types.MetadataEntry{Key: key, Value: value})
	}
	return out, nil
}

// genericValue GenericValue 变体 → 通用元数据值
func genericValue(v any) (types.MetadataValue, error) {
	vr, err := candid.AsVariant(v)
	if err != nil {
		return types.MetadataValue{}, err
	}
	switch {
	case vr.Is("NatContent"), vr.Is("Nat64Content"), vr.Is("Nat32Content"), vr.Is("Nat16Content"), vr.Is("Nat8Content"):
		n, err := candid.AsNat(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.NatValue(n), nil
	case vr.Is("IntContent"), vr.Is("Int64Content"), vr.Is("Int32Content"), vr.Is("Int16Content"), vr.Is("Int8Content"):
		n, err := candid.AsInt(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.IntValue(n), nil
	case vr.Is("FloatContent"):
		f, ok := vr.Value.(float64)
		if !ok {
			return types.MetadataValue{}, fmt.Errorf("FloatContent: 期望 float64，实际 %T", vr.Value)
		}
		return types.TextValue(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case vr.Is("BoolContent"):
		b, err := candid.AsBool(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.NatValue(boolNat(b)), nil
	case vr.Is("BlobContent"):
		b, err := candid.AsBlob(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.BlobValue(b), nil
	case vr.Is("NestedContent"):
		nested, err := propertiesFrom(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.MapValue(nested), nil
	case vr.Is("Principal"):
		id, err := candid.AsIdentity(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.TextValue(id.String()), nil
	case vr.Is("TextContent"):
		s, err := candid.AsText(vr.Value)
		if err != nil {
			return types.MetadataValue{}, err
		}
		return types.TextValue(s), nil
	}
	return types.MetadataValue{}, fmt.Errorf("未知的 GenericValue 标签 %d", vr.ID)
}

// optField 读取 opt nat64 或 opt principal 字段
func optField(rec candid.Record, key string, principal bool) (types.MetadataValue, bool, error) {
	o, err := rec.OptField(key)
	if err != nil || !o.Some {
		return types.MetadataValue{}, false, err
	}
	if principal {
		id, err := candid.AsIdentity(o.Value)
		if err != nil {
			return types.MetadataValue{}, false, fmt.Errorf("%s: %w", key, err)
		}
		return types.TextValue(id.String()), true, nil
	}
	n, err := candid.AsNat(o.Value)
	if err != nil {
		return types.MetadataValue{}, false, fmt.Errorf("%s: %w", key, err)
	}
	return types.NatValue(n), true, nil
}

func optText(v any) (string, bool, error) {
	o, err := candid.AsOpt(v)
	if err != nil || !o.Some {
		return "", false, err
	}
	s, err := candid.AsText(o.Value)
	if err != nil {
		return "", false, err
	}
	return s, true, nil
}

func natValue(n uint64) types.MetadataValue {
	return types.NatValue(new(big.Int).SetUint64(n))
}

func boolNat(b bool) *big.Int {
	if b {
		return big.NewInt(1)
	}
	return big.NewInt(0)
}
