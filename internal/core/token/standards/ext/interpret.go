package ext

import "github.com/weisyn/tokens/pkg/types"

// TokenMetadataToName EXT 条目没有名称
func (a *Adapter) TokenMetadataToName(types.Metadata) (string, bool) {
	return "", false
}

// TokenMetadataToDescription EXT 条目没有描述
func (a *Adapter) TokenMetadataToDescription(types.Metadata) (string, bool) {
	return "", false
}

// TokenMetadataToImage @ext/nonfungible:image
func (a *Adapter) TokenMetadataToImage(metadata types.Metadata) (string, bool) {
	return metadata.Text(MetadataImage)
}

// TokenMetadataToURL @ext/nonfungible:url
func (a *Adapter) TokenMetadataToURL(metadata types.Metadata) (string, bool) {
	return metadata.Text(MetadataURL)
}

// TokenMetadataToAttributes @ext/nonfungible:attributes 的 Map 逐项转为属性
func (a *Adapter) TokenMetadataToAttributes(metadata types.Metadata) ([]types.Attribute, bool) {
	v, ok := metadata.Get(MetadataAttributes)
	if !ok || v.Kind != types.MetadataMap {
		return nil, false
	}
	out := make([]types.Attribute, 0, len(v.Map))
	for _, entry := range v.Map {
		out = append(out, types.Attribute{Value: entry.Value.JSONValue(), TraitType: entry.Key})
	}
	return out, true
}
