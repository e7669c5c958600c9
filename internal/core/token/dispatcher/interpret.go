package dispatcher

import (
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// interpret 按固定顺序取第一个给出结果的元数据解释器
func interpret[T any](f *Facade, pick func(token.MetadataInterpreter) (T, bool)) (T, bool) {
	for _, b := range f.bound {
		mi, ok := b.adapter.(token.MetadataInterpreter)
		if !ok {
			continue
		}
		if v, ok := pick(mi); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// TokenMetadataToName 从条目元数据中取名称
func (f *Facade) TokenMetadataToName(metadata types.Metadata) (string, bool) {
	return interpret(f, func(mi token.MetadataInterpreter) (string, bool) {
		return mi.TokenMetadataToName(metadata)
	})
}

func (f *Facade) TokenMetadataToDescription(metadata types.Metadata) (string, bool) {
	return interpret(f, func(mi token.MetadataInterpreter) (string, bool) {
		return mi.TokenMetadataToDescription(metadata)
	})
}

func (f *Facade) TokenMetadataToImage(metadata types.Metadata) (string, bool) {
	return interpret(f, func(mi token.MetadataInterpreter) (string, bool) {
		return mi.TokenMetadataToImage(metadata)
	})
}

func (f *Facade) TokenMetadataToURL(metadata types.Metadata) (string, bool) {
	return interpret(f, func(mi token.MetadataInterpreter) (string, bool) {
		return mi.TokenMetadataToURL(metadata)
	})
}

func (f *Facade) TokenMetadataToAttributes(metadata types.Metadata) ([]types.Attribute, bool) {
	return interpret(f, func(mi token.MetadataInterpreter) ([]types.Attribute, bool) {
		return mi.TokenMetadataToAttributes(metadata)
	})
}
