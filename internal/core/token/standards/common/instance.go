package common

import (
	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Base 适配器实例的公共部分：调用器与绑定时确定的能力集合
type Base struct {
	Caller
	caps types.OperationSet
}

// NewBase 按能力表与已选标准计算能力集合
func NewBase(standard string, contract types.Identity, transport token.Transport, table types.CapabilityTable, accepted types.StandardSet) Base {
	return Base{
		Caller: NewCaller(standard, contract, transport),
		caps:   table.Resolve(accepted),
	}
}

// Capabilities 绑定时确定的能力集合
func (b Base) Capabilities() types.OperationSet {
	return b.caps
}

// Descriptor 从名称与地址构造标准描述
func Descriptor(name, url string) types.StandardDescriptor {
	return types.StandardDescriptor{Name: name, URL: url}
}

// SupportedStandardsFrom 解码 vec record { name : text; url : text }
func SupportedStandardsFrom(v any) ([]types.StandardDescriptor, error) {
	items, err := candid.AsVec(v)
	if err != nil {
		return nil, err
	}
	out := make([]types.StandardDescriptor, 0, len(items))
	for _, item := range items {
		f := ReadFields(item)
		d := Descriptor(f.Text("name"), f.Text("url"))
		if err := f.Err(); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
