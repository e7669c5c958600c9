package types

import "sort"

// 已知代币标准名称
const (
	StandardICRC1            = "ICRC-1"
	StandardICRC2            = "ICRC-2"
	StandardICRC4            = "ICRC-4"
	StandardICRC7            = "ICRC-7"
	StandardICRC10           = "ICRC-10"
	StandardDIP20            = "DIP-20"
	StandardDIP721V2         = "DIP-721-V2"
	StandardDIP721V2Approval = "DIP-721-V2-APPROVAL"
	StandardEXTCommon        = "@ext/common"
	StandardEXTNonFungible   = "@ext/nonfungible"
)

// StandardDescriptor 合约声明（或探测得到）的一个标准
type StandardDescriptor struct {
	Name string `json:"name" cbor:"name"`
	URL  string `json:"url" cbor:"url"`
}

// StandardSet 标准名称集合
type StandardSet map[string]struct{}

// NewStandardSet 由名称列表构造集合
func NewStandardSet(names ...string) StandardSet {
	set := make(StandardSet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// StandardSetOf 由描述列表构造集合
func StandardSetOf(descriptors []StandardDescriptor) StandardSet {
	set := make(StandardSet, len(descriptors))
	for _, d := range descriptors {
		set[d.Name] = struct{}{}
	}
	return set
}

// Has 是否包含
func (s StandardSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// ContainsAll names 是否全部在集合中
func (s StandardSet) ContainsAll(names []string) bool {
	for _, n := range names {
		if !s.Has(n) {
			return false
		}
	}
	return true
}

// Names 按字典序返回名称
func (s StandardSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// DedupeStandards 按名称去重，保留首次出现
func DedupeStandards(list []StandardDescriptor) []StandardDescriptor {
	seen := make(map[string]struct{}, len(list))
	out := make([]StandardDescriptor, 0, len(list))
	for _, d := range list {
		if _, ok := seen[d.Name]; ok {
			continue
		}
		seen[d.Name] = struct{}{}
		out = append(out, d)
	}
	return out
}
