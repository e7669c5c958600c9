package common

import (
	"math/big"
	"sort"
)

// Paginate 返回升序列表中 prev 之后的至多 take 个元素；prev 不在列表中时返回空
func Paginate(ids []*big.Int, prev, take *big.Int) []*big.Int {
	start := 0
	if prev != nil {
		idx := sort.Search(len(ids), func(n int) bool { return ids[n].Cmp(prev) >= 0 })
		if idx == len(ids) || ids[idx].Cmp(prev) != 0 {
			return []*big.Int{}
		}
		start = idx + 1
	}
	end := len(ids)
	if take != nil && take.Cmp(big.NewInt(int64(end-start))) < 0 {
		end = start
		if take.Sign() > 0 {
			end += int(take.Int64())
		}
	}
	return ids[start:end]
}

// SortIDs 条目编号升序排列
func SortIDs(ids []*big.Int) {
	sort.Slice(ids, func(a, b int) bool { return ids[a].Cmp(ids[b]) < 0 })
}
