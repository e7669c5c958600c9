package ext

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/big"

	"github.com/weisyn/tokens/pkg/types"
)

// tokenIDPrefix 条目标识的域分隔前缀
var tokenIDPrefix = []byte("\x0Atid")

// TokenIdentifier 条目标识 = principal("\x0Atid" ∥ canister ∥ u32be(index))
func TokenIdentifier(canister types.Identity, index uint32) (types.Identity, error) {
	raw := make([]byte, 0, len(tokenIDPrefix)+len(canister.Bytes())+4)
	raw = append(raw, tokenIDPrefix...)
	raw = append(raw, canister.Bytes()...)
	raw = binary.BigEndian.AppendUint32(raw, index)
	return types.IdentityFromBytes(raw)
}

// TokenIndex 从条目标识中取出编号
func TokenIndex(id types.Identity) (uint32, error) {
	raw := id.Bytes()
	if len(raw) < len(tokenIDPrefix)+4 || !bytes.HasPrefix(raw, tokenIDPrefix) {
		return 0, fmt.Errorf("%w: 不是 EXT 条目标识 %s", types.ErrInvalidInput, id)
	}
	return binary.BigEndian.Uint32(raw[len(raw)-4:]), nil
}

// TokenIndexFromText 文本形式的条目标识 → 编号
func TokenIndexFromText(text string) (uint32, error) {
	id, err := types.ParseIdentity(text)
	if err != nil {
		return 0, err
	}
	return TokenIndex(id)
}

// indexOf 通用条目编号 → u32
func indexOf(tokenID *big.Int) (uint32, error) {
	if tokenID == nil || tokenID.Sign() < 0 || !tokenID.IsUint64() || tokenID.Uint64() > math.MaxUint32 {
		return 0, fmt.Errorf("%w: EXT 条目编号必须在 u32 范围内: %v", types.ErrInvalidInput, tokenID)
	}
	return uint32(tokenID.Uint64()), nil
}
