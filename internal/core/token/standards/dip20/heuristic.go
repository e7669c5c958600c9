package dip20

import (
	"context"
	"errors"
	"fmt"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

// 两个不会持有私钥的固定身份，它们之间的授权额度必然为 0
var (
	probeOwner   = types.MustParseIdentity("s7l4m-kbynv-wmpuo-li4xn-vlotx-ulyj6-afz7m-npdis-ajee4-xx5jj-tae")
	probeSpender = types.MustParseIdentity("kk4n5-atwef-77o6m-mour6-pzmjs-qyjwn-pwo7q-75u2d-plgjc-sefao-pae")
)

// ErrNotDIP20 合约行为不符合 DIP-20
var ErrNotDIP20 = errors.New("dip20: contract does not behave like DIP-20")

// probeHeuristic 尽力判断合约是否为 DIP-20：
//  1. getMetadata 返回完整的 DIP-20 元数据 record
//  2. 两个固定外部身份之间的 allowance 恰好为 0
//
// 结果只与其他适配器的自描述结果取并集，不覆盖它们。
func probeHeuristic(ctx context.Context, caller common.Caller) error {
	v, err := caller.QueryValue(ctx, "getMetadata")
	if err != nil {
		return err
	}
	if _, err := readTokenInfo(v); err != nil {
		return fmt.Errorf("%w: getMetadata: %v", ErrNotDIP20, err)
	}

	v, err = caller.QueryValue(ctx, "allowance",
		candid.A(candid.Principal, probeOwner),
		candid.A(candid.Principal, probeSpender),
	)
	if err != nil {
		return err
	}
	allowance, err := candid.AsNat(v)
	if err != nil {
		return fmt.Errorf("%w: allowance: %v", ErrNotDIP20, err)
	}
	if allowance.Sign() != 0 {
		return fmt.Errorf("%w: allowance 为 %s", ErrNotDIP20, allowance)
	}
	return nil
}
