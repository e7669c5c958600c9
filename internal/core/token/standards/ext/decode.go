package ext

import (
	"fmt"
	"math/big"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/token/standards/common"
	"github.com/weisyn/tokens/pkg/types"
)

// DecodeCall 解码 EXT 方法调用
func (a *Adapter) DecodeCall(encoding types.Encoding, method string, raw []byte) (*types.CallDescription, error) {
	if encoding != types.EncodingCandid {
		return nil, nil
	}

	switch method {
	case "getTokens":
		return types.NewCall(types.OpTokens), nil

	case "tokens":
		values, err := common.CandidArgs(raw, 1)
		if err != nil {
			return nil, err
		}
		account, err := candid.AsText(values[0])
		if err != nil {
			return nil, err
		}
		return types.NewCall(types.OpTokensOf, account), nil

	case "transfer":
		f, err := common.CandidRecordArg(raw)
		if err != nil {
			return nil, err
		}
		tokenText := f.Text("token")
		to := f.Raw("to")
		memo := f.Raw("memo")
		sub := f.OptSubaccount("subaccount")
		if err := f.Err(); err != nil {
			return nil, err
		}
		index, err := TokenIndexFromText(tokenText)
		if err != nil {
			return nil, err
		}
		recipient, err := userText(to)
		if err != nil {
			return nil, err
		}
		args := types.TransferTokenArgs{
			TokenID:        new(big.Int).SetUint64(uint64(index)),
			To:             recipient,
			FromSubaccount: sub,
		}
		if args.Memo, err = candid.AsBlob(memo); err != nil {
			return nil, err
		}
		return types.NewCall(types.OpTransferToken, args), nil
	}
	return nil, nil
}

// userText User 变体 → 账户哈希或身份文本
func userText(v any) (string, error) {
	vr, err := candid.AsVariant(v)
	if err != nil {
		return "", err
	}
	switch {
	case vr.Is("address"):
		return candid.AsText(vr.Value)
	case vr.Is("principal"):
		id, err := candid.AsIdentity(vr.Value)
		if err != nil {
			return "", err
		}
		return id.String(), nil
	}
	return "", fmt.Errorf("未知的 User 标签 %d", vr.ID)
}
