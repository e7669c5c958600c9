package common

import (
	"fmt"

	"github.com/weisyn/tokens/internal/core/codec/candid"
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/pkg/types"
)

// Subaccount opt blob
var Subaccount = candid.OptOf(candid.Blob)

// AccountType record { owner : principal; subaccount : opt blob }
var AccountType = candid.RecordOf(
	candid.F("owner", candid.Principal),
	candid.F("subaccount", Subaccount),
)

// AccountArg 账户文本形式 → Candid account record
func AccountArg(text string) (candid.Record, error) {
	account, err := address.Decode(text)
	if err != nil {
		return nil, err
	}
	return AccountRecord(account), nil
}

// AccountRecord 账户 → Candid account record
func AccountRecord(account types.Account) candid.Record {
	return candid.Fields(
		"owner", account.Owner,
		"subaccount", SubaccountOpt(account.Subaccount),
	)
}

// AccountText Candid account record → 账户文本形式
func AccountText(v any) (string, error) {
	rec, err := candid.AsRecord(v)
	if err != nil {
		return "", err
	}
	f := NewFields(rec)
	owner := f.Identity("owner")
	sub := f.OptSubaccount("subaccount")
	if err := f.Err(); err != nil {
		return "", err
	}
	return address.Encode(types.NewAccount(owner, sub)), nil
}

// SubaccountOpt 子账户 → opt blob
func SubaccountOpt(sub *types.Subaccount) candid.Opt {
	if sub == nil {
		return candid.None
	}
	return candid.Some(sub.Bytes())
}

// SubaccountFromOpt opt blob → 子账户，长度必须为 32
func SubaccountFromOpt(o candid.Opt) (*types.Subaccount, error) {
	if !o.Some {
		return nil, nil
	}
	b, err := candid.AsBlob(o.Value)
	if err != nil {
		return nil, err
	}
	sub, err := types.SubaccountFromBytes(b)
	if err != nil {
		return nil, fmt.Errorf("subaccount: %w", err)
	}
	return &sub, nil
}
