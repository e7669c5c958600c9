// Package crypto 定义账户地址编解码接口
//
// 📍 **账户地址编解码 (Account Address Codec)**
//
// 支持三种地址形式：
// - 纯身份文本：xxxxx-xxxxx-...-cai
// - 身份+子账户文本形式：<身份文本>-<校验和>.<去前导零的子账户十六进制>
// - 旧式哈希形式：hex(crc32(h) ∥ h)，单向，无法还原账户
package crypto

import "github.com/weisyn/tokens/pkg/types"

// AccountCodec 账户地址编解码器
type AccountCodec interface {
	// EncodeAccount 编码为账户文本形式；subaccount 为 nil 或全零时省略
	EncodeAccount(owner types.Identity, subaccount []byte) (string, error)

	// DecodeAccount 解析账户文本形式或纯身份文本，拒绝哈希形式
	DecodeAccount(text string) (types.Account, error)

	// HashAccount 计算旧式账户哈希形式
	HashAccount(account types.Account) string

	// IsHashForm 仅做结构校验，不保证对应真实账户
	IsHashForm(text string) bool

	// IsWellFormedAccount DecodeAccount 能否成功
	IsWellFormedAccount(text string) bool
}
