package address

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	cryptointf "github.com/weisyn/tokens/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/tokens/pkg/types"
	"github.com/weisyn/tokens/pkg/utils/checksum"
)

// 账户地址常量
const (
	// AccountHashLength 哈希形式中摘要部分长度（SHA-224）
	AccountHashLength = sha256.Size224
	// MaxSubaccountHexLength 子账户十六进制最大长度
	MaxSubaccountHexLength = types.SubaccountLength * 2
)

// accountDomainSeparator 哈希形式的域分隔前缀
var accountDomainSeparator = []byte("\x0Aaccount-id")

// AccountService 账户地址编解码服务
//
// 无状态，可并发使用：
// - 文本形式：身份文本 + 7 字符 base32 校验和 + 压缩子账户
// - 哈希形式：SHA-224 域分隔摘要，带 CRC-32 前缀
type AccountService struct{}

// 确保AccountService实现了AccountCodec接口
var _ cryptointf.AccountCodec = (*AccountService)(nil)

// NewAccountService 创建账户地址服务
func NewAccountService() *AccountService {
	return &AccountService{}
}

// EncodeAccount 编码账户文本形式
//
// subaccount 必须为 nil 或恰好 32 字节，否则返回 ErrInvalidInput。
func (s *AccountService) EncodeAccount(owner types.Identity, subaccount []byte) (string, error) {
	if subaccount == nil {
		return owner.String(), nil
	}
	sub, err := types.SubaccountFromBytes(subaccount)
	if err != nil {
		return "", err
	}
	return Encode(types.NewAccount(owner, &sub)), nil
}

// Encode 编码账户，默认子账户省略为纯身份文本
func Encode(account types.Account) string {
	if !account.HasSubaccount() {
		return account.Owner.String()
	}
	sub := account.EffectiveSubaccount()
	compressed := strings.TrimLeft(hex.EncodeToString(sub[:]), "0")
	return account.Owner.String() + "-" + textChecksum(account.Owner, sub) + "." + compressed
}

// DecodeAccount 解析账户文本形式或纯身份文本
//
// 含 "." 的文本一律按文本形式处理；合法的哈希形式返回 ErrMalformedAddress。
func (s *AccountService) DecodeAccount(text string) (types.Account, error) {
	if !strings.Contains(text, ".") {
		if s.IsHashForm(text) {
			return types.Account{}, fmt.Errorf("%w: 哈希形式无法还原账户", types.ErrMalformedAddress)
		}
		owner, err := types.ParseIdentity(text)
		if err != nil {
			return types.Account{}, err
		}
		return types.NewAccount(owner, nil), nil
	}

	sep := strings.LastIndex(text, "-")
	if sep <= 0 {
		return types.Account{}, fmt.Errorf("%w: 缺少校验和分段: %q", types.ErrMalformedAddress, text)
	}
	parts := strings.Split(text[sep+1:], ".")
	if len(parts) != 2 || parts[0] == "" {
		return types.Account{}, fmt.Errorf("%w: 校验和分段格式错误: %q", types.ErrMalformedAddress, text)
	}
	sum, compressed := parts[0], parts[1]

	sub, err := decodeCompressedSubaccount(compressed)
	if err != nil {
		return types.Account{}, err
	}
	owner, err := types.ParseIdentity(text[:sep])
	if err != nil {
		return types.Account{}, err
	}
	if textChecksum(owner, sub) != sum {
		return types.Account{}, fmt.Errorf("%w: 账户 %q", types.ErrChecksumMismatch, text)
	}
	return types.NewAccount(owner, &sub), nil
}

// HashAccount 计算旧式账户哈希形式
func (s *AccountService) HashAccount(account types.Account) string {
	return Hash(account)
}

// Hash 计算 hex(crc32(h) ∥ h)，h = sha224("\x0Aaccount-id" ∥ owner ∥ subaccount)
func Hash(account types.Account) string {
	sub := account.EffectiveSubaccount()
	h := sha256.New224()
	h.Write(accountDomainSeparator)
	h.Write(account.Owner.Bytes())
	h.Write(sub[:])
	return hex.EncodeToString(checksum.Prefixed(h.Sum(nil)))
}

// IsHashForm 十六进制解码后至少 4 字节，且前 4 字节为其余部分的校验和
func (s *AccountService) IsHashForm(text string) bool {
	raw, err := hex.DecodeString(text)
	if err != nil || len(raw) < checksum.Size {
		return false
	}
	return checksum.Verify(raw[:checksum.Size], raw[checksum.Size:])
}

// IsWellFormedAccount DecodeAccount 能否成功
func (s *AccountService) IsWellFormedAccount(text string) bool {
	_, err := s.DecodeAccount(text)
	return err == nil
}

// textChecksum 对 (身份前 29 字节 ∥ 子账户) 计算 base32 校验和
func textChecksum(owner types.Identity, sub types.Subaccount) string {
	ownerBytes := owner.Bytes()
	if len(ownerBytes) > types.MaxIdentityLength {
		ownerBytes = ownerBytes[:types.MaxIdentityLength]
	}
	sum := checksum.CRC32(ownerBytes, sub[:])
	return checksum.EncodeBase32(sum[:])
}

// decodeCompressedSubaccount 左侧补零还原 32 字节子账户
func decodeCompressedSubaccount(compressed string) (types.Subaccount, error) {
	var sub types.Subaccount
	if compressed == "" || len(compressed) > MaxSubaccountHexLength {
		return sub, fmt.Errorf("%w: 子账户十六进制长度 %d 非法", types.ErrMalformedAddress, len(compressed))
	}
	if len(compressed)%2 == 1 {
		compressed = "0" + compressed
	}
	raw, err := hex.DecodeString(compressed)
	if err != nil {
		return sub, fmt.Errorf("%w: 子账户十六进制: %v", types.ErrMalformedAddress, err)
	}
	copy(sub[types.SubaccountLength-len(raw):], raw)
	return sub, nil
}

var defaultService = NewAccountService()

// Decode 使用默认服务解析账户
func Decode(text string) (types.Account, error) {
	return defaultService.DecodeAccount(text)
}

// IsHashForm 使用默认服务判断哈希形式
func IsHashForm(text string) bool {
	return defaultService.IsHashForm(text)
}

// IsWellFormed 使用默认服务判断账户文本是否合法
func IsWellFormed(text string) bool {
	return defaultService.IsWellFormedAccount(text)
}
