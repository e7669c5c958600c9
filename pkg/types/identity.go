package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/weisyn/tokens/pkg/utils/checksum"
)

// MaxIdentityLength 身份（principal）原始字节的最大长度
const MaxIdentityLength = 29

// identityGroupSize 身份文本每组字符数
const identityGroupSize = 5

// Identity 账本参与者的公开标识
//
// 以字符串承载原始字节，保证值可比较、可作 map 键；
// 零值即管理合约身份 aaaaa-aa（空字节）。
type Identity struct {
	raw string
}

// AnonymousIdentity 匿名身份 2vxsx-fae
var AnonymousIdentity = Identity{raw: "\x04"}

// IdentityFromBytes 由原始字节构造身份
func IdentityFromBytes(b []byte) (Identity, error) {
	if len(b) > MaxIdentityLength {
		return Identity{}, fmt.Errorf("%w: 身份长度 %d 超过上限 %d", ErrInvalidInput, len(b), MaxIdentityLength)
	}
	return Identity{raw: string(b)}, nil
}

// ParseIdentity 解析身份文本形式
//
// 文本必须是规范形式（小写、每 5 个字符以 "-" 分组）；
// 内嵌校验和不符时返回 ErrChecksumMismatch。
func ParseIdentity(text string) (Identity, error) {
	compact := strings.ReplaceAll(text, "-", "")
	decoded, err := checksum.DecodeBase32(compact)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: 身份文本 %q: %v", ErrMalformedAddress, text, err)
	}
	if len(decoded) < checksum.Size {
		return Identity{}, fmt.Errorf("%w: 身份文本 %q 过短", ErrMalformedAddress, text)
	}
	raw := decoded[checksum.Size:]
	if len(raw) > MaxIdentityLength {
		return Identity{}, fmt.Errorf("%w: 身份文本 %q 过长", ErrMalformedAddress, text)
	}
	if !checksum.Verify(decoded[:checksum.Size], raw) {
		return Identity{}, fmt.Errorf("%w: 身份 %q", ErrChecksumMismatch, text)
	}
	id := Identity{raw: string(raw)}
	if id.String() != text {
		return Identity{}, fmt.Errorf("%w: 身份文本 %q 不是规范形式", ErrMalformedAddress, text)
	}
	return id, nil
}

// MustParseIdentity 解析失败时 panic，仅用于常量与测试
func MustParseIdentity(text string) Identity {
	id, err := ParseIdentity(text)
	if err != nil {
		panic(err)
	}
	return id
}

// Bytes 返回原始字节副本
func (id Identity) Bytes() []byte {
	return []byte(id.raw)
}

// Len 原始字节长度
func (id Identity) Len() int {
	return len(id.raw)
}

// IsAnonymous 是否匿名身份
func (id Identity) IsAnonymous() bool {
	return id == AnonymousIdentity
}

// String 返回身份文本形式
func (id Identity) String() string {
	encoded := checksum.EncodeBase32(checksum.Prefixed([]byte(id.raw)))
	var sb strings.Builder
	sb.Grow(len(encoded) + len(encoded)/identityGroupSize)
	for i := 0; i < len(encoded); i += identityGroupSize {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := i + identityGroupSize
		if end > len(encoded) {
			end = len(encoded)
		}
		sb.WriteString(encoded[i:end])
	}
	return sb.String()
}

// Hex 原始字节的十六进制形式
func (id Identity) Hex() string {
	return hex.EncodeToString([]byte(id.raw))
}

// MarshalText 实现 encoding.TextMarshaler
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
