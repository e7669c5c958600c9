// Package checksum 提供身份与账户地址共用的校验和及文本编码原语
//
// 校验和为 IEEE CRC-32，按大端序输出 4 字节；文本编码为小写
// RFC-4648 字母表（a-z2-7）的 base32，不带填充字符。
package checksum

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"

	base32 "github.com/multiformats/go-base32"
)

// Size 校验和字节长度
const Size = 4

// Alphabet base32 字母表（小写）
const Alphabet = "abcdefghijklmnopqrstuvwxyz234567"

var encoding = base32.NewEncoding(Alphabet).WithPadding(base32.NoPadding)

// CRC32 计算若干字节片段拼接后的 CRC-32 校验和（大端序）
func CRC32(parts ...[]byte) [Size]byte {
	h := crc32.NewIEEE()
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out [Size]byte
	binary.BigEndian.PutUint32(out[:], h.Sum32())
	return out
}

// Prefixed 返回 checksum(data) ∥ data
func Prefixed(data []byte) []byte {
	sum := CRC32(data)
	out := make([]byte, 0, Size+len(data))
	out = append(out, sum[:]...)
	return append(out, data...)
}

// Verify 判断 sum 是否等于 parts 拼接后的校验和
func Verify(sum []byte, parts ...[]byte) bool {
	if len(sum) != Size {
		return false
	}
	expected := CRC32(parts...)
	return bytes.Equal(sum, expected[:])
}

// EncodeBase32 小写无填充 base32 编码
func EncodeBase32(data []byte) string {
	return encoding.EncodeToString(data)
}

// ErrBase32Length 无填充 base32 文本长度不可能由任何字节序列编码得到
var ErrBase32Length = errors.New("base32 长度无效")

// DecodeBase32 解码 base32 文本，忽略大小写
//
// 无填充时长度模 8 为 1、3、6 的文本没有对应的字节序列，直接拒绝。
func DecodeBase32(text string) ([]byte, error) {
	switch len(text) % 8 {
	case 1, 3, 6:
		return nil, fmt.Errorf("base32 解码失败: %w: %d", ErrBase32Length, len(text))
	}
	out, err := encoding.DecodeString(strings.ToLower(text))
	if err != nil {
		return nil, fmt.Errorf("base32 解码失败: %w", err)
	}
	return out, nil
}
