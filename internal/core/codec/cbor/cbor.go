// Package cbor 封装紧凑二进制（CBOR）编解码
//
// 编码使用核心确定性编码（RFC 8949 §4.2），同一数据总是得到相同字节；
// 解码接受标准 CBOR，未知字段忽略。调用参数的约定形状：
//   - 原始参数为位置参数组成的 CBOR 数组，可带 55799 自描述标签
//   - record 为文本键 map，opt T 为 0 或 1 个元素的数组
//   - nat 为无符号整数或 bignum，principal 为字节串
package cbor

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// SelfDescribeTag CBOR 自描述标签号
const SelfDescribeTag = 55799

// selfDescribePrefix 标签 55799 的编码字节
var selfDescribePrefix = []byte{0xd9, 0xd9, 0xf7}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

// ErrNotArray 原始参数不是 CBOR 数组
var ErrNotArray = errors.New("cbor: call arguments are not an array")

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cbor: 编码器初始化失败: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// any 目标统一解码为 map[string]any，便于与 encoding/json 互通
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cbor: 解码器初始化失败: " + err.Error())
	}
}

// RawMessage 延迟解码的原始 CBOR 值
type RawMessage = cbor.RawMessage

// Marshal 确定性编码
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// MarshalSelfDescribed 编码并加上 55799 自描述标签
func MarshalSelfDescribed(v any) ([]byte, error) {
	body, err := encMode.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(selfDescribePrefix)+len(body))
	out = append(out, selfDescribePrefix...)
	return append(out, body...), nil
}

// Unmarshal 解码，自动去掉自描述标签
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(StripSelfDescribe(data), v)
}

// StripSelfDescribe 去掉开头的 55799 标签（可重复出现）
func StripSelfDescribe(data []byte) []byte {
	for bytes.HasPrefix(data, selfDescribePrefix) {
		data = data[len(selfDescribePrefix):]
	}
	return data
}

// DecodeArgs 把原始调用参数拆成位置参数
func DecodeArgs(data []byte) ([]RawMessage, error) {
	var args []RawMessage
	if err := decMode.Unmarshal(StripSelfDescribe(data), &args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	return args, nil
}

// DecodeArg 解码第 index 个位置参数到 v
func DecodeArg(args []RawMessage, index int, v any) error {
	if index >= len(args) {
		return fmt.Errorf("cbor: 缺少第 %d 个参数", index)
	}
	return decMode.Unmarshal(args[index], v)
}

// Diagnose 返回 RFC 8949 §8 诊断表示
func Diagnose(data []byte) (string, error) {
	return cbor.Diagnose(StripSelfDescribe(data))
}
