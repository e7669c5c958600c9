package dispatcher

import (
	"fmt"
	"slices"

	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// DecodeCall 把捕获的原始调用解码为规范调用描述
//
// 按固定顺序尝试声明了该编码的已绑定适配器；解码器返回错误或 panic
// 都视为不匹配。没有任何适配器匹配时返回 (nil, nil)。
func (f *Facade) DecodeCall(method string, raw []byte, encoding types.Encoding) (*types.CallDescription, error) {
	if method == "" {
		return nil, fmt.Errorf("%w: 方法名为空", types.ErrInvalidInput)
	}
	for _, b := range f.bound {
		decoder, ok := b.adapter.(token.CallDecoder)
		if !ok || !slices.Contains(decoder.Encodings(), encoding) {
			continue
		}
		call, err := decodeSafely(decoder, encoding, method, raw)
		if err != nil {
			f.logger.Debugf("适配器 %s 解码 %s 失败: %v", b.adapter.Name(), method, err)
			continue
		}
		if call != nil {
			f.metrics.RecordDecode(string(encoding), true)
			return call, nil
		}
	}
	f.metrics.RecordDecode(string(encoding), false)
	return nil, nil
}

func decodeSafely(decoder token.CallDecoder, encoding types.Encoding, method string, raw []byte) (call *types.CallDescription, err error) {
	defer func() {
		if p := recover(); p != nil {
			call, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	return decoder.DecodeCall(encoding, method, raw)
}
