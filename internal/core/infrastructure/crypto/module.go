// Package crypto 提供账户地址编解码服务
package crypto

import (
	"github.com/weisyn/tokens/pkg/interfaces/infrastructure/crypto"
	log "github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
)

// CryptoParams 定义加密模块的依赖参数
type CryptoParams struct {
	fx.In

	Logger log.Logger `optional:"true"` // 日志记录器
}

// CryptoOutput 定义加密模块的输出结构
type CryptoOutput struct {
	fx.Out

	AccountCodec crypto.AccountCodec
}

// Module 返回加密模块
func Module() fx.Option {
	return fx.Module("crypto",
		fx.Provide(ProvideCryptoServices),
	)
}

// ProvideCryptoServices 提供加密服务
func ProvideCryptoServices(params CryptoParams) (CryptoOutput, error) {
	serviceOutput, err := CreateCryptoServices(ServiceInput{Logger: params.Logger})
	if err != nil {
		return CryptoOutput{}, err
	}
	return CryptoOutput{AccountCodec: serviceOutput.AccountCodec}, nil
}
