// Package crypto 提供加密服务工厂实现
package crypto

import (
	"github.com/weisyn/tokens/internal/core/infrastructure/crypto/address"
	"github.com/weisyn/tokens/pkg/interfaces/infrastructure/crypto"
	log "github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
)

// ServiceInput 定义加密服务工厂的输入参数
type ServiceInput struct {
	Logger log.Logger `optional:"true"`
}

// ServiceOutput 定义加密服务工厂的输出结果
type ServiceOutput struct {
	AccountCodec crypto.AccountCodec
}

// CreateCryptoServices 创建加密服务
//
// 账户编解码无状态，不依赖配置。
func CreateCryptoServices(input ServiceInput) (ServiceOutput, error) {
	if input.Logger != nil {
		input.Logger.With("module", "crypto").Debug("账户地址服务已初始化")
	}
	return ServiceOutput{
		AccountCodec: address.NewAccountService(),
	}, nil
}
