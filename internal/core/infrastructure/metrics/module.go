package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// ModuleParams metrics 模块依赖
type ModuleParams struct {
	fx.In

	Registerer prometheus.Registerer `optional:"true"`
}

// Module 返回 metrics 模块，未提供 Registerer 时指标不注册
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(func(params ModuleParams) (*TokenMetrics, error) {
			return NewTokenMetrics(params.Registerer)
		}),
	)
}
