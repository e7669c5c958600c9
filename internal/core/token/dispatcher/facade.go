// Package dispatcher 把多个标准适配器合并为一个门面
//
// 🎯 **生命周期**
// - 选定标准：调用方显式给出，或交给注册表发现
// - 选择适配器：声明的标准全部落在已选集合中的适配器，保持固定顺序
// - 绑定：逐个 Bind，失败或 panic 的适配器被丢弃（记日志与指标）
// - 路由：每个规范操作固定路由到第一个声明该能力且实现对应接口的实例
//
// 构造完成后门面不再变化，调用路径上没有锁。
package dispatcher

import (
	"context"
	"fmt"

	"github.com/weisyn/tokens/internal/core/infrastructure/log"
	"github.com/weisyn/tokens/internal/core/infrastructure/metrics"
	"github.com/weisyn/tokens/internal/core/token/registry"
	logInterface "github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// Options 门面构造参数
type Options struct {
	// Standards 显式指定的标准；为空时通过 Registry 发现
	Standards []string

	// Registry 标准发现；Standards 为空时必填
	Registry *registry.Registry

	// Adapters 固定顺序的适配器；为空时使用 Registry 的适配器
	Adapters []token.Adapter

	// Transport 绑定实例使用的传输
	Transport token.Transport

	Metrics *metrics.TokenMetrics
	Logger  logInterface.Logger
}

// bound 绑定成功的适配器
type bound struct {
	adapter  token.Adapter
	instance token.Instance
}

// Facade 合并门面
type Facade struct {
	contract types.Identity
	selected types.StandardSet
	bound    []bound
	routes   map[types.Operation]int // 操作 → bound 下标
	metrics  *metrics.TokenMetrics
	logger   logInterface.Logger
}

// New 为合约构造门面
func New(ctx context.Context, contract types.Identity, opts Options) (*Facade, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("%w: 门面需要调用传输", types.ErrInvalidInput)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	logger = log.NewModuleLogger(logger, "dispatcher")

	adapters := opts.Adapters
	if len(adapters) == 0 && opts.Registry != nil {
		adapters = opts.Registry.Adapters()
	}

	var selected types.StandardSet
	switch {
	case len(opts.Standards) > 0:
		selected = types.NewStandardSet(opts.Standards...)
	case opts.Registry != nil:
		selected = types.StandardSetOf(opts.Registry.Discover(ctx, contract))
	default:
		return nil, fmt.Errorf("%w: 未指定标准且没有注册表", types.ErrInvalidInput)
	}

	f := &Facade{
		contract: contract,
		selected: selected,
		routes:   make(map[types.Operation]int, len(types.AllOperations)),
		metrics:  opts.Metrics,
		logger:   logger,
	}

	for _, adapter := range adapters {
		if !selected.ContainsAll(adapter.Standards()) {
			continue
		}
		inst, err := f.bind(adapter, contract, opts.Transport)
		f.metrics.RecordBind(adapter.Name(), err == nil)
		if err != nil {
			logger.Warnf("适配器 %s 绑定合约 %s 失败，已丢弃: %v", adapter.Name(), contract, err)
			continue
		}
		f.bound = append(f.bound, bound{adapter: adapter, instance: inst})
	}

	f.buildRoutes()
	return f, nil
}

// bind 绑定单个适配器，panic 转为错误
func (f *Facade) bind(adapter token.Adapter, contract types.Identity, transport token.Transport) (inst token.Instance, err error) {
	defer func() {
		if p := recover(); p != nil {
			inst, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	inst, err = adapter.Bind(contract, transport, f.selected)
	if err == nil && inst == nil {
		err = fmt.Errorf("适配器返回了空实例")
	}
	return inst, err
}

func (f *Facade) buildRoutes() {
	for _, op := range types.AllOperations {
		check := token.OperationInterfaces[op]
		for i, b := range f.bound {
			if b.instance.Capabilities().Has(op) && check(b.instance) {
				f.routes[op] = i
				f.logger.Debugf("%s → %s", op, b.adapter.Name())
				break
			}
		}
	}
}

// Contract 绑定的合约
func (f *Facade) Contract() types.Identity {
	return f.contract
}

// SupportedStandards 已选标准（按名称排序）
func (f *Facade) SupportedStandards() []string {
	return f.selected.Names()
}

// ImplementedStandards 绑定成功的适配器所实现的标准，按适配器顺序去重
func (f *Facade) ImplementedStandards() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, b := range f.bound {
		for _, s := range b.adapter.Standards() {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// Adapters 绑定成功的适配器名称，按固定顺序
func (f *Facade) Adapters() []string {
	out := make([]string, 0, len(f.bound))
	for _, b := range f.bound {
		out = append(out, b.adapter.Name())
	}
	return out
}

// Operations 门面支持的操作，按规范顺序
func (f *Facade) Operations() []types.Operation {
	out := make([]types.Operation, 0, len(f.routes))
	for _, op := range types.AllOperations {
		if _, ok := f.routes[op]; ok {
			out = append(out, op)
		}
	}
	return out
}

// Supports 按名称查询门面是否支持某操作，未知名称返回 false
func (f *Facade) Supports(name string) bool {
	_, ok := f.routes[types.Operation(name)]
	return ok
}

// RouteOf 操作路由到的适配器名称
func (f *Facade) RouteOf(op types.Operation) (string, bool) {
	i, ok := f.routes[op]
	if !ok {
		return "", false
	}
	return f.bound[i].adapter.Name(), true
}

// route 取出操作的目标实例并转换为对应接口
func route[T any](f *Facade, op types.Operation) (T, error) {
	var zero T
	i, ok := f.routes[op]
	if !ok {
		return zero, fmt.Errorf("%w: %s", types.ErrUnsupportedOperation, op)
	}
	target, ok := f.bound[i].instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", types.ErrUnsupportedOperation, op)
	}
	return target, nil
}
