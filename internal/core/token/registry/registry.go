// Package registry 探测合约实现了哪些代币标准
//
// 所有实现 token.Prober 的适配器并发探测同一合约，全部结束后合并结果；
// 单个探测的错误、panic 与无效应答都只记日志和指标，不影响其他探测。
package registry

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/weisyn/tokens/internal/core/codec/cbor"
	"github.com/weisyn/tokens/internal/core/infrastructure/log"
	"github.com/weisyn/tokens/internal/core/infrastructure/metrics"
	logInterface "github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/tokens/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

// cacheKeyPrefix 发现结果缓存键前缀
const cacheKeyPrefix = "standards:"

// Options 注册表依赖
type Options struct {
	// Adapters 固定顺序的适配器列表
	Adapters []token.Adapter

	// Transport 探测用的传输，通常是限制重试次数的匿名传输
	Transport token.Transport

	// Cache 发现结果缓存，可为 nil
	Cache    storage.MemoryStore
	CacheTTL time.Duration

	Metrics *metrics.TokenMetrics
	Logger  logInterface.Logger
}

// Registry 标准发现
type Registry struct {
	adapters  []token.Adapter
	transport token.Transport
	cache     storage.MemoryStore
	cacheTTL  time.Duration
	metrics   *metrics.TokenMetrics
	logger    logInterface.Logger
}

// New 创建注册表
func New(opts Options) (*Registry, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("%w: 注册表需要探测传输", types.ErrInvalidInput)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNop()
	}
	return &Registry{
		adapters:  append([]token.Adapter(nil), opts.Adapters...),
		transport: opts.Transport,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		metrics:   opts.Metrics,
		logger:    log.NewModuleLogger(logger, "registry"),
	}, nil
}

// Adapters 注册的适配器，按固定顺序
func (r *Registry) Adapters() []token.Adapter {
	return append([]token.Adapter(nil), r.adapters...)
}

// Transport 探测用的传输
func (r *Registry) Transport() token.Transport {
	return r.transport
}

// probeResult 单个适配器的探测结果
type probeResult struct {
	descriptors []types.StandardDescriptor
	err         error
}

// Discover 并发探测所有适配器，返回去重后的标准列表（按名称排序）
//
// 从不返回错误：探测失败只代表该适配器的标准不受支持。
// 等待全部探测结束，不会因某个探测失败提前取消其他探测。
func (r *Registry) Discover(ctx context.Context, contract types.Identity) []types.StandardDescriptor {
	if cached, ok := r.cached(ctx, contract); ok {
		return cached
	}

	results := make([]probeResult, len(r.adapters))
	var g errgroup.Group
	for i, adapter := range r.adapters {
		prober, ok := adapter.(token.Prober)
		if !ok {
			continue
		}
		g.Go(func() error {
			results[i] = r.probe(ctx, adapter.Name(), prober, contract)
			return nil
		})
	}
	_ = g.Wait()

	seen := make(map[string]struct{})
	var out []types.StandardDescriptor
	for i, res := range results {
		if res.err != nil {
			r.logger.Debugf("适配器 %s 探测 %s 失败: %v", r.adapters[i].Name(), contract, res.err)
			continue
		}
		for _, d := range res.descriptors {
			if _, dup := seen[d.Name]; dup {
				continue
			}
			seen[d.Name] = struct{}{}
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if out == nil {
		out = []types.StandardDescriptor{}
	}

	r.logger.Infof("合约 %s 支持的标准: %v", contract, types.StandardSetOf(out).Names())
	r.store(ctx, contract, out)
	return out
}

// probe 执行一次探测，panic 转为错误
func (r *Registry) probe(ctx context.Context, name string, prober token.Prober, contract types.Identity) (res probeResult) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = probeResult{err: fmt.Errorf("%w: panic: %v", types.ErrAdapterProbeFailure, p)}
		}
		result := metrics.ResultSuccess
		if res.err != nil {
			result = metrics.ResultFailed
		}
		r.metrics.RecordProbe(name, result, time.Since(start))
	}()

	descriptors, err := prober.Probe(ctx, contract, r.transport)
	if err != nil {
		return probeResult{err: fmt.Errorf("%w: %v", types.ErrAdapterProbeFailure, err)}
	}
	for _, d := range descriptors {
		if d.Name == "" {
			return probeResult{err: fmt.Errorf("%w: 应答中有空的标准名称", types.ErrAdapterProbeFailure)}
		}
	}
	return probeResult{descriptors: descriptors}
}

// cachedDescriptor 缓存中的标准描述
type cachedDescriptor struct {
	Name string `cbor:"name"`
	URL  string `cbor:"url"`
}

func (r *Registry) cached(ctx context.Context, contract types.Identity) ([]types.StandardDescriptor, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, ok, err := r.cache.Get(ctx, cacheKeyPrefix+contract.String())
	if err != nil || !ok {
		return nil, false
	}
	var entries []cachedDescriptor
	if err := cbor.Unmarshal(raw, &entries); err != nil {
		r.logger.Warnf("发现结果缓存损坏 %s: %v", contract, err)
		return nil, false
	}
	out := make([]types.StandardDescriptor, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.StandardDescriptor{Name: e.Name, URL: e.URL})
	}
	r.metrics.RecordProbe("cache", metrics.ResultCacheHit, 0)
	return out, true
}

// store 空结果不缓存
func (r *Registry) store(ctx context.Context, contract types.Identity, descriptors []types.StandardDescriptor) {
	if r.cache == nil || len(descriptors) == 0 {
		return
	}
	entries := make([]cachedDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		entries = append(entries, cachedDescriptor{Name: d.Name, URL: d.URL})
	}
	raw, err := cbor.Marshal(entries)
	if err != nil {
		r.logger.Warnf("编码发现结果失败: %v", err)
		return
	}
	if err := r.cache.Set(ctx, cacheKeyPrefix+contract.String(), raw, r.cacheTTL); err != nil {
		r.logger.Warnf("写入发现结果缓存失败: %v", err)
	}
}
