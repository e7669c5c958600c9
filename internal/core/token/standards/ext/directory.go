package ext

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/tokens/pkg/types"
)

// 目录服务默认地址
const (
	DefaultCollectionsURL = "https://us-central1-entrepot-api.cloudfunctions.net/api/collections"
	DefaultFiltersURL     = "https://toniq.io/filter/%s.json"
	DefaultAssetsBaseURL  = "https://entrepot.app"
)

// Collection 集合目录中的一项
type Collection struct {
	ID     string
	Name   string
	Unit   string
	Avatar string
}

// Directory 链下集合目录，EXT 合约自身不提供名称、符号与属性
type Directory interface {
	// Collection 按合约文本形式查找集合
	Collection(ctx context.Context, canister string) (Collection, bool, error)

	// Logo 集合图标地址
	Logo(ctx context.Context, canister string) (string, bool, error)

	// Attributes 条目属性，结果为 Map 值（属性名 → 属性值）
	Attributes(ctx context.Context, canister string, index uint32) (types.MetadataValue, bool, error)
}

// DirectoryConfig HTTP 目录配置
type DirectoryConfig struct {
	CollectionsURL string
	FiltersURL     string // 含一个 %s 占位符，填入合约文本形式
	AssetsBaseURL  string
	Timeout        time.Duration
	RetryMax       int
	CacheTTL       time.Duration
}

// DefaultDirectoryConfig 默认配置
func DefaultDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		CollectionsURL: DefaultCollectionsURL,
		FiltersURL:     DefaultFiltersURL,
		AssetsBaseURL:  DefaultAssetsBaseURL,
		Timeout:        10 * time.Second,
		RetryMax:       2,
		CacheTTL:       time.Hour,
	}
}

// HTTPDirectory 通过 HTTP 读取集合列表与属性过滤表，结果按 CacheTTL 缓存
type HTTPDirectory struct {
	config DirectoryConfig
	client *retryablehttp.Client
	now    func() time.Time

	mu          sync.Mutex
	collections map[string]Collection
	fetchedAt   time.Time
	filters     map[string]filterEntry
}

type filterEntry struct {
	attributes map[uint32]types.MetadataValue
	fetchedAt  time.Time
}

// NewHTTPDirectory 创建 HTTP 目录，logger 可为 nil
func NewHTTPDirectory(config DirectoryConfig, logger log.Logger) *HTTPDirectory {
	defaults := DefaultDirectoryConfig()
	if config.CollectionsURL == "" {
		config.CollectionsURL = defaults.CollectionsURL
	}
	if config.FiltersURL == "" {
		config.FiltersURL = defaults.FiltersURL
	}
	if config.AssetsBaseURL == "" {
		config.AssetsBaseURL = defaults.AssetsBaseURL
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}

	client := retryablehttp.NewClient()
	client.RetryMax = config.RetryMax
	client.HTTPClient.Timeout = config.Timeout
	client.Logger = nil
	if logger != nil {
		client.Logger = leveledLogger{logger: logger}
	}

	return &HTTPDirectory{
		config:  config,
		client:  client,
		now:     time.Now,
		filters: make(map[string]filterEntry),
	}
}

// Collection 实现 Directory
func (d *HTTPDirectory) Collection(ctx context.Context, canister string) (Collection, bool, error) {
	d.mu.Lock()
	fresh := d.collections != nil && d.now().Sub(d.fetchedAt) < d.config.CacheTTL
	d.mu.Unlock()

	if !fresh {
		body, err := d.get(ctx, d.config.CollectionsURL)
		if err != nil {
			return Collection{}, false, err
		}
		collections, err := parseCollections(body)
		if err != nil {
			return Collection{}, false, err
		}
		d.mu.Lock()
		d.collections = collections
		d.fetchedAt = d.now()
		d.mu.Unlock()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	c, ok := d.collections[canister]
	return c, ok, nil
}

// Logo 实现 Directory：目录中的头像优先，其次是常见路径上的图片
func (d *HTTPDirectory) Logo(ctx context.Context, canister string) (string, bool, error) {
	c, ok, err := d.Collection(ctx, canister)
	if err != nil {
		return "", false, err
	}
	if ok && c.Avatar != "" {
		return d.avatarURL(c.Avatar), true, nil
	}

	url := fmt.Sprintf("%s/collections/%s.jpg", d.config.AssetsBaseURL, canister)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return "", false, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", false, nil
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK && strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return url, true, nil
	}
	return "", false, nil
}

// Attributes 实现 Directory
func (d *HTTPDirectory) Attributes(ctx context.Context, canister string, index uint32) (types.MetadataValue, bool, error) {
	d.mu.Lock()
	entry, cached := d.filters[canister]
	d.mu.Unlock()

	if !cached || d.now().Sub(entry.fetchedAt) >= d.config.CacheTTL {
		body, err := d.get(ctx, fmt.Sprintf(d.config.FiltersURL, canister))
		if err != nil {
			return types.MetadataValue{}, false, err
		}
		attributes, err := parseFilters(body)
		if err != nil {
			return types.MetadataValue{}, false, err
		}
		entry = filterEntry{attributes: attributes, fetchedAt: d.now()}
		d.mu.Lock()
		d.filters[canister] = entry
		d.mu.Unlock()
	}

	value, ok := entry.attributes[index]
	return value, ok, nil
}

func (d *HTTPDirectory) get(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseCollections 解析 [{id, name, unit, avatar}, ...]
func parseCollections(body []byte) (map[string]Collection, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("集合列表不是合法 JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() {
		return nil, fmt.Errorf("集合列表不是数组")
	}
	out := make(map[string]Collection)
	root.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if id == "" {
			return true
		}
		out[id] = Collection{
			ID:     id,
			Name:   item.Get("name").String(),
			Unit:   item.Get("unit").String(),
			Avatar: item.Get("avatar").String(),
		}
		return true
	})
	return out, nil
}

// parseFilters 解析属性过滤表
//
//	[ [ [属性编号, 属性名, [[值编号, 值名], ...]], ... ],
//	  [ [条目编号, [[属性编号, 值编号], ...]], ... ] ]
func parseFilters(body []byte) (map[uint32]types.MetadataValue, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("属性过滤表不是合法 JSON")
	}
	root := gjson.ParseBytes(body)
	if !root.IsArray() || len(root.Array()) < 2 {
		return nil, fmt.Errorf("属性过滤表格式错误")
	}

	type attribute struct {
		label  string
		values map[int64]string
	}
	attributes := make(map[int64]attribute)
	root.Get("0").ForEach(func(_, entry gjson.Result) bool {
		values := make(map[int64]string)
		entry.Get("2").ForEach(func(_, v gjson.Result) bool {
			values[v.Get("0").Int()] = v.Get("1").String()
			return true
		})
		attributes[entry.Get("0").Int()] = attribute{label: entry.Get("1").String(), values: values}
		return true
	})

	out := make(map[uint32]types.MetadataValue)
	root.Get("1").ForEach(func(_, entry gjson.Result) bool {
		var fields types.Metadata
		entry.Get("1").ForEach(func(_, pair gjson.Result) bool {
			attr, ok := attributes[pair.Get("0").Int()]
			if !ok {
				return true
			}
			value, ok := attr.values[pair.Get("1").Int()]
			if !ok {
				return true
			}
			fields = append(fields, types.MetadataEntry{Key: attr.label, Value: types.TextValue(value)})
			return true
		})
		out[uint32(entry.Get("0").Uint())] = types.MapValue(fields)
		return true
	})
	return out, nil
}

// avatarURL 目录中的头像路径补全为绝对地址
func (d *HTTPDirectory) avatarURL(avatar string) string {
	if strings.HasPrefix(avatar, "https://") || strings.HasPrefix(avatar, "http://") {
		return avatar
	}
	return d.config.AssetsBaseURL + avatar
}

// leveledLogger 把重试日志转到 log.Logger 的调试级别
type leveledLogger struct {
	logger log.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.logger.With(kv...).Warn(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.logger.With(kv...).Debug(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.logger.With(kv...).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.logger.With(kv...).Debug(msg) }

var (
	_ Directory                   = (*HTTPDirectory)(nil)
	_ retryablehttp.LeveledLogger = leveledLogger{}
)
