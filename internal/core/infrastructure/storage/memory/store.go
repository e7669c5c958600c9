// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	tokensconfig "github.com/weisyn/tokens/internal/config/tokens"
	"github.com/weisyn/tokens/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/tokens/pkg/interfaces/infrastructure/storage"
)

// expiryHeaderSize 每个条目前 8 字节为过期时间(UnixNano, 小端)，0 表示不过期
const expiryHeaderSize = 8

// ErrStoreClosed 存储已关闭
var ErrStoreClosed = errors.New("memory store closed")

// Store 实现了MemoryStore接口
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	mutex  sync.RWMutex
	closed bool
	now    func() time.Time
}

// New 创建BigCache内存存储
//
// bigcache 的生命周期窗口取 options.TTL，超过窗口的条目由后台清理；
// 条目自身的过期时间在读取时检查。
func New(options tokensconfig.CacheOptions, logger log.Logger) (*Store, error) {
	lifeWindow := options.TTL
	if lifeWindow <= 0 {
		lifeWindow = 10 * time.Minute
	}

	cfg := bigcache.DefaultConfig(lifeWindow)
	cfg.Shards = normalizeShards(options.Shards)
	cfg.MaxEntrySize = options.MaxEntrySize + expiryHeaderSize
	cfg.CleanWindow = lifeWindow / 2
	cfg.Verbose = false

	cache, err := bigcache.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	return &Store{
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}, nil
}

// normalizeShards bigcache 要求分片数为 2 的幂
func normalizeShards(n int) int {
	if n <= 1 {
		return 1
	}
	shards := 1
	for shards < n {
		shards <<= 1
	}
	return shards
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	if err := s.cache.Close(); err != nil {
		return err
	}
	s.closed = true
	return nil
}

// Get 获取缓存值，过期条目会被顺带删除
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, false, ErrStoreClosed
	}

	entry, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		s.logger.Warnf("获取缓存键[%s]失败: %v", key, err)
		return nil, false, err
	}
	if len(entry) < expiryHeaderSize {
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	if expiry := int64(binary.LittleEndian.Uint64(entry)); expiry != 0 && s.now().UnixNano() >= expiry {
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	value := make([]byte, len(entry)-expiryHeaderSize)
	copy(value, entry[expiryHeaderSize:])
	return value, true, nil
}

// Set 设置缓存值，ttl 为 0 表示永不过期
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	entry := make([]byte, expiryHeaderSize+len(value))
	if ttl > 0 {
		binary.LittleEndian.PutUint64(entry, uint64(s.now().Add(ttl).UnixNano()))
	}
	copy(entry[expiryHeaderSize:], value)

	if err := s.cache.Set(key, entry); err != nil {
		s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Delete 删除指定键的缓存
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		s.logger.Warnf("删除缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Clear 清空所有缓存
func (s *Store) Clear(ctx context.Context) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.cache.Reset(); err != nil {
		s.logger.Errorf("清空缓存失败: %v", err)
		return err
	}
	return nil
}

// Count 获取当前缓存中的条目数量
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return int64(s.cache.Len()), nil
}

var _ storage.MemoryStore = (*Store)(nil)
