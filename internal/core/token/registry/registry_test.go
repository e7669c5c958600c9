package registry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tokensconfig "github.com/weisyn/tokens/internal/config/tokens"
	"github.com/weisyn/tokens/internal/core/infrastructure/log"
	"github.com/weisyn/tokens/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/tokens/internal/core/token/tokentest"
	"github.com/weisyn/tokens/pkg/interfaces/token"
	"github.com/weisyn/tokens/pkg/types"
)

var (
	contract = types.MustParseIdentity("ryjl3-tyaaa-aaaaa-aaaba-cai")
	ctx      = context.Background()
)

// fakeAdapter 按预设结果应答的探测器
type fakeAdapter struct {
	name   string
	probe  func() ([]types.StandardDescriptor, error)
	probed atomic.Int32
}

func (a *fakeAdapter) Name() string        { return a.name }
func (a *fakeAdapter) Standards() []string { return []string{a.name} }

func (a *fakeAdapter) Bind(types.Identity, token.Transport, types.StandardSet) (token.Instance, error) {
	return nil, errors.New("not used")
}

func (a *fakeAdapter) Probe(context.Context, types.Identity, token.Transport) ([]types.StandardDescriptor, error) {
	a.probed.Add(1)
	return a.probe()
}

// silentAdapter 不实现 token.Prober
type silentAdapter struct{}

func (silentAdapter) Name() string        { return "silent" }
func (silentAdapter) Standards() []string { return []string{"S"} }
func (silentAdapter) Bind(types.Identity, token.Transport, types.StandardSet) (token.Instance, error) {
	return nil, nil
}

func reports(names ...string) func() ([]types.StandardDescriptor, error) {
	return func() ([]types.StandardDescriptor, error) {
		out := make([]types.StandardDescriptor, 0, len(names))
		for _, n := range names {
			out = append(out, types.StandardDescriptor{Name: n, URL: "https://example.com/" + n})
		}
		return out, nil
	}
}

func newRegistry(t *testing.T, adapters ...token.Adapter) *Registry {
	t.Helper()
	r, err := New(Options{Adapters: adapters, Transport: tokentest.NewTransport()})
	require.NoError(t, err)
	return r
}

func TestDiscoverUnion(t *testing.T) {
	r := newRegistry(t,
		&fakeAdapter{name: "first", probe: reports("A")},
		&fakeAdapter{name: "second", probe: reports("A", "B")},
	)
	got := r.Discover(ctx, contract)
	assert.Equal(t, []string{"A", "B"}, types.StandardSetOf(got).Names())
	assert.Len(t, got, 2)
}

func TestDiscoverIsolatesFailures(t *testing.T) {
	r := newRegistry(t,
		&fakeAdapter{name: "ok", probe: reports("ICRC-1")},
		&fakeAdapter{name: "error", probe: func() ([]types.StandardDescriptor, error) {
			return nil, errors.New("canister rejected")
		}},
		&fakeAdapter{name: "panic", probe: func() ([]types.StandardDescriptor, error) {
			panic("boom")
		}},
		&fakeAdapter{name: "invalid", probe: reports("X", "")},
		silentAdapter{},
	)
	got := r.Discover(ctx, contract)
	assert.Equal(t, []types.StandardDescriptor{{Name: "ICRC-1", URL: "https://example.com/ICRC-1"}}, got)
}

func TestDiscoverEmpty(t *testing.T) {
	r := newRegistry(t, silentAdapter{})
	got := r.Discover(ctx, contract)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDiscoverRunsProbesConcurrently(t *testing.T) {
	var arrived sync.WaitGroup
	arrived.Add(2)
	barrier := func() ([]types.StandardDescriptor, error) {
		arrived.Done()
		done := make(chan struct{})
		go func() { arrived.Wait(); close(done) }()
		select {
		case <-done:
			return reports("C")()
		case <-time.After(5 * time.Second):
			return nil, errors.New("probes ran sequentially")
		}
	}
	r := newRegistry(t,
		&fakeAdapter{name: "a", probe: barrier},
		&fakeAdapter{name: "b", probe: barrier},
	)
	assert.Equal(t, []string{"C"}, types.StandardSetOf(r.Discover(ctx, contract)).Names())
}

func TestDiscoverWaitsForSlowProbes(t *testing.T) {
	r := newRegistry(t,
		&fakeAdapter{name: "fast", probe: reports("A")},
		&fakeAdapter{name: "slow", probe: func() ([]types.StandardDescriptor, error) {
			time.Sleep(50 * time.Millisecond)
			return reports("B")()
		}},
	)
	assert.Equal(t, []string{"A", "B"}, types.StandardSetOf(r.Discover(ctx, contract)).Names())
}

func TestDiscoverCache(t *testing.T) {
	store, err := memory.New(tokensconfig.CacheOptions{TTL: time.Minute, MaxEntrySize: 1024, Shards: 4}, log.NewNop())
	require.NoError(t, err)
	defer store.Close()

	adapter := &fakeAdapter{name: "icrc", probe: reports("ICRC-1", "ICRC-2")}
	r, err := New(Options{
		Adapters:  []token.Adapter{adapter},
		Transport: tokentest.NewTransport(),
		Cache:     store,
		CacheTTL:  time.Minute,
	})
	require.NoError(t, err)

	first := r.Discover(ctx, contract)
	second := r.Discover(ctx, contract)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), adapter.probed.Load())

	other := types.MustParseIdentity("aaaaa-aa")
	r.Discover(ctx, other)
	assert.Equal(t, int32(2), adapter.probed.Load())
}

func TestNewRequiresTransport(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, types.ErrInvalidInput)
}
