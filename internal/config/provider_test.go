package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/tokens/pkg/types"
)

// TestNewProvider 测试默认配置与用户覆盖
func TestNewProvider(t *testing.T) {
	t.Run("未配置时使用默认值", func(t *testing.T) {
		provider, err := NewProvider(nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"https://icp-api.io"}, provider.GetTokens().GetEndpoints())
		assert.NotNil(t, provider.GetLog())
	})

	t.Run("用户配置覆盖默认值", func(t *testing.T) {
		timeout := "3s"
		provider, err := NewProvider(&types.AppConfig{
			Tokens: &types.UserTokensConfig{
				Endpoints: []string{"http://127.0.0.1:4943"},
				Timeout:   &timeout,
			},
		})
		require.NoError(t, err)
		opts := provider.GetTokens().GetOptions()
		assert.Equal(t, []string{"http://127.0.0.1:4943"}, opts.Endpoints)
		assert.Equal(t, 3*time.Second, opts.Timeout)
	})

	t.Run("非法时长返回错误", func(t *testing.T) {
		bad := "forever"
		_, err := NewProvider(&types.AppConfig{
			Tokens: &types.UserTokensConfig{RetryBackoff: &bad},
		})
		assert.ErrorContains(t, err, "retry_backoff")
	})

	t.Run("校验失败汇总全部问题", func(t *testing.T) {
		level := "verbose"
		_, err := NewProvider(&types.AppConfig{
			Log: &types.UserLogConfig{Level: &level},
			Tokens: &types.UserTokensConfig{
				Endpoints: []string{"icp-api.io", "ftp://icp-api.io"},
			},
		})
		var verrs *ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Len(t, verrs.Errors, 3)
		assert.ErrorContains(t, err, "tokens.endpoints[0]")
		assert.ErrorContains(t, err, "tokens.endpoints[1]")
		assert.ErrorContains(t, err, "log.level")
	})
}

// TestLoadAppConfig 测试从文件加载配置
func TestLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"log": {"level": "debug"},
		"tokens": {"probe_retries": 2, "cache": {"enabled": true}}
	}`), 0o600))

	appConfig, err := LoadAppConfig(path)
	require.NoError(t, err)
	require.NotNil(t, appConfig.Tokens)
	assert.Equal(t, 2, *appConfig.Tokens.ProbeRetries)
	assert.True(t, *appConfig.Tokens.Cache.Enabled)
	assert.Equal(t, "debug", *appConfig.Log.Level)

	_, err = LoadAppConfig(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err = LoadAppConfig(path)
	assert.ErrorContains(t, err, "解析配置文件")
}
