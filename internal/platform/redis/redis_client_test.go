package redis

import (
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "explicit port", cfg: Config{Host: "cache", Port: "6380"}, want: "cache:6380"},
		{name: "default port", cfg: Config{Host: "cache"}, want: "cache:6379"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Addr())
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6390")
	t.Setenv("REDIS_PASSWORD", "secret")

	cfg := LoadConfig()
	assert.Equal(t, Config{Host: "localhost", Port: "6390", Password: "secret"}, cfg)
	assert.True(t, cfg.Enabled())
	assert.False(t, Config{}.Enabled())
}

func TestNewRedisClient(t *testing.T) {
	t.Run("success: ping succeeds", func(t *testing.T) {
		mr := miniredis.RunT(t)
		host, port, err := net.SplitHostPort(mr.Addr())
		require.NoError(t, err)

		rdb, err := NewRedisClient(Config{Host: host, Port: port})
		require.NoError(t, err)
		t.Cleanup(func() { _ = rdb.Close() })
	})

	t.Run("failure: server unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		host, port, err := net.SplitHostPort(mr.Addr())
		require.NoError(t, err)
		mr.Close()

		rdb, err := NewRedisClient(Config{Host: host, Port: port})
		assert.Error(t, err)
		assert.Nil(t, rdb)
	})
}
