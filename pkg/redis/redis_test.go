package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient_Disabled(t *testing.T) {
	client, err := NewRedisClient(Options{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	// 端口 1 上不会有 Redis
	client, err := NewRedisClient(Options{Host: "127.0.0.1", Port: 1, PingTimeout: 200 * time.Millisecond})
	assert.Error(t, err)
	assert.Nil(t, client)
}
