package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options 连接参数, Host 为空表示不启用 Redis
type Options struct {
	Host        string
	Port        int
	Password    string
	DB          int
	PoolSize    int
	PingTimeout time.Duration
}

// NewRedisClient 创建客户端并检查连通性. 未配置时返回 nil, nil,
// 调用方据此退化到进程内缓存和限流
func NewRedisClient(opts Options) (*redis.Client, error) {
	if opts.Host == "" {
		return nil, nil
	}
	if opts.Port == 0 {
		opts.Port = 6379
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = 20
	}
	if opts.PingTimeout == 0 {
		opts.PingTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password:     opts.Password,
		DB:           opts.DB,
		PoolSize:     opts.PoolSize,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}
	return client, nil
}
