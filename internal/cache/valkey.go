// Package cache provides Valkey (Redis-compatible) client initialization
// and the calendar month cache.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ValkeyOptions configures ConnectValkey.
type ValkeyOptions struct {
	Addr     string // host:port
	Password string
	DB       int

	// PingTimeout bounds the connectivity check. Defaults to 5s.
	PingTimeout time.Duration
}

// ConnectValkey creates a Valkey client and verifies it with a ping. The
// client is closed again when the ping fails.
func ConnectValkey(ctx context.Context, opts ValkeyOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", opts.Addr, err)
	}

	slog.Info("valkey connected", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
