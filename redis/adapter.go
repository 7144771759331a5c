// Package redis implements the feedbench transaction contract and the timeline fan-out
// strategies on Redis, using lists and sorted sets under the USERS:, TWEETS:, FOLLOWS:,
// FOLLOWED: and USER_TIMELINE: key namespaces.
package redis

import (
	"context"
	"fmt"
	log "log/slog"

	"github.com/sharedcode/feedbench"
)

const backendName = "REDIS"

// Adapter spawns transactions on a Redis connection. The fan-out strategy is fixed for
// the adapter's lifetime.
type Adapter struct {
	conn     *Connection
	strategy feedbench.Strategy
	fanout   fanout
}

// Open connects to the server named by a redis:// URL.
func Open(ctx context.Context, url string, strategy feedbench.Strategy) (*Adapter, error) {
	options, err := OptionsFromURL(url)
	if err != nil {
		return nil, err
	}
	a := NewAdapter(OpenConnection(options), strategy)
	if err := a.conn.Client.Ping(ctx).Err(); err != nil {
		a.Close()
		return nil, feedbench.WrapBackend(backendName, fmt.Errorf("ping: %w", err))
	}
	return a, nil
}

// NewAdapter wraps an open connection. The adapter takes ownership of conn.
func NewAdapter(conn *Connection, strategy feedbench.Strategy) *Adapter {
	if strategy != feedbench.Push {
		strategy = feedbench.Pull
	}
	log.Info("Redis adapter ready", "strategy", strategy)
	return &Adapter{
		conn:     conn,
		strategy: strategy,
		fanout:   newFanout(strategy),
	}
}

func (a *Adapter) Name() string {
	return backendName
}

// Strategy returns the fan-out strategy timelines are kept with.
func (a *Adapter) Strategy() feedbench.Strategy {
	return a.strategy
}

// BeginTransaction acquires a dedicated connection from the pool and checks it is alive.
func (a *Adapter) BeginTransaction(ctx context.Context, mode feedbench.TransactionMode) (feedbench.Transaction, error) {
	if a.conn == nil || a.conn.Client == nil {
		return nil, feedbench.WrapTxFailure(backendName, fmt.Errorf("redis connection is not open"))
	}
	conn := a.conn.Client.Conn()
	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, feedbench.WrapTxFailure(backendName, err)
	}
	log.Debug(backendName+": transaction started", "mode", mode)
	return &transaction{
		TxState: feedbench.NewTxState(mode),
		conn:    conn,
		pipe:    conn.TxPipeline(),
		fanout:  a.fanout,
	}, nil
}

// Reset flushes the selected database.
func (a *Adapter) Reset(ctx context.Context) error {
	log.Info("Flushing redis database", "db", a.conn.Options.DB)
	if err := a.conn.Client.FlushDB(ctx).Err(); err != nil {
		return feedbench.WrapBackend(backendName, err)
	}
	return nil
}

func (a *Adapter) Close() error {
	return a.conn.Close()
}
