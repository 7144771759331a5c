// Package factory opens the adapter a Config names.
package factory

import (
	"context"
	"fmt"
	"sync"

	"github.com/sharedcode/feedbench"
	"github.com/sharedcode/feedbench/cassandra"
	"github.com/sharedcode/feedbench/redis"
	"github.com/sharedcode/feedbench/sqldb"
)

// Opener creates an adapter from the benchmark configuration.
type Opener func(ctx context.Context, config feedbench.Config) (feedbench.Adapter, error)

var mux sync.Mutex
var openers = map[feedbench.BackendType]Opener{
	feedbench.Postgres:  openRelational,
	feedbench.SQLite:    openRelational,
	feedbench.Redis:     openRedis,
	feedbench.Cassandra: openCassandra,
}

// Register adds or replaces the opener of a backend type.
func Register(t feedbench.BackendType, o Opener) {
	mux.Lock()
	defer mux.Unlock()
	openers[t] = o
}

// Open creates the adapter of config.Backend. With config.Workload.AutoReset set the
// backend is wiped before the adapter is returned.
func Open(ctx context.Context, config feedbench.Config) (feedbench.Adapter, error) {
	mux.Lock()
	o, ok := openers[config.Backend]
	mux.Unlock()
	if !ok {
		return nil, fmt.Errorf("backend %q is not supported", config.Backend)
	}
	a, err := o(ctx, config)
	if err != nil {
		return nil, err
	}
	if config.Workload.AutoReset {
		if err := a.Reset(ctx); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func openRelational(ctx context.Context, config feedbench.Config) (feedbench.Adapter, error) {
	d, err := sqldb.DialectFor(config.Backend)
	if err != nil {
		return nil, err
	}
	dsn := config.PostgresURI
	if config.Backend == feedbench.SQLite {
		dsn = sqldb.SQLiteDSN(config.SQLitePath)
	}
	return sqldb.Open(ctx, sqldb.NewCatalog(d), dsn)
}

func openRedis(ctx context.Context, config feedbench.Config) (feedbench.Adapter, error) {
	s, err := feedbench.ParseStrategy(string(config.Strategy))
	if err != nil {
		return nil, err
	}
	return redis.Open(ctx, config.RedisURL, s)
}

func openCassandra(_ context.Context, config feedbench.Config) (feedbench.Adapter, error) {
	return cassandra.Open(cassandra.ConfigFrom(config.Cassandra))
}
