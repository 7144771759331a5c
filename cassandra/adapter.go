// Package cassandra implements the feedbench transaction contract on Cassandra. Writes are
// buffered and applied as one logged batch at commit; home timelines are merged at read time.
package cassandra

import (
	"context"
	log "log/slog"

	"github.com/gocql/gocql"

	"github.com/sharedcode/feedbench"
)

const backendName = "CASSANDRA"

// Adapter spawns transactions on a Cassandra session.
type Adapter struct {
	conn     *Connection
	store    store
	keyspace string
}

// Open connects to the cluster and ensures the feed schema exists.
func Open(config Config) (*Adapter, error) {
	conn, err := OpenConnection(config)
	if err != nil {
		return nil, feedbench.WrapBackend(backendName, err)
	}
	return NewAdapter(conn), nil
}

// NewAdapter wraps an open connection. The adapter takes ownership of conn.
func NewAdapter(conn *Connection) *Adapter {
	return &Adapter{
		conn:     conn,
		store:    sessionStore{session: conn.Session, keyspace: conn.Keyspace},
		keyspace: conn.Keyspace,
	}
}

func (a *Adapter) Name() string {
	return backendName
}

// BeginTransaction never touches the cluster: statements are buffered until Commit.
func (a *Adapter) BeginTransaction(ctx context.Context, mode feedbench.TransactionMode) (feedbench.Transaction, error) {
	if a.conn != nil && (a.conn.Session == nil || a.conn.Session.Closed()) {
		return nil, feedbench.WrapTxFailure(backendName, gocql.ErrSessionClosed)
	}
	log.Debug(backendName+": transaction started", "mode", mode)
	return newTransaction(mode, a.store, a.keyspace), nil
}

// Reset truncates the feed tables.
func (a *Adapter) Reset(ctx context.Context) error {
	log.Info("Truncating cassandra tables", "keyspace", a.keyspace)
	if err := a.store.truncate(ctx); err != nil {
		return feedbench.WrapBackend(backendName, err)
	}
	return nil
}

func (a *Adapter) Close() error {
	a.conn.Close()
	return nil
}
