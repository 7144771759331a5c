// Package sqldb implements the feedbench transaction contract on a relational engine through
// database/sql. Statements come from a Catalog of per-dialect scripts.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	log "log/slog"

	"github.com/sharedcode/feedbench"
)

// Adapter owns a database/sql pool and spawns transactions on it.
type Adapter struct {
	db      *sql.DB
	catalog *Catalog
}

// Open connects with the catalog's dialect driver and ensures the schema exists.
// dsn is passed to the driver untouched.
func Open(ctx context.Context, catalog *Catalog, dsn string) (*Adapter, error) {
	d := catalog.Dialect()
	log.Info("Opening relational connection", "backend", d.Name)
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, feedbench.WrapBackend(d.Name, fmt.Errorf("sql open: %w", err))
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, feedbench.WrapBackend(d.Name, fmt.Errorf("ping: %w", err))
	}
	a := NewAdapter(db, catalog)
	if err := a.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

// NewAdapter wraps an already opened pool. The schema is not touched.
func NewAdapter(db *sql.DB, catalog *Catalog) *Adapter {
	return &Adapter{db: db, catalog: catalog}
}

// Name returns the dialect name.
func (a *Adapter) Name() string {
	return a.catalog.Dialect().Name
}

// EnsureSchema creates tables and indices if they do not exist yet.
func (a *Adapter) EnsureSchema(ctx context.Context) error {
	log.Debug(a.Name() + " [START]: Ensuring schema...")
	for _, op := range []feedbench.Operation{
		feedbench.CreateTable("tweets"),
		feedbench.CreateTable("follows"),
		feedbench.CreateIndices,
	} {
		if err := a.execScript(ctx, a.catalog.MustScript(feedbench.General, op)); err != nil {
			return fmt.Errorf("ensure schema %s: %w", op, err)
		}
	}
	log.Debug(a.Name() + " [END]: Schema ready")
	return nil
}

// Reset deletes all rows.
func (a *Adapter) Reset(ctx context.Context) error {
	log.Info("Resetting relational store", "backend", a.Name())
	return a.execScript(ctx, a.catalog.MustScript(feedbench.General, feedbench.Reset))
}

func (a *Adapter) execScript(ctx context.Context, script string) error {
	for _, stmt := range Statements(script) {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			return feedbench.WrapBackend(a.Name(), err)
		}
	}
	return nil
}

// BeginTransaction starts a native transaction; the returned Transaction owns it.
func (a *Adapter) BeginTransaction(ctx context.Context, mode feedbench.TransactionMode) (feedbench.Transaction, error) {
	d := a.catalog.Dialect()
	tx, err := a.db.BeginTx(ctx, d.txOptions(mode))
	if err != nil {
		return nil, feedbench.WrapTxFailure(d.Name, err)
	}
	log.Debug(d.Name+": transaction started", "mode", mode)
	return &transaction{
		TxState: feedbench.NewTxState(mode),
		tx:      tx,
		catalog: a.catalog,
	}, nil
}

// Close closes the pool.
func (a *Adapter) Close() error {
	log.Info("Closing relational connection", "backend", a.Name())
	return a.db.Close()
}
