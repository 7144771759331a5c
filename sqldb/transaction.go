package sqldb

import (
	"context"
	"database/sql"
	log "log/slog"

	"github.com/sharedcode/feedbench"
)

type transaction struct {
	feedbench.TxState
	// tx is consumed by Commit or Cancel.
	tx      *sql.Tx
	catalog *Catalog
}

func (t *transaction) backend() string {
	return t.catalog.Dialect().Name
}

// script looks up the statement of op on c. A missing one means the collection does not
// support the operation.
func (t *transaction) script(c feedbench.Collection, op feedbench.Operation) (string, error) {
	s, ok := t.catalog.Script(c, op)
	if !ok {
		return "", feedbench.Mismatchf("%s: no %s statement for collection %s", t.backend(), op, c)
	}
	return s, nil
}

func (t *transaction) Set(ctx context.Context, c feedbench.Collection, values feedbench.Row) error {
	if err := t.CheckWrite(); err != nil {
		return err
	}
	script, err := t.script(c, feedbench.Insert)
	if err != nil {
		return err
	}
	log.Debug(t.backend() + " [START]: Inserting one row...")
	if _, err := t.tx.ExecContext(ctx, script, encodeRow(values)...); err != nil {
		return feedbench.WrapBackend(t.backend(), err)
	}
	log.Debug(t.backend()+" [END]: Inserted one row", "collection", c)
	return nil
}

// MultiSet executes one batch insert statement carrying every row. Batches wider than
// the dialect's parameter limit are split, all inside the same native transaction.
func (t *transaction) MultiSet(ctx context.Context, c feedbench.Collection, rows []feedbench.Row) error {
	if err := t.CheckWrite(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	if _, err := t.script(c, feedbench.BatchInsert); err != nil {
		return err
	}
	arity := len(rows[0])
	for i, r := range rows {
		if len(r) != arity {
			return feedbench.Mismatchf("batch row %d has %d values, want %d", i, len(r), arity)
		}
	}
	log.Debug(t.backend() + " [START]: Batch inserting...")
	perStmt := len(rows)
	if max := t.catalog.Dialect().MaxParams; arity > 0 && perStmt*arity > max {
		perStmt = max / arity
	}
	for start := 0; start < len(rows); start += perStmt {
		end := start + perStmt
		if end > len(rows) {
			end = len(rows)
		}
		params := make([]any, 0, (end-start)*arity)
		for _, r := range rows[start:end] {
			params = append(params, encodeRow(r)...)
		}
		if _, err := t.tx.ExecContext(ctx, t.catalog.BatchScript(c, end-start, arity), params...); err != nil {
			return feedbench.WrapBackend(t.backend(), err)
		}
	}
	log.Debug(t.backend()+" [END]: Batch inserted", "collection", c, "rows", len(rows))
	return nil
}

func (t *transaction) Get(ctx context.Context, c feedbench.Collection, filter feedbench.Row, tag feedbench.Tag) ([]feedbench.Row, error) {
	if err := t.CheckRead(); err != nil {
		return nil, err
	}
	kinds, ok := rowKinds[c]
	if !ok {
		return nil, feedbench.Mismatchf("%s: no read shape for collection %s", t.backend(), c)
	}
	script, err := t.script(c, feedbench.Select(tag))
	if err != nil {
		return nil, err
	}
	log.Debug(t.backend()+" [START]: Querying...", "collection", c, "tag", tag)
	rows, err := t.tx.QueryContext(ctx, script, encodeRow(filter)...)
	if err != nil {
		return nil, feedbench.WrapBackend(t.backend(), err)
	}
	defer rows.Close()

	var result []feedbench.Row
	for rows.Next() {
		raw := make([]any, len(kinds))
		ptrs := make([]any, len(kinds))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, feedbench.WrapBackend(t.backend(), err)
		}
		r, err := decodeRow(raw, kinds)
		if err != nil {
			return nil, err
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, feedbench.WrapBackend(t.backend(), err)
	}
	log.Debug(t.backend()+" [END]: Found items", "count", len(result))
	return result, nil
}

func (t *transaction) Commit(ctx context.Context) error {
	if err := t.BeginCommit(); err != nil {
		return err
	}
	log.Debug(t.backend() + " [START]: Committing...")
	tx := t.tx
	t.tx = nil
	if err := tx.Commit(); err != nil {
		return feedbench.WrapBackend(t.backend(), err)
	}
	log.Debug(t.backend() + " [END]: Committed")
	return nil
}

func (t *transaction) Cancel(ctx context.Context) error {
	if err := t.BeginCancel(); err != nil {
		return err
	}
	log.Debug(t.backend() + " [START]: Rolling back...")
	tx := t.tx
	t.tx = nil
	if err := tx.Rollback(); err != nil {
		return feedbench.WrapBackend(t.backend(), err)
	}
	log.Debug(t.backend() + " [END]: Rolled back")
	return nil
}
