package sqldb

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/sharedcode/feedbench"
)

// Dialect captures what differs between the relational engines this package drives.
type Dialect struct {
	// Name is the backend identity reported in errors and logs.
	Name string
	// Driver is the database/sql driver name.
	Driver string
	// Scripts is the directory under scripts/ holding this dialect's statements.
	Scripts string
	// MaxParams bounds the bound parameters of one statement.
	MaxParams int

	placeholder       func(n int) string
	readOnlyTxOptions bool
}

// PostgresDialect drives PostgreSQL through lib/pq.
var PostgresDialect = Dialect{
	Name:              "POSTGRES",
	Driver:            "postgres",
	Scripts:           "postgres",
	MaxParams:         65535,
	placeholder:       func(n int) string { return fmt.Sprintf("$%d", n) },
	readOnlyTxOptions: true,
}

// SQLiteDialect drives an embedded SQLite database through modernc.org/sqlite.
var SQLiteDialect = Dialect{
	Name:        "SQLITE",
	Driver:      "sqlite",
	Scripts:     "sqlite",
	MaxParams:   32766,
	placeholder: func(int) string { return "?" },
}

// DialectFor maps a configured backend type to its dialect.
func DialectFor(t feedbench.BackendType) (Dialect, error) {
	switch t {
	case feedbench.Postgres:
		return PostgresDialect, nil
	case feedbench.SQLite:
		return SQLiteDialect, nil
	}
	return Dialect{}, fmt.Errorf("%q is not a relational backend", t)
}

// SQLiteDSN builds a modernc.org/sqlite DSN for a database file.
func SQLiteDSN(path string) string {
	return "file:" + path + "?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_time_format=sqlite"
}

func (d Dialect) txOptions(mode feedbench.TransactionMode) *sql.TxOptions {
	if !d.readOnlyTxOptions {
		return nil
	}
	return &sql.TxOptions{ReadOnly: mode == feedbench.ForReading}
}
