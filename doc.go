// Package feedbench contains the storage-polymorphic transaction contract, the value bridge
// and the domain types of the feed benchmark backend. Concrete backends live in the sqldb,
// redis and cassandra sub-packages; the repository package composes them into feed operations
// and the restapi package serves those over HTTP.
//
// See `factory` for opening the backend a Config names.
package feedbench

// Transaction model
//
// A transaction is begun in ForReading or ForWriting mode and ends with exactly one Commit or
// Cancel. Writes issued on a key-value backend are buffered and reach the server together at
// Commit, so a transaction does not read its own writes there. Relational transactions map onto
// the driver's native transaction and do.
//
// Operations on a finished transaction fail with ErrTxFinished. Writes and Commit on a read-only
// transaction fail with ErrTxReadonly. Failures reported by a store are wrapped with the backend's
// name and keep the native error reachable through errors.As.
//
// The effective duration of an operation is bounded by the caller's context and, when set, the
// repository's MaxTime.
