package feedbench

import (
	"context"
)

// TransactionMode enumerates the supported transaction behaviors.
type TransactionMode int

const (
	// ForReading disallows modifications; read-only.
	ForReading TransactionMode = iota
	// ForWriting allows Set, MultiSet and Commit.
	ForWriting
)

func (m TransactionMode) String() string {
	if m == ForWriting {
		return "read-write"
	}
	return "read-only"
}

// Transaction is the contract every backend implements. A Transaction is owned by one
// caller for its whole life and is not safe for concurrent use.
type Transaction interface {
	// Set inserts one logical record into the collection.
	Set(ctx context.Context, c Collection, values Row) error
	// MultiSet inserts rows in one backend round trip.
	MultiSet(ctx context.Context, c Collection, rows []Row) error
	// Get runs the read selected by tag with the filter values, in either mode.
	Get(ctx context.Context, c Collection, filter Row, tag Tag) ([]Row, error)
	// Commit makes all writes durable and visible. Valid only on an active read-write transaction.
	Commit(ctx context.Context) error
	// Cancel discards all writes made since creation.
	Cancel(ctx context.Context) error
	// Closed reports whether the transaction was committed or cancelled.
	Closed() bool
}

// Adapter owns a backend connection and spawns transactions on it. BeginTransaction is
// safe for concurrent use; each call acquires its own backend handle.
type Adapter interface {
	// Name identifies the backend in errors and logs.
	Name() string
	// BeginTransaction starts a transaction in the given mode.
	BeginTransaction(ctx context.Context, mode TransactionMode) (Transaction, error)
	// Reset removes all data from the backend.
	Reset(ctx context.Context) error
	// Close releases the adapter's connection.
	Close() error
}

type txState int

const (
	active txState = iota
	committed
	cancelled
)

// TxState tracks the lifecycle of a transaction. Backends embed it and call the
// Check* methods before doing any native work.
type TxState struct {
	mode  TransactionMode
	state txState
}

// NewTxState returns an active state in the given mode.
func NewTxState(mode TransactionMode) TxState {
	return TxState{mode: mode}
}

// Mode returns the mode fixed at creation.
func (s *TxState) Mode() TransactionMode {
	return s.mode
}

// Closed reports whether a terminal transition happened.
func (s *TxState) Closed() bool {
	return s.state != active
}

// CheckWrite validates a Set or MultiSet.
func (s *TxState) CheckWrite() error {
	if s.Closed() {
		return NewError(TxFinished)
	}
	if s.mode != ForWriting {
		return NewError(TxReadonly)
	}
	return nil
}

// CheckRead validates a Get.
func (s *TxState) CheckRead() error {
	if s.Closed() {
		return NewError(TxFinished)
	}
	return nil
}

// BeginCommit validates a Commit and moves to the committed state.
func (s *TxState) BeginCommit() error {
	if err := s.CheckWrite(); err != nil {
		return err
	}
	s.state = committed
	return nil
}

// BeginCancel validates a Cancel and moves to the cancelled state.
func (s *TxState) BeginCancel() error {
	if s.Closed() {
		return NewError(TxFinished)
	}
	s.state = cancelled
	return nil
}
