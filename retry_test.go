package feedbench

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryStopsOnSuccess(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 5, time.Millisecond, func(context.Context) error {
		attempts++
		if attempts < 3 {
			return WrapTxFailure("TEST", errors.New("refused"))
		}
		return nil
	}, nil)
	if err != nil || attempts != 3 {
		t.Errorf("got %v after %d attempts", err, attempts)
	}
}

func TestRetryGivesUp(t *testing.T) {
	attempts, gaveUp := 0, false
	err := Retry(context.Background(), 2, time.Millisecond, func(context.Context) error {
		attempts++
		return WrapBackend("TEST", errors.New("down"))
	}, func(context.Context) { gaveUp = true })
	if !errors.Is(err, ErrBackend) || attempts != 3 || !gaveUp {
		t.Errorf("got %v after %d attempts, gave up %v", err, attempts, gaveUp)
	}
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), 5, time.Millisecond, func(context.Context) error {
		attempts++
		return NewError(TxReadonly)
	}, nil)
	if !errors.Is(err, ErrTxReadonly) || attempts != 1 {
		t.Errorf("got %v after %d attempts", err, attempts)
	}
}
