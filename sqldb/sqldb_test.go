package sqldb

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sharedcode/feedbench"
)

var ctx = context.Background()

func openSQLite(t *testing.T) *Adapter {
	t.Helper()
	dsn := SQLiteDSN(filepath.Join(t.TempDir(), "feed.db"))
	a, err := Open(ctx, NewCatalog(SQLiteDialect), dsn)
	if err != nil {
		t.Fatalf("Open failed, details: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func write(t *testing.T, a *Adapter, task func(tx feedbench.Transaction) error) {
	t.Helper()
	tx, err := a.BeginTransaction(ctx, feedbench.ForWriting)
	if err != nil {
		t.Fatalf("BeginTransaction failed, details: %v", err)
	}
	if err := task(tx); err != nil {
		tx.Cancel(ctx)
		t.Fatalf("write failed, details: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed, details: %v", err)
	}
}

func read(t *testing.T, a *Adapter, c feedbench.Collection, filter feedbench.Row, tag feedbench.Tag) []feedbench.Row {
	t.Helper()
	tx, err := a.BeginTransaction(ctx, feedbench.ForReading)
	if err != nil {
		t.Fatalf("BeginTransaction failed, details: %v", err)
	}
	defer tx.Cancel(ctx)
	rows, err := tx.Get(ctx, c, filter, tag)
	if err != nil {
		t.Fatalf("Get failed, details: %v", err)
	}
	return rows
}

func tweetsOf(t *testing.T, rows []feedbench.Row) []feedbench.Tweet {
	t.Helper()
	tweets, err := feedbench.DecodeRows(rows, feedbench.TweetFromRow)
	if err != nil {
		t.Fatalf("decoding tweets failed, details: %v", err)
	}
	return tweets
}

func TestOpenIsIdempotent(t *testing.T) {
	dsn := SQLiteDSN(filepath.Join(t.TempDir(), "feed.db"))
	catalog := NewCatalog(SQLiteDialect)
	for i := 0; i < 2; i++ {
		a, err := Open(ctx, catalog, dsn)
		if err != nil {
			t.Fatalf("Open #%d failed, details: %v", i, err)
		}
		if a.Name() != "SQLITE" {
			t.Errorf("got name %q, want SQLITE", a.Name())
		}
		a.Close()
	}
}

func TestLifecycle(t *testing.T) {
	a := openSQLite(t)
	tx, _ := a.BeginTransaction(ctx, feedbench.ForWriting)
	if err := tx.Set(ctx, feedbench.Follows, feedbench.Follow{Follower: 1, Followee: 2}.Row()); err != nil {
		t.Fatalf("Set failed, details: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed, details: %v", err)
	}
	if !tx.Closed() {
		t.Error("transaction not closed after Commit")
	}
	row := feedbench.Follow{Follower: 3, Followee: 2}.Row()
	checks := map[string]error{
		"Set":      tx.Set(ctx, feedbench.Follows, row),
		"MultiSet": tx.MultiSet(ctx, feedbench.Follows, []feedbench.Row{row}),
		"Commit":   tx.Commit(ctx),
		"Cancel":   tx.Cancel(ctx),
	}
	for op, err := range checks {
		if !errors.Is(err, feedbench.ErrTxFinished) {
			t.Errorf("%s after Commit got %v, want TxFinished", op, err)
		}
	}
	if _, err := tx.Get(ctx, feedbench.Follows, feedbench.Filter(2, 10, 0), feedbench.TagFollowers); !errors.Is(err, feedbench.ErrTxFinished) {
		t.Errorf("Get after Commit got %v, want TxFinished", err)
	}
}

func TestReadOnly(t *testing.T) {
	a := openSQLite(t)
	tx, err := a.BeginTransaction(ctx, feedbench.ForReading)
	if err != nil {
		t.Fatalf("BeginTransaction failed, details: %v", err)
	}
	row := feedbench.Follow{Follower: 1, Followee: 2}.Row()
	if err := tx.Set(ctx, feedbench.Follows, row); !errors.Is(err, feedbench.ErrTxReadonly) {
		t.Errorf("Set got %v, want TxReadonly", err)
	}
	if err := tx.MultiSet(ctx, feedbench.Follows, []feedbench.Row{row}); !errors.Is(err, feedbench.ErrTxReadonly) {
		t.Errorf("MultiSet got %v, want TxReadonly", err)
	}
	if err := tx.Commit(ctx); !errors.Is(err, feedbench.ErrTxReadonly) {
		t.Errorf("Commit got %v, want TxReadonly", err)
	}
	if tx.Closed() {
		t.Error("read-only transaction closed by a rejected Commit")
	}
	if err := tx.Cancel(ctx); err != nil {
		t.Errorf("Cancel failed, details: %v", err)
	}
}

func TestCancelDiscardsWrites(t *testing.T) {
	a := openSQLite(t)
	tx, _ := a.BeginTransaction(ctx, feedbench.ForWriting)
	rows := []feedbench.Row{
		feedbench.Follow{Follower: 1, Followee: 2}.Row(),
		feedbench.Follow{Follower: 3, Followee: 2}.Row(),
	}
	if err := tx.MultiSet(ctx, feedbench.Follows, rows); err != nil {
		t.Fatalf("MultiSet failed, details: %v", err)
	}
	if err := tx.Cancel(ctx); err != nil {
		t.Fatalf("Cancel failed, details: %v", err)
	}
	if got := read(t, a, feedbench.Follows, feedbench.Filter(2, 10, 0), feedbench.TagFollowers); len(got) != 0 {
		t.Errorf("got %d followers after Cancel, want 0", len(got))
	}
}

func TestBatchEquivalence(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	var tweets []feedbench.Tweet
	for i := 0; i < 7; i++ {
		tweets = append(tweets, feedbench.Tweet{
			Author:    feedbench.UserID(1 + i%2),
			Text:      "tweet: with colons",
			Timestamp: base.Add(time.Duration(i) * time.Second),
		})
	}
	load := func(a *Adapter, batch bool) {
		write(t, a, func(tx feedbench.Transaction) error {
			rows := make([]feedbench.Row, len(tweets))
			for i := range tweets {
				rows[i] = tweets[i].WriteRow()
			}
			if batch {
				return tx.MultiSet(ctx, feedbench.Tweets, rows)
			}
			for _, r := range rows {
				if err := tx.Set(ctx, feedbench.Tweets, r); err != nil {
					return err
				}
			}
			return nil
		})
	}
	single, batched := openSQLite(t), openSQLite(t)
	load(single, false)
	load(batched, true)

	for _, user := range []feedbench.UserID{1, 2} {
		want := tweetsOf(t, read(t, single, feedbench.Tweets, feedbench.Filter(user, 100, 0), feedbench.TagUserTweets))
		got := tweetsOf(t, read(t, batched, feedbench.Tweets, feedbench.Filter(user, 100, 0), feedbench.TagUserTweets))
		if len(got) != len(want) || len(got) == 0 {
			t.Fatalf("user %d: got %d tweets, want %d", user, len(got), len(want))
		}
		for i := range got {
			if got[i].Author != want[i].Author || got[i].Text != want[i].Text || !got[i].Timestamp.Equal(want[i].Timestamp) {
				t.Errorf("user %d tweet %d: got %+v, want %+v", user, i, got[i], want[i])
			}
		}
	}
}

func TestMultiSetSplitsWideBatches(t *testing.T) {
	a := openSQLite(t)
	a.catalog.dialect.MaxParams = 4
	var rows []feedbench.Row
	for i := 1; i <= 5; i++ {
		rows = append(rows, feedbench.Follow{Follower: feedbench.UserID(i), Followee: 100}.Row())
	}
	write(t, a, func(tx feedbench.Transaction) error {
		return tx.MultiSet(ctx, feedbench.Follows, rows)
	})
	followers, err := feedbench.DecodeRows(read(t, a, feedbench.Follows, feedbench.Filter(100, 10, 0), feedbench.TagFollowers), feedbench.FollowFromRow)
	if err != nil {
		t.Fatal(err)
	}
	if len(followers) != 5 {
		t.Fatalf("got %d followers, want 5", len(followers))
	}
	for i, f := range followers {
		if f.Follower != feedbench.UserID(i+1) || f.Followee != 100 {
			t.Errorf("follower %d: got %+v", i, f)
		}
	}
}

func TestMultiSetRejectsRaggedRows(t *testing.T) {
	a := openSQLite(t)
	tx, _ := a.BeginTransaction(ctx, feedbench.ForWriting)
	defer tx.Cancel(ctx)
	rows := []feedbench.Row{
		feedbench.Follow{Follower: 1, Followee: 2}.Row(),
		{feedbench.Int64(3)},
	}
	if err := tx.MultiSet(ctx, feedbench.Follows, rows); !errors.Is(err, feedbench.ErrTypeMismatch) {
		t.Errorf("MultiSet got %v, want TypeMismatch for rows of different arity", err)
	}
}

func TestMissingStatementIsTypeMismatch(t *testing.T) {
	a := openSQLite(t)
	tx, _ := a.BeginTransaction(ctx, feedbench.ForWriting)
	defer tx.Cancel(ctx)
	if err := tx.Set(ctx, feedbench.General, feedbench.Row{feedbench.Int64(1)}); !errors.Is(err, feedbench.ErrTypeMismatch) || feedbench.IsRetryable(err) {
		t.Errorf("Set got %v, want a non-retryable TypeMismatch", err)
	}
	if _, err := tx.Get(ctx, feedbench.General, feedbench.Filter(1, 10, 0), feedbench.TagFollowers); !errors.Is(err, feedbench.ErrTypeMismatch) {
		t.Errorf("Get got %v, want TypeMismatch", err)
	}
}

func TestTimelineScenario(t *testing.T) {
	a := openSQLite(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	write(t, a, func(tx feedbench.Transaction) error {
		if err := tx.Set(ctx, feedbench.Follows, feedbench.Follow{Follower: 1, Followee: 2}.Row()); err != nil {
			return err
		}
		for i := 1; i <= 12; i++ {
			tw := feedbench.Tweet{Author: 2, Text: "t", Timestamp: base.Add(time.Duration(i) * time.Minute)}
			if err := tx.Set(ctx, feedbench.Tweets, tw.WriteRow()); err != nil {
				return err
			}
		}
		// Not followed by user 1.
		return tx.Set(ctx, feedbench.Tweets, feedbench.Tweet{Author: 3, Text: "x", Timestamp: base.Add(time.Hour)}.WriteRow())
	})

	got := tweetsOf(t, read(t, a, feedbench.Tweets, feedbench.Filter(1, 10, 0), feedbench.TagUserTimeline))
	if len(got) != 10 {
		t.Fatalf("got %d tweets, want 10", len(got))
	}
	for i, tw := range got {
		want := base.Add(time.Duration(12-i) * time.Minute)
		if !tw.Timestamp.Equal(want) || tw.Author != 2 {
			t.Errorf("entry %d: got %v by %d, want %v by 2", i, tw.Timestamp, tw.Author, want)
		}
	}

	page := tweetsOf(t, read(t, a, feedbench.Tweets, feedbench.Filter(1, 10, 10), feedbench.TagUserTimeline))
	if len(page) != 2 || !page[1].Timestamp.Equal(base.Add(time.Minute)) {
		t.Errorf("second page got %d tweets, want t2 and t1", len(page))
	}
}

func TestFollowPairsAreUnique(t *testing.T) {
	a := openSQLite(t)
	edge := feedbench.Follow{Follower: 1, Followee: 2}.Row()
	write(t, a, func(tx feedbench.Transaction) error {
		if err := tx.Set(ctx, feedbench.Follows, edge); err != nil {
			return err
		}
		return tx.MultiSet(ctx, feedbench.Follows, []feedbench.Row{edge, edge})
	})
	if got := read(t, a, feedbench.Follows, feedbench.Filter(1, 10, 0), feedbench.TagFollowees); len(got) != 1 {
		t.Errorf("got %d followees, want 1", len(got))
	}
}

func TestReset(t *testing.T) {
	a := openSQLite(t)
	write(t, a, func(tx feedbench.Transaction) error {
		return tx.Set(ctx, feedbench.Tweets, feedbench.Tweet{Author: 5, Text: "hi", Timestamp: time.Now()}.WriteRow())
	})
	if err := a.Reset(ctx); err != nil {
		t.Fatalf("Reset failed, details: %v", err)
	}
	if got := read(t, a, feedbench.Tweets, feedbench.Filter(5, 10, 0), feedbench.TagUserTweets); len(got) != 0 {
		t.Errorf("got %d tweets after Reset, want 0", len(got))
	}
}

func TestBackendErrorKeepsIdentity(t *testing.T) {
	a := openSQLite(t)
	tx, _ := a.BeginTransaction(ctx, feedbench.ForWriting)
	defer tx.Cancel(ctx)
	err := tx.Set(ctx, feedbench.Tweets, feedbench.Row{feedbench.Int64(1)})
	if !errors.Is(err, feedbench.ErrBackend) {
		t.Fatalf("got %v, want a backend error", err)
	}
	var be feedbench.Error
	if !errors.As(err, &be) || be.Backend != "SQLITE" {
		t.Errorf("got %#v, want backend SQLITE", err)
	}
	if !feedbench.IsRetryable(err) {
		t.Error("backend errors should be retryable")
	}
}
