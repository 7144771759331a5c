// Package repository composes feedbench transactions into the feed operations the benchmark
// driver and the REST API call. No backend type crosses this package's surface.
package repository

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"

	"github.com/sharedcode/feedbench"
)

// ErrInvalidArgument marks caller input rejected before any transaction is opened.
var ErrInvalidArgument = errors.New("invalid argument")

// Repository is safe for concurrent use; every operation opens its own transaction.
type Repository struct {
	adapter feedbench.Adapter
	opts    Options
}

// New returns a repository over adapter.
func New(adapter feedbench.Adapter, opts Options) *Repository {
	if opts.Now == nil {
		opts.Now = DefaultOptions().Now
	}
	return &Repository{adapter: adapter, opts: opts}
}

// Adapter returns the backend adapter.
func (r *Repository) Adapter() feedbench.Adapter {
	return r.adapter
}

// View runs task in a read-only transaction, cancelled once task returns.
func (r *Repository) View(ctx context.Context, task func(ctx context.Context, tx feedbench.Transaction) error) error {
	return r.run(ctx, feedbench.ForReading, task)
}

// Update runs task in a read-write transaction and commits it. If task fails the
// transaction is cancelled and the error returned unchanged.
func (r *Repository) Update(ctx context.Context, task func(ctx context.Context, tx feedbench.Transaction) error) error {
	return r.run(ctx, feedbench.ForWriting, task)
}

func (r *Repository) run(ctx context.Context, mode feedbench.TransactionMode, task func(ctx context.Context, tx feedbench.Transaction) error) error {
	if r.opts.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.MaxTime)
		defer cancel()
	}
	once := func(ctx context.Context) error {
		return r.runOnce(ctx, mode, task)
	}
	if r.opts.MaxRetries == 0 {
		return once(ctx)
	}
	return feedbench.Retry(ctx, r.opts.MaxRetries, r.opts.RetryBase, once, nil)
}

func (r *Repository) runOnce(ctx context.Context, mode feedbench.TransactionMode, task func(ctx context.Context, tx feedbench.Transaction) error) error {
	tx, err := r.adapter.BeginTransaction(ctx, mode)
	if err != nil {
		return err
	}
	if err := task(ctx, tx); err != nil {
		if !tx.Closed() {
			if cerr := tx.Cancel(ctx); cerr != nil {
				log.Warn("failed to cancel transaction", "backend", r.adapter.Name(), "error", cerr)
			}
		}
		return err
	}
	if tx.Closed() {
		return nil
	}
	if mode == feedbench.ForReading {
		return tx.Cancel(ctx)
	}
	return tx.Commit(ctx)
}

// InsertTweets stamps and validates tweets then writes them with one MultiSet on tx.
func (r *Repository) InsertTweets(ctx context.Context, tx feedbench.Transaction, tweets ...feedbench.Tweet) error {
	if len(tweets) == 0 {
		return nil
	}
	rows := make([]feedbench.Row, len(tweets))
	for i, t := range tweets {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		if t.Timestamp.IsZero() {
			t.Timestamp = r.opts.Now()
		}
		rows[i] = t.WriteRow()
	}
	if len(rows) == 1 {
		return tx.Set(ctx, feedbench.Tweets, rows[0])
	}
	return tx.MultiSet(ctx, feedbench.Tweets, rows)
}

// InsertFollows writes follow edges with one MultiSet on tx.
func (r *Repository) InsertFollows(ctx context.Context, tx feedbench.Transaction, follows ...feedbench.Follow) error {
	if len(follows) == 0 {
		return nil
	}
	rows := make([]feedbench.Row, len(follows))
	for i, f := range follows {
		rows[i] = f.Row()
	}
	if len(rows) == 1 {
		return tx.Set(ctx, feedbench.Follows, rows[0])
	}
	return tx.MultiSet(ctx, feedbench.Follows, rows)
}

// ReadTimeline returns user's home timeline window on tx.
func (r *Repository) ReadTimeline(ctx context.Context, tx feedbench.Transaction, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error) {
	return readTweets(ctx, tx, user, limit, offset, feedbench.TagUserTimeline)
}

// ReadUserTweets returns the window of tweets user authored on tx.
func (r *Repository) ReadUserTweets(ctx context.Context, tx feedbench.Transaction, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error) {
	return readTweets(ctx, tx, user, limit, offset, feedbench.TagUserTweets)
}

func readTweets(ctx context.Context, tx feedbench.Transaction, user feedbench.UserID, limit, offset int64, tag feedbench.Tag) ([]feedbench.Tweet, error) {
	limit, offset = feedbench.NormalizeWindow(limit, offset)
	rows, err := tx.Get(ctx, feedbench.Tweets, feedbench.Filter(user, limit, offset), tag)
	if err != nil {
		return nil, err
	}
	return feedbench.DecodeRows(rows, feedbench.TweetFromRow)
}

// ReadFollowers returns a window of the ids following user on tx.
func (r *Repository) ReadFollowers(ctx context.Context, tx feedbench.Transaction, user feedbench.UserID, limit, offset int64) ([]feedbench.UserID, error) {
	return readEdges(ctx, tx, user, limit, offset, feedbench.TagFollowers, func(f feedbench.Follow) feedbench.UserID { return f.Follower })
}

// ReadFollowees returns a window of the ids user follows on tx.
func (r *Repository) ReadFollowees(ctx context.Context, tx feedbench.Transaction, user feedbench.UserID, limit, offset int64) ([]feedbench.UserID, error) {
	return readEdges(ctx, tx, user, limit, offset, feedbench.TagFollowees, func(f feedbench.Follow) feedbench.UserID { return f.Followee })
}

func readEdges(ctx context.Context, tx feedbench.Transaction, user feedbench.UserID, limit, offset int64, tag feedbench.Tag, other func(feedbench.Follow) feedbench.UserID) ([]feedbench.UserID, error) {
	limit, offset = feedbench.NormalizeWindow(limit, offset)
	rows, err := tx.Get(ctx, feedbench.Follows, feedbench.Filter(user, limit, offset), tag)
	if err != nil {
		return nil, err
	}
	follows, err := feedbench.DecodeRows(rows, feedbench.FollowFromRow)
	if err != nil {
		return nil, err
	}
	ids := make([]feedbench.UserID, len(follows))
	for i, f := range follows {
		ids[i] = other(f)
	}
	return ids, nil
}

// PostTweet stores one tweet in its own transaction.
func (r *Repository) PostTweet(ctx context.Context, t feedbench.Tweet) error {
	return r.BatchPostTweets(ctx, []feedbench.Tweet{t})
}

// BatchPostTweets stores tweets in one transaction and one backend batch.
func (r *Repository) BatchPostTweets(ctx context.Context, tweets []feedbench.Tweet) error {
	return r.Update(ctx, func(ctx context.Context, tx feedbench.Transaction) error {
		return r.InsertTweets(ctx, tx, tweets...)
	})
}

// CreateFollow records follower -> followee in its own transaction.
func (r *Repository) CreateFollow(ctx context.Context, follower, followee feedbench.UserID) error {
	return r.BatchCreateFollows(ctx, []feedbench.Follow{{Follower: follower, Followee: followee}})
}

// BatchCreateFollows records edges in one transaction and one backend batch.
func (r *Repository) BatchCreateFollows(ctx context.Context, follows []feedbench.Follow) error {
	return r.Update(ctx, func(ctx context.Context, tx feedbench.Transaction) error {
		return r.InsertFollows(ctx, tx, follows...)
	})
}

// GetTimeline returns the newest tweets of the users user follows, newest first.
// A non-positive limit means 10; a negative offset means 0.
func (r *Repository) GetTimeline(ctx context.Context, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error) {
	var tweets []feedbench.Tweet
	err := r.View(ctx, func(ctx context.Context, tx feedbench.Transaction) (err error) {
		tweets, err = r.ReadTimeline(ctx, tx, user, limit, offset)
		return err
	})
	return tweets, err
}

// GetUserTweets returns the newest tweets user authored, newest first.
func (r *Repository) GetUserTweets(ctx context.Context, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error) {
	var tweets []feedbench.Tweet
	err := r.View(ctx, func(ctx context.Context, tx feedbench.Transaction) (err error) {
		tweets, err = r.ReadUserTweets(ctx, tx, user, limit, offset)
		return err
	})
	return tweets, err
}

// GetFollowers returns a window of the ids following user.
func (r *Repository) GetFollowers(ctx context.Context, user feedbench.UserID, limit, offset int64) ([]feedbench.UserID, error) {
	var ids []feedbench.UserID
	err := r.View(ctx, func(ctx context.Context, tx feedbench.Transaction) (err error) {
		ids, err = r.ReadFollowers(ctx, tx, user, limit, offset)
		return err
	})
	return ids, err
}

// GetFollowees returns a window of the ids user follows.
func (r *Repository) GetFollowees(ctx context.Context, user feedbench.UserID, limit, offset int64) ([]feedbench.UserID, error) {
	var ids []feedbench.UserID
	err := r.View(ctx, func(ctx context.Context, tx feedbench.Transaction) (err error) {
		ids, err = r.ReadFollowees(ctx, tx, user, limit, offset)
		return err
	})
	return ids, err
}
