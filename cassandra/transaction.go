package cassandra

import (
	"context"
	log "log/slog"
	"sort"

	"github.com/sharedcode/feedbench"
)

type transaction struct {
	feedbench.TxState
	store    store
	keyspace string
	// pending is sent as one logged batch by Commit.
	pending []statement
}

func newTransaction(mode feedbench.TransactionMode, s store, keyspace string) *transaction {
	return &transaction{
		TxState:  feedbench.NewTxState(mode),
		store:    s,
		keyspace: keyspace,
	}
}

func (t *transaction) Set(ctx context.Context, c feedbench.Collection, values feedbench.Row) error {
	return t.MultiSet(ctx, c, []feedbench.Row{values})
}

func (t *transaction) MultiSet(ctx context.Context, c feedbench.Collection, rows []feedbench.Row) error {
	if err := t.CheckWrite(); err != nil {
		return err
	}
	var stmts []statement
	switch c {
	case feedbench.Tweets:
		for _, r := range rows {
			tw, err := feedbench.TweetFromWriteRow(r)
			if err != nil {
				return err
			}
			tw.ID = feedbench.NewTweetID()
			stmts = append(stmts, insertTweet(t.keyspace, tw))
		}
	case feedbench.Follows:
		for _, r := range rows {
			f, err := feedbench.FollowFromRow(r)
			if err != nil {
				return err
			}
			stmts = append(stmts, insertFollow(t.keyspace, f)...)
		}
	default:
		return feedbench.Mismatchf("%s: collection %s is not writable", backendName, c)
	}
	t.pending = append(t.pending, stmts...)
	log.Debug(backendName+": buffered statements", "collection", c, "rows", len(rows), "pending", len(t.pending))
	return nil
}

func (t *transaction) Get(ctx context.Context, c feedbench.Collection, filter feedbench.Row, tag feedbench.Tag) ([]feedbench.Row, error) {
	if err := t.CheckRead(); err != nil {
		return nil, err
	}
	user, limit, offset, err := feedbench.ParseFilter(filter)
	if err != nil {
		return nil, err
	}
	limit, offset = feedbench.NormalizeWindow(limit, offset)

	switch {
	case c == feedbench.Tweets && tag == feedbench.TagUserTimeline:
		tweets, err := t.timeline(ctx, user, limit, offset)
		if err != nil {
			return nil, feedbench.WrapBackend(backendName, err)
		}
		rows := make([]feedbench.Row, len(tweets))
		for i, tw := range tweets {
			rows[i] = tw.Row()
		}
		return rows, nil
	case c == feedbench.Tweets && tag == feedbench.TagUserTweets:
		rows, err := t.store.userTweets(ctx, user, offset+limit)
		if err != nil {
			return nil, feedbench.WrapBackend(backendName, err)
		}
		return window(rows, limit, offset), nil
	case c == feedbench.Follows && tag == feedbench.TagFollowers:
		return t.edges(ctx, followersTable, user, limit, offset, func(other feedbench.UserID) feedbench.Follow {
			return feedbench.Follow{Follower: other, Followee: user}
		})
	case c == feedbench.Follows && tag == feedbench.TagFollowees:
		return t.edges(ctx, followsTable, user, limit, offset, func(other feedbench.UserID) feedbench.Follow {
			return feedbench.Follow{Follower: user, Followee: other}
		})
	}
	return nil, feedbench.Mismatchf("%s: no read %s on collection %s", backendName, tag, c)
}

// timeline merges the newest offset+limit tweets of every followee.
func (t *transaction) timeline(ctx context.Context, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error) {
	followees, err := t.store.edges(ctx, followsTable, user)
	if err != nil {
		return nil, err
	}
	var candidates []feedbench.Tweet
	for _, f := range followees {
		rows, err := t.store.userTweets(ctx, f, offset+limit)
		if err != nil {
			return nil, err
		}
		tweets, err := feedbench.DecodeRows(rows, feedbench.TweetFromRow)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, tweets...)
	}
	return feedbench.MergeTimeline(candidates, limit, offset), nil
}

func (t *transaction) edges(ctx context.Context, table string, user feedbench.UserID, limit, offset int64, edge func(feedbench.UserID) feedbench.Follow) ([]feedbench.Row, error) {
	ids, err := t.store.edges(ctx, table, user)
	if err != nil {
		return nil, feedbench.WrapBackend(backendName, err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	rows := make([]feedbench.Row, len(ids))
	for i, id := range ids {
		rows[i] = edge(id).Row()
	}
	return window(rows, limit, offset), nil
}

func window(rows []feedbench.Row, limit, offset int64) []feedbench.Row {
	if offset >= int64(len(rows)) {
		return []feedbench.Row{}
	}
	end := offset + limit
	if end > int64(len(rows)) {
		end = int64(len(rows))
	}
	return rows[offset:end]
}

func (t *transaction) Commit(ctx context.Context) error {
	if err := t.BeginCommit(); err != nil {
		return err
	}
	stmts := t.pending
	t.pending = nil
	if len(stmts) == 0 {
		return nil
	}
	log.Debug(backendName+" [START]: Executing logged batch", "statements", len(stmts))
	if err := t.store.executeBatch(ctx, stmts); err != nil {
		return feedbench.WrapBackend(backendName, err)
	}
	log.Debug(backendName + " [END]: Executed logged batch")
	return nil
}

func (t *transaction) Cancel(ctx context.Context) error {
	if err := t.BeginCancel(); err != nil {
		return err
	}
	log.Debug(backendName+": dropping buffered statements", "statements", len(t.pending))
	t.pending = nil
	return nil
}
