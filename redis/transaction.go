package redis

import (
	"context"
	log "log/slog"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/sharedcode/feedbench"
)

// transaction owns a dedicated connection for its whole life. Writes are queued in a
// MULTI/EXEC pipeline and sent in one round trip by Commit, so Cancel only has to drop
// the queue. Reads see committed state, not this transaction's queued writes.
type transaction struct {
	feedbench.TxState
	conn   *redis.Conn
	pipe   redis.Pipeliner
	fanout fanout
}

func (t *transaction) Set(ctx context.Context, c feedbench.Collection, values feedbench.Row) error {
	return t.MultiSet(ctx, c, []feedbench.Row{values})
}

func (t *transaction) MultiSet(ctx context.Context, c feedbench.Collection, rows []feedbench.Row) error {
	if err := t.CheckWrite(); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	switch c {
	case feedbench.Tweets:
		tweets := make([]feedbench.Tweet, len(rows))
		for i, r := range rows {
			tw, err := feedbench.TweetFromWriteRow(r)
			if err != nil {
				return err
			}
			tw.ID = feedbench.NewTweetID()
			tweets[i] = tw
		}
		if err := t.fanout.postTweets(ctx, t.conn, t.pipe, tweets); err != nil {
			return feedbench.WrapBackend(backendName, err)
		}
		log.Debug(backendName+": queued tweets", "count", len(tweets))
	case feedbench.Follows:
		for _, r := range rows {
			f, err := feedbench.FollowFromRow(r)
			if err != nil {
				return err
			}
			t.queueFollow(ctx, f)
		}
		log.Debug(backendName+": queued follows", "count", len(rows))
	default:
		return feedbench.Mismatchf("%s: collection %s is not writable", backendName, c)
	}
	return nil
}

// queueFollow writes both directions of the edge. LREM first keeps each pair once.
func (t *transaction) queueFollow(ctx context.Context, f feedbench.Follow) {
	follower := encode(feedbench.Int64(int64(f.Follower)))
	followee := encode(feedbench.Int64(int64(f.Followee)))
	t.pipe.LRem(ctx, FollowsKey(f.Follower), 0, followee)
	t.pipe.LPush(ctx, FollowsKey(f.Follower), followee)
	t.pipe.LRem(ctx, FollowedKey(f.Followee), 0, follower)
	t.pipe.LPush(ctx, FollowedKey(f.Followee), follower)
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
		tweets, err := t.fanout.timeline(ctx, t.conn, user, limit, offset)
		if err != nil {
			return nil, feedbench.WrapBackend(backendName, err)
		}
		return tweetRows(tweets), nil
	case c == feedbench.Tweets && tag == feedbench.TagUserTweets:
		tweets, err := t.userTweets(ctx, user, limit, offset)
		if err != nil {
			return nil, feedbench.WrapBackend(backendName, err)
		}
		return tweetRows(tweets), nil
	case c == feedbench.Follows && tag == feedbench.TagFollowers:
		return t.edges(ctx, FollowedKey(user), limit, offset, func(other feedbench.UserID) feedbench.Follow {
			return feedbench.Follow{Follower: other, Followee: user}
		})
	case c == feedbench.Follows && tag == feedbench.TagFollowees:
		return t.edges(ctx, FollowsKey(user), limit, offset, func(other feedbench.UserID) feedbench.Follow {
			return feedbench.Follow{Follower: user, Followee: other}
		})
	}
	return nil, feedbench.Mismatchf("%s: no read %s on collection %s", backendName, tag, c)
}

// userTweets reads the author's whole list and windows it by timestamp.
func (t *transaction) userTweets(ctx context.Context, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error) {
	keys, err := t.conn.LRange(ctx, UsersKey(user), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	tweets, err := fetchTweets(ctx, t.conn, keys)
	if err != nil {
		return nil, err
	}
	return feedbench.MergeTimeline(tweets, limit, offset), nil
}

// edges pages the ids of an edge list in ascending order. The list itself is kept newest first.
func (t *transaction) edges(ctx context.Context, key string, limit, offset int64, edge func(feedbench.UserID) feedbench.Follow) ([]feedbench.Row, error) {
	values, err := t.conn.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, feedbench.WrapBackend(backendName, err)
	}
	ids, err := parseUserIDs(values)
	if err != nil {
		return nil, err
	}
	slices.Sort(ids)
	if offset >= int64(len(ids)) {
		return []feedbench.Row{}, nil
	}
	ids = ids[offset:min(offset+limit, int64(len(ids)))]
	rows := make([]feedbench.Row, len(ids))
	for i, id := range ids {
		rows[i] = edge(id).Row()
	}
	return rows, nil
}

func tweetRows(tweets []feedbench.Tweet) []feedbench.Row {
	rows := make([]feedbench.Row, len(tweets))
	for i, tw := range tweets {
		rows[i] = tw.Row()
	}
	return rows
}

func (t *transaction) Commit(ctx context.Context) error {
	if err := t.BeginCommit(); err != nil {
		return err
	}
	defer t.release()
	n := t.pipe.Len()
	if n == 0 {
		return nil
	}
	log.Debug(backendName+" [START]: EXEC", "commands", n)
	if _, err := t.pipe.Exec(ctx); err != nil {
		return feedbench.WrapBackend(backendName, err)
	}
	log.Debug(backendName + " [END]: EXEC")
	return nil
}

func (t *transaction) Cancel(ctx context.Context) error {
	if err := t.BeginCancel(); err != nil {
		return err
	}
	log.Debug(backendName+": discarding queued commands", "commands", t.pipe.Len())
	t.pipe.Discard()
	t.release()
	return nil
}

// release returns the dedicated connection to the pool.
func (t *transaction) release() {
	if t.conn == nil {
		return
	}
	if err := t.conn.Close(); err != nil {
		log.Warn(backendName+": failed to release connection", "error", err)
	}
	t.conn = nil
}
