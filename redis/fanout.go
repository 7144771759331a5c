package redis

import (
	"context"
	log "log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/sharedcode/feedbench"
)

// fanout is the timeline strategy of an adapter. Writes are queued on pipe and reach the
// server at commit; reads go through conn against committed state.
type fanout interface {
	postTweets(ctx context.Context, conn *redis.Conn, pipe redis.Pipeliner, tweets []feedbench.Tweet) error
	timeline(ctx context.Context, conn *redis.Conn, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error)
}

func newFanout(s feedbench.Strategy) fanout {
	if s == feedbench.Push {
		return pushFanout{}
	}
	return pullFanout{}
}

// queueTweet queues the record and the author's own list append.
func queueTweet(ctx context.Context, pipe redis.Pipeliner, t feedbench.Tweet) {
	key := TweetKey(t.ID)
	pipe.Set(ctx, key, encodeRecord(t), 0)
	pipe.RPush(ctx, UsersKey(t.Author), key)
}

// pullFanout writes only the author's list and merges followees' lists at read time.
type pullFanout struct{}

func (pullFanout) postTweets(ctx context.Context, _ *redis.Conn, pipe redis.Pipeliner, tweets []feedbench.Tweet) error {
	for _, t := range tweets {
		queueTweet(ctx, pipe, t)
	}
	return nil
}

func (pullFanout) timeline(ctx context.Context, conn *redis.Conn, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error) {
	followees, err := conn.LRange(ctx, FollowsKey(user), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	if len(followees) == 0 {
		return []feedbench.Tweet{}, nil
	}
	ids, err := parseUserIDs(followees)
	if err != nil {
		return nil, err
	}
	// List position follows post order, not timestamp order, so every tweet of every
	// followee is a candidate.
	lists := make([]*redis.StringSliceCmd, len(ids))
	if _, err := conn.Pipelined(ctx, func(p redis.Pipeliner) error {
		for i, f := range ids {
			lists[i] = p.LRange(ctx, UsersKey(f), 0, -1)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	var keys []string
	for _, l := range lists {
		keys = append(keys, l.Val()...)
	}
	candidates, err := fetchTweets(ctx, conn, keys)
	if err != nil {
		return nil, err
	}
	log.Debug("pull timeline merged", "user", user, "followees", len(ids), "candidates", len(candidates))
	return feedbench.MergeTimeline(candidates, limit, offset), nil
}

// pushFanout copies every tweet into the followers' timelines at post time. Followers
// gained after a tweet was posted do not get it backfilled.
type pushFanout struct{}

func (pushFanout) postTweets(ctx context.Context, conn *redis.Conn, pipe redis.Pipeliner, tweets []feedbench.Tweet) error {
	followers, err := followersOf(ctx, conn, tweets)
	if err != nil {
		return err
	}
	for _, t := range tweets {
		queueTweet(ctx, pipe, t)
		member := redis.Z{Score: score(t.Timestamp), Member: TweetKey(t.ID)}
		for _, f := range followers[t.Author] {
			pipe.ZAdd(ctx, TimelineKey(f), member)
		}
	}
	return nil
}

// followersOf reads the follower lists of every distinct author of tweets in one round trip.
func followersOf(ctx context.Context, conn *redis.Conn, tweets []feedbench.Tweet) (map[feedbench.UserID][]feedbench.UserID, error) {
	cmds := make(map[feedbench.UserID]*redis.StringSliceCmd)
	if _, err := conn.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, t := range tweets {
			if _, ok := cmds[t.Author]; !ok {
				cmds[t.Author] = p.LRange(ctx, FollowedKey(t.Author), 0, -1)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	followers := make(map[feedbench.UserID][]feedbench.UserID, len(cmds))
	for author, cmd := range cmds {
		ids, err := parseUserIDs(cmd.Val())
		if err != nil {
			return nil, err
		}
		followers[author] = ids
	}
	return followers, nil
}

func (pushFanout) timeline(ctx context.Context, conn *redis.Conn, user feedbench.UserID, limit, offset int64) ([]feedbench.Tweet, error) {
	keys, err := conn.ZRevRange(ctx, TimelineKey(user), offset, offset+limit-1).Result()
	if err != nil {
		return nil, err
	}
	return fetchTweets(ctx, conn, keys)
}

// fetchTweets loads the records of keys with one MGET, in key order. Keys without a
// record are skipped.
func fetchTweets(ctx context.Context, conn *redis.Conn, keys []string) ([]feedbench.Tweet, error) {
	if len(keys) == 0 {
		return []feedbench.Tweet{}, nil
	}
	records, err := conn.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	tweets := make([]feedbench.Tweet, 0, len(records))
	for i, r := range records {
		s, ok := r.(string)
		if !ok {
			log.Warn("tweet record missing", "key", keys[i])
			continue
		}
		row, err := decodeRecord(s)
		if err != nil {
			return nil, err
		}
		t, err := feedbench.TweetFromRow(row)
		if err != nil {
			return nil, err
		}
		tweets = append(tweets, t)
	}
	return tweets, nil
}

func parseUserIDs(values []string) ([]feedbench.UserID, error) {
	ids := make([]feedbench.UserID, len(values))
	for i, v := range values {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, feedbench.Mismatchf("malformed user id %q", v)
		}
		ids[i] = feedbench.UserID(n)
	}
	return ids, nil
}
