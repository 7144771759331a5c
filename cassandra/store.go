package cassandra

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/sharedcode/feedbench"
)

const (
	tweetsTable    = "tweets_by_user"
	followsTable   = "follows"
	followersTable = "followers"
)

// statement is a buffered write.
type statement struct {
	cql  string
	args []any
}

// store is the part of a session the adapter needs.
type store interface {
	// executeBatch applies stmts atomically.
	executeBatch(ctx context.Context, stmts []statement) error
	// userTweets returns up to n of user's newest tweets as read rows, newest first.
	userTweets(ctx context.Context, user feedbench.UserID, n int64) ([]feedbench.Row, error)
	// edges returns the clustering ids of partition user in table, ascending.
	edges(ctx context.Context, table string, user feedbench.UserID) ([]feedbench.UserID, error)
	truncate(ctx context.Context) error
}

type sessionStore struct {
	session  *gocql.Session
	keyspace string
}

func (s sessionStore) table(name string) string {
	return qualified(s.keyspace, name)
}

func qualified(keyspace, table string) string {
	return keyspace + "." + table
}

func insertTweet(keyspace string, t feedbench.Tweet) statement {
	return statement{
		cql: fmt.Sprintf("INSERT INTO %s (user_id, tweet_ts, tweet_id, tweet_text) VALUES (?, ?, ?, ?);", qualified(keyspace, tweetsTable)),
		args: []any{
			encode(feedbench.Int64(int64(t.Author))),
			encode(feedbench.Timestamp(t.Timestamp)),
			encode(feedbench.String(t.ID)),
			encode(feedbench.String(t.Text)),
		},
	}
}

// insertFollow returns both directions of the edge.
func insertFollow(keyspace string, f feedbench.Follow) []statement {
	follower, followee := encode(feedbench.Int64(int64(f.Follower))), encode(feedbench.Int64(int64(f.Followee)))
	return []statement{
		{cql: fmt.Sprintf("INSERT INTO %s (user_id, follows_id) VALUES (?, ?);", qualified(keyspace, followsTable)), args: []any{follower, followee}},
		{cql: fmt.Sprintf("INSERT INTO %s (follows_id, user_id) VALUES (?, ?);", qualified(keyspace, followersTable)), args: []any{followee, follower}},
	}
}

func (s sessionStore) executeBatch(ctx context.Context, stmts []statement) error {
	b := s.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	for _, st := range stmts {
		b.Query(st.cql, st.args...)
	}
	return s.session.ExecuteBatch(b)
}

var tweetColumns = []string{"tweet_id", "user_id", "tweet_text", "tweet_ts"}

func (s sessionStore) userTweets(ctx context.Context, user feedbench.UserID, n int64) ([]feedbench.Row, error) {
	q := fmt.Sprintf("SELECT tweet_id, user_id, tweet_text, tweet_ts FROM %s WHERE user_id = ? LIMIT ?;", s.table(tweetsTable))
	iter := s.session.Query(q, int64(user), int(n)).WithContext(ctx).Iter()
	var rows []feedbench.Row
	for {
		m := make(map[string]any, len(tweetColumns))
		if !iter.MapScan(m) {
			break
		}
		raw := make([]any, len(tweetColumns))
		for i, c := range tweetColumns {
			raw[i] = m[c]
		}
		r, err := decodeRow(raw, tweetKinds)
		if err != nil {
			iter.Close()
			return nil, err
		}
		rows = append(rows, r)
	}
	return rows, iter.Close()
}

func (s sessionStore) edges(ctx context.Context, table string, user feedbench.UserID) ([]feedbench.UserID, error) {
	key, other := "user_id", "follows_id"
	if table == followersTable {
		key, other = other, key
	}
	q := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?;", other, s.table(table), key)
	iter := s.session.Query(q, int64(user)).WithContext(ctx).Iter()
	var ids []feedbench.UserID
	var id int64
	for iter.Scan(&id) {
		ids = append(ids, feedbench.UserID(id))
	}
	return ids, iter.Close()
}

func (s sessionStore) truncate(ctx context.Context) error {
	for _, t := range []string{tweetsTable, followsTable, followersTable} {
		if err := s.session.Query("TRUNCATE " + s.table(t) + ";").WithContext(ctx).Exec(); err != nil {
			return err
		}
	}
	return nil
}
