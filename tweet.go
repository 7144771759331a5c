package feedbench

import (
	"fmt"
	"time"
)

// UserID identifies a user. Ids are never reused.
type UserID int64

// Tweet is immutable once stored. ID is assigned by the store.
type Tweet struct {
	ID        string    `json:"id"`
	Author    UserID    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Follow is the edge follower -> followee.
type Follow struct {
	Follower UserID `json:"follower"`
	Followee UserID `json:"followee"`
}

// MaxTweetLength bounds Tweet.Text.
const MaxTweetLength = 280

// Validate checks the caller-supplied fields.
func (t Tweet) Validate() error {
	if n := len([]rune(t.Text)); n > MaxTweetLength {
		return fmt.Errorf("tweet text has %d characters, max is %d", n, MaxTweetLength)
	}
	return nil
}

// WriteRow is the row shape Set expects for the Tweets collection.
func (t Tweet) WriteRow() Row {
	return Row{Int64(int64(t.Author)), String(t.Text), Timestamp(t.Timestamp)}
}

// TweetFromWriteRow decodes a Tweets write row: author, text, timestamp.
func TweetFromWriteRow(r Row) (Tweet, error) {
	if len(r) != 3 {
		return Tweet{}, Mismatchf("tweet write row has %d fields, want 3", len(r))
	}
	author, err := r[0].AsInt64()
	if err != nil {
		return Tweet{}, err
	}
	text, err := r[1].AsString()
	if err != nil {
		return Tweet{}, err
	}
	ts, err := r[2].AsTime()
	if err != nil {
		return Tweet{}, err
	}
	return Tweet{Author: UserID(author), Text: text, Timestamp: ts}, nil
}

// TweetFromRow decodes a Tweets read row: id, author, text, timestamp.
func TweetFromRow(r Row) (Tweet, error) {
	if len(r) != 4 {
		return Tweet{}, Mismatchf("tweet row has %d fields, want 4", len(r))
	}
	id, err := r[0].AsString()
	if err != nil {
		return Tweet{}, err
	}
	author, err := r[1].AsInt64()
	if err != nil {
		return Tweet{}, err
	}
	text, err := r[2].AsString()
	if err != nil {
		return Tweet{}, err
	}
	ts, err := r[3].AsTime()
	if err != nil {
		return Tweet{}, err
	}
	return Tweet{ID: id, Author: UserID(author), Text: text, Timestamp: ts}, nil
}

// Row is the read shape of a tweet.
func (t Tweet) Row() Row {
	return Row{String(t.ID), Int64(int64(t.Author)), String(t.Text), Timestamp(t.Timestamp)}
}

// Row is the read and write shape of the Follows collection.
func (f Follow) Row() Row {
	return Row{Int64(int64(f.Follower)), Int64(int64(f.Followee))}
}

// FollowFromRow decodes a Follows row: follower, followee.
func FollowFromRow(r Row) (Follow, error) {
	if len(r) != 2 {
		return Follow{}, Mismatchf("follow row has %d fields, want 2", len(r))
	}
	from, err := r[0].AsInt64()
	if err != nil {
		return Follow{}, err
	}
	to, err := r[1].AsInt64()
	if err != nil {
		return Follow{}, err
	}
	return Follow{Follower: UserID(from), Followee: UserID(to)}, nil
}

// Filter builds the filter row every tagged read takes.
func Filter(user UserID, limit, offset int64) Row {
	return Row{Int64(int64(user)), Int64(limit), Int64(offset)}
}

// ParseFilter decodes a filter row built by Filter.
func ParseFilter(r Row) (user UserID, limit, offset int64, err error) {
	if len(r) != 3 {
		return 0, 0, 0, Mismatchf("filter has %d fields, want 3", len(r))
	}
	u, err := r[0].AsInt64()
	if err != nil {
		return 0, 0, 0, err
	}
	if limit, err = r[1].AsInt64(); err != nil {
		return 0, 0, 0, err
	}
	if offset, err = r[2].AsInt64(); err != nil {
		return 0, 0, 0, err
	}
	return UserID(u), limit, offset, nil
}

// DecodeRows maps rows through decode, stopping at the first error.
func DecodeRows[T any](rows []Row, decode func(Row) (T, error)) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		v, err := decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
