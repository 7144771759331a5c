// Package dataset reads the benchmark's tweet and follow CSV files.
//
// A tweets file has the columns USER_ID,TWEET_TEXT and an optional TWEET_TS in RFC 3339.
// A follows file has USER_ID,FOLLOWS_ID. Both start with a header row.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sharedcode/feedbench"
)

// LoadTweets reads every tweet in the file at path.
func LoadTweets(path string) ([]feedbench.Tweet, error) {
	return load(path, ReadTweets)
}

// LoadFollows reads every follow edge in the file at path.
func LoadFollows(path string) ([]feedbench.Follow, error) {
	return load(path, ReadFollows)
}

func load[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	items, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// ReadTweets parses a tweets CSV. Tweets without TWEET_TS keep a zero timestamp.
func ReadTweets(r io.Reader) ([]feedbench.Tweet, error) {
	var tweets []feedbench.Tweet
	err := records(r, 2, func(line int, rec []string) error {
		author, err := parseUser(rec[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		t := feedbench.Tweet{Author: author, Text: rec[1]}
		if len(rec) > 2 && strings.TrimSpace(rec[2]) != "" {
			if t.Timestamp, err = time.Parse(time.RFC3339Nano, strings.TrimSpace(rec[2])); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
		tweets = append(tweets, t)
		return nil
	})
	return tweets, err
}

// ReadFollows parses a follows CSV.
func ReadFollows(r io.Reader) ([]feedbench.Follow, error) {
	var follows []feedbench.Follow
	err := records(r, 2, func(line int, rec []string) error {
		from, err := parseUser(rec[0])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		to, err := parseUser(rec[1])
		if err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		follows = append(follows, feedbench.Follow{Follower: from, Followee: to})
		return nil
	})
	return follows, err
}

// records calls fn for every record after the header. Records need at least minFields.
func records(r io.Reader, minFields int, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		line, _ := cr.FieldPos(0)
		if len(rec) < minFields {
			return fmt.Errorf("line %d has %d fields, want at least %d", line, len(rec), minFields)
		}
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func parseUser(s string) (feedbench.UserID, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user id %q is not an integer", s)
	}
	return feedbench.UserID(id), nil
}

// Batches splits items into consecutive slices of at most size items.
func Batches[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for len(items) > 0 {
		n := min(size, len(items))
		batches = append(batches, items[:n:n])
		items = items[n:]
	}
	return batches
}
