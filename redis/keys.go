package redis

import (
	"strconv"
	"strings"

	"github.com/sharedcode/feedbench"
)

// Key prefixes of the feed namespace.
const (
	usersPrefix    = "USERS:"
	tweetsPrefix   = "TWEETS:"
	followsPrefix  = "FOLLOWS:"
	followedPrefix = "FOLLOWED:"
	timelinePrefix = "USER_TIMELINE:"
)

func userKey(prefix string, u feedbench.UserID) string {
	return prefix + strconv.FormatInt(int64(u), 10)
}

// UsersKey is the list of tweet keys authored by u, oldest first.
func UsersKey(u feedbench.UserID) string { return userKey(usersPrefix, u) }

// FollowsKey is the list of ids u follows.
func FollowsKey(u feedbench.UserID) string { return userKey(followsPrefix, u) }

// FollowedKey is the list of ids following u.
func FollowedKey(u feedbench.UserID) string { return userKey(followedPrefix, u) }

// TimelineKey is the push strategy's sorted set of tweet keys scored by timestamp.
func TimelineKey(u feedbench.UserID) string { return userKey(timelinePrefix, u) }

// TweetKey holds the serialized tweet record.
func TweetKey(id string) string { return tweetsPrefix + id }

// TweetIDFromKey strips the TWEETS: prefix.
func TweetIDFromKey(key string) (string, bool) {
	return strings.CutPrefix(key, tweetsPrefix)
}
