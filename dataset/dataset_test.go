package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadTweets(t *testing.T) {
	in := "USER_ID,TWEET_TEXT,TWEET_TS\n" +
		"1,hello,2024-05-01T10:00:00Z\n" +
		"2,\"comma, quoted\"\n" +
		" 3 ,spaced,\n"
	got, err := ReadTweets(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTweets failed, details: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d tweets, want 3", len(got))
	}
	if got[0].Author != 1 || got[0].Text != "hello" || !got[0].Timestamp.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("got %+v", got[0])
	}
	if got[1].Text != "comma, quoted" || !got[1].Timestamp.IsZero() {
		t.Errorf("got %+v", got[1])
	}
	if got[2].Author != 3 {
		t.Errorf("got %+v", got[2])
	}
}

func TestReadTweetsErrors(t *testing.T) {
	for _, in := range []string{
		"USER_ID,TWEET_TEXT\nx,hello\n",
		"USER_ID,TWEET_TEXT\n1\n",
		"USER_ID,TWEET_TEXT,TWEET_TS\n1,hi,yesterday\n",
	} {
		if _, err := ReadTweets(strings.NewReader(in)); err == nil {
			t.Errorf("accepted %q", in)
		}
	}
}

func TestLoadFollows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "follows.csv")
	if err := os.WriteFile(path, []byte("USER_ID,FOLLOWS_ID\n1,2\n1,3\n4,2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFollows(path)
	if err != nil {
		t.Fatalf("LoadFollows failed, details: %v", err)
	}
	if len(got) != 3 || got[2].Follower != 4 || got[2].Followee != 2 {
		t.Errorf("got %+v", got)
	}
	if _, err := LoadFollows(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestEmptyFile(t *testing.T) {
	got, err := ReadFollows(strings.NewReader(""))
	if err != nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestBatches(t *testing.T) {
	got := Batches([]int{1, 2, 3, 4, 5}, 2)
	if len(got) != 3 || len(got[2]) != 1 || got[2][0] != 5 {
		t.Errorf("got %v", got)
	}
	if got := Batches([]int{1, 2}, 0); len(got) != 2 {
		t.Errorf("size 0 got %v", got)
	}
	if got := Batches[int](nil, 3); len(got) != 0 {
		t.Errorf("nil got %v", got)
	}
}
