package feedbench

import (
	"time"

	"github.com/google/uuid"
)

// NewTweetID returns a time-ordered (version 7) UUID string, so ids issued later compare
// greater. It retries on error with a 1ms backoff up to 10 times and panics only if all
// attempts fail, which should never happen under normal conditions.
func NewTweetID() string {
	var err error
	for i := 0; i < 10; i++ {
		var id uuid.UUID
		id, err = uuid.NewV7()
		if err == nil {
			return id.String()
		}
		time.Sleep(time.Duration(1 * time.Millisecond))
	}
	panic(err)
}

// IsTweetID reports whether s parses as an id issued by NewTweetID.
func IsTweetID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
