package cassandra

import (
	"time"

	"github.com/sharedcode/feedbench"
)

// encode maps a Value to the Go type gocql marshals into the matching CQL column.
// Timestamps are stored as bigint unix microseconds since CQL timestamp keeps only milliseconds.
func encode(v feedbench.Value) any {
	if v.Kind() == feedbench.KindTimestamp {
		t, _ := v.AsTime()
		return t.UnixMicro()
	}
	return v.Native()
}

// decode converts field i of a scanned row into a Value of the expected kind.
func decode(row []any, i int, kind feedbench.Kind) (feedbench.Value, error) {
	if i < 0 || i >= len(row) {
		return feedbench.Value{}, feedbench.Mismatchf("field %d out of range, row has %d fields", i, len(row))
	}
	if kind == feedbench.KindTimestamp {
		if us, ok := row[i].(int64); ok {
			return feedbench.Timestamp(time.UnixMicro(us)), nil
		}
	}
	return feedbench.FromNative(row[i], kind)
}

var tweetKinds = []feedbench.Kind{feedbench.KindString, feedbench.KindInt64, feedbench.KindString, feedbench.KindTimestamp}

func decodeRow(row []any, kinds []feedbench.Kind) (feedbench.Row, error) {
	if len(row) != len(kinds) {
		return nil, feedbench.Mismatchf("query returned %d columns, want %d", len(row), len(kinds))
	}
	out := make(feedbench.Row, len(kinds))
	for i, k := range kinds {
		v, err := decode(row, i, k)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
