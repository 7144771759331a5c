package sqldb

import (
	"github.com/sharedcode/feedbench"
)

// encode maps a Value to the bound-parameter type database/sql drivers accept natively.
func encode(v feedbench.Value) any {
	switch v.Kind() {
	case feedbench.KindInt8, feedbench.KindInt16, feedbench.KindInt32, feedbench.KindInt64, feedbench.KindUint32:
		i, _ := toInt64(v)
		return i
	case feedbench.KindFloat32:
		f, _ := v.AsFloat32()
		return float64(f)
	}
	return v.Native()
}

func toInt64(v feedbench.Value) (int64, bool) {
	switch n := v.Native().(type) {
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func encodeRow(r feedbench.Row) []any {
	params := make([]any, len(r))
	for i, v := range r {
		params[i] = encode(v)
	}
	return params
}

// decode converts field i of a scanned row into a Value of the expected kind.
func decode(row []any, i int, kind feedbench.Kind) (feedbench.Value, error) {
	if i < 0 || i >= len(row) {
		return feedbench.Value{}, feedbench.Mismatchf("field %d out of range, row has %d fields", i, len(row))
	}
	return feedbench.FromNative(row[i], kind)
}

// rowKinds is the read shape of every collection.
var rowKinds = map[feedbench.Collection][]feedbench.Kind{
	feedbench.Tweets:  {feedbench.KindString, feedbench.KindInt64, feedbench.KindString, feedbench.KindTimestamp},
	feedbench.Follows: {feedbench.KindInt64, feedbench.KindInt64},
}

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
