package redis

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sharedcode/feedbench"
)

// encode renders a Value in the textual form the key-value store holds.
func encode(v feedbench.Value) string {
	switch v.Kind() {
	case feedbench.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b)
	case feedbench.KindInt8, feedbench.KindInt16, feedbench.KindInt32, feedbench.KindInt64:
		return fmt.Sprint(v.Native())
	case feedbench.KindUint32:
		u, _ := v.AsUint32()
		return strconv.FormatUint(uint64(u), 10)
	case feedbench.KindFloat32:
		f, _ := v.AsFloat32()
		return strconv.FormatFloat(float64(f), 'g', -1, 32)
	case feedbench.KindFloat64:
		f, _ := v.AsFloat64()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case feedbench.KindString:
		s, _ := v.AsString()
		return s
	case feedbench.KindTimestamp:
		t, _ := v.AsTime()
		return strconv.FormatInt(t.UnixMicro(), 10)
	}
	return ""
}

// decodeText parses a stored string as kind.
func decodeText(s string, kind feedbench.Kind) (feedbench.Value, error) {
	switch kind {
	case feedbench.KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return feedbench.Value{}, feedbench.MismatchError(kind, s)
		}
		return feedbench.Bool(b), nil
	case feedbench.KindInt8, feedbench.KindInt16, feedbench.KindInt32, feedbench.KindInt64:
		i, err := strconv.ParseInt(s, 10, bitSize(kind))
		if err != nil {
			return feedbench.Value{}, feedbench.MismatchError(kind, s)
		}
		return feedbench.FromNative(i, kind)
	case feedbench.KindUint32:
		u, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return feedbench.Value{}, feedbench.MismatchError(kind, s)
		}
		return feedbench.Uint32(uint32(u)), nil
	case feedbench.KindFloat32:
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return feedbench.Value{}, feedbench.MismatchError(kind, s)
		}
		return feedbench.Float32(float32(f)), nil
	case feedbench.KindFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return feedbench.Value{}, feedbench.MismatchError(kind, s)
		}
		return feedbench.Float64(f), nil
	case feedbench.KindString:
		return feedbench.String(s), nil
	case feedbench.KindTimestamp:
		us, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return feedbench.Value{}, feedbench.MismatchError(kind, s)
		}
		return feedbench.Timestamp(time.UnixMicro(us)), nil
	}
	return feedbench.Value{}, feedbench.MismatchError(kind, s)
}

func bitSize(kind feedbench.Kind) int {
	switch kind {
	case feedbench.KindInt8:
		return 8
	case feedbench.KindInt16:
		return 16
	case feedbench.KindInt32:
		return 32
	}
	return 64
}

// decode converts field i of a reply into a Value of the expected kind.
func decode(reply []string, i int, kind feedbench.Kind) (feedbench.Value, error) {
	if i < 0 || i >= len(reply) {
		return feedbench.Value{}, feedbench.Mismatchf("field %d out of range, reply has %d fields", i, len(reply))
	}
	return decodeText(reply[i], kind)
}

// score is the sorted set score of a timestamp: unix microseconds, exact in a float64.
func score(t time.Time) float64 {
	return float64(t.UnixMicro())
}

const recordSeparator = ":"

// encodeRecord serializes a tweet as "<id>:<author>:<text>:<timestamp>".
func encodeRecord(t feedbench.Tweet) string {
	return strings.Join([]string{
		t.ID,
		encode(feedbench.Int64(int64(t.Author))),
		t.Text,
		encode(feedbench.Timestamp(t.Timestamp)),
	}, recordSeparator)
}

// splitRecord cuts a record into its four fields. Text may itself hold separators, so
// id and author come from the left and the timestamp from the right.
func splitRecord(record string) ([]string, error) {
	head := strings.SplitN(record, recordSeparator, 3)
	if len(head) != 3 {
		return nil, feedbench.Mismatchf("malformed tweet record %q", record)
	}
	cut := strings.LastIndex(head[2], recordSeparator)
	if cut < 0 {
		return nil, feedbench.Mismatchf("malformed tweet record %q", record)
	}
	return []string{head[0], head[1], head[2][:cut], head[2][cut+1:]}, nil
}

var tweetKinds = []feedbench.Kind{feedbench.KindString, feedbench.KindInt64, feedbench.KindString, feedbench.KindTimestamp}

// decodeRecord parses a stored record into a Tweets read row.
func decodeRecord(record string) (feedbench.Row, error) {
	fields, err := splitRecord(record)
	if err != nil {
		return nil, err
	}
	row := make(feedbench.Row, len(tweetKinds))
	for i, k := range tweetKinds {
		if row[i], err = decode(fields, i, k); err != nil {
			return nil, err
		}
	}
	return row, nil
}
