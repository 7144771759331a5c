package feedbench

import (
	"fmt"
	"math"
	"time"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint32
	KindFloat32
	KindFloat64
	KindString
	KindTimestamp
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindBool:      "bool",
	KindInt8:      "int8",
	KindInt16:     "int16",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindUint32:    "uint32",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindString:    "string",
	KindTimestamp: "timestamp",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Value is the unit crossing the backend boundary. It holds exactly one of the
// supported primitive kinds and is copied in and out of every backend call.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	t    time.Time
}

// Row is one logical record as an ordered list of values.
type Row []Value

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.i = 1
	}
	return v
}

func Int8(i int8) Value       { return Value{kind: KindInt8, i: int64(i)} }
func Int16(i int16) Value     { return Value{kind: KindInt16, i: int64(i)} }
func Int32(i int32) Value     { return Value{kind: KindInt32, i: int64(i)} }
func Int64(i int64) Value     { return Value{kind: KindInt64, i: i} }
func Uint32(u uint32) Value   { return Value{kind: KindUint32, i: int64(u)} }
func Float32(f float32) Value { return Value{kind: KindFloat32, f: float64(f)} }
func Float64(f float64) Value { return Value{kind: KindFloat64, f: f} }
func String(s string) Value   { return Value{kind: KindString, s: s} }

// Timestamp normalizes t to UTC at microsecond precision, the finest resolution
// every backend stores losslessly.
func Timestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, t: NormalizeTime(t)}
}

// NormalizeTime truncates t to microseconds in UTC and drops the monotonic reading.
func NormalizeTime(t time.Time) time.Time {
	return t.Truncate(time.Microsecond).UTC()
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// Equal reports whether both values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindFloat32, KindFloat64:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case KindString:
		return v.s == o.s
	case KindTimestamp:
		return v.t.Equal(o.t)
	default:
		return v.i == o.i
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%t", v.i != 0)
	case KindFloat32, KindFloat64:
		return fmt.Sprintf("%v", v.f)
	case KindString:
		return v.s
	case KindTimestamp:
		return v.t.Format(time.RFC3339Nano)
	case KindInvalid:
		return "<invalid>"
	default:
		return fmt.Sprintf("%d", v.i)
	}
}

func (v Value) mismatch(want Kind) error {
	return Error{Code: TypeMismatch, Err: fmt.Errorf("%w: want %s, have %s", ErrTypeMismatch, want, v.kind)}
}

// MismatchError reports that a stored value of kind have cannot be read as want.
func MismatchError(want Kind, have any) error {
	return Error{Code: TypeMismatch, Err: fmt.Errorf("%w: want %s, have %T", ErrTypeMismatch, want, have)}
}

func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.mismatch(KindBool)
	}
	return v.i != 0, nil
}

func (v Value) AsInt8() (int8, error) {
	if v.kind != KindInt8 {
		return 0, v.mismatch(KindInt8)
	}
	return int8(v.i), nil
}

func (v Value) AsInt16() (int16, error) {
	if v.kind != KindInt16 {
		return 0, v.mismatch(KindInt16)
	}
	return int16(v.i), nil
}

func (v Value) AsInt32() (int32, error) {
	if v.kind != KindInt32 {
		return 0, v.mismatch(KindInt32)
	}
	return int32(v.i), nil
}

func (v Value) AsInt64() (int64, error) {
	if v.kind != KindInt64 {
		return 0, v.mismatch(KindInt64)
	}
	return v.i, nil
}

func (v Value) AsUint32() (uint32, error) {
	if v.kind != KindUint32 {
		return 0, v.mismatch(KindUint32)
	}
	return uint32(v.i), nil
}

func (v Value) AsFloat32() (float32, error) {
	if v.kind != KindFloat32 {
		return 0, v.mismatch(KindFloat32)
	}
	return float32(v.f), nil
}

func (v Value) AsFloat64() (float64, error) {
	if v.kind != KindFloat64 {
		return 0, v.mismatch(KindFloat64)
	}
	return v.f, nil
}

func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.mismatch(KindString)
	}
	return v.s, nil
}

func (v Value) AsTime() (time.Time, error) {
	if v.kind != KindTimestamp {
		return time.Time{}, v.mismatch(KindTimestamp)
	}
	return v.t, nil
}

// Native returns the Go value held by v, typed by its kind.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.i != 0
	case KindInt8:
		return int8(v.i)
	case KindInt16:
		return int16(v.i)
	case KindInt32:
		return int32(v.i)
	case KindInt64:
		return v.i
	case KindUint32:
		return uint32(v.i)
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	case KindString:
		return v.s
	case KindTimestamp:
		return v.t
	}
	return nil
}

// FromNative converts a Go value produced by a database driver into a Value of the
// expected kind. Integer widths are narrowed only when the stored number fits, strings
// and byte slices are accepted where drivers return textual columns. Anything else is a
// TypeMismatch; FromNative never panics.
func FromNative(n any, kind Kind) (Value, error) {
	switch kind {
	case KindBool:
		switch x := n.(type) {
		case bool:
			return Bool(x), nil
		case int64:
			if x == 0 || x == 1 {
				return Bool(x == 1), nil
			}
		}
	case KindInt8, KindInt16, KindInt32, KindInt64, KindUint32:
		i, ok := nativeInt(n)
		if !ok {
			break
		}
		return intValue(i, kind, n)
	case KindFloat32:
		switch x := n.(type) {
		case float32:
			return Float32(x), nil
		case float64:
			if math.Abs(x) <= math.MaxFloat32 || math.IsInf(x, 0) || math.IsNaN(x) {
				return Float32(float32(x)), nil
			}
		}
	case KindFloat64:
		switch x := n.(type) {
		case float64:
			return Float64(x), nil
		case float32:
			return Float64(float64(x)), nil
		}
	case KindString:
		switch x := n.(type) {
		case string:
			return String(x), nil
		case []byte:
			return String(string(x)), nil
		}
	case KindTimestamp:
		switch x := n.(type) {
		case time.Time:
			return Timestamp(x), nil
		case string:
			if t, err := parseTimeText(x); err == nil {
				return Timestamp(t), nil
			}
		case []byte:
			if t, err := parseTimeText(string(x)); err == nil {
				return Timestamp(t), nil
			}
		}
	}
	return Value{}, MismatchError(kind, n)
}

func nativeInt(n any) (int64, bool) {
	switch x := n.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func intValue(i int64, kind Kind, n any) (Value, error) {
	switch kind {
	case KindInt8:
		if i >= math.MinInt8 && i <= math.MaxInt8 {
			return Int8(int8(i)), nil
		}
	case KindInt16:
		if i >= math.MinInt16 && i <= math.MaxInt16 {
			return Int16(int16(i)), nil
		}
	case KindInt32:
		if i >= math.MinInt32 && i <= math.MaxInt32 {
			return Int32(int32(i)), nil
		}
	case KindInt64:
		return Int64(i), nil
	case KindUint32:
		if i >= 0 && i <= math.MaxUint32 {
			return Uint32(uint32(i)), nil
		}
	}
	return Value{}, MismatchError(kind, n)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999 -0700 MST",
}

func parseTimeText(s string) (time.Time, error) {
	var err error
	for _, layout := range timeLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}
