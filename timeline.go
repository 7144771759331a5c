package feedbench

import (
	"sort"
)

// DefaultTimelineLimit is used when a read asks for a non-positive limit.
const DefaultTimelineLimit = 10

// NormalizeWindow applies the default limit and clamps a negative offset.
func NormalizeWindow(limit, offset int64) (int64, int64) {
	if limit <= 0 {
		limit = DefaultTimelineLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// Newer reports whether a sorts before b in a timeline: later timestamp first,
// ties broken by the greater tweet id.
func Newer(a, b Tweet) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID > b.ID
}

// MergeTimeline orders candidates newest first and returns the [offset, offset+limit)
// window. The order is total, so repeated merges of the same candidates agree.
// Duplicate ids are kept once.
func MergeTimeline(candidates []Tweet, limit, offset int64) []Tweet {
	seen := make(map[string]struct{}, len(candidates))
	merged := make([]Tweet, 0, len(candidates))
	for _, t := range candidates {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		merged = append(merged, t)
	}
	sort.Slice(merged, func(i, j int) bool { return Newer(merged[i], merged[j]) })
	if offset >= int64(len(merged)) {
		return []Tweet{}
	}
	end := offset + limit
	if end > int64(len(merged)) {
		end = int64(len(merged))
	}
	return merged[offset:end]
}
