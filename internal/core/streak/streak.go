// Package streak computes consecutive day activity streaks
// Pure and deterministic, no clock access, callers pass today explicitly
package streak

import (
	"sort"
	"time"

	"devpulse/internal/core/aggregate"
)

// Compute returns the current and longest consecutive day streaks
// active is any set of days with qualifying activity, duplicates allowed
// today anchors the "streak still alive" rule: a streak whose most recent
// active day is before yesterday counts as broken, current = 0
func Compute(active []time.Time, today time.Time) (current, longest int) {
	days := dedupeDesc(active)
	if len(days) == 0 {
		return 0, 0
	}

	today = aggregate.DayOf(today)
	yesterday := today.AddDate(0, 0, -1)

	// current streak walks back from the most recent active day
	if !days[0].Before(yesterday) {
		current = 1
		for i := 1; i < len(days); i++ {
			if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
				current++
				continue
			}
			break
		}
	}

	// longest run anywhere in the history
	longest = 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	if current > longest {
		longest = current
	}
	return current, longest
}

// dedupeDesc normalizes to calendar days, drops duplicates, sorts newest first
func dedupeDesc(in []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(in))
	out := make([]time.Time, 0, len(in))
	for _, t := range in {
		d := aggregate.DayOf(t)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].After(out[j]) })
	return out
}
