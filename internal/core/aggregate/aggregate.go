// Package aggregate folds raw activity events into per day rollups
// The day key is derived from the event timestamp's own calendar components
// and the streak package consumes the same keys, so the two can not drift
package aggregate

import (
	"sort"
	"time"

	"devpulse/internal/core/langnorm"
)

// Kind classifies a raw activity event
type Kind string

// Event kinds
const (
	KindCommit      Kind = "commit"
	KindPullRequest Kind = "pr"
	KindIssue       Kind = "issue"
	KindReview      Kind = "review"
)

// Event is a single raw activity record pulled from the provider
// It lives in memory only and is never persisted as is
type Event struct {
	Timestamp    time.Time
	Kind         Kind
	RepoID       int64
	RepoFullName string
	Language     string
}

// Daily is the rollup for one user calendar day
type Daily struct {
	Day       time.Time
	Commits   int
	ByHour    [24]int
	Repos     map[string]struct{}
	Languages map[string]int
	Score     int
}

// commitWeight is the linear per commit day score weight
// This is a volume signal only, not the lifetime productivity score
const commitWeight = 5

// DayOf returns the calendar day of t using t's own location
// The result is anchored at midnight UTC so days compare and walk cleanly
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Fold accumulates events into one Daily per calendar day
// Events with a zero timestamp are skipped rather than failing the fold
func Fold(events []Event) map[time.Time]*Daily {
	out := make(map[time.Time]*Daily)
	for _, ev := range events {
		if ev.Timestamp.IsZero() {
			continue
		}
		day := DayOf(ev.Timestamp)
		d := out[day]
		if d == nil {
			d = &Daily{
				Day:       day,
				Repos:     make(map[string]struct{}),
				Languages: make(map[string]int),
			}
			out[day] = d
		}

		if ev.Kind == KindCommit {
			d.Commits++
			d.Score = d.Commits * commitWeight
		}
		d.ByHour[ev.Timestamp.Hour()]++
		if ev.RepoFullName != "" {
			d.Repos[ev.RepoFullName] = struct{}{}
		}
		if lang := langnorm.Canon(ev.Language); lang != "" {
			d.Languages[lang]++
		}
	}
	return out
}

// ActiveDays returns the days with at least one commit, unsorted
func ActiveDays(m map[time.Time]*Daily) []time.Time {
	out := make([]time.Time, 0, len(m))
	for day, d := range m {
		if d.Commits > 0 {
			out = append(out, day)
		}
	}
	return out
}

// RepoList returns the distinct repos for the day sorted for stable storage
func (d *Daily) RepoList() []string {
	out := make([]string, 0, len(d.Repos))
	for r := range d.Repos {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}
