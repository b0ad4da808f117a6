package aggregate

import (
	"testing"
	"time"
)

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestFold_EmptyInput(t *testing.T) {
	if got := Fold(nil); len(got) != 0 {
		t.Fatalf("Fold(nil) = %d entries, want 0", len(got))
	}
}

func TestFold_Accumulates(t *testing.T) {
	events := []Event{
		{Timestamp: ts("2024-01-05T09:15:00Z"), Kind: KindCommit, RepoFullName: "acme/api", Language: "go"},
		{Timestamp: ts("2024-01-05T09:45:00Z"), Kind: KindCommit, RepoFullName: "acme/api", Language: "go"},
		{Timestamp: ts("2024-01-05T22:05:00Z"), Kind: KindCommit, RepoFullName: "acme/web", Language: "ts"},
		{Timestamp: ts("2024-01-06T01:00:00Z"), Kind: KindCommit, RepoFullName: "acme/api", Language: "go"},
	}

	got := Fold(events)
	if len(got) != 2 {
		t.Fatalf("Fold produced %d days, want 2", len(got))
	}

	d5 := got[DayOf(ts("2024-01-05T00:00:00Z"))]
	if d5 == nil {
		t.Fatal("missing rollup for 2024-01-05")
	}
	if d5.Commits != 3 {
		t.Fatalf("commits = %d, want 3", d5.Commits)
	}
	if d5.ByHour[9] != 2 || d5.ByHour[22] != 1 {
		t.Fatalf("hour histogram = %v", d5.ByHour)
	}
	if len(d5.Repos) != 2 {
		t.Fatalf("distinct repos = %d, want 2", len(d5.Repos))
	}
	if d5.Languages["Go"] != 2 || d5.Languages["TypeScript"] != 1 {
		t.Fatalf("languages = %v", d5.Languages)
	}
	if d5.Score != 15 {
		t.Fatalf("day score = %d, want 15", d5.Score)
	}
}

// the day key must come from the event's own calendar components, so an
// event late in the evening of one zone stays on that zone's date
func TestFold_EventLocalDate(t *testing.T) {
	loc := time.FixedZone("UTC-8", -8*3600)
	// 23:30 local on Jan 4, which is 07:30 UTC on Jan 5
	ev := Event{Timestamp: time.Date(2024, 1, 4, 23, 30, 0, 0, loc), Kind: KindCommit, RepoFullName: "acme/api"}

	got := Fold([]Event{ev})
	want := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	if _, ok := got[want]; !ok {
		t.Fatalf("rollup keyed off %v, want local date %v", keysOf(got), want)
	}
	d := got[want]
	if d.ByHour[23] != 1 {
		t.Fatalf("hour histogram = %v, want bucket 23", d.ByHour)
	}
}

func TestFold_NonCommitKindsTouchHistogramNotCommits(t *testing.T) {
	events := []Event{
		{Timestamp: ts("2024-01-05T10:00:00Z"), Kind: KindReview, RepoFullName: "acme/api"},
		{Timestamp: ts("2024-01-05T11:00:00Z"), Kind: KindIssue, RepoFullName: "acme/web"},
	}
	got := Fold(events)
	d := got[DayOf(ts("2024-01-05T00:00:00Z"))]
	if d.Commits != 0 || d.Score != 0 {
		t.Fatalf("commits/score = %d/%d, want 0/0", d.Commits, d.Score)
	}
	if d.ByHour[10] != 1 || d.ByHour[11] != 1 {
		t.Fatalf("hour histogram = %v", d.ByHour)
	}
	if len(d.Repos) != 2 {
		t.Fatalf("distinct repos = %d, want 2", len(d.Repos))
	}
}

func TestFold_SkipsZeroTimestamps(t *testing.T) {
	events := []Event{
		{Kind: KindCommit, RepoFullName: "acme/api"},
		{Timestamp: ts("2024-01-05T10:00:00Z"), Kind: KindCommit, RepoFullName: "acme/api"},
	}
	got := Fold(events)
	if len(got) != 1 {
		t.Fatalf("Fold produced %d days, want 1", len(got))
	}
}

// folding twice over the same input must produce identical rollups
func TestFold_Idempotent(t *testing.T) {
	events := []Event{
		{Timestamp: ts("2024-01-05T09:00:00Z"), Kind: KindCommit, RepoFullName: "acme/api", Language: "go"},
		{Timestamp: ts("2024-01-06T10:00:00Z"), Kind: KindCommit, RepoFullName: "acme/web", Language: "ts"},
	}
	a := Fold(events)
	b := Fold(events)
	if len(a) != len(b) {
		t.Fatalf("fold sizes differ: %d vs %d", len(a), len(b))
	}
	for day, da := range a {
		db := b[day]
		if db == nil || da.Commits != db.Commits || da.Score != db.Score || da.ByHour != db.ByHour {
			t.Fatalf("rollups diverge for %v", day)
		}
	}
}

func TestActiveDays(t *testing.T) {
	events := []Event{
		{Timestamp: ts("2024-01-05T09:00:00Z"), Kind: KindCommit, RepoFullName: "acme/api"},
		{Timestamp: ts("2024-01-06T09:00:00Z"), Kind: KindReview, RepoFullName: "acme/api"},
	}
	got := ActiveDays(Fold(events))
	if len(got) != 1 {
		t.Fatalf("active days = %d, want 1 (review only days do not count)", len(got))
	}
}

func TestRepoList_Sorted(t *testing.T) {
	d := &Daily{Repos: map[string]struct{}{"zeta/z": {}, "acme/a": {}, "mid/m": {}}}
	got := d.RepoList()
	if len(got) != 3 || got[0] != "acme/a" || got[2] != "zeta/z" {
		t.Fatalf("RepoList = %v, want sorted", got)
	}
}

func keysOf(m map[time.Time]*Daily) []time.Time {
	out := make([]time.Time, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
