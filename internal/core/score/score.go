// Package score derives the lifetime productivity score and XP/level pair
// All formulas are fixed weighted sums, uncapped by design: these are
// cumulative lifetime signals, not normalized percentiles
package score

// Productivity weights per activity kind
const (
	commitWeight = 10
	prWeight     = 25
	issueWeight  = 15
	reviewWeight = 20
)

// Experience weights
const (
	commitXP = 2
	prXP     = 10
	streakXP = 5
	weekXP   = 20
)

// Productivity returns the weighted lifetime score
// Missing counts are passed as zero so partial fetches still score
func Productivity(commits, prs, issues, reviews int) int {
	return commits*commitWeight + prs*prWeight + issues*issueWeight + reviews*reviewWeight
}

// Experience returns cumulative XP plus the level derived from it
// The perfect week bonus is floor(activeDays/7) over the all time active
// day count, a coarse estimate rather than a verified consecutive check
// (kept as is so existing XP totals stay stable, see DESIGN.md)
func Experience(commits, prs, currentStreak, activeDays int) (xp, level int, title string) {
	xp = commits*commitXP + prs*prXP + currentStreak*streakXP + (activeDays/7)*weekXP
	level, title = LevelFor(xp)
	return xp, level, title
}

// levelStep is one row of the level ladder
type levelStep struct {
	minXP int
	title string
}

// ladder is ordered ascending by minXP and starts at zero, which makes
// LevelFor total over every non negative xp
var ladder = []levelStep{
	{0, "Newcomer"},
	{100, "Contributor"},
	{300, "Committer"},
	{700, "Builder"},
	{1500, "Maintainer"},
	{3000, "Architect"},
	{6000, "Luminary"},
}

// Level is one rung of the ladder, exported for introspection endpoints
type Level struct {
	Level int    `json:"level"`
	MinXP int    `json:"min_xp"`
	Title string `json:"title"`
}

// Levels returns the full ladder in ascending order
func Levels() []Level {
	out := make([]Level, 0, len(ladder))
	for i, s := range ladder {
		out = append(out, Level{Level: i + 1, MinXP: s.minXP, Title: s.title})
	}
	return out
}

// LevelFor maps cumulative xp onto the ladder
// Level numbers are 1 based and monotonic in xp
func LevelFor(xp int) (level int, title string) {
	level = 1
	title = ladder[0].title
	for i := 1; i < len(ladder); i++ {
		if xp < ladder[i].minXP {
			break
		}
		level = i + 1
		title = ladder[i].title
	}
	return level, title
}
