// Package domain holds sync service types and ports
package domain

import "time"

// Status classifies how a sync pass ended when data was still produced
type Status string

const (
	// StatusOK means the full fetch window was crawled
	StatusOK Status = "ok"

	// StatusRateLimited means the provider cut the crawl short and the
	// persisted metrics were computed from partial data
	StatusRateLimited Status = "rate_limited"
)

// Request identifies whose activity to synchronize
type Request struct {
	Login string

	// Token is the caller supplied credential. Empty falls back to the
	// client's rotation pool
	Token string
}

// Stats carries the raw activity totals for the sync window
type Stats struct {
	Commits      int `json:"commits"`
	PullRequests int `json:"pull_requests"`
	Issues       int `json:"issues"`
	Reviews      int `json:"reviews"`
	Repositories int `json:"repositories"`
}

// DayRollup is one calendar day of derived activity
type DayRollup struct {
	Day       time.Time      `json:"day"`
	Commits   int            `json:"commits"`
	ByHour    [24]int        `json:"by_hour"`
	Repos     []string       `json:"repos"`
	Languages map[string]int `json:"languages"`
	Score     int            `json:"score"`
}

// RepoSnapshot is a point in time copy of one repository's public facts
type RepoSnapshot struct {
	RepoID    int64     `json:"repo_id"`
	Name      string    `json:"name"`
	FullName  string    `json:"full_name"`
	Language  string    `json:"language"`
	Stars     int       `json:"stars"`
	Forks     int       `json:"forks"`
	Fork      bool      `json:"fork"`
	Private   bool      `json:"private"`
	CreatedAt time.Time `json:"created_at"`
	PushedAt  time.Time `json:"pushed_at"`
	HTMLURL   string    `json:"html_url"`
}

// Profile is the provider account document we mirror onto the user row
type Profile struct {
	GithubID    int64
	Name        string
	Company     string
	Location    string
	Followers   int
	Following   int
	PublicRepos int
	JoinedAt    time.Time
}

// Summary is the derived metric set persisted after a sync pass
type Summary struct {
	UserID        int64  `json:"-"`
	Login         string `json:"login"`
	Stats         Stats  `json:"stats"`
	Productivity  int    `json:"productivity_score"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	LevelTitle    string `json:"level_title"`
	CurrentStreak int    `json:"current_streak"`
	LongestStreak int    `json:"longest_streak"`
	ActiveDays    int    `json:"active_days"`
}

// Result is what one sync pass produced
type Result struct {
	// SyncID correlates logs, notifications and archive rows for one pass
	SyncID       string    `json:"sync_id"`
	Status       Status    `json:"status"`
	Login        string    `json:"login"`
	Summary      Summary   `json:"summary"`
	DaysWritten  int       `json:"days_written"`
	ReposWritten int       `json:"repos_written"`
	Partial      bool      `json:"partial"`
	SyncedAt     time.Time `json:"synced_at"`
}

// Claim is the outcome of trying to take the per user sync slot
type Claim struct {
	UserID  int64
	Claimed bool

	// Prev is the stamp to restore if the claimed pass fails
	Prev *time.Time

	// RetryAfter is how long the caller should wait when not claimed
	RetryAfter time.Duration
}
