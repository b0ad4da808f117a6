// Package domain holds users API types and ports
package domain

import "time"

// SyncInput is the optional body for a manual sync trigger
// swagger:model
type SyncInput struct {
	// Token is a caller supplied GitHub credential used for this pass only
	Token string `json:"token,omitempty" validate:"omitempty,max=255"`
}

// StatsDTO mirrors the raw activity totals
type StatsDTO struct {
	Commits      int `json:"commits"       example:"412"`
	PullRequests int `json:"pull_requests" example:"37"`
	Issues       int `json:"issues"        example:"12"`
	Reviews      int `json:"reviews"       example:"25"`
	Repositories int `json:"repositories"  example:"8"`
}

// SummaryResponse is the derived metric set for one user
// swagger:model
type SummaryResponse struct {
	Login         string     `json:"login"          example:"octocat"`
	Name          string     `json:"name,omitempty" example:"The Octocat"`
	GithubID      int64      `json:"github_id"      example:"583231"`
	Followers     int        `json:"followers"      example:"3938"`
	Following     int        `json:"following"      example:"9"`
	PublicRepos   int        `json:"public_repos"   example:"8"`
	Stats         StatsDTO   `json:"stats"`
	Productivity  int        `json:"productivity_score" example:"1565"`
	XP            int        `json:"xp"             example:"824"`
	Level         int        `json:"level"          example:"4"`
	LevelTitle    string     `json:"level_title"    example:"Builder"`
	CurrentStreak int        `json:"current_streak" example:"6"`
	LongestStreak int        `json:"longest_streak" example:"23"`
	ActiveDays    int        `json:"active_days"    example:"148"`
	LastSyncedAt  *time.Time `json:"last_synced_at,omitempty"`
}

// DailyRow is one calendar day of rollup data
// swagger:model
type DailyRow struct {
	Day       string         `json:"day"     example:"2026-03-10"`
	Commits   int            `json:"commits" example:"7"`
	ByHour    [24]int        `json:"by_hour"`
	Repos     []string       `json:"repos"`
	Languages map[string]int `json:"languages"`
	Score     int            `json:"score"   example:"35"`
}

// RepoRow is one repository snapshot
// swagger:model
type RepoRow struct {
	RepoID    int64      `json:"repo_id"   example:"1296269"`
	Name      string     `json:"name"      example:"hello-world"`
	FullName  string     `json:"full_name" example:"octocat/hello-world"`
	Language  string     `json:"language,omitempty" example:"Go"`
	Stars     int        `json:"stars"     example:"2450"`
	Forks     int        `json:"forks"     example:"1320"`
	Fork      bool       `json:"fork"`
	Private   bool       `json:"private"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	PushedAt  *time.Time `json:"pushed_at,omitempty"`
	HTMLURL   string     `json:"html_url,omitempty"`
}
