package github

import "time"

// Identity carries the provider login plus the credential for outbound calls
type Identity struct {
	Login string
	Token string
}

// Commit is one item from the commit search payload, trimmed to what the
// aggregator needs
type Commit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Author struct {
			Date time.Time `json:"date"`
		} `json:"author"`
		Committer struct {
			Date time.Time `json:"date"`
		} `json:"committer"`
	} `json:"commit"`
	Repository CommitRepo `json:"repository"`
}

// CommitRepo is the repository stub embedded in commit search items
type CommitRepo struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Language string `json:"language"`
	Private  bool   `json:"private"`
}

// When returns the best timestamp for the commit, preferring the committer
// date and falling back to the author date
func (c Commit) When() time.Time {
	if !c.Commit.Committer.Date.IsZero() {
		return c.Commit.Committer.Date
	}
	return c.Commit.Author.Date
}

// Repo is a partial GitHub repository document with the fields we snapshot
type Repo struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	FullName   string    `json:"full_name"`
	Private    bool      `json:"private"`
	Language   string    `json:"language"`
	ForksCount int       `json:"forks_count"`
	Stargazers int       `json:"stargazers_count"`
	Fork       bool      `json:"fork"`
	CreatedAt  time.Time `json:"created_at"`
	PushedAt   time.Time `json:"pushed_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	HTMLURL    string    `json:"html_url"`
}

// commitSearchPage is the commit search response envelope
type commitSearchPage struct {
	TotalCount        int      `json:"total_count"`
	IncompleteResults bool     `json:"incomplete_results"`
	Items             []Commit `json:"items"`
}

// countPage is a search response read only for its total
type countPage struct {
	TotalCount int `json:"total_count"`
}
