package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	// perPage is the provider imposed item cap per page
	perPage = 100

	// maxPages bounds pagination so huge histories stay bounded work
	maxPages = 10
)

// dateFloor formats the since bound the way the search qualifiers expect
func dateFloor(since time.Time) string { return since.UTC().Format("2006-01-02") }

// SearchCommits pulls the user's commits since the date floor, newest first
// Pagination stops at a short page or the page ceiling. On a mid crawl error
// the commits collected so far are returned together with the error so the
// caller can degrade to partial data instead of losing the whole fetch
func (c *Client) SearchCommits(ctx context.Context, id Identity, since time.Time) ([]Commit, int, error) {
	q := url.QueryEscape(fmt.Sprintf("author:%s committer-date:>=%s", id.Login, dateFloor(since)))

	var (
		items []Commit
		total int
	)
	for page := 1; page <= maxPages; page++ {
		path := fmt.Sprintf("/search/commits?q=%s&sort=committer-date&order=desc&per_page=%d&page=%d", q, perPage, page)
		var body commitSearchPage
		if err := c.getJSON(ctx, path, id.Token, &body); err != nil {
			return items, total, err
		}
		total = body.TotalCount
		items = append(items, body.Items...)
		if len(body.Items) < perPage {
			break
		}
	}
	return items, total, nil
}

// CountPullRequests returns the number of PRs the user opened since the floor
func (c *Client) CountPullRequests(ctx context.Context, id Identity, since time.Time) (int, error) {
	q := fmt.Sprintf("type:pr author:%s created:>=%s", id.Login, dateFloor(since))
	return c.searchCount(ctx, q, id.Token)
}

// CountIssues returns the number of issues the user opened since the floor
func (c *Client) CountIssues(ctx context.Context, id Identity, since time.Time) (int, error) {
	q := fmt.Sprintf("type:issue author:%s created:>=%s", id.Login, dateFloor(since))
	return c.searchCount(ctx, q, id.Token)
}

// CountReviews returns the number of PRs the user reviewed since the floor
func (c *Client) CountReviews(ctx context.Context, id Identity, since time.Time) (int, error) {
	q := fmt.Sprintf("type:pr reviewed-by:%s created:>=%s", id.Login, dateFloor(since))
	return c.searchCount(ctx, q, id.Token)
}

// searchCount issues a count only search, one item per page keeps it cheap
func (c *Client) searchCount(ctx context.Context, q, token string) (int, error) {
	path := fmt.Sprintf("/search/issues?q=%s&per_page=1", url.QueryEscape(q))
	var body countPage
	if err := c.getJSON(ctx, path, token, &body); err != nil {
		return 0, err
	}
	return body.TotalCount, nil
}

// ListRepos pages through the user's repositories, newest pushed first
// Same partial result contract as SearchCommits
func (c *Client) ListRepos(ctx context.Context, id Identity) ([]Repo, error) {
	var repos []Repo
	for page := 1; page <= maxPages; page++ {
		path := fmt.Sprintf("/users/%s/repos?sort=pushed&per_page=%d&page=%d", url.PathEscape(id.Login), perPage, page)
		var body []Repo
		if err := c.getJSON(ctx, path, id.Token, &body); err != nil {
			return repos, err
		}
		repos = append(repos, body...)
		if len(body) < perPage {
			break
		}
	}
	return repos, nil
}

// getJSON performs a GET through Do and decodes the body into out
func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, token)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Str("path", path).Msg("github close body failed")
		}
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
