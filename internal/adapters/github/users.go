package github

import (
	"context"
	"fmt"
	"net/url"
	"time"
)

// User is the provider account document, trimmed to what we persist
type User struct {
	ID          int64     `json:"id"`
	Login       string    `json:"login"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	PublicRepos int       `json:"public_repos"`
	CreatedAt   time.Time `json:"created_at"`
}

// GetUser fetches the account document for the identity's login
func (c *Client) GetUser(ctx context.Context, id Identity) (User, error) {
	var u User
	path := fmt.Sprintf("/users/%s", url.PathEscape(id.Login))
	if err := c.getJSON(ctx, path, id.Token, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
