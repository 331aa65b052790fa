package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
)

// Client creates pull requests through the GitHub API.
type Client struct {
	gh *github.Client
}

// NewClient builds an authenticated client from the GITHUB_TOKEN
// environment variable.
func NewClient(ctx context.Context) (*Client, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is not set")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return &Client{gh: github.NewClient(tc)}, nil
}

// CreatePullRequest opens a pull request described by params and returns
// its URL.
func (c *Client) CreatePullRequest(ctx context.Context, params ReviewParams) (string, error) {
	owner, repo, ok := strings.Cut(params.Repo, "/")
	if !ok {
		return "", fmt.Errorf("malformed repository slug %q", params.Repo)
	}

	pr, _, err := c.gh.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(params.Title()),
		Body:  github.String(params.Body()),
		Base:  github.String(string(params.Base)),
		Head:  github.String(string(params.Head)),
	})
	if err != nil {
		return "", fmt.Errorf("creating pull request: %w", err)
	}
	return pr.GetHTMLURL(), nil
}

// FindPullRequest returns the URL of an open pull request for head, or
// false when none exists.
func (c *Client) FindPullRequest(ctx context.Context, repoSlug string, head string) (string, bool, error) {
	owner, repo, ok := strings.Cut(repoSlug, "/")
	if !ok {
		return "", false, fmt.Errorf("malformed repository slug %q", repoSlug)
	}

	prs, _, err := c.gh.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State: "open",
		Head:  owner + ":" + head,
	})
	if err != nil {
		return "", false, fmt.Errorf("listing pull requests: %w", err)
	}
	if len(prs) == 0 {
		return "", false, nil
	}
	return prs[0].GetHTMLURL(), true, nil
}
