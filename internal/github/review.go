// Package github builds review URLs and creates pull requests for
// published branches.
package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/diseaz-joom/dsaflow/internal/git"
)

// remoteRE matches GitHub remote URLs in both https and ssh form and
// captures the "owner/repo" part.
var remoteRE = regexp.MustCompile(`^(?:https://|[-_+a-z0-9]+@)?github\.com[:/](.*?)(?:\.git)?$`)

// fixRE extracts "[fix:ISSUE]" tags from a branch description.
var fixRE = regexp.MustCompile(`(?i)\[fix:([^\]]+)\]`)

// ParseRemoteRepo extracts the "owner/repo" slug from a GitHub remote URL.
func ParseRemoteRepo(remoteURL string) (string, bool) {
	m := remoteRE.FindStringSubmatch(strings.TrimSpace(remoteURL))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ReviewParams describes the pull request to be opened.
type ReviewParams struct {
	// Repo is the "owner/repo" slug.
	Repo string
	// Base is the branch the pull request merges into.
	Base git.BranchName
	// Head is the review branch.
	Head git.BranchName
	// Description seeds the PR title. "[fix:ISSUE]" tags are moved into
	// the body as "Fixes ISSUE" lines.
	Description string
}

// Title returns the PR title with fix tags stripped.
func (p ReviewParams) Title() string {
	return strings.TrimSpace(fixRE.ReplaceAllString(p.Description, ""))
}

// Body returns the PR body listing the issues the branch fixes.
func (p ReviewParams) Body() string {
	var fixes []string
	for _, m := range fixRE.FindAllStringSubmatch(p.Description, -1) {
		fixes = append(fixes, "Fixes "+m[1])
	}
	return strings.Join(fixes, "\n")
}

// ReviewURL builds the GitHub compare page URL that opens a quick pull
// request from head into base.
func ReviewURL(remoteURL string, base, head git.BranchName, description string) (string, bool) {
	repo, ok := ParseRemoteRepo(remoteURL)
	if !ok {
		return "", false
	}

	p := ReviewParams{Repo: repo, Base: base, Head: head, Description: description}

	params := url.Values{}
	params.Set("quick_pull", "1")
	if title := p.Title(); title != "" {
		params.Set("title", title)
	}
	if body := p.Body(); body != "" {
		params.Set("body", body)
	}

	return fmt.Sprintf("https://github.com/%s/compare/%s...%s?%s",
		repo, base, head, params.Encode()), true
}
