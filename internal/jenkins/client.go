// Package jenkins talks to the Jenkins multibranch pipeline that tests
// review branches.
package jenkins

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
	"github.com/diseaz-joom/dsaflow/internal/git"
)

const (
	// DefaultPrefix is the multibranch job the CI runs branch builds under.
	DefaultPrefix = "https://api-jenkins.joomdev.net/job/api/job/api-tests/job/"
	apiSuffix     = "api/json/"

	// DefaultCredPath holds "USER:PASSWORD" credentials.
	DefaultCredPath = "~/.secret/jenkins.cred"

	requestTimeout = 30 * time.Second
)

// Client queries branch build status.
type Client struct {
	prefix   string
	user     string
	password string
	http     *http.Client
}

// NewClient reads credentials from credPath ("USER:PASSWORD", leading ~
// expanded) and returns a client for the given job prefix. An empty prefix
// selects DefaultPrefix.
func NewClient(prefix, credPath string) (*Client, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if credPath == "" {
		credPath = DefaultCredPath
	}
	if strings.HasPrefix(credPath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("expanding credentials path: %w", err)
		}
		credPath = filepath.Join(home, credPath[2:])
	}

	data, err := os.ReadFile(credPath)
	if err != nil {
		return nil, fmt.Errorf("reading jenkins credentials: %w", err)
	}
	user, password, ok := strings.Cut(strings.TrimSpace(string(data)), ":")
	if !ok {
		return nil, fmt.Errorf("jenkins credentials in %s: want USER:PASSWORD", credPath)
	}

	return &Client{
		prefix:   prefix,
		user:     user,
		password: password,
		http:     &http.Client{Timeout: requestTimeout},
	}, nil
}

// BranchURL returns the human-facing build page for a branch.
func (c *Client) BranchURL(branch git.BranchName) string {
	// Branch names are escaped twice: Jenkins stores the encoded name and
	// the URL encodes it again.
	quoted := url.PathEscape(url.PathEscape(string(branch)))
	return c.prefix + quoted + "/"
}

func apiURL(u string) string {
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u + apiSuffix
}

// buildRef is a build pointer in a branch status document.
type buildRef struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
}

type branchStatus struct {
	LastCompletedBuild  *buildRef `json:"lastCompletedBuild"`
	LastSuccessfulBuild *buildRef `json:"lastSuccessfulBuild"`
	LastStableBuild     *buildRef `json:"lastStableBuild"`
}

type buildDetails struct {
	Actions []struct {
		BuildsByBranchName map[string]struct {
			Revision struct {
				SHA1 string `json:"SHA1"`
			} `json:"revision"`
		} `json:"buildsByBranchName"`
	} `json:"actions"`
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.user, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("jenkins request %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jenkins request %s: %s", u, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// LastSuccessfulSha returns the commit SHA of the last successful CI build
// of a branch.
func (c *Client) LastSuccessfulSha(ctx context.Context, branch git.BranchName) (git.Sha, error) {
	var status branchStatus
	if err := c.getJSON(ctx, apiURL(c.BranchURL(branch)), &status); err != nil {
		return "", err
	}
	if status.LastSuccessfulBuild == nil {
		return "", jferrors.NewNotFoundError("successful build for branch", string(branch))
	}

	var details buildDetails
	if err := c.getJSON(ctx, apiURL(status.LastSuccessfulBuild.URL), &details); err != nil {
		return "", err
	}

	for _, action := range details.Actions {
		build, ok := action.BuildsByBranchName[string(branch)]
		if !ok {
			continue
		}
		if build.Revision.SHA1 != "" {
			return git.Sha(build.Revision.SHA1), nil
		}
	}
	return "", jferrors.NewNotFoundError("build revision for branch", string(branch))
}
