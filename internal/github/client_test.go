package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a local API server.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ghc := gh.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	ghc.BaseURL = base

	return &Client{gh: ghc}
}

func TestFindPullRequest(t *testing.T) {
	t.Parallel()

	t.Run("open pull request found", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/diseaz/dsaflow/pulls", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodGet, r.Method)
			require.Equal(t, "open", r.URL.Query().Get("state"))
			require.Equal(t, "diseaz:feature/x.public", r.URL.Query().Get("head"))
			fmt.Fprint(w, `[{"number": 7, "html_url": "https://github.com/diseaz/dsaflow/pull/7"}]`)
		})
		client := newTestClient(t, mux)

		url, found, err := client.FindPullRequest(context.Background(), "diseaz/dsaflow", "feature/x.public")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "https://github.com/diseaz/dsaflow/pull/7", url)
	})

	t.Run("none open", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/diseaz/dsaflow/pulls", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `[]`)
		})
		client := newTestClient(t, mux)

		_, found, err := client.FindPullRequest(context.Background(), "diseaz/dsaflow", "feature/x.public")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("malformed slug", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, http.NewServeMux())

		_, _, err := client.FindPullRequest(context.Background(), "no-slash", "feature/x.public")
		require.Error(t, err)
	})
}

func TestCreatePullRequest(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/diseaz/dsaflow/pulls", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"number": 8, "html_url": "https://github.com/diseaz/dsaflow/pull/8"}`)
	})
	client := newTestClient(t, mux)

	url, err := client.CreatePullRequest(context.Background(), ReviewParams{
		Repo: "diseaz/dsaflow",
		Base: "develop",
		Head: "feature/x.public",
	})
	require.NoError(t, err)
	require.Equal(t, "https://github.com/diseaz/dsaflow/pull/8", url)
}
