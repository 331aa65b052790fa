package jenkins

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	jferrors "github.com/diseaz-joom/dsaflow/internal/errors"
)

func writeCreds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jenkins.cred")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("parses credentials", func(t *testing.T) {
		t.Parallel()
		c, err := NewClient("http://ci.example.com/job/x/job/", writeCreds(t, "alice:s3cret\n"))
		require.NoError(t, err)
		require.Equal(t, "alice", c.user)
		require.Equal(t, "s3cret", c.password)
	})

	t.Run("rejects malformed credentials", func(t *testing.T) {
		t.Parallel()
		_, err := NewClient("", writeCreds(t, "no-colon-here"))
		require.Error(t, err)
	})

	t.Run("missing credentials file", func(t *testing.T) {
		t.Parallel()
		_, err := NewClient("", filepath.Join(t.TempDir(), "absent"))
		require.Error(t, err)
	})
}

func TestBranchURL(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "http://ci.example.com/job/api-tests/job/"}
	// Branch names are double-escaped, so the slash ends up as %252F.
	require.Equal(t,
		"http://ci.example.com/job/api-tests/job/feature%252Fx/",
		c.BranchURL("feature/x"))
	require.Equal(t,
		"http://ci.example.com/job/api-tests/job/develop/",
		c.BranchURL("develop"))
}

func TestLastSuccessfulSha(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/job/develop/api/json/", func(w http.ResponseWriter, r *http.Request) {
		user, password, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "alice", user)
		require.Equal(t, "s3cret", password)
		fmt.Fprintf(w, `{"lastSuccessfulBuild": {"number": 42, "url": %q}}`, srv.URL+"/job/develop/42/")
	})
	mux.HandleFunc("/job/develop/42/api/json/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"actions": [
			{},
			{"buildsByBranchName": {"other": {"revision": {"SHA1": "bad"}}}},
			{"buildsByBranchName": {"develop": {"revision": {"SHA1": "abc123"}}}}
		]}`)
	})
	mux.HandleFunc("/job/empty/api/json/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"lastSuccessfulBuild": null}`)
	})

	c, err := NewClient(srv.URL+"/job/", writeCreds(t, "alice:s3cret"))
	require.NoError(t, err)

	t.Run("finds the branch build revision", func(t *testing.T) {
		sha, err := c.LastSuccessfulSha(context.Background(), "develop")
		require.NoError(t, err)
		require.Equal(t, "abc123", string(sha))
	})

	t.Run("no successful build", func(t *testing.T) {
		_, err := c.LastSuccessfulSha(context.Background(), "empty")
		require.ErrorIs(t, err, jferrors.ErrNotFound)
	})
}
