package git

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRefNameKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ref  RefName
		want Kind
	}{
		{"local branch", "refs/heads/feature/x", KindHead},
		{"stgit metadata", "refs/heads/feature/x.stgit", KindStack},
		{"tag", "refs/tags/v1.0", KindTag},
		{"remote tracking", "refs/remotes/origin/develop", KindRemote},
		{"patch", "refs/patches/feature/x/p1", KindPatch},
		{"patch log", "refs/patches/feature/x/p1.log", KindPatchLog},
		{"generic", "refs/stash", KindUnknown},
		{"bare head", "HEAD", KindUnknown},
		{"empty", "", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.ref.Kind())
		})
	}
}

func TestRefNameShort(t *testing.T) {
	t.Parallel()

	require.Equal(t, "master", RefName("refs/heads/master").Short())
	require.Equal(t, "v1.0", RefName("refs/tags/v1.0").Short())
	require.Equal(t, "origin/develop", RefName("refs/remotes/origin/develop").Short())
	require.Equal(t, "stash", RefName("refs/stash").Short())
	require.Equal(t, "HEAD", RefName("HEAD").Short())
}

func TestRefNameBranch(t *testing.T) {
	t.Parallel()

	require.Equal(t, BranchName("feature/x"), RefName("refs/heads/feature/x").Branch())
	require.Equal(t, BranchName("feature/x.stgit"), RefName("refs/heads/feature/x.stgit").Branch())
	require.Equal(t, BranchName("feature/x"), RefName("refs/remotes/origin/feature/x").Branch())
	require.Equal(t, BranchName(""), RefName("refs/tags/v1.0").Branch())
	require.Equal(t, BranchName(""), RefName("refs/stash").Branch())
}

func TestRefNameRemote(t *testing.T) {
	t.Parallel()

	require.Equal(t, "origin", RefName("refs/remotes/origin/feature/x").Remote())
	require.Equal(t, RemoteLocal, RefName("refs/heads/feature/x").Remote())
	require.Equal(t, RemoteLocal, RefName("refs/tags/v1.0").Remote())
}

func TestForBranchRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("local remote maps to head ref", func(t *testing.T) {
		t.Parallel()
		ref := ForBranch(RemoteLocal, "feature/x")
		require.Equal(t, RefName("refs/heads/feature/x"), ref)
		require.Equal(t, KindHead, ref.Kind())
		require.Equal(t, BranchName("feature/x"), ref.Branch())
	})

	t.Run("named remote maps to remote-tracking ref", func(t *testing.T) {
		t.Parallel()
		ref := ForBranch("origin", "feature/x")
		require.Equal(t, RefName("refs/remotes/origin/feature/x"), ref)
		require.Equal(t, KindRemote, ref.Kind())
		require.Equal(t, BranchName("feature/x"), ref.Branch())
		require.Equal(t, "origin", ref.Remote())
	})
}

func TestAbbrevs(t *testing.T) {
	t.Parallel()

	t.Run("head ref strips prefix segments", func(t *testing.T) {
		t.Parallel()
		require.Equal(t,
			[]RefName{"refs/heads/feature/x", "heads/feature/x", "feature/x"},
			Abbrevs("refs/heads/feature/x"))
	})

	t.Run("remote ref keeps remote segment in short form", func(t *testing.T) {
		t.Parallel()
		require.Equal(t,
			[]RefName{"refs/remotes/origin/feature/x", "remotes/origin/feature/x", "origin/feature/x"},
			Abbrevs("refs/remotes/origin/feature/x"))
	})

	t.Run("unknown ref has only itself", func(t *testing.T) {
		t.Parallel()
		require.Equal(t, []RefName{"HEAD"}, Abbrevs("HEAD"))
	})

	t.Run("always includes the short form", func(t *testing.T) {
		t.Parallel()
		for _, ref := range []RefName{
			"refs/heads/master",
			"refs/tags/v1.0",
			"refs/remotes/origin/develop",
			"refs/stash",
		} {
			require.Contains(t, Abbrevs(ref), RefName(ref.Short()), "ref %q", ref)
		}
	})
}

func TestStackRef(t *testing.T) {
	t.Parallel()

	ref := RefName("refs/heads/feature/x").StackRef()
	require.Equal(t, RefName("refs/heads/feature/x.stgit"), ref)
	require.Equal(t, KindStack, ref.Kind())
}
