package git

import "strings"

// Ref name layout. The exact prefixes and suffixes are part of the on-disk
// contract shared with git and StGit and must not change.
const (
	HeadPrefix    = "refs/heads/"
	TagPrefix     = "refs/tags/"
	RemotePrefix  = "refs/remotes/"
	PatchPrefix   = "refs/patches/"
	GenericPrefix = "refs/"

	// StackSuffix marks the StGit metadata branch that shadows a head ref.
	StackSuffix = ".stgit"
	// PatchLogSuffix marks the log variant of a patch ref.
	PatchLogSuffix = ".log"
)

// RemoteLocal is the sentinel remote name for refs in the local repository.
const RemoteLocal = "."

// RemoteOrigin is the default remote name.
const RemoteOrigin = "origin"

// Kind classifies a reference name by its path prefix.
type Kind int

const (
	// KindUnknown is any ref that matches no known prefix
	KindUnknown Kind = iota
	// KindHead is a local branch ref
	KindHead
	// KindTag is a tag ref
	KindTag
	// KindRemote is a remote-tracking ref
	KindRemote
	// KindStack is a StGit stack-metadata ref
	KindStack
	// KindPatch is a StGit patch ref
	KindPatch
	// KindPatchLog is the log variant of a patch ref
	KindPatchLog
)

func (k Kind) String() string {
	switch k {
	case KindHead:
		return "head"
	case KindTag:
		return "tag"
	case KindRemote:
		return "remote"
	case KindStack:
		return "stgit"
	case KindPatch:
		return "patch"
	case KindPatchLog:
		return "patch-log"
	default:
		return "unknown"
	}
}

// Sha identifies a commit object.
type Sha string

// BranchName is a branch name without any ref prefix.
type BranchName string

// RefName is a full reference name. It is a pure value; all derived
// properties (kind, short form, branch name) are computed on demand.
type RefName string

// ForBranch builds the ref name for a branch on a remote. The local
// sentinel remote maps to a head ref, anything else to a remote-tracking
// ref. Distinct remotes are assumed to never collide on a branch name.
func ForBranch(remote string, branch BranchName) RefName {
	if remote == RemoteLocal {
		return RefName(HeadPrefix + string(branch))
	}
	return RefName(RemotePrefix + remote + "/" + string(branch))
}

// Kind classifies the ref name. Total: every string maps to some Kind.
func (r RefName) Kind() Kind {
	s := string(r)
	switch {
	case strings.HasPrefix(s, HeadPrefix):
		if strings.HasSuffix(s, StackSuffix) {
			return KindStack
		}
		return KindHead
	case strings.HasPrefix(s, TagPrefix):
		return KindTag
	case strings.HasPrefix(s, RemotePrefix):
		return KindRemote
	case strings.HasPrefix(s, PatchPrefix):
		if strings.HasSuffix(s, PatchLogSuffix) {
			return KindPatchLog
		}
		return KindPatch
	default:
		return KindUnknown
	}
}

// Short returns the shortest valid abbreviation of the ref name.
func (r RefName) Short() string {
	s := string(r)
	for _, prefix := range []string{HeadPrefix, TagPrefix, RemotePrefix, GenericPrefix} {
		if strings.HasPrefix(s, prefix) {
			return s[len(prefix):]
		}
	}
	return s
}

// IsRemote reports whether the ref is a remote-tracking ref.
func (r RefName) IsRemote() bool {
	return r.Kind() == KindRemote
}

// Remote returns the remote name for remote-tracking refs and the local
// sentinel for everything else.
func (r RefName) Remote() string {
	if r.Kind() != KindRemote {
		return RemoteLocal
	}
	remote, _, _ := strings.Cut(r.Short(), "/")
	return remote
}

// IsBranch reports whether the ref names a branch, local or remote.
func (r RefName) IsBranch() bool {
	switch r.Kind() {
	case KindHead, KindStack, KindRemote:
		return true
	default:
		return false
	}
}

// Branch extracts the branch name, or "" for refs that are not branches.
// For remote-tracking refs the remote segment is stripped.
func (r RefName) Branch() BranchName {
	switch r.Kind() {
	case KindHead, KindStack:
		return BranchName(r.Short())
	case KindRemote:
		_, branch, _ := strings.Cut(r.Short(), "/")
		return BranchName(branch)
	default:
		return ""
	}
}

// StackRef returns the StGit stack-metadata ref shadowing this head ref.
func (r RefName) StackRef() RefName {
	return r + StackSuffix
}

// Abbrevs returns every valid abbreviation of a ref name: for the matched
// prefix, the full name plus each form obtained by progressively stripping
// leading path segments of the prefix. refs/remotes/origin/b yields
// refs/remotes/origin/b, remotes/origin/b, origin/b.
func Abbrevs(r RefName) []RefName {
	s := string(r)
	for _, prefix := range []string{HeadPrefix, TagPrefix, RemotePrefix, GenericPrefix} {
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		short := s[len(prefix):]
		var result []RefName
		for p := prefix; ; {
			result = append(result, RefName(p+short))
			if p == "" {
				break
			}
			p = p[strings.Index(p, "/")+1:]
		}
		return result
	}
	return []RefName{r}
}

// Ref is a reference resolved to a commit. A missing ref is represented by
// absence, never by a Ref with an empty Sha.
type Ref struct {
	Name RefName
	Sha  Sha
}
