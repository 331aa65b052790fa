package repo

import (
	"fmt"

	"github.com/diseaz-joom/dsaflow/internal/git"
)

// MergeStatus is the ordinal merge tier of a branch. Higher tiers win: a
// branch merged into master is never reported as merely Develop.
type MergeStatus int

const (
	// MergeNone means the branch is not merged anywhere of interest
	MergeNone MergeStatus = iota
	// MergeUpstream means the branch is merged into its upstream
	MergeUpstream
	// MergeFork means the branch is merged into its fork
	MergeFork
	// MergeDevelop means the branch is merged into develop
	MergeDevelop
	// MergeMaster means the branch is merged into master
	MergeMaster
)

func (s MergeStatus) String() string {
	switch s {
	case MergeUpstream:
		return "upstream"
	case MergeFork:
		return "fork"
	case MergeDevelop:
		return "develop"
	case MergeMaster:
		return "master"
	default:
		return "none"
	}
}

// Mark returns the single-letter column mark used by jf list.
func (s MergeStatus) Mark() string {
	switch s {
	case MergeUpstream:
		return "U"
	case MergeFork:
		return "F"
	case MergeDevelop:
		return "D"
	case MergeMaster:
		return "M"
	default:
		return "."
	}
}

// AtLeast reports whether the status reaches a threshold tier.
func (s MergeStatus) AtLeast(threshold MergeStatus) bool {
	return s >= threshold
}

// ParseMergeStatus parses the single-letter tier used on the command line.
func ParseMergeStatus(s string) (MergeStatus, error) {
	switch s {
	case "U":
		return MergeUpstream, nil
	case "F":
		return MergeFork, nil
	case "D":
		return MergeDevelop, nil
	case "M":
		return MergeMaster, nil
	}
	return MergeNone, fmt.Errorf("unknown merge status %q (want U, F, D or M)", s)
}

// MergeStatus classifies a branch into its highest merge tier, checking
// master, then develop, then the branch's fork and upstream.
func (c *Cache) MergeStatus(b *Branch) MergeStatus {
	if c.mergedIntoName(b, "master") {
		return MergeMaster
	}
	if c.mergedIntoName(b, "develop") {
		return MergeDevelop
	}
	if ref, ok := b.Fork(); ok && c.IsMergedInto(b.Sha(), ref.Sha) {
		return MergeFork
	}
	if ref, ok := b.Upstream(); ok && c.IsMergedInto(b.Sha(), ref.Sha) {
		return MergeUpstream
	}
	return MergeNone
}

func (c *Cache) mergedIntoName(b *Branch, name git.RefName) bool {
	ref, ok := c.LookupRef(name)
	return ok && c.IsMergedInto(b.Sha(), ref.Sha)
}
