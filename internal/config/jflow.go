package config

import (
	"strings"

	"github.com/diseaz-joom/dsaflow/internal/git"
)

// Root is the declared schema over the whole config store. The key layout
// is shared with git, StGit and older jflow generations and must be
// reproduced bit-exact.
type Root struct {
	Section

	Jflow JflowCfg
}

// NewRoot builds the schema over a store.
func NewRoot(store Store) Root {
	root := NewSection(store)
	return Root{
		Section: root,
		Jflow:   newJflowCfg(root),
	}
}

// Branch returns the config section of a branch.
func (r Root) Branch(name git.BranchName) BranchCfg {
	return newBranchCfg(r.Section, name)
}

// RemoteURL returns the configured URL of a remote, if any.
func (r Root) RemoteURL(name string) (string, bool) {
	return NewMaybeValue(r.Sub("remote", name), StringType, "url").Get()
}

// TemplateFor finds the template whose prefix is the longest prefix of the
// branch name. Ties cannot occur: prefixes of one name nest.
func (r Root) TemplateFor(name git.BranchName) (TemplateCfg, bool) {
	best := ""
	found := false
	for _, prefix := range r.Jflow.Templates() {
		if strings.HasPrefix(string(name), prefix) && len(prefix) >= len(best) {
			best = prefix
			found = true
		}
	}
	if !found {
		return TemplateCfg{}, false
	}
	return r.Jflow.Template(best), true
}

// JflowCfg is the global jflow section.
type JflowCfg struct {
	Section

	Remote       Value[string]
	DefaultGreen ListValue[string]
	Autosync     Value[bool]
}

func newJflowCfg(root Section) JflowCfg {
	s := root.Sub("jflow")
	return JflowCfg{
		Section:      s,
		Remote:       NewValue(s, StringType, git.RemoteOrigin, "remote"),
		DefaultGreen: NewListValue(s, StringType, "default-green"),
		Autosync:     NewValue(s, BoolType, false, "autosync"),
	}
}

// Templates lists the configured template prefixes.
func (c JflowCfg) Templates() []string {
	return c.Sub("template").Keys()
}

// Template returns the template section registered at a prefix.
func (c JflowCfg) Template(prefix string) TemplateCfg {
	return newTemplateCfg(c.Section, prefix)
}

// TemplateCfg holds per-prefix defaults for new branches.
type TemplateCfg struct {
	Section

	Prefix string

	Version  MaybeValue[int]
	Upstream MaybeValue[string]
	Fork     MaybeValue[string]

	LReviewPrefix MaybeValue[string]
	LReviewSuffix MaybeValue[string]
	ReviewPrefix  MaybeValue[string]
	ReviewSuffix  MaybeValue[string]
	LDebugPrefix  MaybeValue[string]
	LDebugSuffix  MaybeValue[string]
	DebugPrefix   MaybeValue[string]
	DebugSuffix   MaybeValue[string]
}

func newTemplateCfg(base Section, prefix string) TemplateCfg {
	s := base.Sub("template", prefix)
	return TemplateCfg{
		Section: s,
		Prefix:  prefix,

		Version:  NewMaybeValue(s, IntType, "version"),
		Upstream: NewMaybeValue(s, StringType, "upstream"),
		Fork:     NewMaybeValue(s, StringType, "fork"),

		LReviewPrefix: NewMaybeValue(s, StringType, "public-prefix"),
		LReviewSuffix: NewMaybeValue(s, StringType, "public-suffix"),
		ReviewPrefix:  NewMaybeValue(s, StringType, "remote-prefix"),
		ReviewSuffix:  NewMaybeValue(s, StringType, "remote-suffix"),
		LDebugPrefix:  NewMaybeValue(s, StringType, "ldebug-prefix"),
		LDebugSuffix:  NewMaybeValue(s, StringType, "ldebug-suffix"),
		DebugPrefix:   NewMaybeValue(s, StringType, "debug-prefix"),
		DebugSuffix:   NewMaybeValue(s, StringType, "debug-suffix"),
	}
}

// BranchCfg is the config section of a single branch.
type BranchCfg struct {
	Section

	Name git.BranchName

	Jflow BranchJflowCfg
	Stgit StgitBranchCfg

	// Legacy git tracking config, used by jflow version 0 branches.
	Remote Value[string]
	Merge  Value[string]

	Description Value[string]
}

func newBranchCfg(root Section, name git.BranchName) BranchCfg {
	s := root.Sub("branch", string(name))
	return BranchCfg{
		Section: s,
		Name:    name,

		Jflow: newBranchJflowCfg(s),
		Stgit: newStgitBranchCfg(s),

		Remote:      NewValue(s, StringType, "", "remote"),
		Merge:       NewValue(s, StringType, "", "merge"),
		Description: NewValue(s, StringType, "", "description"),
	}
}

// BranchJflowCfg is the jflow subsection of a branch.
//
// The lreview key is spelled "public" and the review key "remote" on disk;
// this matches what every older jflow generation wrote.
type BranchJflowCfg struct {
	Section

	Version    MaybeValue[int]
	RemoteName MaybeValue[string]

	Upstream MaybeValue[git.BranchName]
	Fork     MaybeValue[git.BranchName]

	LReview MaybeValue[git.BranchName]
	Review  MaybeValue[git.BranchName]
	LDebug  MaybeValue[git.BranchName]
	Debug   MaybeValue[git.BranchName]

	DebugPrefix MaybeValue[string]
	DebugSuffix MaybeValue[string]

	Hidden    Value[bool]
	Protected Value[bool]
	Sync      Value[bool]

	Tested MaybeValue[git.BranchName]
}

func newBranchJflowCfg(branch Section) BranchJflowCfg {
	s := branch.Sub("jflow")
	return BranchJflowCfg{
		Section: s,

		Version:    NewMaybeValue(s, IntType, "version"),
		RemoteName: NewMaybeValue(s, StringType, "remote-name"),

		Upstream: NewMaybeValue(s, BranchType, "upstream"),
		Fork:     NewMaybeValue(s, BranchType, "fork"),

		LReview: NewMaybeValue(s, BranchType, "public"),
		Review:  NewMaybeValue(s, BranchType, "remote"),
		LDebug:  NewMaybeValue(s, BranchType, "ldebug"),
		Debug:   NewMaybeValue(s, BranchType, "debug"),

		DebugPrefix: NewMaybeValue(s, StringType, "debug-prefix"),
		DebugSuffix: NewMaybeValue(s, StringType, "debug-suffix"),

		Hidden:    NewValue(s, BoolType, false, "hidden"),
		Protected: NewValue(s, BoolType, false, "protected"),
		Sync:      NewValue(s, BoolType, false, "sync"),

		Tested: NewMaybeValue(s, BranchType, "tested"),
	}
}

// StgitBranchCfg is the StGit subsection of a branch.
type StgitBranchCfg struct {
	Section

	Version      MaybeValue[int]
	ParentBranch MaybeValue[string]
}

func newStgitBranchCfg(branch Section) StgitBranchCfg {
	s := branch.Sub("stgit")
	return StgitBranchCfg{
		Section: s,

		Version:      NewMaybeValue(s, IntType, "stackformatversion"),
		ParentBranch: NewMaybeValue(s, StringType, "parentbranch"),
	}
}
