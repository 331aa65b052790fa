package repo

import (
	"context"
	"strings"

	"github.com/diseaz-joom/dsaflow/internal/git"
)

// PatchStatus is the state of a patch in a branch's stack.
type PatchStatus int

const (
	// PatchUnknown is any unrecognized series mark
	PatchUnknown PatchStatus = iota
	// PatchApplied is a patch applied below the current one
	PatchApplied
	// PatchCurrent is the topmost applied patch
	PatchCurrent
	// PatchUnapplied is a patch popped off the stack
	PatchUnapplied
	// PatchHidden is a patch hidden from the series
	PatchHidden
)

// patchStatusFromMark maps an stg series mark to a status.
func patchStatusFromMark(mark string) PatchStatus {
	switch mark {
	case "+":
		return PatchApplied
	case ">":
		return PatchCurrent
	case "-":
		return PatchUnapplied
	case "!":
		return PatchHidden
	default:
		return PatchUnknown
	}
}

// PatchInfo describes one patch of a stack-managed branch.
type PatchInfo struct {
	Name   string
	Status PatchStatus

	// Ref and LogRef resolve when the patch refs exist in the snapshot.
	Ref    git.Ref
	LogRef git.Ref
}

// IsApplied reports whether the patch is part of the applied stack.
func (p PatchInfo) IsApplied() bool {
	return p.Status == PatchApplied || p.Status == PatchCurrent
}

// IsVisible reports whether the patch shows up in the series.
func (p PatchInfo) IsVisible() bool {
	return p.Status != PatchHidden
}

// Patches lists the branch's patch series with per-patch status. Only
// jflow-managed branches carry a stack.
func (b *Branch) Patches(ctx context.Context) ([]PatchInfo, error) {
	if !b.IsJflow() {
		return nil, nil
	}

	lines, err := git.RunStgCommand(ctx, "series", "--all", "--branch="+string(b.Name()))
	if err != nil {
		return nil, err
	}

	prefix := git.PatchPrefix + string(b.Name()) + "/"
	result := make([]PatchInfo, 0, len(lines))
	for _, line := range lines {
		mark, name, ok := strings.Cut(line, " ")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		info := PatchInfo{Name: name, Status: patchStatusFromMark(mark)}
		if ref, ok := b.cache.LookupRef(git.RefName(prefix + name)); ok {
			info.Ref = ref
		}
		if ref, ok := b.cache.LookupRef(git.RefName(prefix + name + git.PatchLogSuffix)); ok {
			info.LogRef = ref
		}
		result = append(result, info)
	}
	return result, nil
}
