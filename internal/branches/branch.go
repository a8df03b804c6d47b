package branches

import "strings"

const remoteReferenceSeparatorConstant = "/"

// Branch describes one local branch as reported by git.
type Branch struct {
	Name   string
	Title  string
	Date   string
	Author string
	Email  string
	Remote string
}

// Equal reports whether both branches carry identical field values.
func (branch Branch) Equal(other Branch) bool {
	return branch == other
}

// HasUpstream reports whether the branch tracks a remote branch.
func (branch Branch) HasUpstream() bool {
	return len(branch.Remote) > 0
}

// SplitRemote separates the upstream into the remote name and the branch name on that remote.
// The split happens on the first separator so remote branch names may contain slashes.
func (branch Branch) SplitRemote() (string, string, bool) {
	remoteName, remoteBranchName, found := strings.Cut(branch.Remote, remoteReferenceSeparatorConstant)
	if !found || len(remoteName) == 0 || len(remoteBranchName) == 0 {
		return "", "", false
	}
	return remoteName, remoteBranchName, true
}
