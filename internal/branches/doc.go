// Package branches lists and deletes the local branches of a git repository.
//
// GitGateway issues the git commands, Registry turns the branch listing into an
// ordered snapshot of Branch values and DeletionService removes a branch locally
// and, when the operator authored it, on its upstream remote.
package branches
