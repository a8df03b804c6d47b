// Package execshell provides structured helpers for invoking git.
//
// ShellExecutor wraps a CommandRunner with zap logging, lifecycle observers and
// typed failures (CommandFailedError, CommandExecutionError). OSCommandRunner is
// the process-backed runner; tests substitute recording runners.
package execshell
