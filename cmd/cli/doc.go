// Package cli builds the branchwipe command: a single Cobra root command that loads
// configuration through Viper, writes zap logs to a file and runs the interactive
// branch selection program before printing a summary of what was deleted.
package cli
