// Package utils exposes the configuration and logging helpers used by the CLI.
//
// ConfigurationLoader layers embedded defaults, configuration files and environment
// variables through Viper. LoggerFactory builds zap loggers that write to a file so
// log output never interferes with the interactive screen.
package utils
