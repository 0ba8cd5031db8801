// Package cli is responsible for the command tree of the lpd binary: it
// parses arguments and flags, merges them with the settings file into the
// application configuration, and maps failures to process exit codes.
package cli
