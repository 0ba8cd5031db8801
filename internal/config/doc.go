// Package config holds the user settings of the application, read from a
// YAML file, and the Loader interface through which protocol sources are
// read.
//
// Settings cover logging and the hardware the generated program targets.
// A missing settings file is not an error: every field has a default, and
// LPD_LOG_LEVEL overrides the configured log level.
package config
