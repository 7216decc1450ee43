// SPDX-License-Identifier: MPL-2.0

// Package config loads nsload configuration using Viper with CUE as the file
// format.
//
// The file is looked up as an explicit --config path, then nsload.cue in the
// configured directory or the working directory, then nsload.cue in the user
// configuration directory. It is validated against the embedded #Config
// schema (config_schema.cue), merged over built-in defaults, and finally
// overridden by NSLOAD_* environment variables (NSLOAD_LOG_LEVEL, ...).
//
// Relative directories in namespaces and members are resolved against the
// directory of the file they were read from.
package config
