// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nsload/nsload/internal/logging"
	"github.com/nsload/nsload/internal/tracing"
	"github.com/nsload/nsload/pkg/namespace"
	"github.com/nsload/nsload/pkg/types"
	"github.com/nsload/nsload/pkg/unit"
)

var (
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrInvalidLoadOptions is the sentinel error wrapped by InvalidLoadOptionsError.
	ErrInvalidLoadOptions = errors.New("invalid load options")
)

type (
	// NamespaceEntry is one namespace binding.
	NamespaceEntry struct {
		Prefix string `json:"prefix" mapstructure:"prefix" yaml:"prefix"`
		Dir    string `json:"dir" mapstructure:"dir" yaml:"dir"`
		Root   string `json:"root,omitempty" mapstructure:"root" yaml:"root,omitempty"`
	}

	// MemberEntry is one self-registered member.
	MemberEntry struct {
		Name   string `json:"name" mapstructure:"name" yaml:"name"`
		Dir    string `json:"dir" mapstructure:"dir" yaml:"dir"`
		Subdir string `json:"subdir,omitempty" mapstructure:"subdir" yaml:"subdir,omitempty"`
	}

	// LogConfig configures the logger.
	LogConfig struct {
		Level  string `json:"level" mapstructure:"level" yaml:"level"`
		Format string `json:"format" mapstructure:"format" yaml:"format"`
	}

	// TracingConfig configures OpenTelemetry spans.
	TracingConfig struct {
		Enabled  bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
		Exporter string `json:"exporter" mapstructure:"exporter" yaml:"exporter"`
	}

	// Config is the complete nsload configuration.
	Config struct {
		Separator    string           `json:"separator" mapstructure:"separator" yaml:"separator"`
		Extension    string           `json:"extension" mapstructure:"extension" yaml:"extension"`
		PrefixPolicy string           `json:"prefix_policy" mapstructure:"prefix_policy" yaml:"prefix_policy"`
		Namespaces   []NamespaceEntry `json:"namespaces" mapstructure:"namespaces" yaml:"namespaces"`
		Members      []MemberEntry    `json:"members" mapstructure:"members" yaml:"members"`
		Log          LogConfig        `json:"log" mapstructure:"log" yaml:"log"`
		Tracing      TracingConfig    `json:"tracing" mapstructure:"tracing" yaml:"tracing"`

		// BaseDir anchors relative namespace and member directories. It is
		// the directory of the loaded file, or the working directory.
		BaseDir string `json:"-" mapstructure:"-" yaml:"-"`
		// Source is the file the configuration was read from, if any.
		Source string `json:"-" mapstructure:"-" yaml:"-"`
	}

	// InvalidConfigError collects every validation failure.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// LoadOptions defines explicit configuration loading inputs.
	LoadOptions struct {
		// ConfigFilePath forces loading from a specific file when set.
		ConfigFilePath types.FilesystemPath
		// ConfigDirPath overrides the directory searched for nsload.cue.
		ConfigDirPath types.FilesystemPath
	}

	// InvalidLoadOptionsError reports whitespace-only option paths.
	InvalidLoadOptionsError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Separator:    namespace.DefaultSeparator,
		Extension:    unit.ExtCUE,
		PrefixPolicy: string(namespace.PolicyFirstRegistered),
		Namespaces:   []NamespaceEntry{},
		Members:      []MemberEntry{},
		Log: LogConfig{
			Level:  "warn",
			Format: logging.FormatText,
		},
		Tracing: TracingConfig{
			Enabled:  false,
			Exporter: tracing.ExporterNone,
		},
	}
}

// Validate checks constraints the CUE schema cannot express, including
// values that arrived through environment variables.
func (c *Config) Validate() error {
	var errs []error

	if c.Separator == "" {
		errs = append(errs, errors.New("separator: must be non-empty"))
	}
	if _, err := unit.ForExtension(c.Extension); err != nil {
		errs = append(errs, fmt.Errorf("extension: %w", err))
	}
	if _, err := namespace.ParsePolicy(c.PrefixPolicy); err != nil {
		errs = append(errs, fmt.Errorf("prefix_policy: %w", err))
	}
	if _, err := logging.New(logging.Options{Level: c.Log.Level, Format: c.Log.Format}); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	switch c.Tracing.Exporter {
	case "", tracing.ExporterNone, tracing.ExporterStdout:
	default:
		errs = append(errs, fmt.Errorf("tracing.exporter: unsupported exporter %q", c.Tracing.Exporter))
	}

	seen := make(map[string]int)
	for i, m := range c.Members {
		name := strings.TrimSpace(m.Name)
		if err := types.QualifiedName(name).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("members[%d].name: %w", i, err))
			continue
		}
		if first, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("members[%d]: duplicate member %q (same as members[%d])", i, name, first))
			continue
		}
		seen[name] = i
		if err := types.FilesystemPath(m.Dir).Validate(); err != nil {
			errs = append(errs, fmt.Errorf("members[%d].dir: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return joinFieldErrors("invalid config", e.FieldErrors)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate rejects whitespace-only paths. Empty paths are valid and mean
// "use the default lookup".
func (o LoadOptions) Validate() error {
	var errs []error
	if o.ConfigFilePath != "" {
		if err := o.ConfigFilePath.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("config file path: %w", err))
		}
	}
	if o.ConfigDirPath != "" {
		if err := o.ConfigDirPath.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("config dir path: %w", err))
		}
	}
	if len(errs) > 0 {
		return &InvalidLoadOptionsError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidLoadOptionsError) Error() string {
	return joinFieldErrors("invalid load options", e.FieldErrors)
}

// Unwrap returns ErrInvalidLoadOptions for errors.Is() compatibility.
func (e *InvalidLoadOptionsError) Unwrap() error { return ErrInvalidLoadOptions }

func joinFieldErrors(head string, errs []error) string {
	if len(errs) == 1 {
		return head + ": " + errs[0].Error()
	}
	lines := make([]string, len(errs))
	for i, err := range errs {
		lines[i] = err.Error()
	}
	return fmt.Sprintf("%s (%d errors):\n  %s", head, len(errs), strings.Join(lines, "\n  "))
}
