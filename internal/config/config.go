// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/nsload/nsload/internal/issue"
	"github.com/nsload/nsload/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "nsload"
	// ConfigFileName is the config file name, searched in the config
	// directory and the working directory.
	ConfigFileName = "nsload.cue"
	// EnvPrefix prefixes environment overrides, e.g. NSLOAD_LOG_LEVEL.
	EnvPrefix = "NSLOAD"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the per-user nsload configuration directory.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config directory: %w", err)
	}
	return filepath.Join(dir, AppName), nil
}

// loadWithOptions performs option-driven config loading.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := findConfigFile(opts)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadCUEIntoViper(v, path); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'nsload config show' to see the effective configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		cfg.Source = abs
		cfg.BaseDir = filepath.Dir(abs)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.BaseDir = wd
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(cfg.Source).
			WithSuggestion("Member names must be unique and non-empty").
			WithSuggestion("Check NSLOAD_* environment variables for stray values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("separator", d.Separator)
	v.SetDefault("extension", d.Extension)
	v.SetDefault("prefix_policy", d.PrefixPolicy)
	v.SetDefault("namespaces", d.Namespaces)
	v.SetDefault("members", d.Members)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
}

// findConfigFile returns the file to load, or "" to run on defaults. An
// explicit path that does not exist is an error; a missing default file is not.
func findConfigFile(opts LoadOptions) (string, error) {
	if p := opts.ConfigFilePath.Trimmed(); p != "" {
		if !fileExists(string(p)) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(string(p)).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'nsload config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", p)).
				BuildError()
		}
		return string(p), nil
	}

	if d := opts.ConfigDirPath.Trimmed(); d != "" {
		if p := filepath.Join(string(d), ConfigFileName); fileExists(p) {
			return p, nil
		}
		return "", nil
	}

	if fileExists(ConfigFileName) {
		return ConfigFileName, nil
	}
	if dir, err := ConfigDir(); err == nil {
		if p := filepath.Join(dir, ConfigFileName); fileExists(p) {
			return p, nil
		}
	}
	return "", nil
}

// loadCUEIntoViper parses a CUE file, validates it against #Config and merges
// it into v.
//
// This does not use cueutil.ParseAndDecode: the result is merged into Viper
// as a map, and every field is optional so values need not be concrete.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	unified := schemaValue.LookupPath(cue.ParsePath("#Config")).Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a CUE document accepted by the schema.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// nsload configuration\n\n")
	fmt.Fprintf(&sb, "separator:     %q\n", cfg.Separator)
	fmt.Fprintf(&sb, "extension:     %q\n", cfg.Extension)
	fmt.Fprintf(&sb, "prefix_policy: %q\n", cfg.PrefixPolicy)

	if len(cfg.Namespaces) > 0 {
		sb.WriteString("\nnamespaces: [\n")
		for _, n := range cfg.Namespaces {
			if n.Root != "" {
				fmt.Fprintf(&sb, "\t{prefix: %q, dir: %q, root: %q},\n", n.Prefix, n.Dir, n.Root)
			} else {
				fmt.Fprintf(&sb, "\t{prefix: %q, dir: %q},\n", n.Prefix, n.Dir)
			}
		}
		sb.WriteString("]\n")
	}

	if len(cfg.Members) > 0 {
		sb.WriteString("\nmembers: [\n")
		for _, m := range cfg.Members {
			if m.Subdir != "" {
				fmt.Fprintf(&sb, "\t{name: %q, dir: %q, subdir: %q},\n", m.Name, m.Dir, m.Subdir)
			} else {
				fmt.Fprintf(&sb, "\t{name: %q, dir: %q},\n", m.Name, m.Dir)
			}
		}
		sb.WriteString("]\n")
	}

	sb.WriteString("\nlog: {\n")
	fmt.Fprintf(&sb, "\tlevel:  %q\n", cfg.Log.Level)
	fmt.Fprintf(&sb, "\tformat: %q\n", cfg.Log.Format)
	sb.WriteString("}\n")

	sb.WriteString("\ntracing: {\n")
	fmt.Fprintf(&sb, "\tenabled:  %v\n", cfg.Tracing.Enabled)
	fmt.Fprintf(&sb, "\texporter: %q\n", cfg.Tracing.Exporter)
	sb.WriteString("}\n")

	return sb.String()
}
