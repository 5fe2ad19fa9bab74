// Package main provides the jar-builder CLI: it assembles one jar from loose
// files, directory trees and other jars, resolving duplicate entry paths
// according to configured policies.
//
// Usage:
//
//	jar-builder out.jar --entry build/classes=classes --jar dep-a.jar --jar dep-b.jar \
//	    --policy '^META-INF/services/=concat' --skip '\.SF$'
//
// Merge rules come from an optional YAML file (--config) with flag-supplied
// policies appended after it; --default-action overrides the file's default.
// If out.jar already exists its contents are merged in first, so the tool
// also works as a jar updater.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"jar-builder/internal/config"
	"jar-builder/internal/jar"
)

type options struct {
	entries       []string
	jars          []string
	manifestPath  string
	defaultAction string
	policies      []string
	skips         []string
	configPath    string
	verbose       bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "jar-builder <target.jar>",
		Short: "Create or update a jar, merging entries from files, trees and other jars",
		Long: `Assemble a single jar from many inputs that may legitimately overlap.

Additions are applied in flag order. When several inputs map to the same
entry path, the first matching policy decides what survives: skip (keep the
first), replace (keep the last), concat (append in order), or fail.

Examples:
  jar-builder out.jar --entry resources --jar dep.jar
  jar-builder out.jar --jar a.jar --jar b.jar --default-action replace
  jar-builder out.jar --jar dep.jar --config merge-rules.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&opts.entries, "entry", nil,
		"file or directory to add, as src[=dest] (dest defaults to the source base name)")
	cmd.Flags().StringArrayVar(&opts.jars, "jar", nil,
		"existing jar whose non-manifest contents are merged in")
	cmd.Flags().StringVar(&opts.manifestPath, "manifest", "",
		"custom manifest file for the written jar")
	cmd.Flags().StringVar(&opts.defaultAction, "default-action", "",
		"action for duplicate paths with no matching policy (skip|replace|concat|fail)")
	cmd.Flags().StringArrayVar(&opts.policies, "policy", nil,
		"duplicate policy as pattern=action, tried in order")
	cmd.Flags().StringArrayVar(&opts.skips, "skip", nil,
		"regexp of entry paths to exclude from the output")
	cmd.Flags().StringVar(&opts.configPath, "config", "",
		"YAML merge-rules file; flag-supplied rules append to it")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"log every entry decision")

	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func run(opts *options, target string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: false})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	rules, err := buildRules(opts)
	if err != nil {
		return err
	}
	handler, err := rules.Handler()
	if err != nil {
		return err
	}
	skipPatterns, err := rules.SkipPatterns()
	if err != nil {
		return err
	}

	builder := jar.NewBuilder(target, &logListener{logger: logger})
	defer builder.Close()

	for _, spec := range opts.entries {
		src, dest := splitEntrySpec(spec)
		builder.AddFile(src, dest)
	}
	for _, path := range opts.jars {
		builder.AddJar(path)
	}
	if opts.manifestPath != "" {
		builder.UseCustomManifestFile(opts.manifestPath)
	}

	written, err := builder.WriteWith(handler, skipPatterns...)
	if err != nil {
		return err
	}
	logger.Info("wrote jar", "path", written)
	return nil
}

// buildRules merges the optional config file with flag-supplied rules: flags
// append after the file's policies, and --default-action wins over the file.
func buildRules(opts *options) (config.Rules, error) {
	rules := config.Rules{}
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return config.Rules{}, err
		}
		rules = loaded
	}
	if opts.defaultAction != "" {
		rules.DefaultAction = opts.defaultAction
	}
	for _, spec := range opts.policies {
		pattern, action, err := splitPolicySpec(spec)
		if err != nil {
			return config.Rules{}, err
		}
		rules.Policies = append(rules.Policies, config.PolicyRule{Pattern: pattern, Action: action})
	}
	rules.Skip = append(rules.Skip, opts.skips...)
	return rules, nil
}

// splitEntrySpec splits "src=dest"; dest defaults to the source base name.
func splitEntrySpec(spec string) (src, dest string) {
	if before, after, ok := strings.Cut(spec, "="); ok && after != "" {
		return before, after
	}
	return spec, filepath.Base(spec)
}

func splitPolicySpec(spec string) (pattern, action string, err error) {
	pattern, action, ok := strings.Cut(spec, "=")
	if !ok || pattern == "" || action == "" {
		return "", "", fmt.Errorf("policy %q: want pattern=action", spec)
	}
	return pattern, action, nil
}
