// Package main implements suite_query, a tool that expands test_suite rules.
//
// It reads a set of JSON package files describing rules, resolves the closure
// of one or more suites and prints the labels of the tests they contain, after
// applying any command-line test filters.
package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/op/go-logging.v1"

	"github.com/please-build/rulemeta/src/cli"
	"github.com/please-build/rulemeta/src/core"
	"github.com/please-build/rulemeta/src/rules"
	"github.com/please-build/rulemeta/src/suite"
)

var log = logging.MustGetLogger("suite_query")

var opts = struct {
	Usage     string
	Verbosity cli.Verbosity `short:"v" long:"verbosity" default:"warning" description:"Verbosity of output (higher number = more output)"`

	Suites    []core.BuildLabel `short:"s" long:"suite" required:"true" description:"Label of a test_suite to expand. Can be passed multiple times."`
	Languages []string          `short:"l" long:"language" default:"go" description:"Language to register test rule classes for. Can be passed multiple times."`
	Strict    bool              `long:"strict" description:"Fail if a suite member is neither a test nor another suite"`
	KeepGoing bool              `short:"k" long:"keep_going" description:"Report missing suite members at the end instead of stopping at the first one"`

	TestTags     []string           `long:"test_tag_filter" description:"Keep only tests matching at least one of these tags ('-' prefix excludes)"`
	TestSizes    []core.TestSize    `long:"test_size_filter" description:"Keep only tests of these sizes"`
	TestTimeouts []core.TestTimeout `long:"test_timeout_filter" description:"Keep only tests with these timeouts"`
	TestLangs    []string           `long:"test_lang_filter" description:"Keep only tests of these languages ('-' prefix excludes)"`

	Args struct {
		Files []string `positional-arg-name:"file" required:"true" description:"JSON package files to load"`
	} `positional-args:"true"`
}{
	Usage: `
suite_query resolves the transitive contents of test_suite rules.

It loads rule metadata from JSON package files, expands the named suites
through any amount of nesting (cycles are tolerated and resolve to nothing)
and prints the label of every test in the closure, one per line in sorted
order.

Suite tags filter the members of that suite; a test must carry every
positively-required tag and none of the excluded ones. The command-line
--test_tag_filter is looser and keeps a test carrying any one of the required
tags. A test's size also counts as a tag for both of these.

The exit code is nonzero if any member could not be resolved, including under
--keep_going where expansion itself carries on regardless.
`,
}

func main() {
	cli.ParseFlagsOrDie("suite_query", &opts)
	cli.InitLogging(opts.Verbosity)

	registry := rules.NewRegistry(opts.Languages...)
	files, err := loadFiles(opts.Args.Files)
	if err != nil {
		log.Fatalf("%s", err)
	}
	g, err := buildGraph(files, registry)
	if err != nil {
		log.Fatalf("Failed to load rules: %s", err)
	}

	ctx := context.Background()
	events := core.LogHandler{}
	roots := make([]core.Target, len(opts.Suites))
	for i, label := range opts.Suites {
		target, err := g.GetTarget(ctx, events, label)
		if err != nil {
			log.Fatalf("%s", err)
		}
		roots[i] = target
	}

	expander := suite.NewExpander(g, events, opts.Strict, opts.KeepGoing)
	resolved, err := expander.Expand(ctx, roots)
	if err != nil {
		log.Fatalf("Failed to expand test suites: %s", err)
	}
	if pred := commandLineFilter(events, registry); pred != nil {
		resolved.Targets.Filter(pred)
	}

	for _, label := range resolved.Targets.Labels() {
		fmt.Println(label)
	}
	if resolved.HasError {
		os.Exit(1)
	}
}

// commandLineFilter combines the test filter flags into one predicate, or
// returns nil if no filtering was requested.
func commandLineFilter(events core.EventHandler, registry *rules.Registry) suite.Predicate {
	preds := []suite.Predicate{}
	if len(opts.TestTags) > 0 {
		preds = append(preds, suite.TagFilter(opts.TestTags))
	}
	if len(opts.TestSizes) > 0 {
		preds = append(preds, suite.SizeFilter(opts.TestSizes))
	}
	if len(opts.TestTimeouts) > 0 {
		preds = append(preds, suite.TimeoutFilter(opts.TestTimeouts))
	}
	if len(opts.TestLangs) > 0 {
		preds = append(preds, suite.LanguageFilter(opts.TestLangs, events, registry.Names()))
	}
	if len(preds) == 0 {
		return nil
	}
	return suite.And(preds...)
}
