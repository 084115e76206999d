package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/please-build/rulemeta/src/cli"
	"github.com/please-build/rulemeta/src/core"
	"github.com/please-build/rulemeta/src/graph"
	"github.com/please-build/rulemeta/src/rules"
)

// A pkgFile is the on-disk description of one package.
type pkgFile struct {
	filename string
	Package  string      `json:"package"`
	Targets  []targetDef `json:"targets"`
}

// A targetDef is one target within a package file. Label-valued fields accept
// either absolute labels or the :name form relative to the declaring package.
// A kind of "file" declares a plain source file rather than a rule.
type targetDef struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Line    int      `json:"line"`
	Tags    []string `json:"tags"`
	Size    string   `json:"size"`
	Timeout string   `json:"timeout"`
	Flaky   *bool    `json:"flaky"`
	Srcs    []string `json:"srcs"`
	Deps    []string `json:"deps"`
	Data    []string `json:"data"`
	Tests   []string `json:"tests"`
	Suites  []string `json:"suites"`
}

// loadFiles reads & decodes all the given package files concurrently.
func loadFiles(filenames []string) ([]*pkgFile, error) {
	files := make([]*pkgFile, len(filenames))
	var g errgroup.Group
	for i, filename := range filenames {
		i, filename := i, filename
		g.Go(func() error {
			b, err := os.ReadFile(filename)
			if err != nil {
				return err
			}
			f := &pkgFile{filename: filename}
			if err := json.Unmarshal(b, f); err != nil {
				return fmt.Errorf("failed to parse %s: %w", filename, err)
			} else if f.Package == "" {
				return fmt.Errorf("%s does not name a package", filename)
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// buildGraph instantiates every target in the loaded files and adds them all
// to a new graph. Suites that name no members at all implicitly cover every
// test in their package, which is filled in here once the package is complete.
func buildGraph(files []*pkgFile, registry *rules.Registry) (*graph.Graph, error) {
	g := graph.NewGraph()
	var errs *multierror.Error
	testsByPackage := map[string][]core.BuildLabel{}
	implicitSuites := []*core.Rule{}
	for _, f := range files {
		for _, def := range f.Targets {
			label := core.NewBuildLabel(f.Package, def.Name)
			if g.Target(label) != nil {
				errs = multierror.Append(errs, fmt.Errorf("%s is defined more than once", label))
				continue
			}
			loc := core.Location{File: f.filename, Line: def.Line}
			if def.Kind == "file" {
				g.AddTarget(core.NewInputFile(label, loc))
				continue
			}
			class := registry.Class(def.Kind)
			if class == nil {
				errs = multierror.Append(errs, fmt.Errorf("%s: unknown rule class %s%s", label, def.Kind, cli.SuggestMessage(def.Kind, registry.Names())))
				continue
			}
			rule := core.NewRule(label, class, loc)
			if err := applyAttrs(rule, f.Package, def); err != nil {
				errs = multierror.Append(errs, err)
				continue
			}
			g.AddTarget(rule)
			if core.IsTestRule(rule) {
				testsByPackage[f.Package] = append(testsByPackage[f.Package], label)
			} else if core.IsTestSuiteRule(rule) && !rule.IsAttrSet("tests") && !rule.IsAttrSet("suites") {
				implicitSuites = append(implicitSuites, rule)
			}
		}
	}
	for _, s := range implicitSuites {
		labels := append([]core.BuildLabel{}, testsByPackage[s.Label().PackageName]...)
		slices.SortFunc(labels, func(a, b core.BuildLabel) bool { return a.Less(b) })
		if err := s.SetAttr("$implicit_tests", labels); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return g, errs.ErrorOrNil()
}

// applyAttrs declares the attribute values a target definition carries.
func applyAttrs(rule *core.Rule, pkg string, def targetDef) error {
	var errs *multierror.Error
	set := func(name string, value interface{}) {
		if err := rule.SetAttr(name, value); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if def.Tags != nil {
		set("tags", def.Tags)
	}
	if def.Size != "" {
		set("size", def.Size)
	}
	if def.Timeout != "" {
		set("timeout", def.Timeout)
	}
	if def.Flaky != nil {
		set("flaky", *def.Flaky)
	}
	for _, field := range []struct {
		name string
		raw  []string
	}{
		{"srcs", def.Srcs},
		{"deps", def.Deps},
		{"data", def.Data},
		{"tests", def.Tests},
		{"suites", def.Suites},
	} {
		if field.raw == nil {
			continue
		}
		labels, err := parseLabels(pkg, field.raw)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", rule.Label(), err))
			continue
		}
		set(field.name, labels)
	}
	for _, a := range rule.Class().Attributes() {
		if a.IsMandatory() && !rule.IsAttrSet(a.Name()) {
			errs = multierror.Append(errs, fmt.Errorf("%s is missing the mandatory attribute %s", rule.Label(), a.Name()))
		}
	}
	return errs.ErrorOrNil()
}

// parseLabels parses a list of labels, resolving the :name form against pkg.
func parseLabels(pkg string, raw []string) ([]core.BuildLabel, error) {
	labels := make([]core.BuildLabel, len(raw))
	for i, s := range raw {
		if strings.HasPrefix(s, ":") {
			labels[i] = core.NewBuildLabel(pkg, s[1:])
			continue
		}
		label, err := core.TryParseBuildLabel(s)
		if err != nil {
			return nil, err
		}
		labels[i] = label
	}
	return labels, nil
}
