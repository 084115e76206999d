package suite

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/please-build/rulemeta/src/core"
)

// Resolved is the outcome of expanding a set of targets: the deduplicated
// tests (plus anything passed through unchanged) and whether any recoverable
// error was encountered along the way. Callers that care about the detail of
// those errors have already seen them through the event handler.
type Resolved struct {
	Targets  *core.TargetSet
	HasError bool
}

// An Expander flattens test_suite rules into the concrete tests they contain.
// It memoizes per-suite results so shared and cyclic suite structures are
// expanded once and terminate. An instance is single use and single threaded:
// the memo table is unsynchronised, and after a fatal error the instance
// should be discarded.
type Expander struct {
	provider     core.TargetProvider
	events       core.EventHandler
	strict       bool
	keepGoing    bool
	testsInSuite map[core.BuildLabel]*core.TargetSet
	hasError     bool
}

// NewExpander creates an expander. Under strict, suite members that are
// neither tests nor suites are an error; under keepGoing, recoverable errors
// are reported and accumulated rather than aborting the expansion.
func NewExpander(provider core.TargetProvider, events core.EventHandler, strict, keepGoing bool) *Expander {
	return &Expander{
		provider:     provider,
		events:       events,
		strict:       strict,
		keepGoing:    keepGoing,
		testsInSuite: map[core.BuildLabel]*core.TargetSet{},
	}
}

// Expand returns the flattened set of tests under the given targets: concrete
// tests are added as-is, suites are replaced by their transitive closure, and
// anything else passes through unchanged (callers are expected to have
// filtered to test-like targets already, but we don't crash if they haven't).
func (e *Expander) Expand(ctx context.Context, targets []core.Target) (Resolved, error) {
	result := core.NewTargetSet()
	for _, target := range targets {
		if core.IsTestRule(target) {
			result.Add(target)
		} else if core.IsTestSuiteRule(target) {
			tests, err := e.testsIn(ctx, target.(*core.Rule))
			if err != nil {
				return Resolved{}, err
			}
			result.AddSet(tests)
		} else {
			result.Add(target)
		}
	}
	return Resolved{Targets: result, HasError: e.hasError}, nil
}

// testsIn returns the memoized set of tests in one suite, computing it on
// first request. The empty set is registered before computation begins so
// that a cycle re-entering this suite sees it and terminates; it's mutated in
// place as results are found, so by the time the recursion returns every
// reader holds the final set.
func (e *Expander) testsIn(ctx context.Context, testSuite *core.Rule) (*core.TargetSet, error) {
	if tests, present := e.testsInSuite[testSuite.Label()]; present {
		return tests, nil
	}
	tests := core.NewTargetSet()
	e.testsInSuite[testSuite.Label()] = tests
	if err := e.computeTestsIn(ctx, testSuite, tests); err != nil {
		return nil, err
	}
	return tests, nil
}

// computeTestsIn populates result with all the tests under one suite.
func (e *Expander) computeTestsIn(ctx context.Context, testSuite *core.Rule, result *core.TargetSet) error {
	log.Debug("Expanding test suite %s", testSuite.Label())
	// Note that members can be file targets too; a test_suite does not
	// restrict what can appear in its tests attribute.
	members, err := e.prerequisites(ctx, testSuite, "tests")
	if err != nil {
		return err
	}
	if testSuite.Class().HasAttribute("suites", core.TypeLabelList) {
		more, err := e.prerequisites(ctx, testSuite, "suites")
		if err != nil {
			return err
		}
		members = append(members, more...)
	}

	// 1. Add all the tests.
	for _, member := range members {
		if core.IsTestRule(member) {
			result.Add(member)
		} else if e.strict && !core.IsTestSuiteRule(member) {
			e.events.Handle(core.ErrorfAt(testSuite.Location(),
				"in test_suite rule %s: expecting a test or a test_suite rule but %s is not one",
				testSuite.Label(), member.Label()))
			e.hasError = true
			if !e.keepGoing {
				return fmt.Errorf("test suite %s expansion failed", testSuite.Label())
			}
		}
	}

	// 2. Add the implicit same-package tests, if any. Package construction
	// guarantees this attribute only names tests, but re-check anyway.
	implicit, err := e.prerequisites(ctx, testSuite, "$implicit_tests")
	if err != nil {
		return err
	}
	for _, member := range implicit {
		if core.IsTestRule(member) {
			result.Add(member)
		}
	}

	// 3. Filter on the suite's own tags before recursing, so nested suites
	// aren't filtered by an ancestor's tags.
	e.filterTests(testSuite, result)

	// 4. Expand nested suites recursively.
	for _, member := range members {
		if core.IsTestSuiteRule(member) {
			tests, err := e.testsIn(ctx, member.(*core.Rule))
			if err != nil {
				return err
			}
			result.AddSet(tests)
		}
	}
	return nil
}

// prerequisites resolves the targets named by one label-list attribute of a
// suite. Labels that fail to resolve are reported through the handler; under
// keepGoing they're skipped and the error flag set, otherwise the first one
// aborts the expansion. Cancellation always aborts, regardless of keepGoing.
func (e *Expander) prerequisites(ctx context.Context, testSuite *core.Rule, attrName string) ([]core.Target, error) {
	if !testSuite.Class().HasAttribute(attrName, core.TypeLabelList) {
		return nil, nil
	}
	labels, err := core.LabelListValue(testSuite.Attrs(), attrName)
	if err != nil {
		return nil, err
	}
	ret := make([]core.Target, 0, len(labels))
	for _, label := range labels {
		target, err := e.provider.GetTarget(ctx, e.events, label)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("interrupted while expanding %s: %w", testSuite.Label(), err)
			} else if !core.IsNotFound(err) {
				return nil, err
			}
			e.events.Handle(core.Errorf("%s", err))
			if !e.keepGoing {
				return nil, fmt.Errorf("test suite %s expansion failed: %w", testSuite.Label(), err)
			}
			e.hasError = true
			continue
		}
		ret = append(ret, target)
	}
	return ret, nil
}

// filterTests removes, by mutation, the tests that don't match the tags
// declared on the suite itself. A test's size counts as one of its tags here,
// so suites can filter on size without any separate mechanism.
func (e *Expander) filterTests(testSuite *core.Rule, tests *core.TargetSet) {
	required, excluded := SortTagsBySense(testSuite.Tags())
	if len(required) == 0 && len(excluded) == 0 {
		return
	}
	tests.Filter(func(target core.Target) bool {
		rule, ok := target.(*core.Rule)
		if !ok {
			return true
		}
		testTags := append(slices.Clone(rule.Tags()), core.TestSizeOf(rule).String())
		return includeTest(testTags, required, excluded)
	})
}
