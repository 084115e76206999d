// Package suite implements expansion of test_suite rules into the concrete
// tests they aggregate, along with the predicates used to filter tests by
// size, timeout, language and tag.
package suite

import (
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/op/go-logging.v1"

	"github.com/please-build/rulemeta/src/cli"
	"github.com/please-build/rulemeta/src/core"
)

var log = logging.MustGetLogger("suite")

// A Predicate selects a subset of targets.
type Predicate func(core.Target) bool

// And combines predicates conjunctively. With no arguments it accepts everything.
func And(preds ...Predicate) Predicate {
	return func(target core.Target) bool {
		for _, pred := range preds {
			if !pred(target) {
				return false
			}
		}
		return true
	}
}

// SizeFilter returns a predicate accepting exactly the tests of the given sizes.
func SizeFilter(allowed []core.TestSize) Predicate {
	return func(target core.Target) bool {
		rule, ok := target.(*core.Rule)
		return ok && core.IsTestRule(target) && slices.Contains(allowed, core.TestSizeOf(rule))
	}
}

// TimeoutFilter returns a predicate accepting exactly the tests of the given timeouts.
func TimeoutFilter(allowed []core.TestTimeout) Predicate {
	return func(target core.Target) bool {
		rule, ok := target.(*core.Rule)
		return ok && core.IsTestRule(target) && slices.Contains(allowed, core.TestTimeoutOf(rule))
	}
}

// LanguageFilter returns a predicate accepting tests of the given languages.
// Each entry either names a required language or, prefixed with '-', an
// excluded one. A target's language is its rule class name with the trailing
// "_test" stripped. Entries whose implied rule class isn't in allRuleNames
// produce a warning through the handler; that only affects diagnostics, not
// what the predicate matches.
func LanguageFilter(languages []string, events core.EventHandler, allRuleNames []string) Predicate {
	required := map[string]bool{}
	excluded := map[string]bool{}
	for _, lang := range languages {
		if stripped := strings.TrimPrefix(lang, "-"); stripped != lang {
			excluded[stripped] = true
			lang = stripped
		} else {
			required[lang] = true
		}
		if !slices.Contains(allRuleNames, lang+"_test") {
			events.Handle(core.Warningf("Unknown language '%s' in test language filter%s", lang, cli.SuggestMessage(lang+"_test", allRuleNames)))
		}
	}
	return func(target core.Target) bool {
		lang := core.RuleLanguage(target)
		return (len(required) == 0 || required[lang]) && !excluded[lang]
	}
}

// TagFilter returns a predicate over rules' tags for command-line filtering:
// a rule matches if it carries none of the excluded tags and, when any
// required tags were given, at least one of them. Note the at-least-one
// semantics; suites filtering their own members require all tags instead.
func TagFilter(tags []string) Predicate {
	required, excluded := SortTagsBySense(tags)
	return func(target core.Target) bool {
		rule, ok := target.(*core.Rule)
		if !ok {
			return false
		}
		return MatchesFilters(rule.Tags(), required, excluded, false)
	}
}

// SortTagsBySense separates a list of tags into the required (no prefix, or
// '+') and the excluded ('-' prefix) ones. The literal tag "manual" is
// dropped; it is a property of test suites, not a filter term. This handles
// both command-line tag filters and the tags attribute declared on a suite.
func SortTagsBySense(tags []string) (required, excluded []string) {
	for _, tag := range tags {
		switch {
		case strings.HasPrefix(tag, "-"):
			excluded = append(excluded, tag[1:])
		case strings.HasPrefix(tag, "+"):
			required = append(required, tag[1:])
		case tag == "manual":
		default:
			required = append(required, tag)
		}
	}
	return required, excluded
}

// MatchesFilters reports whether a test carrying testTags matches a filter.
// Any excluded tag present rejects the test. If required tags were given, the
// test must carry all of them when matchAllRequired is set, otherwise at
// least one.
func MatchesFilters(testTags, requiredTags, excludedTags []string, matchAllRequired bool) bool {
	for _, tag := range excludedTags {
		if slices.Contains(testTags, tag) {
			return false
		}
	}
	if len(requiredTags) == 0 {
		return true
	}
	if matchAllRequired {
		for _, tag := range requiredTags {
			if !slices.Contains(testTags, tag) {
				return false
			}
		}
		return true
	}
	for _, tag := range requiredTags {
		if slices.Contains(testTags, tag) {
			return true
		}
	}
	return false
}

// includeTest decides whether a suite keeps one of its member tests: it must
// carry all of the suite's required tags and none of the excluded ones.
// Deliberately stricter than the at-least-one mode command-line filters use.
func includeTest(testTags, requiredTags, excludedTags []string) bool {
	for _, tag := range excludedTags {
		if slices.Contains(testTags, tag) {
			return false
		}
	}
	for _, tag := range requiredTags {
		if !slices.Contains(testTags, tag) {
			return false
		}
	}
	return true
}
