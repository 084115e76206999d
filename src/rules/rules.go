// Package rules defines the statically known rule classes: the test_suite
// class and per-language test classes. It's the place where most attribute
// schemas are declared, so it's deliberately written as one fluent block per
// class in the same way the classes would read in the build language.
package rules

import (
	"golang.org/x/exp/slices"

	"github.com/please-build/rulemeta/src/core"
)

// testSizes are the values a test's size attribute may take.
var testSizes = core.NewValueSet("small", "medium", "large", "enormous")

// TestSuite returns the rule class for test_suite rules.
// Suites carry no size of their own; their tags act as a filter over their
// members rather than as plain metadata.
func TestSuite() *core.RuleClass {
	return core.MustRuleClass("test_suite",
		core.NewAttribute("tests", core.TypeLabelList).
			OrderIndependent().
			MustBuild(),
		core.NewAttribute("suites", core.TypeLabelList).
			OrderIndependent().
			MustBuild(),
		core.NewAttribute("$implicit_tests", core.TypeLabelList).
			OrderIndependent().
			MustBuild(),
		core.NewAttribute("tags", core.TypeStringList).
			Nonconfigurable().
			MustBuild(),
	)
}

// TestRuleClass returns the rule class for tests of the given language, eg.
// TestRuleClass("go") describes go_test. The timeout defaults to whatever the
// declared size implies, and the test runner is bound late against the host
// configuration.
func TestRuleClass(language string) *core.RuleClass {
	rc := core.MustRuleClass(language+"_test",
		core.NewAttribute("srcs", core.TypeLabelList).
			Mandatory().
			NonEmpty().
			DirectCompileTimeInput().
			MustBuild(),
		core.NewAttribute("deps", core.TypeLabelList).
			OrderIndependent().
			AllowedRuleClasses(core.RuleClassNames(language+"_library", language+"_test")).
			MustBuild(),
		core.NewAttribute("data", core.TypeLabelList).
			OrderIndependent().
			SkipFileTypeCheck().
			MustBuild(),
		core.NewAttribute("size", core.TypeString).
			Nonconfigurable().
			AllowedValues(testSizes).
			Default("medium").
			MustBuild(),
		core.NewAttribute("timeout", core.TypeString).
			Nonconfigurable().
			ComputedDefault(timeoutFromSize).
			MustBuild(),
		core.NewAttribute("flaky", core.TypeBool).
			MustBuild(),
		core.NewAttribute("tags", core.TypeStringList).
			Nonconfigurable().
			MustBuild(),
		core.NewAttribute(":test_runner", core.TypeNodepLabel).
			LateBoundDefault(core.LateBoundDefault{
				UseHostConfig: true,
				LoadingValue:  core.BuildLabel{},
				Resolve:       resolveTestRunner,
			}).
			MustBuild(),
	)
	rc.DefaultTestSize = core.TestSizeMedium
	return rc
}

// LibraryRuleClass returns the rule class for libraries of the given language.
// It exists mostly so deps edges of test rules have something legal to point at.
func LibraryRuleClass(language string) *core.RuleClass {
	return core.MustRuleClass(language+"_library",
		core.NewAttribute("srcs", core.TypeLabelList).
			Mandatory().
			NonEmpty().
			DirectCompileTimeInput().
			MustBuild(),
		core.NewAttribute("deps", core.TypeLabelList).
			OrderIndependent().
			AllowedRuleClasses(core.RuleClassNames(language+"_library")).
			MustBuild(),
		core.NewAttribute("tags", core.TypeStringList).
			Nonconfigurable().
			MustBuild(),
	)
}

// timeoutFromSize computes a test's default timeout from its declared size.
func timeoutFromSize(view core.AttrView) interface{} {
	declared, err := core.StringValue(view, "size")
	if err != nil {
		return core.TestTimeoutModerate.String()
	}
	size, err := core.ParseTestSize(declared)
	if err != nil {
		return core.TestTimeoutModerate.String()
	}
	return size.DefaultTimeout().String()
}

// resolveTestRunner looks the test runner up in the (opaque) configuration.
func resolveTestRunner(rule *core.Rule, config interface{}) interface{} {
	if cfg, ok := config.(map[string]core.BuildLabel); ok {
		if runner, present := cfg["test_runner"]; present {
			return runner
		}
	}
	return core.BuildLabel{}
}

// A Registry holds the known rule classes by name.
type Registry struct {
	classes map[string]*core.RuleClass
}

// NewRegistry returns a registry containing test_suite plus test & library
// classes for each of the given languages.
func NewRegistry(languages ...string) *Registry {
	r := &Registry{classes: map[string]*core.RuleClass{}}
	r.Register(TestSuite())
	for _, language := range languages {
		r.Register(TestRuleClass(language))
		r.Register(LibraryRuleClass(language))
	}
	return r
}

// Register adds a rule class to the registry, replacing any previous one of
// the same name.
func (r *Registry) Register(rc *core.RuleClass) {
	r.classes[rc.Name] = rc
}

// Class returns the named rule class, or nil if it isn't registered.
func (r *Registry) Class(name string) *core.RuleClass {
	return r.classes[name]
}

// Names returns the names of all registered classes, sorted.
func (r *Registry) Names() []string {
	ret := make([]string, 0, len(r.classes))
	for name := range r.classes {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}
