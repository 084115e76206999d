package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/please-build/rulemeta/src/core"
)

func TestStandardClassesValidate(t *testing.T) {
	assert.NoError(t, TestSuite().Validate())
	assert.NoError(t, TestRuleClass("go").Validate())
	assert.NoError(t, LibraryRuleClass("go").Validate())
}

func TestSuiteClass(t *testing.T) {
	rc := TestSuite()
	assert.True(t, rc.IsTestSuite())
	assert.False(t, rc.IsTest())
	assert.True(t, rc.HasAttribute("tests", core.TypeLabelList))
	assert.True(t, rc.HasAttribute("suites", core.TypeLabelList))
	assert.True(t, rc.HasAttribute("$implicit_tests", core.TypeLabelList))
	assert.True(t, rc.Attribute("$implicit_tests").IsImplicit())
	assert.False(t, rc.Attribute("$implicit_tests").IsDocumented())
	assert.False(t, rc.Attribute("tags").IsConfigurable())
}

func TestTestClassSizes(t *testing.T) {
	rc := TestRuleClass("go")
	assert.Equal(t, "go_test", rc.Name)
	assert.True(t, rc.IsTest())
	r := core.NewRule(core.BuildLabel{PackageName: "src/core", Name: "core_test"}, rc, core.Location{})
	require.NoError(t, r.SetAttr("srcs", []core.BuildLabel{{PackageName: "src/core", Name: "core_test.go"}}))

	// Undeclared size defaults to medium, and the timeout follows the size.
	assert.Equal(t, core.TestSizeMedium, core.TestSizeOf(r))
	assert.Equal(t, core.TestTimeoutModerate, core.TestTimeoutOf(r))

	require.NoError(t, r.SetAttr("size", "enormous"))
	assert.Equal(t, core.TestSizeEnormous, core.TestSizeOf(r))
	assert.Equal(t, core.TestTimeoutEternal, core.TestTimeoutOf(r))

	// A declared timeout beats the size-derived one.
	require.NoError(t, r.SetAttr("timeout", "short"))
	assert.Equal(t, core.TestTimeoutShort, core.TestTimeoutOf(r))

	assert.Error(t, r.SetAttr("size", "big"))
}

func TestTestClassDepsAreRestricted(t *testing.T) {
	deps := TestRuleClass("go").Attribute("deps")
	require.NotNil(t, deps)
	assert.True(t, deps.IsStrictLabelChecking())
	assert.True(t, deps.AllowedRuleClasses()(LibraryRuleClass("go")))
	assert.True(t, deps.AllowedRuleClasses()(TestRuleClass("go")))
	assert.False(t, deps.AllowedRuleClasses()(LibraryRuleClass("java")))
}

func TestTestRunnerIsLateBound(t *testing.T) {
	a := TestRuleClass("go").Attribute(":test_runner")
	require.NotNil(t, a)
	assert.True(t, a.IsLateBoundName())
	lb, ok := a.LateBound()
	require.True(t, ok)
	assert.True(t, lb.UseHostConfig)
	// During loading the runner is unresolved.
	assert.Equal(t, core.BuildLabel{}, a.DefaultValue(nil))
	runner := core.BuildLabel{PackageName: "tools", Name: "test_runner"}
	resolved := lb.Resolve(nil, map[string]core.BuildLabel{"test_runner": runner})
	assert.Equal(t, runner, resolved)
	assert.Equal(t, core.BuildLabel{}, lb.Resolve(nil, nil))
}

func TestRegistry(t *testing.T) {
	r := NewRegistry("go", "java")
	assert.NotNil(t, r.Class("test_suite"))
	assert.NotNil(t, r.Class("go_test"))
	assert.NotNil(t, r.Class("java_library"))
	assert.Nil(t, r.Class("python_test"))
	assert.Equal(t, []string{"go_library", "go_test", "java_library", "java_test", "test_suite"}, r.Names())
}
