package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeView is an AttrView over a plain map, for tests that don't want to
// construct a whole rule.
type fakeView map[string]interface{}

func (v fakeView) Get(name string, typ AttrType) (interface{}, error) {
	return v[name], nil
}

func TestConstantDefaultIgnoresView(t *testing.T) {
	a := NewAttribute("size", TypeString).Default("small").MustBuild()
	assert.False(t, a.HasComputedDefault())
	assert.Equal(t, "small", a.DefaultValue(nil))
	assert.Equal(t, "small", a.DefaultValue(fakeView{"size": "large"}))
}

func TestComputedDefaultReadsSiblings(t *testing.T) {
	a := NewAttribute("timeout", TypeString).ComputedDefault(func(view AttrView) interface{} {
		size, err := StringValue(view, "size")
		require.NoError(t, err)
		if size == "small" {
			return "short"
		}
		return "moderate"
	}).MustBuild()
	assert.True(t, a.HasComputedDefault())
	assert.Equal(t, "short", a.DefaultValue(fakeView{"size": "small"}))
	assert.Equal(t, "moderate", a.DefaultValue(fakeView{"size": "large"}))
}

func TestComputedDefaultPanicsWithoutView(t *testing.T) {
	a := NewAttribute("timeout", TypeString).
		ComputedDefault(func(AttrView) interface{} { return "moderate" }).
		MustBuild()
	assert.Panics(t, func() { a.DefaultValue(nil) })
}

func TestConditionGatesTheDefault(t *testing.T) {
	a := NewAttribute("tags", TypeStringList).
		Default([]string{"manual"}).
		Condition(func(view AttrView) bool {
			flaky, _ := BoolValue(view, "flaky")
			return flaky
		}).
		MustBuild()
	// A gated default needs a view even though the default itself is constant.
	assert.True(t, a.HasComputedDefault())
	assert.Equal(t, []string{"manual"}, a.DefaultValue(fakeView{"flaky": true}))
	assert.Equal(t, []string{}, a.DefaultValue(fakeView{"flaky": false}))
}

func TestLateBoundDefaultResolvesToLoadingValue(t *testing.T) {
	runner := BuildLabel{PackageName: "tools", Name: "please_go_test"}
	a := NewAttribute(":test_runner", TypeNodepLabel).
		LateBoundDefault(LateBoundDefault{
			UseHostConfig: true,
			LoadingValue:  BuildLabel{},
			Resolve: func(rule *Rule, config interface{}) interface{} {
				return runner
			},
		}).
		MustBuild()
	assert.False(t, a.HasComputedDefault())
	// During loading only the stand-in is visible.
	assert.Equal(t, BuildLabel{}, a.DefaultValue(nil))
	// The real value comes from resolving against a configuration.
	lb, ok := a.LateBound()
	require.True(t, ok)
	assert.True(t, lb.UseHostConfig)
	assert.Equal(t, runner, lb.Resolve(nil, nil))
}

func TestZeroValueWhenNothingIsDeclared(t *testing.T) {
	assert.Equal(t, false, NewAttribute("flaky", TypeBool).MustBuild().DefaultValue(nil))
	assert.Equal(t, 0, NewAttribute("count", TypeInt).MustBuild().DefaultValue(nil))
	assert.Equal(t, "", NewAttribute("size", TypeString).MustBuild().DefaultValue(nil))
	assert.Equal(t, []string{}, NewAttribute("tags", TypeStringList).MustBuild().DefaultValue(nil))
	assert.Equal(t, BuildLabel{}, NewAttribute("src", TypeLabel).MustBuild().DefaultValue(nil))
	assert.Equal(t, []BuildLabel{}, NewAttribute("deps", TypeLabelList).MustBuild().DefaultValue(nil))
}
