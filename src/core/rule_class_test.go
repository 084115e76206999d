package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuplicateAttributeNames(t *testing.T) {
	_, err := NewRuleClass("go_library",
		NewAttribute("srcs", TypeLabelList).MustBuild(),
		NewAttribute("srcs", TypeLabelList).MustBuild(),
	)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate attribute srcs")
}

func TestAttributeLookup(t *testing.T) {
	rc := MustRuleClass("go_library",
		NewAttribute("srcs", TypeLabelList).MustBuild(),
		NewAttribute("tags", TypeStringList).MustBuild(),
	)
	require.NotNil(t, rc.Attribute("srcs"))
	assert.Nil(t, rc.Attribute("deps"))
	assert.True(t, rc.HasAttribute("srcs", TypeLabelList))
	assert.False(t, rc.HasAttribute("srcs", TypeStringList))
	assert.False(t, rc.HasAttribute("deps", TypeLabelList))
	assert.Equal(t, []string{"srcs", "tags"}, rc.AttributeNames())
}

func TestAttributesAreSorted(t *testing.T) {
	rc := MustRuleClass("go_library",
		NewAttribute("tags", TypeStringList).MustBuild(),
		NewAttribute("deps", TypeLabelList).MustBuild(),
		NewAttribute("srcs", TypeLabelList).MustBuild(),
	)
	attrs := rc.Attributes()
	require.Len(t, attrs, 3)
	assert.Equal(t, "deps", attrs[0].Name())
	assert.Equal(t, "srcs", attrs[1].Name())
	assert.Equal(t, "tags", attrs[2].Name())
}

func TestValidateReservedTypes(t *testing.T) {
	rc := MustRuleClass("go_library",
		NewAttribute("tags", TypeLabelList).MustBuild(),
	)
	err := rc.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "attribute tags must be of type string_list, not label_list")
}

func TestValidateTestClass(t *testing.T) {
	err := MustRuleClass("go_test").Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must declare a tags attribute")
	assert.Contains(t, err.Error(), "must declare a size attribute")

	err = MustRuleClass("go_test",
		NewAttribute("tags", TypeStringList).MustBuild(),
		NewAttribute("size", TypeString).MustBuild(),
	).Validate()
	assert.NoError(t, err)
}

func TestValidateSuiteClass(t *testing.T) {
	err := MustRuleClass("test_suite",
		NewAttribute("tests", TypeLabelList).MustBuild(),
	).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "must declare a tags attribute")
	assert.Contains(t, err.Error(), "must declare a $implicit_tests attribute")

	err = MustRuleClass("test_suite",
		NewAttribute("tests", TypeLabelList).MustBuild(),
		NewAttribute("tags", TypeStringList).MustBuild(),
		NewAttribute("$implicit_tests", TypeLabelList).MustBuild(),
	).Validate()
	assert.NoError(t, err)
}

func TestClassKinds(t *testing.T) {
	assert.True(t, MustRuleClass("go_test").IsTest())
	assert.False(t, MustRuleClass("go_library").IsTest())
	assert.True(t, MustRuleClass("test_suite").IsTestSuite())
	assert.False(t, MustRuleClass("go_test").IsTestSuite())
}
