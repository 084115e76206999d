package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAbsoluteLabel(t *testing.T) {
	label, err := TryParseBuildLabel("//src/core:core_test")
	assert.NoError(t, err)
	assert.Equal(t, "src/core", label.PackageName)
	assert.Equal(t, "core_test", label.Name)
}

func TestParseImplicitTargetName(t *testing.T) {
	label, err := TryParseBuildLabel("//src/core")
	assert.NoError(t, err)
	assert.Equal(t, "src/core", label.PackageName)
	assert.Equal(t, "core", label.Name)
	label, err = TryParseBuildLabel("//core")
	assert.NoError(t, err)
	assert.Equal(t, "core", label.PackageName)
	assert.Equal(t, "core", label.Name)
}

func TestParseRootPackage(t *testing.T) {
	label, err := TryParseBuildLabel("//:all_tests")
	assert.NoError(t, err)
	assert.Equal(t, "", label.PackageName)
	assert.Equal(t, "all_tests", label.Name)
}

func TestParseInvalidLabels(t *testing.T) {
	for _, s := range []string{"", "//", "src/core:core", ":core", "//src/core:", "//src core:x"} {
		_, err := TryParseBuildLabel(s)
		assert.Error(t, err, "expected %s not to parse", s)
	}
}

func TestLabelString(t *testing.T) {
	label := BuildLabel{PackageName: "src/core", Name: "core"}
	assert.Equal(t, "//src/core:core", label.String())
}

func TestLabelOrdering(t *testing.T) {
	a := BuildLabel{PackageName: "src/core", Name: "a"}
	b := BuildLabel{PackageName: "src/core", Name: "b"}
	c := BuildLabel{PackageName: "src/graph", Name: "a"}
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestLabelUnmarshalFlag(t *testing.T) {
	var label BuildLabel
	assert.NoError(t, label.UnmarshalFlag("//src/core:core"))
	assert.Equal(t, "src/core", label.PackageName)
	assert.Equal(t, "core", label.Name)
	assert.Error(t, label.UnmarshalFlag("not a label"))
}

func TestLabelMarshalRoundtrip(t *testing.T) {
	label := BuildLabel{PackageName: "src/core", Name: "core"}
	b, err := label.MarshalText()
	assert.NoError(t, err)
	var label2 BuildLabel
	assert.NoError(t, label2.UnmarshalText(b))
	assert.Equal(t, label, label2)
}
