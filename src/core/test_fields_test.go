package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTestSizes(t *testing.T) {
	size, err := ParseTestSize("small")
	assert.NoError(t, err)
	assert.Equal(t, TestSizeSmall, size)
	_, err = ParseTestSize("humongous")
	assert.Error(t, err)
}

func TestSizeDefaultTimeouts(t *testing.T) {
	assert.Equal(t, TestTimeoutShort, TestSizeSmall.DefaultTimeout())
	assert.Equal(t, TestTimeoutModerate, TestSizeMedium.DefaultTimeout())
	assert.Equal(t, TestTimeoutLong, TestSizeLarge.DefaultTimeout())
	assert.Equal(t, TestTimeoutEternal, TestSizeEnormous.DefaultTimeout())
}

func TestTimeoutDurations(t *testing.T) {
	assert.Equal(t, 60*time.Second, TestTimeoutShort.Duration())
	assert.Equal(t, 300*time.Second, TestTimeoutModerate.Duration())
	assert.Equal(t, 900*time.Second, TestTimeoutLong.Duration())
	assert.Equal(t, 3600*time.Second, TestTimeoutEternal.Duration())
}

func TestSizeUnmarshalFlag(t *testing.T) {
	var size TestSize
	assert.NoError(t, size.UnmarshalFlag("enormous"))
	assert.Equal(t, TestSizeEnormous, size)
	assert.Error(t, size.UnmarshalFlag("tiny"))
}

func TestTimeoutUnmarshalFlag(t *testing.T) {
	var timeout TestTimeout
	assert.NoError(t, timeout.UnmarshalFlag("eternal"))
	assert.Equal(t, TestTimeoutEternal, timeout)
	assert.Error(t, timeout.UnmarshalFlag("forever"))
}

func TestSizeOfRule(t *testing.T) {
	r := newTestRule(t, "core_test")
	// Nothing declared; the class default wins.
	assert.Equal(t, TestSizeMedium, TestSizeOf(r))
	require.NoError(t, r.SetAttr("size", "large"))
	assert.Equal(t, TestSizeLarge, TestSizeOf(r))
}

func TestTimeoutOfRule(t *testing.T) {
	r := newTestRule(t, "core_test")
	assert.Equal(t, TestTimeoutModerate, TestTimeoutOf(r))
	require.NoError(t, r.SetAttr("size", "enormous"))
	assert.Equal(t, TestTimeoutEternal, TestTimeoutOf(r))
	require.NoError(t, r.SetAttr("timeout", "short"))
	assert.Equal(t, TestTimeoutShort, TestTimeoutOf(r))
}
