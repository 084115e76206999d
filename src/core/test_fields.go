package core

import (
	"fmt"
	"time"
)

// A TestSize describes how heavyweight a test is. Sizes imply a default
// timeout and can be filtered on; a test's size also joins its tag set when
// suites filter their members.
type TestSize int

const (
	unknownTestSize TestSize = iota
	// TestSizeSmall is a small test.
	TestSizeSmall
	// TestSizeMedium is a medium test; the default when nothing is declared.
	TestSizeMedium
	// TestSizeLarge is a large test.
	TestSizeLarge
	// TestSizeEnormous is the largest kind of test.
	TestSizeEnormous
)

// String returns the lowercase name of this size as declared in build files.
func (size TestSize) String() string {
	switch size {
	case TestSizeSmall:
		return "small"
	case TestSizeMedium:
		return "medium"
	case TestSizeLarge:
		return "large"
	case TestSizeEnormous:
		return "enormous"
	}
	return "unknown"
}

// ParseTestSize parses a test size from its name.
func ParseTestSize(name string) (TestSize, error) {
	for _, size := range []TestSize{TestSizeSmall, TestSizeMedium, TestSizeLarge, TestSizeEnormous} {
		if size.String() == name {
			return size, nil
		}
	}
	return unknownTestSize, fmt.Errorf("unknown test size: %s", name)
}

// DefaultTimeout returns the timeout applied to tests of this size when they
// don't declare one.
func (size TestSize) DefaultTimeout() TestTimeout {
	switch size {
	case TestSizeSmall:
		return TestTimeoutShort
	case TestSizeLarge:
		return TestTimeoutLong
	case TestSizeEnormous:
		return TestTimeoutEternal
	}
	return TestTimeoutModerate
}

// UnmarshalFlag unmarshals a test size from a command line flag. Implements flags.Unmarshaler interface.
func (size *TestSize) UnmarshalFlag(value string) error {
	s, err := ParseTestSize(value)
	if err != nil {
		return err
	}
	*size = s
	return nil
}

// A TestTimeout is the coarse-grained timeout category of a test.
type TestTimeout int

const (
	unknownTestTimeout TestTimeout = iota
	// TestTimeoutShort allows a minute.
	TestTimeoutShort
	// TestTimeoutModerate allows five minutes.
	TestTimeoutModerate
	// TestTimeoutLong allows fifteen minutes.
	TestTimeoutLong
	// TestTimeoutEternal allows an hour.
	TestTimeoutEternal
)

// String returns the lowercase name of this timeout as declared in build files.
func (timeout TestTimeout) String() string {
	switch timeout {
	case TestTimeoutShort:
		return "short"
	case TestTimeoutModerate:
		return "moderate"
	case TestTimeoutLong:
		return "long"
	case TestTimeoutEternal:
		return "eternal"
	}
	return "unknown"
}

// Duration returns the actual length of time this timeout allows.
func (timeout TestTimeout) Duration() time.Duration {
	switch timeout {
	case TestTimeoutShort:
		return 60 * time.Second
	case TestTimeoutLong:
		return 900 * time.Second
	case TestTimeoutEternal:
		return 3600 * time.Second
	}
	return 300 * time.Second
}

// ParseTestTimeout parses a test timeout from its name.
func ParseTestTimeout(name string) (TestTimeout, error) {
	for _, timeout := range []TestTimeout{TestTimeoutShort, TestTimeoutModerate, TestTimeoutLong, TestTimeoutEternal} {
		if timeout.String() == name {
			return timeout, nil
		}
	}
	return unknownTestTimeout, fmt.Errorf("unknown test timeout: %s", name)
}

// UnmarshalFlag unmarshals a test timeout from a command line flag. Implements flags.Unmarshaler interface.
func (timeout *TestTimeout) UnmarshalFlag(value string) error {
	t, err := ParseTestTimeout(value)
	if err != nil {
		return err
	}
	*timeout = t
	return nil
}

// TestSizeOf returns the size of a test rule: its declared size, or its rule
// class's default when it doesn't declare one.
func TestSizeOf(r *Rule) TestSize {
	if declared, err := StringValue(r.Attrs(), "size"); err == nil && declared != "" {
		if size, err := ParseTestSize(declared); err == nil {
			return size
		}
	}
	if r.Class().DefaultTestSize != unknownTestSize {
		return r.Class().DefaultTestSize
	}
	return TestSizeMedium
}

// TestTimeoutOf returns the timeout of a test rule: its declared timeout, or
// the default implied by its size.
func TestTimeoutOf(r *Rule) TestTimeout {
	if declared, err := StringValue(r.Attrs(), "timeout"); err == nil && declared != "" {
		if timeout, err := ParseTestTimeout(declared); err == nil {
			return timeout
		}
	}
	return TestSizeOf(r).DefaultTimeout()
}
