package core

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("core")

// A BuildLabel is an identifier of a build target, eg. //spam/eggs:ham
// corresponds to BuildLabel{PackageName: "spam/eggs", Name: "ham"}.
// BuildLabels are always absolute; there is implicit expansion of the final
// element so //spam/eggs is equivalent to //spam/eggs:eggs.
type BuildLabel struct {
	PackageName string
	Name        string
}

// This is a little strict; doesn't allow for non-ascii names, for example.
const packagePart = "[A-Za-z0-9\\._\\+-]+"
const packageName = "(" + packagePart + "(?:/" + packagePart + ")*)"
const targetName = "([A-Za-z0-9\\._\\+-]+(?:#[A-Za-z0-9_\\+-]+)*)"

// Fully specified labels, e.g. //src/core:core
var absoluteTarget = regexp.MustCompile(fmt.Sprintf("^//(?:%s)?:%s$", packageName, targetName))

// Labels with an implicit target name, e.g. //src/core (expands to //src/core:core)
var implicitTarget = regexp.MustCompile(fmt.Sprintf("^//(?:%s/)?(%s)$", packageName, packagePart))

// NewBuildLabel constructs a label directly from a package & target name.
func NewBuildLabel(pkgName, name string) BuildLabel {
	return BuildLabel{PackageName: pkgName, Name: name}
}

// TryParseBuildLabel attempts to parse a single build label from a string.
// Only absolute labels are accepted; relative forms require package context
// which this library doesn't have.
func TryParseBuildLabel(target string) (BuildLabel, error) {
	if matches := absoluteTarget.FindStringSubmatch(target); matches != nil {
		return BuildLabel{PackageName: matches[1], Name: matches[2]}, nil
	} else if matches := implicitTarget.FindStringSubmatch(target); matches != nil {
		if matches[1] != "" {
			return BuildLabel{PackageName: matches[1] + "/" + matches[2], Name: matches[2]}, nil
		}
		return BuildLabel{PackageName: matches[2], Name: matches[2]}, nil
	}
	return BuildLabel{}, fmt.Errorf("invalid build label: %s", target)
}

// ParseBuildLabel parses a single build label from a string. Dies on failure.
func ParseBuildLabel(target string) BuildLabel {
	label, err := TryParseBuildLabel(target)
	if err != nil {
		log.Fatalf("%s", err)
	}
	return label
}

// String returns the standard //package:name representation of this label.
func (label BuildLabel) String() string {
	return "//" + label.PackageName + ":" + label.Name
}

// IsEmpty returns true if this is the zero build label.
func (label BuildLabel) IsEmpty() bool {
	return label.PackageName == "" && label.Name == ""
}

// Compare compares this label to another one, ordering by package then name.
func (label BuildLabel) Compare(other BuildLabel) int {
	if c := strings.Compare(label.PackageName, other.PackageName); c != 0 {
		return c
	}
	return strings.Compare(label.Name, other.Name)
}

// Less returns true if this build label is less than another.
func (label BuildLabel) Less(other BuildLabel) bool {
	return label.Compare(other) < 0
}

// UnmarshalFlag unmarshals a build label from a command line flag. Implements flags.Unmarshaler interface.
func (label *BuildLabel) UnmarshalFlag(value string) error {
	l, err := TryParseBuildLabel(value)
	if err != nil {
		return err
	}
	*label = l
	return nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// This is used by JSON decoding among others.
func (label *BuildLabel) UnmarshalText(text []byte) error {
	return label.UnmarshalFlag(string(text))
}

// MarshalText implements the encoding.TextMarshaler interface.
func (label BuildLabel) MarshalText() ([]byte, error) {
	return []byte(label.String()), nil
}
