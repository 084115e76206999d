package core

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/exp/slices"
)

// Attribute names with a reserved meaning and the type each must have if a
// rule class declares them.
var reservedAttrTypes = map[string]AttrType{
	"tags":            TypeStringList,
	"size":            TypeString,
	"timeout":         TypeString,
	"flaky":           TypeBool,
	"tests":           TypeLabelList,
	"suites":          TypeLabelList,
	"$implicit_tests": TypeLabelList,
}

// A RuleClass is the named schema shared by all rules of one kind: the set of
// attributes they may declare. Classes are immutable after construction.
type RuleClass struct {
	// Name of the rule class, eg. "go_test".
	Name string
	// DefaultTestSize is the size assumed for tests of this class that don't
	// declare one. The zero value means the usual default (medium).
	DefaultTestSize TestSize
	attrs           map[string]*Attribute
}

// NewRuleClass creates a rule class from the given attributes.
// It errors on a duplicate attribute name.
func NewRuleClass(name string, attrs ...*Attribute) (*RuleClass, error) {
	rc := &RuleClass{
		Name:  name,
		attrs: make(map[string]*Attribute, len(attrs)),
	}
	for _, a := range attrs {
		if _, present := rc.attrs[a.Name()]; present {
			return nil, fmt.Errorf("duplicate attribute %s in rule class %s", a.Name(), name)
		}
		rc.attrs[a.Name()] = a
	}
	return rc, nil
}

// MustRuleClass is like NewRuleClass but panics on error; it's for statically
// defined classes.
func MustRuleClass(name string, attrs ...*Attribute) *RuleClass {
	rc, err := NewRuleClass(name, attrs...)
	if err != nil {
		panic(err)
	}
	return rc
}

// Attribute returns the named attribute, or nil if the class doesn't have it.
func (rc *RuleClass) Attribute(name string) *Attribute {
	return rc.attrs[name]
}

// HasAttribute returns true if the class declares the named attribute with the given type.
func (rc *RuleClass) HasAttribute(name string, typ AttrType) bool {
	a := rc.attrs[name]
	return a != nil && a.Type() == typ
}

// Attributes returns the class's attributes, ordered by name.
func (rc *RuleClass) Attributes() []*Attribute {
	ret := make([]*Attribute, 0, len(rc.attrs))
	for _, a := range rc.attrs {
		ret = append(ret, a)
	}
	slices.SortFunc(ret, func(a, b *Attribute) bool { return a.CompareTo(b) < 0 })
	return ret
}

// AttributeNames returns the names of the class's attributes, sorted.
func (rc *RuleClass) AttributeNames() []string {
	ret := make([]string, 0, len(rc.attrs))
	for name := range rc.attrs {
		ret = append(ret, name)
	}
	slices.Sort(ret)
	return ret
}

// IsTest returns true if rules of this class are concrete tests.
func (rc *RuleClass) IsTest() bool {
	return strings.HasSuffix(rc.Name, "_test")
}

// IsTestSuite returns true if rules of this class aggregate other tests.
func (rc *RuleClass) IsTestSuite() bool {
	return rc.Name == "test_suite"
}

// Validate checks the class's attribute set for problems beyond what each
// attribute's own builder can see, and reports all of them together:
// reserved attribute names declared with the wrong type, and test-like
// classes missing the attributes the test machinery reads.
func (rc *RuleClass) Validate() error {
	var errs *multierror.Error
	for name, a := range rc.attrs {
		if typ, reserved := reservedAttrTypes[name]; reserved && a.Type() != typ {
			errs = multierror.Append(errs, fmt.Errorf("rule class %s: attribute %s must be of type %s, not %s", rc.Name, name, typ, a.Type()))
		}
	}
	if rc.IsTest() {
		for _, required := range []string{"tags", "size"} {
			if rc.attrs[required] == nil {
				errs = multierror.Append(errs, fmt.Errorf("rule class %s: test classes must declare a %s attribute", rc.Name, required))
			}
		}
	}
	if rc.IsTestSuite() {
		for _, required := range []string{"tests", "tags", "$implicit_tests"} {
			if rc.attrs[required] == nil {
				errs = multierror.Append(errs, fmt.Errorf("rule class %s: suite classes must declare a %s attribute", rc.Name, required))
			}
		}
	}
	return errs.ErrorOrNil()
}
