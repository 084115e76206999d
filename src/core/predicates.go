package core

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// A RuleClassPredicate determines whether a rule class is acceptable as the
// referent of a label attribute.
type RuleClassPredicate func(*RuleClass) bool

// AnyRule accepts every rule class.
var AnyRule RuleClassPredicate = func(*RuleClass) bool { return true }

// NoRule rejects every rule class.
var NoRule RuleClassPredicate = func(*RuleClass) bool { return false }

// RuleClassNames returns a predicate accepting exactly the named rule classes.
func RuleClassNames(names ...string) RuleClassPredicate {
	return func(rc *RuleClass) bool {
		return rc != nil && slices.Contains(names, rc.Name)
	}
}

// A ValidityPredicate checks whether an edge between two rules over some
// attribute is acceptable in the dependency graph. It returns an empty string
// if the edge is valid, or a suitable error message if it is not.
type ValidityPredicate func(from, to *Rule) string

// AnyEdge accepts every edge.
var AnyEdge ValidityPredicate = func(from, to *Rule) string { return "" }

// A ValueSet restricts an attribute's resolved value to an enumerated set,
// and can explain itself when a value is rejected.
type ValueSet struct {
	values []interface{}
}

// NewValueSet creates a new value set. It panics if no values are given since
// an empty set would reject everything, which is never what's wanted.
func NewValueSet(values ...interface{}) *ValueSet {
	if len(values) == 0 {
		panic("Attempted to create an empty attribute value set")
	}
	return &ValueSet{values: values}
}

// Matches returns true if the given value is one of the allowed ones.
func (vs *ValueSet) Matches(value interface{}) bool {
	for _, v := range vs.values {
		if v == value {
			return true
		}
	}
	return false
}

// ErrorReason describes why the given value was rejected.
func (vs *ValueSet) ErrorReason(value interface{}) string {
	quoted := make([]string, len(vs.values))
	for i, v := range vs.values {
		quoted[i] = fmt.Sprintf("'%v'", v)
	}
	allowed := quoted[0]
	if len(quoted) > 1 {
		allowed = strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
	}
	return fmt.Sprintf("has to be one of %s instead of '%v'", allowed, value)
}

// Values returns a copy of the allowed values.
func (vs *ValueSet) Values() []interface{} {
	return slices.Clone(vs.values)
}

// A FileTypeSet describes the file extensions acceptable for file-valued
// labels of an attribute. The zero value accepts no files.
type FileTypeSet struct {
	extensions []string
	anyFile    bool
}

// AnyFile accepts every file.
var AnyFile = FileTypeSet{anyFile: true}

// NoFile accepts no files at all.
var NoFile = FileTypeSet{}

// FileTypes returns a set accepting exactly the given extensions (including the dot, eg. ".go").
func FileTypes(extensions ...string) FileTypeSet {
	return FileTypeSet{extensions: extensions}
}

// Matches returns true if the given filename is acceptable to this set.
func (fts FileTypeSet) Matches(filename string) bool {
	if fts.anyFile {
		return true
	}
	for _, ext := range fts.extensions {
		if strings.HasSuffix(filename, ext) {
			return true
		}
	}
	return false
}
