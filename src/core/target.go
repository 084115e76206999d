package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// A Location is the position of a declaration in a build file, for diagnostics.
type Location struct {
	File string
	Line int
}

// String returns the usual file:line representation. Zero lines are omitted.
func (loc Location) String() string {
	if loc.Line == 0 {
		return loc.File
	}
	return fmt.Sprintf("%s:%d", loc.File, loc.Line)
}

// IsZero returns true if this location carries no information.
func (loc Location) IsZero() bool {
	return loc.File == "" && loc.Line == 0
}

// A Target is anything in a package that a label can refer to. It's a closed
// set of three kinds: rules, input files and output files. Code that needs to
// know which kind it has type-switches over *Rule / *InputFile / *OutputFile;
// capability helpers below cover the common queries.
type Target interface {
	// Label is the identifier of this target.
	Label() BuildLabel
	// Location is where the target was declared (or for files, first referenced).
	Location() Location
	// isTarget keeps the set of implementations closed.
	isTarget()
}

// A Rule is an instance of a rule class: a target with attributes.
type Rule struct {
	label    BuildLabel
	class    *RuleClass
	location Location
	values   map[string]interface{}
}

// NewRule creates a rule of the given class. No attributes are declared yet.
func NewRule(label BuildLabel, class *RuleClass, location Location) *Rule {
	return &Rule{
		label:    label,
		class:    class,
		location: location,
		values:   map[string]interface{}{},
	}
}

// Label implements the Target interface.
func (r *Rule) Label() BuildLabel { return r.label }

// Location implements the Target interface.
func (r *Rule) Location() Location { return r.location }

func (r *Rule) isTarget() {}

// Class returns the rule's class.
func (r *Rule) Class() *RuleClass { return r.class }

// SetAttr declares an explicit value for an attribute. It errors if the class
// doesn't have the attribute, the value doesn't conform to its type, or the
// value falls outside the attribute's allowed set.
func (r *Rule) SetAttr(name string, value interface{}) error {
	a := r.class.Attribute(name)
	if a == nil {
		return fmt.Errorf("rule class %s has no attribute %s", r.class.Name, name)
	} else if !a.Type().CheckValue(value) {
		return fmt.Errorf("value for attribute %s of %s does not conform to type %s", name, r.label, a.Type())
	} else if a.IsNonEmpty() {
		if l, ok := value.([]string); ok && len(l) == 0 {
			return fmt.Errorf("attribute %s of %s must not be empty", name, r.label)
		} else if l, ok := value.([]BuildLabel); ok && len(l) == 0 {
			return fmt.Errorf("attribute %s of %s must not be empty", name, r.label)
		}
	}
	if a.ChecksAllowedValues() && !a.AllowedValues().Matches(value) {
		return fmt.Errorf("attribute %s of %s %s", name, r.label, a.AllowedValues().ErrorReason(value))
	}
	r.values[name] = value
	return nil
}

// IsAttrSet returns true if an explicit value was declared for the attribute.
func (r *Rule) IsAttrSet(name string) bool {
	_, present := r.values[name]
	return present
}

// Attrs returns a typed read-only view over this rule's attributes; values not
// explicitly declared resolve to the attribute's default.
func (r *Rule) Attrs() AttrView {
	return ruleAttrView{rule: r}
}

// Tags returns the rule's tags, or nil if its class doesn't carry any.
func (r *Rule) Tags() []string {
	tags, err := StringListValue(r.Attrs(), "tags")
	if err != nil {
		return nil
	}
	return tags
}

// String is a convenience for debugging output.
func (r *Rule) String() string {
	return fmt.Sprintf("%s rule %s", r.class.Name, r.label)
}

// An InputFile is a source file belonging to a package.
type InputFile struct {
	label    BuildLabel
	location Location
}

// NewInputFile creates a new input file target.
func NewInputFile(label BuildLabel, location Location) *InputFile {
	return &InputFile{label: label, location: location}
}

// Label implements the Target interface.
func (f *InputFile) Label() BuildLabel { return f.label }

// Location implements the Target interface.
func (f *InputFile) Location() Location { return f.location }

func (f *InputFile) isTarget() {}

// An OutputFile is a file generated by some rule.
type OutputFile struct {
	label    BuildLabel
	location Location
	// GeneratedBy is the label of the rule that produces this file.
	GeneratedBy BuildLabel
}

// NewOutputFile creates a new output file target.
func NewOutputFile(label BuildLabel, location Location, generatedBy BuildLabel) *OutputFile {
	return &OutputFile{label: label, location: location, GeneratedBy: generatedBy}
}

// Label implements the Target interface.
func (f *OutputFile) Label() BuildLabel { return f.label }

// Location implements the Target interface.
func (f *OutputFile) Location() Location { return f.location }

func (f *OutputFile) isTarget() {}

// IsTestRule returns true if the target is a concrete test rule.
func IsTestRule(t Target) bool {
	r, ok := t.(*Rule)
	return ok && r.class.IsTest()
}

// IsTestSuiteRule returns true if the target is a suite aggregating other tests.
func IsTestSuiteRule(t Target) bool {
	r, ok := t.(*Rule)
	return ok && r.class.IsTestSuite()
}

// RuleLanguage returns the language of a rule, ie. its class name with any
// trailing "_test" stripped. File targets have no language.
func RuleLanguage(t Target) string {
	if r, ok := t.(*Rule); ok {
		return strings.TrimSuffix(r.class.Name, "_test")
	}
	return ""
}

// A TargetProvider resolves a label to its target, loading the owning package
// on demand if needed; such a call may therefore block. Failures are either a
// NotFoundError (recoverable, at callers' discretion) or a context
// cancellation (always fatal). Package-loading diagnostics go to the handler.
type TargetProvider interface {
	GetTarget(ctx context.Context, events EventHandler, label BuildLabel) (Target, error)
}

// A NotFoundError means a label did not resolve to any target.
type NotFoundError struct {
	Label BuildLabel
	// Suggestion optionally names similar labels that do exist.
	Suggestion string
}

// Error implements the error interface.
func (err *NotFoundError) Error() string {
	return fmt.Sprintf("target %s not found%s", err.Label, err.Suggestion)
}

// IsNotFound returns true if the given error indicates a label that failed to resolve.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
