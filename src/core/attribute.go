package core

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// An AttrFlag is one of the closed set of boolean traits an attribute may carry.
type AttrFlag uint32

const (
	// AttrMandatory means a value must be explicitly declared for the attribute.
	AttrMandatory AttrFlag = 1 << iota
	// AttrNonEmpty means a list attribute may not be declared as the empty list.
	AttrNonEmpty
	// AttrSingleArtifact means each referenced rule must produce exactly one artifact.
	AttrSingleArtifact
	// AttrOrderIndependent means a list attribute's order is irrelevant and it can be sorted.
	AttrOrderIndependent
	// AttrUndocumented excludes the attribute from generated documentation.
	// It's set automatically for implicit and late-bound attributes.
	AttrUndocumented
	// AttrTaggable publishes the attribute's value to the rule's tag set.
	AttrTaggable
	// AttrNonconfigurable opts the attribute out of having its value vary with
	// the build configuration.
	AttrNonconfigurable
	// AttrStrictLabelChecking means custom rule class / file type restrictions
	// were supplied and the stricter label checks apply.
	AttrStrictLabelChecking
	// AttrDirectCompileTimeInput marks attributes (like srcs) whose inputs feed
	// a compile-like action directly.
	AttrDirectCompileTimeInput
	// AttrSilentRuleClassFilter silently drops referenced targets whose rule
	// class is disallowed rather than erroring. Introduced for plugins; avoid.
	AttrSilentRuleClassFilter
	// AttrSkipFileTypeCheck skips the file type check on generated files. Avoid.
	AttrSkipFileTypeCheck
	// AttrCheckAllowedValues restricts the resolved value to an enumerated set.
	AttrCheckAllowedValues
)

// A ConfigTransition declares how the build configuration changes when
// following a label attribute to its referent.
type ConfigTransition int

const (
	// NoTransition keeps the original configuration.
	NoTransition ConfigTransition = iota
	// HostTransition switches to the host configuration.
	HostTransition
	// DataTransition switches from the target configuration to the data configuration.
	DataTransition
)

// A Configurator allows a rule to set the configuration of a dependency
// reached through this attribute during the analysis phase. Configurations
// are opaque to this library.
type Configurator func(from *Rule, fromConfig interface{}, to Target) interface{}

// A SchemaError describes an invalid attribute schema. They're always raised
// at construction time and are never recoverable; an attribute either builds
// or it doesn't.
type SchemaError struct {
	Attr  string // Name of the offending attribute
	Field string // Name of the field that was set twice, if that's the problem
	Msg   string
}

// Error implements the error interface.
func (err *SchemaError) Error() string {
	if err.Field != "" {
		return fmt.Sprintf("attribute %s: %s is already set", err.Attr, err.Field)
	}
	return fmt.Sprintf("attribute %s: %s", err.Attr, err.Msg)
}

// IsImplicitAttribute returns true if an attribute of the given name is an
// implicit dependency per the naming policy (a leading '$').
func IsImplicitAttribute(name string) bool {
	return strings.HasPrefix(name, "$")
}

// IsLateBoundAttribute returns true if an attribute of the given name is
// late-bound per the naming policy (a leading ':').
func IsLateBoundAttribute(name string) bool {
	return strings.HasPrefix(name, ":")
}

// An Attribute is the metadata of one rule attribute: its name, semantic type,
// flags, default and the constraints on what it may reference. Attributes are
// immutable once built and may be freely shared between rule classes (for
// example foo_binary and foo_library have many attributes in common).
type Attribute struct {
	name                      string
	typ                       AttrType
	flags                     AttrFlag
	def                       DefaultValue
	condition                 func(AttrView) bool
	transition                ConfigTransition
	configurator              Configurator
	allowedRuleClasses        RuleClassPredicate
	allowedRuleClassesWarning RuleClassPredicate
	allowedFileTypes          FileTypeSet
	validity                  ValidityPredicate
	allowedValues             *ValueSet
	setFields                 map[string]bool
}

// Name returns the name of this attribute.
func (a *Attribute) Name() string { return a.name }

// Type returns the semantic type of this attribute.
func (a *Attribute) Type() AttrType { return a.typ }

// HasFlag returns true if this attribute carries the given flag.
func (a *Attribute) HasFlag(flag AttrFlag) bool { return a.flags&flag != 0 }

// IsMandatory returns true if a value must be declared for this attribute.
func (a *Attribute) IsMandatory() bool { return a.HasFlag(AttrMandatory) }

// IsNonEmpty returns true if this list attribute can't be declared empty.
func (a *Attribute) IsNonEmpty() bool { return a.HasFlag(AttrNonEmpty) }

// IsSingleArtifact returns true if referents of this attribute must produce a single artifact.
func (a *Attribute) IsSingleArtifact() bool { return a.HasFlag(AttrSingleArtifact) }

// IsOrderIndependent returns true if this list attribute can be sorted.
func (a *Attribute) IsOrderIndependent() bool { return a.HasFlag(AttrOrderIndependent) }

// IsDocumented returns true if this attribute appears in generated documentation.
func (a *Attribute) IsDocumented() bool { return !a.HasFlag(AttrUndocumented) }

// IsTaggable returns true if this attribute's value joins the rule's tag set.
func (a *Attribute) IsTaggable() bool { return a.HasFlag(AttrTaggable) }

// IsConfigurable returns true if this attribute's value may vary with the build configuration.
func (a *Attribute) IsConfigurable() bool { return !a.HasFlag(AttrNonconfigurable) }

// IsStrictLabelChecking returns true if custom label restrictions were supplied.
func (a *Attribute) IsStrictLabelChecking() bool { return a.HasFlag(AttrStrictLabelChecking) }

// IsDirectCompileTimeInput returns true if this attribute's inputs feed a compile directly.
func (a *Attribute) IsDirectCompileTimeInput() bool { return a.HasFlag(AttrDirectCompileTimeInput) }

// IsSilentRuleClassFilter returns true if disallowed referents are dropped silently.
func (a *Attribute) IsSilentRuleClassFilter() bool { return a.HasFlag(AttrSilentRuleClassFilter) }

// IsSkipFileTypeCheck returns true if the file type check is skipped for generated files.
func (a *Attribute) IsSkipFileTypeCheck() bool { return a.HasFlag(AttrSkipFileTypeCheck) }

// ChecksAllowedValues returns true if the resolved value must come from an enumerated set.
func (a *Attribute) ChecksAllowedValues() bool { return a.HasFlag(AttrCheckAllowedValues) }

// IsImplicit returns true if this is an implicit attribute ('$' prefix).
func (a *Attribute) IsImplicit() bool { return IsImplicitAttribute(a.name) }

// IsLateBoundName returns true if this attribute's name carries the late-bound sigil.
func (a *Attribute) IsLateBoundName() bool { return IsLateBoundAttribute(a.name) }

// Transition returns the configuration transition applied when following this attribute.
func (a *Attribute) Transition() ConfigTransition { return a.transition }

// GetConfigurator returns the configurator callback, or nil if there isn't one.
func (a *Attribute) GetConfigurator() Configurator { return a.configurator }

// AllowedRuleClasses returns the predicate over referenced rules' classes.
func (a *Attribute) AllowedRuleClasses() RuleClassPredicate { return a.allowedRuleClasses }

// AllowedRuleClassesWarning returns the predicate over referenced rules'
// classes that produces a warning rather than an error.
func (a *Attribute) AllowedRuleClassesWarning() RuleClassPredicate {
	return a.allowedRuleClassesWarning
}

// AllowedFileTypes returns the set of file types acceptable for file-valued labels.
func (a *Attribute) AllowedFileTypes() FileTypeSet { return a.allowedFileTypes }

// Validity returns the edge validity predicate for this attribute.
func (a *Attribute) Validity() ValidityPredicate { return a.validity }

// AllowedValues returns the enumerated value restriction, or nil if there isn't one.
func (a *Attribute) AllowedValues() *ValueSet { return a.allowedValues }

// HasComputedDefault returns true if this attribute's default is computed from
// its siblings or gated by a condition, i.e. resolving it needs an AttrView.
func (a *Attribute) HasComputedDefault() bool {
	_, computed := a.def.(ComputedDefault)
	return computed || a.condition != nil
}

// LateBound returns the late-bound default and true if this attribute has one.
func (a *Attribute) LateBound() (LateBoundDefault, bool) {
	lb, ok := a.def.(LateBoundDefault)
	return lb, ok
}

// DefaultValue resolves the default value of this attribute in the context of
// the given rule's attributes. The view must be non-nil for attributes with a
// computed default; passing nil there is a programming error. Late-bound
// attributes resolve to their loading-phase stand-in; the configured value is
// produced separately during analysis via LateBound().
func (a *Attribute) DefaultValue(view AttrView) interface{} {
	if a.condition != nil && !a.condition(view) {
		return a.typ.ZeroValue()
	}
	switch def := a.def.(type) {
	case ConstantDefault:
		return def.Value
	case ComputedDefault:
		if view == nil {
			panic(fmt.Sprintf("computed default of attribute %s resolved without a rule", a.name))
		}
		return def(view)
	case LateBoundDefault:
		return def.LoadingValue
	}
	return a.typ.ZeroValue()
}

// String is a convenience for debugging output.
func (a *Attribute) String() string {
	return fmt.Sprintf("Attribute(%s, %s)", a.name, a.typ)
}

// CompareTo compares attributes by name, for stable ordering.
func (a *Attribute) CompareTo(other *Attribute) int {
	return strings.Compare(a.name, other.name)
}

// CloneBuilder returns a builder pre-populated with every field of this
// attribute except its default value, enabling derived schemas that only
// override the default.
func (a *Attribute) CloneBuilder() *AttributeBuilder {
	b := NewAttribute(a.name, a.typ)
	b.attr = *a
	b.attr.def = nil
	b.set = make(map[string]bool, len(a.setFields))
	for field := range a.setFields {
		b.set[field] = true
	}
	delete(b.set, "default")
	return b
}

// An AttributeBuilder builds immutable Attributes. All of its methods may be
// called at most once; a second call records a SchemaError which Build returns.
// Invariant violations (eg. NonEmpty on a non-list attribute) are likewise
// recorded rather than panicking, so that every problem with a schema is
// reported together.
type AttributeBuilder struct {
	attr Attribute
	set  map[string]bool
	errs *multierror.Error
}

// NewAttribute starts building an attribute with the given name and type.
// The attribute is optional, keeps the original configuration and defaults to
// its type's empty value. Implicit ('$') and late-bound (':') attributes are
// automatically undocumented.
func NewAttribute(name string, typ AttrType) *AttributeBuilder {
	b := &AttributeBuilder{
		attr: Attribute{
			name:                      name,
			typ:                       typ,
			allowedRuleClasses:        AnyRule,
			allowedRuleClassesWarning: NoRule,
			allowedFileTypes:          AnyFile,
			validity:                  AnyEdge,
		},
		set: map[string]bool{},
	}
	if IsImplicitAttribute(name) || IsLateBoundAttribute(name) {
		b.attr.flags |= AttrUndocumented
		b.set["undocumented"] = true
	}
	return b
}

// errorf records a schema error against this builder.
func (b *AttributeBuilder) errorf(format string, args ...interface{}) {
	b.errs = multierror.Append(b.errs, &SchemaError{Attr: b.attr.name, Msg: fmt.Sprintf(format, args...)})
}

// once marks the given field as set, recording an error if it already was.
// It returns true if this was the first time.
func (b *AttributeBuilder) once(field string) bool {
	if b.set[field] {
		b.errs = multierror.Append(b.errs, &SchemaError{Attr: b.attr.name, Field: field})
		return false
	}
	b.set[field] = true
	return true
}

// setFlag sets a single property flag, enforcing single-shot semantics.
func (b *AttributeBuilder) setFlag(flag AttrFlag, field string) *AttributeBuilder {
	if b.once(field) {
		b.attr.flags |= flag
	}
	return b
}

// requireList records an error unless the attribute is list-typed.
func (b *AttributeBuilder) requireList(what string) {
	if !b.attr.typ.IsList() {
		b.errorf("%s requires a list-typed attribute, not %s", what, b.attr.typ)
	}
}

// requireLabel records an error unless the attribute is label-valued.
func (b *AttributeBuilder) requireLabel(what string) {
	if !b.attr.typ.IsLabel() {
		b.errorf("%s requires a label-valued attribute, not %s", what, b.attr.typ)
	}
}

// Mandatory makes the attribute require an explicitly declared value.
func (b *AttributeBuilder) Mandatory() *AttributeBuilder {
	return b.setFlag(AttrMandatory, "mandatory")
}

// NonEmpty forbids declaring this list attribute as the empty list.
func (b *AttributeBuilder) NonEmpty() *AttributeBuilder {
	b.requireList("non_empty")
	return b.setFlag(AttrNonEmpty, "non_empty")
}

// SingleArtifact requires each referenced rule to produce exactly one artifact.
func (b *AttributeBuilder) SingleArtifact() *AttributeBuilder {
	b.requireLabel("single_artifact")
	return b.setFlag(AttrSingleArtifact, "single_artifact")
}

// SilentRuleClassFilter drops disallowed referents silently rather than
// erroring. This exists to handle plugins, don't use it in other cases.
func (b *AttributeBuilder) SilentRuleClassFilter() *AttributeBuilder {
	b.requireLabel("silent_ruleclass_filter")
	return b.setFlag(AttrSilentRuleClassFilter, "silent_ruleclass_filter")
}

// SkipFileTypeCheck skips the file type check on generated files. Don't use it if avoidable.
func (b *AttributeBuilder) SkipFileTypeCheck() *AttributeBuilder {
	b.requireLabel("skip_filetype_check")
	return b.setFlag(AttrSkipFileTypeCheck, "skip_filetype_check")
}

// OrderIndependent marks this list attribute as sortable.
func (b *AttributeBuilder) OrderIndependent() *AttributeBuilder {
	b.requireList("order_independent")
	return b.setFlag(AttrOrderIndependent, "order_independent")
}

// Undocumented excludes the attribute from generated documentation.
// The reason isn't used but is required for the record.
func (b *AttributeBuilder) Undocumented(reason string) *AttributeBuilder {
	return b.setFlag(AttrUndocumented, "undocumented")
}

// Taggable publishes this attribute's value to the rule's tag set.
func (b *AttributeBuilder) Taggable() *AttributeBuilder {
	return b.setFlag(AttrTaggable, "taggable")
}

// Nonconfigurable opts this attribute out of configurability.
func (b *AttributeBuilder) Nonconfigurable() *AttributeBuilder {
	return b.setFlag(AttrNonconfigurable, "nonconfigurable")
}

// DirectCompileTimeInput marks this attribute's inputs as feeding a compile directly.
func (b *AttributeBuilder) DirectCompileTimeInput() *AttributeBuilder {
	return b.setFlag(AttrDirectCompileTimeInput, "direct_compile_time_input")
}

// Transition sets the configuration transition applied when following this attribute.
func (b *AttributeBuilder) Transition(transition ConfigTransition) *AttributeBuilder {
	if b.once("transition") {
		b.requireLabel("a configuration transition")
		b.attr.transition = transition
	}
	return b
}

// ConfiguredBy sets a configurator callback for this attribute's referents.
func (b *AttributeBuilder) ConfiguredBy(configurator Configurator) *AttributeBuilder {
	if b.once("configurator") {
		b.requireLabel("a configurator")
		b.attr.configurator = configurator
	}
	return b
}

// Default sets a constant default value, which must conform to the attribute's type.
func (b *AttributeBuilder) Default(value interface{}) *AttributeBuilder {
	if b.once("default") {
		if !b.attr.typ.CheckValue(value) {
			b.errorf("default value %v does not conform to type %s", value, b.attr.typ)
		}
		b.attr.def = ConstantDefault{Value: value}
	}
	return b
}

// ComputedDefault sets a default computed from the rule's other attributes.
func (b *AttributeBuilder) ComputedDefault(fn ComputedDefault) *AttributeBuilder {
	if b.once("default") {
		b.attr.def = fn
	}
	return b
}

// LateBoundDefault sets a default resolved against the build configuration
// during analysis. The attribute's name must carry the late-bound sigil.
func (b *AttributeBuilder) LateBoundDefault(def LateBoundDefault) *AttributeBuilder {
	if b.once("default") {
		if !IsLateBoundAttribute(b.attr.name) {
			b.errorf("late-bound default on an attribute without the ':' prefix")
		}
		b.attr.def = def
	}
	return b
}

// Condition gates the default: it only applies when the condition evaluates
// true, otherwise the attribute defaults to its type's empty value. The
// condition is irrelevant when a value is explicitly declared.
func (b *AttributeBuilder) Condition(condition func(AttrView) bool) *AttributeBuilder {
	if b.once("condition") {
		b.attr.condition = condition
	}
	return b
}

// AllowedRuleClasses restricts which rule classes may be referenced by this
// label attribute. Disallowed referents are an error during analysis.
func (b *AttributeBuilder) AllowedRuleClasses(pred RuleClassPredicate) *AttributeBuilder {
	if b.once("allowed_rule_classes") {
		b.requireLabel("allowed_rule_classes")
		b.attr.flags |= AttrStrictLabelChecking
		b.attr.allowedRuleClasses = pred
	}
	return b
}

// AllowedRuleClassesWithWarning is as AllowedRuleClasses but referents matching
// this predicate (and not the error one) produce a warning instead.
func (b *AttributeBuilder) AllowedRuleClassesWithWarning(pred RuleClassPredicate) *AttributeBuilder {
	if b.once("allowed_rule_classes_warning") {
		b.requireLabel("allowed_rule_classes_with_warning")
		b.attr.flags |= AttrStrictLabelChecking
		b.attr.allowedRuleClassesWarning = pred
	}
	return b
}

// AllowedFileTypes restricts the file types acceptable for file-valued labels
// of this attribute.
func (b *AttributeBuilder) AllowedFileTypes(types FileTypeSet) *AttributeBuilder {
	if b.once("allowed_file_types") {
		b.requireLabel("allowed_file_types")
		b.attr.flags |= AttrStrictLabelChecking
		b.attr.allowedFileTypes = types
	}
	return b
}

// Validity sets the edge validity predicate for this attribute.
func (b *AttributeBuilder) Validity(pred ValidityPredicate) *AttributeBuilder {
	if b.once("validity") {
		b.attr.flags |= AttrStrictLabelChecking
		b.attr.validity = pred
	}
	return b
}

// AllowedValues restricts the attribute's resolved value to the given set.
func (b *AttributeBuilder) AllowedValues(values *ValueSet) *AttributeBuilder {
	if b.once("allowed_values") {
		b.attr.flags |= AttrCheckAllowedValues
		b.attr.allowedValues = values
	}
	return b
}

// Build returns the built attribute, or an error describing every invariant
// the schema violates. The result is immutable and safe to share.
func (b *AttributeBuilder) Build() (*Attribute, error) {
	var errs *multierror.Error
	if b.errs != nil {
		errs = multierror.Append(errs, b.errs.Errors...)
	}
	if (b.attr.transition != NoTransition || b.attr.configurator != nil) && !b.attr.typ.IsLabel() {
		errs = multierror.Append(errs, &SchemaError{
			Attr: b.attr.name,
			Msg:  "configuration transitions can only be specified for label attributes",
		})
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	a := b.attr
	if a.def == nil {
		a.def = ConstantDefault{Value: a.typ.ZeroValue()}
	}
	a.setFields = make(map[string]bool, len(b.set))
	for field := range b.set {
		a.setFields[field] = true
	}
	return &a, nil
}

// MustBuild is like Build but panics on error. It's intended for statically
// defined rule classes where a bad schema is a programming error.
func (b *AttributeBuilder) MustBuild() *Attribute {
	a, err := b.Build()
	if err != nil {
		panic(err)
	}
	return a
}
