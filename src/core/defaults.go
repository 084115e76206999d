package core

// A DefaultValue is the declaration of how an attribute's default is produced.
// It is a closed set of three variants: a constant, a function of the owning
// rule's other attributes, or a value bound late to the build configuration.
// Resolution dispatches exhaustively on the variant; see Attribute.DefaultValue.
type DefaultValue interface {
	isDefaultValue()
}

// A ConstantDefault is a fixed default value, which must conform to the
// attribute's type. Most attributes use this.
type ConstantDefault struct {
	Value interface{}
}

func (ConstantDefault) isDefaultValue() {}

// A ComputedDefault derives the default from the other attributes of the rule.
// Computed defaults are evaluated once all constant defaults on the owning
// rule have been set; there is no defined order among computed defaults so
// they must not depend on one another.
type ComputedDefault func(AttrView) interface{}

func (ComputedDefault) isDefaultValue() {}

// A LateBoundDefault is resolved against the build configuration during the
// analysis phase; during loading the LoadingValue stands in. Only attributes
// whose name carries the late-bound sigil (':') may use one.
//
// Use sparingly - having different values for attributes during loading and
// analysis can confuse users.
type LateBoundDefault struct {
	// UseHostConfig looks the value up in the host configuration rather than
	// the target one.
	UseHostConfig bool
	// LoadingValue is the stand-in value used during the loading phase.
	LoadingValue interface{}
	// Resolve produces the real value once a configuration is available.
	// The configuration is opaque to this library.
	Resolve func(rule *Rule, config interface{}) interface{}
}

func (LateBoundDefault) isDefaultValue() {}
