package core

import (
	"fmt"
)

// An AttrView is a read-only, typed view of a rule's attribute values.
// It's consumed both by computed-default evaluation and by anything reading a
// rule's declared attributes (eg. test suite expansion reading 'tests').
// Get fails if the attribute doesn't exist or its declared type doesn't match
// the requested one.
type AttrView interface {
	Get(name string, typ AttrType) (interface{}, error)
}

// StringValue reads a string attribute through a view.
func StringValue(view AttrView, name string) (string, error) {
	v, err := view.Get(name, TypeString)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// BoolValue reads a boolean attribute through a view.
func BoolValue(view AttrView, name string) (bool, error) {
	v, err := view.Get(name, TypeBool)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

// StringListValue reads a string list attribute through a view.
func StringListValue(view AttrView, name string) ([]string, error) {
	v, err := view.Get(name, TypeStringList)
	if err != nil {
		return nil, err
	}
	l, _ := v.([]string)
	return l, nil
}

// LabelListValue reads a label list attribute through a view.
func LabelListValue(view AttrView, name string) ([]BuildLabel, error) {
	v, err := view.Get(name, TypeLabelList)
	if err != nil {
		return nil, err
	}
	l, _ := v.([]BuildLabel)
	return l, nil
}

// ruleAttrView is the AttrView over a rule's declared values, falling back to
// schema defaults for anything not declared.
type ruleAttrView struct {
	rule *Rule
}

// Get implements the AttrView interface.
func (view ruleAttrView) Get(name string, typ AttrType) (interface{}, error) {
	a := view.rule.class.Attribute(name)
	if a == nil {
		return nil, fmt.Errorf("rule %s (%s) has no attribute %s", view.rule.label, view.rule.class.Name, name)
	} else if a.Type() != typ {
		return nil, fmt.Errorf("attribute %s of %s is of type %s, not %s", name, view.rule.label, a.Type(), typ)
	}
	if value, present := view.rule.values[name]; present {
		return value, nil
	}
	return a.DefaultValue(view), nil
}
