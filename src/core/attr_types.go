package core

// An AttrType is the semantic type of a rule attribute. It's a closed set;
// the generic build-language conversion machinery lives upstream of this
// library, so all we need here is identity, list-ness, label-ness and the
// empty value for each kind.
type AttrType int

const (
	// TypeBool is a boolean attribute.
	TypeBool AttrType = iota
	// TypeInt is an integer attribute.
	TypeInt
	// TypeString is a string attribute.
	TypeString
	// TypeStringList is a list-of-strings attribute.
	TypeStringList
	// TypeLabel is a single build label attribute.
	TypeLabel
	// TypeLabelList is a list of build labels.
	TypeLabelList
	// TypeNodepLabel is a label that doesn't imply a dependency edge.
	TypeNodepLabel
	// TypeNodepLabelList is a list of labels that don't imply dependency edges.
	TypeNodepLabelList
)

// String returns the build-language name of this type.
func (t AttrType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt:
		return "int"
	case TypeString:
		return "string"
	case TypeStringList:
		return "string_list"
	case TypeLabel:
		return "label"
	case TypeLabelList:
		return "label_list"
	case TypeNodepLabel:
		return "nodep_label"
	case TypeNodepLabelList:
		return "nodep_label_list"
	}
	return "unknown"
}

// IsList returns true if this is a list-valued type.
func (t AttrType) IsList() bool {
	return t == TypeStringList || t == TypeLabelList || t == TypeNodepLabelList
}

// IsLabel returns true if this is a label-valued type (single or list).
func (t AttrType) IsLabel() bool {
	return t == TypeLabel || t == TypeLabelList || t == TypeNodepLabel || t == TypeNodepLabelList
}

// ZeroValue returns the empty value for this type; it's what an attribute
// resolves to when it has no default and nothing was declared.
func (t AttrType) ZeroValue() interface{} {
	switch t {
	case TypeBool:
		return false
	case TypeInt:
		return 0
	case TypeString:
		return ""
	case TypeStringList:
		return []string{}
	case TypeLabel, TypeNodepLabel:
		return BuildLabel{}
	case TypeLabelList, TypeNodepLabelList:
		return []BuildLabel{}
	}
	return nil
}

// CheckValue returns true if the given value conforms to this type.
func (t AttrType) CheckValue(value interface{}) bool {
	switch t {
	case TypeBool:
		_, ok := value.(bool)
		return ok
	case TypeInt:
		_, ok := value.(int)
		return ok
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeStringList:
		_, ok := value.([]string)
		return ok
	case TypeLabel, TypeNodepLabel:
		_, ok := value.(BuildLabel)
		return ok
	case TypeLabelList, TypeNodepLabelList:
		_, ok := value.([]BuildLabel)
		return ok
	}
	return false
}
