package graph

import "github.com/sbl8/tensorgraph/xerr"

// AttrKind tags which field of an Attribute is populated.
type AttrKind int

const (
	AttrInt AttrKind = iota
	AttrFloat
	AttrString
	AttrInts
	AttrFloats
	AttrStrings
)

// Attribute is a tagged union over the scalar and vector attribute
// kinds a Node or Graph can carry.
type Attribute struct {
	Kind AttrKind

	Int     int64
	Float   float64
	String  string
	Ints    []int64
	Floats  []float64
	Strings []string
}

// AttributeMap is a string-keyed set of attributes.
type AttributeMap map[string]Attribute

// Get returns the attribute at key, or an OutOfRange error if absent.
func (m AttributeMap) Get(key string) (Attribute, error) {
	a, ok := m[key]
	if !ok {
		return Attribute{}, xerr.New(xerr.OutOfRange, "AttributeMap.Get", "no attribute named "+key)
	}
	return a, nil
}

// GetInt returns the int attribute at key, or InvalidArgument if the
// attribute is a different kind.
func (m AttributeMap) GetInt(key string) (int64, error) {
	a, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	if a.Kind != AttrInt {
		return 0, xerr.New(xerr.InvalidArgument, "AttributeMap.GetInt", "attribute "+key+" is not an int")
	}
	return a.Int, nil
}

// GetFloat returns the float attribute at key, or InvalidArgument if the
// attribute is a different kind.
func (m AttributeMap) GetFloat(key string) (float64, error) {
	a, err := m.Get(key)
	if err != nil {
		return 0, err
	}
	if a.Kind != AttrFloat {
		return 0, xerr.New(xerr.InvalidArgument, "AttributeMap.GetFloat", "attribute "+key+" is not a float")
	}
	return a.Float, nil
}

// GetString returns the string attribute at key, or InvalidArgument if
// the attribute is a different kind.
func (m AttributeMap) GetString(key string) (string, error) {
	a, err := m.Get(key)
	if err != nil {
		return "", err
	}
	if a.Kind != AttrString {
		return "", xerr.New(xerr.InvalidArgument, "AttributeMap.GetString", "attribute "+key+" is not a string")
	}
	return a.String, nil
}
