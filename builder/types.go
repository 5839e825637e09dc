package builder

import (
	"fmt"
	"strings"
)

// ScalarType is the element type of every generated buffer and capture
type ScalarType int

const (
	Int ScalarType = iota + 1
	Float
	Double
)

// ScalarTypes lists the accepted element types in help-text order
var ScalarTypes = []ScalarType{Int, Float, Double}

// String returns the C++ type name
func (st ScalarType) String() string {
	switch st {
	case Int:
		return "int"
	case Float:
		return "float"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("ScalarType(%d)", int(st))
	}
}

// ParseScalarType maps a type name to a ScalarType
func ParseScalarType(name string) (ScalarType, error) {
	for _, st := range ScalarTypes {
		if strings.EqualFold(name, st.String()) {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown type %q (want one of %s)",
		ErrConfiguration, name, ScalarTypeNames())
}

// ScalarTypeNames returns "int,float,double"
func ScalarTypeNames() string {
	names := make([]string, len(ScalarTypes))
	for i, st := range ScalarTypes {
		names[i] = st.String()
	}
	return strings.Join(names, ",")
}
