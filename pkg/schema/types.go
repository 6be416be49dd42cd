package schema

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"seehuhn.de/go/geom/vec"
)

// Type defines the contract for property values.
// Implementations determine how values are validated against a type.
type Type interface {
	// Name returns the human-readable name of the type (e.g., "float", "point").
	Name() string
	// Validate checks if a value conforms to this type.
	Validate(value any) error
}

// BoolType validates boolean values.
type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// IntType validates integer values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	if _, ok := value.(int); !ok {
		return fmt.Errorf("expected int, got %T", value)
	}
	return nil
}

// FloatType validates floating-point values.
type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	if _, ok := value.(float64); !ok {
		return fmt.Errorf("expected float, got %T", value)
	}
	return nil
}

// StringType validates string values.
type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// EnumType validates enumeration members, identified by name.
// The position of a name in Members is the numeric value of the member.
type EnumType struct {
	Members []string
}

func (t *EnumType) Name() string { return "enum(" + strings.Join(t.Members, "|") + ")" }

func (t *EnumType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected enum member name, got %T", value)
	}
	if t.Index(s) < 0 {
		return fmt.Errorf("unknown member %q", s)
	}
	return nil
}

// Index returns the numeric value of the named member, or -1.
func (t *EnumType) Index(name string) int {
	return slices.Index(t.Members, name)
}

// PointType validates world-space points.
type PointType struct{}

func (t *PointType) Name() string { return "point" }

func (t *PointType) Validate(value any) error {
	if _, ok := value.(vec.Vec2); !ok {
		return fmt.Errorf("expected point, got %T", value)
	}
	return nil
}

// PointListType validates ordered lists of world-space points.
type PointListType struct{}

func (t *PointListType) Name() string { return "[point]" }

func (t *PointListType) Validate(value any) error {
	if _, ok := value.([]vec.Vec2); !ok {
		return fmt.Errorf("expected point list, got %T", value)
	}
	return nil
}

// FloatListType validates lists of floating-point values.
type FloatListType struct{}

func (t *FloatListType) Name() string { return "[float]" }

func (t *FloatListType) Validate(value any) error {
	if _, ok := value.([]float64); !ok {
		return fmt.Errorf("expected float list, got %T", value)
	}
	return nil
}

// ScaleType validates symbolic annotation scales such as "1:100".
type ScaleType struct{}

func (t *ScaleType) Name() string { return "scale" }

func (t *ScaleType) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected scale name, got %T", value)
	}
	_, _, err := SplitScale(s)
	return err
}

// SplitScale parses a symbolic scale "paper:drawing" into its two units.
// Both units must be positive.
func SplitScale(name string) (paper, drawing float64, err error) {
	left, right, found := strings.Cut(strings.TrimSpace(name), ":")
	if !found {
		return 0, 0, fmt.Errorf("invalid scale %q: expected paper:drawing", name)
	}
	paper, err = strconv.ParseFloat(strings.TrimSpace(left), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid scale %q: %w", name, err)
	}
	drawing, err = strconv.ParseFloat(strings.TrimSpace(right), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid scale %q: %w", name, err)
	}
	if paper <= 0 || drawing <= 0 {
		return 0, 0, fmt.Errorf("invalid scale %q: units must be positive", name)
	}
	return paper, drawing, nil
}

// --- Factory Functions ---

// Bool creates a boolean type validator.
func Bool() Type { return &BoolType{} }

// Int creates an integer type validator.
func Int() Type { return &IntType{} }

// Float creates a float type validator.
func Float() Type { return &FloatType{} }

// String creates a string type validator.
func String() Type { return &StringType{} }

// Enum creates an enumeration type over the given member names.
func Enum(members ...string) Type { return &EnumType{Members: members} }

// Point creates a point type validator.
func Point() Type { return &PointType{} }

// PointList creates a point list type validator.
func PointList() Type { return &PointListType{} }

// FloatList creates a float list type validator.
func FloatList() Type { return &FloatListType{} }

// Scale creates an annotation scale type validator.
func Scale() Type { return &ScaleType{} }
