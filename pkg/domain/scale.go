package domain

import (
	"strconv"

	"github.com/aretw0/cadmark/pkg/schema"
)

// AnnotationScale is a drawing's annotation scale, e.g. 1:100.
type AnnotationScale struct {
	Paper   float64
	Drawing float64
}

// DefaultScale is the 1:1 annotation scale.
var DefaultScale = AnnotationScale{Paper: 1, Drawing: 1}

// ParseScale parses a symbolic scale name such as "1:100".
func ParseScale(name string) (AnnotationScale, error) {
	paper, drawing, err := schema.SplitScale(name)
	if err != nil {
		return AnnotationScale{}, err
	}
	return AnnotationScale{Paper: paper, Drawing: drawing}, nil
}

// Factor is the multiplier applied to paper sizes to obtain drawing units.
func (s AnnotationScale) Factor() float64 {
	if s.Paper <= 0 || s.Drawing <= 0 {
		return 1
	}
	return s.Drawing / s.Paper
}

// Name returns the symbolic name of the scale.
func (s AnnotationScale) Name() string {
	if s.Paper <= 0 || s.Drawing <= 0 {
		return "1:1"
	}
	return strconv.FormatFloat(s.Paper, 'f', -1, 64) + ":" + strconv.FormatFloat(s.Drawing, 'f', -1, 64)
}

func (s AnnotationScale) String() string { return s.Name() }
