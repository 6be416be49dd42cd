package grips

import (
	"github.com/aretw0/cadmark/pkg/domain"
	"seehuhn.de/go/geom/vec"
)

// Kind classifies a grip handle.
type Kind int

const (
	// KindHost is a handle supplied by the host, such as its
	// whole-instance move handle.
	KindHost Kind = iota
	KindVertex
	KindCustom
	KindAddVertex
	KindRemoveVertex
	KindReverse
	KindHot
)

func (k Kind) String() string {
	switch k {
	case KindHost:
		return "host"
	case KindVertex:
		return "vertex"
	case KindCustom:
		return "custom"
	case KindAddVertex:
		return "add-vertex"
	case KindRemoveVertex:
		return "remove-vertex"
	case KindReverse:
		return "reverse"
	case KindHot:
		return "hot"
	}
	return "unknown"
}

// Handle is one grip handle of an instance.
type Handle struct {
	Instance domain.Handle
	Kind     Kind
	// Index is the vertex index for vertex and remove-vertex handles, the
	// custom point index for custom handles and the insertion index for
	// add-vertex handles. An add-vertex index equal to the vertex count
	// extends the chain past the end point.
	Index int
	// Property names the enum property of a hot handle.
	Property string
	Position vec.Vec2
}
