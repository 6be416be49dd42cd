package ports

import (
	"context"

	"seehuhn.de/go/geom/vec"
)

// PointStatus is the completion status of a point acquisition.
type PointStatus int

const (
	// PointAccepted means the user picked a point.
	PointAccepted PointStatus = iota
	// PointCancelled means the user cancelled the prompt.
	PointCancelled
	// PointNone means the user accepted without picking (e.g. pressed Enter).
	PointNone
)

func (s PointStatus) String() string {
	switch s {
	case PointAccepted:
		return "accepted"
	case PointCancelled:
		return "cancelled"
	case PointNone:
		return "none"
	}
	return "unknown"
}

// PointRequest describes one prompted point acquisition.
type PointRequest struct {
	Prompt string
	// Base is the rubber-band origin when HasBase is set.
	Base    vec.Vec2
	HasBase bool
	// Preview is called with every candidate sample and returns the point
	// the sample resolves to.
	Preview func(p vec.Vec2) vec.Vec2
}

// PointSource acquires points from the user. AcquirePoint blocks until the
// user accepts, declines or cancels.
type PointSource interface {
	AcquirePoint(ctx context.Context, req PointRequest) (vec.Vec2, PointStatus, error)
}

// ChoiceSurface presents a small menu and blocks until the user picks.
// It returns the index of the chosen option, or ok=false when dismissed.
type ChoiceSurface interface {
	Choose(ctx context.Context, title string, options []string, current int) (index int, ok bool, err error)
}

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Notify(ctx context.Context, err error)
}
