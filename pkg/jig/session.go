package jig

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/cadmark/internal/logging"
	"github.com/aretw0/cadmark/pkg/container"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/geometry"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

var (
	// ErrNoStep is returned when a point is sampled or accepted before
	// any step was set with Expect.
	ErrNoStep = errors.New("no pending step")
	// ErrClosed is returned when a finished session is used again.
	ErrClosed = errors.New("session closed")
)

// Preview is the live result of a sample.
type Preview struct {
	// Point is the sample after the minimum-distance correction.
	Point vec.Vec2
	// Primitives are in local space; Transform maps them to world space.
	Primitives []domain.Primitive
	Transform  matrix.Matrix
}

// Session drives the creation of one annotation.
type Session struct {
	syncer *container.Syncer
	a      *domain.Annotation

	step     *Step
	hits     int
	accepted int
	created  bool
	closed   bool

	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// Option configures the Session.
type Option func(*Session)

// WithHooks registers lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = h
	}
}

// WithLogger configures a logger for the Session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// New returns a session placing a. Nothing is written until Begin or the
// first accepted point.
func New(syncer *container.Syncer, a *domain.Annotation, opts ...Option) *Session {
	s := &Session{
		syncer: syncer,
		a:      a,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Annotation returns the annotation being placed.
func (s *Session) Annotation() *domain.Annotation {
	return s.a
}

// State returns the current interactive state.
func (s *Session) State() domain.JigState {
	return s.a.JigState
}

// Begin places the instance and allocates its container, drawn in the
// state of the pending step.
func (s *Session) Begin(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	if s.created {
		return nil
	}
	if err := s.syncer.Create(ctx, s.a); err != nil {
		return err
	}
	s.created = true
	s.logger.Debug("instance placed", "handle", s.a.Handle, "type", s.a.TypeName)
	return nil
}

// Expect makes step the pending step.
func (s *Session) Expect(step Step) {
	s.step = &step
	s.hits = 0
	s.a.JigState = step.State
}

// Prompt returns the prompt of the pending step.
func (s *Session) Prompt() string {
	if s.step == nil {
		return ""
	}
	return s.step.Prompt
}

// Accepted returns how many points the pending step accepted so far.
func (s *Session) Accepted() int {
	return s.hits
}

// Base returns the rubber-band origin of the pending step.
func (s *Session) Base() (vec.Vec2, bool) {
	if s.step == nil || s.step.Anchor == nil {
		return vec.Vec2{}, false
	}
	return s.step.Anchor(s.a)
}

// resolve applies the minimum-distance rule to a sample.
func (s *Session) resolve(a *domain.Annotation, p vec.Vec2) vec.Vec2 {
	if s.step.Anchor == nil {
		return p
	}
	anchor, ok := s.step.Anchor(a)
	if !ok {
		return p
	}
	return geometry.EnforceMinDistance(anchor, p, a.MinDistanceWorld(), a.XAxis())
}

func (s *Session) ready() error {
	switch {
	case s.closed:
		return ErrClosed
	case s.step == nil:
		return ErrNoStep
	}
	return nil
}

// Sample previews p on a copy of the annotation. Nothing is written.
func (s *Session) Sample(p vec.Vec2) (Preview, error) {
	if err := s.ready(); err != nil {
		return Preview{}, err
	}
	c := s.a.Clone()
	p = s.resolve(c, p)
	s.step.Apply(c, p)
	prims, err := s.syncer.Builder().Preview(c)
	if err != nil {
		return Preview{Point: p, Primitives: s.a.Primitives(), Transform: s.a.BlockTransform}, nil
	}
	return Preview{Point: p, Primitives: prims, Transform: c.BlockTransform}, nil
}

// Accept writes p into the annotation, rebuilds it and flushes it. It
// returns the point after the minimum-distance correction.
func (s *Session) Accept(ctx context.Context, p vec.Vec2) (vec.Vec2, error) {
	if err := s.ready(); err != nil {
		return vec.Vec2{}, err
	}
	p = s.resolve(s.a, p)
	s.step.Apply(s.a, p)
	s.hits++
	s.accepted++

	if !s.created {
		return p, s.Begin(ctx)
	}
	if _, err := s.syncer.Flush(ctx, s.a); err != nil {
		return p, err
	}
	return p, nil
}

// Finish leaves the interactive state and flushes the annotation one last
// time.
func (s *Session) Finish(ctx context.Context) error {
	if s.closed {
		return ErrClosed
	}
	s.step = nil
	s.a.JigState = domain.StateDone
	var err error
	if s.created {
		_, err = s.syncer.Flush(ctx, s.a)
	} else {
		err = s.Begin(ctx)
	}
	if err != nil {
		return fmt.Errorf("finish: %w", err)
	}
	s.closed = true
	s.emitEnd(ctx, true)
	return nil
}

// Abort cancels the session and erases the instance with its container.
func (s *Session) Abort(ctx context.Context) error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.step = nil
	defer s.emitEnd(ctx, false)
	if !s.created {
		return nil
	}
	if err := s.syncer.Erase(ctx, s.a.Handle); err != nil {
		return fmt.Errorf("abort: %w", err)
	}
	s.logger.Debug("instance erased on cancel", "handle", s.a.Handle)
	return nil
}

func (s *Session) emitEnd(ctx context.Context, committed bool) {
	if s.hooks.OnSessionEnd == nil {
		return
	}
	s.hooks.OnSessionEnd(ctx, &domain.SessionEvent{
		EventBase: domain.NewEventBase(domain.EventSessionEnd, s.a),
		Committed: committed,
		Steps:     s.accepted,
	})
}
