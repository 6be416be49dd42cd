package geometry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/cadmark/internal/logging"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/ports"
)

// Builder regenerates annotation primitives. A failed rebuild is reported
// and the annotation keeps its last valid primitive set.
type Builder struct {
	notifier ports.Notifier
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// Option configures the Builder.
type Option func(*Builder)

// WithNotifier sets where rebuild failures are reported.
func WithNotifier(n ports.Notifier) Option {
	return func(b *Builder) {
		b.notifier = n
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(b *Builder) {
		b.hooks = h
	}
}

// WithLogger configures a logger for the Builder.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Rebuild runs the shape's rebuild and stores the result on a.
// It always returns the primitives a now holds. A non-nil error is a
// *domain.BuildError that was already reported.
func (b *Builder) Rebuild(ctx context.Context, a *domain.Annotation) ([]domain.Primitive, error) {
	start := time.Now()
	prims, err := b.run(a)
	if err == nil {
		a.SetPrimitives(prims)
	}

	if b.hooks.OnRebuild != nil {
		b.hooks.OnRebuild(ctx, &domain.RebuildEvent{
			EventBase:  domain.NewEventBase(domain.EventRebuild, a),
			Primitives: len(a.Primitives()),
			Duration:   time.Since(start),
			Err:        err,
		})
	}
	if err != nil {
		b.logger.Warn("rebuild failed, keeping last geometry",
			"handle", a.Handle,
			"type", a.TypeName,
			"err", err,
		)
		if b.notifier != nil {
			b.notifier.Notify(ctx, err)
		}
	}
	return a.Primitives(), err
}

func (b *Builder) run(a *domain.Annotation) (prims []domain.Primitive, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &domain.BuildError{TypeName: a.TypeName, Handle: a.Handle, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	if a.Shape == nil {
		return nil, &domain.BuildError{TypeName: a.TypeName, Handle: a.Handle, Cause: domain.ErrUnknownType}
	}
	prims, err = a.Shape.Rebuild(a)
	if err != nil {
		return nil, &domain.BuildError{TypeName: a.TypeName, Handle: a.Handle, Cause: err}
	}
	return prims, nil
}

// Preview runs the shape's rebuild on a without storing or reporting
// anything. Used for live previews of throwaway copies.
func (b *Builder) Preview(a *domain.Annotation) ([]domain.Primitive, error) {
	return b.run(a)
}
