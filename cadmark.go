package cadmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/cadmark/internal/logging"
	"github.com/aretw0/cadmark/pkg/codec"
	"github.com/aretw0/cadmark/pkg/container"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/geometry"
	"github.com/aretw0/cadmark/pkg/grips"
	"github.com/aretw0/cadmark/pkg/jig"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/aretw0/cadmark/pkg/registry"
	"github.com/aretw0/cadmark/pkg/session"
	"github.com/aretw0/cadmark/pkg/symbols"
	"seehuhn.de/go/geom/vec"
)

// Version is the engine version, set at build time.
var Version = "dev"

// StepsFunc returns the creation steps of a type.
type StepsFunc func(typeName string) ([]jig.Step, bool)

// ErrNoSteps is returned by Place for a type without creation steps.
var ErrNoSteps = errors.New("type has no creation steps")

// Engine is the high-level entry point for the annotation engine.
// It binds the type registry, the geometry builder, the container sync and
// the grip layer to one host document.
type Engine struct {
	doc       ports.Document
	types     *registry.Registry
	steps     StepsFunc
	syncer    *container.Syncer
	grips     *grips.Layer
	locker    ports.Locker
	notifier  ports.Notifier
	surface   ports.ChoiceSurface
	tolerance float64
	scale     domain.AnnotationScale
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithTypes replaces the reference types with a custom registry.
func WithTypes(types *registry.Registry, steps StepsFunc) Option {
	return func(e *Engine) {
		e.types = types
		e.steps = steps
	}
}

// WithLocker serializes document writes through l. By default the engine
// holds a process-local lock per document.
func WithLocker(l ports.Locker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithNotifier sets where geometry and grip failures are shown.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) {
		e.notifier = n
	}
}

// WithChoiceSurface sets the menu used by hot grips.
func WithChoiceSurface(s ports.ChoiceSurface) Option {
	return func(e *Engine) {
		e.surface = s
	}
}

// WithGripTolerance sets the distance under which grip handles coincide.
func WithGripTolerance(tol float64) Option {
	return func(e *Engine) {
		e.tolerance = tol
	}
}

// WithDefaultScale sets the annotation scale of new annotations.
func WithDefaultScale(s domain.AnnotationScale) Option {
	return func(e *Engine) {
		e.scale = s
	}
}

// New initializes an Engine over doc.
func New(doc ports.Document, opts ...Option) (*Engine, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is required")
	}
	e := &Engine{
		doc:       doc,
		tolerance: grips.DefaultTolerance,
		scale:     domain.DefaultScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.types == nil {
		e.types = symbols.NewRegistry()
		e.steps = symbols.Steps
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	e.logger = e.logger.With("drawing", doc.ID())

	builderOpts := []geometry.Option{
		geometry.WithHooks(e.hooks),
		geometry.WithLogger(e.logger),
	}
	if e.notifier != nil {
		builderOpts = append(builderOpts, geometry.WithNotifier(e.notifier))
	}
	syncOpts := []container.Option{
		container.WithBuilder(geometry.NewBuilder(builderOpts...)),
		container.WithHooks(e.hooks),
		container.WithLogger(e.logger),
	}
	if e.locker == nil {
		e.locker = session.NewLocks(session.WithLogger(e.logger))
	}
	syncOpts = append(syncOpts, container.WithLocker(e.locker))
	e.syncer = container.NewSyncer(doc, e.types, syncOpts...)

	gripOpts := []grips.Option{
		grips.WithTolerance(e.tolerance),
		grips.WithHooks(e.hooks),
		grips.WithLogger(e.logger),
	}
	if e.notifier != nil {
		gripOpts = append(gripOpts, grips.WithNotifier(e.notifier))
	}
	if e.surface != nil {
		gripOpts = append(gripOpts, grips.WithChoiceSurface(e.surface))
	}
	e.grips = grips.NewLayer(e.syncer, gripOpts...)
	return e, nil
}

// Document returns the host document.
func (e *Engine) Document() ports.Document { return e.doc }

// Types returns the type registry.
func (e *Engine) Types() *registry.Registry { return e.types }

// Syncer returns the container sync.
func (e *Engine) Syncer() *container.Syncer { return e.syncer }

// Locker returns the lock held around document writes.
func (e *Engine) Locker() ports.Locker { return e.locker }

// Grips returns the grip layer.
func (e *Engine) Grips() *grips.Layer { return e.grips }

// NewAnnotation creates an unplaced annotation of the named type at the
// default scale.
func (e *Engine) NewAnnotation(typeName string) (*domain.Annotation, error) {
	a, err := e.types.New(typeName)
	if err != nil {
		return nil, err
	}
	a.Scale = e.scale
	return a, nil
}

// Session starts an interactive creation session for a.
func (e *Engine) Session(a *domain.Annotation) *jig.Session {
	return jig.New(e.syncer, a, jig.WithHooks(e.hooks), jig.WithLogger(e.logger))
}

// Place creates an annotation of the named type, acquiring its points
// from src.
func (e *Engine) Place(ctx context.Context, typeName string, src ports.PointSource) (jig.Outcome, error) {
	steps, ok := e.steps(typeName)
	if !ok {
		return jig.Outcome{}, fmt.Errorf("%w: %s", ErrNoSteps, typeName)
	}
	a, err := e.NewAnnotation(typeName)
	if err != nil {
		return jig.Outcome{}, err
	}
	out, err := jig.Drive(ctx, e.Session(a), src, steps...)
	if err != nil {
		return out, err
	}
	e.logger.Info("annotation placed", "type", a.TypeName, "handle", out.Handle, "committed", out.Committed)
	return out, nil
}

// Load materializes instance h.
func (e *Engine) Load(ctx context.Context, h domain.Handle) (*domain.Annotation, error) {
	return e.syncer.Load(ctx, h)
}

// Update loads instance h, applies fn and flushes the result.
func (e *Engine) Update(ctx context.Context, h domain.Handle, fn func(a *domain.Annotation) error) error {
	a, err := e.syncer.Load(ctx, h)
	if err != nil {
		return err
	}
	if err := fn(a); err != nil {
		return err
	}
	_, err = e.syncer.Flush(ctx, a)
	return err
}

// Copy duplicates instance h moved by offset.
func (e *Engine) Copy(ctx context.Context, h domain.Handle, offset vec.Vec2) (domain.Handle, error) {
	return e.syncer.Copy(ctx, h, offset)
}

// Erase removes instance h.
func (e *Engine) Erase(ctx context.Context, h domain.Handle) error {
	return e.syncer.Erase(ctx, h)
}

// Instances lists the instances of registered types.
func (e *Engine) Instances(ctx context.Context) ([]domain.Handle, error) {
	return e.syncer.Instances(ctx)
}

// Inspect returns the decoded parameter blob of instance h.
func (e *Engine) Inspect(ctx context.Context, h domain.Handle) (codec.Blob, error) {
	var b codec.Blob
	err := e.doc.View(ctx, func(tx ports.Transaction) error {
		rec, err := tx.Instance(h)
		if err != nil {
			return err
		}
		x, ok := codec.Find(rec.XData, codec.AppName(codec.SimpleTypeName(rec.TypeName)))
		if !ok {
			return fmt.Errorf("%w: no parameters on %s", domain.ErrSerialization, h)
		}
		b, err = codec.Decode(x)
		return err
	})
	return b, err
}

// OsnapPoints returns the snap points of instance h in world space.
func (e *Engine) OsnapPoints(ctx context.Context, h domain.Handle) ([]vec.Vec2, error) {
	a, err := e.syncer.Load(ctx, h)
	if err != nil {
		return nil, err
	}
	return a.Shape.OsnapPoints(a), nil
}
