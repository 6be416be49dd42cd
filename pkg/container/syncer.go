package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/cadmark/internal/logging"
	"github.com/aretw0/cadmark/pkg/codec"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/geometry"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/aretw0/cadmark/pkg/registry"
	"seehuhn.de/go/geom/vec"
)

// Syncer reads annotations from a host document and writes them back.
type Syncer struct {
	doc     ports.Document
	types   *registry.Registry
	builder *geometry.Builder
	locker  ports.Locker
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option configures the Syncer.
type Option func(*Syncer)

// WithBuilder sets the geometry builder used before every write.
func WithBuilder(b *geometry.Builder) Option {
	return func(s *Syncer) {
		s.builder = b
	}
}

// WithLocker sets the drawing lock held around every write.
func WithLocker(l ports.Locker) Option {
	return func(s *Syncer) {
		s.locker = l
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(s *Syncer) {
		s.hooks = h
	}
}

// WithLogger configures a logger for the Syncer.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) {
		s.logger = logger
	}
}

// NewSyncer creates a Syncer over doc. types resolves instance type names.
func NewSyncer(doc ports.Document, types *registry.Registry, opts ...Option) *Syncer {
	s := &Syncer{
		doc:    doc,
		types:  types,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.builder == nil {
		s.builder = geometry.NewBuilder(geometry.WithLogger(s.logger), geometry.WithHooks(s.hooks))
	}
	return s
}

// Document returns the host document.
func (s *Syncer) Document() ports.Document {
	return s.doc
}

// Builder returns the geometry builder.
func (s *Syncer) Builder() *geometry.Builder {
	return s.builder
}

// Types returns the type registry.
func (s *Syncer) Types() *registry.Registry {
	return s.types
}

func (s *Syncer) locked(ctx context.Context, fn func(context.Context) error) error {
	if s.locker == nil {
		return fn(ctx)
	}
	return s.locker.WithLock(ctx, s.doc.ID(), fn)
}

// write runs fn in a locked transaction and flushes graphics after commit.
func (s *Syncer) write(ctx context.Context, fn func(tx ports.Transaction) error) error {
	err := s.locked(ctx, func(ctx context.Context) error {
		return s.doc.RunInTransaction(ctx, fn)
	})
	if err != nil {
		return err
	}
	if err := s.doc.FlushGraphics(ctx); err != nil {
		s.logger.Warn("graphics flush failed", "err", err)
	}
	return nil
}

// Load materializes the annotation placed as instance h. A missing or
// unusable parameter blob leaves the type defaults in place. The current
// container content becomes the annotation's last valid geometry.
func (s *Syncer) Load(ctx context.Context, h domain.Handle) (*domain.Annotation, error) {
	var a *domain.Annotation
	err := s.doc.View(ctx, func(tx ports.Transaction) error {
		rec, err := tx.Instance(h)
		if err != nil {
			return err
		}
		a, err = s.materialize(tx, rec)
		return err
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Syncer) materialize(tx ports.Transaction, rec domain.InstanceRecord) (*domain.Annotation, error) {
	a, err := s.types.New(rec.TypeName)
	if err != nil {
		return nil, err
	}
	a.ApplyRecord(rec)
	if err := codec.Deserialize(rec.XData, a); err != nil {
		if !errors.Is(err, domain.ErrSerialization) {
			return nil, err
		}
		s.logger.Debug("parameter blob discarded, using defaults",
			"handle", rec.Handle,
			"type", rec.TypeName,
			"err", err,
		)
	}
	if def, err := tx.Definition(rec.Definition); err == nil {
		a.SetPrimitives(domain.VisiblePrimitives(def.Primitives, a.InsertionPointOCS()))
	}
	return a, nil
}

// Create rebuilds a, allocates its container and places it as a new
// instance. a.Handle and a.Definition are set on success.
func (s *Syncer) Create(ctx context.Context, a *domain.Annotation) error {
	if _, err := s.builder.Rebuild(ctx, a); err != nil && len(a.Primitives()) == 0 {
		return err
	}
	var handle domain.Handle
	var def domain.DefinitionID
	err := s.write(ctx, func(tx ports.Transaction) error {
		var err error
		def, err = tx.CreateDefinition(containerPrimitives(a))
		if err != nil {
			return err
		}
		handle = tx.NewHandle()
		return s.put(tx, a, handle, def, domain.InstanceRecord{})
	})
	s.emitFlush(ctx, a, def, true, err)
	if err != nil {
		return fmt.Errorf("create %s: %w", a.TypeName, err)
	}
	a.Handle = handle
	a.Definition = def
	return nil
}

// Flush rebuilds a and publishes its geometry, placement and parameters.
// A container referenced only by a is rewritten in place. A shared or
// missing one is replaced by a new container.
func (s *Syncer) Flush(ctx context.Context, a *domain.Annotation) (domain.DefinitionID, error) {
	return s.flush(ctx, a, false)
}

// FlushAfterUndo publishes a into a freshly allocated container, without
// assuming the previous one still exists. A previous container left
// unreferenced is erased.
func (s *Syncer) FlushAfterUndo(ctx context.Context, a *domain.Annotation) (domain.DefinitionID, error) {
	return s.flush(ctx, a, true)
}

func (s *Syncer) flush(ctx context.Context, a *domain.Annotation, fresh bool) (domain.DefinitionID, error) {
	_, _ = s.builder.Rebuild(ctx, a)
	prims := containerPrimitives(a)

	var def domain.DefinitionID
	var copied bool
	err := s.write(ctx, func(tx ports.Transaction) error {
		rec, err := tx.Instance(a.Handle)
		if err != nil {
			return err
		}
		def = rec.Definition
		_, defErr := tx.Definition(def)
		switch {
		case !fresh && defErr == nil && tx.References(def) <= 1:
			if err := tx.ReplaceDefinition(def, prims); err != nil {
				return err
			}
		default:
			def, err = tx.CreateDefinition(prims)
			if err != nil {
				return err
			}
			copied = true
		}
		if err := s.put(tx, a, a.Handle, def, rec); err != nil {
			return err
		}
		if old := rec.Definition; old != def && tx.References(old) == 0 {
			if _, err := tx.Definition(old); err == nil {
				return tx.EraseDefinition(old)
			}
		}
		return nil
	})
	s.emitFlush(ctx, a, def, copied, err)
	if err != nil {
		return "", fmt.Errorf("flush %s %s: %w", a.TypeName, a.Handle, err)
	}
	a.Definition = def
	return def, nil
}

// put writes placement and parameters of a over base.
func (s *Syncer) put(tx ports.Transaction, a *domain.Annotation, h domain.Handle, def domain.DefinitionID, base domain.InstanceRecord) error {
	rec := a.Record()
	rec.Handle = h
	rec.Definition = def
	rec.XData = base.XData
	rec.Proxy = base.Proxy
	if err := codec.Store(a, &rec); err != nil {
		return err
	}
	return tx.PutInstance(rec)
}

// Copy places a duplicate of instance h moved by offset, sharing its
// container the way a host copy does.
func (s *Syncer) Copy(ctx context.Context, h domain.Handle, offset vec.Vec2) (domain.Handle, error) {
	var handle domain.Handle
	err := s.write(ctx, func(tx ports.Transaction) error {
		rec, err := tx.Instance(h)
		if err != nil {
			return err
		}
		a, err := s.materialize(tx, rec)
		if err != nil {
			return err
		}
		a.MoveBy(offset)
		handle = tx.NewHandle()
		return s.put(tx, a, handle, rec.Definition, rec)
	})
	if err != nil {
		return "", fmt.Errorf("copy %s: %w", h, err)
	}
	return handle, nil
}

// Erase removes instance h and its container when no other instance
// references it.
func (s *Syncer) Erase(ctx context.Context, h domain.Handle) error {
	err := s.write(ctx, func(tx ports.Transaction) error {
		rec, err := tx.Instance(h)
		if err != nil {
			return err
		}
		if err := tx.EraseInstance(h); err != nil {
			return err
		}
		if tx.References(rec.Definition) > 0 {
			return nil
		}
		if _, err := tx.Definition(rec.Definition); err != nil {
			return nil
		}
		return tx.EraseDefinition(rec.Definition)
	})
	if err != nil {
		return fmt.Errorf("erase %s: %w", h, err)
	}
	return nil
}

// Instances lists the handles of every instance whose type is registered.
func (s *Syncer) Instances(ctx context.Context) ([]domain.Handle, error) {
	var out []domain.Handle
	err := s.doc.View(ctx, func(tx ports.Transaction) error {
		for _, rec := range tx.Instances() {
			if s.types.Has(rec.TypeName) {
				out = append(out, rec.Handle)
			}
		}
		return nil
	})
	return out, err
}

func (s *Syncer) emitFlush(ctx context.Context, a *domain.Annotation, def domain.DefinitionID, copied bool, err error) {
	if s.hooks.OnFlush == nil {
		return
	}
	s.hooks.OnFlush(ctx, &domain.FlushEvent{
		EventBase:  domain.NewEventBase(domain.EventFlush, a),
		Definition: def,
		Copied:     copied,
		Err:        err,
	})
}

// containerPrimitives positions the visible primitives of a relative to
// its insertion point.
func containerPrimitives(a *domain.Annotation) []domain.Primitive {
	return domain.VisiblePrimitives(a.Primitives(), a.InsertionPointOCS().Neg())
}
