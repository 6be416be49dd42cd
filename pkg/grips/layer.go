package grips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/cadmark/internal/logging"
	"github.com/aretw0/cadmark/pkg/container"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/geometry"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/aretw0/cadmark/pkg/schema"
	"seehuhn.de/go/geom/vec"
)

// DefaultTolerance is the distance under which two handles coincide.
const DefaultTolerance = 1e-6

// ErrStaleHandle is reported for a handle that no longer matches its
// instance, e.g. a vertex index past the end of the chain.
var ErrStaleHandle = errors.New("stale grip handle")

// edit is the state of one instance between Collect and Commit or Abort.
type edit struct {
	a        *domain.Annotation
	original *domain.Annotation
	kind     Kind
}

// Layer serves grip handles for the instances of one document.
type Layer struct {
	syncer    *container.Syncer
	surface   ports.ChoiceSurface
	notifier  ports.Notifier
	tolerance float64
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	mu    sync.Mutex
	edits map[domain.Handle]*edit
}

// Option configures the Layer.
type Option func(*Layer)

// WithChoiceSurface sets the menu used by hot handles. Without one, hot
// handles cycle to the next member.
func WithChoiceSurface(s ports.ChoiceSurface) Option {
	return func(l *Layer) {
		l.surface = s
	}
}

// WithNotifier sets where edit failures are reported.
func WithNotifier(n ports.Notifier) Option {
	return func(l *Layer) {
		l.notifier = n
	}
}

// WithTolerance sets the distance under which add-vertex handles are
// dropped as duplicates of another handle.
func WithTolerance(tol float64) Option {
	return func(l *Layer) {
		l.tolerance = tol
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(l *Layer) {
		l.hooks = h
	}
}

// WithLogger configures a logger for the Layer.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Layer) {
		l.logger = logger
	}
}

// NewLayer creates a grip layer over syncer.
func NewLayer(syncer *container.Syncer, opts ...Option) *Layer {
	l := &Layer{
		syncer:    syncer,
		tolerance: DefaultTolerance,
		logger:    logging.NewNop(),
		edits:     make(map[domain.Handle]*edit),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// begin returns the pending edit of h, loading the instance if needed.
func (l *Layer) begin(ctx context.Context, h domain.Handle) (*edit, error) {
	l.mu.Lock()
	e, ok := l.edits[h]
	l.mu.Unlock()
	if ok {
		return e, nil
	}
	a, err := l.syncer.Load(ctx, h)
	if err != nil {
		return nil, err
	}
	e = &edit{a: a, original: a.Clone()}
	l.mu.Lock()
	l.edits[h] = e
	l.mu.Unlock()
	return e, nil
}

func (l *Layer) end(h domain.Handle) (*edit, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.edits[h]
	delete(l.edits, h)
	return e, ok
}

// Annotation returns the annotation under edit for h, if any.
func (l *Layer) Annotation(h domain.Handle) (*domain.Annotation, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.edits[h]
	if !ok {
		return nil, false
	}
	return e.a, true
}

// Collect returns the grip handles of instance h. The host's own move
// handle at the insertion point is dropped from host; any other host
// handle is kept.
func (l *Layer) Collect(ctx context.Context, h domain.Handle, host []Handle) ([]Handle, error) {
	e, err := l.begin(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", h, err)
	}
	a := e.a

	var out []Handle
	for _, g := range host {
		if g.Kind == KindHost && domain.Distance(g.Position, a.InsertionPoint) <= l.tolerance {
			continue
		}
		out = append(out, g)
	}

	verts := a.Vertices()
	for i, v := range verts {
		out = append(out, Handle{Instance: h, Kind: KindVertex, Index: i, Position: v})
	}
	if cp, ok := a.Shape.(domain.CustomPointShape); ok {
		for i, p := range cp.CustomPoints(a) {
			out = append(out, Handle{Instance: h, Kind: KindCustom, Index: i, Position: p})
		}
	}

	if a.Linear != nil && a.HasEndPoint {
		for i := 1; i < len(verts)-1; i++ {
			out = append(out, Handle{Instance: h, Kind: KindRemoveVertex, Index: i, Position: verts[i]})
		}
		var adds []Handle
		for i := 1; i < len(verts); i++ {
			adds = append(adds, Handle{Instance: h, Kind: KindAddVertex, Index: i, Position: vec.Middle(verts[i-1], verts[i])})
		}
		n := len(verts)
		dir := verts[n-1].Sub(verts[n-2])
		if dir.Length() <= geometry.Epsilon {
			dir = a.XAxis()
		}
		adds = append(adds, Handle{Instance: h, Kind: KindAddVertex, Index: n, Position: verts[n-1].Add(dir.Normalize().Mul(l.step(a)))})
		for _, g := range adds {
			if !l.occupied(out, g.Position) {
				out = append(out, g)
			}
		}
		back := verts[0].Sub(verts[1])
		if back.Length() <= geometry.Epsilon {
			back = a.XAxis().Neg()
		}
		out = append(out, Handle{Instance: h, Kind: KindReverse, Position: verts[0].Add(back.Normalize().Mul(l.step(a)))})
	}

	if hs, ok := a.Shape.(domain.HotShape); ok {
		for _, hg := range hs.HotGrips(a) {
			out = append(out, Handle{Instance: h, Kind: KindHot, Property: hg.Property, Position: hg.Position})
		}
	}
	return out, nil
}

// step is the offset of handles placed off the chain.
func (l *Layer) step(a *domain.Annotation) float64 {
	if d := a.MinDistanceWorld(); d > 0 {
		return d
	}
	return a.BlockScale()
}

func (l *Layer) occupied(hs []Handle, p vec.Vec2) bool {
	for _, g := range hs {
		if domain.Distance(g.Position, p) <= l.tolerance {
			return true
		}
	}
	return false
}

// Move drags handle g by delta and flushes the result. Vertex 0 moves the
// whole instance; other vertices keep the minimum distance to their
// neighbours.
func (l *Layer) Move(ctx context.Context, g Handle, delta vec.Vec2) error {
	e, err := l.begin(ctx, g.Instance)
	if err != nil {
		return l.report(ctx, err)
	}
	a := e.a
	minDist := a.MinDistanceWorld()

	switch g.Kind {
	case KindVertex:
		verts := a.Vertices()
		i, n := g.Index, len(verts)
		if i < 0 || i >= n {
			return l.stale(ctx, g)
		}
		p := verts[i].Add(delta)
		switch {
		case i == 0:
			a.MoveBy(delta)
		case i == n-1:
			a.SetVertex(i, geometry.EnforceMinDistance(neighbor(a, verts, i), p, minDist, a.XAxis()))
		default:
			a.SetVertex(i, geometry.EnforceNeighbors(verts[i-1], p, verts[i+1], minDist, a.XAxis()))
		}
	case KindCustom:
		cp, ok := a.Shape.(domain.CustomPointShape)
		if !ok {
			return l.stale(ctx, g)
		}
		pts := cp.CustomPoints(a)
		if g.Index < 0 || g.Index >= len(pts) {
			return l.stale(ctx, g)
		}
		cp.SetCustomPoint(a, g.Index, pts[g.Index].Add(delta))
	case KindAddVertex:
		if !l.insert(a, g.Index, g.Position.Add(delta)) {
			return l.stale(ctx, g)
		}
	default:
		return nil
	}
	e.kind = g.Kind
	return l.flush(ctx, a)
}

// neighbor is the point vertex i keeps its distance to: the shape's choice,
// or the previous vertex of the chain.
func neighbor(a *domain.Annotation, verts []vec.Vec2, i int) vec.Vec2 {
	if ns, ok := a.Shape.(domain.NeighborShape); ok {
		if p, ok := ns.Neighbor(a, i); ok {
			return p
		}
	}
	return verts[i-1]
}

func (l *Layer) insert(a *domain.Annotation, i int, p vec.Vec2) bool {
	if i >= len(a.Vertices()) {
		return a.AppendVertex(p)
	}
	return a.InsertVertex(i, p)
}

// Activate performs the action of a clicked handle: add-vertex inserts a
// vertex at the handle, remove-vertex deletes one, reverse flips the chain
// and hot handles pick the next enum member.
func (l *Layer) Activate(ctx context.Context, g Handle) error {
	e, err := l.begin(ctx, g.Instance)
	if err != nil {
		return l.report(ctx, err)
	}
	a := e.a

	switch g.Kind {
	case KindAddVertex:
		if !l.insert(a, g.Index, g.Position) {
			return l.stale(ctx, g)
		}
	case KindRemoveVertex:
		if !a.RemoveVertex(g.Index) {
			return l.stale(ctx, g)
		}
	case KindReverse:
		if !a.Reverse() {
			return l.stale(ctx, g)
		}
	case KindHot:
		changed, err := l.cycle(ctx, a, g.Property)
		if err != nil {
			return l.report(ctx, err)
		}
		if !changed {
			return nil
		}
	default:
		return nil
	}
	e.kind = g.Kind
	return l.flush(ctx, a)
}

// cycle sets the enum property name to the member picked on the choice
// surface, or to the next member when there is none.
func (l *Layer) cycle(ctx context.Context, a *domain.Annotation, name string) (bool, error) {
	prop, ok := a.Properties().Lookup(name)
	if !ok {
		return false, ErrStaleHandle
	}
	enum, ok := prop.Type.(*schema.EnumType)
	if !ok || len(enum.Members) == 0 {
		return false, ErrStaleHandle
	}
	current, _ := prop.Get(a).(string)

	next := CycleEnum(enum.Members, current)
	if l.surface != nil {
		i, ok, err := l.surface.Choose(ctx, name, enum.Members, enum.Index(current))
		if err != nil {
			return false, err
		}
		if !ok || i < 0 || i >= len(enum.Members) {
			return false, nil
		}
		next = enum.Members[i]
	}
	if next == current {
		return false, nil
	}
	prop.Set(a, next)
	return true, nil
}

func (l *Layer) flush(ctx context.Context, a *domain.Annotation) error {
	_, err := l.syncer.Flush(ctx, a)
	return l.report(ctx, err)
}

// Commit ends the edit of h, publishing its final state.
func (l *Layer) Commit(ctx context.Context, h domain.Handle) error {
	e, ok := l.end(h)
	if !ok {
		return nil
	}
	_, err := l.syncer.Flush(ctx, e.a)
	l.emit(ctx, e, err == nil)
	return l.report(ctx, err)
}

// Abort ends the edit of h and restores the state seen when it began.
func (l *Layer) Abort(ctx context.Context, h domain.Handle) error {
	e, ok := l.end(h)
	if !ok {
		return nil
	}
	restored := e.original.Clone()
	_, err := l.syncer.Flush(ctx, restored)
	l.emit(ctx, e, false)
	return l.report(ctx, err)
}

func (l *Layer) emit(ctx context.Context, e *edit, committed bool) {
	if l.hooks.OnGripEdit == nil {
		return
	}
	l.hooks.OnGripEdit(ctx, &domain.GripEvent{
		EventBase: domain.NewEventBase(domain.EventGripEdit, e.a),
		Kind:      e.kind.String(),
		Committed: committed,
	})
}

// stale reports a handle that no longer matches its instance.
func (l *Layer) stale(ctx context.Context, g Handle) error {
	return l.report(ctx, fmt.Errorf("%w: %s handle %d of %s", ErrStaleHandle, g.Kind, g.Index, g.Instance))
}

// report absorbs an edit failure: transient host rejections are dropped,
// anything else is shown to the user. The host loop never sees it.
func (l *Layer) report(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrProxyObject) {
		l.logger.Debug("grip edit rejected by host", "err", err)
		return nil
	}
	l.logger.Error("grip edit failed", "err", err)
	if l.notifier != nil {
		l.notifier.Notify(ctx, err)
	}
	return nil
}
