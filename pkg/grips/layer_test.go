package grips_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/cadmark/pkg/adapters/memory"
	"github.com/aretw0/cadmark/pkg/container"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/grips"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/aretw0/cadmark/pkg/registry"
	"github.com/aretw0/cadmark/pkg/schema"
	"github.com/aretw0/cadmark/pkg/symbols"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

type side int

var sideNames = []string{"Left", "Right", "Both"}

// route is a linear shape with a hot side property.
type route struct {
	Side side
}

func (r *route) TypeName() string                          { return "Route" }
func (r *route) MinDistance() float64                      { return 2 }
func (r *route) OsnapPoints(*domain.Annotation) []vec.Vec2 { return nil }
func (r *route) Clone() domain.Shape                       { c := *r; return &c }

func (r *route) Properties() schema.Table[*domain.Annotation] {
	return schema.Table[*domain.Annotation]{
		schema.EnumProperty("Side", sideNames,
			func(a *domain.Annotation) side { return a.Shape.(*route).Side },
			func(a *domain.Annotation, v side) { a.Shape.(*route).Side = v }),
	}
}

func (r *route) Rebuild(a *domain.Annotation) ([]domain.Primitive, error) {
	var pts []vec.Vec2
	for _, v := range a.Vertices() {
		pts = append(pts, a.ToOCS(v))
	}
	return []domain.Primitive{domain.Polyline{Points: pts}}, nil
}

func (r *route) HotGrips(a *domain.Annotation) []domain.HotGrip {
	return []domain.HotGrip{{Property: "Side", Position: a.InsertionPoint.Add(vec.Vec2{Y: -3})}}
}

func newRoute() *domain.Annotation {
	a := domain.NewAnnotation(&route{})
	a.Linear = &domain.Linear{}
	return a
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, err error) {
	m.Called(ctx, err)
}

type mockSurface struct {
	mock.Mock
}

func (m *mockSurface) Choose(ctx context.Context, title string, options []string, current int) (int, bool, error) {
	args := m.Called(ctx, title, options, current)
	return args.Int(0), args.Bool(1), args.Error(2)
}

type fixture struct {
	doc    *memory.Document
	syncer *container.Syncer
}

func setup(t *testing.T) fixture {
	t.Helper()
	types := registry.NewRegistry()
	types.Register("Route", newRoute)
	doc := memory.NewDocument("grips")
	return fixture{doc: doc, syncer: container.NewSyncer(doc, types)}
}

// place creates a route through pts.
func (f fixture) place(t *testing.T, pts ...vec.Vec2) domain.Handle {
	t.Helper()
	a := newRoute()
	a.SetInsertionPoint(pts[0])
	a.Linear.MiddlePoints = append(a.Linear.MiddlePoints, pts[1:len(pts)-1]...)
	a.SetEndPoint(pts[len(pts)-1])
	require.NoError(t, f.syncer.Create(context.Background(), a))
	return a.Handle
}

func (f fixture) load(t *testing.T, h domain.Handle) *domain.Annotation {
	t.Helper()
	a, err := f.syncer.Load(context.Background(), h)
	require.NoError(t, err)
	return a
}

func find(t *testing.T, hs []grips.Handle, kind grips.Kind, index int) grips.Handle {
	t.Helper()
	for _, g := range hs {
		if g.Kind == kind && g.Index == index {
			return g
		}
	}
	t.Fatalf("no %s handle %d", kind, index)
	return grips.Handle{}
}

func count(hs []grips.Handle, kind grips.Kind) int {
	n := 0
	for _, g := range hs {
		if g.Kind == kind {
			n++
		}
	}
	return n
}

func TestCollect(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 5}, vec.Vec2{X: 10})
	layer := grips.NewLayer(f.syncer)

	host := []grips.Handle{
		{Kind: grips.KindHost, Position: vec.Vec2{}},
		{Kind: grips.KindHost, Position: vec.Vec2{X: 99}},
	}
	hs, err := layer.Collect(ctx, h, host)
	require.NoError(t, err)

	assert.Equal(t, 1, count(hs, grips.KindHost), "the move handle at the insertion point is dropped")
	assert.Equal(t, 3, count(hs, grips.KindVertex))
	assert.Equal(t, 1, count(hs, grips.KindRemoveVertex))
	assert.Equal(t, 3, count(hs, grips.KindAddVertex))
	assert.Equal(t, 1, count(hs, grips.KindReverse))
	assert.Equal(t, 1, count(hs, grips.KindHot))

	ext := find(t, hs, grips.KindAddVertex, 3)
	assert.InDelta(t, 12, ext.Position.X, 1e-9)
	assert.Equal(t, vec.Vec2{X: 2.5}, find(t, hs, grips.KindAddVertex, 1).Position)
}

func TestCollect_AddVertexDedupWithinTolerance(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 10})
	layer := grips.NewLayer(f.syncer, grips.WithTolerance(0.01))

	host := []grips.Handle{{Kind: grips.KindHost, Position: vec.Vec2{X: 5.005}}}
	hs, err := layer.Collect(ctx, h, host)
	require.NoError(t, err)
	assert.Equal(t, 1, count(hs, grips.KindAddVertex), "midpoint add handle collides with a host handle")
}

func TestMove_InteriorVertexSnapsToNeighbour(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 5}, vec.Vec2{X: 10})
	layer := grips.NewLayer(f.syncer)

	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Move(ctx, find(t, hs, grips.KindVertex, 1), vec.Vec2{X: 4.5}))

	a, ok := layer.Annotation(h)
	require.True(t, ok)
	mid := a.Linear.MiddlePoints[0]
	assert.InDelta(t, 8, mid.X, 1e-9)
	assert.InDelta(t, 0, mid.Y, 1e-9)

	// the move was flushed live
	assert.InDelta(t, 8, f.load(t, h).Linear.MiddlePoints[0].X, 1e-6)
}

func TestMove_EndVertexSnapsToSingleNeighbour(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 5}, vec.Vec2{X: 10})
	layer := grips.NewLayer(f.syncer)

	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Move(ctx, find(t, hs, grips.KindVertex, 2), vec.Vec2{X: -4, Y: 1}))
	require.NoError(t, layer.Commit(ctx, h))

	a := f.load(t, h)
	assert.InDelta(t, 2, domain.Distance(a.EndPoint, vec.Vec2{X: 5}), 1e-6)
}

func TestMove_LevelMarkEndKeepsDistanceToObjectPoint(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.syncer.Types().Register("LevelMark", symbols.NewLevelMark)

	a := symbols.NewLevelMark()
	a.SetInsertionPoint(vec.Vec2{})
	a.Shape.(*symbols.LevelMark).ObjectPoint = vec.Vec2{Y: 10}
	a.SetEndPoint(vec.Vec2{X: 5, Y: 10})
	require.NoError(t, f.syncer.Create(ctx, a))
	h := a.Handle
	layer := grips.NewLayer(f.syncer)

	// Close to the base point but far from the object point: kept as dropped.
	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Move(ctx, find(t, hs, grips.KindVertex, 1), vec.Vec2{X: -4.5, Y: -10}))
	require.NoError(t, layer.Commit(ctx, h))

	end := f.load(t, h).EndPoint
	assert.InDelta(t, 0.5, end.X, 1e-6)
	assert.InDelta(t, 0, end.Y, 1e-6)

	// Next to the object point: pushed out to the minimum distance from it.
	hs, err = layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Move(ctx, find(t, hs, grips.KindVertex, 1), vec.Vec2{Y: 10}))
	require.NoError(t, layer.Commit(ctx, h))

	end = f.load(t, h).EndPoint
	assert.InDelta(t, 1, end.X, 1e-6)
	assert.InDelta(t, 10, end.Y, 1e-6)
}

func TestMove_FirstVertexMovesInstance(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 5}, vec.Vec2{X: 10})
	layer := grips.NewLayer(f.syncer)

	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Move(ctx, find(t, hs, grips.KindVertex, 0), vec.Vec2{X: 1, Y: 1}))
	require.NoError(t, layer.Commit(ctx, h))

	a := f.load(t, h)
	assert.InDelta(t, 1, a.InsertionPoint.X, 1e-6)
	assert.InDelta(t, 11, a.EndPoint.X, 1e-6)
	assert.InDelta(t, 1, a.EndPoint.Y, 1e-6)
}

func TestActivate_AddRemoveReverse(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 10})
	layer := grips.NewLayer(f.syncer)

	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Activate(ctx, find(t, hs, grips.KindAddVertex, 1)))
	a, _ := layer.Annotation(h)
	assert.Equal(t, []vec.Vec2{{}, {X: 5}, {X: 10}}, a.Vertices())

	hs, err = layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Activate(ctx, find(t, hs, grips.KindAddVertex, 3)))
	assert.Len(t, a.Vertices(), 4)

	hs, err = layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Activate(ctx, find(t, hs, grips.KindRemoveVertex, 1)))
	assert.Len(t, a.Vertices(), 3)

	require.NoError(t, layer.Activate(ctx, find(t, hs, grips.KindReverse, 0)))
	require.NoError(t, layer.Commit(ctx, h))

	stored := f.load(t, h)
	assert.InDelta(t, 12, stored.InsertionPoint.X, 1e-6)
	assert.InDelta(t, 0, stored.EndPoint.X, 1e-6)
}

func TestActivate_HotCyclesWithoutSurface(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 10})
	layer := grips.NewLayer(f.syncer)

	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	hot := find(t, hs, grips.KindHot, 0)
	require.NoError(t, layer.Activate(ctx, hot))
	require.NoError(t, layer.Commit(ctx, h))

	assert.Equal(t, side(1), f.load(t, h).Shape.(*route).Side)
}

func TestActivate_HotUsesChoiceSurface(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 10})
	surface := new(mockSurface)
	surface.On("Choose", ctx, "Side", sideNames, 0).Return(2, true, nil).Once()
	layer := grips.NewLayer(f.syncer, grips.WithChoiceSurface(surface))

	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Activate(ctx, find(t, hs, grips.KindHot, 0)))
	require.NoError(t, layer.Commit(ctx, h))

	assert.Equal(t, side(2), f.load(t, h).Shape.(*route).Side)
	surface.AssertExpectations(t)
}

func TestAbort_RestoresCollectedState(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 5}, vec.Vec2{X: 10})
	var events []*domain.GripEvent
	layer := grips.NewLayer(f.syncer, grips.WithHooks(domain.LifecycleHooks{
		OnGripEdit: func(_ context.Context, e *domain.GripEvent) { events = append(events, e) },
	}))

	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, layer.Move(ctx, find(t, hs, grips.KindVertex, 1), vec.Vec2{Y: 3}))
	require.NoError(t, layer.Abort(ctx, h))

	assert.InDelta(t, 0, f.load(t, h).Linear.MiddlePoints[0].Y, 1e-6)
	require.Len(t, events, 1)
	assert.False(t, events[0].Committed)
	assert.Equal(t, "vertex", events[0].Kind)
	_, ok := layer.Annotation(h)
	assert.False(t, ok)
}

func TestMove_ProxyRejectionIsSwallowed(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 10})
	require.NoError(t, f.doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
		rec, err := tx.Instance(h)
		if err != nil {
			return err
		}
		rec.Proxy = true
		return tx.PutInstance(rec)
	}))

	notifier := new(mockNotifier)
	layer := grips.NewLayer(f.syncer, grips.WithNotifier(notifier))
	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)

	assert.NoError(t, layer.Move(ctx, find(t, hs, grips.KindVertex, 1), vec.Vec2{Y: 3}))
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestMove_FailureIsNotified(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 10})

	notifier := new(mockNotifier)
	notifier.On("Notify", ctx, mock.MatchedBy(func(err error) bool {
		return errors.Is(err, domain.ErrInstanceNotFound)
	})).Once()
	layer := grips.NewLayer(f.syncer, grips.WithNotifier(notifier))

	hs, err := layer.Collect(ctx, h, nil)
	require.NoError(t, err)
	require.NoError(t, f.syncer.Erase(ctx, h))

	assert.NoError(t, layer.Move(ctx, find(t, hs, grips.KindVertex, 1), vec.Vec2{Y: 3}))
	notifier.AssertExpectations(t)
}

func TestMove_StaleHandle(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	h := f.place(t, vec.Vec2{}, vec.Vec2{X: 10})
	notifier := new(mockNotifier)
	notifier.On("Notify", ctx, mock.MatchedBy(func(err error) bool {
		return errors.Is(err, grips.ErrStaleHandle)
	})).Times(3)
	layer := grips.NewLayer(f.syncer, grips.WithNotifier(notifier))

	assert.NoError(t, layer.Move(ctx, grips.Handle{Instance: h, Kind: grips.KindVertex, Index: 7}, vec.Vec2{}))
	assert.NoError(t, layer.Move(ctx, grips.Handle{Instance: h, Kind: grips.KindCustom}, vec.Vec2{X: 1}))
	assert.NoError(t, layer.Activate(ctx, grips.Handle{Instance: h, Kind: grips.KindRemoveVertex, Index: 1}))
	notifier.AssertExpectations(t)

	// the instance is left as it was
	assert.InDelta(t, 10, f.load(t, h).EndPoint.X, 1e-6)
}
