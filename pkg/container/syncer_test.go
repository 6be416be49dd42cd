package container_test

import (
	"context"
	"testing"

	"github.com/aretw0/cadmark/pkg/adapters/memory"
	"github.com/aretw0/cadmark/pkg/container"
	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/geometry"
	"github.com/aretw0/cadmark/pkg/ports"
	"github.com/aretw0/cadmark/pkg/registry"
	"github.com/aretw0/cadmark/pkg/schema"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

// bar draws a line from the insertion point to the end point and a label,
// optionally with a background mask behind the label.
type bar struct {
	Label  string
	Masked bool
}

func (b *bar) TypeName() string                          { return "Bar" }
func (b *bar) MinDistance() float64                      { return 1 }
func (b *bar) OsnapPoints(*domain.Annotation) []vec.Vec2 { return nil }
func (b *bar) Clone() domain.Shape                       { c := *b; return &c }

func (b *bar) Properties() schema.Table[*domain.Annotation] {
	return schema.Table[*domain.Annotation]{
		schema.StringProperty("Label",
			func(a *domain.Annotation) string { return a.Shape.(*bar).Label },
			func(a *domain.Annotation, v string) { a.Shape.(*bar).Label = v }),
	}
}

func (b *bar) Rebuild(a *domain.Annotation) ([]domain.Primitive, error) {
	end := a.ToOCS(a.EndPoint)
	label := domain.Text{Position: end, Value: b.Label, Height: 2.5}
	prims := []domain.Primitive{
		domain.Line{Start: a.InsertionPointOCS(), End: end},
		label,
	}
	if b.Masked {
		prims = append(prims, domain.Mask{Outline: geometry.TextBox(label, 0.5)})
	}
	return prims, nil
}

func newBar(label string) *domain.Annotation {
	return domain.NewAnnotation(&bar{Label: label})
}

type fixture struct {
	doc    *memory.Document
	syncer *container.Syncer
}

func setup(t *testing.T, opts ...container.Option) fixture {
	t.Helper()
	types := registry.NewRegistry()
	types.Register("Bar", func() *domain.Annotation { return newBar("") })
	doc := memory.NewDocument("test")
	return fixture{doc: doc, syncer: container.NewSyncer(doc, types, opts...)}
}

func (f fixture) create(t *testing.T, ip, end vec.Vec2, label string) *domain.Annotation {
	t.Helper()
	a := newBar(label)
	a.SetInsertionPoint(ip)
	a.SetEndPoint(end)
	require.NoError(t, f.syncer.Create(context.Background(), a))
	return a
}

func (f fixture) definition(t *testing.T, id domain.DefinitionID) domain.Definition {
	t.Helper()
	var def domain.Definition
	require.NoError(t, f.doc.View(context.Background(), func(tx ports.Transaction) error {
		var err error
		def, err = tx.Definition(id)
		return err
	}))
	return def
}

func (f fixture) references(t *testing.T, id domain.DefinitionID) int {
	t.Helper()
	var n int
	require.NoError(t, f.doc.View(context.Background(), func(tx ports.Transaction) error {
		n = tx.References(id)
		return nil
	}))
	return n
}

func TestCreate_PrimitivesRelativeToInsertionPoint(t *testing.T) {
	f := setup(t)
	a := newBar("A")
	a.SetPlacement(vec.Vec2{X: 10, Y: 10}, 0.3, 2)
	a.SetEndPoint(vec.Vec2{X: 20, Y: 10})
	require.NoError(t, f.syncer.Create(context.Background(), a))

	assert.NotEmpty(t, a.Handle)
	def := f.definition(t, a.Definition)
	require.Len(t, def.Primitives, 2)
	line := def.Primitives[0].(domain.Line)
	assert.InDelta(t, 0, line.Start.Length(), 1e-9, "container origin is the insertion point")
	assert.Equal(t, 1, f.doc.Flushes())
}

func TestCreate_MaskTravelsWithItsText(t *testing.T) {
	f := setup(t)
	a := newBar("M")
	a.Shape.(*bar).Masked = true
	a.SetPlacement(vec.Vec2{X: 10, Y: 10}, 0.3, 2)
	a.SetEndPoint(vec.Vec2{X: 20, Y: 10})
	require.NoError(t, f.syncer.Create(context.Background(), a))

	def := f.definition(t, a.Definition)
	require.Len(t, def.Primitives, 3)
	text := def.Primitives[1].(domain.Text)
	mask, ok := def.Primitives[2].(domain.Mask)
	require.True(t, ok)
	if diff := cmp.Diff(geometry.TextBox(text, 0.5), mask.Outline, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("mask not aligned with its text (-want +got):\n%s", diff)
	}
}

func TestFlush_InPlaceWhenSolelyReferenced(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.create(t, vec.Vec2{}, vec.Vec2{X: 5}, "A")
	before := a.Definition

	a.Shape.(*bar).Label = "B"
	def, err := f.syncer.Flush(ctx, a)
	require.NoError(t, err)

	assert.Equal(t, before, def)
	assert.Equal(t, "B", f.definition(t, def).Primitives[1].(domain.Text).Value)

	loaded, err := f.syncer.Load(ctx, a.Handle)
	require.NoError(t, err)
	assert.Equal(t, "B", loaded.Shape.(*bar).Label)
	assert.Len(t, loaded.Primitives(), 2)
}

func TestFlush_SharedContainerIsNeverMutated(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.create(t, vec.Vec2{}, vec.Vec2{X: 5}, "A")
	shared := a.Definition

	h, err := f.syncer.Copy(ctx, a.Handle, vec.Vec2{Y: 20})
	require.NoError(t, err)
	require.Equal(t, 2, f.references(t, shared))
	original := f.definition(t, shared)

	b, err := f.syncer.Load(ctx, h)
	require.NoError(t, err)
	b.Shape.(*bar).Label = "changed"
	b.SetEndPoint(b.EndPoint.Add(vec.Vec2{X: 3}))
	def, err := f.syncer.Flush(ctx, b)
	require.NoError(t, err)

	assert.NotEqual(t, shared, def)
	assert.Equal(t, original, f.definition(t, shared), "the other instance keeps its geometry")
	assert.Equal(t, 1, f.references(t, shared))
	assert.Equal(t, 1, f.references(t, def))
	assert.Equal(t, "changed", f.definition(t, def).Primitives[1].(domain.Text).Value)
}

func TestFlushAfterUndo_AllocatesFreshContainer(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	t.Run("prior container missing", func(t *testing.T) {
		a := f.create(t, vec.Vec2{}, vec.Vec2{X: 5}, "A")
		require.NoError(t, f.doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
			return tx.EraseDefinition(a.Definition)
		}))

		def, err := f.syncer.FlushAfterUndo(ctx, a)
		require.NoError(t, err)
		assert.Len(t, f.definition(t, def).Primitives, 2)
	})

	t.Run("prior container present", func(t *testing.T) {
		a := f.create(t, vec.Vec2{}, vec.Vec2{X: 5}, "A")
		old := a.Definition

		def, err := f.syncer.FlushAfterUndo(ctx, a)
		require.NoError(t, err)
		assert.NotEqual(t, old, def)
		assert.Zero(t, f.references(t, old))
		err = f.doc.View(ctx, func(tx ports.Transaction) error {
			_, err := tx.Definition(old)
			assert.ErrorIs(t, err, domain.ErrDefinitionNotFound, "orphaned container is erased")
			return nil
		})
		require.NoError(t, err)
	})
}

func TestFlush_MissingContainerIsRecreated(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.create(t, vec.Vec2{}, vec.Vec2{X: 5}, "A")
	require.NoError(t, f.doc.RunInTransaction(ctx, func(tx ports.Transaction) error {
		return tx.EraseDefinition(a.Definition)
	}))

	def, err := f.syncer.Flush(ctx, a)
	require.NoError(t, err)
	assert.Len(t, f.definition(t, def).Primitives, 2)
}

func TestFlush_ProxyRejectionAbandonsTransaction(t *testing.T) {
	types := registry.NewRegistry()
	types.Register("Bar", func() *domain.Annotation { return newBar("") })
	doc := memory.FromDrawing(&domain.Drawing{
		ID:          "proxy",
		Instances:   []domain.InstanceRecord{{Handle: "P", TypeName: "Bar", ScaleFactorX: 1, Definition: "*U1", Proxy: true}},
		Definitions: []domain.Definition{{ID: "*U1"}},
		Sequence:    1,
	})
	syncer := container.NewSyncer(doc, types)
	ctx := context.Background()

	a, err := syncer.Load(ctx, "P")
	require.NoError(t, err)
	a.SetEndPoint(vec.Vec2{X: 4})

	_, err = syncer.Flush(ctx, a)
	assert.ErrorIs(t, err, domain.ErrProxyObject)
	assert.Equal(t, doc.Drawing().Definitions[0], domain.Definition{ID: "*U1"}, "no partial write")
	assert.Zero(t, doc.Flushes())
}

func TestLoad_UnusableBlobFallsBackToDefaults(t *testing.T) {
	types := registry.NewRegistry()
	types.Register("Bar", func() *domain.Annotation { return newBar("default") })
	doc := memory.FromDrawing(&domain.Drawing{
		ID: "foreign",
		Instances: []domain.InstanceRecord{{
			Handle: "F", TypeName: "Bar", ScaleFactorX: 1,
			XData: []domain.XData{{App: "mpBar", Chunks: [][]byte{[]byte("garbage")}}},
		}},
	})

	a, err := container.NewSyncer(doc, types).Load(context.Background(), "F")
	require.NoError(t, err)
	assert.Equal(t, "default", a.Shape.(*bar).Label)
}

func TestErase(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	a := f.create(t, vec.Vec2{}, vec.Vec2{X: 5}, "A")
	h, err := f.syncer.Copy(ctx, a.Handle, vec.Vec2{X: 1})
	require.NoError(t, err)

	require.NoError(t, f.syncer.Erase(ctx, a.Handle))
	assert.Equal(t, 1, f.references(t, a.Definition), "shared container survives")

	require.NoError(t, f.syncer.Erase(ctx, h))
	snap := f.doc.Drawing()
	assert.Empty(t, snap.Instances)
	assert.Empty(t, snap.Definitions)
}

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) WithLock(ctx context.Context, key string, fn func(context.Context) error) error {
	m.Called(key)
	return fn(ctx)
}

func TestWritesHoldTheDrawingLock(t *testing.T) {
	locker := &mockLocker{}
	locker.On("WithLock", "test").Times(2)
	f := setup(t, container.WithLocker(locker))

	a := f.create(t, vec.Vec2{}, vec.Vec2{X: 5}, "A")
	_, err := f.syncer.Flush(context.Background(), a)
	require.NoError(t, err)

	locker.AssertExpectations(t)
}
