package registry_test

import (
	"testing"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/registry"
	"github.com/aretw0/cadmark/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"seehuhn.de/go/geom/vec"
)

type dot struct{}

func (dot) TypeName() string                                       { return "Dot" }
func (dot) Properties() schema.Table[*domain.Annotation]           { return nil }
func (dot) MinDistance() float64                                   { return 0 }
func (dot) OsnapPoints(*domain.Annotation) []vec.Vec2              { return nil }
func (dot) Clone() domain.Shape                                    { return dot{} }
func (dot) Rebuild(*domain.Annotation) ([]domain.Primitive, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("Dot", func() *domain.Annotation { return domain.NewAnnotation(dot{}) })
	r.Register("example.com/symbols.Arrow, v2", func() *domain.Annotation { return domain.NewAnnotation(dot{}) })

	a, err := r.New("github.com/someone/else.Dot, v0.1.0")
	require.NoError(t, err)
	assert.Equal(t, "Dot", a.TypeName)

	name, ok := r.Resolve("example.com/older/build/symbols.Arrow, v9.9.9")
	assert.True(t, ok)
	assert.Equal(t, "Arrow", name)
	_, ok = r.Resolve("example.com/symbols.Survey, v2")
	assert.False(t, ok)

	assert.True(t, r.Has("Arrow"))
	assert.Equal(t, []string{"Arrow", "Dot"}, r.Names())

	_, err = r.New("Missing")
	assert.ErrorIs(t, err, domain.ErrUnknownType)
}

func TestRegistry_FactoriesReturnFreshInstances(t *testing.T) {
	r := registry.NewRegistry()
	r.Register("Dot", func() *domain.Annotation { return domain.NewAnnotation(dot{}) })

	a, _ := r.New("Dot")
	b, _ := r.New("Dot")
	a.SetInsertionPoint(vec.Vec2{X: 1})
	assert.NotEqual(t, a.InsertionPoint, b.InsertionPoint)
}
