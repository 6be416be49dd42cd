package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/ports"
)

// Document implements ports.Document in memory.
// A transaction works on a copy of the drawing that replaces the committed
// state only when the transaction succeeds. Safe for concurrent use.
type Document struct {
	id string

	mu      sync.RWMutex
	state   drawingState
	flushes int
}

type drawingState struct {
	instances   map[domain.Handle]domain.InstanceRecord
	definitions map[domain.DefinitionID]domain.Definition
	seq         int
}

func (s drawingState) clone() drawingState {
	out := drawingState{
		instances:   make(map[domain.Handle]domain.InstanceRecord, len(s.instances)),
		definitions: make(map[domain.DefinitionID]domain.Definition, len(s.definitions)),
		seq:         s.seq,
	}
	for h, rec := range s.instances {
		out.instances[h] = rec.Clone()
	}
	for id, def := range s.definitions {
		out.definitions[id] = def.Clone()
	}
	return out
}

// NewDocument creates an empty drawing.
func NewDocument(id string) *Document {
	return &Document{
		id: id,
		state: drawingState{
			instances:   make(map[domain.Handle]domain.InstanceRecord),
			definitions: make(map[domain.DefinitionID]domain.Definition),
		},
	}
}

// FromDrawing creates a document holding a copy of the snapshot d.
func FromDrawing(d *domain.Drawing) *Document {
	doc := NewDocument(d.ID)
	for _, rec := range d.Instances {
		doc.state.instances[rec.Handle] = rec.Clone()
	}
	for _, def := range d.Definitions {
		doc.state.definitions[def.ID] = def.Clone()
	}
	doc.state.seq = d.Sequence
	return doc
}

// ID returns the drawing id.
func (d *Document) ID() string { return d.id }

// Drawing returns a snapshot of the committed state.
func (d *Document) Drawing() *domain.Drawing {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s := d.state.clone()
	out := &domain.Drawing{ID: d.id, Sequence: s.seq}
	for _, h := range sortedKeys(s.instances) {
		out.Instances = append(out.Instances, s.instances[h])
	}
	for _, id := range sortedKeys(s.definitions) {
		out.Definitions = append(out.Definitions, s.definitions[id])
	}
	return out
}

// Flushes counts the graphics flushes requested so far.
func (d *Document) Flushes() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.flushes
}

// RunInTransaction runs fn on a copy of the drawing and commits the copy
// when fn succeeds.
func (d *Document) RunInTransaction(ctx context.Context, fn func(tx ports.Transaction) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	tx := &transaction{state: d.state.clone()}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", domain.ErrTransaction, r)
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	d.state = tx.state
	return nil
}

// View runs fn on a copy of the drawing. Nothing is committed.
func (d *Document) View(ctx context.Context, fn func(tx ports.Transaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return fn(&transaction{state: d.state.clone()})
}

// FlushGraphics records a display flush.
func (d *Document) FlushGraphics(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.flushes++
	return nil
}

type transaction struct {
	state drawingState
}

func (tx *transaction) Instance(h domain.Handle) (domain.InstanceRecord, error) {
	rec, ok := tx.state.instances[h]
	if !ok {
		return domain.InstanceRecord{}, fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, h)
	}
	return rec.Clone(), nil
}

func (tx *transaction) PutInstance(rec domain.InstanceRecord) error {
	if rec.Handle == "" {
		return fmt.Errorf("%w: empty handle", domain.ErrInstanceNotFound)
	}
	if old, ok := tx.state.instances[rec.Handle]; ok && old.Proxy {
		return fmt.Errorf("%w: %s", domain.ErrProxyObject, rec.Handle)
	}
	tx.state.instances[rec.Handle] = rec.Clone()
	return nil
}

func (tx *transaction) EraseInstance(h domain.Handle) error {
	rec, ok := tx.state.instances[h]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrInstanceNotFound, h)
	}
	if rec.Proxy {
		return fmt.Errorf("%w: %s", domain.ErrProxyObject, h)
	}
	delete(tx.state.instances, h)
	return nil
}

func (tx *transaction) Instances() []domain.InstanceRecord {
	out := make([]domain.InstanceRecord, 0, len(tx.state.instances))
	for _, h := range sortedKeys(tx.state.instances) {
		out = append(out, tx.state.instances[h].Clone())
	}
	return out
}

func (tx *transaction) Definition(id domain.DefinitionID) (domain.Definition, error) {
	def, ok := tx.state.definitions[id]
	if !ok {
		return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, id)
	}
	return def.Clone(), nil
}

func (tx *transaction) CreateDefinition(prims []domain.Primitive) (domain.DefinitionID, error) {
	tx.state.seq++
	id := domain.DefinitionID("*U" + strconv.Itoa(tx.state.seq))
	tx.state.definitions[id] = domain.Definition{ID: id, Primitives: slices.Clone(prims)}
	return id, nil
}

func (tx *transaction) ReplaceDefinition(id domain.DefinitionID, prims []domain.Primitive) error {
	if _, ok := tx.state.definitions[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, id)
	}
	tx.state.definitions[id] = domain.Definition{ID: id, Primitives: slices.Clone(prims)}
	return nil
}

func (tx *transaction) EraseDefinition(id domain.DefinitionID) error {
	if _, ok := tx.state.definitions[id]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, id)
	}
	delete(tx.state.definitions, id)
	return nil
}

func (tx *transaction) References(id domain.DefinitionID) int {
	n := 0
	for _, rec := range tx.state.instances {
		if rec.Definition == id {
			n++
		}
	}
	return n
}

func (tx *transaction) NewHandle() domain.Handle {
	tx.state.seq++
	return domain.Handle(strings.ToUpper(strconv.FormatInt(int64(tx.state.seq), 16)))
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b K) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(string(a), string(b))
	})
	return keys
}
