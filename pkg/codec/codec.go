package codec

import (
	"fmt"
	"slices"

	"github.com/aretw0/cadmark/pkg/domain"
	"github.com/aretw0/cadmark/pkg/schema"
)

// Properties applied before all others, in this order. Later setters may
// depend on the current scale.
var leading = []string{"LineTypeScale", "Scale"}

// Serialize builds the blob of every persisted property of a.
func Serialize(a *domain.Annotation) (Blob, error) {
	f := newFrame(a)
	b := Blob{Type: QualifiedName(a.TypeName)}
	for _, p := range a.Properties() {
		if p.Skip(a) {
			continue
		}
		s, err := f.format(p.Type, p.Get(a))
		if err != nil {
			return Blob{}, fmt.Errorf("%w: property %q: %v", domain.ErrSerialization, p.Name, err)
		}
		b.Values = append(b.Values, Entry{Name: p.Name, Value: s})
	}
	return b, nil
}

// Store serializes a and attaches the record to rec, replacing any earlier
// record of the same type.
func Store(a *domain.Annotation, rec *domain.InstanceRecord) error {
	b, err := Serialize(a)
	if err != nil {
		return err
	}
	x, err := Encode(b)
	if err != nil {
		return err
	}
	rec.SetXData(x)
	return nil
}

// Deserialize restores a from the record tagged with its own type.
// The placement of a must already match the host instance. On error a is
// left untouched.
func Deserialize(records []domain.XData, a *domain.Annotation) error {
	x, ok := Find(records, AppName(a.TypeName))
	if !ok {
		return fmt.Errorf("%w: no record for %s", domain.ErrSerialization, a.TypeName)
	}
	b, err := Decode(x)
	if err != nil {
		return err
	}
	if name := SimpleTypeName(b.Type); name != a.TypeName {
		return fmt.Errorf("%w: %q is not %s", domain.ErrForeignBlob, name, a.TypeName)
	}
	return Apply(b, a)
}

// Apply parses every value of b, then sets them on a. Nothing is set unless
// every known value parses and validates. Unknown names are ignored.
func Apply(b Blob, a *domain.Annotation) error {
	table := a.Properties()
	f := newFrame(a)

	values := make(map[string]any, len(b.Values))
	var errs []error
	for _, e := range b.Values {
		p, ok := table.Lookup(e.Name)
		if !ok {
			continue
		}
		v, err := f.parse(p.Type, e.Value)
		if err != nil {
			errs = append(errs, &schema.ValidationError{Key: e.Name, Reason: err.Error(), Value: e.Value})
			continue
		}
		values[e.Name] = v
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrSerialization, &schema.AggregateError{Errors: errs})
	}
	if err := table.Validate(values); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSerialization, err)
	}

	for _, name := range leading {
		if p, ok := table.Lookup(name); ok {
			if v, ok := values[name]; ok {
				p.Set(a, v)
			}
		}
	}
	for _, p := range table {
		if slices.Contains(leading, p.Name) {
			continue
		}
		if v, ok := values[p.Name]; ok {
			p.Set(a, v)
		}
	}
	return nil
}
