package domain

import (
	"encoding/json"
	"slices"

	"seehuhn.de/go/geom/vec"
)

// Handle identifies an instance in the host document.
type Handle string

// DefinitionID names a shared graphic definition (the container).
type DefinitionID string

// Attached data group codes, following the host's extended data convention.
const (
	CodeAppName     = 1001
	CodeBinaryChunk = 1004
)

// XDataValue is one typed value of a flattened attached-data record.
type XDataValue struct {
	Code  int `json:"code"`
	Value any `json:"value"`
}

// XData is a chunked binary record attached to a host instance under an
// application name.
type XData struct {
	App    string   `json:"app"`
	Chunks [][]byte `json:"chunks"`
}

// Values flattens the record for host attachment: the application name
// (type marker) followed by one value per chunk.
func (x XData) Values() []XDataValue {
	values := make([]XDataValue, 0, len(x.Chunks)+1)
	values = append(values, XDataValue{Code: CodeAppName, Value: x.App})
	for _, c := range x.Chunks {
		values = append(values, XDataValue{Code: CodeBinaryChunk, Value: slices.Clone(c)})
	}
	return values
}

// Clone returns a deep copy of the record.
func (x XData) Clone() XData {
	out := XData{App: x.App, Chunks: make([][]byte, len(x.Chunks))}
	for i, c := range x.Chunks {
		out.Chunks[i] = slices.Clone(c)
	}
	return out
}

// InstanceRecord is the host's persisted view of a placed annotation.
type InstanceRecord struct {
	Handle         Handle       `json:"handle"`
	TypeName       string       `json:"type"`
	InsertionPoint vec.Vec2     `json:"insertion_point"`
	Rotation       float64      `json:"rotation"`
	ScaleFactorX   float64      `json:"scale_x"`
	Layer          string       `json:"layer,omitempty"`
	Definition     DefinitionID `json:"definition"`
	XData          []XData      `json:"xdata,omitempty"`
	// Proxy marks an object the host will not let the engine modify.
	Proxy bool `json:"proxy,omitempty"`
}

// Clone returns a deep copy of the record.
func (r InstanceRecord) Clone() InstanceRecord {
	out := r
	if r.XData == nil {
		return out
	}
	out.XData = make([]XData, len(r.XData))
	for i, x := range r.XData {
		out.XData[i] = x.Clone()
	}
	return out
}

// SetXData replaces the record for x.App, or appends it.
func (r *InstanceRecord) SetXData(x XData) {
	for i := range r.XData {
		if r.XData[i].App == x.App {
			r.XData[i] = x
			return
		}
	}
	r.XData = append(r.XData, x)
}

// Definition is a shared graphic definition. Primitives are positioned
// relative to the owning instances' insertion point.
type Definition struct {
	ID         DefinitionID
	Primitives []Primitive
}

// Clone returns a copy of the definition with its own primitive slice.
func (d Definition) Clone() Definition {
	return Definition{ID: d.ID, Primitives: slices.Clone(d.Primitives)}
}

type definitionJSON struct {
	ID         DefinitionID    `json:"id"`
	Primitives json.RawMessage `json:"primitives"`
}

func (d Definition) MarshalJSON() ([]byte, error) {
	prims, err := MarshalPrimitives(d.Primitives)
	if err != nil {
		return nil, err
	}
	return json.Marshal(definitionJSON{ID: d.ID, Primitives: prims})
}

func (d *Definition) UnmarshalJSON(data []byte) error {
	var raw definitionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.ID = raw.ID
	d.Primitives = nil
	if len(raw.Primitives) == 0 || string(raw.Primitives) == "null" {
		return nil
	}
	prims, err := UnmarshalPrimitives(raw.Primitives)
	if err != nil {
		return err
	}
	d.Primitives = prims
	return nil
}

// Drawing is a snapshot of a host document: every instance and definition.
type Drawing struct {
	ID          string           `json:"id"`
	Instances   []InstanceRecord `json:"instances"`
	Definitions []Definition     `json:"definitions"`
	// Sequence is the last allocated handle/definition number.
	Sequence int `json:"sequence"`
}
