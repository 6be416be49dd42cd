package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/cadmark/pkg/domain"
)

// ChunkSize is the largest chunk attached to a host instance.
const ChunkSize = 127

// AppPrefix prefixes the type name in the application name of a record.
const AppPrefix = "mp"

// Namespace and BuildVersion qualify type names written to new blobs.
// Readers only compare the simple name, so either may change freely.
var (
	Namespace    = "github.com/aretw0/cadmark/pkg/symbols"
	BuildVersion = "v0"
)

// AppName returns the application name records of typeName are stored under.
func AppName(typeName string) string {
	return AppPrefix + typeName
}

// QualifiedName returns the build-specific type name written into blobs.
func QualifiedName(typeName string) string {
	return fmt.Sprintf("%s.%s, %s", Namespace, typeName, BuildVersion)
}

// SimpleTypeName strips namespace and build identity from a qualified name:
// "github.com/x/symbols.Leader, v1.2" becomes "Leader".
func SimpleTypeName(qualified string) string {
	name, _, _ := strings.Cut(qualified, ",")
	name = strings.TrimSpace(name)
	if i := strings.LastIndexAny(name, "./"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Entry is one persisted property.
type Entry struct {
	Name  string
	Value string
}

func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.Name, e.Value})
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var pair [2]string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	e.Name, e.Value = pair[0], pair[1]
	return nil
}

// Blob is the decoded content of a parameter record.
type Blob struct {
	Type   string  `json:"type"`
	Values []Entry `json:"values"`
}

// Get returns the raw value stored under name.
func (b Blob) Get(name string) (string, bool) {
	for _, e := range b.Values {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// Encode chunks the blob into a record for the owner type.
func Encode(b Blob) (domain.XData, error) {
	payload, err := json.Marshal(b)
	if err != nil {
		return domain.XData{}, fmt.Errorf("encode blob: %w", err)
	}
	x := domain.XData{App: AppName(SimpleTypeName(b.Type))}
	for len(payload) > 0 {
		n := min(ChunkSize, len(payload))
		x.Chunks = append(x.Chunks, bytes.Clone(payload[:n]))
		payload = payload[n:]
	}
	return x, nil
}

// Decode joins the chunks of a record and decodes the blob.
func Decode(x domain.XData) (Blob, error) {
	var b Blob
	if len(x.Chunks) == 0 {
		return b, fmt.Errorf("%w: empty record %q", domain.ErrSerialization, x.App)
	}
	if err := json.Unmarshal(bytes.Join(x.Chunks, nil), &b); err != nil {
		return Blob{}, fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}
	return b, nil
}

// Find returns the record stored under app.
func Find(records []domain.XData, app string) (domain.XData, bool) {
	for _, x := range records {
		if x.App == app {
			return x, true
		}
	}
	return domain.XData{}, false
}
