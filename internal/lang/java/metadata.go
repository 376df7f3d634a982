package java

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/naviscope/naviscope/internal/types"
)

// Metadata is the Java-specific payload attached to a GraphNode (spec
// C5's per-language Metadata extension point), a tagged struct per the
// same Go-idiom the core's types.TypeRef/GraphOp use for the Rust
// original's enums (original_source's JavaIndexMetadata is itself a
// Rust enum: Class | Interface | Enum | Annotation | Method | Field |
// Constructor | Package).
type Metadata struct {
	Kind       MetadataKind
	Modifiers  []string
	ReturnType types.TypeRef   // Method
	Parameters []Parameter     // Method, Constructor
	FieldType  types.TypeRef   // Field
	IsVarargs  bool            // Method, Constructor: last parameter
}

func (Metadata) Lang() string { return "java" }

// MetadataKind discriminates Metadata's variant.
type MetadataKind uint8

const (
	MetaClass MetadataKind = iota
	MetaInterface
	MetaEnum
	MetaAnnotation
	MetaMethod
	MetaField
	MetaConstructor
	MetaPackage
)

// Parameter is one formal parameter of a method or constructor.
type Parameter struct {
	Name    string
	Type    types.TypeRef
	IsFinal bool
}

// Codec (de)serializes Metadata for the on-disk index using MessagePack
// (spec §6 storage), the same library and wire format
// internal/assets.Cache already uses for StubCacheFile.
type Codec struct{}

func (Codec) Encode(m types.Metadata) ([]byte, error) {
	jm, ok := m.(Metadata)
	if !ok {
		return nil, fmt.Errorf("java: codec cannot encode %T", m)
	}
	return msgpack.Marshal(jm)
}

func (Codec) Decode(data []byte) (types.Metadata, error) {
	var jm Metadata
	if err := msgpack.Unmarshal(data, &jm); err != nil {
		return nil, err
	}
	return jm, nil
}
