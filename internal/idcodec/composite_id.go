package idcodec

import (
	"github.com/naviscope/naviscope/internal/types"
)

// CompositeSymbolID packing:
//   - Lower 32 bits: Atom (path or token)
//   - Upper 32 bits: FqnId
//
// Used to produce stable, shell-friendly ids for graph nodes without
// exposing the raw internal NodeIndex.

// EncodeNodeRef encodes an Atom/FqnId pair into a single base-63 string.
func EncodeNodeRef(path types.Atom, fqn types.FqnId) string {
	combined := PackUint32Pair(uint32(path), uint32(fqn))
	return EncodeNoZero(combined)
}

// DecodeNodeRef decodes a base-63 string back into its Atom/FqnId pair.
func DecodeNodeRef(encoded string) (types.Atom, types.FqnId, error) {
	if encoded == "" {
		return 0, 0, ErrEmptyString
	}
	combined, err := Decode(encoded)
	if err != nil {
		return 0, 0, err
	}
	lower, upper := UnpackUint32Pair(combined)
	return types.Atom(lower), types.FqnId(upper), nil
}

// PackFqn packs a FqnId into a uint64 suitable for sorted on-disk storage.
func PackFqn(id types.FqnId) uint64 {
	return uint64(id)
}
