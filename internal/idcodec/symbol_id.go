package idcodec

import (
	"github.com/naviscope/naviscope/internal/types"
)

// EncodeFqnId encodes a FqnId to a base-63 string. This is the canonical
// encoding used by the shell/CLI to print compact node references.
func EncodeFqnId(id types.FqnId) string {
	return Encode(uint64(id))
}

// DecodeFqnId decodes a base-63 string to a FqnId.
func DecodeFqnId(encoded string) (types.FqnId, error) {
	value, err := Decode(encoded)
	if err != nil {
		return 0, err
	}
	if value > uint64(^types.FqnId(0)) {
		return 0, ErrOverflow
	}
	return types.FqnId(value), nil
}

// MustDecodeFqnId decodes a base-63 string to a FqnId, panicking on error.
// Use only when the input is known to be valid (e.g. round-tripping a
// value this process itself encoded).
func MustDecodeFqnId(encoded string) types.FqnId {
	id, err := DecodeFqnId(encoded)
	if err != nil {
		panic("idcodec: MustDecodeFqnId: " + err.Error())
	}
	return id
}

// EncodeAtom encodes an Atom to a base-63 string.
func EncodeAtom(id types.Atom) string {
	return Encode(uint64(id))
}

// DecodeAtom decodes a base-63 string to an Atom.
func DecodeAtom(encoded string) (types.Atom, error) {
	value, err := Decode(encoded)
	if err != nil {
		return 0, err
	}
	if value > uint64(^types.Atom(0)) {
		return 0, ErrOverflow
	}
	return types.Atom(value), nil
}
