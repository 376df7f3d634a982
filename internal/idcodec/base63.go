// Package idcodec provides compact, stable string encodings for the
// small integer handles (Atom, FqnId) that flow through the on-disk
// index file and the shell's display layer.
//
// Base-63 Alphabet: A-Z (0-25), a-z (26-51), 0-9 (52-61), _ (62)
// This provides ~6 character ids for typical projects (vs ~16 for hex).
package idcodec

import (
	"errors"
	"fmt"
)

const (
	Base     = 63
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_"
)

var (
	ErrEmptyString = errors.New("empty encoded string")
	ErrInvalidChar = errors.New("invalid character in encoded string")
	ErrOverflow    = errors.New("decoded value overflow")
)

// Encode encodes a uint64 value to a base-63 string.
// Returns "A" for zero (minimum non-empty encoding).
func Encode(value uint64) string {
	if value == 0 {
		return "A"
	}

	var buf [11]byte
	pos := len(buf)

	for value > 0 {
		pos--
		buf[pos] = Alphabet[value%Base]
		value /= Base
	}

	return string(buf[pos:])
}

// EncodeNoZero encodes a uint64 value to a base-63 string, returning the
// empty string for zero (used where 0 means "absent").
func EncodeNoZero(value uint64) string {
	if value == 0 {
		return ""
	}
	return Encode(value)
}

// Decode decodes a base-63 string back to a uint64 value.
func Decode(encoded string) (uint64, error) {
	if encoded == "" {
		return 0, ErrEmptyString
	}

	var value uint64
	for _, c := range encoded {
		charVal, err := charToValue(c)
		if err != nil {
			return 0, err
		}
		if value > (^uint64(0))/Base {
			return 0, ErrOverflow
		}
		value = value*Base + charVal
	}
	return value, nil
}

// IsValid reports whether encoded is a well-formed base-63 string.
func IsValid(encoded string) bool {
	if encoded == "" {
		return false
	}
	for _, c := range encoded {
		if _, err := charToValue(c); err != nil {
			return false
		}
	}
	return true
}

func charToValue(c rune) (uint64, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return uint64(c - 'A'), nil
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 26, nil
	case c >= '0' && c <= '9':
		return uint64(c-'0') + 52, nil
	case c == '_':
		return 62, nil
	default:
		return 0, fmt.Errorf("%w: %c", ErrInvalidChar, c)
	}
}

// PackUint32Pair packs two uint32 values into a single uint64, used to
// fold an (FqnId, NodeKind) or (Atom, generation) pair into one map key.
func PackUint32Pair(lower, upper uint32) uint64 {
	return uint64(lower) | (uint64(upper) << 32)
}

// UnpackUint32Pair reverses PackUint32Pair.
func UnpackUint32Pair(packed uint64) (lower, upper uint32) {
	lower = uint32(packed & 0xFFFFFFFF)
	upper = uint32((packed >> 32) & 0xFFFFFFFF)
	return
}
