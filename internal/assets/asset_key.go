// Package assets implements the global external-asset stub cache (spec
// C8): identity keys for jars/jmods, the on-disk MessagePack cache file
// per asset, and the lazy-hydration plan/execute path that
// internal/ingest's Executor calls into through the StubPlanner/
// StubExecutor interfaces.
package assets

import (
	"fmt"
	"os"

	"github.com/cespare/xxhash/v2"
)

// AssetKey identifies one external archive by path, size, and
// modification time -- cheap enough to recompute on every scan, stable
// enough that an unchanged jar always maps to the same cache file.
//
// Grounded on stub_cache.rs's AssetKey (path/size/mtime, hashed via
// xxh3_64 over "path:size:mtime"); ported to cespare/xxhash/v2's
// Sum64String since that's the hash the teacher (standardbeagle-lci)
// already uses for fast content-addressing, rather than pulling in a
// second hashing library solely for xxh3.
type AssetKey struct {
	Path  string
	Size  int64
	Mtime int64 // unix seconds
}

// AssetKeyFromPath stats path and builds its AssetKey.
func AssetKeyFromPath(path string) (AssetKey, error) {
	info, err := os.Stat(path)
	if err != nil {
		return AssetKey{}, err
	}
	return AssetKey{Path: path, Size: info.Size(), Mtime: info.ModTime().Unix()}, nil
}

// Hash returns the stable 64-bit identity used as the cache file name
// and the in-memory loaded-cache key.
func (k AssetKey) Hash() uint64 {
	return xxhash.Sum64String(fmt.Sprintf("%s:%d:%d", k.Path, k.Size, k.Mtime))
}
