package assets

// StubCacheFile is the on-disk MessagePack payload for one asset's cache
// file (spec §4.8): `{hex-hash}.stubs` under the cache's base directory.
//
// Grounded on stub_cache.rs's StubCacheFile.
type StubCacheFile struct {
	Version   uint32
	AssetHash uint64
	AssetPath string
	CreatedAt int64 // unix seconds
	Entries   map[string]CachedStub
}

const stubCacheFileVersion uint32 = 1

func newStubCacheFile(asset AssetKey, now int64) *StubCacheFile {
	return &StubCacheFile{
		Version:   stubCacheFileVersion,
		AssetHash: asset.Hash(),
		AssetPath: asset.Path,
		CreatedAt: now,
		Entries:   make(map[string]CachedStub),
	}
}
