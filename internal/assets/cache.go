package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Cache is the global external-asset stub cache (spec §4.8): one
// MessagePack file per distinct AssetKey hash, loaded on first touch and
// kept resident for the life of the process.
//
// Grounded on stub_cache.rs's GlobalStubCache: same on-disk layout
// (`{hex-hash}.stubs` under base_dir), same invariant (a stub file whose
// recorded AssetHash disagrees with the asset's current hash is treated
// as absent -- the archive was replaced). "In-memory LRU indexed by
// hash" in spec prose is implemented as an unbounded map guarded by one
// RWMutex, same as the Rust original's `Arc<RwLock<HashMap<u64, ...>>>`
// (it, too, never evicts -- one entry per distinct archive touched in a
// run, which is bounded by the project's own dependency count).
type Cache struct {
	baseDir string

	mu     sync.RWMutex
	loaded map[uint64]*lockedFile
}

type lockedFile struct {
	mu   sync.RWMutex
	file *StubCacheFile
}

// NewCache creates a Cache rooted at baseDir, creating the directory if
// it doesn't exist.
func NewCache(baseDir string) *Cache {
	_ = os.MkdirAll(baseDir, 0o755)
	return &Cache{baseDir: baseDir, loaded: make(map[uint64]*lockedFile)}
}

// DefaultLocation mirrors the Rust original's $HOME/.naviscope/stub_cache.
func DefaultLocation() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".naviscope", "stub_cache")
}

// AtDefaultLocation creates a Cache at DefaultLocation().
func AtDefaultLocation() *Cache {
	return NewCache(DefaultLocation())
}

func (c *Cache) cachePath(hash uint64) string {
	return filepath.Join(c.baseDir, fmt.Sprintf("%016x.stubs", hash))
}

// getOrCreate returns the resident cache file for asset, loading it from
// disk (or starting a fresh one) on first touch.
func (c *Cache) getOrCreate(asset AssetKey) *lockedFile {
	hash := asset.Hash()

	c.mu.RLock()
	if lf, ok := c.loaded[hash]; ok {
		c.mu.RUnlock()
		return lf
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if lf, ok := c.loaded[hash]; ok {
		return lf
	}

	file := c.loadFromDisk(asset, hash)
	lf := &lockedFile{file: file}
	c.loaded[hash] = lf
	return lf
}

func (c *Cache) loadFromDisk(asset AssetKey, hash uint64) *StubCacheFile {
	bytes, err := os.ReadFile(c.cachePath(hash))
	if err != nil {
		return newStubCacheFile(asset, time.Now().Unix())
	}

	var file StubCacheFile
	if err := msgpack.Unmarshal(bytes, &file); err != nil || file.AssetHash != hash {
		return newStubCacheFile(asset, time.Now().Unix())
	}
	return &file
}

// Lookup returns the cached stub for fqn under asset, if present.
func (c *Cache) Lookup(asset AssetKey, fqn string) (CachedStub, bool) {
	lf := c.getOrCreate(asset)
	lf.mu.RLock()
	defer lf.mu.RUnlock()
	stub, ok := lf.file.Entries[fqn]
	return stub, ok
}

// Store inserts stub under fqn and persists the asset's cache file to
// disk immediately (auto-persist, matching the Rust original's store()).
func (c *Cache) Store(asset AssetKey, fqn string, stub CachedStub) error {
	lf := c.getOrCreate(asset)
	lf.mu.Lock()
	lf.file.Entries[fqn] = stub
	lf.mu.Unlock()
	return c.save(asset, lf)
}

func (c *Cache) save(asset AssetKey, lf *lockedFile) error {
	lf.mu.RLock()
	bytes, err := msgpack.Marshal(lf.file)
	lf.mu.RUnlock()
	if err != nil {
		return err
	}
	return os.WriteFile(c.cachePath(asset.Hash()), bytes, 0o644)
}

// Clear drops the in-memory cache and removes every *.stubs file under
// the base directory.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.loaded = make(map[uint64]*lockedFile)
	c.mu.Unlock()

	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".stubs") {
			_ = os.Remove(filepath.Join(c.baseDir, e.Name()))
		}
	}
	return nil
}

// CachedAssetSummary describes one on-disk cache file without decoding
// every entry's metadata -- used by ScanAssets and as InspectAsset's
// header.
type CachedAssetSummary struct {
	Hash      string
	Path      string
	SizeBytes int64
	StubCount int
	Version   uint32
	CreatedAt int64
}

// CacheStats summarizes the whole cache directory.
type CacheStats struct {
	TotalAssets  int
	TotalEntries int
	CacheDir     string
}

// CacheInspectResult is InspectAsset's detailed view of one cache file.
type CacheInspectResult struct {
	Summary              CachedAssetSummary
	MetadataDistribution map[string]int
	SampleEntries        []string
}

// ScanAssets summarizes every cache file on disk (spec §4.8
// "scan_assets"), reading each file fresh rather than relying on
// whatever happens to be resident in memory.
func (c *Cache) ScanAssets() []CachedAssetSummary {
	entries, err := os.ReadDir(c.baseDir)
	if err != nil {
		return nil
	}

	var summaries []CachedAssetSummary
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".stubs") {
			continue
		}
		path := filepath.Join(c.baseDir, e.Name())
		info, err := e.Info()
		if err != nil {
			continue
		}
		bytes, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var file StubCacheFile
		if err := msgpack.Unmarshal(bytes, &file); err != nil {
			continue
		}
		summaries = append(summaries, CachedAssetSummary{
			Hash:      fmt.Sprintf("%016x", file.AssetHash),
			Path:      file.AssetPath,
			SizeBytes: info.Size(),
			StubCount: len(file.Entries),
			Version:   file.Version,
			CreatedAt: file.CreatedAt,
		})
	}
	return summaries
}

// InspectAsset finds the cache file whose hex hash starts with
// hashPrefix and returns its tag distribution plus up to 10 sample FQNs
// (spec §4.8 "inspect_asset").
func (c *Cache) InspectAsset(hashPrefix string) (CacheInspectResult, bool) {
	var target *CachedAssetSummary
	for _, s := range c.ScanAssets() {
		if strings.HasPrefix(s.Hash, hashPrefix) {
			s := s
			target = &s
			break
		}
	}
	if target == nil {
		return CacheInspectResult{}, false
	}

	hash, err := strconv.ParseUint(target.Hash, 16, 64)
	if err != nil {
		return CacheInspectResult{}, false
	}
	bytes, err := os.ReadFile(c.cachePath(hash))
	if err != nil {
		return CacheInspectResult{}, false
	}
	var file StubCacheFile
	if err := msgpack.Unmarshal(bytes, &file); err != nil {
		return CacheInspectResult{}, false
	}

	distribution := make(map[string]int)
	var samples []string
	for _, entry := range file.Entries {
		distribution[entry.Metadata.TypeTag]++
		if len(samples) < 10 {
			samples = append(samples, entry.FQN)
		}
	}

	return CacheInspectResult{
		Summary:              *target,
		MetadataDistribution: distribution,
		SampleEntries:        samples,
	}, true
}

// Stats aggregates ScanAssets into a single summary (spec §4.8 "stats").
func (c *Cache) Stats() CacheStats {
	summaries := c.ScanAssets()
	total := 0
	for _, s := range summaries {
		total += s.StubCount
	}
	return CacheStats{TotalAssets: len(summaries), TotalEntries: total, CacheDir: c.baseDir}
}
