package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/config"
	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/langplugin"
	"github.com/naviscope/naviscope/internal/types"
)

// fakeIndexer produces no nodes or edges of its own; each file still
// reaches the graph through the RemovePath/UpdateFile ops the executor's
// lower stage emits -- enough to exercise Rebuild/Refresh/UpdateFiles
// without a real language plugin.
type fakeIndexer struct{}

func (fakeIndexer) CollectSource(path string, content []byte, ctx langplugin.ProjectContext) (langplugin.CollectArtifact, error) {
	return langplugin.CollectArtifact{}, nil
}
func (fakeIndexer) AnalyzeSource(a langplugin.CollectArtifact, ctx langplugin.ProjectContext) (langplugin.AnalyzeArtifact, error) {
	return langplugin.AnalyzeArtifact{}, nil
}
func (fakeIndexer) LowerSource(a langplugin.AnalyzeArtifact, ctx langplugin.ProjectContext) (langplugin.ResolvedUnit, error) {
	return langplugin.ResolvedUnit{}, nil
}

type fakePlugin struct {
	name string
	ext  string
}

func (p fakePlugin) Name() string              { return p.name }
func (p fakePlugin) Supports(path string) bool { return strings.HasSuffix(path, p.ext) }
func (p fakePlugin) Parse(path string, content []byte) (langplugin.ParseTree, error) {
	return string(content), nil
}
func (p fakePlugin) NamingConvention() fqn.NamingConvention  { return fqn.StandardNamingConvention{} }
func (p fakePlugin) NodePresenter() langplugin.NodePresenter { return fakePresenter{} }
func (p fakePlugin) SourceIndexer() langplugin.SourceIndexer { return fakeIndexer{} }
func (p fakePlugin) Semantic() langplugin.Semantic           { return nil }
func (p fakePlugin) MetadataCodec() langplugin.MetadataCodec { return nil }

type fakePresenter struct{}

func (fakePresenter) Present(node *types.GraphNode, atoms *fqn.Interner) langplugin.Presentation {
	return langplugin.Presentation{}
}

func testConfig(root string) *config.Config {
	return &config.Config{
		Project: config.Project{Root: root},
		Index: config.Index{
			MaxFileSize:  1 << 20,
			MaxFileCount: 1000,
			WatchMode:    true,
		},
		Performance: config.Performance{ParallelFileWorkers: 2},
		Pipeline: config.Pipeline{
			IntakeChannelSize:   8,
			DeferredChannelSize: 8,
			MaxInFlightMessages: 4,
			ReplayTickMs:        5,
		},
	}
}

func newTestEngine(t *testing.T, root string) *Engine {
	t.Helper()
	reg := langplugin.NewRegistry()
	reg.Register(fakePlugin{name: "fake", ext: ".fake"})
	e, err := New(testConfig(root), reg, nil, nil)
	require.NoError(t, err)
	return e
}

func TestRebuildScansDirectoryAndCommitsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Widget.fake"), []byte("widget"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("nope"), 0o644))

	e := newTestEngine(t, dir)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := e.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CommittedBatches)

	snap := e.Snapshot()
	assert.Contains(t, snap.Files(), filepath.Join(dir, "Widget.fake"))
}

func TestUpdateFilesRemovesVanishedPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Widget.fake")
	require.NoError(t, os.WriteFile(path, []byte("widget"), 0o644))

	e := newTestEngine(t, dir)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := e.Rebuild(ctx)
	require.NoError(t, err)
	require.Contains(t, e.Snapshot().Files(), path)

	require.NoError(t, os.Remove(path))
	_, err = e.UpdateFiles(ctx, []string{path})
	require.NoError(t, err)
	assert.NotContains(t, e.Snapshot().Files(), path)
}

func TestRefreshPicksUpChangedFilesOnly(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "A.fake")
	pathB := filepath.Join(dir, "B.fake")
	require.NoError(t, os.WriteFile(pathA, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(pathB, []byte("b"), 0o644))

	e := newTestEngine(t, dir)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := e.Rebuild(ctx)
	require.NoError(t, err)

	// No files changed since Rebuild's scan -- Refresh should be a no-op.
	stats, err := e.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.CommittedBatches)

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, os.WriteFile(pathA, []byte("a-changed"), 0o644))

	stats, err = e.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.CommittedBatches)
}

func TestQueryRunsAgainstCurrentSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Widget.fake"), []byte("widget"), 0o644))

	e := newTestEngine(t, dir)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := e.Rebuild(ctx)
	require.NoError(t, err)

	res, err := e.Query(ctx, GraphQuery{Verb: VerbFind, Pattern: ".*", Limit: 10})
	require.NoError(t, err)
	assert.NotNil(t, res)
}

func TestRequestStubForFQNMissesWithoutAssetService(t *testing.T) {
	e := newTestEngine(t, t.TempDir())
	_, ok := e.RequestStubForFQN("com.example.Missing")
	assert.False(t, ok)
}
