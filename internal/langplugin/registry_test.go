package langplugin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naviscope/naviscope/internal/fqn"
	"github.com/naviscope/naviscope/internal/types"
)

type fakePresenter struct{}

func (fakePresenter) Present(node *types.GraphNode, atoms *fqn.Interner) Presentation {
	return Presentation{Summary: atoms.MustResolve(node.Name)}
}

type fakePlugin struct {
	name string
	ext  string
}

func (p fakePlugin) Name() string { return p.name }
func (p fakePlugin) Supports(path string) bool {
	return strings.HasSuffix(path, p.ext)
}
func (p fakePlugin) Parse(path string, content []byte) (ParseTree, error) {
	return string(content), nil
}
func (p fakePlugin) NamingConvention() fqn.NamingConvention { return fqn.StandardNamingConvention{} }
func (p fakePlugin) NodePresenter() NodePresenter           { return fakePresenter{} }

func TestRegistryForPath(t *testing.T) {
	r := NewRegistry()
	r.Register(fakePlugin{name: "java", ext: ".java"})
	r.Register(fakePlugin{name: "gradle", ext: ".gradle"})

	p, ok := r.ForPath("src/Main.java")
	require.True(t, ok)
	assert.Equal(t, "java", p.Name())

	_, ok = r.ForPath("README.md")
	assert.False(t, ok)
}

func TestRegistryGetByName(t *testing.T) {
	r := NewRegistry()
	r.Register(fakePlugin{name: "java", ext: ".java"})

	p, ok := r.Get("java")
	require.True(t, ok)
	assert.Equal(t, "java", p.Name())

	_, ok = r.Get("python")
	assert.False(t, ok)
}

func TestRegistryRegisterReplacesSameName(t *testing.T) {
	r := NewRegistry()
	r.Register(fakePlugin{name: "java", ext: ".java"})
	r.Register(fakePlugin{name: "java", ext: ".jav"})

	assert.Equal(t, []string{"java"}, r.Names())
	p, _ := r.Get("java")
	assert.True(t, p.Supports("x.jav"))
	assert.False(t, p.Supports("x.java"))
}

func TestRegistryNamesPreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(fakePlugin{name: "java", ext: ".java"})
	r.Register(fakePlugin{name: "gradle", ext: ".gradle"})

	assert.Equal(t, []string{"java", "gradle"}, r.Names())
}
