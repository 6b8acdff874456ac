package registry

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/internal/exchange"
)

// fakeModule records the order in which its handler runs.
type fakeModule struct {
	name       string
	phase      Phase
	directives map[string]config.DirectiveParser
	newErr     error
	order      *[]string
}

func (m *fakeModule) Descriptor() Descriptor {
	return Descriptor{Name: m.name, Phase: m.phase, Directives: m.directives}
}

func (m *fakeModule) NewHandler(site *config.SiteConfig) (Handler, error) {
	if m.newErr != nil {
		return nil, m.newErr
	}
	return &fakeHandler{name: m.name, order: m.order}, nil
}

type fakeHandler struct {
	name  string
	order *[]string
}

func (h *fakeHandler) HandleRequest(exch *exchange.Exchange) exchange.Outcome {
	if h.order != nil {
		*h.order = append(*h.order, h.name)
	}
	return exchange.NotHandled
}

func boolParser(node *config.Node, site *config.SiteConfig) error {
	return site.SetDirective(node, config.BoolValue(true))
}

func TestRegister_DuplicateDirective(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&fakeModule{
		name:       "first",
		directives: map[string]config.DirectiveParser{"shared_directive": boolParser},
	}))

	err := reg.Register(&fakeModule{
		name:       "second",
		directives: map[string]config.DirectiveParser{"shared_directive": boolParser},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `already registered by module "first"`)
}

func TestDirectiveParser_Lookup(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(&fakeModule{
		name:       "m",
		directives: map[string]config.DirectiveParser{"my_directive": boolParser},
	}))

	_, ok := reg.DirectiveParser("my_directive")
	assert.True(t, ok)
	_, ok = reg.DirectiveParser("other_directive")
	assert.False(t, ok)
}

func TestBuildChain_PhaseOrdering(t *testing.T) {
	var order []string
	reg := New()

	// register out of phase order; registration order breaks ties
	require.NoError(t, reg.Register(&fakeModule{name: "upstream-a", phase: PhaseUpstream, order: &order}))
	require.NoError(t, reg.Register(&fakeModule{name: "routing", phase: PhaseRouting, order: &order}))
	require.NoError(t, reg.Register(&fakeModule{name: "content", phase: PhaseContent, order: &order}))
	require.NoError(t, reg.Register(&fakeModule{name: "upstream-b", phase: PhaseUpstream, order: &order}))

	chain, err := reg.buildChain(config.NewSiteConfig("*"))
	require.NoError(t, err)
	require.Len(t, chain, 4)

	exch := exchange.NewExchange(newTestRequest(t))
	for _, h := range chain {
		h.HandleRequest(exch)
	}
	assert.Equal(t, []string{"routing", "content", "upstream-a", "upstream-b"}, order)
}

func TestLoadSnapshot(t *testing.T) {
	tempDir := t.TempDir()
	content := `
site "example.com" {
	enabled_directive
}

site "*" {
}
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "main-site.conf"), []byte(content), 0644))

	reg := New()
	require.NoError(t, reg.Register(&fakeModule{
		name:       "m",
		phase:      PhaseContent,
		directives: map[string]config.DirectiveParser{"enabled_directive": boolParser},
	}))

	snap, err := reg.LoadSnapshot(tempDir)
	require.NoError(t, err)

	site := snap.Sites.Lookup("example.com")
	require.NotNil(t, site)
	assert.True(t, site.BoolDirective("enabled_directive"))
	assert.Len(t, snap.Chain(site), 1)
	assert.Len(t, snap.Chain(snap.Sites.Lookup("other.com")), 1)
}

func TestLoadSnapshot_FactoryError(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "main-site.conf"), []byte("site \"*\" {\n}\n"), 0644))

	reg := New()
	require.NoError(t, reg.Register(&fakeModule{name: "broken", newErr: errors.New("boom")}))

	_, err := reg.LoadSnapshot(tempDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `module "broken"`)
}

func newTestRequest(t *testing.T) *http.Request {
	t.Helper()
	return httptest.NewRequest("GET", "/", nil)
}
