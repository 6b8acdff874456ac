package registry

import (
	"fmt"
	"sort"

	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/internal/exchange"
	"github.com/modserve-project/modserve-go/pkg/logger"
)

// Phase fixes a module's position in the handler chain. Within a phase,
// modules run in registration order.
type Phase int

const (
	// PhaseRouting modules make or observe authoritative routing
	// decisions before any content is produced.
	PhaseRouting Phase = iota

	// PhaseContent modules produce lightweight responses of their own.
	PhaseContent

	// PhaseUpstream modules dispatch to heavier backends: the
	// filesystem, external plugin processes, reverse proxies.
	PhaseUpstream
)

func (p Phase) String() string {
	switch p {
	case PhaseRouting:
		return "routing"
	case PhaseContent:
		return "content"
	case PhaseUpstream:
		return "upstream"
	default:
		return "unknown"
	}
}

// Descriptor is the static identity a module exposes to the host: its
// name, chain phase and the directive names it owns.
type Descriptor struct {
	Name       string
	Phase      Phase
	Directives map[string]config.DirectiveParser
}

// Handler processes one request. Implementations must be safe for
// concurrent use: the host invokes them across many in-flight requests
// sharing one immutable site configuration.
type Handler interface {
	HandleRequest(exch *exchange.Exchange) exchange.Outcome
}

// Module is the boundary contract a handler module satisfies so the host
// can discover, configure and invoke it. NewHandler must be pure with
// respect to the site configuration it receives: no global state, one
// independent handler per site.
type Module interface {
	Descriptor() Descriptor
	NewHandler(site *config.SiteConfig) (Handler, error)
}

// Registry owns the module set and the directive dispatch table. The
// host registers modules once at startup; the registry is read-only
// afterwards.
type Registry struct {
	modules []Module
	parsers map[string]config.DirectiveParser
	owners  map[string]string
}

func New() *Registry {
	return &Registry{
		parsers: make(map[string]config.DirectiveParser),
		owners:  make(map[string]string),
	}
}

// Register adds a module and claims its directive names. Directive names
// must be unique across modules.
func (r *Registry) Register(m Module) error {
	desc := m.Descriptor()
	for name, parser := range desc.Directives {
		if owner, taken := r.owners[name]; taken {
			return fmt.Errorf("directive %q already registered by module %q", name, owner)
		}
		r.parsers[name] = parser
		r.owners[name] = desc.Name
	}
	r.modules = append(r.modules, m)
	logger.Debugf("registered module %q (phase: %s, directives: %d)",
		desc.Name, desc.Phase, len(desc.Directives))
	return nil
}

// DirectiveParser resolves the parser for a directive name. It satisfies
// config.ParserLookup.
func (r *Registry) DirectiveParser(name string) (config.DirectiveParser, bool) {
	parser, ok := r.parsers[name]
	return parser, ok
}

// buildChain instantiates one handler per module for a site, ordered by
// phase then registration order.
func (r *Registry) buildChain(site *config.SiteConfig) ([]Handler, error) {
	ordered := make([]Module, len(r.modules))
	copy(ordered, r.modules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Descriptor().Phase < ordered[j].Descriptor().Phase
	})

	chain := make([]Handler, 0, len(ordered))
	for _, m := range ordered {
		h, err := m.NewHandler(site)
		if err != nil {
			return nil, fmt.Errorf("module %q: failed to create handler for site %q: %w",
				m.Descriptor().Name, site.HostPattern, err)
		}
		chain = append(chain, h)
	}
	return chain, nil
}

// Snapshot is one fully-resolved configuration generation: the site
// configurations and their pre-built handler chains. Snapshots are
// immutable; a reload produces a new Snapshot which the server swaps in
// atomically, so a request observes either the old or the new
// configuration, never a mixture.
type Snapshot struct {
	Sites  *config.Sites
	chains map[*config.SiteConfig][]Handler
}

// LoadSnapshot loads the site configuration from a directory and builds
// the per-site handler chains.
func (r *Registry) LoadSnapshot(configDir string) (*Snapshot, error) {
	sites, err := config.LoadSites(configDir, r.DirectiveParser)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Sites:  sites,
		chains: make(map[*config.SiteConfig][]Handler),
	}
	for _, site := range sites.All() {
		chain, err := r.buildChain(site)
		if err != nil {
			return nil, err
		}
		snap.chains[site] = chain
		logger.Debugf("built handler chain for site %q (%d handlers)", site.HostPattern, len(chain))
	}
	return snap, nil
}

// Chain returns the handler chain for a site in the snapshot.
func (s *Snapshot) Chain(site *config.SiteConfig) []Handler {
	return s.chains[site]
}
