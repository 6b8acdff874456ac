package external

import (
	"github.com/modserve-project/modserve-go/external/shared"
	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/internal/exchange"
	"github.com/modserve-project/modserve-go/internal/registry"
)

const gateDirective = "external_handlers"

// Module adapts the plugin manager to the host module contract so
// external plugins take part in the chain like built-in modules. Sites
// opt in with the 'external_handlers' directive.
type Module struct {
	manager *Manager
}

func NewModule(manager *Manager) *Module {
	return &Module{manager: manager}
}

func (m *Module) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:  "external",
		Phase: registry.PhaseUpstream,
		Directives: map[string]config.DirectiveParser{
			gateDirective: parseGate,
		},
	}
}

// parseGate resolves 'external_handlers [bool]'; the bare form opts in.
func parseGate(node *config.Node, site *config.SiteConfig) error {
	switch len(node.Args) {
	case 0:
		return site.SetDirective(node, config.BoolValue(true))
	case 1:
		if node.Args[0].Kind != config.KindBool {
			return config.NewError(node, config.ErrInvalidArgument,
				"expected a boolean literal, got %s %s", node.Args[0].Kind, node.Args[0])
		}
		return site.SetDirective(node, node.Args[0])
	default:
		return config.NewError(node, config.ErrInvalidArgument,
			"expects at most one argument, got %d", len(node.Args))
	}
}

func (m *Module) NewHandler(site *config.SiteConfig) (registry.Handler, error) {
	return &handler{
		enabled: site.BoolDirective(gateDirective),
		manager: m.manager,
	}, nil
}

type handler struct {
	enabled bool
	manager *Manager
}

func (h *handler) HandleRequest(exch *exchange.Exchange) exchange.Outcome {
	if !h.enabled || h.manager == nil || !h.manager.HasPlugins() {
		return exchange.NotHandled
	}

	req := exch.Request.Request
	headers := make(map[string]string, len(req.Header))
	for key := range req.Header {
		headers[key] = req.Header.Get(key)
	}

	resp := h.manager.Invoke(shared.HandlerRequest{
		Method:  req.Method,
		Path:    req.URL.Path,
		Query:   req.URL.Query(),
		Headers: headers,
	})
	if resp == nil {
		return exchange.NotHandled
	}

	rs := exch.ResponseState
	rs.StatusCode = resp.StatusCode
	for key, value := range resp.Headers {
		rs.Headers[key] = value
	}
	rs.Body = resp.Body
	return exchange.Handled
}
