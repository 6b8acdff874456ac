// Package hello is an example handler module. It demonstrates the full
// module contract: declaring a configuration directive, participating in
// the per-request handler chain and emitting a response.
package hello

import (
	"net/http"

	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/internal/exchange"
	"github.com/modserve-project/modserve-go/internal/registry"
	"github.com/modserve-project/modserve-go/pkg/logger"
)

const (
	directiveName = "example_handler"
	helloPath     = "/hello"
)

// Module implements registry.Module.
type Module struct{}

func New() *Module {
	return &Module{}
}

func (m *Module) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:  "hello",
		Phase: registry.PhaseContent,
		Directives: map[string]config.DirectiveParser{
			directiveName: parseDirective,
		},
	}
}

// parseDirective resolves 'example_handler [bool]'. The bare form
// enables the handler; absence leaves it disabled.
func parseDirective(node *config.Node, site *config.SiteConfig) error {
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

// NewHandler creates a handler for one site. The enabled flag is resolved
// once here; the handler carries no other state.
func (m *Module) NewHandler(site *config.SiteConfig) (registry.Handler, error) {
	return &handler{enabled: site.BoolDirective(directiveName)}, nil
}

type handler struct {
	enabled bool
}

func (h *handler) HandleRequest(exch *exchange.Exchange) exchange.Outcome {
	if !h.enabled {
		return exchange.NotHandled
	}
	req := exch.Request.Request

	// Exact match: case-sensitive, no trailing-slash normalisation. The
	// query string is not part of the path.
	if req.URL.Path != helloPath {
		return exchange.NotHandled
	}

	rs := exch.ResponseState
	rs.StatusCode = http.StatusOK
	rs.Headers["Content-Type"] = "text/plain"
	rs.Body = []byte("Hello World!")

	logger.Debugf("handled request - method:%s, path:%s, status:%d", req.Method, req.URL.Path, rs.StatusCode)
	return exchange.Handled
}
