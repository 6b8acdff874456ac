// Package metrics observes every request flowing through the chain and
// optionally exposes the Prometheus exposition endpoint per site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/internal/exchange"
	"github.com/modserve-project/modserve-go/internal/registry"
)

const (
	endpointDirective = "metrics_endpoint"
	defaultEndpoint   = "/metrics"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "modserve",
	Name:      "requests_total",
	Help:      "Requests observed by the handler chain, per site.",
}, []string{"site"})

// Module implements registry.Module. It registers in the routing phase
// so it observes requests before any content handler runs.
type Module struct{}

func New() *Module {
	return &Module{}
}

func (m *Module) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:  "metrics",
		Phase: registry.PhaseRouting,
		Directives: map[string]config.DirectiveParser{
			endpointDirective: parseEndpoint,
		},
	}
}

// parseEndpoint resolves 'metrics_endpoint [path]'. The bare form exposes
// the exposition endpoint at /metrics; omitting the directive keeps the
// endpoint off while requests are still counted.
func parseEndpoint(node *config.Node, site *config.SiteConfig) error {
	switch len(node.Args) {
	case 0:
		return site.SetDirective(node, config.StringValue(defaultEndpoint))
	case 1:
		if node.Args[0].Kind != config.KindString {
			return config.NewError(node, config.ErrInvalidArgument,
				"expected a string literal, got %s %s", node.Args[0].Kind, node.Args[0])
		}
		if node.Args[0].Str == "" || node.Args[0].Str[0] != '/' {
			return config.NewError(node, config.ErrInvalidArgument,
				"endpoint path must start with '/'")
		}
		return site.SetDirective(node, node.Args[0])
	default:
		return config.NewError(node, config.ErrInvalidArgument,
			"expects at most one argument, got %d", len(node.Args))
	}
}

func (m *Module) NewHandler(site *config.SiteConfig) (registry.Handler, error) {
	endpoint, _ := site.StringDirective(endpointDirective)
	return &handler{
		site:     site.HostPattern,
		endpoint: endpoint,
	}, nil
}

type handler struct {
	site     string
	endpoint string
}

func (h *handler) HandleRequest(exch *exchange.Exchange) exchange.Outcome {
	requestsTotal.WithLabelValues(h.site).Inc()

	req := exch.Request.Request
	if h.endpoint == "" || req.URL.Path != h.endpoint {
		return exchange.NotHandled
	}

	promhttp.Handler().ServeHTTP(exchange.NewStateWriter(exch.ResponseState), req)
	return exchange.Handled
}
