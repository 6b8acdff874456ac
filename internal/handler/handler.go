package handler

import (
	"net/http"
	"strings"

	"github.com/modserve-project/modserve-go/internal/exchange"
	"github.com/modserve-project/modserve-go/internal/registry"
	"github.com/modserve-project/modserve-go/pkg/logger"
)

// HandleRequest walks the site's handler chain for one request. The
// snapshot is fully resolved and immutable; it is safe to share across
// concurrent invocations.
func HandleRequest(w http.ResponseWriter, r *http.Request, snap *registry.Snapshot) {
	// Handle system endpoints
	if handleSystemEndpoint(w, r) {
		return
	}

	site := snap.Sites.Lookup(r.Host)
	if site == nil {
		logger.Debugf("no site configured for host %q - method:%s, path:%s", r.Host, r.Method, r.URL.Path)
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}

	exch := exchange.NewExchange(r)

	// Consult each handler in chain order until one produces a terminal
	// response.
	outcome := exchange.NotHandled
	for _, h := range snap.Chain(site) {
		if h.HandleRequest(exch) == exchange.Handled {
			outcome = exchange.Handled
			break
		}
	}

	// If no handler handled the request, return 404
	if outcome == exchange.NotHandled {
		exch.ResponseState.StatusCode = http.StatusNotFound
		exch.ResponseState.Headers["Content-Type"] = "text/plain"
		exch.ResponseState.Body = []byte("Resource not found")
	}

	logger.Tracef("request complete - id:%s, site:%s, method:%s, path:%s, outcome:%s, status:%d",
		exch.RequestID, site.HostPattern, r.Method, r.URL.Path, outcome, exch.ResponseState.StatusCode)

	// Write response to client
	exch.ResponseState.WriteToResponseWriter(w)
}

// handleSystemEndpoint handles host-level endpoints under /system/.
func handleSystemEndpoint(w http.ResponseWriter, r *http.Request) bool {
	switch {
	case strings.HasPrefix(r.URL.Path, "/system/store"):
		HandleStoreRequest(w, r)
		return true
	case r.URL.Path == "/system/status":
		handleStatusRequest(w, r)
		return true
	}
	return false
}
