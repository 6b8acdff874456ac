// Package static serves files from a per-site document root. It sits in
// the upstream phase so lightweight content modules can intercept
// matching paths before the filesystem is consulted.
package static

import (
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/internal/exchange"
	"github.com/modserve-project/modserve-go/internal/registry"
	"github.com/modserve-project/modserve-go/pkg/logger"
	"github.com/modserve-project/modserve-go/pkg/utils"
)

const (
	rootDirective  = "static_root"
	indexDirective = "static_index"

	defaultIndexFile = "index.html"
)

// Module implements registry.Module.
type Module struct{}

func New() *Module {
	return &Module{}
}

func (m *Module) Descriptor() registry.Descriptor {
	return registry.Descriptor{
		Name:  "static",
		Phase: registry.PhaseUpstream,
		Directives: map[string]config.DirectiveParser{
			rootDirective:  parseStringDirective,
			indexDirective: parseStringDirective,
		},
	}
}

// parseStringDirective resolves a directive carrying exactly one string
// argument.
func parseStringDirective(node *config.Node, site *config.SiteConfig) error {
	if len(node.Args) != 1 {
		return config.NewError(node, config.ErrInvalidArgument,
			"expects exactly one argument, got %d", len(node.Args))
	}
	if node.Args[0].Kind != config.KindString {
		return config.NewError(node, config.ErrInvalidArgument,
			"expected a string literal, got %s %s", node.Args[0].Kind, node.Args[0])
	}
	return site.SetDirective(node, node.Args[0])
}

func (m *Module) NewHandler(site *config.SiteConfig) (registry.Handler, error) {
	root, _ := site.StringDirective(rootDirective)
	index, ok := site.StringDirective(indexDirective)
	if !ok {
		index = defaultIndexFile
	}
	return &handler{root: root, index: index}, nil
}

type handler struct {
	root  string
	index string
}

func (h *handler) HandleRequest(exch *exchange.Exchange) exchange.Outcome {
	if h.root == "" {
		return exchange.NotHandled
	}
	req := exch.Request.Request
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		return exchange.NotHandled
	}

	rel := strings.TrimPrefix(req.URL.Path, "/")
	if rel == "" || strings.HasSuffix(req.URL.Path, "/") {
		rel = filepath.Join(rel, h.index)
	}

	filePath, err := utils.ValidatePath(rel, h.root)
	if err != nil {
		logger.Warnf("rejected static file request - path:%s: %v", req.URL.Path, err)
		return exchange.NotHandled
	}

	info, err := os.Stat(filePath)
	if err == nil && info.IsDir() {
		filePath = filepath.Join(filePath, h.index)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		// Missing files fall through to the next handler in the chain.
		return exchange.NotHandled
	}

	rs := exch.ResponseState
	rs.StatusCode = http.StatusOK
	setContentType(rs, filePath)
	if req.Method != http.MethodHead {
		rs.Body = data
	}

	logger.Debugf("served static file %s - method:%s, path:%s, length:%d",
		filePath, req.Method, req.URL.Path, len(data))
	return exchange.Handled
}

// setContentType infers the Content-Type from the file extension.
func setContentType(rs *exchange.ResponseState, filePath string) {
	if _, exists := rs.Headers["Content-Type"]; exists {
		return
	}
	contentType := mime.TypeByExtension(filepath.Ext(filePath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	rs.Headers["Content-Type"] = contentType
}
