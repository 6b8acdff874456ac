package shared

import (
	"encoding/gob"
	"net/url"
)

func init() {
	// Register types for gob encoding across plugin boundaries
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})
	gob.Register([]string{})
	gob.Register(map[string]string{})
}

// HandlerRequest is the request view handed to an external handler.
type HandlerRequest struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string
}

// HandlerResponse is the response an external handler returns. A status
// code of 0 or 404 signals that the plugin did not handle the request
// and the chain should continue.
type HandlerResponse struct {
	StatusCode int
	Headers    map[string]string
	Body       []byte
}

// SiteSettings is the lightweight per-site view shared with plugins:
// directive values rendered in their configuration literal form.
type SiteSettings struct {
	HostPattern string
	Directives  map[string]string
}

// ExternalConfig carries the resolved configuration to a plugin. It is
// re-sent after every successful reload.
type ExternalConfig struct {
	Sites []SiteSettings
}

// ExternalHandler defines the interface external plugins implement.
type ExternalHandler interface {
	// Configure initialises the plugin with the loaded configuration.
	Configure(cfg ExternalConfig) error

	// Handle processes the given request and returns a response.
	// A status code of 0 or 404 means the plugin did not handle it.
	Handle(args HandlerRequest) HandlerResponse
}
