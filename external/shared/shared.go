package shared

import (
	"fmt"
	"net/rpc"

	goplugin "github.com/hashicorp/go-plugin"
)

// PluginName is the dispense key every external handler plugin serves.
const PluginName = "handler"

// Handshake is used to do a basic handshake between a plugin and the
// host. If the handshake fails, a user-friendly error is shown. This
// prevents users from executing bad plugins or executing a plugin
// directory. It is a UX feature, not a security feature.
var Handshake = goplugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "MODSERVE_HANDLER_PLUGIN",
	MagicCookieValue: "modserve",
}

// PluginMap builds the plugin map for either side of the connection. The
// host passes a nil impl; a plugin binary passes its implementation.
func PluginMap(impl ExternalHandler) map[string]goplugin.Plugin {
	return map[string]goplugin.Plugin{
		PluginName: &HandlerPlugin{Impl: impl},
	}
}

// HandlerRPC is the RPC client used by the host.
type HandlerRPC struct{ client *rpc.Client }

func (h *HandlerRPC) Configure(cfg ExternalConfig) error {
	var resp struct{} // No response needed
	if err := h.client.Call("Plugin.Configure", cfg, &resp); err != nil {
		return fmt.Errorf("plugin.Configure: %w", err)
	}
	return nil
}

func (h *HandlerRPC) Handle(args HandlerRequest) HandlerResponse {
	var resp HandlerResponse
	if err := h.client.Call("Plugin.Handle", args, &resp); err != nil {
		// Surface the failure as an error response so the host can log
		// it and stop the chain, rather than crashing the process.
		return HandlerResponse{
			StatusCode: 500,
			Body:       []byte(fmt.Sprintf("plugin.Handle: %v", err)),
		}
	}
	return resp
}

// HandlerRPCServer is the RPC server that HandlerRPC talks to, conforming
// to the requirements of net/rpc.
type HandlerRPCServer struct {
	Impl ExternalHandler
}

func (s *HandlerRPCServer) Configure(cfg ExternalConfig, resp *struct{}) error {
	if err := s.Impl.Configure(cfg); err != nil {
		return fmt.Errorf("plugin.Configure: %w", err)
	}
	*resp = struct{}{}
	return nil
}

func (s *HandlerRPCServer) Handle(args HandlerRequest, resp *HandlerResponse) error {
	*resp = s.Impl.Handle(args)
	return nil
}

// HandlerPlugin is the goplugin.Plugin implementation tying the RPC
// client and server halves together.
type HandlerPlugin struct {
	Impl ExternalHandler
}

func (p *HandlerPlugin) Server(*goplugin.MuxBroker) (interface{}, error) {
	return &HandlerRPCServer{Impl: p.Impl}, nil
}

func (HandlerPlugin) Client(b *goplugin.MuxBroker, c *rpc.Client) (interface{}, error) {
	return &HandlerRPC{client: c}, nil
}
