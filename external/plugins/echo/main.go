// Command echo is an example external handler plugin. It claims the
// /echo path and responds with a plain-text description of the request.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/modserve-project/modserve-go/external/shared"
)

var Version = "dev"

var logger = hclog.New(&hclog.LoggerOptions{
	Level:      hclog.Trace,
	Output:     os.Stderr,
	JSONFormat: true,
})

type Echo struct {
	logger hclog.Logger
	config shared.ExternalConfig
}

func main() {
	impl := &Echo{logger: logger}

	logger.Trace("echo plugin initialising", "version", Version)
	goplugin.Serve(&goplugin.ServeConfig{
		HandshakeConfig: shared.Handshake,
		Plugins:         shared.PluginMap(impl),
	})
}

func (e *Echo) Configure(cfg shared.ExternalConfig) error {
	e.config = cfg
	e.logger.Debug("echo plugin configured", "sites", len(cfg.Sites))
	return nil
}

func (e *Echo) Handle(args shared.HandlerRequest) shared.HandlerResponse {
	if args.Path != "/echo" {
		// Not ours; let the chain continue.
		return shared.HandlerResponse{StatusCode: 404}
	}

	var body strings.Builder
	fmt.Fprintf(&body, "%s %s\n", args.Method, args.Path)

	names := make([]string, 0, len(args.Headers))
	for name := range args.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&body, "%s: %s\n", name, args.Headers[name])
	}

	return shared.HandlerResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "text/plain"},
		Body:       []byte(body.String()),
	}
}
