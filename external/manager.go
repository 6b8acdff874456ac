// Package external hosts out-of-process handler modules. Plugins are
// separate executables discovered in the plugin directory and spoken to
// over go-plugin RPC; from the chain's perspective they behave like any
// other upstream-phase handler.
package external

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	goplugin "github.com/hashicorp/go-plugin"

	"github.com/modserve-project/modserve-go/external/shared"
	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/pkg/logger"
)

// pluginPrefix is the file name prefix marking executables in the plugin
// directory as handler plugins.
const pluginPrefix = "plugin-"

type loadedPlugin struct {
	name   string
	client *goplugin.Client
	impl   shared.ExternalHandler
}

// Manager owns the lifecycle of external handler plugins.
type Manager struct {
	pluginDir string
	hclogger  hclog.Logger
	loaded    []loadedPlugin
}

// NewManager creates a manager for a plugin directory. An empty directory
// path disables external plugins.
func NewManager(pluginDir string) *Manager {
	return &Manager{
		pluginDir: pluginDir,
		hclogger:  logger.Named("plugin"),
	}
}

// Start discovers and launches the plugin processes. Failures to start an
// individual plugin are logged and skipped so one bad plugin does not
// take the host down.
func (m *Manager) Start() {
	if m.pluginDir == "" {
		logger.Tracef("no external plugin directory configured")
		return
	}

	entries, err := os.ReadDir(m.pluginDir)
	if err != nil {
		logger.Warnf("failed to read plugin directory %s: %v", m.pluginDir, err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), pluginPrefix) {
			continue
		}
		m.start(strings.TrimPrefix(entry.Name(), pluginPrefix), filepath.Join(m.pluginDir, entry.Name()))
	}
}

func (m *Manager) start(pluginName string, pluginPath string) {
	logger.Debugf("loading external plugin: %s", pluginName)

	// We're a host! Start by launching the plugin process.
	client := goplugin.NewClient(&goplugin.ClientConfig{
		HandshakeConfig: shared.Handshake,
		Plugins:         shared.PluginMap(nil),
		Cmd:             exec.Command(pluginPath),
		Logger:          m.hclogger,
	})

	// Connect via RPC
	rpcClient, err := client.Client()
	if err != nil {
		logger.Errorf("failed to connect to plugin %s: %v", pluginName, err)
		client.Kill()
		return
	}

	// Request the plugin
	raw, err := rpcClient.Dispense(shared.PluginName)
	if err != nil {
		logger.Errorf("failed to dispense plugin %s: %v", pluginName, err)
		client.Kill()
		return
	}

	// We have a plugin stub now. This feels like a normal interface
	// implementation but is in fact over an RPC connection.
	m.loaded = append(m.loaded, loadedPlugin{
		name:   pluginName,
		client: client,
		impl:   raw.(shared.ExternalHandler),
	})
}

// HasPlugins reports whether any plugin is loaded.
func (m *Manager) HasPlugins() bool {
	return len(m.loaded) > 0
}

// Configure pushes the resolved site configuration to every loaded
// plugin. It is called after each successful configuration load.
func (m *Manager) Configure(sites *config.Sites) {
	if !m.HasPlugins() {
		return
	}

	cfg := shared.ExternalConfig{}
	for _, site := range sites.All() {
		settings := shared.SiteSettings{
			HostPattern: site.HostPattern,
			Directives:  make(map[string]string),
		}
		for _, name := range site.DirectiveNames() {
			value, _ := site.Directive(name)
			settings.Directives[name] = value.String()
		}
		cfg.Sites = append(cfg.Sites, settings)
	}

	for _, l := range m.loaded {
		if err := l.impl.Configure(cfg); err != nil {
			logger.Errorf("failed to configure plugin %s: %v", l.name, err)
		}
	}
}

// Invoke consults the loaded plugins in order until one handles the
// request. Returns nil when no plugin handled it.
func (m *Manager) Invoke(args shared.HandlerRequest) *shared.HandlerResponse {
	for _, l := range m.loaded {
		resp := l.impl.Handle(args)
		switch {
		case resp.StatusCode == 0 || resp.StatusCode == 404:
			// plugin did not handle the request, continue to the next plugin
			logger.Tracef("plugin %s did not handle the request, continuing to next plugin", l.name)
		case resp.StatusCode >= 100 && resp.StatusCode < 300:
			logger.Debugf("response from plugin %s: status=%d body=%d bytes", l.name, resp.StatusCode, len(resp.Body))
			return &resp
		default:
			logger.Errorf("error response from plugin %s: status=%d body=%d bytes", l.name, resp.StatusCode, len(resp.Body))
			return &resp
		}
	}
	return nil
}

// Stop kills all plugin processes.
func (m *Manager) Stop() {
	for _, l := range m.loaded {
		logger.Debugf("unloading external plugin: %s", l.name)
		l.client.Kill()
	}
	m.loaded = nil
}
