package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/modserve-project/modserve-go/external"
	"github.com/modserve-project/modserve-go/internal/config"
	"github.com/modserve-project/modserve-go/internal/handler"
	"github.com/modserve-project/modserve-go/internal/registry"
	"github.com/modserve-project/modserve-go/internal/store"
	"github.com/modserve-project/modserve-go/module/hello"
	"github.com/modserve-project/modserve-go/module/metrics"
	"github.com/modserve-project/modserve-go/module/static"
	"github.com/modserve-project/modserve-go/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// Server hosts the handler chain. The current configuration snapshot is
// held behind an atomic pointer: requests load it once and see either
// the fully-old or fully-new generation, never a partial reload.
type Server struct {
	addr      string
	configDir string
	reg       *registry.Registry
	manager   *external.Manager
	snapshot  atomic.Pointer[registry.Snapshot]
}

// NewRegistry builds the host registry with the built-in modules and the
// external plugin adapter, in chain-phase order.
func NewRegistry(manager *external.Manager) (*registry.Registry, error) {
	reg := registry.New()
	modules := []registry.Module{
		metrics.New(),
		hello.New(),
		external.NewModule(manager),
		static.New(),
	}
	for _, m := range modules {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// New initialises the server for a config directory: host config, store
// provider, external plugins, module registry and the initial
// configuration snapshot. A configuration error at startup is fatal.
func New(configDir string) (*Server, error) {
	serverConfig, err := config.LoadServerConfig(configDir)
	if err != nil {
		return nil, err
	}

	store.InitProvider(serverConfig.StoreDriver)

	manager := external.NewManager(serverConfig.PluginDir)
	manager.Start()

	reg, err := NewRegistry(manager)
	if err != nil {
		manager.Stop()
		return nil, err
	}

	s := &Server{
		addr:      ":" + serverConfig.Port,
		configDir: configDir,
		reg:       reg,
		manager:   manager,
	}

	snap, err := reg.LoadSnapshot(configDir)
	if err != nil {
		manager.Stop()
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	manager.Configure(snap.Sites)
	s.snapshot.Store(snap)

	return s, nil
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	stopWatch, err := s.watchConfig()
	if err != nil {
		logger.Warnf("config auto-reload unavailable: %v", err)
	} else {
		defer stopWatch()
	}
	defer s.manager.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		handler.HandleRequest(w, r, s.snapshot.Load())
	})

	srv := &http.Server{Addr: s.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server is listening on %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Infoln("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// reload builds a new snapshot and swaps it in. A failed load keeps the
// previous snapshot serving.
func (s *Server) reload() {
	snap, err := s.reg.LoadSnapshot(s.configDir)
	if err != nil {
		logger.Errorf("configuration reload failed, keeping previous configuration: %v", err)
		return
	}
	s.manager.Configure(snap.Sites)
	s.snapshot.Store(snap)
	logger.Infof("configuration reloaded (%d sites)", len(snap.Sites.All()))
}
