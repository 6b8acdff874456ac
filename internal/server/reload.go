package server

import (
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/modserve-project/modserve-go/pkg/logger"
)

// reloadDebounce coalesces bursts of filesystem events (editors often
// write a file several times) into a single reload.
const reloadDebounce = 500 * time.Millisecond

// watchConfig watches the config directory and triggers a reload when a
// site configuration file changes. Returns a stop function.
func (s *Server) watchConfig() (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(s.configDir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(reloadDebounce)
			timerC = timer.C
		}

		for {
			select {
			case <-stopCh:
				if timer != nil {
					timer.Stop()
				}
				return
			case <-timerC:
				timerC = nil
				s.reload()
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isConfigFile(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debugf("config change detected: %s (%s)", event.Name, event.Op)
				resetTimer()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warnf("config watch error: %v", err)
			}
		}
	}()

	logger.Infof("watching %s for configuration changes", s.configDir)
	return func() {
		close(stopCh)
		_ = watcher.Close()
		<-doneCh
	}, nil
}

// isConfigFile reports whether a changed file should trigger a reload.
// Only site configuration is hot-reloadable; modserve.yaml holds
// startup-only settings (port, store driver, plugin dir) and changes to
// it are intentionally ignored until restart.
func isConfigFile(name string) bool {
	return strings.HasSuffix(name, "-site.conf")
}
