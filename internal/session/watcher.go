package session

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const configDebounce = 100 * time.Millisecond

// ConfigWatcher calls OnChange after the config file is written, replaced or
// removed. Rapid bursts of events (editors often write a temp file and rename
// it) are coalesced into one call.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(path string)
	log      zerolog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	stopCh  chan struct{}
	stopped bool
	running bool
}

// NewConfigWatcher creates a watcher for the file at path.
func NewConfigWatcher(path string, onChange func(path string), log zerolog.Logger) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return nil, err
	}

	return &ConfigWatcher{
		watcher:  watcher,
		path:     abs,
		onChange: onChange,
		log:      log.With().Str("component", "config-watcher").Logger(),
		stopCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. The parent directory is watched so replacing the
// file keeps working.
func (cw *ConfigWatcher) Start() error {
	cw.mu.Lock()
	if cw.running {
		cw.mu.Unlock()
		return nil
	}
	if cw.stopped {
		cw.mu.Unlock()
		return fmt.Errorf("config watcher cannot be restarted after stop")
	}
	cw.running = true
	cw.mu.Unlock()

	if err := cw.watcher.Add(filepath.Dir(cw.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(cw.path), err)
	}

	go cw.run()
	return nil
}

// Stop stops watching. A stopped watcher cannot be restarted.
func (cw *ConfigWatcher) Stop() error {
	cw.mu.Lock()
	if !cw.running || cw.stopped {
		cw.mu.Unlock()
		return nil
	}
	cw.running = false
	cw.stopped = true
	if cw.timer != nil {
		cw.timer.Stop()
		cw.timer = nil
	}
	cw.mu.Unlock()

	close(cw.stopCh)
	return cw.watcher.Close()
}

func (cw *ConfigWatcher) run() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			cw.handleEvent(event)

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.log.Warn().Err(err).Msg("watch error")

		case <-cw.stopCh:
			return
		}
	}
}

func (cw *ConfigWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != cw.path {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	cw.mu.Lock()
	defer cw.mu.Unlock()
	if cw.stopped {
		return
	}
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.timer = time.AfterFunc(configDebounce, cw.emit)
}

func (cw *ConfigWatcher) emit() {
	cw.mu.Lock()
	if cw.stopped {
		cw.mu.Unlock()
		return
	}
	cw.timer = nil
	cw.mu.Unlock()

	cw.log.Debug().Str("path", cw.path).Msg("config changed")
	cw.onChange(cw.path)
}
