package ipxserver

import (
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/r9s-ai/ipx/pkg/config"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// installConfigAutoReload watches cfgPath and reloads the config and
// source registry on change, debounced so a burst of writes from an
// editor only triggers one reload.
func installConfigAutoReload(cfgPath string, st *state, debounce time.Duration) (io.Closer, error) {
	if strings.TrimSpace(cfgPath) == "" {
		return nil, nil
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(cfgPath)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	triggerCh := make(chan struct{}, 1)

	var mu sync.Mutex

	go func() {
		defer close(doneCh)
		var (
			timer  *time.Timer
			timerC <-chan time.Time
		)
		resetTimer := func() {
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
				return
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			timerC = timer.C
		}
		runReload := func() {
			mu.Lock()
			defer mu.Unlock()
			cfg, err := config.Load(cfgPath)
			if err != nil {
				log.Printf("config auto-reload: load failed: %v", err)
				return
			}
			st.swap(cfg, buildRegistry(cfg))
			log.Printf("config auto-reload: reloaded %q", cfgPath)
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
				runReload()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("config auto-reload watcher error: %v", err)
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != filepath.Clean(cfgPath) {
					continue
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case triggerCh <- struct{}{}:
				default:
				}
			case <-triggerCh:
				resetTimer()
			}
		}
	}()

	return closerFunc(func() error {
		close(stopCh)
		_ = watcher.Close()
		<-doneCh
		return nil
	}), nil
}
