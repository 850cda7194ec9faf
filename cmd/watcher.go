package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"alpinesearch-cli/cmd/config"

	"github.com/fsnotify/fsnotify"
)

// StartConfigWatcher watches the working directory for changes to the
// client config file and invokes onReload with the freshly parsed config.
// Events are debounced since editors fire several per save. The returned
// stop function releases the watcher.
func StartConfigWatcher(dir string, onReload func(*config.Config)) (func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	done := make(chan struct{})

	go func() {
		var timer *time.Timer
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !isConfigFile(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logDebug(fmt.Sprintf("config watcher: %s %s", event.Op, event.Name))
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(200*time.Millisecond, func() {
					cfg, err := config.LoadConfig(dir)
					if err != nil {
						logDebug(fmt.Sprintf("config watcher: reload failed: %v", err))
						return
					}
					onReload(cfg)
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logDebug(fmt.Sprintf("config watcher error: %v", err))
			case <-done:
				return
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}

func isConfigFile(path string) bool {
	base := filepath.Base(path)
	for _, name := range config.SupportedConfigFiles {
		if strings.EqualFold(base, name) {
			return true
		}
	}
	return false
}
