package gallery

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"soundfolio/logger"

	"github.com/fsnotify/fsnotify"
)

// defaultCovers is the fallback rotation set used when no asset
// directory is available.
var defaultCovers = []string{
	"/covers/albumcover1.webp",
	"/covers/albumcover2.webp",
	"/covers/albumcover3.webp",
	"/covers/albumcover4.webp",
}

// CoverSet holds the finite rotation set of cover art references.
// When backed by a local asset directory it refreshes itself on
// filesystem changes.
type CoverSet struct {
	mu      sync.RWMutex
	dir     string
	covers  []string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewCoverSet scans dir for image assets. A missing or empty directory
// yields the built-in default rotation set.
func NewCoverSet(dir string) *CoverSet {
	cs := &CoverSet{dir: dir, done: make(chan struct{})}
	cs.reload()
	return cs
}

// Watch refreshes the rotation set whenever the asset directory
// changes. It is a no-op if the directory cannot be watched.
func (cs *CoverSet) Watch() {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("cover watcher failed", logger.ErrorField(err))
		return
	}
	if err := watcher.Add(cs.dir); err != nil {
		logger.Warn("cover watcher add failed",
			logger.String("dir", cs.dir), logger.ErrorField(err))
		watcher.Close()
		return
	}

	cs.mu.Lock()
	cs.watcher = watcher
	cs.mu.Unlock()

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					cs.reload()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("cover watcher error", logger.ErrorField(err))
			case <-cs.done:
				return
			}
		}
	}()
}

// Close stops the watcher if one is running.
func (cs *CoverSet) Close() {
	close(cs.done)
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if cs.watcher != nil {
		cs.watcher.Close()
		cs.watcher = nil
	}
}

// Assign returns the cover for a catalog position: index mod the set
// size. Assignment is stable within one fetch cycle only.
func (cs *CoverSet) Assign(index int) string {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.covers[index%len(cs.covers)]
}

// Len reports the rotation set size.
func (cs *CoverSet) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.covers)
}

func (cs *CoverSet) reload() {
	covers := scanCovers(cs.dir)
	if len(covers) == 0 {
		covers = defaultCovers
	}

	cs.mu.Lock()
	cs.covers = covers
	cs.mu.Unlock()

	logger.Debug("cover set loaded", logger.Int("count", len(covers)))
}

func scanCovers(dir string) []string {
	if dir == "" {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var covers []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".webp", ".png", ".jpg", ".jpeg":
			covers = append(covers, "/covers/"+entry.Name())
		}
	}
	sort.Strings(covers)
	return covers
}
